/*
   BasicDisk - BASIC disk image filesystem engine
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of BasicDisk.

   BasicDisk is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   BasicDisk is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with BasicDisk. If not, see <http://www.gnu.org/licenses/>.
*/

package raw

// Block is a named-field view over a byte slice. The index maps each field
// name to its offset and length within Data. If a block is inverted, all
// stored bytes are the bitwise complement of their logical value. Multi-byte
// integers are stored in the block's byte order. Both transforms are applied
// by the accessors only, callers always see logical values.
type Block struct {
	index     map[string][2]int
	Data      []byte
	invert    bool
	bigEndian bool
}

//
func NewBlock(index map[string][2]int, data []byte) *Block {
	return &Block{index: index, Data: data}
}

// NewCodedBlock creates a block that applies inversion and byte order to all
// field accesses.
func NewCodedBlock(index map[string][2]int, data []byte,
	invert, bigEndian bool) *Block {
	return &Block{index: index, Data: data, invert: invert, bigEndian: bigEndian}
}

//
func (b *Block) IsInverted() bool {
	return b.invert
}

//
func (b *Block) IsBigEndian() bool {
	return b.bigEndian
}

// Has determines whether key is a field of this block that fits into Data.
func (b *Block) Has(key string) bool {
	_, _, ok := b.field(key)
	return ok
}

// Len returns the length of field key, or 0 if not present.
func (b *Block) Len(key string) int {
	if start, end, ok := b.field(key); ok {
		return end - start
	}
	return 0
}

func (b *Block) field(key string) (int, int, bool) {
	if ix, ok := b.index[key]; ok {
		start := ix[0]
		end := start + ix[1]
		if 0 <= start && start < end && end <= len(b.Data) {
			return start, end, true
		}
	}
	return 0, 0, false
}

func (b *Block) code(v byte) byte {
	if b.invert {
		return ^v
	}
	return v
}

//
func (b *Block) GetByte(key string) byte {
	if start, end, ok := b.field(key); ok && end-start == 1 {
		return b.code(b.Data[start])
	}
	return 0
}

//
func (b *Block) SetByte(key string, v byte) {
	if start, end, ok := b.field(key); ok && end-start == 1 {
		b.Data[start] = b.code(v)
	}
}

// GetSlice returns the stored bytes of field key, without applying inversion.
// The returned slice is a view into Data.
func (b *Block) GetSlice(key string) []byte {
	if start, end, ok := b.field(key); ok {
		return b.Data[start:end]
	}
	return []byte{}
}

// GetBytes returns a copy of the logical bytes of field key.
func (b *Block) GetBytes(key string) []byte {
	stored := b.GetSlice(key)
	ret := make([]byte, len(stored))
	for ix, v := range stored {
		ret[ix] = b.code(v)
	}
	return ret
}

// SetBytes stores the logical bytes v into field key. If v is shorter than the
// field, the remainder is left untouched, excess bytes are dropped.
func (b *Block) SetBytes(key string, v []byte) {
	stored := b.GetSlice(key)
	for ix := 0; ix < len(stored) && ix < len(v); ix++ {
		stored[ix] = b.code(v[ix])
	}
}

// Fill sets all bytes of field key to logical value v.
func (b *Block) Fill(key string, v byte) {
	stored := b.GetSlice(key)
	for ix := range stored {
		stored[ix] = b.code(v)
	}
}

// FillAll sets all bytes of Data to logical value v.
func (b *Block) FillAll(v byte) {
	for ix := range b.Data {
		b.Data[ix] = b.code(v)
	}
}

// GetInt reads field key as an unsigned integer of 1 to 4 bytes. Returns -1 if
// the field is not present or has an unsupported width.
func (b *Block) GetInt(key string) int {
	bytes := b.GetSlice(key)
	if len(bytes) < 1 || len(bytes) > 4 {
		return -1
	}
	ret := 0
	for ix := range bytes {
		v := bytes[ix]
		if b.bigEndian {
			ret = ret<<8 | int(b.code(v))
		} else {
			ret |= int(b.code(v)) << (8 * ix)
		}
	}
	return ret
}

// SetInt stores v into field key, truncated to the field's width.
func (b *Block) SetInt(key string, v int) {
	bytes := b.GetSlice(key)
	if len(bytes) < 1 || len(bytes) > 4 {
		return
	}
	n := len(bytes)
	for ix := 0; ix < n; ix++ {
		shift := 8 * ix
		if b.bigEndian {
			shift = 8 * (n - 1 - ix)
		}
		bytes[ix] = b.code(byte(v >> shift))
	}
}

//
func (b *Block) GetString(key string) string {
	return string(b.GetBytes(key))
}

//
func (b *Block) Sum(key string) int {
	sum := 0
	for _, s := range b.GetBytes(key) {
		sum += int(s)
	}
	return sum
}

// IsFilled determines whether all logical bytes of Data equal v.
func (b *Block) IsFilled(v byte) bool {
	for _, d := range b.Data {
		if b.code(d) != v {
			return false
		}
	}
	return true
}
