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

package fat

import (
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/raw"
)

// Bitmap is an allocation table with one bit per group. Depending on the
// parameters, a set bit marks a used or a free group, and bit 0 of a byte is
// either its least or most significant bit. Files are stored in consecutive
// groups, so the chain successor of a group is the next higher group.
type Bitmap struct {
	params *catalog.Params
	bits   *raw.Span
}

//
func NewBitmap(p *catalog.Params, bits *raw.Span) *Bitmap {
	return &Bitmap{params: p, bits: bits}
}

//
func (b *Bitmap) GroupCount() int {
	return b.params.GroupCount()
}

//
func (b *Bitmap) EndGroup() int {
	return b.params.FatEndGroup
}

func (b *Bitmap) locate(g int) (int, byte) {
	bit := uint(g % 8)
	if b.params.BitmapMSBFirst {
		bit = 7 - bit
	}
	return b.params.FatOffset + g/8, 1 << bit
}

func (b *Bitmap) isSet(g int) bool {
	ix, mask := b.locate(g)
	return b.bits.Get(ix)&mask != 0
}

func (b *Bitmap) mark(g int, used bool) {
	ix, mask := b.locate(g)
	v := b.bits.Get(ix)
	if used != b.params.BitmapFreeSet {
		v |= mask
	} else {
		v &^= mask
	}
	b.bits.Set(ix, v)
}

//
func (b *Bitmap) IsUsed(g int) bool {
	if g < 0 || g > b.EndGroup() {
		return true
	}
	return b.isSet(g) != b.params.BitmapFreeSet
}

//
func (b *Bitmap) GroupState(g int) base.GroupState {
	if g < 0 || g > b.EndGroup() {
		return base.GroupInvalid
	}
	if !b.IsUsed(g) {
		return base.GroupFree
	}
	if b.params.IsSystemGroup(g) {
		return base.GroupSystem
	}
	return base.GroupUsed
}

//
func (b *Bitmap) SetGroupState(g int, s base.GroupState) error {
	if g < 0 || g > b.EndGroup() {
		return base.NewError(base.CodeInvalidFat, g)
	}
	switch s {
	case base.GroupFree:
		b.mark(g, false)
	case base.GroupUsed, base.GroupSystem, base.GroupFinal:
		b.mark(g, true)
	default:
		return unsupported(s)
	}
	return nil
}

//
func (b *Bitmap) SupportedStates() []base.GroupState {
	return []base.GroupState{base.GroupFree, base.GroupUsed}
}

//
func (b *Bitmap) Link(g, next int) error {
	if next != g+1 {
		return base.NewError(base.CodeInvalidFat, next)
	}
	return b.SetGroupState(g, base.GroupUsed)
}

//
func (b *Bitmap) Terminate(g, sectors int) error {
	return b.SetGroupState(g, base.GroupUsed)
}

//
func (b *Bitmap) LastSectors(g int) int {
	return b.params.SectorsPerGroup
}

//
func (b *Bitmap) NextInChain(g, hint int) int {
	if g+1 > b.EndGroup() || !b.IsUsed(g) || !b.IsUsed(g+1) {
		return -1
	}
	return g + 1
}

//
func (b *Bitmap) FindFreeRun(n int) int {
	return findFreeRun(b, n)
}

//
func (b *Bitmap) FindFree(from int) int {
	return findFree(b, from)
}

//
func (b *Bitmap) FreeGroupCount() int {
	return freeGroupCount(b)
}

//
func (b *Bitmap) FreeSize() int {
	return b.FreeGroupCount() * b.params.GroupSize()
}

//
func (b *Bitmap) Format() {
	for g := 0; g <= b.EndGroup(); g++ {
		b.mark(g, false)
	}
	for _, g := range b.params.SystemGroups {
		b.mark(g, true)
	}
}
