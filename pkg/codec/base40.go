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

package codec

import (
	"fmt"
	"strings"
)

// Base40Alphabet lists the characters representable in a base-40 packed
// name, in code order. Code 0, the space, doubles as the pad character.
const Base40Alphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-$"

// Base40Pad is the character used for unused positions.
const Base40Pad = ' '

const (
	base40Radix = 40
	// largest valid word, "$$$"
	base40Max = base40Radix*base40Radix*base40Radix - 1
)

// Base40Char returns the code of c, or -1 if c is not in the alphabet. Lower
// case letters are folded to upper case.
func Base40Char(c byte) int {
	if 'a' <= c && c <= 'z' {
		c -= 'a' - 'A'
	}
	return strings.IndexByte(Base40Alphabet, c)
}

// EncodeBase40Word packs up to three characters into one 16-bit word. Missing
// positions are padded.
func EncodeBase40Word(s string) (uint16, error) {
	if len(s) > 3 {
		return 0, fmt.Errorf("more than 3 characters: '%s'", s)
	}
	w := 0
	for ix := 0; ix < 3; ix++ {
		c := 0
		if ix < len(s) {
			if c = Base40Char(s[ix]); c < 0 {
				return 0, fmt.Errorf("character '%c' not encodable", s[ix])
			}
		}
		w = w*base40Radix + c
	}
	return uint16(w), nil
}

// DecodeBase40Word unpacks a 16-bit word into three characters. Words outside
// of the encodable range decode to '?' in the leading position.
func DecodeBase40Word(w uint16) string {
	var ret [3]byte
	v := int(w)
	for ix := 2; ix >= 0; ix-- {
		ret[ix] = Base40Alphabet[v%base40Radix]
		v /= base40Radix
	}
	if v > 0 {
		ret[0] = '?'
	}
	return string(ret[:])
}

// IsBase40Word determines whether w can be produced by EncodeBase40Word.
func IsBase40Word(w uint16) bool {
	return int(w) <= base40Max
}

// EncodeBase40 packs s into the given number of words.
func EncodeBase40(s string, words int) ([]uint16, error) {
	if len(s) > 3*words {
		return nil, fmt.Errorf("'%s' exceeds %d characters", s, 3*words)
	}
	ret := make([]uint16, words)
	for ix := range ret {
		from := 3 * ix
		if from >= len(s) {
			break
		}
		to := from + 3
		if to > len(s) {
			to = len(s)
		}
		w, err := EncodeBase40Word(s[from:to])
		if err != nil {
			return nil, err
		}
		ret[ix] = w
	}
	return ret, nil
}

// DecodeBase40 unpacks words, keeping pad characters of unused positions.
func DecodeBase40(words []uint16) string {
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(DecodeBase40Word(w))
	}
	return sb.String()
}

// Base40Field is a NameCodec storing base-40 words in fields of even width.
type Base40Field struct {
	BigEndian bool
}

//
func (b Base40Field) Decode(field []byte) []byte {
	words := make([]uint16, len(field)/2)
	for ix := range words {
		lo, hi := field[2*ix], field[2*ix+1]
		if b.BigEndian {
			lo, hi = hi, lo
		}
		words[ix] = uint16(hi)<<8 | uint16(lo)
	}
	return []byte(strings.TrimRight(DecodeBase40(words), string(Base40Pad)))
}

//
func (b Base40Field) Encode(name []byte, width int) ([]byte, error) {
	words, err := EncodeBase40(string(name), width/2)
	if err != nil {
		return nil, err
	}
	ret := make([]byte, width)
	for ix, w := range words {
		lo, hi := byte(w), byte(w>>8)
		if b.BigEndian {
			lo, hi = hi, lo
		}
		ret[2*ix], ret[2*ix+1] = lo, hi
	}
	return ret, nil
}
