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

// Span is a contiguous logical byte window over a sequence of buffers, e.g.
// an allocation table stored across several sectors. Like Block, a Span may
// be inverted.
type Span struct {
	parts  [][]byte
	length int
	invert bool
}

//
func NewSpan(invert bool, parts ...[]byte) *Span {
	s := &Span{parts: parts, invert: invert}
	for _, p := range parts {
		s.length += len(p)
	}
	return s
}

//
func (s *Span) Len() int {
	return s.length
}

func (s *Span) locate(ix int) ([]byte, int) {
	if ix < 0 {
		return nil, 0
	}
	for _, p := range s.parts {
		if ix < len(p) {
			return p, ix
		}
		ix -= len(p)
	}
	return nil, 0
}

// Get returns the logical byte at ix, or 0 if ix is out of range.
func (s *Span) Get(ix int) byte {
	if p, off := s.locate(ix); p != nil {
		if s.invert {
			return ^p[off]
		}
		return p[off]
	}
	return 0
}

//
func (s *Span) Set(ix int, v byte) {
	if p, off := s.locate(ix); p != nil {
		if s.invert {
			v = ^v
		}
		p[off] = v
	}
}

// Fill sets all bytes in [from, to) to logical value v.
func (s *Span) Fill(from, to int, v byte) {
	for ix := from; ix < to && ix < s.length; ix++ {
		s.Set(ix, v)
	}
}

// Equal compares the logical bytes in [from, from+n) of both spans.
func (s *Span) Equal(o *Span, from, n int) bool {
	for ix := from; ix < from+n; ix++ {
		if s.Get(ix) != o.Get(ix) {
			return false
		}
	}
	return true
}
