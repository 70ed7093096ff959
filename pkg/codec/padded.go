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
)

// NameCodec converts between native names and fixed width name fields.
type NameCodec interface {
	// Decode extracts the name from field, without padding.
	Decode(field []byte) []byte
	// Encode returns name as a field of width bytes.
	Encode(name []byte, width int) ([]byte, error)
}

// NoCode marks an unused pad or terminator.
const NoCode = -1

// Padded encodes names into fixed width fields. A name shorter than the field
// is followed by an optional terminator, and the rest of the field is filled
// with the pad byte.
type Padded struct {
	Pad        int
	Terminator int
}

// Decode extracts the name from field, stopping at the terminator and
// stripping trailing pad bytes.
func (p Padded) Decode(field []byte) []byte {
	end := len(field)
	if p.Terminator != NoCode {
		for ix, b := range field {
			if int(b) == p.Terminator {
				end = ix
				break
			}
		}
	}
	if p.Pad != NoCode {
		for end > 0 && int(field[end-1]) == p.Pad {
			end--
		}
	}
	ret := make([]byte, end)
	copy(ret, field[:end])
	return ret
}

// Encode returns name padded to width.
func (p Padded) Encode(name []byte, width int) ([]byte, error) {
	if len(name) > width {
		return nil, fmt.Errorf("name '%s' longer than %d", name, width)
	}
	ret := make([]byte, width)
	n := copy(ret, name)
	if n < width && p.Terminator != NoCode {
		ret[n] = byte(p.Terminator)
		n++
	}
	pad := byte(0)
	if p.Pad != NoCode {
		pad = byte(p.Pad)
	}
	for ; n < width; n++ {
		ret[n] = pad
	}
	return ret, nil
}
