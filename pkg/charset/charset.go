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

package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// Translate converts a native name into a printable string. Printable ASCII
// is kept, the half-width katakana range is decoded as JIS X 0201, and
// everything else is replaced by '-'.
func Translate(b []byte) string {
	var sb strings.Builder
	dec := japanese.ShiftJIS.NewDecoder()
	for _, c := range b {
		switch {
		case 0x20 <= c && c < 0x7F:
			sb.WriteByte(c)
		case 0xA1 <= c && c <= 0xDF:
			if s, err := dec.Bytes([]byte{c}); err == nil {
				sb.Write(s)
			} else {
				sb.WriteByte('-')
			}
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Native converts s into native name bytes, the inverse of Translate for
// printable ASCII and half-width katakana.
func Native(s string) ([]byte, error) {
	ret := make([]byte, 0, len(s))
	enc := japanese.ShiftJIS.NewEncoder()
	for _, r := range s {
		if r < utf8.RuneSelf {
			if r < 0x20 || r == 0x7F {
				return nil, fmt.Errorf("control character in '%s'", s)
			}
			ret = append(ret, byte(r))
			continue
		}
		b, err := enc.Bytes([]byte(string(r)))
		if err != nil || len(b) != 1 || b[0] < 0xA1 || b[0] > 0xDF {
			return nil, fmt.Errorf("character '%c' not representable", r)
		}
		ret = append(ret, b[0])
	}
	return ret, nil
}
