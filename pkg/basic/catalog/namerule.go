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

package catalog

import (
	"strings"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
)

// NameRule restricts file names or extensions.
type NameRule struct {
	// if not empty, only these characters may appear
	Allowed string
	// characters that must never appear
	Forbidden string
	// runs of these characters are collapsed into one
	Dedup     string
	MaxLength int
	Required  bool
	Upper     bool
}

// Normalize applies case conversion and deduplication, and truncates name to
// MaxLength.
func (r NameRule) Normalize(name []byte) []byte {
	ret := make([]byte, 0, len(name))
	for _, c := range name {
		if r.Upper && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		if n := len(ret); n > 0 && ret[n-1] == c &&
			strings.IndexByte(r.Dedup, c) >= 0 {
			continue
		}
		ret = append(ret, c)
	}
	if r.MaxLength > 0 && len(ret) > r.MaxLength {
		ret = ret[:r.MaxLength]
	}
	return ret
}

// Validate checks name against the rule. ext selects the error reported for a
// missing value.
func (r NameRule) Validate(name []byte, ext bool) error {
	if len(name) == 0 {
		if !r.Required {
			return nil
		}
		if ext {
			return base.ErrExtRequired
		}
		return base.ErrNameRequired
	}
	if r.MaxLength > 0 && len(name) > r.MaxLength {
		return base.NewError(base.CodeInvalidName, string(name))
	}
	for _, c := range name {
		if strings.IndexByte(r.Forbidden, c) >= 0 ||
			(r.Allowed != "" && strings.IndexByte(r.Allowed, c) < 0) {
			return base.NewError(base.CodeInvalidName, string(name))
		}
	}
	return nil
}
