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

package r40

import (
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/basic/common"
	"github.com/xelalexv/basicdisk/pkg/codec"
)

// name and extension are stored as base-40 words, word0 overlays the first
// name word
var entryIndex = map[string][2]int{
	"name":  {0, 4},
	"ext":   {4, 2},
	"word0": {0, 2},
	"attr1": {6, 1},
	"attr2": {7, 1},
	"start": {8, 2},
	"extra": {10, 2},
	"size":  {12, 3},
}

var knownTypes = []catalog.SpecialAttr{
	{Value: 0x01, Mask: 0xFF, Type: base.TypeBasic, Name: "BAS"},
	{Value: 0x02, Mask: 0xFF, Type: base.TypeMachine, Name: "MCH"},
	{Value: 0x03, Mask: 0xFF, Type: base.TypeASCII, Name: "ASC"},
}

//
type entry struct {
	*common.Entry
}

func newEntry(p *catalog.Params, data []byte, index int) *entry {
	e := &entry{
		Entry: common.NewEntry(p, entryIndex, data, index, knownTypes)}
	e.SetNameCodec(codec.Base40Field{BigEndian: p.BigEndian})
	return e
}

func (e *entry) words() []uint16 {
	b := e.Block()
	ret := make([]uint16, 0, 3)
	for _, f := range []string{"name", "ext"} {
		data := b.GetBytes(f)
		for ix := 0; ix+1 < len(data); ix += 2 {
			lo, hi := data[ix], data[ix+1]
			if b.IsBigEndian() {
				lo, hi = hi, lo
			}
			ret = append(ret, uint16(hi)<<8|uint16(lo))
		}
	}
	return ret
}

// CheckUsed treats slots with an empty first name word or the delete code in
// the type byte as unused.
func (e *entry) CheckUsed(strict bool) bool {
	used := e.Block().GetInt("word0") != 0 &&
		e.Attr1() != e.Params().DeleteCode
	if strict {
		return used && e.HasValidStart()
	}
	return used
}

// HasValidName determines whether all name words are valid base-40.
func (e *entry) HasValidName() bool {
	for _, w := range e.words() {
		if !codec.IsBase40Word(w) {
			return false
		}
	}
	return true
}

//
func (e *entry) Validate(afterEnd bool) bool {
	if !e.CheckUsed(false) {
		return true
	}
	return e.HasValidName() && e.HasValidStart()
}

//
func (e *entry) Delete() {
	e.SetAttr1(e.Params().DeleteCode)
}
