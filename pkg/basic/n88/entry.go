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

package n88

import (
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/basic/common"
)

//
var entryIndex = map[string][2]int{
	"first": {0, 1},
	"name":  {0, 6},
	"ext":   {6, 3},
	"attr1": {9, 1},
	"start": {10, 1},
}

const endMarker = 0xFF

// native type codes, the flag bits are masked out before lookup
var knownTypes = []catalog.SpecialAttr{
	{Value: 0x80, Mask: 0x81, Type: base.TypeBasic, Name: "BAS"},
	{Value: 0x01, Mask: 0x81, Type: base.TypeMachine, Name: "MCH"},
	{Value: 0x00, Mask: 0x81, Type: base.TypeASCII, Name: "ASC"},
}

//
type entry struct {
	*common.Entry
}

func newEntry(p *catalog.Params, data []byte, index int) *entry {
	return &entry{
		Entry: common.NewEntry(p, entryIndex, data, index, knownTypes)}
}

func (e *entry) first() int {
	return int(e.Block().GetByte("first"))
}

// IsEnd is true for a slot starting with 0xFF, no files follow it.
func (e *entry) IsEnd() bool {
	return e.first() == endMarker
}

//
func (e *entry) CheckUsed(strict bool) bool {
	f := e.first()
	used := f != endMarker && f != e.Params().DeleteCode
	if strict {
		return used && e.HasValidStart()
	}
	return used
}

//
func (e *entry) Validate(afterEnd bool) bool {
	if afterEnd {
		return e.IsBlank()
	}
	if !e.CheckUsed(false) {
		return true
	}
	return e.HasValidStart() && e.HasPrintableName()
}

//
func (e *entry) Delete() {
	e.Block().SetByte("first", byte(e.Params().DeleteCode))
}
