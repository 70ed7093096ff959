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

package sdos

import (
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/basic/common"
)

// multi-byte values are big-endian
var entryIndex = map[string][2]int{
	"attr1": {0, 1},
	"name":  {1, 8},
	"attr2": {9, 1},
	"start": {10, 2},
	"size":  {12, 2},
	"load":  {14, 2},
}

const unusedType = 0x00

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
	return &entry{
		Entry: common.NewEntry(p, entryIndex, data, index, knownTypes)}
}

//
func (e *entry) CheckUsed(strict bool) bool {
	t := e.Attr1()
	used := t != unusedType && t != e.Params().DeleteCode
	if strict {
		return used && e.HasValidStart()
	}
	return used
}

//
func (e *entry) Validate(afterEnd bool) bool {
	if !e.CheckUsed(false) {
		return true
	}
	return e.HasValidStart() && e.HasPrintableName()
}

//
func (e *entry) Delete() {
	e.SetAttr1(e.Params().DeleteCode)
}
