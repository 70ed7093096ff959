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

package mz

import (
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/basic/common"
)

//
var entryIndex = map[string][2]int{
	"attr1": {0, 1},
	"name":  {1, 17},
	"attr2": {18, 1},
	"size":  {20, 2},
	"load":  {22, 2},
	"exec":  {24, 2},
	"date":  {26, 2},
	"time":  {28, 2},
	"start": {30, 2},
}

var knownTypes = []catalog.SpecialAttr{
	{Value: 0x01, Mask: 0xFF, Type: base.TypeMachine, Name: "OBJ"},
	{Value: 0x02, Mask: 0xFF, Type: base.TypeBasic, Name: "BTX"},
	{Value: 0x03, Mask: 0xFF, Type: base.TypeData, Name: "BSD"},
	{Value: 0x04, Mask: 0xFF, Type: base.TypeRandom, Name: "BRD"},
}

//
type entry struct {
	*common.Entry
}

func newEntry(p *catalog.Params, data []byte, index int) *entry {
	return &entry{
		Entry: common.NewEntry(p, entryIndex, data, index, knownTypes)}
}

// CheckUsed tests the type byte, 0 marks a free slot. With strict set, the
// whole file also needs to lie within the disk.
func (e *entry) CheckUsed(strict bool) bool {
	used := e.Attr1() != e.Params().DeleteCode
	if strict {
		p := e.Params()
		last := e.StartGroup() + (e.Size()+p.GroupSize()-1)/p.GroupSize() - 1
		return used && e.HasValidStart() && last <= p.FatEndGroup
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
