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

package hu

import (
	"time"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/basic/common"
	"github.com/xelalexv/basicdisk/pkg/codec"
)

//
var entryIndex = map[string][2]int{
	"attr1": {0, 1},
	"name":  {1, 13},
	"ext":   {14, 3},
	"attr2": {17, 1},
	"size":  {18, 2},
	"load":  {20, 2},
	"exec":  {22, 2},
	"date":  {24, 3},
	"time":  {27, 3},
	"start": {30, 2},
}

const endMarker = 0xFF

var knownTypes = []catalog.SpecialAttr{
	{Value: 0x80, Mask: 0x80, Type: base.TypeDirectory, Name: "DIR"},
	{Value: 0x01, Mask: 0x07, Type: base.TypeBinary, Name: "BIN"},
	{Value: 0x02, Mask: 0x07, Type: base.TypeBasic, Name: "BAS"},
	{Value: 0x04, Mask: 0x07, Type: base.TypeASCII, Name: "ASC"},
}

//
type entry struct {
	*common.Entry
}

func newEntry(p *catalog.Params, data []byte, index int) *entry {
	return &entry{
		Entry: common.NewEntry(p, entryIndex, data, index, knownTypes)}
}

// IsEnd is true for a mode byte of 0xFF, no files follow.
func (e *entry) IsEnd() bool {
	return e.Attr1() == endMarker
}

//
func (e *entry) CheckUsed(strict bool) bool {
	mode := e.Attr1()
	used := mode != endMarker && mode != e.Params().DeleteCode
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
	e.SetAttr1(e.Params().DeleteCode)
}

// Date decodes the BCD date and time fields.
func (e *entry) Date() time.Time {
	d := codec.DecodeBCDDate(e.Block().GetBytes("date"))
	if hh, mm, ss, ok := codec.DecodeBCDTime(e.Block().GetBytes("time")); ok {
		return codec.Combine(d, hh, mm, ss)
	}
	return d
}

//
func (e *entry) SetDate(t time.Time) {
	e.Block().SetBytes("date", codec.EncodeBCDDate(t))
	e.Block().SetBytes("time", codec.EncodeBCDTime(t))
}
