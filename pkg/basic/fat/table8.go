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

package fat

import (
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/raw"
)

// Table8 is an allocation table with one byte per group. A byte holds either
// the number of the next group in the chain, or one of the free, system, or
// final codes. Final codes carry the number of sectors used in the last group.
// Writes go to all copies of the table, reads use the first copy.
type Table8 struct {
	params *catalog.Params
	copies []*raw.Span
}

//
func NewTable8(p *catalog.Params, copies []*raw.Span) *Table8 {
	return &Table8{params: p, copies: copies}
}

//
func (t *Table8) GroupCount() int {
	return t.params.GroupCount()
}

//
func (t *Table8) EndGroup() int {
	return t.params.FatEndGroup
}

// Code returns the raw code of group g in copy c.
func (t *Table8) Code(c, g int) int {
	return int(t.copies[c].Get(t.params.FatOffset + g))
}

func (t *Table8) setCode(g, code int) {
	for _, c := range t.copies {
		c.Set(t.params.FatOffset+g, byte(code))
	}
}

// sectors decodes a final code into the number of used sectors, or -1
func (t *Table8) sectors(code int) int {
	n := code - t.params.GroupFinalBase - t.params.GroupFinalOffset
	if code >= t.params.GroupFinalBase && 1 <= n && n <= t.params.SectorsPerGroup {
		return n
	}
	return -1
}

// StateOf classifies a raw code.
func (t *Table8) StateOf(code int) base.GroupState {
	switch {
	case code == t.params.GroupUnused:
		return base.GroupFree
	case code == t.params.GroupSystem:
		return base.GroupSystem
	case t.sectors(code) > 0:
		return base.GroupFinal
	case 0 <= code && code <= t.params.FatEndGroup:
		return base.GroupUsed
	}
	return base.GroupInvalid
}

//
func (t *Table8) GroupState(g int) base.GroupState {
	if g < 0 || g > t.EndGroup() {
		return base.GroupInvalid
	}
	return t.StateOf(t.Code(0, g))
}

//
func (t *Table8) SetGroupState(g int, s base.GroupState) error {
	if g < 0 || g > t.EndGroup() {
		return base.NewError(base.CodeInvalidFat, g)
	}
	switch s {
	case base.GroupFree:
		t.setCode(g, t.params.GroupUnused)
	case base.GroupSystem:
		t.setCode(g, t.params.GroupSystem)
	case base.GroupFinal:
		return t.Terminate(g, t.params.SectorsPerGroup)
	default:
		return unsupported(s)
	}
	return nil
}

//
func (t *Table8) SupportedStates() []base.GroupState {
	return []base.GroupState{base.GroupFree, base.GroupSystem, base.GroupFinal}
}

//
func (t *Table8) IsUsed(g int) bool {
	return t.GroupState(g) != base.GroupFree
}

//
func (t *Table8) Link(g, next int) error {
	if g < 0 || g > t.EndGroup() || next < 0 || next > t.EndGroup() {
		return base.NewError(base.CodeInvalidFat, g)
	}
	t.setCode(g, next)
	return nil
}

//
func (t *Table8) Terminate(g, sectors int) error {
	if g < 0 || g > t.EndGroup() {
		return base.NewError(base.CodeInvalidFat, g)
	}
	if sectors < 1 || sectors > t.params.SectorsPerGroup {
		sectors = t.params.SectorsPerGroup
	}
	t.setCode(g, t.params.GroupFinalBase+sectors+t.params.GroupFinalOffset)
	return nil
}

//
func (t *Table8) LastSectors(g int) int {
	if n := t.sectors(t.Code(0, g)); n > 0 {
		return n
	}
	return t.params.SectorsPerGroup
}

//
func (t *Table8) NextInChain(g, hint int) int {
	if t.GroupState(g) != base.GroupUsed {
		return -1
	}
	return t.Code(0, g)
}

//
func (t *Table8) FindFreeRun(n int) int {
	return findFreeRun(t, n)
}

//
func (t *Table8) FindFree(from int) int {
	return findFree(t, from)
}

//
func (t *Table8) FreeGroupCount() int {
	return freeGroupCount(t)
}

//
func (t *Table8) FreeSize() int {
	return t.FreeGroupCount() * t.params.GroupSize()
}

//
func (t *Table8) Format() {
	for g := 0; g <= t.EndGroup(); g++ {
		t.setCode(g, t.params.GroupUnused)
	}
	for _, g := range t.params.SystemGroups {
		t.setCode(g, t.params.GroupSystem)
	}
}

// CopyMatchRatio returns the share of group codes that are identical across
// all copies.
func (t *Table8) CopyMatchRatio() float64 {
	if len(t.copies) < 2 {
		return 1.0
	}
	match := 0
	for g := 0; g <= t.EndGroup(); g++ {
		if t.copies[0].Equal(t.copies[len(t.copies)-1], t.params.FatOffset+g, 1) &&
			(len(t.copies) < 3 ||
				t.copies[0].Equal(t.copies[1], t.params.FatOffset+g, 1)) {
			match++
		}
	}
	return float64(match) / float64(t.GroupCount())
}

// ValidCodeRatio returns the share of group codes that decode to a valid
// state.
func (t *Table8) ValidCodeRatio() float64 {
	valid := 0
	for g := 0; g <= t.EndGroup(); g++ {
		if t.GroupState(g) != base.GroupInvalid {
			valid++
		}
	}
	return float64(valid) / float64(t.GroupCount())
}
