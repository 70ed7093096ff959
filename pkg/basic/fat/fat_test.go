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
	"testing"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

func blank(t *testing.T, p *catalog.Params) *disk.Flat {
	img, err := disk.NewBlankFlat(p.Geometry)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func newTable(t *testing.T, name string) (base.AllocationTable, *catalog.Params, *disk.Flat) {
	p := catalog.Builtin().FindByName("", name)
	img := blank(t, p)
	spans, err := Spans(img, p)
	if err != nil {
		t.Fatal(err)
	}
	var tbl base.AllocationTable
	switch p.Driver {
	case "n88", "hu", "cdos":
		tbl = NewTable8(p, spans)
	case "mz":
		tbl = NewBitmap(p, spans[0])
	case "sdos":
		tbl = NewChained(p, spans[0], func(l int) []byte {
			return disk.SectorAt(img, l)
		}, 0x0000)
	case "r40":
		tbl = NewChained(p, spans[0], func(l int) []byte {
			return disk.SectorAt(img, l)
		}, 0xFFFF)
	}
	tbl.Format()
	return tbl, p, img
}

var allFormats = []string{
	"n88_2d", "n88_2dd", "hu_2d", "cdos_2d", "mz_2d", "mz_2dd", "sdos_2d", "r40_2d"}

func firstUserGroup(p *catalog.Params) int {
	for g := 0; g <= p.FatEndGroup; g++ {
		if !p.IsSystemGroup(g) {
			return g
		}
	}
	return -1
}

func TestTable_StateInverse(t *testing.T) {
	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			tbl, p, _ := newTable(t, name)
			for g := 0; g <= tbl.EndGroup(); g++ {
				if p.IsSystemGroup(g) {
					continue
				}
				for _, s := range tbl.SupportedStates() {
					if err := tbl.SetGroupState(g, s); err != nil {
						t.Fatalf("SetGroupState(%d, %v): %v", g, s, err)
					}
					if got := tbl.GroupState(g); got != s {
						t.Fatalf("GroupState(%d) = %v, want %v", g, got, s)
					}
				}
				tbl.SetGroupState(g, base.GroupFree)
			}
		})
	}
}

func TestTable_Format(t *testing.T) {
	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			tbl, p, _ := newTable(t, name)
			for _, g := range p.SystemGroups {
				if got := tbl.GroupState(g); got != base.GroupSystem {
					t.Errorf("system group %d is %v", g, got)
				}
			}
			free := tbl.GroupCount() - len(p.SystemGroups)
			if got := tbl.FreeGroupCount(); got != free {
				t.Errorf("FreeGroupCount() = %d, want %d", got, free)
			}
			if got := tbl.FreeSize(); got != free*p.GroupSize() {
				t.Errorf("FreeSize() = %d, want %d", got, free*p.GroupSize())
			}
			if got := tbl.GroupState(tbl.EndGroup() + 1); got != base.GroupInvalid {
				t.Errorf("group beyond end is %v", got)
			}
		})
	}
}

func TestTable_ChainAndAccounting(t *testing.T) {
	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			tbl, p, _ := newTable(t, name)
			before := tbl.FreeSize()
			start := tbl.FindFreeRun(3)
			if start != firstUserGroup(p) {
				t.Fatalf("FindFreeRun(3) = %d, want %d", start, firstUserGroup(p))
			}
			if err := tbl.Link(start, start+1); err != nil {
				t.Fatal(err)
			}
			if err := tbl.Link(start+1, start+2); err != nil {
				t.Fatal(err)
			}
			if err := tbl.Terminate(start+2, 1); err != nil {
				t.Fatal(err)
			}
			if got := tbl.NextInChain(start, 0); got != start+1 {
				t.Errorf("NextInChain(%d) = %d", start, got)
			}
			if got := tbl.NextInChain(start+2, 0); got != -1 {
				t.Errorf("NextInChain(last) = %d, want -1", got)
			}
			if got := tbl.FreeSize(); got != before-3*p.GroupSize() {
				t.Errorf("FreeSize() = %d, want %d", got, before-3*p.GroupSize())
			}
			if got := tbl.FindFree(0); got != start+3 {
				t.Errorf("FindFree(0) = %d, want %d", got, start+3)
			}
			for g := start; g < start+3; g++ {
				tbl.SetGroupState(g, base.GroupFree)
			}
			if got := tbl.FreeSize(); got != before {
				t.Errorf("FreeSize() after release = %d, want %d", got, before)
			}
		})
	}
}

func TestTable8_Codes(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		sectors int
		code    int
	}{
		{name: "n88 final", format: "n88_2d", sectors: 3, code: 0xC3},
		{name: "hu final", format: "hu_2d", sectors: 1, code: 0x80},
		{name: "hu full", format: "hu_2d", sectors: 16, code: 0x8F},
		{name: "cdos final", format: "cdos_2d", sectors: 8, code: 0xE8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, _, _ := newTable(t, tt.format)
			t8 := tbl.(*Table8)
			t8.Terminate(10, tt.sectors)
			if got := t8.Code(0, 10); got != tt.code {
				t.Errorf("code = %x, want %x", got, tt.code)
			}
			if got := t8.LastSectors(10); got != tt.sectors {
				t.Errorf("LastSectors() = %d, want %d", got, tt.sectors)
			}
			if got := t8.GroupState(10); got != base.GroupFinal {
				t.Errorf("GroupState() = %v", got)
			}
		})
	}
}

func TestTable8_Copies(t *testing.T) {
	tbl, _, img := newTable(t, "cdos_2d")
	t8 := tbl.(*Table8)
	t8.Link(20, 21)
	// stored inverted in both copies
	if a, b := disk.SectorAt(img, 2)[20], disk.SectorAt(img, 3)[20]; a != ^byte(21) || b != a {
		t.Errorf("copies hold %x and %x", a, b)
	}
	if r := t8.CopyMatchRatio(); r != 1.0 {
		t.Errorf("CopyMatchRatio() = %f", r)
	}
	disk.SectorAt(img, 3)[20] = 0
	if r := t8.CopyMatchRatio(); r >= 1.0 {
		t.Errorf("CopyMatchRatio() after damage = %f", r)
	}
	disk.SectorAt(img, 2)[30] = ^byte(0xF0)
	if r := t8.ValidCodeRatio(); r != 159.0/160.0 {
		t.Errorf("ValidCodeRatio() = %f", r)
	}
}

func TestBitmap_BitOrder(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		offset  int
		stored  byte
		inverse bool
	}{
		// group 33: byte 4, bit 1
		{name: "lsb used", format: "mz_2d", stored: 0x02, inverse: true},
		{name: "msb used", format: "sdos_2d", stored: 0x40},
		{name: "lsb free set", format: "r40_2d", offset: 0x10, stored: 0xFD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, p, img := newTable(t, tt.format)
			for g := 32; g < 40; g++ {
				tbl.SetGroupState(g, base.GroupFree)
			}
			tbl.SetGroupState(33, base.GroupUsed)
			got := disk.SectorAt(img, p.FatStartSector)[tt.offset+4]
			if tt.inverse {
				got = ^got
			}
			if got != tt.stored {
				t.Errorf("stored bitmap byte = %x, want %x", got, tt.stored)
			}
		})
	}
}

func TestChained_Pointers(t *testing.T) {
	tbl, p, img := newTable(t, "sdos_2d")
	c := tbl.(*Chained)
	c.Link(12, 40)
	sec := disk.SectorAt(img, p.GroupSectors(12))
	if sec[254] != 0 || sec[255] != 40 {
		t.Errorf("trailer = % x", sec[254:])
	}
	if got := c.NextInChain(12, 0); got != 40 {
		t.Errorf("NextInChain() = %d", got)
	}
	c.Terminate(40, 1)
	if got := c.Pointer(40); got != 0 {
		t.Errorf("Pointer() = %d, want end code", got)
	}
	// pointer beyond table terminates
	sec = disk.SectorAt(img, p.GroupSectors(41))
	sec[254], sec[255] = 0x7F, 0xFF
	if got := c.NextInChain(41, 0); got != -1 {
		t.Errorf("NextInChain() for invalid pointer = %d", got)
	}
}

func TestSpans_AbsentSector(t *testing.T) {
	p := catalog.Builtin().FindByName("", "n88_2d")
	img, _ := disk.NewFlat(p.Geometry, make([]byte, 600*256))
	if _, err := Spans(img, p); err == nil {
		t.Errorf("Spans() on truncated image succeeded")
	}
	img, _ = disk.NewFlat(p.Geometry, make([]byte, 610*256))
	spans, err := Spans(img, p)
	if err != nil || len(spans) != 3 {
		t.Errorf("Spans() = %d, %v", len(spans), err)
	}
}
