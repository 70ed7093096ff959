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
	"testing"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

func formatted(t *testing.T) (*Driver, *disk.Flat) {
	t.Helper()
	p := catalog.Builtin().FindByName("", "n88_2d")
	img, err := disk.NewBlankFlat(p.Geometry)
	if err != nil {
		t.Fatal(err)
	}
	d := New(p, img)
	if err := d.Format(base.Volume{}); err != nil {
		t.Fatal(err)
	}
	return d, img
}

// corrupt sets the codes of n user groups in the given table copies
func corrupt(img *disk.Flat, p *catalog.Params, n int, code byte, copies ...int) {
	for _, c := range copies {
		sec := disk.SectorAt(img, p.FatStartSector+c*p.FatSectors)
		for g, done := 1, 0; done < n; g++ {
			if p.IsSystemGroup(g) {
				continue
			}
			sec[g] = code
			done++
		}
	}
}

func TestCheckFat_Fresh(t *testing.T) {
	d, _ := formatted(t)
	if got := d.CheckFat(false); got != 1 {
		t.Errorf("CheckFat() = %.3f on fresh disk", got)
	}
	if got := d.CheckFat(true); got != 1 {
		t.Errorf("CheckFat(formatting) = %.3f", got)
	}
}

func TestCheckFat_ValidCodeThreshold(t *testing.T) {
	tests := []struct {
		invalid int
		match   bool
	}{
		{16, true},
		{17, false},
	}
	for _, tt := range tests {
		d, img := formatted(t)
		corrupt(img, d.Params(), tt.invalid, 0xF0, 0, 1, 2)
		if got := d.CheckFat(false); (got >= 0) != tt.match {
			t.Errorf("%d invalid codes of 160: CheckFat() = %.3f", tt.invalid, got)
		}
	}
}

func TestCheckFat_CopyThreshold(t *testing.T) {
	tests := []struct {
		differing int
		match     bool
	}{
		{16, true},
		{17, false},
	}
	for _, tt := range tests {
		d, img := formatted(t)
		corrupt(img, d.Params(), tt.differing, 0x05, 2)
		if got := d.CheckFat(false); (got >= 0) != tt.match {
			t.Errorf("%d differing codes of 160: CheckFat() = %.3f",
				tt.differing, got)
		}
	}
}

func TestCheckFat_SystemGroup(t *testing.T) {
	d, img := formatted(t)
	p := d.Params()
	for c := 0; c < p.FatCount; c++ {
		disk.SectorAt(img, p.FatStartSector+c)[0] = byte(p.GroupUnused)
	}
	if got := d.CheckFat(false); got >= 0 {
		t.Errorf("CheckFat() = %.3f with unreserved system group", got)
	}
}

func TestEntry_EndMarker(t *testing.T) {

	p := catalog.Builtin().FindByName("", "n88_2d")
	data := make([]byte, 2*p.DirEntrySize)
	for ix := range data {
		data[ix] = 0xFF
	}
	first := newEntry(p, data[:16], 0)
	second := newEntry(p, data[16:], 1)

	if !first.IsEnd() || first.CheckUsed(false) {
		t.Fatal("0xFF slot is not the end marker")
	}
	if !second.Validate(true) {
		t.Error("blank slot after end marker rejected")
	}

	first.Clear()
	first.SetName([]byte("GAME"), []byte("BAS"))
	first.SetStartGroup(3)
	if first.IsEnd() || !first.CheckUsed(true) {
		t.Fatal("named slot not in use")
	}
	if first.Name() != "GAME" || first.Ext() != "BAS" {
		t.Errorf("name is %s.%s", first.Name(), first.Ext())
	}

	second.Clear()
	second.SetName([]byte("X"), nil)
	if second.Validate(true) {
		t.Error("used slot after end marker accepted")
	}

	first.Delete()
	if data[0] != byte(p.DeleteCode) || first.CheckUsed(false) {
		t.Errorf("deleted slot starts with %#x", data[0])
	}
}

func TestEntry_Attributes(t *testing.T) {

	p := catalog.Builtin().FindByName("", "n88_2d")
	e := newEntry(p, make([]byte, p.DirEntrySize), 0)

	tests := []struct {
		native int
		want   base.FileType
	}{
		{0x80, base.TypeBasic},
		{0x90, base.TypeBasic | base.TypeReadOnly},
		{0x01, base.TypeMachine},
		{0x00, base.TypeASCII},
		{0x81, base.TypeBinary},
		{0xC1, base.TypeBinary | base.TypeEncrypted},
		{0x21, base.TypeMachine | base.TypeVerify},
	}
	for _, tt := range tests {
		e.SetAttr1(tt.native)
		a := e.FileAttr()
		if a.Type != tt.want {
			t.Errorf("%#x decodes to %v, want %v", tt.native, a.Type, tt.want)
		}
		e.SetAttr1(0xFF)
		if err := e.SetFileAttr(a); err != nil {
			t.Fatal(err)
		}
		if got := e.Attr1(); got != tt.native {
			t.Errorf("%v encodes to %#x, want %#x", a.Type, got, tt.native)
		}
	}
}
