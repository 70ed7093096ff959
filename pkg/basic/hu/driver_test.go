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
	"testing"
	"time"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

func TestEntry_Date(t *testing.T) {

	p := catalog.Builtin().FindByName("", "hu_2d")
	data := make([]byte, p.DirEntrySize)
	e := newEntry(p, data, 0)

	when := time.Date(1986, time.March, 14, 21, 5, 30, 0, time.Local)
	e.SetDate(when)
	if data[24] != 0x86 || data[26] != 0x14 {
		t.Errorf("date stored as % x", data[24:27])
	}
	if data[25]>>4 != 3 {
		t.Errorf("month stored as %#x", data[25]>>4)
	}
	got := e.Date()
	if got.Year() != 1986 || got.Month() != time.March || got.Day() != 14 ||
		got.Hour() != 21 || got.Minute() != 5 || got.Second() != 30 {
		t.Errorf("Date() = %v, want %v", got, when)
	}
}

func TestEntry_Attributes(t *testing.T) {

	p := catalog.Builtin().FindByName("", "hu_2d")
	e := newEntry(p, make([]byte, p.DirEntrySize), 0)

	tests := []struct {
		native int
		want   base.FileType
	}{
		{0x80, base.TypeDirectory},
		{0x01, base.TypeBinary},
		{0x02, base.TypeBasic},
		{0x04, base.TypeASCII},
		{0x08, base.TypeSystem},
		{0x41, base.TypeBinary | base.TypeReadOnly},
		{0x12, base.TypeBasic | base.TypeHidden},
	}
	for _, tt := range tests {
		e.SetAttr1(tt.native)
		if got := e.FileAttr().Type; got != tt.want {
			t.Errorf("%#x decodes to %v, want %v", tt.native, got, tt.want)
		}
	}
}

func TestDriver_SubDirectory(t *testing.T) {

	p := catalog.Builtin().FindByName("", "hu_2d")
	img, _ := disk.NewBlankFlat(p.Geometry)
	d := New(p, img)
	if err := d.Format(base.Volume{}); err != nil {
		t.Fatal(err)
	}

	dir, err := d.ReadDirectory(base.RootDirectory)
	if err != nil {
		t.Fatal(err)
	}
	e := dir.Entries[0]
	e.Clear()
	e.SetName([]byte("GAMES"), nil)
	e.SetFileAttr(base.NewFileAttr(base.TypeDirectory))
	free := d.Table().FreeGroupCount()
	if err := d.MakeDirectory(e); err != nil {
		t.Fatal(err)
	}
	if got := d.Table().FreeGroupCount(); got != free-p.SubDirGroups {
		t.Errorf("FreeGroupCount() = %d, want %d", got, free-p.SubDirGroups)
	}

	sub, err := d.ReadDirectory(e.StartGroup())
	if err != nil {
		t.Fatal(err)
	}
	if !sub.Entries[0].IsEnd() {
		t.Error("new subdirectory not empty")
	}
	if got := d.CheckFat(false); got < 0 {
		t.Errorf("CheckFat() = %.3f with subdirectory", got)
	}

	img.SetWriteProtected(true)
	o := dir.Entries[1]
	o.Clear()
	if err := d.MakeDirectory(o); err == nil {
		t.Error("directory created on write protected disk")
	}
}

func TestDriver_SubDirectoryAbsentGroup(t *testing.T) {

	p := catalog.Builtin().FindByName("", "hu_2d")
	img, _ := disk.NewBlankFlat(p.Geometry)
	if err := New(p, img).Format(base.Volume{}); err != nil {
		t.Fatal(err)
	}

	// keep system groups only, the first free group is absent
	g := p.Geometry
	truncated, err := disk.NewFlat(g, img.Bytes()[:2*p.GroupSize()])
	if err != nil {
		t.Fatal(err)
	}
	d := New(p, truncated)
	if err := d.AssignFat(); err != nil {
		t.Fatal(err)
	}
	free := d.Table().FreeGroupCount()

	dir, err := d.ReadDirectory(base.RootDirectory)
	if err != nil {
		t.Fatal(err)
	}
	e := dir.Entries[0]
	e.Clear()
	e.SetName([]byte("GAMES"), nil)
	e.SetFileAttr(base.NewFileAttr(base.TypeDirectory))

	if err := d.MakeDirectory(e); err == nil {
		t.Fatal("directory created in absent group")
	}
	if got := d.Table().FreeGroupCount(); got != free {
		t.Errorf("FreeGroupCount() = %d after failure, want %d", got, free)
	}
}
