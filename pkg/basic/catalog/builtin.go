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
	"github.com/xelalexv/basicdisk/pkg/disk"
)

const (
	Category1D  = "1D"
	Category2D  = "2D"
	Category2DD = "2DD"
)

var (
	geometry1D = disk.Geometry{
		Sides: 1, Tracks: 40, SectorsPerTrack: 16, SectorSize: 256,
		SectorBase: 1}
	geometry2D = disk.Geometry{
		Sides: 2, Tracks: 40, SectorsPerTrack: 16, SectorSize: 256,
		SectorBase: 1}
	geometry2DD = disk.Geometry{
		Sides: 2, Tracks: 80, SectorsPerTrack: 16, SectorSize: 256,
		SectorBase: 1}
)

const forbiddenChars = "\"*,/:;<>?\\|"

// formatName names a format after its driver and category, e.g. n88_2dd.
func formatName(driver, category string) string {
	return driver + "_" + strings.ToLower(category)
}

func groups(from, to int) []int {
	ret := make([]int, 0, to-from+1)
	for g := from; g <= to; g++ {
		ret = append(ret, g)
	}
	return ret
}

// Builtin returns the catalog of all supported formats.
func Builtin() *Catalog {
	c, err := New(
		n88(Category1D, geometry1D, 8, 288, 301),
		n88(Category2D, geometry2D, 8, 592, 605),
		n88(Category2DD, geometry2DD, 16, 1184, 1213),
		hu(),
		cdos(),
		mz(Category1D, geometry1D),
		mz(Category2D, geometry2D),
		mz(Category2DD, geometry2DD),
		sdos(),
		r40(),
	)
	if err != nil {
		// built-in parameters are static
		panic(err)
	}
	return c
}

func n88(category string, g disk.Geometry, spg, dir, fat int) *Params {
	return &Params{
		Name:        formatName("n88", category),
		Category:    category,
		Driver:      "n88",
		Description: "N88-BASIC, 8-bit allocation table",
		Geometry:    g,

		SectorsPerGroup: spg,
		FatStartSector:  fat,
		FatSectors:      1,
		FatCount:        3,
		FatEndGroup:     g.TotalSectors()/spg - 1,

		GroupUnused:    0xFF,
		GroupSystem:    0xFE,
		GroupFinalBase: 0xC0,

		DirStartSector: dir,
		DirEndSector:   dir + 11,
		DirEntrySize:   16,
		SystemGroups:   []int{0, dir / spg, fat / spg},

		DeleteCode:     0x00,
		FillCodeFile:   0xFF,
		FillCodeDir:    0xFF,
		NameTerminator: -1,
		NamePad:        ' ',

		NameRule: NameRule{Forbidden: forbiddenChars + ".", MaxLength: 6,
			Required: true},
		ExtRule: NameRule{Forbidden: forbiddenChars + ".", MaxLength: 3},

		TypeAttr: 1,
		FlagAttr: 1,
		SpecialAttrs: []SpecialAttr{
			{Value: 0x81, Mask: 0x81, Type: base.TypeBinary, Name: "BIN"},
		},
		AttrFlags: []AttrFlag{
			{Mask: 0x10, Type: base.TypeReadOnly},
			{Mask: 0x20, Type: base.TypeVerify},
			{Mask: 0x40, Type: base.TypeEncrypted},
		},
	}
}

func hu() *Params {
	return &Params{
		Name:        "hu_2d",
		Category:    Category2D,
		Driver:      "hu",
		Description: "Hu-BASIC, 8-bit allocation table with subdirectories",
		Geometry:    geometry2D,

		SectorsPerGroup: 16,
		FatStartSector:  14,
		FatSectors:      1,
		FatCount:        1,
		FatEndGroup:     79,

		GroupUnused:      0x00,
		GroupSystem:      0x01,
		GroupFinalBase:   0x80,
		GroupFinalOffset: -1,

		DirStartSector: 16,
		DirEndSector:   31,
		DirEntrySize:   32,
		SubDirGroups:   1,
		MaxDirDepth:    8,
		SystemGroups:   []int{0, 1},

		DeleteCode:     0x00,
		FillCodeFile:   0x00,
		FillCodeDir:    0xFF,
		NameTerminator: -1,
		NamePad:        ' ',

		NameRule: NameRule{Forbidden: forbiddenChars, Dedup: " ",
			MaxLength: 13, Required: true},
		ExtRule: NameRule{Forbidden: forbiddenChars + ".", MaxLength: 3},

		TypeAttr: 1,
		FlagAttr: 1,
		SpecialAttrs: []SpecialAttr{
			{Value: 0x08, Mask: 0x08, Type: base.TypeSystem, Name: "SYS"},
		},
		AttrFlags: []AttrFlag{
			{Mask: 0x10, Type: base.TypeHidden},
			{Mask: 0x20, Type: base.TypeVerify},
			{Mask: 0x40, Type: base.TypeReadOnly},
		},
		MaxFileSize: 0xFFFF,
	}
}

func cdos() *Params {
	return &Params{
		Name:        "cdos_2d",
		Category:    Category2D,
		Driver:      "cdos",
		Description: "C-DOS, inverted data, big-endian, 8-bit allocation table",
		Geometry:    geometry2D,

		SectorsPerGroup: 8,
		FatStartSector:  2,
		FatSectors:      1,
		FatCount:        2,
		FatEndGroup:     159,

		GroupUnused:    0x00,
		GroupSystem:    0xFE,
		GroupFinalBase: 0xE0,

		DirStartSector: 4,
		DirEndSector:   15,
		DirEntrySize:   32,
		SystemGroups:   []int{0, 1},

		DeleteCode:     0xE5,
		FillCodeFile:   0x00,
		FillCodeDir:    0x00,
		NameTerminator: -1,
		NamePad:        ' ',

		DataInverted: true,
		BigEndian:    true,

		NameRule: NameRule{Forbidden: forbiddenChars + ".", MaxLength: 8,
			Required: true, Upper: true},
		ExtRule: NameRule{Forbidden: forbiddenChars + ".", MaxLength: 3,
			Upper: true},

		TypeAttr: 1,
		FlagAttr: 2,
		SpecialAttrs: []SpecialAttr{
			{Value: 0x05, Mask: 0xFF, Type: base.TypeRandom, Name: "RND"},
			{Value: 0x06, Mask: 0xFF, Type: base.TypeSystem, Name: "SYS"},
		},
		AttrFlags: []AttrFlag{
			{Mask: 0x01, Type: base.TypeReadOnly},
			{Mask: 0x02, Type: base.TypeHidden},
		},
		MaxFileSize: 0xFFFFFF,
	}
}

func mz(category string, g disk.Geometry) *Params {
	return &Params{
		Name:        formatName("mz", category),
		Category:    category,
		Driver:      "mz",
		Description: "MZ DISK BASIC, inverted data, allocation bitmap",
		Geometry:    g,

		SectorsPerGroup: 1,
		FatStartSector:  14,
		FatSectors:      2,
		FatCount:        1,
		FatEndGroup:     g.TotalSectors() - 1,
		Contiguous:      true,

		DirStartSector: 16,
		DirEndSector:   31,
		DirEntrySize:   32,
		SystemGroups:   groups(0, 31),

		DeleteCode:     0x00,
		FillCodeFile:   0x00,
		FillCodeDir:    0x00,
		NameTerminator: 0x0D,
		NamePad:        0x0D,

		DataInverted: true,

		NameRule: NameRule{Forbidden: forbiddenChars, MaxLength: 17,
			Required: true, Upper: true},

		TypeAttr: 1,
		FlagAttr: 2,
		SpecialAttrs: []SpecialAttr{
			{Value: 0x05, Mask: 0xFF, Type: base.TypeASCII, Name: "ASC"},
		},
		AttrFlags: []AttrFlag{
			{Mask: 0x01, Type: base.TypeReadOnly},
			{Mask: 0x02, Type: base.TypeHidden},
		},
		VolumeNameMax: 13,
		MaxFileSize:   0xFFFF,
	}
}

func sdos() *Params {
	return &Params{
		Name:        "sdos_2d",
		Category:    Category2D,
		Driver:      "sdos",
		Description: "S-DOS, allocation bitmap, chain pointers in data sectors",
		Geometry:    geometry2D,

		SectorsPerGroup: 1,
		FatStartSector:  1,
		FatSectors:      1,
		FatCount:        1,
		FatEndGroup:     1279,
		BitmapMSBFirst:  true,

		DirStartSector: 2,
		DirEndSector:   9,
		DirEntrySize:   16,
		SystemGroups:   groups(0, 9),
		TrailerSize:    2,

		DeleteCode:     0xFF,
		FillCodeFile:   0x00,
		FillCodeDir:    0x00,
		NameTerminator: -1,
		NamePad:        ' ',

		BigEndian: true,

		NameRule: NameRule{Forbidden: forbiddenChars, MaxLength: 8,
			Required: true, Upper: true},

		TypeAttr: 1,
		FlagAttr: 2,
		SpecialAttrs: []SpecialAttr{
			{Value: 0x04, Mask: 0xFF, Type: base.TypeData, Name: "DAT"},
		},
		AttrFlags: []AttrFlag{
			{Mask: 0x80, Type: base.TypeReadOnly},
			{Mask: 0x40, Type: base.TypeHidden},
		},
		VolumeNameMax: 10,
		MaxFileSize:   0xFFFF,
	}
}

func r40() *Params {
	return &Params{
		Name:        "r40_2d",
		Category:    Category2D,
		Driver:      "r40",
		Description: "R-40 BASIC, base-40 names, chain pointers in data sectors",
		Geometry:    geometry2D,

		SectorsPerGroup: 1,
		FatStartSector:  1,
		FatSectors:      1,
		FatCount:        1,
		FatOffset:       0x10,
		FatEndGroup:     1279,
		BitmapFreeSet:   true,

		DirStartSector: 2,
		DirEndSector:   9,
		DirEntrySize:   16,
		SystemGroups:   groups(0, 9),
		TrailerSize:    2,

		DeleteCode:     0xFF,
		FillCodeFile:   0x00,
		FillCodeDir:    0x00,
		NameTerminator: -1,
		NamePad:        ' ',

		NameRule: NameRule{
			Allowed:   "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-$",
			MaxLength: 6, Required: true, Upper: true},
		ExtRule: NameRule{
			Allowed:   "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-$",
			MaxLength: 3, Upper: true},

		TypeAttr: 1,
		FlagAttr: 2,
		SpecialAttrs: []SpecialAttr{
			{Value: 0x04, Mask: 0xFF, Type: base.TypeData, Name: "DAT"},
			{Value: 0x05, Mask: 0xFF, Type: base.TypeSystem, Name: "SYS"},
		},
		AttrFlags: []AttrFlag{
			{Mask: 0x01, Type: base.TypeReadOnly},
			{Mask: 0x02, Type: base.TypeHidden},
		},
		VolumeNameMax: 6,
		MaxFileSize:   0xFFFFFF,
	}
}
