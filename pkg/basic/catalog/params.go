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
	"fmt"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

// SpecialAttr maps a native attribute code to a file type. A code matches
// when code & Mask == Value & Mask.
type SpecialAttr struct {
	Value int
	Mask  int
	Type  base.FileType
	Name  string
}

//
func (a SpecialAttr) Matches(code int) bool {
	return code&a.Mask == a.Value&a.Mask
}

// AttrFlag maps a single bit mask of a native attribute code to a flag type
// such as read-only, which combines with any file kind.
type AttrFlag struct {
	Mask int
	Type base.FileType
}

// Params describes one filesystem variant. Sector numbers are linear, see
// disk.Geometry.ToLinear. Codes of value -1 are not used by the variant.
type Params struct {
	Name        string
	Category    string
	Driver      string
	Description string

	Geometry disk.Geometry

	SectorsPerGroup int
	ReservedSectors int

	// allocation table, FatCount copies of FatSectors sectors each, following
	// each other from FatStartSector, and starting at byte FatOffset
	FatStartSector int
	FatSectors     int
	FatCount       int
	FatOffset      int
	FatEndGroup    int

	// codes of 8-bit allocation tables
	GroupUnused      int
	GroupSystem      int
	GroupFinalBase   int
	GroupFinalOffset int

	// bitmap allocation tables
	BitmapFreeSet  bool
	BitmapMSBFirst bool

	// files are stored in consecutive groups
	Contiguous bool

	DirStartSector int
	DirEndSector   int
	DirEntrySize   int
	SubDirGroups   int
	MaxDirDepth    int

	SystemGroups []int

	// bytes at the end of each data sector holding the next group pointer
	TrailerSize int

	DeleteCode     int
	FillCodeFile   int
	FillCodeDir    int
	NameTerminator int
	NamePad        int

	DataInverted bool
	BigEndian    bool

	NameRule NameRule
	ExtRule  NameRule

	// TypeAttr and FlagAttr select the attribute word (1 to 3) holding the
	// file kind and the flags respectively
	TypeAttr     int
	FlagAttr     int
	SpecialAttrs []SpecialAttr
	AttrFlags    []AttrFlag

	VolumeNameMax int
	MaxFileSize   int
}

// GroupCount returns the number of groups managed by the allocation table.
func (p *Params) GroupCount() int {
	return p.FatEndGroup + 1
}

// GroupSectors returns the first linear sector of group g.
func (p *Params) GroupSectors(g int) int {
	return p.ReservedSectors + g*p.SectorsPerGroup
}

// GroupOfSector is the inverse of GroupSectors.
func (p *Params) GroupOfSector(linear int) int {
	if p.SectorsPerGroup <= 0 || linear < p.ReservedSectors {
		return -1
	}
	return (linear - p.ReservedSectors) / p.SectorsPerGroup
}

// GroupSize is the number of bytes in a group, including trailers.
func (p *Params) GroupSize() int {
	return p.SectorsPerGroup * p.Geometry.SectorSize
}

// DataSize is the number of payload bytes in one sector.
func (p *Params) DataSize() int {
	return p.Geometry.SectorSize - p.TrailerSize
}

// DirEntryCount is the number of slots in the root directory.
func (p *Params) DirEntryCount() int {
	if p.DirEntrySize <= 0 {
		return 0
	}
	return (p.DirEndSector - p.DirStartSector + 1) *
		p.Geometry.SectorSize / p.DirEntrySize
}

//
func (p *Params) IsSystemGroup(g int) bool {
	for _, s := range p.SystemGroups {
		if s == g {
			return true
		}
	}
	return false
}

// LookupAttr finds the first special attribute matching code.
func (p *Params) LookupAttr(code int) (SpecialAttr, bool) {
	return lookupAttr(p.SpecialAttrs, code)
}

// ReverseAttr finds the first special attribute for file kind t.
func (p *Params) ReverseAttr(t base.FileType) (SpecialAttr, bool) {
	return reverseAttr(p.SpecialAttrs, t)
}

// LookupAttrIn is LookupAttr over a list of attributes, e.g. a driver's own
// type codes that take precedence over the catalog's special attributes.
func LookupAttrIn(attrs []SpecialAttr, code int) (SpecialAttr, bool) {
	return lookupAttr(attrs, code)
}

//
func ReverseAttrIn(attrs []SpecialAttr, t base.FileType) (SpecialAttr, bool) {
	return reverseAttr(attrs, t)
}

func lookupAttr(attrs []SpecialAttr, code int) (SpecialAttr, bool) {
	for _, a := range attrs {
		if a.Matches(code) {
			return a, true
		}
	}
	return SpecialAttr{}, false
}

func reverseAttr(attrs []SpecialAttr, t base.FileType) (SpecialAttr, bool) {
	for _, a := range attrs {
		if a.Type == t {
			return a, true
		}
	}
	return SpecialAttr{}, false
}

// FlagMask is the combination of all attribute flag masks.
func (p *Params) FlagMask() int {
	m := 0
	for _, f := range p.AttrFlags {
		m |= f.Mask
	}
	return m
}

// Validate checks the parameters for consistency.
func (p *Params) Validate() error {
	fail := func(msg string, args ...interface{}) error {
		return base.NewError(base.CodeInvalidParam,
			fmt.Sprintf("%s: %s", p.Name, fmt.Sprintf(msg, args...)))
	}

	if p.Name == "" || p.Driver == "" {
		return fail("name and driver required")
	}
	if !p.Geometry.IsValid() {
		return fail("invalid geometry")
	}
	if p.SectorsPerGroup <= 0 {
		return fail("sectors per group must be positive")
	}
	total := p.Geometry.TotalSectors()
	if p.GroupSectors(p.GroupCount()) > total {
		return fail("%d groups exceed disk size", p.GroupCount())
	}
	if p.FatStartSector < 0 || p.FatStartSector+p.FatCount*p.FatSectors > total {
		return fail("allocation table outside of disk")
	}
	if p.DirStartSector < 0 || p.DirEndSector < p.DirStartSector ||
		p.DirEndSector >= total {
		return fail("directory area outside of disk")
	}
	if p.DirEntrySize <= 0 || p.Geometry.SectorSize%p.DirEntrySize != 0 {
		return fail("directory entry size %d does not divide sector size",
			p.DirEntrySize)
	}
	if p.TrailerSize < 0 || p.TrailerSize >= p.Geometry.SectorSize {
		return fail("invalid trailer size %d", p.TrailerSize)
	}
	for _, g := range p.SystemGroups {
		if g < 0 || g > p.FatEndGroup {
			return fail("system group %d out of range", g)
		}
	}
	return nil
}
