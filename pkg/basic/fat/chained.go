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

// SectorFunc gets the raw buffer of a linear sector, nil if absent.
type SectorFunc func(linear int) []byte

// Chained is a bitmap allocation table where chain successors are stored as
// pointers in the trailing bytes of each group's data sectors.
type Chained struct {
	*Bitmap
	sector  SectorFunc
	endCode int
}

// NewChained creates a table that reads and writes chain pointers through
// sector. endCode is the pointer value terminating a chain.
func NewChained(p *catalog.Params, bits *raw.Span, sector SectorFunc,
	endCode int) *Chained {
	return &Chained{Bitmap: NewBitmap(p, bits), sector: sector, endCode: endCode}
}

var trailerIndex = map[string][2]int{"next": {0, 2}}

func (c *Chained) trailer(g, hint int) *raw.Block {
	p := c.params
	if hint < 0 || hint >= p.SectorsPerGroup {
		hint = p.SectorsPerGroup - 1
	}
	sec := c.sector(p.GroupSectors(g) + hint)
	if sec == nil || len(sec) < p.TrailerSize || p.TrailerSize < 2 {
		return nil
	}
	return raw.NewCodedBlock(trailerIndex, sec[len(sec)-p.TrailerSize:],
		p.DataInverted, p.BigEndian)
}

// Pointer returns the raw chain pointer stored in group g, or -1 if the
// sector is absent.
func (c *Chained) Pointer(g int) int {
	if t := c.trailer(g, -1); t != nil {
		return t.GetInt("next")
	}
	return -1
}

// EndCode is the pointer value terminating a chain.
func (c *Chained) EndCode() int {
	return c.endCode
}

func (c *Chained) setPointer(g, v int) error {
	t := c.trailer(g, -1)
	if t == nil {
		return base.NewError(base.CodeInvalidFat, g)
	}
	t.SetInt("next", v)
	return nil
}

//
func (c *Chained) Link(g, next int) error {
	if next < 0 || next > c.EndGroup() {
		return base.NewError(base.CodeInvalidFat, next)
	}
	if err := c.SetGroupState(g, base.GroupUsed); err != nil {
		return err
	}
	return c.setPointer(g, next)
}

//
func (c *Chained) Terminate(g, sectors int) error {
	if err := c.SetGroupState(g, base.GroupUsed); err != nil {
		return err
	}
	return c.setPointer(g, c.endCode)
}

// NextInChain follows the pointer stored in g. Pointers equal to the end code
// or outside of the table terminate the chain.
func (c *Chained) NextInChain(g, hint int) int {
	if g < 0 || g > c.EndGroup() {
		return -1
	}
	t := c.trailer(g, hint)
	if t == nil {
		return -1
	}
	next := t.GetInt("next")
	if next == c.endCode || next > c.EndGroup() {
		return -1
	}
	return next
}
