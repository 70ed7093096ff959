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
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/basic/common"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

// Driver handles disks with an N88-BASIC style filesystem: three copies of
// an 8-bit allocation table, and directory entries without size field. A
// file's size is the size of its group chain, with the last group's used
// sector count stored in its final code.
type Driver struct {
	*common.Driver
}

//
func New(p *catalog.Params, img disk.Image) *Driver {
	d := &Driver{}
	d.Driver = common.NewDriver(p, img, d)
	return d
}

//
func (d *Driver) NewEntry(data []byte, index int) base.Entry {
	return newEntry(d.Params(), data, index)
}

//
func (d *Driver) NewTable() (base.AllocationTable, error) {
	t, err := d.NewTable8()
	if err != nil {
		return nil, err
	}
	return t, nil
}

//
func (d *Driver) CheckFat(formatting bool) float64 {
	return d.CheckFat8(formatting)
}

//
func (d *Driver) FormatSystem(vol base.Volume) error {
	return nil
}
