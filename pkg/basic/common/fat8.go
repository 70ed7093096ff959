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

package common

import (
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/fat"
)

// Minimum share of valid codes in an 8-bit allocation table, and of matching
// codes across its copies, for a disk to be considered of that format.
const fatValidMinRatio = 0.9

// NewTable8 creates the 8-bit allocation table designated by the parameters.
func (d *Driver) NewTable8() (*fat.Table8, error) {
	spans, err := fat.Spans(d.img, d.params)
	if err != nil {
		return nil, err
	}
	return fat.NewTable8(d.params, spans), nil
}

// CheckFat8 rates how well the image matches a format with an 8-bit
// allocation table: the table needs to hold mostly valid codes, identical
// copies, and reserved system groups, and the root directory needs to hold
// valid entries. Returns -1 on mismatch. When formatting, only the geometry
// is checked.
func (d *Driver) CheckFat8(formatting bool) float64 {

	if !d.CheckGeometry() {
		return -1
	}
	if formatting {
		return 1
	}

	p := d.params
	if !d.HasSectors(p.FatStartSector, p.FatStartSector+p.FatCount*p.FatSectors-1) ||
		!d.HasSectors(p.DirStartSector, p.DirEndSector) {
		return -1
	}

	t, err := d.NewTable8()
	if err != nil {
		return -1
	}

	valid := t.ValidCodeRatio()
	dup := t.CopyMatchRatio()
	fields := log.Fields{"format": p.Name, "valid": valid, "copies": dup}

	if valid < fatValidMinRatio || dup < fatValidMinRatio {
		log.WithFields(fields).Debug("allocation table mismatch")
		return -1
	}

	for _, g := range p.SystemGroups {
		if t.GroupState(g) != base.GroupSystem {
			log.WithFields(fields).Debugf("group %d not reserved", g)
			return -1
		}
	}

	dir := d.DirectoryRatio()
	fields["directory"] = dir
	if dir < fatValidMinRatio {
		log.WithFields(fields).Debug("directory mismatch")
		return -1
	}

	score := (valid + dup + dir) / 3
	log.WithFields(fields).Debugf("score %.3f", score)
	return score
}
