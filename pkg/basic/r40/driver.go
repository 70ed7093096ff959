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

package r40

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/basic/common"
	"github.com/xelalexv/basicdisk/pkg/basic/fat"
	"github.com/xelalexv/basicdisk/pkg/codec"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

const (
	headerSector = 1
	headerID     = 0x40
	version      = 1
	endCode      = 0xFFFF

	// calibration for format detection: at least r40NameValidRatio of the
	// used directory entries need base-40 names, and at least
	// r40ChainMatchRatio of them chains ending in their recorded last group
	r40NameValidRatio  = 0.8
	r40ChainMatchRatio = 0.7
)

// header precedes the allocation bitmap in the table sector
type header struct {
	ID      uint8
	Version uint8
	Volume  [2]uint16
}

// Driver handles R-40 BASIC disks. Names are packed as base-40 words, every
// data sector ends with a pointer to the next group, and each entry records
// the last group of its file.
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
	return d.newChained()
}

func (d *Driver) newChained() (*fat.Chained, error) {
	spans, err := fat.Spans(d.Image(), d.Params())
	if err != nil {
		return nil, err
	}
	return fat.NewChained(d.Params(), spans[0], func(l int) []byte {
		return disk.SectorAt(d.Image(), l)
	}, endCode), nil
}

func (d *Driver) byteOrder() binary.ByteOrder {
	if d.Params().BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (d *Driver) readHeader() (*header, error) {
	data, err := d.ReadSector(headerSector)
	if err != nil {
		return nil, err
	}
	h := &header{}
	return h, restruct.Unpack(data, d.byteOrder(), h)
}

//
func (d *Driver) VolumeName() string {
	h, err := d.readHeader()
	if err != nil || h.ID != headerID {
		return ""
	}
	return string(codec.Base40Field{}.Decode(d.volumeField(h)))
}

func (d *Driver) volumeField(h *header) []byte {
	ret := make([]byte, 0, 4)
	for _, w := range h.Volume {
		ret = append(ret, byte(w), byte(w>>8))
	}
	return ret
}

// AllocateGroups additionally records the last group of the file in e.
func (d *Driver) AllocateGroups(e base.Entry, size int) ([]int, error) {
	groups, err := d.Driver.AllocateGroups(e, size)
	if len(groups) > 0 {
		e.SetExtraGroup(groups[len(groups)-1])
	}
	return groups, err
}

// ratios returns the share of used root directory entries with base-40
// names, and the share with chains ending in their recorded last group.
func (d *Driver) ratios(t *fat.Chained) (float64, float64) {

	used, names, chains := 0, 0, 0
	for _, be := range d.RootSlots() {
		if !be.CheckUsed(false) {
			continue
		}
		used++
		if e, ok := be.(*entry); ok && e.HasValidName() {
			names++
		}
		if !be.CheckUsed(true) {
			continue
		}
		groups, ok := common.WalkChain(t, be.StartGroup(), 0)
		if ok && groups[len(groups)-1] == be.ExtraGroup() {
			chains++
		}
	}

	if used == 0 {
		return 1, 1
	}
	return float64(names) / float64(used), float64(chains) / float64(used)
}

// CheckFat requires the table header, then rates names and chains of the
// root directory entries.
func (d *Driver) CheckFat(formatting bool) float64 {

	if !d.CheckGeometry() {
		return -1
	}
	if formatting {
		return 1
	}

	p := d.Params()
	if !d.HasSectors(0, p.DirEndSector) {
		return -1
	}

	fields := log.Fields{"format": p.Name}
	h, err := d.readHeader()
	if err != nil || h.ID != headerID {
		log.WithFields(fields).Debug("no table header")
		return -1
	}
	for _, w := range h.Volume {
		if !codec.IsBase40Word(w) {
			log.WithFields(fields).Debug("invalid volume name")
			return -1
		}
	}

	t, err := d.newChained()
	if err != nil {
		return -1
	}
	for _, g := range p.SystemGroups {
		if !t.IsUsed(g) {
			log.WithFields(fields).Debugf("group %d not reserved", g)
			return -1
		}
	}

	names, chains := d.ratios(t)
	fields["names"] = names
	fields["chains"] = chains
	if names < r40NameValidRatio || chains < r40ChainMatchRatio {
		log.WithFields(fields).Debug("directory mismatch")
		return -1
	}

	score := (1 + names + chains) / 3
	log.WithFields(fields).Debugf("score %.3f", score)
	return score
}

// FormatSystem writes the table header.
func (d *Driver) FormatSystem(vol base.Volume) error {

	if len(vol.Name) > d.Params().VolumeNameMax {
		return base.NewError(base.CodeInvalidName, vol.Name)
	}
	words, err := codec.EncodeBase40(vol.Name, 2)
	if err != nil {
		return base.NewError(base.CodeInvalidName, vol.Name)
	}

	h := &header{ID: headerID, Version: version}
	copy(h.Volume[:], words)

	b, err := restruct.Pack(d.byteOrder(), h)
	if err != nil {
		return fmt.Errorf("cannot write table header: %w", err)
	}
	data, err := d.ReadSector(headerSector)
	if err != nil {
		return err
	}
	copy(data, b)
	return d.WriteSector(headerSector, data)
}
