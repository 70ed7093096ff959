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

package mz

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
	iplSector    = 0
	volumeSector = 13
	iplMode      = 0x01
	iplMagic     = "IPLPRO"

	dirValidMinRatio = 0.9
)

// boot record at the start of the disk
type ipl struct {
	Mode  uint8
	Magic [6]byte
	Name  [11]byte
}

//
type volumeInfo struct {
	Number uint8
	Groups uint16
	Name   [13]byte
}

var volumeNames = codec.Padded{Pad: 0x0D, Terminator: 0x0D}

// Driver handles MZ style disks. All data is stored inverted, allocation is
// tracked in a bitmap, and files occupy consecutive groups of one sector.
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
	spans, err := fat.Spans(d.Image(), d.Params())
	if err != nil {
		return nil, err
	}
	return fat.NewBitmap(d.Params(), spans[0]), nil
}

func (d *Driver) unpack(linear int, v interface{}) error {
	data, err := d.ReadSector(linear)
	if err != nil {
		return err
	}
	return restruct.Unpack(data, binary.LittleEndian, v)
}

func (d *Driver) pack(linear int, v interface{}) error {
	b, err := restruct.Pack(binary.LittleEndian, v)
	if err != nil {
		return err
	}
	data, err := d.ReadSector(linear)
	if err != nil {
		return err
	}
	copy(data, b)
	return d.WriteSector(linear, data)
}

//
func (d *Driver) VolumeName() string {
	v := &volumeInfo{}
	if err := d.unpack(volumeSector, v); err != nil {
		return ""
	}
	return string(volumeNames.Decode(v.Name[:]))
}

// CheckFat requires a volume record matching the disk size, and reserved
// system groups. A boot record raises confidence.
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

	v := &volumeInfo{}
	if err := d.unpack(volumeSector, v); err != nil ||
		int(v.Groups) != p.GroupCount() {
		log.WithField("format", p.Name).Debug("volume record mismatch")
		return -1
	}

	t, err := d.NewTable()
	if err != nil {
		return -1
	}
	for _, g := range p.SystemGroups {
		if !t.IsUsed(g) {
			log.WithField("format", p.Name).Debugf("group %d not reserved", g)
			return -1
		}
	}

	boot := 0.0
	h := &ipl{}
	if err := d.unpack(iplSector, h); err == nil &&
		h.Mode == iplMode && string(h.Magic[:]) == iplMagic {
		boot = 1
	}

	dir := d.DirectoryRatio()
	if dir < dirValidMinRatio {
		return -1
	}

	score := (1 + boot + dir) / 3
	log.WithFields(log.Fields{
		"format":    p.Name,
		"boot":      boot,
		"directory": dir,
	}).Debugf("score %.3f", score)
	return score
}

// FormatSystem writes boot and volume records.
func (d *Driver) FormatSystem(vol base.Volume) error {

	p := d.Params()
	if len(vol.Name) > p.VolumeNameMax {
		return base.NewError(base.CodeInvalidName, vol.Name)
	}

	h := &ipl{Mode: iplMode}
	copy(h.Magic[:], iplMagic)
	name, err := volumeNames.Encode([]byte(vol.Name), len(h.Name))
	if err != nil {
		name, _ = volumeNames.Encode([]byte(vol.Name[:len(h.Name)]), len(h.Name))
	}
	copy(h.Name[:], name)
	if err := d.pack(iplSector, h); err != nil {
		return fmt.Errorf("cannot write boot record: %w", err)
	}

	v := &volumeInfo{Number: uint8(vol.Number), Groups: uint16(p.GroupCount())}
	if name, err = volumeNames.Encode([]byte(vol.Name), len(v.Name)); err != nil {
		return base.NewError(base.CodeInvalidName, vol.Name)
	}
	copy(v.Name[:], name)
	if err := d.pack(volumeSector, v); err != nil {
		return fmt.Errorf("cannot write volume record: %w", err)
	}

	return nil
}
