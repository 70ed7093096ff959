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

package sdos

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
	idSector = 0
	magic    = "SDOS"
	version  = 1
	endCode  = 0x0000

	// calibration for format detection, taken from disks in the wild: the
	// ID sector needs to match at least sdosMagicMinMatch of the magic
	// bytes, and at least sdosChainValidRatio of all files need intact
	// group chains
	sdosMagicMinMatch   = 3
	sdosChainValidRatio = 0.75
)

//
type idRecord struct {
	Magic   [4]byte
	Version uint8
	Name    [10]byte
}

var volumeNames = codec.Padded{Pad: ' ', Terminator: codec.NoCode}

// Driver handles S-DOS disks. Allocation is tracked in a bitmap, and every
// data sector ends with a big-endian pointer to the next group of its file.
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

func (d *Driver) readID() (*idRecord, error) {
	data, err := d.ReadSector(idSector)
	if err != nil {
		return nil, err
	}
	id := &idRecord{}
	return id, restruct.Unpack(data, binary.BigEndian, id)
}

//
func (d *Driver) VolumeName() string {
	if id, err := d.readID(); err == nil {
		return string(volumeNames.Decode(id.Name[:]))
	}
	return ""
}

func magicMatch(id *idRecord) int {
	n := 0
	for ix := range id.Magic {
		if id.Magic[ix] == magic[ix] {
			n++
		}
	}
	return n
}

// chainRatio returns the share of used root directory entries whose group
// chain is intact and as long as their size requires.
func (d *Driver) chainRatio(t *fat.Chained) float64 {

	used, valid := 0, 0
	for _, e := range d.RootSlots() {
		if !e.CheckUsed(false) {
			continue
		}
		used++
		if !e.CheckUsed(true) {
			continue
		}
		groups, ok := common.WalkChain(t, e.StartGroup(), 0)
		if ok && t.Pointer(groups[len(groups)-1]) == endCode &&
			len(groups) == d.RequiredGroups(e.Size()) {
			valid++
		}
	}

	if used == 0 {
		return 1
	}
	return float64(valid) / float64(used)
}

// CheckFat rates the ID sector magic and the integrity of group chains.
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

	id, err := d.readID()
	if err != nil {
		return -1
	}
	m := magicMatch(id)
	fields := log.Fields{"format": p.Name, "magic": m}
	if m < sdosMagicMinMatch {
		log.WithFields(fields).Debug("magic mismatch")
		return -1
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

	r := d.chainRatio(t)
	fields["chains"] = r
	if r < sdosChainValidRatio {
		log.WithFields(fields).Debug("too many broken chains")
		return -1
	}

	score := (float64(m)/float64(len(magic)) + r) / 2
	log.WithFields(fields).Debugf("score %.3f", score)
	return score
}

// FormatSystem writes the ID sector.
func (d *Driver) FormatSystem(vol base.Volume) error {

	id := &idRecord{Version: version}
	copy(id.Magic[:], magic)
	name, err := volumeNames.Encode([]byte(vol.Name), len(id.Name))
	if err != nil {
		return base.NewError(base.CodeInvalidName, vol.Name)
	}
	copy(id.Name[:], name)

	b, err := restruct.Pack(binary.BigEndian, id)
	if err != nil {
		return fmt.Errorf("cannot write ID sector: %w", err)
	}
	data, err := d.ReadSector(idSector)
	if err != nil {
		return err
	}
	copy(data, b)
	return d.WriteSector(idSector, data)
}
