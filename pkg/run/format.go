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

package run

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/afero"

	"github.com/xelalexv/basicdisk/pkg/disk"
	"github.com/xelalexv/basicdisk/pkg/session"
)

//
func NewFormat() *Format {

	f := &Format{}
	f.Runner = *NewRunner(
		`format -i|--image {file} -t|--type {type} [-v|--volume {name}]
      [-n|--number {number}] [-f|--force]`,
		"create a freshly formatted disk image",
		`
Use the format command to create an empty disk image of the given type. An
existing image file is replaced.`,
		"", runnerHelpEpilogue, f.Run)

	f.AddImageSettings()
	f.AddSetting(&f.Volume, "volume", "v", "", nil, "volume name", false)
	f.AddSetting(&f.Number, "number", "n", "", 0, "volume number", false)
	f.AddSetting(&f.Force, "force", "f", "", false,
		"replace an existing image without asking", false)

	return f
}

//
type Format struct {
	Runner
	//
	Volume string
	Number int
	Force  bool
}

//
func (f *Format) Run() error {

	if err := f.ParseSettings(); err != nil {
		return err
	}
	if f.Type == "" {
		return fmt.Errorf("you need to specify the disk type with --type")
	}
	if err := f.resolveImage(); err != nil {
		return err
	}
	p := f.catalog.FindByName("", f.Type)
	if p == nil {
		return fmt.Errorf("unknown disk type: %s", f.Type)
	}

	exists, err := afero.Exists(fs, f.Image)
	if err != nil {
		return err
	}
	if exists && !f.Force && !f.Confirm("Image exists, overwrite?") {
		return nil
	}

	if f.flat, err = disk.NewBlankFlat(p.Geometry); err != nil {
		return err
	}
	f.session = session.New(f.catalog)

	err = f.session.Format(f.flat, f.Type,
		session.VolumeOptions{Name: f.Volume, Number: f.Number})
	f.warnings()
	if err != nil {
		return err
	}
	if err := f.persist(); err != nil {
		return err
	}

	f.printf("formatted %s as %s, %d bytes free\n", f.Image, p.Name,
		f.session.FreeSize())
	return nil
}

//
func NewDump() *Dump {

	d := &Dump{}
	d.Runner = *NewRunner(
		"dump -i|--image {file} [-d|--dir {directory}] [--sector {sector}]",
		"hex dump of directory entries or sectors",
		`
Use the dump command to output a hex dump of all directory entries in use, or of
a single sector given by its linear number. Sectors are dumped as stored in the
image, without undoing any data inversion.`,
		"", runnerHelpEpilogue, d.Run)

	d.AddImageSettings()
	d.AddDirSetting()
	d.AddSetting(&d.Sector, "sector", "", "", -1, "linear sector number", false)

	return d
}

//
type Dump struct {
	Runner
	//
	Sector int
}

//
func (d *Dump) Run() error {

	if err := d.ParseSettings(); err != nil {
		return err
	}

	if d.Sector >= 0 {
		if err := d.resolveImage(); err != nil {
			return err
		}
		flat, err := loadImage(d.Image, d.Type, d.catalog)
		if err != nil {
			return err
		}
		data := disk.SectorAt(flat, d.Sector)
		if data == nil {
			return fmt.Errorf("sector %d not found", d.Sector)
		}
		d.printf("\nSECTOR %d (%s)\n%s\n", d.Sector,
			flat.Geometry().FromLinear(d.Sector), hex.Dump(data))
		return nil
	}

	if err := d.open(); err != nil {
		return err
	}
	for _, e := range d.session.Entries() {
		e.Emit(d.Out())
	}
	d.printf("\n")

	return nil
}
