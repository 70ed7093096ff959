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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

// file system used for all image and file access
var fs = afero.NewOsFs()

// geometryFor determines the disk geometry for an image file of the given
// size. With format set, that format's geometry is used.
func geometryFor(cat *catalog.Catalog, format string, size int) (disk.Geometry, error) {

	if format != "" {
		p := cat.FindByName("", format)
		if p == nil {
			return disk.Geometry{}, fmt.Errorf("unknown disk type: %s", format)
		}
		if size > p.Geometry.Size() {
			return disk.Geometry{}, fmt.Errorf(
				"image of %d bytes too large for %s", size, format)
		}
		return p.Geometry, nil
	}

	candidates := cat.FindBySize(size)
	if len(candidates) == 0 {
		return disk.Geometry{}, fmt.Errorf(
			"cannot determine disk type of %d byte image, use --type", size)
	}
	return candidates[0].Geometry, nil
}

// loadImage reads an image file. Images without write permission are write
// protected.
func loadImage(path, format string, cat *catalog.Catalog) (*disk.Flat, error) {

	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open image: %w", err)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read image: %w", err)
	}

	g, err := geometryFor(cat, format, len(data))
	if err != nil {
		return nil, err
	}

	flat, err := disk.NewFlat(g, data)
	if err != nil {
		return nil, err
	}
	flat.SetWriteProtected(info.Mode().Perm()&0200 == 0)

	log.WithFields(log.Fields{
		"file":     path,
		"size":     len(data),
		"geometry": g,
	}).Debug("image loaded")

	return flat, nil
}

// saveImage writes flat to a temporary file first, and then renames it to
// path.
func saveImage(path string, flat *disk.Flat) error {

	mode := os.FileMode(0644)
	if info, err := fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, flat.Bytes(), mode); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("cannot write image: %w", err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("cannot replace image: %w", err)
	}
	return nil
}
