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

package session

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic"
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

// VolumeOptions hold the volume metadata written when formatting.
type VolumeOptions struct {
	Name   string
	Number int
	// zero selects the current time
	Date time.Time
}

// Format logically formats img with the named format, and opens the session
// on the result.
func (s *Session) Format(img disk.Image, format string, vol VolumeOptions) error {

	s.Clear()

	p := s.catalog.FindByName("", format)
	if p == nil {
		return s.fail(base.NewError(base.CodeUnknownFormat, format))
	}
	if img.IsWriteProtected() {
		return s.fail(base.ErrWriteProtected)
	}
	if p.VolumeNameMax > 0 && len(vol.Name) > p.VolumeNameMax {
		return s.fail(base.NewError(base.CodeInvalidName, vol.Name))
	}

	d, err := basic.NewDriver(p, img)
	if err != nil {
		return s.fail(err)
	}
	if d.CheckFat(true) < 0 {
		return s.fail(base.NewError(base.CodeUnsupported, img.Geometry()))
	}

	if vol.Date.IsZero() {
		vol.Date = now()
	}
	if err := d.Format(base.Volume{
		Name: vol.Name, Number: vol.Number, Date: vol.Date}); err != nil {
		return s.fail(err)
	}

	log.WithFields(log.Fields{
		"format": p.Name,
		"volume": vol.Name,
	}).Info("disk formatted")

	s.img = img
	s.driver = d
	s.state = Parsed
	if err := s.AssignFat(); err != nil {
		return err
	}
	return s.AssignRootDirectory()
}
