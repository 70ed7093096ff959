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
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic"
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

// State of a session
type State int

const (
	// no format driver selected
	Unparsed State = iota
	// format driver selected, allocation table and directory not yet read
	Parsed
	// ready for file operations
	Assigned
)

//
func (s State) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Assigned:
		return "assigned"
	}
	return "unparsed"
}

// AllSides selects all sides of a disk image when parsing.
const AllSides = -1

// Session interprets one disk image with one format driver. A session is not
// safe for concurrent use. Entries obtained from a session become invalid once
// it is cleared.
type Session struct {
	catalog  *catalog.Catalog
	img      disk.Image
	driver   basic.Driver
	state    State
	fat      bool
	root     *base.Directory
	path     []base.Entry
	dir      *base.Directory
	messages []string
}

//
func New(cat *catalog.Catalog) *Session {
	return &Session{catalog: cat}
}

//
func (s *Session) State() State {
	return s.state
}

//
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Driver returns the selected format driver, nil while unparsed.
func (s *Session) Driver() basic.Driver {
	return s.driver
}

// Image returns the image the session operates on, nil while unparsed.
func (s *Session) Image() disk.Image {
	return s.img
}

// Clear resets the session to unparsed, regardless of its current state.
// Messages are kept.
func (s *Session) Clear() {
	s.img = nil
	s.driver = nil
	s.state = Unparsed
	s.fat = false
	s.root = nil
	s.path = nil
	s.dir = nil
}

func (s *Session) fail(err error) error {
	s.Clear()
	return s.report(err)
}

// Open parses img and assigns allocation table and root directory.
func (s *Session) Open(img disk.Image, side int, hints ...string) error {
	if err := s.Parse(img, side, hints...); err != nil {
		return err
	}
	if err := s.AssignFat(); err != nil {
		return err
	}
	return s.AssignRootDirectory()
}

// Parse selects the format driver for img. If format names are given as
// hints, only those formats are tried, otherwise all formats matching the
// image geometry. The driver with the highest non-negative score wins, ties
// are resolved in catalog order. With side set to a value other than
// AllSides, only that side of the image is considered.
func (s *Session) Parse(img disk.Image, side int, hints ...string) error {

	s.Clear()

	view := img
	if side != AllSides {
		view = disk.SideView(img, side)
	}
	g := view.Geometry()

	for _, p := range disk.AbsentTracks(view) {
		log.Warnf("track %d side %d not found", p.Track, p.Side)
		s.report(base.NewError(base.WarnNoTrack, p.Track, p.Side))
	}

	var candidates []*catalog.Params
	if len(hints) > 0 {
		candidates = s.catalog.FindBySignatureList(hints)
	} else {
		candidates = s.catalog.FindByGeometry("", g.Sides, g.SectorsPerTrack)
	}
	if len(candidates) == 0 {
		return s.fail(base.NewError(base.CodeUnknownFormat, g))
	}

	var best basic.Driver
	bestScore := -1.0
	var tied []string

	for _, p := range candidates {
		d, err := basic.NewDriver(p, view)
		if err != nil {
			log.Debugf("skipping format %s: %v", p.Name, err)
			continue
		}
		score := d.CheckFat(false)
		log.WithFields(log.Fields{
			"format": p.Name,
			"score":  fmt.Sprintf("%.3f", score),
		}).Debug("checked format")

		switch {
		case score < 0:
		case score > bestScore:
			best = d
			bestScore = score
			tied = []string{p.Name}
		case score == bestScore:
			tied = append(tied, p.Name)
		}
	}

	if best == nil {
		return s.fail(base.NewError(base.CodeUnsupported, g))
	}
	if len(tied) > 1 {
		s.report(base.NewError(base.WarnAmbiguous, strings.Join(tied, ", ")))
	}

	log.WithFields(log.Fields{
		"format": best.Params().Name,
		"score":  fmt.Sprintf("%.3f", bestScore),
	}).Info("disk format detected")

	s.img = view
	s.driver = best
	s.state = Parsed
	return nil
}

// AssignFat reads the allocation table of a parsed disk.
func (s *Session) AssignFat() error {
	if s.state != Parsed {
		return s.fail(base.NewError(base.CodeInvalidState, s.state))
	}
	if err := s.driver.AssignFat(); err != nil {
		return s.fail(err)
	}
	s.fat = true
	return nil
}

// AssignRootDirectory reads the root directory, after which the session is
// ready for file operations.
func (s *Session) AssignRootDirectory() error {

	if s.state != Parsed || !s.fat {
		return s.fail(base.NewError(base.CodeInvalidState, s.state))
	}

	dir, err := s.driver.ReadDirectory(base.RootDirectory)
	if err != nil {
		return s.fail(err)
	}
	for _, ix := range dir.Skipped {
		s.report(base.NewError(base.WarnSkippedEntry, ix))
	}

	s.root = dir
	s.dir = dir
	s.path = nil
	s.state = Assigned
	return nil
}

func (s *Session) ready() error {
	if s.state != Assigned {
		return s.report(base.NewError(base.CodeInvalidState, s.state))
	}
	return nil
}

func (s *Session) writable() error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.img.IsWriteProtected() {
		return s.report(base.ErrWriteProtected)
	}
	return nil
}

// FreeSize returns the number of bytes in free groups, -1 if no allocation
// table is assigned.
func (s *Session) FreeSize() int {
	if !s.fat {
		return -1
	}
	return s.driver.Table().FreeSize()
}

// FreeGroups returns the number of free groups, -1 if no allocation table is
// assigned.
func (s *Session) FreeGroups() int {
	if !s.fat {
		return -1
	}
	return s.driver.Table().FreeGroupCount()
}

// VolumeName returns the volume label of the disk, if the format has one.
func (s *Session) VolumeName() string {
	if s.driver == nil {
		return ""
	}
	return s.driver.VolumeName()
}
