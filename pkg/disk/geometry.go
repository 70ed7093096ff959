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

package disk

import (
	"fmt"
)

// Geometry describes the physical layout of a disk image. Track and sector
// numbers as used by Position include TrackBase and SectorBase respectively,
// sides are always counted from 0.
type Geometry struct {
	Sides           int
	Tracks          int
	SectorsPerTrack int
	SectorSize      int
	TrackBase       int
	SectorBase      int
}

//
func (g Geometry) TotalSectors() int {
	return g.Sides * g.Tracks * g.SectorsPerTrack
}

//
func (g Geometry) TrackSize() int {
	return g.SectorsPerTrack * g.SectorSize
}

// Size returns the size of the image in bytes.
func (g Geometry) Size() int {
	return g.TotalSectors() * g.SectorSize
}

//
func (g Geometry) IsValid() bool {
	return g.Sides > 0 && g.Tracks > 0 && g.SectorsPerTrack > 0 &&
		g.SectorSize > 0 && g.TrackBase >= 0 && g.SectorBase >= 0
}

//
func (g Geometry) String() string {
	return fmt.Sprintf("%d sides, %d tracks, %d sectors/track, %d bytes/sector",
		g.Sides, g.Tracks, g.SectorsPerTrack, g.SectorSize)
}

// Position addresses a single sector by track, side, and sector ID.
type Position struct {
	Track  int
	Side   int
	Sector int
}

//
func (p Position) String() string {
	return fmt.Sprintf("track %d side %d sector %d", p.Track, p.Side, p.Sector)
}

// Contains determines whether p lies within this geometry.
func (g Geometry) Contains(p Position) bool {
	return p.Track >= g.TrackBase && p.Track < g.TrackBase+g.Tracks &&
		p.Side >= 0 && p.Side < g.Sides &&
		p.Sector >= g.SectorBase && p.Sector < g.SectorBase+g.SectorsPerTrack
}

// ToLinear converts p into a linear sector number. Linear order interleaves
// sides per cylinder: track 0 side 0, track 0 side 1, track 1 side 0, and so
// on. Returns -1 if p is outside of the geometry.
func (g Geometry) ToLinear(p Position) int {
	if !g.Contains(p) {
		return -1
	}
	return ((p.Track-g.TrackBase)*g.Sides+p.Side)*g.SectorsPerTrack +
		p.Sector - g.SectorBase
}

// FromLinear is the inverse of ToLinear. For a linear number outside of the
// geometry, the returned position is not contained in the geometry.
func (g Geometry) FromLinear(linear int) Position {
	if linear < 0 || g.SectorsPerTrack <= 0 || g.Sides <= 0 {
		return Position{Track: -1, Side: -1, Sector: -1}
	}
	cyl := linear / g.SectorsPerTrack
	return Position{
		Track:  cyl/g.Sides + g.TrackBase,
		Side:   cyl % g.Sides,
		Sector: linear%g.SectorsPerTrack + g.SectorBase,
	}
}
