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

// Flat is an in-memory image backed by a plain sector dump in linear order.
// If the backing slice is shorter than the geometry requires, the missing
// tail sectors are treated as absent.
type Flat struct {
	geometry       Geometry
	data           []byte
	writeProtected bool
}

// NewBlankFlat creates a fully populated image with all bytes set to 0.
func NewBlankFlat(g Geometry) (*Flat, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("invalid geometry: %v", g)
	}
	return &Flat{geometry: g, data: make([]byte, g.Size())}, nil
}

// NewFlat creates an image on top of data. data is not copied.
func NewFlat(g Geometry, data []byte) (*Flat, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("invalid geometry: %v", g)
	}
	if len(data) > g.Size() {
		return nil, fmt.Errorf(
			"image data too large for geometry, %d > %d bytes", len(data), g.Size())
	}
	return &Flat{geometry: g, data: data}, nil
}

//
func (f *Flat) Geometry() Geometry {
	return f.geometry
}

//
func (f *Flat) Sector(track, side, sector int) []byte {
	l := f.geometry.ToLinear(Position{Track: track, Side: side, Sector: sector})
	if l < 0 {
		return nil
	}
	start := l * f.geometry.SectorSize
	end := start + f.geometry.SectorSize
	if end > len(f.data) {
		return nil
	}
	return f.data[start:end:end]
}

//
func (f *Flat) Track(track, side int) [][]byte {
	ret := make([][]byte, 0, f.geometry.SectorsPerTrack)
	for s := 0; s < f.geometry.SectorsPerTrack; s++ {
		sec := f.Sector(track, side, s+f.geometry.SectorBase)
		if sec == nil {
			return nil
		}
		ret = append(ret, sec)
	}
	return ret
}

//
func (f *Flat) IsWriteProtected() bool {
	return f.writeProtected
}

//
func (f *Flat) SetWriteProtected(p bool) {
	f.writeProtected = p
}

// Bytes returns the backing sector dump.
func (f *Flat) Bytes() []byte {
	return f.data
}
