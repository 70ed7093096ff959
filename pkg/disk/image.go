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

//go:generate mockgen -source=image.go -destination=image_mock.go -package disk

// Image is the sector store a filesystem operates on. Returned sector buffers
// are views into the image, i.e. writing to them modifies the image.
type Image interface {
	//
	Geometry() Geometry

	// Sector returns the buffer of the addressed sector, or nil if that sector
	// is not present in the image.
	Sector(track, side, sector int) []byte

	// Track returns all sector buffers of the addressed track in sector ID
	// order, or nil if the track is not present.
	Track(track, side int) [][]byte

	IsWriteProtected() bool
}

// SectorAt gets the sector with the given linear number.
func SectorAt(img Image, linear int) []byte {
	p := img.Geometry().FromLinear(linear)
	if !img.Geometry().Contains(p) {
		return nil
	}
	return img.Sector(p.Track, p.Side, p.Sector)
}

// AbsentTracks lists all tracks of the image's geometry for which the image
// has no data.
func AbsentTracks(img Image) []Position {
	var ret []Position
	g := img.Geometry()
	for t := g.TrackBase; t < g.TrackBase+g.Tracks; t++ {
		for s := 0; s < g.Sides; s++ {
			if img.Track(t, s) == nil {
				ret = append(ret, Position{Track: t, Side: s, Sector: -1})
			}
		}
	}
	return ret
}
