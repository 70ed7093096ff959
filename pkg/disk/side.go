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

// SideView presents a single side of a multi-sided image as a single-sided
// image. Sector and track requests for side 0 are forwarded to the selected
// side of the underlying image.
func SideView(img Image, side int) Image {
	return &sideView{img: img, side: side}
}

type sideView struct {
	img  Image
	side int
}

func (v *sideView) Geometry() Geometry {
	g := v.img.Geometry()
	g.Sides = 1
	return g
}

func (v *sideView) Sector(track, side, sector int) []byte {
	if side != 0 {
		return nil
	}
	return v.img.Sector(track, v.side, sector)
}

func (v *sideView) Track(track, side int) [][]byte {
	if side != 0 {
		return nil
	}
	return v.img.Track(track, v.side)
}

func (v *sideView) IsWriteProtected() bool {
	return v.img.IsWriteProtected()
}
