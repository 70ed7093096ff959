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

package basic

import (
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

// Driver is the algorithmic implementation of one filesystem format, bound
// to a disk image.
type Driver interface {
	//
	Name() string

	Params() *catalog.Params

	Image() disk.Image

	// CheckFat rates how well the image matches this format, in [-1, 1].
	// Negative values indicate a definite mismatch. When formatting, only
	// whether the image can hold the format is checked.
	CheckFat(formatting bool) float64

	// AssignFat creates the allocation table view. Required before any file
	// operation.
	AssignFat() error

	Table() base.AllocationTable

	ReadDirectory(group int) (*base.Directory, error)

	VolumeName() string

	// Chain walks the group chain from start until limit bytes are covered,
	// or to its end for a negative limit. Circular chains yield
	// ErrBrokenChain.
	Chain(start, limit int) ([]int, error)

	CalcFileUnitSize(e base.Entry) (int, error)

	FileSize(e base.Entry) (int, error)

	FileSectors(e base.Entry) ([]int, error)

	RequiredGroups(size int) int

	// AllocateGroups claims groups for size bytes and sets the start group of
	// e. ErrDiskFull indicates nothing was claimed, ErrNoSpace that the
	// returned groups were claimed before running out of space.
	AllocateGroups(e base.Entry, size int) ([]int, error)

	ReleaseChain(groups []int) error

	ReleaseGroups(e base.Entry) error

	ReadSector(linear int) ([]byte, error)

	WriteSector(linear int, data []byte) error

	Format(vol base.Volume) error

	// MakeDirectory sets up the directory area for a new subdirectory entry.
	MakeDirectory(e base.Entry) error

	ValidateName(name, ext []byte) ([]byte, []byte, error)
}
