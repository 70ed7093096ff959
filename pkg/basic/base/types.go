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

package base

import (
	"io"
	"time"
)

// GroupState is the allocation state of a single group.
type GroupState int

const (
	GroupFree GroupState = iota
	GroupUsed
	GroupSystem
	GroupFinal
	GroupInvalid
)

//
func (s GroupState) String() string {
	switch s {
	case GroupFree:
		return "free"
	case GroupUsed:
		return "used"
	case GroupSystem:
		return "system"
	case GroupFinal:
		return "final"
	}
	return "invalid"
}

// IsAllocated determines whether a group in this state belongs to a file.
func (s GroupState) IsAllocated() bool {
	return s == GroupUsed || s == GroupFinal
}

// AllocationTable records the state of every group of a disk. Implementations
// are views into the sector buffers of the disk image they were created for.
type AllocationTable interface {
	//
	GroupCount() int

	// EndGroup is the highest valid group number.
	EndGroup() int

	GroupState(g int) GroupState

	// SetGroupState sets the state of group g. Setting GroupFinal marks g as
	// the last group of a chain with all its sectors in use. States not in
	// SupportedStates are rejected.
	SetGroupState(g int, s GroupState) error

	SupportedStates() []GroupState

	IsUsed(g int) bool

	// Link marks g as allocated and makes next its successor in a chain.
	Link(g, next int) error

	// Terminate marks g as allocated and as the last group in its chain, with
	// sectors sectors in use.
	Terminate(g, sectors int) error

	// LastSectors returns the number of sectors in use in final group g.
	LastSectors(g int) int

	// NextInChain returns the successor of g, or -1 if g terminates its chain
	// or the table holds no successor. hint is the sector offset within g at
	// which a chain pointer is expected, for tables that embed pointers in
	// data sectors.
	NextInChain(g, hint int) int

	// FindFreeRun returns the first group of the lowest numbered run of n
	// consecutive free groups, or -1 if there is none.
	FindFreeRun(n int) int

	// FindFree returns the lowest numbered free group >= from, or -1.
	FindFree(from int) int

	FreeGroupCount() int

	// FreeSize returns the number of bytes in all free groups.
	FreeSize() int

	// Format marks all groups free, and then all system groups as reserved.
	Format()
}

// Volume holds the metadata written when formatting a disk.
type Volume struct {
	Name   string
	Number int
	Date   time.Time
}

// RootDirectory selects the root directory when reading a directory.
const RootDirectory = -1

// Directory is the result of scanning a directory area. Slots that failed
// validation are listed in Skipped and are not part of Entries.
type Directory struct {
	Group   int
	Entries []Entry
	Skipped []int
}

// Entry is a view over one directory slot. Entries directly modify the sector
// buffer they were created on, they must not be kept after the disk image
// has been reloaded.
type Entry interface {
	// Index is the slot number within the directory.
	Index() int

	Data() []byte

	// Clear initializes the slot for a new file.
	Clear()

	// CheckUsed determines whether the slot holds a file. With strict set,
	// a used slot must additionally point to a group in range.
	CheckUsed(strict bool) bool

	// IsEnd determines whether the slot marks the end of the directory.
	IsEnd() bool

	// Validate checks the slot for structural sanity. afterEnd indicates that
	// the slot follows an end of directory marker, in which case it needs to
	// be blank.
	Validate(afterEnd bool) bool

	// Delete writes the delete code into the slot, leaving groups untouched.
	Delete()

	Name() string
	Ext() string
	RawName() []byte
	SetName(name, ext []byte) error

	Attr1() int
	SetAttr1(v int)
	Attr2() int
	SetAttr2(v int)
	Attr3() int
	SetAttr3(v int)

	FileAttr() FileAttr
	SetFileAttr(a FileAttr) error

	StartGroup() int
	SetStartGroup(g int)

	// ExtraGroup is a secondary group reference such as the last group of a
	// chain, -1 if the format has none.
	ExtraGroup() int
	SetExtraGroup(g int)

	// Size is the declared file size, -1 if the format has no size field.
	Size() int
	SetSize(s int)

	Date() time.Time
	SetDate(t time.Time)

	LoadAddress() int
	SetLoadAddress(a int)
	ExecAddress() int
	SetExecAddress(a int)

	IsDirectory() bool
	IsReadOnly() bool

	// Emit writes a hex dump of the slot.
	Emit(w io.Writer)
}
