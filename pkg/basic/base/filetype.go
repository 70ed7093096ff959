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
	"strings"
)

// FileType is a format-neutral set of file attributes.
type FileType uint32

const (
	TypeMachine FileType = 1 << iota
	TypeBasic
	TypeASCII
	TypeBinary
	TypeData
	TypeRandom
	TypeSystem
	TypeDirectory
	TypeVolume
	TypeReadOnly
	TypeHidden
	TypeEncrypted
	TypeVerify
	TypeUnknown
)

var typeNames = []struct {
	t    FileType
	name string
}{
	{TypeMachine, "MCH"},
	{TypeBasic, "BAS"},
	{TypeASCII, "ASC"},
	{TypeBinary, "BIN"},
	{TypeData, "DAT"},
	{TypeRandom, "RND"},
	{TypeSystem, "SYS"},
	{TypeDirectory, "DIR"},
	{TypeVolume, "VOL"},
	{TypeReadOnly, "RO"},
	{TypeHidden, "HID"},
	{TypeEncrypted, "ENC"},
	{TypeVerify, "VFY"},
	{TypeUnknown, "???"},
}

// FlagTypes are the attributes that can be combined with any file kind.
const FlagTypes = TypeReadOnly | TypeHidden | TypeEncrypted | TypeVerify

// Kind returns t without flag attributes.
func (t FileType) Kind() FileType {
	return t &^ FlagTypes
}

//
func (t FileType) Has(o FileType) bool {
	return t&o == o
}

//
func (t FileType) String() string {
	var names []string
	for _, n := range typeNames {
		if t&n.t != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, "|")
}

// ParseFileType parses a '|' or ',' separated list of attribute names as
// produced by String. Unknown names yield false.
func ParseFileType(s string) (FileType, bool) {
	var ret FileType
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ','
	}) {
		found := false
		for _, n := range typeNames {
			if strings.EqualFold(strings.TrimSpace(part), n.name) {
				ret |= n.t
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return ret, true
}

// FileAttr is the format-neutral attribute set of a file, together with the
// native attribute code it was read from. Native is -1 when no native code is
// known, e.g. for a file about to be created.
type FileAttr struct {
	Type   FileType
	Native int
}

//
func NewFileAttr(t FileType) FileAttr {
	return FileAttr{Type: t, Native: -1}
}
