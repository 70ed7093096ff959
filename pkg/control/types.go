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

package control

import (
	"fmt"
	"strings"
	"time"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/session"
)

//
type Info struct {
	Format         string `json:"format"`
	Description    string `json:"description"`
	Volume         string `json:"volume"`
	State          string `json:"state"`
	Path           string `json:"path"`
	FreeSize       int    `json:"freeSize"`
	FreeGroups     int    `json:"freeGroups"`
	WriteProtected bool   `json:"writeProtected"`
	Modified       bool   `json:"modified"`
}

//
func (i *Info) String() string {

	if i.Format == "" {
		return fmt.Sprintf("\nno disk format, session %s", i.State)
	}

	vol := i.Volume
	if vol == "" {
		vol = "<no name>"
	}

	write := 'w'
	if i.WriteProtected {
		write = 'r'
	}

	mod := ' '
	if i.Modified {
		mod = '*'
	}

	return fmt.Sprintf("\n%s - %s\nvolume: %s %c%c\npath: %s\nfree: %d bytes in %d groups",
		i.Format, i.Description, vol, write, mod, i.Path, i.FreeSize, i.FreeGroups)
}

//
type File struct {
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Native int       `json:"native"`
	Size   int       `json:"size"`
	Start  int       `json:"start"`
	Load   int       `json:"load"`
	Exec   int       `json:"exec"`
	Date   time.Time `json:"date"`
}

//
func NewFile(e base.Entry) *File {
	a := e.FileAttr()
	return &File{
		Name:   session.FullName(e),
		Type:   a.Type.String(),
		Native: a.Native,
		Size:   e.Size(),
		Start:  e.StartGroup(),
		Load:   e.LoadAddress(),
		Exec:   e.ExecAddress(),
		Date:   e.Date(),
	}
}

//
func (f *File) String() string {
	size := "-"
	if f.Size >= 0 {
		size = fmt.Sprintf("%d", f.Size)
	}
	date := ""
	if !f.Date.IsZero() {
		date = f.Date.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%-18s %-10s %8s  %02X  %s", f.Name, f.Type, size,
		f.Native, date)
}

//
type Listing struct {
	Path  string  `json:"path"`
	Files []*File `json:"files"`
}

//
func (l *Listing) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nDIRECTORY %s\n", l.Path)
	for _, f := range l.Files {
		sb.WriteString("\n  ")
		sb.WriteString(f.String())
	}
	return sb.String()
}

// Change is sent to watchers whenever the image is modified.
type Change struct {
	Revision int   `json:"revision"`
	Info     *Info `json:"info"`
}
