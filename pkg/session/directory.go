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
	"bytes"
	"strings"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
)

// FullName returns name and extension of e, joined by a dot.
func FullName(e base.Entry) string {
	if ext := e.Ext(); ext != "" {
		return e.Name() + "." + ext
	}
	return e.Name()
}

// splitName separates name and extension for formats with an extension
// field.
func splitName(p *catalog.Params, full string) ([]byte, []byte) {
	if p.ExtRule.MaxLength > 0 {
		if ix := strings.LastIndexByte(full, '.'); ix >= 0 {
			return []byte(full[:ix]), []byte(full[ix+1:])
		}
	}
	return []byte(full), nil
}

func matches(e base.Entry, name, ext []byte) bool {
	return bytes.Equal(e.RawName(), name) && e.Ext() == string(ext)
}

// Entries lists the used entries of the current directory.
func (s *Session) Entries() []base.Entry {
	if s.state != Assigned {
		return nil
	}
	var ret []base.Entry
	for _, e := range s.dir.Entries {
		if e.CheckUsed(false) {
			ret = append(ret, e)
		}
	}
	return ret
}

// Find looks up a file in the current directory by its full name. The name is
// normalized according to the format's name rules before comparing.
func (s *Session) Find(full string) (base.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	p := s.driver.Params()
	name, ext := splitName(p, full)
	name = p.NameRule.Normalize(name)
	ext = p.ExtRule.Normalize(ext)
	for _, e := range s.Entries() {
		if matches(e, name, ext) {
			return e, nil
		}
	}
	return nil, base.NewError(base.CodeNotFound, full)
}

func (s *Session) findOther(name, ext []byte, except base.Entry) base.Entry {
	for _, e := range s.Entries() {
		if e.Index() != indexOf(except) && matches(e, name, ext) {
			return e
		}
	}
	return nil
}

func indexOf(e base.Entry) int {
	if e == nil {
		return -1
	}
	return e.Index()
}

func (s *Session) freeSlot() base.Entry {
	for _, e := range s.dir.Entries {
		if !e.CheckUsed(false) {
			return e
		}
	}
	return nil
}

// reload reads the current directory again after modifications.
func (s *Session) reload() error {
	dir, err := s.driver.ReadDirectory(s.dir.Group)
	if err != nil {
		return err
	}
	s.dir = dir
	if dir.Group == base.RootDirectory {
		s.root = dir
	}
	return nil
}

// Path returns the current directory as a slash separated path.
func (s *Session) Path() string {
	var sb strings.Builder
	for _, e := range s.path {
		sb.WriteString("/")
		sb.WriteString(FullName(e))
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}

// Depth is the number of directory levels below the root directory.
func (s *Session) Depth() int {
	return len(s.path)
}

// ChangeDirectory enters a subdirectory of the current directory. ".." enters
// the parent and "/" the root directory.
func (s *Session) ChangeDirectory(name string) error {

	if err := s.ready(); err != nil {
		return err
	}

	switch name {
	case "..":
		return s.Parent()
	case "/":
		s.path = nil
		s.dir = s.root
		return nil
	}

	e, err := s.Find(name)
	if err != nil {
		return s.report(err)
	}
	if !e.IsDirectory() {
		return s.report(base.NewError(base.CodeNotDirectory, name))
	}
	if max := s.driver.Params().MaxDirDepth; max > 0 && len(s.path) >= max {
		return s.report(base.NewError(base.CodePathTooDeep, max))
	}

	dir, err := s.driver.ReadDirectory(e.StartGroup())
	if err != nil {
		return s.report(err)
	}
	for _, ix := range dir.Skipped {
		s.report(base.NewError(base.WarnSkippedEntry, ix))
	}
	s.path = append(s.path, e)
	s.dir = dir
	return nil
}

// Parent enters the parent of the current directory. In the root directory,
// this does nothing.
func (s *Session) Parent() error {

	if err := s.ready(); err != nil {
		return err
	}
	if len(s.path) == 0 {
		return nil
	}

	s.path = s.path[:len(s.path)-1]
	if len(s.path) == 0 {
		s.dir = s.root
		return nil
	}
	dir, err := s.driver.ReadDirectory(s.path[len(s.path)-1].StartGroup())
	if err != nil {
		return s.report(err)
	}
	s.dir = dir
	return nil
}

// MakeDirectory creates a subdirectory in the current directory.
func (s *Session) MakeDirectory(full string) (base.Entry, error) {

	if err := s.writable(); err != nil {
		return nil, err
	}

	p := s.driver.Params()
	if p.SubDirGroups == 0 {
		return nil, s.report(base.NewError(base.CodeUnsupportedOp, "make directory"))
	}
	if p.MaxDirDepth > 0 && len(s.path) >= p.MaxDirDepth {
		return nil, s.report(base.NewError(base.CodePathTooDeep, p.MaxDirDepth))
	}

	name, ext, err := s.driver.ValidateName(splitName(p, full))
	if err != nil {
		return nil, s.report(err)
	}
	if s.findOther(name, ext, nil) != nil {
		return nil, s.report(base.NewError(base.CodeDuplicateName, full))
	}
	if free := s.FreeGroups(); free < p.SubDirGroups {
		return nil, s.report(base.NewError(base.CodeInsufficientSpace,
			p.SubDirGroups*p.GroupSize(), s.FreeSize()))
	}

	e := s.freeSlot()
	if e == nil {
		return nil, s.report(base.NewError(base.CodeDirFull, full))
	}
	undo := snapshot(e)

	e.Clear()
	if err := e.SetName(name, ext); err != nil {
		undo()
		return nil, s.report(err)
	}
	if err := e.SetFileAttr(base.NewFileAttr(base.TypeDirectory)); err != nil {
		undo()
		return nil, s.report(err)
	}
	e.SetSize(p.SubDirGroups * p.GroupSize())
	e.SetDate(now())

	if err := s.driver.MakeDirectory(e); err != nil {
		undo()
		return nil, s.report(err)
	}
	return e, s.report(s.reload())
}
