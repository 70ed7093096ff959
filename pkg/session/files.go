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
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
)

// SaveOptions control how a file is stored.
type SaveOptions struct {
	// full name, with extension separated by a dot
	Name string
	Type base.FileType
	// native type code, -1 to derive it from Type
	Native      int
	LoadAddress int
	ExecAddress int
	// zero selects the current time
	Date time.Time
	// replace an existing file of the same name
	Overwrite bool
}

// AttrOptions describe an attribute change. A Kind of 0 keeps the current
// file kind and native code.
type AttrOptions struct {
	Kind base.FileType
	// native type code for Kind, -1 to derive it
	Native int
	Set    base.FileType
	Clear  base.FileType
}

var now = time.Now

// snapshot saves the slot data of e and returns a function for restoring it.
func snapshot(e base.Entry) func() {
	orig := append([]byte(nil), e.Data()...)
	return func() {
		copy(e.Data(), orig)
	}
}

// Load writes the contents of the file described by e to w, and returns the
// number of bytes written.
func (s *Session) Load(e base.Entry, w io.Writer) (int, error) {

	if err := s.ready(); err != nil {
		return 0, err
	}
	if e.IsDirectory() {
		return 0, s.report(base.NewError(base.CodeUnsupportedOp, "load directory"))
	}

	size, err := s.driver.FileSize(e)
	if err != nil {
		return 0, s.report(err)
	}
	sectors, err := s.driver.FileSectors(e)
	if err != nil {
		return 0, s.report(err)
	}

	written := 0
	for _, l := range sectors {
		if written >= size {
			break
		}
		data, err := s.driver.ReadSector(l)
		if err != nil {
			return written, s.report(err)
		}
		if rest := size - written; len(data) > rest {
			data = data[:rest]
		}
		n, err := w.Write(data)
		written += n
		if err != nil {
			return written, s.report(err)
		}
	}

	log.WithFields(log.Fields{
		"name": FullName(e),
		"size": written,
	}).Debug("file loaded")

	return written, nil
}

// Save stores the contents of r as a new file in the current directory. If
// allocation fails, all groups claimed so far are released and the directory
// slot is restored.
func (s *Session) Save(r io.Reader, opts SaveOptions) (base.Entry, error) {

	if err := s.writable(); err != nil {
		return nil, err
	}
	p := s.driver.Params()

	name, ext, err := s.driver.ValidateName(splitName(p, opts.Name))
	if err != nil {
		return nil, s.report(err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, s.report(err)
	}
	if p.MaxFileSize > 0 && len(data) > p.MaxFileSize {
		return nil, s.report(
			base.NewError(base.CodeFileTooLarge, len(data), p.MaxFileSize))
	}

	if old := s.findOther(name, ext, nil); old != nil {
		if !opts.Overwrite || old.IsDirectory() {
			return nil, s.report(base.NewError(base.CodeDuplicateName, opts.Name))
		}
		if old.IsReadOnly() {
			return nil, s.report(base.NewError(base.CodeReadOnly, FullName(old)))
		}
		// the old file is only deleted once the new one is certain to fit
		if ok, avail := s.fitsReplacing(old, len(data)); !ok {
			return nil, s.report(
				base.NewError(base.CodeInsufficientSpace, len(data), avail))
		}
		if err := s.Delete(old, false); err != nil {
			return nil, err
		}
	}

	e := s.freeSlot()
	if e == nil {
		return nil, s.report(base.NewError(base.CodeDirFull, opts.Name))
	}
	undo := snapshot(e)

	e.Clear()
	if err := e.SetName(name, ext); err != nil {
		undo()
		return nil, s.report(err)
	}
	if err := e.SetFileAttr(base.FileAttr{Type: opts.Type, Native: opts.Native}); err != nil {
		undo()
		return nil, s.report(err)
	}
	e.SetSize(len(data))
	e.SetLoadAddress(opts.LoadAddress)
	e.SetExecAddress(opts.ExecAddress)
	if opts.Date.IsZero() {
		opts.Date = now()
	}
	e.SetDate(opts.Date)

	groups, err := s.driver.AllocateGroups(e, len(data))
	if err != nil {
		if rerr := s.driver.ReleaseChain(groups); rerr != nil {
			log.Errorf("cannot release groups: %v", rerr)
		}
		undo()
		return nil, s.report(err)
	}

	if err := s.write(e, data); err != nil {
		if rerr := s.driver.ReleaseChain(groups); rerr != nil {
			log.Errorf("cannot release groups: %v", rerr)
		}
		undo()
		return nil, s.report(err)
	}

	log.WithFields(log.Fields{
		"name":   FullName(e),
		"size":   len(data),
		"groups": len(groups),
	}).Info("file saved")

	return e, s.report(s.reload())
}

// fitsReplacing determines whether size bytes can be allocated once the
// groups of old have been released, without changing anything. The second
// result is the number of bytes available for the new file.
func (s *Session) fitsReplacing(old base.Entry, size int) (bool, int) {

	t := s.driver.Table()
	p := s.driver.Params()

	released := make(map[int]bool)
	// a broken chain still releases the groups up to the break
	groups, _ := s.driver.Chain(old.StartGroup(), old.Size())
	for _, g := range groups {
		released[g] = true
	}
	free := func(g int) bool {
		return released[g] || t.GroupState(g) == base.GroupFree
	}

	n := s.driver.RequiredGroups(size)
	per := p.SectorsPerGroup * p.DataSize()
	count, run, longest := 0, 0, 0
	for g := 0; g <= t.EndGroup(); g++ {
		if !free(g) {
			run = 0
			continue
		}
		count++
		if run++; run > longest {
			longest = run
		}
	}

	if p.Contiguous {
		return longest >= n, longest * per
	}
	return count >= n, count * per
}

func (s *Session) write(e base.Entry, data []byte) error {
	sectors, err := s.driver.FileSectors(e)
	if err != nil {
		return err
	}
	per := s.driver.Params().DataSize()
	for ix, l := range sectors {
		from := ix * per
		if from > len(data) {
			from = len(data)
		}
		to := from + per
		if to > len(data) {
			to = len(data)
		}
		if err := s.driver.WriteSector(l, data[from:to]); err != nil {
			return err
		}
	}
	return nil
}

// Verify compares the contents of r with the file described by e. For formats
// without a size field, r may be shorter than the groups of the file.
func (s *Session) Verify(e base.Entry, r io.Reader) error {

	if err := s.ready(); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return s.report(err)
	}
	size, err := s.driver.FileSize(e)
	if err != nil {
		return s.report(err)
	}
	if size != len(data) && (e.Size() >= 0 || len(data) > size) {
		return s.report(base.NewError(base.CodeSizeMismatch, size, len(data)))
	}

	sectors, err := s.driver.FileSectors(e)
	if err != nil {
		return s.report(err)
	}
	per := s.driver.Params().DataSize()
	for ix, l := range sectors {
		from := ix * per
		if from >= len(data) {
			break
		}
		to := from + per
		if to > len(data) {
			to = len(data)
		}
		sec, err := s.driver.ReadSector(l)
		if err != nil {
			return s.report(err)
		}
		if !bytes.Equal(sec[:to-from], data[from:to]) {
			return s.report(base.NewError(base.CodeVerify, l))
		}
	}
	return nil
}

// Delete removes the file described by e and releases its groups. Read-only
// files are only deleted when force is set, directories only when empty.
func (s *Session) Delete(e base.Entry, force bool) error {

	if err := s.writable(); err != nil {
		return err
	}
	if e.IsReadOnly() && !force {
		return s.report(base.NewError(base.CodeReadOnly, FullName(e)))
	}

	if e.IsDirectory() {
		dir, err := s.driver.ReadDirectory(e.StartGroup())
		if err != nil {
			return s.report(err)
		}
		for _, c := range dir.Entries {
			if c.CheckUsed(false) {
				return s.report(base.NewError(base.CodeDirNotEmpty, FullName(e)))
			}
		}
	}

	if err := s.driver.ReleaseGroups(e); err != nil {
		if !errors.Is(err, base.ErrBrokenChain) {
			return s.report(err)
		}
		log.Warnf("deleting %s with broken chain: %v", FullName(e), err)
		s.report(err)
	}
	e.Delete()

	log.WithField("name", FullName(e)).Info("file deleted")
	return s.report(s.reload())
}

// Rename changes name and extension of the file described by e.
func (s *Session) Rename(e base.Entry, full string) error {

	if err := s.writable(); err != nil {
		return err
	}
	p := s.driver.Params()

	name, ext, err := s.driver.ValidateName(splitName(p, full))
	if err != nil {
		return s.report(err)
	}
	if s.findOther(name, ext, e) != nil {
		return s.report(base.NewError(base.CodeDuplicateName, full))
	}

	old := FullName(e)
	if err := e.SetName(name, ext); err != nil {
		return s.report(err)
	}
	log.WithFields(log.Fields{"from": old, "to": full}).Info("file renamed")
	return nil
}

// ChangeAttr modifies kind and flags of the file described by e.
func (s *Session) ChangeAttr(e base.Entry, opts AttrOptions) error {

	if err := s.writable(); err != nil {
		return err
	}

	a := e.FileAttr()
	if opts.Kind != 0 {
		a.Type = opts.Kind.Kind() | (a.Type &^ a.Type.Kind())
		a.Native = opts.Native
	}
	a.Type = (a.Type | opts.Set) &^ opts.Clear

	if a.Type.Has(base.TypeDirectory) != e.IsDirectory() {
		return s.report(base.NewError(base.CodeInvalidAttr, a.Type.String()))
	}

	undo := snapshot(e)
	if err := e.SetFileAttr(a); err != nil {
		undo()
		return s.report(err)
	}
	return nil
}
