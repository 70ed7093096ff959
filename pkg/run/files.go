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

package run

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/control"
	"github.com/xelalexv/basicdisk/pkg/session"
)

// parseType parses a file type given on the command line, empty is 0.
func parseType(s string) (base.FileType, error) {
	if s == "" {
		return 0, nil
	}
	t, ok := base.ParseFileType(s)
	if !ok {
		return 0, fmt.Errorf("invalid file type: %s", s)
	}
	return t, nil
}

//
func NewList() *List {

	l := &List{}
	l.Runner = *NewRunner(
		"ls -i|--image {file} [-d|--dir {directory}] [-t|--type {type}]",
		"list files in a disk image",
		"\nUse the ls command to list the files in a directory of a disk image.",
		"", runnerHelpEpilogue, l.Run)

	l.AddImageSettings()
	l.AddDirSetting()

	return l
}

//
type List struct {
	Runner
}

//
func (l *List) Run() error {

	if err := l.ParseSettings(); err != nil {
		return err
	}
	if err := l.open(); err != nil {
		return err
	}

	list := &control.Listing{Path: l.session.Path()}
	for _, e := range l.session.Entries() {
		list.Files = append(list.Files, control.NewFile(e))
	}

	l.printf("%s\n\n%d files, %d bytes free\n", list, len(list.Files),
		l.session.FreeSize())
	return nil
}

//
func NewGet() *Get {

	g := &Get{}
	g.Runner = *NewRunner(
		"get -i|--image {file} [-d|--dir {directory}] [-o|--output {file}] {name}",
		"copy a file out of a disk image",
		"\nUse the get command to copy a file from a disk image to the local file system.",
		"", runnerHelpEpilogue, g.Run)

	g.AddImageSettings()
	g.AddDirSetting()
	g.AddSetting(&g.Output, "output", "o", "", nil,
		"output file, defaults to the file name in the image", false)

	return g
}

//
type Get struct {
	Runner
	//
	Output string
}

//
func (g *Get) Run() error {

	if err := g.ParseSettings(); err != nil {
		return err
	}
	if len(g.Args) != 1 {
		return fmt.Errorf("need exactly one file name")
	}
	if err := g.open(); err != nil {
		return err
	}

	e, err := g.session.Find(g.Args[0])
	if err != nil {
		return err
	}

	var out bytes.Buffer
	n, err := g.session.Load(e, &out)
	if err != nil {
		return err
	}

	file := g.Output
	if file == "" {
		file = session.FullName(e)
	}
	if err := afero.WriteFile(fs, file, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", file, err)
	}

	g.printf("copied %s to %s, %d bytes\n", session.FullName(e), file, n)
	return nil
}

//
func NewPut() *Put {

	p := &Put{}
	p.Runner = *NewRunner(
		`put -i|--image {file} [-d|--dir {directory}] [-n|--name {name}]
      [-k|--kind {kind}] [--load {address}] [--exec {address}] [-f|--force] {file}`,
		"copy a file into a disk image",
		"\nUse the put command to copy a local file into a disk image.",
		"", `- File kinds are BAS, ASC, BIN, MCH, DAT, RND, and SYS. Not every disk format
  supports all of them. Flags such as RO or HID can be added with '|'.

`+runnerHelpEpilogue, p.Run)

	p.AddImageSettings()
	p.AddDirSetting()
	p.AddSetting(&p.Name, "name", "n", "", nil,
		"name in the image, defaults to the local file name", false)
	p.AddSetting(&p.Kind, "kind", "k", "", "BAS", "file kind", false)
	p.AddSetting(&p.Native, "native", "", "", -1,
		"native type code, overrides kind", false)
	p.AddSetting(&p.Load, "load", "", "", 0, "load address", false)
	p.AddSetting(&p.Exec, "exec", "", "", 0, "execution address", false)
	p.AddSetting(&p.Force, "force", "f", "", false,
		"replace existing file of same name", false)

	return p
}

//
type Put struct {
	Runner
	//
	Name   string
	Kind   string
	Native int
	Load   int
	Exec   int
	Force  bool
}

//
func (p *Put) Run() error {

	if err := p.ParseSettings(); err != nil {
		return err
	}
	if len(p.Args) != 1 {
		return fmt.Errorf("need exactly one input file")
	}

	kind, err := parseType(p.Kind)
	if err != nil {
		return err
	}

	file := p.Args[0]
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", file, err)
	}

	name := p.Name
	if name == "" {
		name = strings.ToUpper(filepath.Base(file))
	}

	if err := p.open(); err != nil {
		return err
	}

	e, err := p.session.Save(bytes.NewReader(data), session.SaveOptions{
		Name:        name,
		Type:        kind,
		Native:      p.Native,
		LoadAddress: p.Load,
		ExecAddress: p.Exec,
		Overwrite:   p.Force,
	})
	if err != nil {
		return err
	}
	if err := p.persist(); err != nil {
		return err
	}

	p.printf("copied %s to %s, %d bytes\n", file, session.FullName(e), len(data))
	return nil
}

//
func NewRemove() *Remove {

	r := &Remove{}
	r.Runner = *NewRunner(
		"rm -i|--image {file} [-d|--dir {directory}] [-f|--force] {name} ...",
		"delete files from a disk image",
		"\nUse the rm command to delete files or empty directories from a disk image.",
		"", runnerHelpEpilogue, r.Run)

	r.AddImageSettings()
	r.AddDirSetting()
	r.AddSetting(&r.Force, "force", "f", "", false,
		"also delete read-only files", false)

	return r
}

//
type Remove struct {
	Runner
	//
	Force bool
}

//
func (r *Remove) Run() error {

	if err := r.ParseSettings(); err != nil {
		return err
	}
	if len(r.Args) == 0 {
		return fmt.Errorf("need at least one file name")
	}
	if err := r.open(); err != nil {
		return err
	}

	for _, name := range r.Args {
		e, err := r.session.Find(name)
		if err != nil {
			return err
		}
		if err := r.session.Delete(e, r.Force); err != nil {
			return err
		}
		r.printf("deleted %s\n", name)
	}

	r.warnings()
	return r.persist()
}

//
func NewMove() *Move {

	m := &Move{}
	m.Runner = *NewRunner(
		"mv -i|--image {file} [-d|--dir {directory}] {name} {new name}",
		"rename a file in a disk image",
		"\nUse the mv command to rename a file within its directory.",
		"", runnerHelpEpilogue, m.Run)

	m.AddImageSettings()
	m.AddDirSetting()

	return m
}

//
type Move struct {
	Runner
}

//
func (m *Move) Run() error {

	if err := m.ParseSettings(); err != nil {
		return err
	}
	if len(m.Args) != 2 {
		return fmt.Errorf("need old and new file name")
	}
	if err := m.open(); err != nil {
		return err
	}

	e, err := m.session.Find(m.Args[0])
	if err != nil {
		return err
	}
	if err := m.session.Rename(e, m.Args[1]); err != nil {
		return err
	}
	if err := m.persist(); err != nil {
		return err
	}

	m.printf("renamed %s to %s\n", m.Args[0], session.FullName(e))
	return nil
}

//
func NewAttr() *Attr {

	a := &Attr{}
	a.Runner = *NewRunner(
		`attr -i|--image {file} [-d|--dir {directory}] [-k|--kind {kind}]
      [--set {flags}] [--clear {flags}] {name}`,
		"change file attributes in a disk image",
		`
Use the attr command to change the kind of a file, or to set or clear flags such
as RO (read-only), HID (hidden), or VFY (verify). Without any change, the current
attributes are shown.`,
		"", runnerHelpEpilogue, a.Run)

	a.AddImageSettings()
	a.AddDirSetting()
	a.AddSetting(&a.Kind, "kind", "k", "", nil, "new file kind", false)
	a.AddSetting(&a.Native, "native", "", "", -1,
		"native type code for the new kind", false)
	a.AddSetting(&a.Set, "set", "", "", nil, "flags to set", false)
	a.AddSetting(&a.Clear, "clear", "", "", nil, "flags to clear", false)

	return a
}

//
type Attr struct {
	Runner
	//
	Kind   string
	Native int
	Set    string
	Clear  string
}

//
func (a *Attr) Run() error {

	if err := a.ParseSettings(); err != nil {
		return err
	}
	if len(a.Args) != 1 {
		return fmt.Errorf("need exactly one file name")
	}

	opts := session.AttrOptions{Native: a.Native}
	var err error
	if opts.Kind, err = parseType(a.Kind); err != nil {
		return err
	}
	if opts.Set, err = parseType(a.Set); err != nil {
		return err
	}
	if opts.Clear, err = parseType(a.Clear); err != nil {
		return err
	}

	if err := a.open(); err != nil {
		return err
	}
	e, err := a.session.Find(a.Args[0])
	if err != nil {
		return err
	}

	if opts.Kind != 0 || opts.Set != 0 || opts.Clear != 0 {
		if err := a.session.ChangeAttr(e, opts); err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
	}

	attr := e.FileAttr()
	a.printf("%s: %s (%02X)\n", session.FullName(e), attr.Type, attr.Native)
	return nil
}

//
func NewMakeDir() *MakeDir {

	m := &MakeDir{}
	m.Runner = *NewRunner(
		"mkdir -i|--image {file} [-d|--dir {directory}] {name}",
		"create a directory in a disk image",
		"\nUse the mkdir command to create a subdirectory, if the disk format supports them.",
		"", runnerHelpEpilogue, m.Run)

	m.AddImageSettings()
	m.AddDirSetting()

	return m
}

//
type MakeDir struct {
	Runner
}

//
func (m *MakeDir) Run() error {

	if err := m.ParseSettings(); err != nil {
		return err
	}
	if len(m.Args) != 1 {
		return fmt.Errorf("need exactly one directory name")
	}
	if err := m.open(); err != nil {
		return err
	}

	e, err := m.session.MakeDirectory(m.Args[0])
	if err != nil {
		return err
	}
	if err := m.persist(); err != nil {
		return err
	}

	m.printf("created directory %s\n", session.FullName(e))
	return nil
}
