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

package common

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/charset"
	"github.com/xelalexv/basicdisk/pkg/codec"
	"github.com/xelalexv/basicdisk/pkg/raw"
)

// Entry implements the parts of base.Entry that only depend on the field
// layout and format parameters. Layouts use the field names name, ext, attr1,
// attr2, attr3, start, extra, size, load, exec, date, and time. Format
// packages embed Entry and add the slot usage rules.
type Entry struct {
	block  *raw.Block
	params *catalog.Params
	index  int
	names  codec.NameCodec
	known  []catalog.SpecialAttr
}

// NewEntry creates an entry over data. Native type codes in known take
// precedence over the special attributes of the parameters.
func NewEntry(p *catalog.Params, layout map[string][2]int, data []byte,
	index int, known []catalog.SpecialAttr) *Entry {
	return &Entry{
		block:  raw.NewCodedBlock(layout, data, p.DataInverted, p.BigEndian),
		params: p,
		index:  index,
		names:  codec.Padded{Pad: p.NamePad, Terminator: p.NameTerminator},
		known:  known,
	}
}

// SetNameCodec replaces the default padded name codec.
func (e *Entry) SetNameCodec(c codec.NameCodec) {
	e.names = c
}

//
func (e *Entry) Block() *raw.Block {
	return e.block
}

//
func (e *Entry) Params() *catalog.Params {
	return e.params
}

//
func (e *Entry) Index() int {
	return e.index
}

//
func (e *Entry) Data() []byte {
	return e.block.Data
}

// Clear fills the slot with the file fill code and blanks name and
// extension.
func (e *Entry) Clear() {
	e.block.FillAll(byte(e.params.FillCodeFile))
	e.SetName(nil, nil)
}

// IsBlank determines whether the slot holds nothing but the directory fill
// code.
func (e *Entry) IsBlank() bool {
	return e.block.IsFilled(byte(e.params.FillCodeDir))
}

// IsEnd is false for formats without end of directory marker.
func (e *Entry) IsEnd() bool {
	return false
}

// HasValidStart checks that the start group lies within the allocation table
// and is not reserved.
func (e *Entry) HasValidStart() bool {
	g := e.StartGroup()
	return 0 <= g && g <= e.params.FatEndGroup && !e.params.IsSystemGroup(g)
}

// HasPrintableName determines whether the name holds at least one character
// and no control characters.
func (e *Entry) HasPrintableName() bool {
	name := e.RawName()
	for _, c := range name {
		if c < 0x20 || c == 0x7F {
			return false
		}
	}
	return len(name) > 0
}

//
func (e *Entry) RawName() []byte {
	return e.names.Decode(e.block.GetBytes("name"))
}

//
func (e *Entry) Name() string {
	return string(e.RawName())
}

//
func (e *Entry) Ext() string {
	if !e.block.Has("ext") {
		return ""
	}
	return string(e.names.Decode(e.block.GetBytes("ext")))
}

// DisplayName returns name and extension in printable form.
func (e *Entry) DisplayName() string {
	if ext := e.Ext(); ext != "" {
		return charset.Translate(e.RawName()) + "." + charset.Translate([]byte(ext))
	}
	return charset.Translate(e.RawName())
}

//
func (e *Entry) SetName(name, ext []byte) error {

	n, err := e.names.Encode(name, e.block.Len("name"))
	if err != nil {
		return base.NewError(base.CodeInvalidName, string(name))
	}

	var x []byte
	if e.block.Has("ext") {
		if x, err = e.names.Encode(ext, e.block.Len("ext")); err != nil {
			return base.NewError(base.CodeInvalidName, string(ext))
		}
	} else if len(ext) > 0 {
		return base.NewError(base.CodeInvalidName, string(ext))
	}

	e.block.SetBytes("name", n)
	e.block.SetBytes("ext", x)
	return nil
}

// Attr gets attribute word n, 1 to 3.
func (e *Entry) Attr(n int) int {
	return e.block.GetInt(fmt.Sprintf("attr%d", n))
}

//
func (e *Entry) SetAttr(n, v int) {
	e.block.SetInt(fmt.Sprintf("attr%d", n), v)
}

//
func (e *Entry) Attr1() int     { return e.Attr(1) }
func (e *Entry) SetAttr1(v int) { e.SetAttr(1, v) }
func (e *Entry) Attr2() int     { return e.Attr(2) }
func (e *Entry) SetAttr2(v int) { e.SetAttr(2, v) }
func (e *Entry) Attr3() int     { return e.Attr(3) }
func (e *Entry) SetAttr3(v int) { e.SetAttr(3, v) }

// Known returns the format's own type codes.
func (e *Entry) Known() []catalog.SpecialAttr {
	return e.known
}

// DecodeAttr translates a native type code and flag word into a file type.
func (e *Entry) DecodeAttr(code, flags int) base.FileType {
	t := base.TypeUnknown
	if a, ok := catalog.LookupAttrIn(e.known, code); ok {
		t = a.Type
	} else if a, ok := e.params.LookupAttr(code); ok {
		t = a.Type
	}
	for _, f := range e.params.AttrFlags {
		if flags&f.Mask != 0 {
			t |= f.Type
		}
	}
	return t
}

// EncodeAttr translates a file attribute into a native type code. The native
// code of a is used when it decodes to the same file kind.
func (e *Entry) EncodeAttr(a base.FileAttr) (int, error) {
	kind := a.Type.Kind()
	if a.Native >= 0 && e.DecodeAttr(a.Native, 0).Kind() == kind {
		return a.Native, nil
	}
	if s, ok := catalog.ReverseAttrIn(e.known, kind); ok {
		return s.Value, nil
	}
	if s, ok := e.params.ReverseAttr(kind); ok {
		return s.Value, nil
	}
	return -1, base.NewError(base.CodeInvalidAttr, a.Type.String())
}

func (e *Entry) encodeFlags(flags int, t base.FileType) int {
	for _, f := range e.params.AttrFlags {
		if t.Has(f.Type) {
			flags |= f.Mask
		} else {
			flags &^= f.Mask
		}
	}
	return flags
}

// FileAttr decodes the attribute words selected by the parameters.
func (e *Entry) FileAttr() base.FileAttr {
	code := e.Attr(e.params.TypeAttr)
	flags := e.Attr(e.params.FlagAttr)
	if e.params.TypeAttr == e.params.FlagAttr {
		code &^= e.params.FlagMask()
	}
	return base.FileAttr{
		Type:   e.DecodeAttr(code, flags),
		Native: e.Attr(e.params.TypeAttr),
	}
}

//
func (e *Entry) SetFileAttr(a base.FileAttr) error {

	if a.Native >= 0 && e.params.TypeAttr == e.params.FlagAttr {
		a.Native &^= e.params.FlagMask()
	}

	code, err := e.EncodeAttr(a)
	if err != nil {
		return err
	}

	if e.params.TypeAttr == e.params.FlagAttr {
		e.SetAttr(e.params.TypeAttr, e.encodeFlags(code, a.Type))
		return nil
	}

	e.SetAttr(e.params.TypeAttr, code)
	if e.params.FlagAttr > 0 {
		e.SetAttr(e.params.FlagAttr, e.encodeFlags(e.Attr(e.params.FlagAttr), a.Type))
	}
	return nil
}

//
func (e *Entry) StartGroup() int {
	return e.block.GetInt("start")
}

//
func (e *Entry) SetStartGroup(g int) {
	e.block.SetInt("start", g)
}

//
func (e *Entry) ExtraGroup() int {
	return e.block.GetInt("extra")
}

//
func (e *Entry) SetExtraGroup(g int) {
	e.block.SetInt("extra", g)
}

//
func (e *Entry) Size() int {
	return e.block.GetInt("size")
}

//
func (e *Entry) SetSize(s int) {
	e.block.SetInt("size", s)
}

//
func (e *Entry) LoadAddress() int {
	return e.block.GetInt("load")
}

//
func (e *Entry) SetLoadAddress(a int) {
	e.block.SetInt("load", a)
}

//
func (e *Entry) ExecAddress() int {
	return e.block.GetInt("exec")
}

//
func (e *Entry) SetExecAddress(a int) {
	e.block.SetInt("exec", a)
}

// Date decodes packed binary date and time fields.
func (e *Entry) Date() time.Time {
	if !e.block.Has("date") {
		return time.Time{}
	}
	d := codec.ParseDate(uint16(e.block.GetInt("date")))
	if !e.block.Has("time") {
		return d
	}
	hh, mm, ss := codec.ParseTime(uint16(e.block.GetInt("time")))
	return codec.Combine(d, hh, mm, ss)
}

//
func (e *Entry) SetDate(t time.Time) {
	e.block.SetInt("date", int(codec.PackDate(t)))
	e.block.SetInt("time", int(codec.PackTime(t)))
}

//
func (e *Entry) IsDirectory() bool {
	return e.FileAttr().Type.Has(base.TypeDirectory)
}

//
func (e *Entry) IsReadOnly() bool {
	return e.FileAttr().Type.Has(base.TypeReadOnly)
}

//
func (e *Entry) Emit(w io.Writer) {
	io.WriteString(w, fmt.Sprintf(
		"\nENTRY %d: %+q - attr: %s, start: %d, size: %d\n",
		e.index, e.DisplayName(), e.FileAttr().Type, e.StartGroup(), e.Size()))
	d := hex.Dumper(w)
	defer d.Close()
	d.Write(e.block.Data)
}
