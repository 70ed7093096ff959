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
	"fmt"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

var allFormats = []string{
	"n88_1d", "n88_2d", "n88_2dd", "hu_2d", "cdos_2d", "mz_1d", "mz_2d", "mz_2dd",
	"sdos_2d", "r40_2d"}

func formatted(t *testing.T, format string) (*Session, *disk.Flat) {
	t.Helper()
	cat := catalog.Builtin()
	img, err := disk.NewBlankFlat(cat.FindByName("", format).Geometry)
	if err != nil {
		t.Fatal(err)
	}
	s := New(cat)
	if err := s.Format(img, format, VolumeOptions{Name: "VOL"}); err != nil {
		t.Fatalf("Format(%s): %v", format, err)
	}
	return s, img
}

func content(size int) []byte {
	ret := make([]byte, size)
	for ix := range ret {
		ret[ix] = byte(ix%251 + 1)
	}
	return ret
}

func save(t *testing.T, s *Session, name string, size int) base.Entry {
	t.Helper()
	e, err := s.Save(bytes.NewReader(content(size)), SaveOptions{
		Name: name, Type: base.TypeBasic, Native: -1})
	if err != nil {
		t.Fatalf("Save(%s): %v", name, err)
	}
	return e
}

func hasMessage(s *Session, text string) int {
	n := 0
	for _, m := range s.Messages() {
		if strings.Contains(m, text) {
			n++
		}
	}
	return n
}

func TestSession_StateMachine(t *testing.T) {

	s := New(catalog.Builtin())
	if s.State() != Unparsed {
		t.Fatalf("new session is %v", s.State())
	}
	if err := s.AssignFat(); !errors.Is(err, base.ErrInvalidState) {
		t.Errorf("AssignFat() on unparsed session: %v", err)
	}
	if err := s.AssignRootDirectory(); !errors.Is(err, base.ErrInvalidState) {
		t.Errorf("AssignRootDirectory() on unparsed session: %v", err)
	}
	if s.FreeSize() != -1 || s.FreeGroups() != -1 {
		t.Error("free space reported for unparsed session")
	}

	_, img := formatted(t, "hu_2d")
	if err := s.Parse(img, AllSides); err != nil {
		t.Fatal(err)
	}
	if s.State() != Parsed {
		t.Fatalf("state after Parse() is %v", s.State())
	}
	if err := s.AssignRootDirectory(); !errors.Is(err, base.ErrInvalidState) {
		t.Errorf("AssignRootDirectory() before AssignFat(): %v", err)
	}
	if s.State() != Unparsed {
		t.Fatalf("failed step left session %v", s.State())
	}

	if err := s.Open(img, AllSides); err != nil {
		t.Fatal(err)
	}
	if s.State() != Assigned || s.Driver().Name() != "hu" {
		t.Fatalf("session is %v with driver %s", s.State(), s.Driver().Name())
	}
	save(t, s, "X", 10)

	s.Clear()
	if s.State() != Unparsed || s.Driver() != nil || s.Entries() != nil {
		t.Error("Clear() did not reset the session")
	}
	if _, err := s.Find("X"); !errors.Is(err, base.ErrInvalidState) {
		t.Errorf("Find() on cleared session: %v", err)
	}
}

func TestSession_Detect(t *testing.T) {
	for _, format := range allFormats {
		t.Run(format, func(t *testing.T) {
			_, img := formatted(t, format)
			s := New(catalog.Builtin())
			if err := s.Open(img, AllSides); err != nil {
				t.Fatal(err)
			}
			if got := s.Driver().Params().Name; got != format {
				t.Errorf("detected %s", got)
			}
			if len(s.Messages()) != 0 {
				t.Errorf("messages: %v", s.Messages())
			}
		})
	}
}

func TestSession_DetectHints(t *testing.T) {
	_, img := formatted(t, "cdos_2d")
	s := New(catalog.Builtin())

	if err := s.Open(img, AllSides, "n88_2d", "cdos_2d"); err != nil {
		t.Fatal(err)
	}
	if got := s.Driver().Params().Name; got != "cdos_2d" {
		t.Errorf("detected %s", got)
	}

	if err := s.Open(img, AllSides, "hu_2d"); !errors.Is(err, base.ErrUnsupported) {
		t.Errorf("Open() with wrong hint: %v", err)
	}
	if err := s.Open(img, AllSides, "nosuchformat"); !errors.Is(err, base.ErrUnknownFormat) {
		t.Errorf("Open() with unknown hint: %v", err)
	}
	if s.State() != Unparsed {
		t.Errorf("failed Open() left session %v", s.State())
	}
}

func TestSession_DetectAmbiguous(t *testing.T) {

	hu := *catalog.Builtin().FindByName("", "hu_2d")
	clone := hu
	clone.Name = "hu_clone"
	cat, err := catalog.New(&hu, &clone)
	if err != nil {
		t.Fatal(err)
	}

	_, img := formatted(t, "hu_2d")
	s := New(cat)
	if err := s.Open(img, AllSides); err != nil {
		t.Fatal(err)
	}
	if got := s.Driver().Params().Name; got != "hu_2d" {
		t.Errorf("detected %s, want first candidate", got)
	}
	if hasMessage(s, "hu_2d, hu_clone") != 1 {
		t.Errorf("no ambiguity warning in %v", s.Messages())
	}
}

func TestSession_Unformatted(t *testing.T) {
	cat := catalog.Builtin()
	img, _ := disk.NewBlankFlat(cat.FindByName("", "hu_2d").Geometry)
	s := New(cat)
	if err := s.Open(img, AllSides); !errors.Is(err, base.ErrUnsupported) {
		t.Errorf("Open() on blank image: %v", err)
	}
	if s.State() != Unparsed || len(s.Messages()) != 1 {
		t.Errorf("session %v, messages %v", s.State(), s.Messages())
	}

	single := disk.Geometry{Sides: 1, Tracks: 40, SectorsPerTrack: 16,
		SectorSize: 256, SectorBase: 1}
	img, _ = disk.NewBlankFlat(single)
	if err := s.Open(img, AllSides); !errors.Is(err, base.ErrUnsupported) {
		t.Errorf("Open() on blank single sided image: %v", err)
	}

	eightInch := disk.Geometry{Sides: 2, Tracks: 77, SectorsPerTrack: 26,
		SectorSize: 256, SectorBase: 1}
	img, _ = disk.NewBlankFlat(eightInch)
	if err := s.Open(img, AllSides); !errors.Is(err, base.ErrUnknownFormat) {
		t.Errorf("Open() on image of unknown geometry: %v", err)
	}
}

func TestSession_SingleSide(t *testing.T) {

	cat := catalog.Builtin()
	img, err := disk.NewBlankFlat(cat.FindByName("", "n88_2d").Geometry)
	if err != nil {
		t.Fatal(err)
	}

	// each side carries its own filesystem
	sides := []string{"n88_1d", "mz_1d"}
	for side, format := range sides {
		s := New(cat)
		if err := s.Format(disk.SideView(img, side), format,
			VolumeOptions{Name: "SIDE"}); err != nil {
			t.Fatalf("Format(%s) on side %d: %v", format, side, err)
		}
		save(t, s, fmt.Sprintf("S%d", side), 3000+side)
	}

	for side, format := range sides {
		s := New(cat)
		if err := s.Open(img, side); err != nil {
			t.Fatalf("Open() side %d: %v", side, err)
		}
		if got := s.Driver().Params().Name; got != format {
			t.Errorf("side %d detected as %s, want %s", side, got, format)
		}
		if len(s.Messages()) != 0 {
			t.Errorf("side %d messages: %v", side, s.Messages())
		}

		e, err := s.Find(fmt.Sprintf("S%d", side))
		if err != nil {
			t.Fatalf("side %d: %v", side, err)
		}
		var out bytes.Buffer
		if _, err := s.Load(e, &out); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out.Bytes(), content(3000+side)) {
			t.Errorf("side %d: file content differs", side)
		}
		if _, err := s.Find(fmt.Sprintf("S%d", 1-side)); !errors.Is(err, base.ErrNotFound) {
			t.Errorf("side %d shows file of other side: %v", side, err)
		}

		if err := s.Open(img, side, format); err != nil {
			t.Errorf("Open() side %d with hint: %v", side, err)
		}
	}

	s := New(cat)
	if err := s.Open(img, 0, "n88_2d"); !errors.Is(err, base.ErrUnsupported) {
		t.Errorf("Open() side 0 as two sided format: %v", err)
	}
	if err := s.Open(img, AllSides); !errors.Is(err, base.ErrUnsupported) {
		t.Errorf("Open() on both sides: %v", err)
	}
}

func TestSession_AbsentTracks(t *testing.T) {

	_, img := formatted(t, "hu_2d")
	g := img.Geometry()
	data := img.Bytes()[:g.Size()-2*g.TrackSize()]
	truncated, err := disk.NewFlat(g, data)
	if err != nil {
		t.Fatal(err)
	}

	s := New(catalog.Builtin())
	if err := s.Open(truncated, AllSides); err != nil {
		t.Fatal(err)
	}
	if n := hasMessage(s, "track not found"); n != 2 {
		t.Errorf("%d track warnings, want 2: %v", n, s.Messages())
	}
	if hasMessage(s, "track 39 side 1") != 1 {
		t.Errorf("missing warning for last track: %v", s.Messages())
	}
}

func TestSession_RoundTrip(t *testing.T) {
	for _, format := range allFormats {
		t.Run(format, func(t *testing.T) {
			s, _ := formatted(t, format)
			for ix, size := range []int{0, 1, 255, 256, 3000, 9999} {
				name := fmt.Sprintf("F%d", ix)
				e := save(t, s, name, size)

				found, err := s.Find(name)
				if err != nil {
					t.Fatal(err)
				}
				var buf bytes.Buffer
				n, err := s.Load(found, &buf)
				if err != nil {
					t.Fatal(err)
				}
				if e.Size() >= 0 && n != size {
					t.Errorf("loaded %d bytes, want %d", n, size)
				}
				if n < size || !bytes.Equal(buf.Bytes()[:size], content(size)) {
					t.Errorf("%s: content differs", name)
				}
				if err := s.Verify(found, bytes.NewReader(content(size))); err != nil {
					t.Errorf("Verify(%s): %v", name, err)
				}
			}
			if got := len(s.Entries()); got != 6 {
				t.Errorf("%d entries, want 6", got)
			}

			other := New(catalog.Builtin())
			if err := other.Open(s.Image(), AllSides); err != nil {
				t.Fatalf("reopening: %v", err)
			}
			if got := other.Driver().Params().Name; got != format {
				t.Errorf("reopened as %s", got)
			}
		})
	}
}

func TestSession_Verify(t *testing.T) {
	s, _ := formatted(t, "sdos_2d")
	e := save(t, s, "DATA", 1000)

	data := content(1000)
	data[600] ^= 0xFF
	if err := s.Verify(e, bytes.NewReader(data)); !errors.Is(err, base.ErrVerify) {
		t.Errorf("Verify() with modified content: %v", err)
	}
	if err := s.Verify(e, bytes.NewReader(content(999))); !errors.Is(err, base.ErrSizeMismatch) {
		t.Errorf("Verify() with shorter content: %v", err)
	}

	n, _ := formatted(t, "n88_2d")
	e = save(t, n, "DATA", 1000)
	if err := n.Verify(e, bytes.NewReader(content(1000))); err != nil {
		t.Errorf("Verify() without size field: %v", err)
	}
	if err := n.Verify(e, bytes.NewReader(content(5000))); !errors.Is(err, base.ErrSizeMismatch) {
		t.Errorf("Verify() beyond allocated groups: %v", err)
	}
}

func TestSession_SaveErrors(t *testing.T) {

	s, _ := formatted(t, "mz_2d")
	save(t, s, "HELLO", 10)

	_, err := s.Save(bytes.NewReader(nil), SaveOptions{Name: "hello", Type: base.TypeBasic})
	if !errors.Is(err, base.ErrDuplicateName) {
		t.Errorf("Save() duplicate: %v", err)
	}
	if _, err := s.Save(bytes.NewReader(content(20)), SaveOptions{
		Name: "HELLO", Type: base.TypeBasic, Overwrite: true}); err != nil {
		t.Errorf("Save() overwriting: %v", err)
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("%d entries after overwrite", got)
	}

	if _, err := s.Save(bytes.NewReader(content(0x10000)), SaveOptions{
		Name: "BIG", Type: base.TypeBasic}); !errors.Is(err, base.ErrFileTooLarge) {
		t.Errorf("Save() too large: %v", err)
	}
	if _, err := s.Save(bytes.NewReader(nil), SaveOptions{
		Name: "", Type: base.TypeBasic}); !errors.Is(err, base.ErrNameRequired) {
		t.Errorf("Save() without name: %v", err)
	}
	if _, err := s.Save(bytes.NewReader(nil), SaveOptions{
		Name: "X", Type: base.TypeVolume}); !errors.Is(err, base.ErrInvalidAttr) {
		t.Errorf("Save() with unsupported type: %v", err)
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("%d entries after failed saves", got)
	}
}

func TestSession_OverwriteNoSpace(t *testing.T) {
	for _, format := range []string{"n88_2d", "cdos_2d", "r40_2d"} {
		t.Run(format, func(t *testing.T) {

			s, _ := formatted(t, format)
			save(t, s, "OLD", 1000)
			p := s.Driver().Params()
			free := s.FreeGroups()
			capacity := free * p.SectorsPerGroup * p.DataSize()

			_, err := s.Save(bytes.NewReader(content(capacity+5000)), SaveOptions{
				Name: "OLD", Type: base.TypeBasic, Native: -1, Overwrite: true})
			if !errors.Is(err, base.ErrInsufficientSpace) {
				t.Fatalf("Save() overwriting beyond capacity: %v", err)
			}
			if got := s.FreeGroups(); got != free {
				t.Errorf("FreeGroups() = %d after failed overwrite, want %d", got, free)
			}

			e, err := s.Find("OLD")
			if err != nil {
				t.Fatalf("old file lost: %v", err)
			}
			if err := s.Verify(e, bytes.NewReader(content(1000))); err != nil {
				t.Errorf("old file damaged by failed overwrite: %v", err)
			}
		})
	}
}

func TestSession_OverwriteReusesSpace(t *testing.T) {

	s, _ := formatted(t, "n88_2d")
	p := s.Driver().Params()
	capacity := s.FreeGroups() * p.SectorsPerGroup * p.DataSize()

	save(t, s, "OLD", capacity)
	if s.FreeGroups() != 0 {
		t.Fatalf("FreeGroups() = %d on full disk", s.FreeGroups())
	}

	// only fits in the groups of the file it replaces
	if _, err := s.Save(bytes.NewReader(content(capacity-100)), SaveOptions{
		Name: "OLD", Type: base.TypeBasic, Native: -1, Overwrite: true}); err != nil {
		t.Fatalf("Save() overwriting on full disk: %v", err)
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("%d entries after overwrite", got)
	}
}

func TestSession_OverwriteContiguous(t *testing.T) {

	s, _ := formatted(t, "mz_2d")
	per := s.Driver().Params().DataSize()

	save(t, s, "FRONT", 100*per)
	save(t, s, "OLD", 1000)
	for ix := 0; s.FreeGroups() > 250; ix++ {
		save(t, s, fmt.Sprintf("FILL%d", ix), 200*per)
	}
	save(t, s, "LAST", (s.FreeGroups()-50)*per)

	front, err := s.Find("FRONT")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(front, false); err != nil {
		t.Fatal(err)
	}

	// with the old file released, the longest free run has 104 groups
	free := s.FreeGroups()
	_, err = s.Save(bytes.NewReader(content(120*per)), SaveOptions{
		Name: "OLD", Type: base.TypeBasic, Native: -1, Overwrite: true})
	if !errors.Is(err, base.ErrInsufficientSpace) {
		t.Fatalf("Save() without contiguous run: %v", err)
	}
	if got := s.FreeGroups(); got != free {
		t.Errorf("FreeGroups() = %d after failed overwrite, want %d", got, free)
	}
	if _, err := s.Find("OLD"); err != nil {
		t.Fatalf("old file lost: %v", err)
	}

	if _, err := s.Save(bytes.NewReader(content(90*per)), SaveOptions{
		Name: "OLD", Type: base.TypeBasic, Native: -1, Overwrite: true}); err != nil {
		t.Errorf("Save() into front run: %v", err)
	}
}

func TestSession_DirectoryFull(t *testing.T) {
	s, _ := formatted(t, "cdos_2d")
	slots := s.Driver().Params().DirEntryCount()
	for ix := 0; ix < slots; ix++ {
		save(t, s, fmt.Sprintf("F%d", ix), 1)
	}
	_, err := s.Save(bytes.NewReader(nil), SaveOptions{Name: "MORE", Type: base.TypeBasic})
	if !errors.Is(err, base.ErrDirFull) {
		t.Errorf("Save() into full directory: %v", err)
	}
}

func TestSession_DiskFull(t *testing.T) {

	s, _ := formatted(t, "cdos_2d")
	p := s.Driver().Params()
	free := s.FreeGroups()
	capacity := free * p.SectorsPerGroup * p.DataSize()

	_, err := s.Save(bytes.NewReader(content(capacity+1)), SaveOptions{
		Name: "HUGE", Type: base.TypeBasic})
	if !errors.Is(err, base.ErrNoSpace) {
		t.Fatalf("Save() beyond capacity: %v", err)
	}
	if got := s.FreeGroups(); got != free {
		t.Errorf("FreeGroups() = %d after rollback, want %d", got, free)
	}
	if got := len(s.Entries()); got != 0 {
		t.Errorf("%d entries after rollback", got)
	}

	save(t, s, "ALL", capacity)
	if got := s.FreeGroups(); got != 0 {
		t.Errorf("FreeGroups() = %d on full disk", got)
	}
	_, err = s.Save(bytes.NewReader(content(1)), SaveOptions{
		Name: "ONE", Type: base.TypeBasic})
	if !errors.Is(err, base.ErrDiskFull) {
		t.Errorf("Save() on full disk: %v", err)
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("%d entries on full disk", got)
	}
}

func TestSession_DeleteRenameAttr(t *testing.T) {

	s, _ := formatted(t, "hu_2d")
	before := s.FreeSize()
	a := save(t, s, "ALPHA.BAS", 5000)
	save(t, s, "BETA.BAS", 10)

	if err := s.Rename(a, "BETA.BAS"); !errors.Is(err, base.ErrDuplicateName) {
		t.Errorf("Rename() to existing name: %v", err)
	}
	if err := s.Rename(a, "GAMMA.ASC"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Find("GAMMA.ASC"); err != nil {
		t.Errorf("renamed file not found: %v", err)
	}
	if err := s.Rename(a, "GAMMA.ASC"); err != nil {
		t.Errorf("Rename() to own name: %v", err)
	}

	if err := s.ChangeAttr(a, AttrOptions{Kind: base.TypeASCII, Native: -1,
		Set: base.TypeReadOnly}); err != nil {
		t.Fatal(err)
	}
	if got := a.FileAttr().Type; got != base.TypeASCII|base.TypeReadOnly {
		t.Errorf("attributes are %v", got)
	}
	if err := s.ChangeAttr(a, AttrOptions{Kind: base.TypeDirectory}); !errors.Is(err, base.ErrInvalidAttr) {
		t.Errorf("ChangeAttr() to directory: %v", err)
	}

	if err := s.Delete(a, false); !errors.Is(err, base.ErrReadOnly) {
		t.Errorf("Delete() read-only file: %v", err)
	}
	if err := s.Delete(a, true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Find("GAMMA.ASC"); !errors.Is(err, base.ErrNotFound) {
		t.Errorf("deleted file found: %v", err)
	}

	b, _ := s.Find("BETA.BAS")
	if err := s.ChangeAttr(b, AttrOptions{Clear: base.TypeReadOnly}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(b, false); err != nil {
		t.Fatal(err)
	}
	if got := s.FreeSize(); got != before {
		t.Errorf("FreeSize() = %d after deleting all, want %d", got, before)
	}
}

func TestSession_Directories(t *testing.T) {

	s, _ := formatted(t, "hu_2d")
	if _, err := s.MakeDirectory("GAMES"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MakeDirectory("GAMES"); !errors.Is(err, base.ErrDuplicateName) {
		t.Errorf("MakeDirectory() duplicate: %v", err)
	}
	save(t, s, "README", 100)

	if err := s.ChangeDirectory("README"); !errors.Is(err, base.ErrNotDirectory) {
		t.Errorf("ChangeDirectory() into file: %v", err)
	}
	if err := s.ChangeDirectory("GAMES"); err != nil {
		t.Fatal(err)
	}
	if s.Path() != "/GAMES" || len(s.Entries()) != 0 {
		t.Fatalf("in %s with %d entries", s.Path(), len(s.Entries()))
	}
	inner := save(t, s, "PACMAN", 2000)
	if _, err := s.Find("README"); !errors.Is(err, base.ErrNotFound) {
		t.Errorf("root file visible in subdirectory: %v", err)
	}

	if err := s.ChangeDirectory(".."); err != nil {
		t.Fatal(err)
	}
	games, _ := s.Find("GAMES")
	if err := s.Delete(games, false); !errors.Is(err, base.ErrDirNotEmpty) {
		t.Errorf("Delete() non-empty directory: %v", err)
	}

	s.ChangeDirectory("GAMES")
	if err := s.Delete(inner, false); err != nil {
		t.Fatal(err)
	}
	s.ChangeDirectory("/")
	if s.Path() != "/" || s.Depth() != 0 {
		t.Errorf("in %s after changing to root", s.Path())
	}
	games, _ = s.Find("GAMES")
	if err := s.Delete(games, false); err != nil {
		t.Errorf("Delete() empty directory: %v", err)
	}
}

func TestSession_PathTooDeep(t *testing.T) {
	s, _ := formatted(t, "hu_2d")
	max := s.Driver().Params().MaxDirDepth
	for d := 0; d < max; d++ {
		if _, err := s.MakeDirectory("SUB"); err != nil {
			t.Fatalf("MakeDirectory() at depth %d: %v", d, err)
		}
		if err := s.ChangeDirectory("SUB"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.MakeDirectory("SUB"); !errors.Is(err, base.ErrPathTooDeep) {
		t.Errorf("MakeDirectory() at depth %d: %v", max, err)
	}
	if s.Path() != strings.Repeat("/SUB", max) {
		t.Errorf("Path() = %s", s.Path())
	}
	for d := 0; d < max; d++ {
		s.Parent()
	}
	if s.Path() != "/" {
		t.Errorf("Path() = %s after leaving all levels", s.Path())
	}

	n, _ := formatted(t, "n88_2d")
	if _, err := n.MakeDirectory("SUB"); !errors.Is(err, base.ErrUnsupportedOp) {
		t.Errorf("MakeDirectory() on n88: %v", err)
	}
}

func TestSession_WriteProtected(t *testing.T) {

	_, flat := formatted(t, "sdos_2d")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	img := disk.NewMockImage(ctrl)
	img.EXPECT().Geometry().Return(flat.Geometry()).AnyTimes()
	img.EXPECT().Sector(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		flat.Sector).AnyTimes()
	img.EXPECT().Track(gomock.Any(), gomock.Any()).DoAndReturn(
		flat.Track).AnyTimes()
	img.EXPECT().IsWriteProtected().Return(true).AnyTimes()

	s := New(catalog.Builtin())
	if err := s.Open(img, AllSides); err != nil {
		t.Fatal(err)
	}

	for ix := 0; ix < 2; ix++ {
		if _, err := s.Save(bytes.NewReader(nil), SaveOptions{Name: "X"}); !errors.Is(err, base.ErrWriteProtected) {
			t.Errorf("Save() on write protected disk: %v", err)
		}
	}
	if _, err := s.MakeDirectory("X"); !errors.Is(err, base.ErrWriteProtected) {
		t.Errorf("MakeDirectory() on write protected disk: %v", err)
	}
	if hasMessage(s, "write protected") != 1 {
		t.Errorf("messages not deduplicated: %v", s.Messages())
	}
	if err := s.Format(img, "sdos_2d", VolumeOptions{}); !errors.Is(err, base.ErrWriteProtected) {
		t.Errorf("Format() on write protected disk: %v", err)
	}

	s.ClearMessages()
	if len(s.Messages()) != 0 {
		t.Error("messages not cleared")
	}
}

func TestSession_FormatErrors(t *testing.T) {
	cat := catalog.Builtin()
	s := New(cat)
	img, _ := disk.NewBlankFlat(cat.FindByName("", "mz_2d").Geometry)

	if err := s.Format(img, "apple_dos", VolumeOptions{}); !errors.Is(err, base.ErrUnknownFormat) {
		t.Errorf("Format() with unknown format: %v", err)
	}
	if err := s.Format(img, "mz_2dd", VolumeOptions{}); !errors.Is(err, base.ErrUnsupported) {
		t.Errorf("Format() with wrong geometry: %v", err)
	}
	if err := s.Format(img, "mz_2d", VolumeOptions{Name: "FAR TOO LONG NAME"}); !errors.Is(err, base.ErrInvalidName) {
		t.Errorf("Format() with long volume name: %v", err)
	}
	if err := s.Format(img, "mz_2d", VolumeOptions{Name: "GAMES"}); err != nil {
		t.Fatal(err)
	}
	if s.VolumeName() != "GAMES" || s.State() != Assigned {
		t.Errorf("volume %s, state %v", s.VolumeName(), s.State())
	}
}
