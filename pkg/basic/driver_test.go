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
	"bytes"
	"errors"
	"testing"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

var allFormats = []string{
	"n88_2d", "n88_2dd", "hu_2d", "cdos_2d", "mz_2d", "mz_2dd", "sdos_2d", "r40_2d"}

func formatted(t *testing.T, name string) (Driver, *catalog.Params, *disk.Flat) {
	t.Helper()
	p := catalog.Builtin().FindByName("", name)
	if p == nil {
		t.Fatalf("no format %s", name)
	}
	img, err := disk.NewBlankFlat(p.Geometry)
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDriver(p, img)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Format(base.Volume{Name: "TEST", Number: 1}); err != nil {
		t.Fatalf("Format(): %v", err)
	}
	return d, p, img
}

func freeSlot(t *testing.T, d Driver) base.Entry {
	t.Helper()
	dir, err := d.ReadDirectory(base.RootDirectory)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range dir.Entries {
		if !e.CheckUsed(false) {
			return e
		}
	}
	t.Fatal("no free directory slot")
	return nil
}

func newFile(t *testing.T, d Driver, name string, size int) (base.Entry, []int) {
	t.Helper()
	e := freeSlot(t, d)
	e.Clear()
	if err := e.SetName([]byte(name), nil); err != nil {
		t.Fatalf("SetName(%s): %v", name, err)
	}
	if err := e.SetFileAttr(base.NewFileAttr(base.TypeBasic)); err != nil {
		t.Fatalf("SetFileAttr(): %v", err)
	}
	e.SetSize(size)
	groups, err := d.AllocateGroups(e, size)
	if err != nil {
		t.Fatalf("AllocateGroups(%d): %v", size, err)
	}
	return e, groups
}

func payload(size int) []byte {
	ret := make([]byte, size)
	for ix := range ret {
		ret[ix] = byte(ix*7 + ix/256)
	}
	return ret
}

func TestNewDriver_Unknown(t *testing.T) {
	p := *catalog.Builtin().FindByName("", "n88_2d")
	p.Driver = "apple"
	if _, err := NewDriver(&p, nil); !errors.Is(err, base.ErrUnsupported) {
		t.Errorf("NewDriver() error = %v, want %v", err, base.ErrUnsupported)
	}
}

func TestDriver_FormatDetect(t *testing.T) {
	cat := catalog.Builtin()
	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			_, p, img := formatted(t, name)
			for _, q := range cat.All() {
				d, err := NewDriver(q, img)
				if err != nil {
					t.Fatal(err)
				}
				score := d.CheckFat(false)
				if q.Name == p.Name && (score < 0 || score > 1) {
					t.Errorf("own format scored %.3f", score)
				}
				if q.Name != p.Name && score >= 0 {
					t.Errorf("detected as %s with %.3f", q.Name, score)
				}
			}
		})
	}
}

func TestDriver_FormatFreeSpace(t *testing.T) {
	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			d, p, _ := formatted(t, name)
			free := p.GroupCount() - len(p.SystemGroups)
			if got := d.Table().FreeGroupCount(); got != free {
				t.Errorf("FreeGroupCount() = %d, want %d", got, free)
			}
			if got := d.Table().FreeSize(); got != free*p.GroupSize() {
				t.Errorf("FreeSize() = %d, want %d", got, free*p.GroupSize())
			}
		})
	}
}

// formatting an 80 track disk as MZ leaves everything but the system area
// free
func TestDriver_FormatMZ2DD(t *testing.T) {
	d, p, img := formatted(t, "mz_2dd")
	g := img.Geometry()
	if g.Tracks != 80 || g.Sides != 2 || g.SectorsPerTrack != 16 || g.SectorSize != 256 {
		t.Fatalf("unexpected geometry %v", g)
	}
	want := g.Size() - len(p.SystemGroups)*p.GroupSize()
	if got := d.Table().FreeSize(); got != want {
		t.Errorf("FreeSize() = %d, want %d", got, want)
	}
	if got := d.VolumeName(); got != "TEST" {
		t.Errorf("VolumeName() = '%s', want 'TEST'", got)
	}
}

func TestDriver_Format_WriteProtected(t *testing.T) {
	p := catalog.Builtin().FindByName("", "hu_2d")
	img, _ := disk.NewBlankFlat(p.Geometry)
	img.SetWriteProtected(true)
	d, _ := NewDriver(p, img)
	if err := d.Format(base.Volume{}); !errors.Is(err, base.ErrWriteProtected) {
		t.Errorf("Format() error = %v, want %v", err, base.ErrWriteProtected)
	}
}

func TestDriver_RoundTrip(t *testing.T) {
	for _, name := range allFormats {
		for _, size := range []int{1, 254, 1000, 5000} {
			d, p, _ := formatted(t, name)
			data := payload(size)
			e, _ := newFile(t, d, "FILE", size)

			sectors, err := d.FileSectors(e)
			if err != nil {
				t.Fatalf("%s: FileSectors(): %v", name, err)
			}
			for ix, l := range sectors {
				from := ix * p.DataSize()
				to := from + p.DataSize()
				if to > size {
					to = size
				}
				if from > to {
					from = to
				}
				if err := d.WriteSector(l, data[from:to]); err != nil {
					t.Fatalf("%s: WriteSector(%d): %v", name, l, err)
				}
			}

			var buf bytes.Buffer
			sectors, err = d.FileSectors(e)
			if err != nil {
				t.Fatalf("%s: FileSectors(): %v", name, err)
			}
			for _, l := range sectors {
				b, err := d.ReadSector(l)
				if err != nil {
					t.Fatal(err)
				}
				buf.Write(b)
			}
			if buf.Len() < size || !bytes.Equal(buf.Bytes()[:size], data) {
				t.Errorf("%s: data of size %d differs after round trip", name, size)
			}

			if got := d.CheckFat(false); got < 0 {
				t.Errorf("%s: not detected after saving, %.3f", name, got)
			}
		}
	}
}

func TestDriver_FreeSpaceAccounting(t *testing.T) {
	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			d, p, _ := formatted(t, name)
			tbl := d.Table()
			initial := tbl.FreeSize()

			count := func() int {
				n := 0
				for g := 0; g <= tbl.EndGroup(); g++ {
					if tbl.GroupState(g) == base.GroupFree {
						n++
					}
				}
				return n * p.GroupSize()
			}

			var files []base.Entry
			for ix, size := range []int{300, 5000, 1, 12000} {
				e, _ := newFile(t, d, string(rune('A'+ix)), size)
				files = append(files, e)
				if got := tbl.FreeSize(); got != count() {
					t.Fatalf("FreeSize() = %d, counted %d", got, count())
				}
			}
			for _, e := range files[1:3] {
				if err := d.ReleaseGroups(e); err != nil {
					t.Fatal(err)
				}
				e.Delete()
				if got := tbl.FreeSize(); got != count() {
					t.Fatalf("FreeSize() = %d, counted %d", got, count())
				}
			}
			for _, e := range []base.Entry{files[0], files[3]} {
				if err := d.ReleaseGroups(e); err != nil {
					t.Fatal(err)
				}
			}
			if got := tbl.FreeSize(); got != initial {
				t.Errorf("FreeSize() = %d after releasing all, want %d", got, initial)
			}
		})
	}
}

func TestDriver_AllocateExhaustion(t *testing.T) {
	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			d, p, _ := formatted(t, name)
			tbl := d.Table()
			per := p.SectorsPerGroup * p.DataSize()
			free := tbl.FreeGroupCount()

			e := freeSlot(t, d)
			e.Clear()
			e.SetStartGroup(0)
			groups, err := d.AllocateGroups(e, free*per+1)
			if p.Contiguous {
				if !errors.Is(err, base.ErrDiskFull) || len(groups) > 0 {
					t.Fatalf("AllocateGroups() = %v, %v, want %v", groups, err,
						base.ErrDiskFull)
				}
				if e.StartGroup() != 0 {
					t.Errorf("start group modified on failure")
				}
			} else {
				if !errors.Is(err, base.ErrNoSpace) {
					t.Fatalf("AllocateGroups() error = %v, want %v", err,
						base.ErrNoSpace)
				}
				if len(groups) != free {
					t.Errorf("claimed %d groups, want %d", len(groups), free)
				}
				if err := d.ReleaseChain(groups); err != nil {
					t.Fatal(err)
				}
			}
			if got := tbl.FreeGroupCount(); got != free {
				t.Fatalf("FreeGroupCount() = %d after rollback, want %d", got, free)
			}

			if _, err := d.AllocateGroups(e, free*per); err != nil {
				t.Fatalf("AllocateGroups() filling disk: %v", err)
			}
			if got := tbl.FreeGroupCount(); got != 0 {
				t.Errorf("FreeGroupCount() = %d on full disk", got)
			}

			o := freeSlot(t, d)
			o.Clear()
			o.SetStartGroup(0)
			if _, err := d.AllocateGroups(o, 1); !errors.Is(err, base.ErrDiskFull) {
				t.Errorf("AllocateGroups() error = %v, want %v", err, base.ErrDiskFull)
			}
			if o.StartGroup() != 0 {
				t.Errorf("start group modified on full disk")
			}
		})
	}
}

func TestDriver_CircularChain(t *testing.T) {
	for _, name := range []string{"n88_2d", "hu_2d", "cdos_2d", "sdos_2d", "r40_2d"} {
		t.Run(name, func(t *testing.T) {
			d, _, _ := formatted(t, name)
			tbl := d.Table()
			g := tbl.FindFreeRun(2)
			if err := tbl.Link(g, g+1); err != nil {
				t.Fatal(err)
			}
			if err := tbl.Link(g+1, g); err != nil {
				t.Fatal(err)
			}

			groups, err := d.Chain(g, -1)
			if !errors.Is(err, base.ErrBrokenChain) {
				t.Errorf("Chain() error = %v, want %v", err, base.ErrBrokenChain)
			}
			if len(groups) != tbl.GroupCount() {
				t.Errorf("Chain() walked %d groups, want %d", len(groups),
					tbl.GroupCount())
			}
		})
	}
}

func TestDriver_ChainTermination(t *testing.T) {
	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			d, _, _ := formatted(t, name)
			newFile(t, d, "A", 3000)
			newFile(t, d, "B", 700)
			tbl := d.Table()
			for g := 0; g <= tbl.EndGroup(); g++ {
				if tbl.GroupState(g) != base.GroupUsed {
					continue
				}
				steps := 0
				for n := g; n >= 0; n = tbl.NextInChain(n, 0) {
					if steps++; steps > tbl.GroupCount()+1 {
						t.Fatalf("chain from %d does not terminate", g)
					}
				}
			}
		})
	}
}

func TestDriver_AttributeBijection(t *testing.T) {

	kinds := []base.FileType{base.TypeBasic, base.TypeMachine, base.TypeASCII,
		base.TypeBinary, base.TypeData, base.TypeRandom, base.TypeSystem}

	for _, name := range allFormats {
		t.Run(name, func(t *testing.T) {
			d, p, _ := formatted(t, name)
			e := freeSlot(t, d)

			flags := base.FileType(0)
			for _, f := range p.AttrFlags {
				flags |= f.Type
			}

			supported := 0
			for _, k := range kinds {
				for _, want := range []base.FileType{k, k | flags} {
					e.Clear()
					if err := e.SetFileAttr(base.NewFileAttr(want)); err != nil {
						continue
					}
					supported++
					a := e.FileAttr()
					if a.Type != want {
						t.Errorf("FileAttr() = %v, want %v", a.Type, want)
					}
					native := a.Native
					e.Clear()
					if err := e.SetFileAttr(a); err != nil {
						t.Fatal(err)
					}
					if got := e.FileAttr().Native; got != native {
						t.Errorf("native code %#x became %#x", native, got)
					}
				}
			}
			if supported == 0 {
				t.Error("no file type supported")
			}

			for _, s := range p.SpecialAttrs {
				e.Clear()
				if err := e.SetFileAttr(base.FileAttr{Type: s.Type, Native: s.Value}); err != nil {
					t.Fatalf("SetFileAttr(%s): %v", s.Name, err)
				}
				if got := e.FileAttr().Type.Kind(); got != s.Type.Kind() {
					t.Errorf("%s decodes to %v", s.Name, got)
				}
			}
		})
	}
}

func TestDriver_ValidateName(t *testing.T) {
	tests := []struct {
		format string
		name   string
		ext    string
		want   error
	}{
		{"n88_2d", "PROG", "BAS", nil},
		{"n88_2d", "TOOLONGNAME", "", nil},
		{"n88_2d", "A.B", "", base.ErrInvalidName},
		{"n88_2d", "", "", base.ErrNameRequired},
		{"hu_2d", "MY  GAME", "", nil},
		{"mz_2d", "HELLO WORLD", "", nil},
		{"mz_2d", "A", "BAS", base.ErrInvalidName},
		{"r40_2d", "ABC", "X", nil},
		{"r40_2d", "A*B", "", base.ErrInvalidName},
		{"sdos_2d", "A:B", "", base.ErrInvalidName},
	}
	for _, tt := range tests {
		d, _, _ := formatted(t, tt.format)
		_, _, err := d.ValidateName([]byte(tt.name), []byte(tt.ext))
		if tt.want == nil && err != nil {
			t.Errorf("%s: ValidateName(%s, %s) = %v", tt.format, tt.name, tt.ext, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: ValidateName(%s, %s) = %v, want %v",
				tt.format, tt.name, tt.ext, err, tt.want)
		}
	}
}

func TestDriver_MakeDirectory(t *testing.T) {

	d, p, _ := formatted(t, "hu_2d")
	e := freeSlot(t, d)
	e.Clear()
	e.SetName([]byte("SUB"), nil)
	if err := e.SetFileAttr(base.NewFileAttr(base.TypeDirectory)); err != nil {
		t.Fatal(err)
	}
	if err := d.MakeDirectory(e); err != nil {
		t.Fatalf("MakeDirectory(): %v", err)
	}
	if !e.IsDirectory() {
		t.Error("entry is no directory")
	}

	sub, err := d.ReadDirectory(e.StartGroup())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(sub.Entries); got != p.GroupSize()/p.DirEntrySize {
		t.Errorf("subdirectory has %d slots", got)
	}
	for _, s := range sub.Entries {
		if s.CheckUsed(false) {
			t.Errorf("slot %d of new subdirectory in use", s.Index())
		}
	}

	n, _, _ := formatted(t, "n88_2d")
	if err := n.MakeDirectory(freeSlot(t, n)); !errors.Is(err, base.ErrUnsupportedOp) {
		t.Errorf("MakeDirectory() error = %v, want %v", err, base.ErrUnsupportedOp)
	}
}

func TestDriver_SkipsInvalidSlots(t *testing.T) {
	d, p, _ := formatted(t, "cdos_2d")
	newFile(t, d, "GOOD", 100)
	e, _ := newFile(t, d, "BAD", 100)
	e.SetStartGroup(p.FatEndGroup + 10)

	dir, err := d.ReadDirectory(base.RootDirectory)
	if err != nil {
		t.Fatal(err)
	}
	if len(dir.Skipped) != 1 || dir.Skipped[0] != e.Index() {
		t.Errorf("Skipped = %v, want [%d]", dir.Skipped, e.Index())
	}
	if got := len(dir.Entries); got != p.DirEntryCount()-1 {
		t.Errorf("%d entries, want %d", got, p.DirEntryCount()-1)
	}
}
