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
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

// Variant is implemented by format packages to supply what differs between
// formats beyond their parameters.
type Variant interface {
	NewEntry(data []byte, index int) base.Entry
	NewTable() (base.AllocationTable, error)
	// FormatSystem writes identification and volume data after the generic
	// part of formatting is done.
	FormatSystem(vol base.Volume) error
}

// Driver implements the format independent file algorithms. Format packages
// embed it and supply a Variant.
type Driver struct {
	params  *catalog.Params
	img     disk.Image
	table   base.AllocationTable
	variant Variant
}

//
func NewDriver(p *catalog.Params, img disk.Image, v Variant) *Driver {
	return &Driver{params: p, img: img, variant: v}
}

//
func (d *Driver) Name() string {
	return d.params.Driver
}

//
func (d *Driver) Params() *catalog.Params {
	return d.params
}

//
func (d *Driver) Image() disk.Image {
	return d.img
}

// Table returns the assigned allocation table, nil before AssignFat.
func (d *Driver) Table() base.AllocationTable {
	return d.table
}

//
func (d *Driver) AssignFat() error {
	t, err := d.variant.NewTable()
	if err != nil {
		return err
	}
	d.table = t
	return nil
}

func (d *Driver) noSector(linear int) error {
	p := d.img.Geometry().FromLinear(linear)
	return base.NewError(base.CodeNoSector, p.Track, p.Side, p.Sector)
}

// Sector returns the raw buffer of a linear sector.
func (d *Driver) Sector(linear int) ([]byte, error) {
	if sec := disk.SectorAt(d.img, linear); sec != nil {
		return sec, nil
	}
	return nil, d.noSector(linear)
}

// ReadSector returns a copy of the payload of a linear sector, with data
// inversion undone and the chain trailer stripped.
func (d *Driver) ReadSector(linear int) ([]byte, error) {
	sec, err := d.Sector(linear)
	if err != nil {
		return nil, err
	}
	ret := make([]byte, d.params.DataSize())
	copy(ret, sec)
	if d.params.DataInverted {
		for ix := range ret {
			ret[ix] = ^ret[ix]
		}
	}
	return ret, nil
}

// WriteSector stores data as the payload of a linear sector. Missing bytes
// are written as 0, the chain trailer is left untouched.
func (d *Driver) WriteSector(linear int, data []byte) error {
	if d.img.IsWriteProtected() {
		return base.ErrWriteProtected
	}
	sec, err := d.Sector(linear)
	if err != nil {
		return err
	}
	for ix := 0; ix < d.params.DataSize(); ix++ {
		var v byte
		if ix < len(data) {
			v = data[ix]
		}
		if d.params.DataInverted {
			v = ^v
		}
		sec[ix] = v
	}
	return nil
}

// FillSector sets all bytes of a linear sector, trailer included.
func (d *Driver) FillSector(linear int, v byte) error {
	sec, err := d.Sector(linear)
	if err != nil {
		return err
	}
	if d.params.DataInverted {
		v = ^v
	}
	for ix := range sec {
		sec[ix] = v
	}
	return nil
}

// Chain walks the group chain from start until limit payload bytes are
// covered, or the chain ends. A negative limit walks to the end. The walk is
// bounded by the number of groups in the table, so a circular chain results
// in an error rather than an endless loop.
func (d *Driver) Chain(start, limit int) ([]int, error) {

	if d.table == nil {
		return nil, base.NewError(base.CodeInvalidState, "unassigned")
	}

	var ret []int
	covered := 0
	g := start

	for steps := 0; ; steps++ {
		if steps >= d.table.GroupCount() {
			log.WithFields(log.Fields{"start": start, "steps": steps}).Warn(
				"group chain does not terminate")
			return ret, base.NewError(base.CodeBrokenChain, g)
		}
		if !d.table.GroupState(g).IsAllocated() {
			return ret, base.NewError(base.CodeBrokenChain, g)
		}
		ret = append(ret, g)
		covered += d.groupSectors(g) * d.params.DataSize()
		if limit >= 0 && covered >= limit {
			break
		}
		next := d.table.NextInChain(g, d.params.SectorsPerGroup-1)
		log.Tracef("chain %d: %d -> %d", start, g, next)
		if next < 0 {
			break
		}
		g = next
	}

	return ret, nil
}

// WalkChain follows the chain from start in t to its end. The result is false
// if the chain runs into a group that is not allocated, or does not terminate
// within the number of groups in t.
func WalkChain(t base.AllocationTable, start, hint int) ([]int, bool) {
	var ret []int
	for g := start; g >= 0; g = t.NextInChain(g, hint) {
		if len(ret) >= t.GroupCount() || !t.GroupState(g).IsAllocated() {
			return ret, false
		}
		ret = append(ret, g)
	}
	return ret, true
}

func (d *Driver) groupSectors(g int) int {
	if d.table.GroupState(g) == base.GroupFinal {
		return d.table.LastSectors(g)
	}
	return d.params.SectorsPerGroup
}

// CalcFileUnitSize returns the number of payload bytes in the groups
// occupied by e.
func (d *Driver) CalcFileUnitSize(e base.Entry) (int, error) {
	groups, err := d.Chain(e.StartGroup(), e.Size())
	size := 0
	for _, g := range groups {
		size += d.groupSectors(g) * d.params.DataSize()
	}
	return size, err
}

// FileSize returns the declared size of e, or its group chain size if the
// format has no size field.
func (d *Driver) FileSize(e base.Entry) (int, error) {
	if s := e.Size(); s >= 0 {
		return s, nil
	}
	return d.CalcFileUnitSize(e)
}

// FileSectors lists the linear sectors holding the data of e, in file order.
func (d *Driver) FileSectors(e base.Entry) ([]int, error) {

	size := e.Size()
	groups, err := d.Chain(e.StartGroup(), size)
	if err != nil {
		return nil, err
	}

	need := -1
	if size >= 0 {
		if need = (size + d.params.DataSize() - 1) / d.params.DataSize(); need < 1 {
			need = 1
		}
	}

	var ret []int
	for _, g := range groups {
		first := d.params.GroupSectors(g)
		for s := 0; s < d.groupSectors(g); s++ {
			if need >= 0 && len(ret) == need {
				return ret, nil
			}
			ret = append(ret, first+s)
		}
	}
	return ret, nil
}

// RequiredGroups is the number of groups needed to store size bytes. Every
// file occupies at least one group.
func (d *Driver) RequiredGroups(size int) int {
	per := d.params.SectorsPerGroup * d.params.DataSize()
	if n := (size + per - 1) / per; n > 0 {
		return n
	}
	return 1
}

func (d *Driver) lastSectors(size, groups int) int {
	rest := size - (groups-1)*d.params.SectorsPerGroup*d.params.DataSize()
	if n := (rest + d.params.DataSize() - 1) / d.params.DataSize(); n > 0 {
		return n
	}
	return 1
}

// AllocateGroups claims groups for size bytes and sets the start group of e.
// If no group at all is available, ErrDiskFull is returned and e is not
// modified. If space runs out after the start group has been set, the groups
// claimed so far are returned together with ErrNoSpace, and the caller needs
// to release them.
func (d *Driver) AllocateGroups(e base.Entry, size int) ([]int, error) {

	if d.img.IsWriteProtected() {
		return nil, base.ErrWriteProtected
	}

	n := d.RequiredGroups(size)
	last := d.lastSectors(size, n)

	log.WithFields(log.Fields{
		"name":   e.Name(),
		"size":   size,
		"groups": n,
	}).Debug("allocating groups")

	if d.params.Contiguous {
		start := d.table.FindFreeRun(n)
		if start < 0 {
			return nil, base.NewError(base.CodeDiskFull, e.Name())
		}
		groups := make([]int, 0, n)
		for g := start; g < start+n; g++ {
			groups = append(groups, g)
			var err error
			if g < start+n-1 {
				err = d.table.Link(g, g+1)
			} else {
				err = d.table.Terminate(g, last)
			}
			if err != nil {
				return groups, err
			}
		}
		e.SetStartGroup(start)
		return groups, nil
	}

	g := d.table.FindFree(0)
	if g < 0 {
		return nil, base.NewError(base.CodeDiskFull, e.Name())
	}
	e.SetStartGroup(g)

	var groups []int
	for {
		groups = append(groups, g)
		if len(groups) == n {
			return groups, d.table.Terminate(g, last)
		}
		// claim g so the search for its successor skips it
		if err := d.table.Terminate(g, d.params.SectorsPerGroup); err != nil {
			return groups, err
		}
		next := d.table.FindFree(g + 1)
		if next < 0 {
			log.Debugf("out of space after %d groups", len(groups))
			return groups, base.NewError(base.CodeNoSpace, len(groups))
		}
		if err := d.table.Link(g, next); err != nil {
			return groups, err
		}
		g = next
	}
}

// ReleaseChain marks all given groups as free.
func (d *Driver) ReleaseChain(groups []int) error {
	for _, g := range groups {
		if err := d.table.SetGroupState(g, base.GroupFree); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseGroups frees all groups occupied by e. On a broken chain, the groups
// up to the break are freed nevertheless.
func (d *Driver) ReleaseGroups(e base.Entry) error {
	if d.img.IsWriteProtected() {
		return base.ErrWriteProtected
	}
	groups, err := d.Chain(e.StartGroup(), e.Size())
	if rerr := d.ReleaseChain(groups); rerr != nil {
		return rerr
	}
	return err
}

// DirectorySectors lists the sectors of the root directory, or of the
// subdirectory starting at group.
func (d *Driver) DirectorySectors(group int) ([]int, error) {
	var ret []int
	if group == base.RootDirectory {
		for l := d.params.DirStartSector; l <= d.params.DirEndSector; l++ {
			ret = append(ret, l)
		}
		return ret, nil
	}
	groups, err := d.Chain(group, -1)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		for s := 0; s < d.params.SectorsPerGroup; s++ {
			ret = append(ret, d.params.GroupSectors(g)+s)
		}
	}
	return ret, nil
}

// ReadDirectory scans the root directory or a subdirectory. Slots failing
// validation are skipped.
func (d *Driver) ReadDirectory(group int) (*base.Directory, error) {

	sectors, err := d.DirectorySectors(group)
	if err != nil {
		return nil, err
	}

	dir := &base.Directory{Group: group}
	size := d.params.DirEntrySize
	per := d.params.Geometry.SectorSize / size
	afterEnd := false

	for ix, l := range sectors {
		sec := disk.SectorAt(d.img, l)
		if sec == nil {
			return nil, base.NewError(base.CodeInvalidDir, l)
		}
		for s := 0; s < per; s++ {
			e := d.variant.NewEntry(sec[s*size:(s+1)*size], ix*per+s)
			if !e.Validate(afterEnd) {
				log.WithFields(log.Fields{
					"sector": l,
					"slot":   e.Index(),
				}).Warn("skipping invalid directory entry")
				dir.Skipped = append(dir.Skipped, e.Index())
				continue
			}
			if e.IsEnd() {
				afterEnd = true
			}
			dir.Entries = append(dir.Entries, e)
		}
	}

	return dir, nil
}

// VolumeName is empty for formats without volume label.
func (d *Driver) VolumeName() string {
	return ""
}

// MakeDirectory is not supported by formats without subdirectories.
func (d *Driver) MakeDirectory(e base.Entry) error {
	return base.NewError(base.CodeUnsupportedOp, "make directory")
}

// ValidateName normalizes and checks name and extension.
func (d *Driver) ValidateName(name, ext []byte) ([]byte, []byte, error) {
	n := d.params.NameRule.Normalize(name)
	if err := d.params.NameRule.Validate(n, false); err != nil {
		return nil, nil, err
	}
	x := d.params.ExtRule.Normalize(ext)
	if d.params.ExtRule.MaxLength == 0 && len(x) > 0 {
		return nil, nil, base.NewError(base.CodeInvalidName, string(ext))
	}
	if err := d.params.ExtRule.Validate(x, true); err != nil {
		if errors.Is(err, base.ErrExtRequired) {
			return nil, nil, base.NewError(base.CodeExtRequired, string(n))
		}
		return nil, nil, err
	}
	return n, x, nil
}

// Format initializes all sectors, the allocation table, and then lets the
// variant write its system data.
func (d *Driver) Format(vol base.Volume) error {

	if d.img.IsWriteProtected() {
		return base.ErrWriteProtected
	}

	total := d.params.Geometry.TotalSectors()
	for l := 0; l < total; l++ {
		if err := d.FillSector(l, byte(d.params.FillCodeFile)); err != nil {
			return err
		}
	}
	for l := d.params.DirStartSector; l <= d.params.DirEndSector; l++ {
		if err := d.FillSector(l, byte(d.params.FillCodeDir)); err != nil {
			return err
		}
	}

	if err := d.AssignFat(); err != nil {
		return err
	}
	d.table.Format()

	log.WithFields(log.Fields{
		"format": d.params.Name,
		"volume": vol.Name,
	}).Info("formatted disk")

	return d.variant.FormatSystem(vol)
}

// CheckGeometry determines whether the image can hold this format.
func (d *Driver) CheckGeometry() bool {
	g := d.img.Geometry()
	p := d.params.Geometry
	return g.SectorSize == p.SectorSize && g.Sides == p.Sides &&
		g.SectorsPerTrack == p.SectorsPerTrack && g.Tracks == p.Tracks
}

// HasSectors determines whether all sectors in [from, to] are present.
func (d *Driver) HasSectors(from, to int) bool {
	for l := from; l <= to; l++ {
		if disk.SectorAt(d.img, l) == nil {
			return false
		}
	}
	return true
}

// RootSlots returns views of all root directory slots up to an end marker,
// without validating them. Absent directory sectors yield nil.
func (d *Driver) RootSlots() []base.Entry {

	size := d.params.DirEntrySize
	per := d.params.Geometry.SectorSize / size
	var ret []base.Entry

	for l := d.params.DirStartSector; l <= d.params.DirEndSector; l++ {
		sec := disk.SectorAt(d.img, l)
		if sec == nil {
			return nil
		}
		for s := 0; s < per; s++ {
			ix := (l-d.params.DirStartSector)*per + s
			e := d.variant.NewEntry(sec[s*size:(s+1)*size], ix)
			if e.IsEnd() {
				return ret
			}
			ret = append(ret, e)
		}
	}
	return ret
}

// DirectoryRatio returns the share of used root directory slots that pass
// strict usage and validation checks, 1 if there are none.
func (d *Driver) DirectoryRatio() float64 {
	if !d.HasSectors(d.params.DirStartSector, d.params.DirEndSector) {
		return 0
	}
	used, valid := 0, 0
	for _, e := range d.RootSlots() {
		if !e.CheckUsed(false) {
			continue
		}
		used++
		if e.CheckUsed(true) && e.Validate(false) {
			valid++
		}
	}
	return ratio(valid, used)
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(n) / float64(total)
}
