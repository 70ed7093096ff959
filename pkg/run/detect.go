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
	"fmt"
	"sort"
	"strings"

	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
)

//
func NewDetect() *Detect {

	d := &Detect{}
	d.Runner = *NewRunner(
		"detect -i|--image {file} [-t|--type {type}] [-s|--side {side}]",
		"detect the format of a disk image",
		`
Use the detect command to find out which disk format an image uses. All formats
matching the image geometry are checked, or only the one given with --type.`,
		"", runnerHelpEpilogue, d.Run)

	d.AddImageSettings()

	return d
}

//
type Detect struct {
	Runner
}

//
func (d *Detect) Run() error {

	if err := d.ParseSettings(); err != nil {
		return err
	}
	if err := d.open(); err != nil {
		return err
	}

	p := d.session.Driver().Params()
	vol := d.session.VolumeName()
	if vol == "" {
		vol = "<no name>"
	}

	d.printf("\nformat:      %s (%s)\n", p.Name, p.Category)
	d.printf("description: %s\n", p.Description)
	d.printf("volume:      %s\n", vol)
	d.printf("geometry:    %s\n", p.Geometry)
	d.printf("free:        %d bytes in %d groups\n\n",
		d.session.FreeSize(), d.session.FreeGroups())

	return nil
}

//
func NewTypes() *Types {

	t := &Types{}
	t.Runner = *NewRunner(
		"types [-c|--category {category}]",
		"list supported disk formats",
		"\nUse the types command to list all supported disk formats.",
		"", "", t.Run)

	t.AddSetting(&t.Category, "category", "c", "", nil,
		"list only formats of this category", false)

	return t
}

//
type Types struct {
	Runner
	//
	Category string
}

//
func (t *Types) Run() error {

	if err := t.ParseSettings(); err != nil {
		return err
	}

	var list []*catalog.Params
	for _, p := range t.catalog.All() {
		if t.Category == "" || strings.EqualFold(p.Category, t.Category) {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return fmt.Errorf("no formats in category %s; categories are: %s",
			t.Category, strings.Join(t.catalog.Categories(), ", "))
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Category < list[j].Category
	})

	t.printf("\nTYPE      CATEGORY  SIZE     DESCRIPTION\n")
	for _, p := range list {
		t.printf("%-9s %-9s %-8d %s\n", p.Name, p.Category, p.Geometry.Size(),
			p.Description)
	}
	t.printf("\n")

	return nil
}
