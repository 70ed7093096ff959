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

package catalog

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Catalog is an immutable collection of format parameters.
type Catalog struct {
	formats []*Params
	byName  map[string]*Params
}

// New creates a catalog from the given parameters, in the given order. All
// parameters are validated, and names need to be unique.
func New(params ...*Params) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Params)}
	for _, p := range params {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(p.Name)
		if _, ok := c.byName[key]; ok {
			return nil, fmt.Errorf("duplicate format name: %s", p.Name)
		}
		c.byName[key] = p
		c.formats = append(c.formats, p)
	}
	log.WithFields(log.Fields{"formats": len(c.formats)}).Debug("catalog created")
	return c, nil
}

// All returns all parameters in catalog order.
func (c *Catalog) All() []*Params {
	ret := make([]*Params, len(c.formats))
	copy(ret, c.formats)
	return ret
}

// FindByName returns the parameters with the given name, or nil. If category
// is not empty, the parameters also need to be of that category.
func (c *Catalog) FindByName(category, name string) *Params {
	p, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return nil
	}
	if category != "" && !strings.EqualFold(category, p.Category) {
		return nil
	}
	return p
}

// FindByGeometry returns all parameters in category (any if empty) matching
// sides and sectors per track.
func (c *Catalog) FindByGeometry(category string, sides, sectorsPerTrack int) []*Params {
	var ret []*Params
	for _, p := range c.formats {
		if category != "" && !strings.EqualFold(category, p.Category) {
			continue
		}
		if p.Geometry.Sides == sides &&
			p.Geometry.SectorsPerTrack == sectorsPerTrack {
			ret = append(ret, p)
		}
	}
	return ret
}

// FindBySignatureList resolves a list of format names into parameters,
// keeping list order. Unknown names are skipped.
func (c *Catalog) FindBySignatureList(names []string) []*Params {
	var ret []*Params
	for _, n := range names {
		if p := c.FindByName("", n); p != nil {
			ret = append(ret, p)
		} else {
			log.Debugf("unknown format in signature list: %s", n)
		}
	}
	return ret
}

// FindBySize returns all parameters whose geometry covers exactly size bytes.
func (c *Catalog) FindBySize(size int) []*Params {
	var ret []*Params
	for _, p := range c.formats {
		if p.Geometry.Size() == size {
			ret = append(ret, p)
		}
	}
	return ret
}

// Categories lists all categories in the catalog, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var ret []string
	for _, p := range c.formats {
		if !seen[p.Category] {
			seen[p.Category] = true
			ret = append(ret, p.Category)
		}
	}
	sort.Strings(ret)
	return ret
}
