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

package fat

import (
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
	"github.com/xelalexv/basicdisk/pkg/raw"
)

// Spans creates one span per allocation table copy, over the sectors the
// parameters designate.
func Spans(img disk.Image, p *catalog.Params) ([]*raw.Span, error) {
	count := p.FatCount
	if count < 1 {
		count = 1
	}
	ret := make([]*raw.Span, 0, count)
	for c := 0; c < count; c++ {
		var parts [][]byte
		for s := 0; s < p.FatSectors; s++ {
			l := p.FatStartSector + c*p.FatSectors + s
			sec := disk.SectorAt(img, l)
			if sec == nil {
				pos := img.Geometry().FromLinear(l)
				return nil, base.NewError(
					base.CodeNoSector, pos.Track, pos.Side, pos.Sector)
			}
			parts = append(parts, sec)
		}
		ret = append(ret, raw.NewSpan(p.DataInverted, parts...))
	}
	return ret, nil
}

func findFreeRun(t base.AllocationTable, n int) int {
	if n < 1 {
		return -1
	}
	run := 0
	for g := 0; g <= t.EndGroup(); g++ {
		if t.GroupState(g) != base.GroupFree {
			run = 0
			continue
		}
		if run++; run == n {
			return g - n + 1
		}
	}
	return -1
}

func findFree(t base.AllocationTable, from int) int {
	if from < 0 {
		from = 0
	}
	for g := from; g <= t.EndGroup(); g++ {
		if t.GroupState(g) == base.GroupFree {
			return g
		}
	}
	return -1
}

func freeGroupCount(t base.AllocationTable) int {
	count := 0
	for g := 0; g <= t.EndGroup(); g++ {
		if t.GroupState(g) == base.GroupFree {
			count++
		}
	}
	return count
}

func unsupported(s base.GroupState) error {
	return base.NewError(base.CodeUnsupportedOp, "group state "+s.String())
}
