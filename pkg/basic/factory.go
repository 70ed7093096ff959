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
	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/basic/cdos"
	"github.com/xelalexv/basicdisk/pkg/basic/hu"
	"github.com/xelalexv/basicdisk/pkg/basic/mz"
	"github.com/xelalexv/basicdisk/pkg/basic/n88"
	"github.com/xelalexv/basicdisk/pkg/basic/r40"
	"github.com/xelalexv/basicdisk/pkg/basic/sdos"
	"github.com/xelalexv/basicdisk/pkg/disk"
)

// Drivers lists the names of all supported drivers.
var Drivers = []string{"n88", "hu", "cdos", "mz", "sdos", "r40"}

//
func NewDriver(p *catalog.Params, img disk.Image) (Driver, error) {

	switch p.Driver {

	case "n88":
		return n88.New(p, img), nil

	case "hu":
		return hu.New(p, img), nil

	case "cdos":
		return cdos.New(p, img), nil

	case "mz":
		return mz.New(p, img), nil

	case "sdos":
		return sdos.New(p, img), nil

	case "r40":
		return r40.New(p, img), nil

	default:
		return nil, base.NewError(base.CodeUnsupported, p.Driver)
	}
}
