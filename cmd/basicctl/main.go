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

package main

import (
	"fmt"
	"os"

	"github.com/xelalexv/basicdisk/pkg/run"
)

//
var BasicDiskVersion string

//
func synopsis() {
	fmt.Print(`
synopsis: basicctl {detect|ls|get|put|rm|mv|attr|mkdir|format|dump|types|serve|shell|version} ...

run 'basicctl {action} -h|--help' to see detailed info

`)
}

//
func version() {
	fmt.Printf("\nBasicDisk %s\n\n", BasicDiskVersion)
}

//
func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "detect":
		run.DieOnError(run.NewDetect().Execute(args))

	case "ls":
		run.DieOnError(run.NewList().Execute(args))

	case "get":
		run.DieOnError(run.NewGet().Execute(args))

	case "put":
		run.DieOnError(run.NewPut().Execute(args))

	case "rm":
		run.DieOnError(run.NewRemove().Execute(args))

	case "mv":
		run.DieOnError(run.NewMove().Execute(args))

	case "attr":
		run.DieOnError(run.NewAttr().Execute(args))

	case "mkdir":
		run.DieOnError(run.NewMakeDir().Execute(args))

	case "format":
		run.DieOnError(run.NewFormat().Execute(args))

	case "dump":
		run.DieOnError(run.NewDump().Execute(args))

	case "types":
		run.DieOnError(run.NewTypes().Execute(args))

	case "serve":
		version()
		run.DieOnError(run.NewServe().Execute(args))

	case "shell":
		run.DieOnError(run.NewShell().Execute(args))

	case "version":
		version()

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		run.Die("unknown action: %s\n", action)
	}
}
