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
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/afero"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/control"
	"github.com/xelalexv/basicdisk/pkg/session"
)

//
func NewShell() *Shell {

	s := &Shell{}
	s.Runner = *NewRunner(
		"shell -i|--image {file} [-t|--type {type}] [-s|--side {side}]",
		"interactive shell on a disk image",
		`
Use the shell command to work with a disk image interactively. Changes are only
written to the image file with the save command. Type 'help' in the shell for a
list of commands.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddImageSettings()
	s.commands = s.commandList()

	return s
}

//
type shellCommand struct {
	Name             string
	Args             string
	Description      string
	MinArgs, MaxArgs int
	Modifies         bool
	Code             func(args []string) error
}

//
type Shell struct {
	Runner
	//
	commands map[string]*shellCommand
	modified bool
	quitting bool
}

func (s *Shell) commandList() map[string]*shellCommand {
	list := []*shellCommand{
		{Name: "ls", Description: "list current directory",
			MaxArgs: 0, Code: s.list},
		{Name: "cd", Args: "{dir|..|/}", Description: "change directory",
			MinArgs: 1, MaxArgs: 1, Code: s.cd},
		{Name: "get", Args: "{name} [local file]", Description: "copy file out of image",
			MinArgs: 1, MaxArgs: 2, Code: s.get},
		{Name: "put", Args: "{local file} [name]", Description: "copy file into image",
			MinArgs: 1, MaxArgs: 2, Modifies: true, Code: s.put},
		{Name: "rm", Args: "{name}", Description: "delete file",
			MinArgs: 1, MaxArgs: 1, Modifies: true, Code: s.rm},
		{Name: "mv", Args: "{name} {new name}", Description: "rename file",
			MinArgs: 2, MaxArgs: 2, Modifies: true, Code: s.mv},
		{Name: "mkdir", Args: "{name}", Description: "create directory",
			MinArgs: 1, MaxArgs: 1, Modifies: true, Code: s.mkdir},
		{Name: "free", Description: "show free space",
			MaxArgs: 0, Code: s.free},
		{Name: "save", Description: "write changes to image file",
			MaxArgs: 0, Code: s.save},
		{Name: "help", Description: "list commands",
			MaxArgs: 0, Code: s.listCommands},
		{Name: "exit", Description: "leave the shell",
			MaxArgs: 0, Code: s.exit},
	}
	ret := make(map[string]*shellCommand, len(list))
	for _, c := range list {
		ret[c.Name] = c
	}
	return ret
}

//
func (s *Shell) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       s.prompt(),
		AutoComplete: s.completer(),
		Stdout:       s.Out(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for !s.quitting {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		s.process(line)
		rl.SetPrompt(s.prompt())
	}

	return nil
}

//
func (s *Shell) prompt() string {
	return fmt.Sprintf("%s:%s> ", filepath.Base(s.Image), s.session.Path())
}

//
func (s *Shell) completer() readline.AutoCompleter {
	names := func(string) []string {
		var ret []string
		for _, e := range s.session.Entries() {
			ret = append(ret, session.FullName(e))
		}
		return ret
	}
	var items []readline.PrefixCompleterInterface
	for name := range s.commands {
		items = append(items, readline.PcItem(name, readline.PcItemDynamic(names)))
	}
	return readline.NewPrefixCompleter(items...)
}

// process executes one line of input. Errors are reported to the user, and
// do not end the shell.
func (s *Shell) process(line string) {

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	cmd, ok := s.commands[verb]
	if !ok {
		s.printf("unknown command: %s\n", verb)
		return
	}
	if len(args) < cmd.MinArgs || len(args) > cmd.MaxArgs {
		s.printf("usage: %s %s\n", cmd.Name, cmd.Args)
		return
	}

	if err := cmd.Code(args); err != nil {
		s.printf("%v\n", err)
		s.session.ClearMessages()
		return
	}
	if cmd.Modifies {
		s.modified = true
	}
}

func (s *Shell) list(args []string) error {
	list := &control.Listing{Path: s.session.Path()}
	for _, e := range s.session.Entries() {
		list.Files = append(list.Files, control.NewFile(e))
	}
	s.printf("%s\n\n", list)
	return nil
}

func (s *Shell) cd(args []string) error {
	if strings.Contains(args[0], "/") && args[0] != "/" {
		return s.enter(args[0])
	}
	return s.session.ChangeDirectory(args[0])
}

func (s *Shell) get(args []string) error {
	e, err := s.session.Find(args[0])
	if err != nil {
		return err
	}
	var out bytes.Buffer
	n, err := s.session.Load(e, &out)
	if err != nil {
		return err
	}
	file := session.FullName(e)
	if len(args) > 1 {
		file = args[1]
	}
	if err := afero.WriteFile(fs, file, out.Bytes(), 0644); err != nil {
		return err
	}
	s.printf("%d bytes\n", n)
	return nil
}

func (s *Shell) put(args []string) error {
	data, err := afero.ReadFile(fs, args[0])
	if err != nil {
		return err
	}
	name := strings.ToUpper(filepath.Base(args[0]))
	if len(args) > 1 {
		name = args[1]
	}
	_, err = s.session.Save(bytes.NewReader(data), session.SaveOptions{
		Name: name, Type: base.TypeBasic, Native: -1})
	return err
}

func (s *Shell) rm(args []string) error {
	e, err := s.session.Find(args[0])
	if err != nil {
		return err
	}
	return s.session.Delete(e, false)
}

func (s *Shell) mv(args []string) error {
	e, err := s.session.Find(args[0])
	if err != nil {
		return err
	}
	return s.session.Rename(e, args[1])
}

func (s *Shell) mkdir(args []string) error {
	_, err := s.session.MakeDirectory(args[0])
	return err
}

func (s *Shell) free(args []string) error {
	s.printf("%d bytes free in %d groups\n", s.session.FreeSize(),
		s.session.FreeGroups())
	return nil
}

func (s *Shell) save(args []string) error {
	if err := s.persist(); err != nil {
		return err
	}
	s.modified = false
	s.printf("image saved\n")
	return nil
}

func (s *Shell) listCommands(args []string) error {
	var names []string
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := s.commands[name]
		s.printf("  %-6s %-22s %s\n", c.Name, c.Args, c.Description)
	}
	return nil
}

// exit leaves the shell. With unsaved changes, it needs to be given twice.
func (s *Shell) exit(args []string) error {
	if s.modified {
		s.modified = false
		return fmt.Errorf("image has unsaved changes, use save or exit again")
	}
	s.quitting = true
	return nil
}
