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
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic/catalog"
	"github.com/xelalexv/basicdisk/pkg/disk"
	"github.com/xelalexv/basicdisk/pkg/repo"
	"github.com/xelalexv/basicdisk/pkg/session"
)

//
const runnerHelpPrologue = ""
const runnerHelpEpilogue = `- When a flag can be set via environment variable, the variable name is given
  in parenthesis at the end of the flag explanation. Note however that a flag,
  when specified overrides an environment variable.

- Disk images are plain sector dumps. Unless the format is given with --type,
  it is derived from the image size.

- An image given as repo://{name} is looked up in the image repository
  directory set with --repo.
`

/*
	NewRunner creates a base runner for commands to use. The parameters are
	passed to the base command wrapped by this runner.
*/
func NewRunner(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Runner {
	return &Runner{
		Command: *NewCommand(
			use, short, long, helpPrologue, helpEpilogue, exec),
		catalog: catalog.Builtin(),
	}
}

// Runner is the base for all commands operating on a disk image file.
type Runner struct {
	//
	Command
	//
	Image string
	Repo  string
	Type  string
	Side  int
	Dir   string
	//
	catalog *catalog.Catalog
	flat    *disk.Flat
	session *session.Session
}

// AddImageSettings adds the settings for selecting image file, format, side
// and directory.
func (r *Runner) AddImageSettings() {
	// Implementation Note: This cannot be included in NewRunner, but rather has
	// to be called from the top level command type. Otherwise, we will confuse
	// Cobra/Viper and the settings will not be filled with their values.
	r.AddConfigSetting()
	r.AddSetting(&r.Image, "image", "i", "BASICDISK_IMAGE", nil,
		"disk image file", true)
	r.AddSetting(&r.Repo, "repo", "r", "BASICDISK_REPO", nil,
		"image repository directory for repo:// references", false)
	r.AddSetting(&r.Type, "type", "t", "BASICDISK_TYPE", nil,
		"disk format, see 'basicctl types'", false)
	r.AddSetting(&r.Side, "side", "s", "", session.AllSides,
		"use only this side of the disk, 0 or 1", false)
}

//
func (r *Runner) AddDirSetting() {
	r.AddSetting(&r.Dir, "dir", "d", "", nil,
		"directory within the disk image, e.g. GAMES/ARCADE", false)
}

// open loads the image file and opens a session on it.
func (r *Runner) open() error {

	if err := r.resolveImage(); err != nil {
		return err
	}

	flat, err := loadImage(r.Image, r.Type, r.catalog)
	if err != nil {
		return err
	}
	r.flat = flat
	r.session = session.New(r.catalog)

	var hints []string
	if r.Type != "" {
		hints = append(hints, r.Type)
	}

	err = r.session.Open(flat, r.Side, hints...)
	r.warnings()
	if err != nil {
		return err
	}

	return r.enter(r.Dir)
}

// resolveImage replaces an image repository reference with the path of the
// image file.
func (r *Runner) resolveImage() error {
	path, err := repo.Resolve(r.Image, r.Repo)
	if err != nil {
		return err
	}
	r.Image = path
	return nil
}

// enter changes into dir, starting from the root directory.
func (r *Runner) enter(dir string) error {
	if err := r.session.ChangeDirectory("/"); err != nil {
		return err
	}
	for _, d := range strings.Split(dir, "/") {
		if d == "" {
			continue
		}
		if err := r.session.ChangeDirectory(d); err != nil {
			return err
		}
	}
	return nil
}

// warnings logs the messages collected by the session, and clears them.
func (r *Runner) warnings() {
	for _, m := range r.session.Messages() {
		log.Warn(m)
	}
	r.session.ClearMessages()
}

// persist writes the image back to its file.
func (r *Runner) persist() error {
	if err := saveImage(r.Image, r.flat); err != nil {
		return err
	}
	log.WithField("file", r.Image).Info("image written")
	return nil
}

//
func (r *Runner) printf(format string, a ...interface{}) {
	fmt.Fprintf(r.Out(), format, a...)
}
