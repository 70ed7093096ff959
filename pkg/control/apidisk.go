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

package control

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/disk"
	"github.com/xelalexv/basicdisk/pkg/session"
)

//
func (a *api) info(w http.ResponseWriter, req *http.Request) {

	if !a.lockSession(w) {
		return
	}
	info := a.getInfo()
	a.release()

	if wantsJSON(req) {
		sendJSONReply(info, http.StatusOK, w)
	} else {
		sendReply([]byte(info.String()), http.StatusOK, w)
	}
}

// getInfo summarizes the session. The session lock needs to be held.
func (a *api) getInfo() *Info {

	s := a.session
	ret := &Info{
		State:          s.State().String(),
		Path:           s.Path(),
		FreeSize:       s.FreeSize(),
		FreeGroups:     s.FreeGroups(),
		WriteProtected: a.image != nil && a.image.IsWriteProtected(),
		Modified:       a.modified,
	}

	if d := s.Driver(); d != nil {
		ret.Format = d.Params().Name
		ret.Description = d.Params().Description
		ret.Volume = s.VolumeName()
	}

	return ret
}

//
func (a *api) format(w http.ResponseWriter, req *http.Request) {

	format, err := getArg(req, "type")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	if format == "" {
		handleError(fmt.Errorf("format type required"),
			http.StatusUnprocessableEntity, w)
		return
	}

	vol := session.VolumeOptions{}
	if vol.Name, err = getArg(req, "volume"); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}
	if vol.Number, err = getIntArg(req, "number", 0); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	if a.image == nil {
		handleError(fmt.Errorf("no disk image"), http.StatusConflict, w)
		return
	}

	if err := a.session.Format(a.image, format, vol); handleError(
		err, statusOf(err), w) {
		return
	}
	a.changed()

	sendReply([]byte(fmt.Sprintf("formatted as %s", format)), http.StatusOK, w)
}

// dump sends a hex dump of a single sector when the sector argument is set,
// or of all directory slots in use otherwise.
func (a *api) dump(w http.ResponseWriter, req *http.Request) {

	sector, err := getIntArg(req, "sector", -1)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	if sector >= 0 {
		if a.image == nil {
			handleError(fmt.Errorf("no disk image"), http.StatusConflict, w)
			return
		}
		data := disk.SectorAt(a.image, sector)
		if data == nil {
			handleError(fmt.Errorf("sector %d not found", sector),
				http.StatusNotFound, w)
			return
		}
		p := a.image.Geometry().FromLinear(sector)
		sendStreamReply(strings.NewReader(fmt.Sprintf(
			"\nSECTOR %d (%s)\n%s", sector, p, hex.Dump(data))), http.StatusOK, w)
		return
	}

	if !a.enter(w, req) {
		return
	}

	read, write := io.Pipe()

	go func() {
		for _, e := range a.session.Entries() {
			e.Emit(write)
		}
		write.Close()
	}()

	sendStreamReply(read, http.StatusOK, w)
}

//
func (a *api) save(w http.ResponseWriter, req *http.Request) {

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	if a.persist == nil {
		handleError(fmt.Errorf("image cannot be written back"),
			http.StatusNotImplemented, w)
		return
	}

	if !a.modified && !isFlagSet(req, "force") {
		sendReply([]byte("image not modified"), http.StatusOK, w)
		return
	}

	if handleError(a.persist(), http.StatusInternalServerError, w) {
		return
	}
	a.modified = false
	log.Info("image written back")

	sendReply([]byte("image saved"), http.StatusOK, w)
}

//
func (a *api) messages(w http.ResponseWriter, req *http.Request) {

	if !a.lockSession(w) {
		return
	}
	msg := a.session.Messages()
	a.release()

	if wantsJSON(req) {
		sendJSONReply(msg, http.StatusOK, w)
	} else {
		sendReply([]byte(strings.Join(msg, "\n")), http.StatusOK, w)
	}
}

//
func (a *api) clearMessages(w http.ResponseWriter, req *http.Request) {

	if !a.lockSession(w) {
		return
	}
	a.session.ClearMessages()
	a.release()

	sendReply([]byte("messages cleared"), http.StatusOK, w)
}
