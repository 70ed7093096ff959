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
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/session"
)

//
func (a *api) list(w http.ResponseWriter, req *http.Request) {

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	if !a.enter(w, req) {
		return
	}

	l := &Listing{Path: a.session.Path(), Files: []*File{}}
	for _, e := range a.session.Entries() {
		l.Files = append(l.Files, NewFile(e))
	}

	if wantsJSON(req) {
		sendJSONReply(l, http.StatusOK, w)
	} else {
		sendReply([]byte(l.String()), http.StatusOK, w)
	}
}

// find locates the file named in req within the directory selected by req.
func (a *api) find(w http.ResponseWriter, req *http.Request) base.Entry {
	if !a.enter(w, req) {
		return nil
	}
	e, err := a.session.Find(getName(req))
	if handleError(err, statusOf(err), w) {
		return nil
	}
	return e
}

//
func (a *api) get(w http.ResponseWriter, req *http.Request) {

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	e := a.find(w, req)
	if e == nil {
		return
	}

	var out bytes.Buffer
	if _, err := a.session.Load(e, &out); handleError(err, statusOf(err), w) {
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())
}

//
func (a *api) put(w http.ResponseWriter, req *http.Request) {

	opts := session.SaveOptions{Name: getName(req)}

	t, err := getTypeArg(req, "type")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	if opts.Type = t; t == 0 {
		opts.Type = base.TypeBasic
	}
	if opts.Native, err = getIntArg(req, "native", -1); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}
	if opts.LoadAddress, err = getIntArg(req, "load", 0); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}
	if opts.ExecAddress, err = getIntArg(req, "exec", 0); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}
	opts.Overwrite = isFlagSet(req, "overwrite")

	data, err := io.ReadAll(io.LimitReader(req.Body, maxFileUpload))
	if handleError(err, http.StatusInternalServerError, w) {
		return
	}
	if handleError(req.Body.Close(), http.StatusInternalServerError, w) {
		return
	}

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	if !a.enter(w, req) {
		return
	}

	e, err := a.session.Save(bytes.NewReader(data), opts)
	if handleError(err, statusOf(err), w) {
		return
	}
	a.changed()

	sendReply([]byte(fmt.Sprintf("saved %s, %d bytes",
		session.FullName(e), len(data))), http.StatusOK, w)
}

//
func (a *api) remove(w http.ResponseWriter, req *http.Request) {

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	e := a.find(w, req)
	if e == nil {
		return
	}

	name := session.FullName(e)
	if err := a.session.Delete(e, isFlagSet(req, "force")); handleError(
		err, statusOf(err), w) {
		return
	}
	a.changed()

	sendReply([]byte(fmt.Sprintf("deleted %s", name)), http.StatusOK, w)
}

//
func (a *api) rename(w http.ResponseWriter, req *http.Request) {

	to, err := getArg(req, "to")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	e := a.find(w, req)
	if e == nil {
		return
	}

	if err := a.session.Rename(e, to); handleError(err, statusOf(err), w) {
		return
	}
	a.changed()

	sendReply([]byte(fmt.Sprintf("renamed %s to %s", getName(req),
		session.FullName(e))), http.StatusOK, w)
}

//
func (a *api) attr(w http.ResponseWriter, req *http.Request) {

	var opts session.AttrOptions
	var err error

	if opts.Kind, err = getTypeArg(req, "kind"); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}
	if opts.Native, err = getIntArg(req, "native", -1); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}
	if opts.Set, err = getTypeArg(req, "set"); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}
	if opts.Clear, err = getTypeArg(req, "clear"); handleError(
		err, http.StatusUnprocessableEntity, w) {
		return
	}

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	e := a.find(w, req)
	if e == nil {
		return
	}

	if err := a.session.ChangeAttr(e, opts); handleError(err, statusOf(err), w) {
		return
	}
	a.changed()

	sendReply([]byte(fmt.Sprintf("%s: %s", session.FullName(e),
		e.FileAttr().Type)), http.StatusOK, w)
}

//
func (a *api) mkdir(w http.ResponseWriter, req *http.Request) {

	if !a.lockSession(w) {
		return
	}
	defer a.release()

	if !a.enter(w, req) {
		return
	}

	e, err := a.session.MakeDirectory(getName(req))
	if handleError(err, statusOf(err), w) {
		return
	}
	a.changed()

	sendReply([]byte(fmt.Sprintf("created directory %s",
		session.FullName(e))), http.StatusOK, w)
}
