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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
	"github.com/xelalexv/basicdisk/pkg/disk"
	"github.com/xelalexv/basicdisk/pkg/session"
)

const maxFileUpload = 16 * 1048576

var lockTimeout = 5 * time.Second

//
type APIServer interface {
	Serve() error
	Stop() error
	Handler() http.Handler
}

// Persister writes the image of a session back to where it was loaded from.
type Persister func() error

//
func NewAPIServer(addr string, s *session.Session, img disk.Image,
	p Persister) APIServer {
	a := &api{
		address:       addr,
		session:       s,
		image:         img,
		persist:       p,
		lock:          make(chan bool, 1),
		longPollQueue: make(chan chan *Change),
	}
	return a
}

//
type api struct {
	address  string
	session  *session.Session
	image    disk.Image
	persist  Persister
	server   *http.Server
	lock     chan bool
	modified bool
	revision int
	//
	longPollQueue chan chan *Change
}

//
func (a *api) Handler() http.Handler {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "info", "GET", "/info", a.info)
	addRoute(router, "watch", "GET", "/watch", a.watch)
	addRoute(router, "ls", "GET", "/list", a.list)
	addRoute(router, "get", "GET", "/file/{name}", a.get)
	addRoute(router, "put", "PUT", "/file/{name}", a.put)
	addRoute(router, "rm", "DELETE", "/file/{name}", a.remove)
	addRoute(router, "mv", "PUT", "/file/{name}/rename", a.rename)
	addRoute(router, "attr", "PUT", "/file/{name}/attr", a.attr)
	addRoute(router, "mkdir", "PUT", "/dir/{name}", a.mkdir)
	addRoute(router, "format", "PUT", "/format", a.format)
	addRoute(router, "dump", "GET", "/dump", a.dump)
	addRoute(router, "save", "PUT", "/save", a.save)
	addRoute(router, "messages", "GET", "/messages", a.messages)
	addRoute(router, "messages", "DELETE", "/messages", a.clearMessages)

	return router
}

//
func (a *api) Serve() error {

	addr := a.address
	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:8888", a.address)
	}

	log.Infof("BasicDisk API starts listening on %s", addr)
	a.server = &http.Server{Addr: addr, Handler: a.Handler()}

	err := a.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts down the server and writes back a modified image.
func (a *api) Stop() error {

	var err error
	if a.server != nil {
		log.Info("API server stopping...")
		err = a.server.Shutdown(context.Background())
		a.server = nil
	}

	if a.acquire() {
		defer a.release()
		if a.modified && a.persist != nil {
			log.Info("writing back modified image")
			if perr := a.persist(); perr != nil {
				return perr
			}
			a.modified = false
		}
	}

	return err
}

// acquire serializes access to the session. It returns false if the session
// stays busy for longer than the lock timeout.
func (a *api) acquire() bool {
	select {
	case a.lock <- true:
		return true
	case <-time.After(lockTimeout):
		return false
	}
}

//
func (a *api) release() {
	<-a.lock
}

// lockSession acquires the session lock, and reports a locked status to the
// client if that's not possible.
func (a *api) lockSession(w http.ResponseWriter) bool {
	if a.acquire() {
		return true
	}
	handleError(fmt.Errorf("disk image busy"), http.StatusLocked, w)
	return false
}

// changed records a modification of the image and notifies watchers. The
// session lock needs to be held.
func (a *api) changed() {

	a.modified = true
	a.revision++
	change := &Change{Revision: a.revision, Info: a.getInfo()}

Loop:
	for {
		select {
		case cl := <-a.longPollQueue:
			log.Debug("notifying long poll client")
			cl <- change
		default:
			break Loop
		}
	}
}

// enter changes into the directory given by the dir argument of req,
// starting at the root directory.
func (a *api) enter(w http.ResponseWriter, req *http.Request) bool {

	dir, err := getArg(req, "dir")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return false
	}

	if err := a.session.ChangeDirectory("/"); err != nil {
		handleError(err, statusOf(err), w)
		return false
	}

	for _, d := range strings.Split(dir, "/") {
		if d == "" {
			continue
		}
		if err := a.session.ChangeDirectory(d); err != nil {
			handleError(err, statusOf(err), w)
			return false
		}
	}
	return true
}

// statusOf maps filesystem errors to HTTP status codes.
func statusOf(err error) int {

	var e *base.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Code {
	case base.CodeNotFound:
		return http.StatusNotFound
	case base.CodeDuplicateName, base.CodeDirNotEmpty, base.CodeInvalidState:
		return http.StatusConflict
	case base.CodeWriteProtected, base.CodeReadOnly:
		return http.StatusForbidden
	case base.CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case base.CodeUnsupportedOp:
		return http.StatusNotImplemented
	case base.CodeUnknownFormat:
		return http.StatusUnprocessableEntity
	}

	switch e.Code.Class() {
	case base.ClassCapacity:
		return http.StatusInsufficientStorage
	case base.ClassPolicy, base.ClassVerification:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

//
func addRoute(r *mux.Router, name, method, pattern string,
	handler http.HandlerFunc) {
	r.Methods(method).
		Path(pattern).
		Name(name).
		Handler(requestLogger(handler, name))
}

//
func requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"path":   r.RequestURI,
		}).Debugf("API BEGIN | %s", name)

		start := time.Now()
		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.RequestURI,
			"duration": time.Since(start),
		}).Debugf("API END   | %s", name)
	})
}

//
func getName(req *http.Request) string {
	return mux.Vars(req)["name"]
}

//
func isFlagSet(req *http.Request, flag string) bool {
	arg, _ := getArg(req, flag)
	return arg == "true"
}

//
func getArg(req *http.Request, arg string) (string, error) {
	ret := req.URL.Query().Get(arg)
	if ret != "" {
		return url.QueryUnescape(ret)
	}
	return ret, nil
}

// getIntArg parses an integer argument, accepting a 0x prefix for hex
// values. def is returned when the argument is absent.
func getIntArg(req *http.Request, arg string, def int) (int, error) {
	val, err := getArg(req, arg)
	if err != nil {
		return -1, err
	}
	if val == "" {
		return def, nil
	}
	ret, err := strconv.ParseInt(val, 0, 32)
	if err != nil {
		return -1, fmt.Errorf("invalid value for %s: %s", arg, val)
	}
	return int(ret), nil
}

// getTypeArg parses a file type argument such as "BAS|RO".
func getTypeArg(req *http.Request, arg string) (base.FileType, error) {
	val, err := getArg(req, arg)
	if err != nil || val == "" {
		return 0, err
	}
	ret, ok := base.ParseFileType(val)
	if !ok {
		return 0, fmt.Errorf("invalid file type for %s: %s", arg, val)
	}
	return ret, nil
}

//
func setHeaders(h http.Header, json bool) {
	if json {
		h.Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		h.Set("Content-Type", "text/plain; charset=UTF-8")
	}
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	log.Errorf("%v", e)

	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(fmt.Sprintf("%v\n", e))); err != nil {
		log.Errorf("problem writing error: %v", err)
	}

	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := fmt.Fprintf(w, "%s\n", body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendStreamReply(r io.Reader, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := io.Copy(w, r); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), true)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing error: %v", err)
	}
}

//
func wantsJSON(req *http.Request) bool {
	return strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") ||
		strings.Contains(req.Header.Get("Accept"), "application/json")
}
