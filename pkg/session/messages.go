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

package session

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/basicdisk/pkg/basic/base"
)

// Messages returns the diagnostic messages collected so far, oldest first.
// Each message appears only once.
func (s *Session) Messages() []string {
	ret := make([]string, len(s.messages))
	copy(ret, s.messages)
	return ret
}

//
func (s *Session) ClearMessages() {
	s.messages = nil
}

// report records err as a message unless it is already present, and returns
// it.
func (s *Session) report(err error) error {

	if err == nil {
		return nil
	}

	var e *base.Error
	if errors.As(err, &e) && e.Code.IsWarning() {
		log.Debugf("warning: %v", err)
	} else {
		log.Debugf("error: %v", err)
	}

	msg := err.Error()
	for _, m := range s.messages {
		if m == msg {
			return err
		}
	}
	s.messages = append(s.messages, msg)
	return err
}
