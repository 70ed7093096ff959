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

package repo

import (
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// PrefixRepoRef marks an image reference that is resolved against the image
// repository directory.
const PrefixRepoRef = "repo://"

// Resolve returns the path of the image file given by ref. A plain path is
// returned as is. A repository reference is joined with repo, and may not
// point outside of it.
func Resolve(ref, repo string) (string, error) {

	if !IsReference(ref) {
		return ref, nil
	}

	log.WithFields(log.Fields{
		"reference":  ref,
		"repository": repo,
	}).Debug("resolving ref")

	if repo == "" {
		return "", fmt.Errorf("image repository is not enabled")
	}

	name := ref[len(PrefixRepoRef):]
	if name == "" {
		return "", fmt.Errorf("empty image reference")
	}

	// cleaning against root keeps .. from leaving the repository
	return filepath.Join(repo, filepath.Clean("/"+name)), nil
}

//
func IsReference(r string) bool {
	return strings.HasPrefix(r, PrefixRepoRef)
}
