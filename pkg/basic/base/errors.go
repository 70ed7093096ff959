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

package base

import (
	"fmt"
)

// Code identifies a filesystem error or warning.
type Code int

// Class groups codes by their nature.
type Class int

const (
	ClassStructural Class = iota
	ClassCapacity
	ClassPolicy
	ClassVerification
	ClassWarning
)

const (
	// structural
	CodeUnsupported Code = iota + 1
	CodeNotFormatted
	CodeInvalidFat
	CodeInvalidDir
	CodeInvalidParam
	CodeNoSector
	CodeBrokenChain
	CodeUnknownFormat
	CodeInvalidState

	// capacity
	CodeDirFull Code = iota + 100
	CodeDiskFull
	CodeFileTooLarge
	CodeNoSpace
	CodeInsufficientSpace

	// policy
	CodeWriteProtected Code = iota + 200
	CodeUnsupportedOp
	CodeDuplicateName
	CodeNameRequired
	CodeExtRequired
	CodeInvalidName
	CodePathTooDeep
	CodeReadOnly
	CodeNotDirectory
	CodeDirNotEmpty
	CodeNotFound
	CodeInvalidAttr

	// verification
	CodeSizeMismatch Code = iota + 300
	CodeVerify

	// warnings
	WarnNoTrack Code = iota + 400
	WarnAmbiguous
	WarnSkippedEntry
)

type message struct {
	plain string
	args  string
}

var messages = map[Code]message{
	CodeUnsupported:   {"unsupported disk format", "unsupported disk format: %v"},
	CodeNotFormatted:  {"disk is not formatted", "disk is not formatted as %v"},
	CodeInvalidFat:    {"invalid allocation table", "invalid allocation table at group %v"},
	CodeInvalidDir:    {"invalid directory area", "invalid directory area at sector %v"},
	CodeInvalidParam:  {"invalid format parameters", "invalid format parameters: %v"},
	CodeNoSector:      {"sector not found", "sector not found: track %v side %v sector %v"},
	CodeBrokenChain:   {"broken group chain", "broken group chain at group %v"},
	CodeUnknownFormat: {"unknown disk type", "unknown disk type: %v"},
	CodeInvalidState:  {"disk not ready", "disk not ready, session is %v"},

	CodeDirFull:           {"directory full", "directory full, no free slot for %v"},
	CodeDiskFull:          {"disk full", "disk full, cannot store %v"},
	CodeFileTooLarge:      {"file too large", "file too large, %v bytes exceeds maximum of %v"},
	CodeNoSpace:           {"ran out of space", "ran out of space after allocating %v groups"},
	CodeInsufficientSpace: {"not enough free space", "not enough free space, %v bytes needed, %v free"},

	CodeWriteProtected: {"disk is write protected", "disk is write protected"},
	CodeUnsupportedOp:  {"operation not supported", "operation not supported by this format: %v"},
	CodeDuplicateName:  {"file already exists", "file already exists: %v"},
	CodeNameRequired:   {"file name required", "file name required"},
	CodeExtRequired:    {"extension required", "extension required for %v"},
	CodeInvalidName:    {"invalid file name", "invalid file name: %v"},
	CodePathTooDeep:    {"path too deep", "path too deep, maximum depth is %v"},
	CodeReadOnly:       {"file is read only", "file is read only: %v"},
	CodeNotDirectory:   {"not a directory", "not a directory: %v"},
	CodeDirNotEmpty:    {"directory not empty", "directory not empty: %v"},
	CodeNotFound:       {"file not found", "file not found: %v"},
	CodeInvalidAttr:    {"invalid attribute", "invalid attribute: %v"},

	CodeSizeMismatch: {"file size differs", "file size differs, %v bytes on disk, %v bytes given"},
	CodeVerify:       {"file content differs", "file content differs in sector %v"},

	WarnNoTrack:      {"track not found", "track not found: track %v side %v"},
	WarnAmbiguous:    {"ambiguous disk format", "ambiguous disk format, candidates: %v"},
	WarnSkippedEntry: {"invalid directory entry skipped", "invalid directory entry skipped: %v"},
}

//
func (c Code) Class() Class {
	switch {
	case c >= WarnNoTrack:
		return ClassWarning
	case c >= CodeSizeMismatch:
		return ClassVerification
	case c >= CodeWriteProtected:
		return ClassPolicy
	case c >= CodeDirFull:
		return ClassCapacity
	}
	return ClassStructural
}

//
func (c Code) IsWarning() bool {
	return c.Class() == ClassWarning
}

// Error is a coded filesystem error. Two errors are considered equal by
// errors.Is when their codes match, regardless of arguments.
type Error struct {
	Code Code
	Args []interface{}
}

//
func NewError(c Code, args ...interface{}) *Error {
	return &Error{Code: c, Args: args}
}

//
func (e *Error) Error() string {
	m, ok := messages[e.Code]
	if !ok {
		return fmt.Sprintf("error %d", e.Code)
	}
	if len(e.Args) == 0 {
		return m.plain
	}
	return fmt.Sprintf(m.args, e.Args...)
}

//
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Code == e.Code
	}
	return false
}

// sentinels for use with errors.Is
var (
	ErrUnsupported       = &Error{Code: CodeUnsupported}
	ErrNotFormatted      = &Error{Code: CodeNotFormatted}
	ErrInvalidFat        = &Error{Code: CodeInvalidFat}
	ErrInvalidDir        = &Error{Code: CodeInvalidDir}
	ErrInvalidParam      = &Error{Code: CodeInvalidParam}
	ErrNoSector          = &Error{Code: CodeNoSector}
	ErrBrokenChain       = &Error{Code: CodeBrokenChain}
	ErrUnknownFormat     = &Error{Code: CodeUnknownFormat}
	ErrInvalidState      = &Error{Code: CodeInvalidState}
	ErrDirFull           = &Error{Code: CodeDirFull}
	ErrDiskFull          = &Error{Code: CodeDiskFull}
	ErrFileTooLarge      = &Error{Code: CodeFileTooLarge}
	ErrNoSpace           = &Error{Code: CodeNoSpace}
	ErrInsufficientSpace = &Error{Code: CodeInsufficientSpace}
	ErrWriteProtected    = &Error{Code: CodeWriteProtected}
	ErrUnsupportedOp     = &Error{Code: CodeUnsupportedOp}
	ErrDuplicateName     = &Error{Code: CodeDuplicateName}
	ErrNameRequired      = &Error{Code: CodeNameRequired}
	ErrExtRequired       = &Error{Code: CodeExtRequired}
	ErrInvalidName       = &Error{Code: CodeInvalidName}
	ErrPathTooDeep       = &Error{Code: CodePathTooDeep}
	ErrReadOnly          = &Error{Code: CodeReadOnly}
	ErrNotDirectory      = &Error{Code: CodeNotDirectory}
	ErrDirNotEmpty       = &Error{Code: CodeDirNotEmpty}
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrInvalidAttr       = &Error{Code: CodeInvalidAttr}
	ErrSizeMismatch      = &Error{Code: CodeSizeMismatch}
	ErrVerify            = &Error{Code: CodeVerify}
)
