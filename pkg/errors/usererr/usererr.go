// Copyright 2026 The axuspace Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package usererr defines the fixed set of failures that validated user
// memory access can produce, exported as error interface pointers. This
// allows for fast comparison and return operations comparable to
// unix.Errno constants.
package usererr

import (
	stderrors "errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/Anekoique/axuspace/pkg/errors"
	"github.com/Anekoique/axuspace/pkg/hostarch"
)

// Each failure kind is a singleton; callers compare with Equals or
// errors.Is rather than by errno, since several kinds share one.
var (
	// ErrInvalidAddress is returned when a null pointer is dereferenced or
	// an address is not aligned as its element type requires.
	ErrInvalidAddress = errors.New(unix.EFAULT, "invalid user address")

	// ErrOverflow is returned when address or length arithmetic would wrap
	// the address space.
	ErrOverflow = errors.New(unix.EFAULT, "user address arithmetic overflows")

	// ErrAccessDenied is returned when the validator rejects the requested
	// permissions for a range.
	ErrAccessDenied = errors.New(unix.EPERM, "user memory access denied")

	// ErrPopulationFailed is returned when the validator cannot guarantee
	// that a range has resident backing.
	ErrPopulationFailed = errors.New(unix.ENOMEM, "user memory population failed")

	// ErrInvalidEncoding is returned when bytes read from user memory are
	// not valid UTF-8.
	ErrInvalidEncoding = errors.New(unix.EILSEQ, "illegal byte sequence in user string")

	// ErrStringTooLong is returned when no NUL terminator is found within
	// the configured maximum string length.
	ErrStringTooLong = errors.New(unix.ENAMETOOLONG, "user string exceeds maximum length")

	// ErrArrayTooLong is returned when no null entry is found within the
	// configured maximum array length.
	ErrArrayTooLong = errors.New(unix.E2BIG, "user pointer array exceeds maximum length")

	// ErrWriteFailed is returned when a copy into user memory stops before
	// all bytes are written. Bytes written before the failure remain
	// written.
	ErrWriteFailed = errors.New(unix.EIO, "write to user memory aborted")
)

// Equals compares a usererr to a given error. It matches the singleton
// itself, a Fault wrapping it, and unix.Errno values carrying the same
// errno.
func Equals(e *errors.Error, err error) bool {
	if err == nil {
		return e == nil
	}
	if stderrors.Is(err, e) {
		return true
	}
	if errno, ok := err.(unix.Errno); ok && e != nil {
		return errno == e.Errno()
	}
	return false
}

// ToUnix converts a usererr to a unix.Errno.
func ToUnix(e *errors.Error) unix.Errno {
	var unixErr unix.Errno
	if e != nil {
		unixErr = e.Errno()
	}
	return unixErr
}

// Fault attaches the offending address range to a failure kind. It carries
// diagnostic context only; there is no retry state.
type Fault struct {
	Err   *errors.Error
	Range hostarch.AddrRange
}

// At wraps err with the range whose validation or copy failed.
func At(err *errors.Error, ar hostarch.AddrRange) error {
	return &Fault{Err: err, Range: ar}
}

// Error implements error.Error.
func (f *Fault) Error() string {
	return fmt.Sprintf("%v at %v", f.Err, f.Range)
}

// Unwrap supports errors.Is against the failure kind.
func (f *Fault) Unwrap() error {
	return f.Err
}
