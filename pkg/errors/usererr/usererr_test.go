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

package usererr

import (
	stderrors "errors"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/Anekoique/axuspace/pkg/hostarch"
)

func TestEquals(t *testing.T) {
	if !Equals(ErrAccessDenied, ErrAccessDenied) {
		t.Errorf("Equals: singleton must match itself")
	}
	if Equals(ErrAccessDenied, ErrPopulationFailed) {
		t.Errorf("Equals: distinct kinds must not match")
	}
	if !Equals(ErrAccessDenied, unix.EPERM) {
		t.Errorf("Equals: kind must match its unix.Errno")
	}
	if !Equals(nil, nil) {
		t.Errorf("Equals(nil, nil): got false, wanted true")
	}
	if Equals(ErrAccessDenied, nil) {
		t.Errorf("Equals(kind, nil): got true, wanted false")
	}
}

func TestFault(t *testing.T) {
	ar := hostarch.AddrRange{Start: 0x1000, End: 0x1040}
	err := At(ErrStringTooLong, ar)
	if !stderrors.Is(err, ErrStringTooLong) {
		t.Errorf("errors.Is: Fault must unwrap to its kind")
	}
	if !Equals(ErrStringTooLong, err) {
		t.Errorf("Equals: Fault must match its kind")
	}
	var f *Fault
	if !stderrors.As(err, &f) || f.Range != ar {
		t.Errorf("errors.As: got range %v, wanted %v", f.Range, ar)
	}
	if got, want := err.Error(), "user string exceeds maximum length at [0x1000, 0x1040)"; got != want {
		t.Errorf("Error: got %q, wanted %q", got, want)
	}
}

func TestToUnix(t *testing.T) {
	if got, want := ToUnix(ErrInvalidEncoding), unix.EILSEQ; got != want {
		t.Errorf("ToUnix: got %v, wanted %v", got, want)
	}
	if got := ToUnix(nil); got != 0 {
		t.Errorf("ToUnix(nil): got %v, wanted 0", got)
	}
}
