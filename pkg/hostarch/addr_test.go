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

package hostarch

import "testing"

func TestAddLength(t *testing.T) {
	for _, test := range []struct {
		addr    Addr
		length  uint64
		wantEnd Addr
		wantOK  bool
	}{
		{addr: 0, length: 0, wantEnd: 0, wantOK: true},
		{addr: 0x1000, length: 0x20, wantEnd: 0x1020, wantOK: true},
		{addr: ^Addr(0), length: 0, wantEnd: ^Addr(0), wantOK: true},
		{addr: ^Addr(0), length: 1, wantOK: false},
		{addr: 0x1000, length: ^uint64(0), wantOK: false},
	} {
		end, ok := test.addr.AddLength(test.length)
		if ok != test.wantOK || (ok && end != test.wantEnd) {
			t.Errorf("Addr(%#x).AddLength(%#x): got (%#x, %t), wanted (%#x, %t)", test.addr, test.length, end, ok, test.wantEnd, test.wantOK)
		}
	}
}

func TestRounding(t *testing.T) {
	if got, want := Addr(0x12f3).RoundDown(), Addr(0x1000); got != want {
		t.Errorf("RoundDown: got %#x, wanted %#x", got, want)
	}
	if got, ok := Addr(0x12f3).RoundUp(); !ok || got != Addr(0x2000) {
		t.Errorf("RoundUp: got (%#x, %t), wanted (0x2000, true)", got, ok)
	}
	if got, ok := Addr(0x1000).RoundUp(); !ok || got != Addr(0x1000) {
		t.Errorf("RoundUp on aligned: got (%#x, %t), wanted (0x1000, true)", got, ok)
	}
	if _, ok := (^Addr(0)).RoundUp(); ok {
		t.Errorf("RoundUp near top of address space: got ok, wanted wrap")
	}
}

func TestToRange(t *testing.T) {
	ar, ok := Addr(0x2000).ToRange(0x100)
	if want := (AddrRange{0x2000, 0x2100}); !ok || ar != want {
		t.Errorf("ToRange: got (%v, %t), wanted (%v, true)", ar, ok, want)
	}
	if !ar.WellFormed() {
		t.Errorf("ToRange returned ill-formed range %v", ar)
	}
	if _, ok := (^Addr(0) - 1).ToRange(0x100); ok {
		t.Errorf("ToRange overflowing: got ok, wanted failure")
	}
}

func TestAddrRange(t *testing.T) {
	ar := AddrRange{0x1000, 0x3000}
	if got, want := ar.Length(), uint64(0x2000); got != want {
		t.Errorf("Length: got %#x, wanted %#x", got, want)
	}
	if !ar.Contains(0x1000) || ar.Contains(0x3000) {
		t.Errorf("Contains: range %v must include Start and exclude End", ar)
	}
	if !ar.IsSupersetOf(AddrRange{0x1000, 0x2000}) {
		t.Errorf("IsSupersetOf: %v should contain [0x1000, 0x2000)", ar)
	}
	if got, want := ar.Intersect(AddrRange{0x2000, 0x4000}), (AddrRange{0x2000, 0x3000}); got != want {
		t.Errorf("Intersect: got %v, wanted %v", got, want)
	}
	if got, want := ar.Intersect(AddrRange{0x4000, 0x5000}), (AddrRange{0x4000, 0x4000}); got != want {
		t.Errorf("Intersect disjoint: got %v, wanted %v", got, want)
	}
}

func TestAccessType(t *testing.T) {
	if got, want := ReadWrite.String(), "rw-"; got != want {
		t.Errorf("String: got %q, wanted %q", got, want)
	}
	if got, want := Read.Union(Execute), ReadExecute; got != want {
		t.Errorf("Union: got %v, wanted %v", got, want)
	}
	if !ReadWrite.SupersetOf(Read) || Read.SupersetOf(ReadWrite) {
		t.Errorf("SupersetOf: rw- must contain r--, not vice versa")
	}
	if NoAccess.Any() {
		t.Errorf("Any: NoAccess.Any() = true, wanted false")
	}
}
