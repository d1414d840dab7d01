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

package usermem

import (
	"testing"

	"github.com/Anekoique/axuspace/pkg/errors/usererr"
	"github.com/Anekoique/axuspace/pkg/hostarch"
)

func TestPtrAddr(t *testing.T) {
	p := PtrAt[uint64](0x1000)
	if got, want := p.Addr(), hostarch.Addr(0x1000); got != want {
		t.Errorf("Addr: got %#x, wanted %#x", got, want)
	}
	if p.IsNull() {
		t.Errorf("IsNull: got true for %#x", p.Addr())
	}
	if !PtrAt[uint64](0).IsNull() {
		t.Errorf("IsNull: got false for the zero address")
	}
}

func TestPtrOffset(t *testing.T) {
	p := ConstPtrAt[uint32](0x1000)
	q, err := p.Offset(3)
	if err != nil {
		t.Fatalf("Offset(3): got error %v", err)
	}
	if got, want := q.Addr(), hostarch.Addr(0x100c); got != want {
		t.Errorf("Offset(3): got %#x, wanted %#x", got, want)
	}
}

func TestPtrOffsetOverflow(t *testing.T) {
	p := ConstPtrAt[uint64](^hostarch.Addr(0) - 16)
	if _, err := p.Offset(3); !usererr.Equals(usererr.ErrOverflow, err) {
		t.Errorf("Offset past the top of the address space: got %v, wanted %v", err, usererr.ErrOverflow)
	}
	// Element-count multiplication wrapping is also an overflow, not a
	// silent wrap.
	if _, err := ConstPtrAt[uint64](0x1000).Offset(1 << 62); !usererr.Equals(usererr.ErrOverflow, err) {
		t.Errorf("Offset with wrapping multiply: got %v, wanted %v", err, usererr.ErrOverflow)
	}
}

func TestPtrOffsetNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Offset(-1): got no panic, wanted panic")
		}
	}()
	PtrAt[byte](0x1000).Offset(-1)
}

func TestPtrCast(t *testing.T) {
	p := PtrAt[byte](0x2000)
	q := CastPtr[uint32](p)
	if got, want := q.Addr(), p.Addr(); got != want {
		t.Errorf("CastPtr: got %#x, wanted %#x", got, want)
	}
	cp := CastConstPtr[uint16](ConstPtrAt[byte](0x3000))
	if got, want := cp.Addr(), hostarch.Addr(0x3000); got != want {
		t.Errorf("CastConstPtr: got %#x, wanted %#x", got, want)
	}
}

func TestPtrReadOnly(t *testing.T) {
	p := PtrAt[uint32](0x4000)
	cp := p.ReadOnly()
	if got, want := cp.Addr(), p.Addr(); got != want {
		t.Errorf("ReadOnly: got %#x, wanted %#x", got, want)
	}
}
