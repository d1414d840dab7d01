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
	"fmt"
	"math"

	"github.com/Anekoique/axuspace/pkg/errors/usererr"
	"github.com/Anekoique/axuspace/pkg/hostarch"
)

// Ptr is a writable typed pointer into user memory. Constructing a Ptr
// performs no validation; the address only becomes usable through a
// UserSpace operation.
type Ptr[T any] struct {
	addr hostarch.Addr
}

// ConstPtr is a read-only typed pointer into user memory. Write operations
// accept only Ptr, so a write through a ConstPtr is rejected at compile
// time.
type ConstPtr[T any] struct {
	addr hostarch.Addr
}

// PtrAt returns a writable pointer to a T at addr.
func PtrAt[T any](addr hostarch.Addr) Ptr[T] {
	return Ptr[T]{addr}
}

// ConstPtrAt returns a read-only pointer to a T at addr.
func ConstPtrAt[T any](addr hostarch.Addr) ConstPtr[T] {
	return ConstPtr[T]{addr}
}

// Addr returns the raw virtual address of the pointer.
func (p Ptr[T]) Addr() hostarch.Addr {
	return p.addr
}

// IsNull returns true if the pointer is the zero address.
func (p Ptr[T]) IsNull() bool {
	return p.addr == 0
}

// Offset returns a pointer to the nth following element. It fails with
// ErrOverflow if the resulting address would wrap.
//
// Preconditions: n >= 0.
func (p Ptr[T]) Offset(n int64) (Ptr[T], error) {
	addr, err := offsetAddr[T](p.addr, n)
	return Ptr[T]{addr}, err
}

// ReadOnly returns the pointer as a ConstPtr. Writable pointers are always
// readable.
func (p Ptr[T]) ReadOnly() ConstPtr[T] {
	return ConstPtr[T]{p.addr}
}

// Addr returns the raw virtual address of the pointer.
func (p ConstPtr[T]) Addr() hostarch.Addr {
	return p.addr
}

// IsNull returns true if the pointer is the zero address.
func (p ConstPtr[T]) IsNull() bool {
	return p.addr == 0
}

// Offset returns a pointer to the nth following element. It fails with
// ErrOverflow if the resulting address would wrap.
//
// Preconditions: n >= 0.
func (p ConstPtr[T]) Offset(n int64) (ConstPtr[T], error) {
	addr, err := offsetAddr[T](p.addr, n)
	return ConstPtr[T]{addr}, err
}

// CastPtr reinterprets the pointed-to element type without changing the
// address. Casts are package-level functions since Go methods cannot
// introduce type parameters.
func CastPtr[U, T any](p Ptr[T]) Ptr[U] {
	return Ptr[U]{p.addr}
}

// CastConstPtr is the read-only counterpart of CastPtr.
func CastConstPtr[U, T any](p ConstPtr[T]) ConstPtr[U] {
	return ConstPtr[U]{p.addr}
}

func offsetAddr[T any](addr hostarch.Addr, n int64) (hostarch.Addr, error) {
	if n < 0 {
		panic(fmt.Sprintf("usermem: negative pointer offset %d", n))
	}
	size := sizeOf[T]()
	if size != 0 && uint64(n) > math.MaxUint64/size {
		return 0, usererr.At(usererr.ErrOverflow, hostarch.AddrRange{Start: addr, End: addr})
	}
	end, ok := addr.AddLength(uint64(n) * size)
	if !ok {
		return 0, usererr.At(usererr.ErrOverflow, hostarch.AddrRange{Start: addr, End: addr})
	}
	return end, nil
}
