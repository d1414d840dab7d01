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
	"context"
	"math"
	"unsafe"

	"github.com/Anekoique/axuspace/pkg/errors/usererr"
	"github.com/Anekoique/axuspace/pkg/hostarch"
)

// The generic operations below are package-level functions because Go
// methods cannot introduce type parameters. The element type T must be a
// fixed-size value without Go pointers; its in-memory representation is
// copied verbatim across the privilege boundary.

// Read returns the element at p.
func Read[T any](ctx context.Context, us *UserSpace, p ConstPtr[T]) (T, error) {
	var v T
	if p.IsNull() {
		return v, usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	ar, err := us.checkRegion(ctx, p.Addr(), sizeOf[T](), alignOf[T](), hostarch.Read)
	if err != nil {
		return v, err
	}
	if err := us.readBytes(ctx, ar, asBytes(&v)); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Write copies v to the element at p.
func Write[T any](ctx context.Context, us *UserSpace, p Ptr[T], v T) error {
	if p.IsNull() {
		return usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	ar, err := us.checkRegion(ctx, p.Addr(), sizeOf[T](), alignOf[T](), hostarch.Write)
	if err != nil {
		return err
	}
	return us.writeBytes(ctx, ar, asBytes(&v))
}

// ReadSliceTo copies len(buf) elements starting at p into buf. A
// zero-length buf is a no-op success.
func ReadSliceTo[T any](ctx context.Context, us *UserSpace, p ConstPtr[T], buf []T) error {
	if len(buf) == 0 {
		return nil
	}
	if p.IsNull() {
		return usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	size, err := byteCount[T](p.Addr(), len(buf))
	if err != nil {
		return err
	}
	ar, err := us.checkRegion(ctx, p.Addr(), size, alignOf[T](), hostarch.Read)
	if err != nil {
		return err
	}
	return us.readBytes(ctx, ar, sliceAsBytes(buf))
}

// ReadSlice returns a zero-copy view of n elements starting at p. The view
// is bound to the validated range's continued validity; callers must not
// retain it beyond the validation window.
//
// Preconditions: n >= 0.
func ReadSlice[T any](ctx context.Context, us *UserSpace, p ConstPtr[T], n int) ([]T, error) {
	if n < 0 {
		panic("usermem.ReadSlice: negative length")
	}
	if n == 0 {
		return nil, nil
	}
	if p.IsNull() {
		return nil, usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	size, err := byteCount[T](p.Addr(), n)
	if err != nil {
		return nil, err
	}
	ar, err := us.checkRegion(ctx, p.Addr(), size, alignOf[T](), hostarch.Read)
	if err != nil {
		return nil, err
	}
	b, err := us.mem.InternalMapping(ctx, ar)
	if err != nil {
		return nil, validatorError(err, usererr.ErrInvalidAddress, ar)
	}
	return bytesAsSlice[T](b, n), nil
}

// WriteSlice copies data into the elements starting at p. A zero-length
// data is a no-op success. On failure partway, elements already written
// remain written; there is no rollback.
func WriteSlice[T any](ctx context.Context, us *UserSpace, p Ptr[T], data []T) error {
	if len(data) == 0 {
		return nil
	}
	if p.IsNull() {
		return usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	size, err := byteCount[T](p.Addr(), len(data))
	if err != nil {
		return err
	}
	ar, err := us.checkRegion(ctx, p.Addr(), size, alignOf[T](), hostarch.Write)
	if err != nil {
		return err
	}
	return us.writeBytes(ctx, ar, sliceAsBytes(data))
}

// ReadNullTerminated reads elements starting at p until the zero element,
// which is not included in the result. Like ReadString, each stretch of at
// most copyStringIncrement bytes is validated before it is read, and scans
// exceeding MaxStringLen elements fail with ErrStringTooLong.
func ReadNullTerminated[T comparable](ctx context.Context, us *UserSpace, p ConstPtr[T]) ([]T, error) {
	if p.IsNull() {
		return nil, usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	size := sizeOf[T]()
	if size == 0 || size > copyStringIncrement {
		panic("usermem.ReadNullTerminated: unsupported element size")
	}
	var (
		zero T
		out  []T
	)
	// validated is the high-water mark of the region checked so far; each
	// element is validated before it is read, a page at a time.
	validated := p.Addr()
	for i := 0; i < us.lim.MaxStringLen; i++ {
		ep, err := p.Offset(int64(i))
		if err != nil {
			return nil, err
		}
		if !ep.Addr().IsAligned(alignOf[T]()) {
			return nil, usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{Start: ep.Addr(), End: ep.Addr()})
		}
		elemEnd, ok := ep.Addr().AddLength(size)
		if !ok {
			return nil, usererr.At(usererr.ErrOverflow, hostarch.AddrRange{Start: ep.Addr(), End: ep.Addr()})
		}
		if elemEnd > validated {
			end, ok := elemEnd.RoundUp()
			if !ok {
				end = elemEnd
			}
			ar := hostarch.AddrRange{Start: validated, End: end}
			if err := us.v.CheckRegionAccess(ctx, ar, hostarch.Read); err != nil {
				return nil, validatorError(err, usererr.ErrAccessDenied, ar)
			}
			if err := us.v.PopulateRegion(ctx, ar, hostarch.Read); err != nil {
				return nil, validatorError(err, usererr.ErrPopulationFailed, ar)
			}
			validated = end
		}
		var v T
		if err := us.readBytes(ctx, hostarch.AddrRange{Start: ep.Addr(), End: elemEnd}, asBytes(&v)); err != nil {
			return nil, err
		}
		if v == zero {
			return out, nil
		}
		out = append(out, v)
	}
	end, _ := p.Addr().AddLength(uint64(us.lim.MaxStringLen) * size)
	return nil, usererr.At(usererr.ErrStringTooLong, hostarch.AddrRange{Start: p.Addr(), End: end})
}

func sizeOf[T any]() uint64 {
	var v T
	return uint64(unsafe.Sizeof(v))
}

func alignOf[T any]() uintptr {
	var v T
	return unsafe.Alignof(v)
}

// byteCount returns n elements' worth of bytes, or ErrOverflow if the
// multiplication wraps.
func byteCount[T any](addr hostarch.Addr, n int) (uint64, error) {
	size := sizeOf[T]()
	if size != 0 && uint64(n) > math.MaxUint64/size {
		return 0, usererr.At(usererr.ErrOverflow, hostarch.AddrRange{Start: addr, End: addr})
	}
	return uint64(n) * size, nil
}

func asBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

func sliceAsBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(sizeOf[T]()))
}

func bytesAsSlice[T any](b []byte, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}
