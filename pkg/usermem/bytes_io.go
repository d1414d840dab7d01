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

	"github.com/Anekoique/axuspace/pkg/errors/usererr"
	"github.com/Anekoique/axuspace/pkg/hostarch"
)

// BytesIO implements IO using a byte slice as the user address space,
// with address 0 at the start of the slice. It exists for testing and for
// embedders whose address spaces are plain buffers. Accesses that run past
// the end of the slice copy the in-bounds prefix and then fail.
type BytesIO struct {
	Bytes []byte
}

// CopyIn implements IO.CopyIn.
func (b *BytesIO) CopyIn(ctx context.Context, addr hostarch.Addr, dst []byte) (int, error) {
	rngN, rngErr := b.rangeCheck(addr, len(dst))
	if rngN == 0 {
		return 0, rngErr
	}
	return copy(dst[:rngN], b.Bytes[int(addr):]), rngErr
}

// CopyOut implements IO.CopyOut.
func (b *BytesIO) CopyOut(ctx context.Context, addr hostarch.Addr, src []byte) (int, error) {
	rngN, rngErr := b.rangeCheck(addr, len(src))
	if rngN == 0 {
		return 0, rngErr
	}
	return copy(b.Bytes[int(addr):], src[:rngN]), rngErr
}

// InternalMapping implements IO.InternalMapping. Unlike the copying
// methods, it is all-or-nothing: a range extending past the slice yields no
// view at all.
func (b *BytesIO) InternalMapping(ctx context.Context, ar hostarch.AddrRange) ([]byte, error) {
	rngN, rngErr := b.rangeCheck(ar.Start, int(ar.Length()))
	if rngErr != nil {
		return nil, rngErr
	}
	return b.Bytes[int(ar.Start) : int(ar.Start)+rngN], nil
}

// rangeCheck returns the number of bytes at [addr, addr+length) that lie
// inside b.Bytes, and an error if that is fewer than length.
//
// Preconditions: length >= 0.
func (b *BytesIO) rangeCheck(addr hostarch.Addr, length int) (int, error) {
	if length == 0 {
		return 0, nil
	}
	if length < 0 {
		panic("usermem.BytesIO: negative length")
	}
	max := hostarch.Addr(len(b.Bytes))
	if addr >= max {
		return 0, usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{Start: addr, End: addr + hostarch.Addr(length)})
	}
	if end, ok := addr.AddLength(uint64(length)); !ok || end > max {
		return int(max - addr), usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{Start: max, End: addr + hostarch.Addr(length)})
	}
	return length, nil
}
