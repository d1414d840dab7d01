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

// Package usermem governs access to user memory.
//
// Every operation follows the same pipeline: compute the byte range, ask
// the Validator to check permissions, ask it to populate backing pages,
// then copy or scan through the IO transport. Nothing is dereferenced that
// has not just been validated, and every failure on untrusted input is a
// typed error, never a panic.
package usermem

import (
	"context"
	stderrors "errors"
	"unicode/utf8"

	"github.com/Anekoique/axuspace/pkg/errors"
	"github.com/Anekoique/axuspace/pkg/errors/usererr"
	"github.com/Anekoique/axuspace/pkg/hostarch"
)

// Validator certifies that virtual address ranges are usable. It is
// implemented by the embedding kernel's address space manager and injected
// at UserSpace construction.
//
// Implementations are responsible for any locking needed to keep checking
// and population consistent under concurrent use.
type Validator interface {
	// CheckRegionAccess succeeds only if the entire range is mapped with at
	// least the requested access. It must not have side effects beyond
	// inspection.
	CheckRegionAccess(ctx context.Context, ar hostarch.AddrRange, at hostarch.AccessType) error

	// PopulateRegion succeeds only after every page in the range has
	// resident backing, faulting pages in as needed. It may block.
	PopulateRegion(ctx context.Context, ar hostarch.AddrRange, at hostarch.AccessType) error
}

// IO provides access to the bytes of a user address space. It is the copy
// mechanism behind UserSpace; the engine only hands it ranges that the
// Validator has already approved and populated.
type IO interface {
	// CopyIn copies len(dst) bytes from the memory mapped at addr to dst.
	// It returns the number of bytes copied. If the number of bytes copied
	// is < len(dst), it returns a non-nil error explaining why.
	CopyIn(ctx context.Context, addr hostarch.Addr, dst []byte) (int, error)

	// CopyOut copies len(src) bytes from src to the memory mapped at addr.
	// It returns the number of bytes copied. If the number of bytes copied
	// is < len(src), it returns a non-nil error explaining why.
	CopyOut(ctx context.Context, addr hostarch.Addr, src []byte) (int, error)

	// InternalMapping returns a live view of the bytes in ar. The view is
	// only valid while ar's validation window holds; callers must not
	// retain it past that.
	InternalMapping(ctx context.Context, ar hostarch.AddrRange) ([]byte, error)
}

// Limits bounds terminator-delimited scans so that untrusted input cannot
// cause unbounded work.
type Limits struct {
	// MaxStringLen is the maximum number of bytes, including the
	// terminator, that ReadString will scan. It also bounds the element
	// count of ReadNullTerminated.
	MaxStringLen int

	// MaxStringArrayLen is the maximum number of entries, including the
	// null terminator, that ReadStringArray will read.
	MaxStringArrayLen int
}

// DefaultLimits are the scan bounds used by New.
var DefaultLimits = Limits{
	MaxStringLen:      4096,
	MaxStringArrayLen: 1024,
}

// UserSpace performs validated user memory operations. It holds exactly one
// Validator and one IO and no other state, so a single instance is safe for
// concurrent use.
type UserSpace struct {
	v   Validator
	mem IO
	lim Limits
}

// New returns a UserSpace backed by v and mem, with DefaultLimits.
func New(v Validator, mem IO) *UserSpace {
	return NewLimited(v, mem, DefaultLimits)
}

// NewLimited is New with explicit scan limits.
//
// Preconditions: lim.MaxStringLen > 0, lim.MaxStringArrayLen > 0.
func NewLimited(v Validator, mem IO, lim Limits) *UserSpace {
	if lim.MaxStringLen <= 0 || lim.MaxStringArrayLen <= 0 {
		panic("usermem: non-positive scan limit")
	}
	return &UserSpace{v: v, mem: mem, lim: lim}
}

// checkRegion validates [addr, addr+size) for the requested access:
// alignment, overflow, then CheckRegionAccess, then PopulateRegion.
// PopulateRegion is never called if CheckRegionAccess fails.
func (us *UserSpace) checkRegion(ctx context.Context, addr hostarch.Addr, size uint64, align uintptr, at hostarch.AccessType) (hostarch.AddrRange, error) {
	if align > 1 && !addr.IsAligned(align) {
		return hostarch.AddrRange{}, usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{Start: addr, End: addr})
	}
	ar, ok := addr.ToRange(size)
	if !ok {
		return hostarch.AddrRange{}, usererr.At(usererr.ErrOverflow, hostarch.AddrRange{Start: addr, End: addr})
	}
	if err := us.v.CheckRegionAccess(ctx, ar, at); err != nil {
		return hostarch.AddrRange{}, validatorError(err, usererr.ErrAccessDenied, ar)
	}
	if err := us.v.PopulateRegion(ctx, ar, at); err != nil {
		return hostarch.AddrRange{}, validatorError(err, usererr.ErrPopulationFailed, ar)
	}
	return ar, nil
}

// validatorError propagates a validator failure that already carries a
// usererr kind verbatim, and wraps anything else as kind at ar.
func validatorError(err error, kind *errors.Error, ar hostarch.AddrRange) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return err
	}
	return usererr.At(kind, ar)
}

// readBytes fills dst from the validated range ar. A short copy after
// successful validation means the transport disagrees with the validator
// about the mapping, and surfaces as ErrInvalidAddress at the unread tail.
func (us *UserSpace) readBytes(ctx context.Context, ar hostarch.AddrRange, dst []byte) error {
	n, err := us.mem.CopyIn(ctx, ar.Start, dst)
	if n < len(dst) || err != nil {
		return usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{Start: ar.Start + hostarch.Addr(n), End: ar.End})
	}
	return nil
}

// writeBytes copies src into the validated range ar. A short copy surfaces
// as ErrWriteFailed at the unwritten tail; bytes already written remain
// written.
func (us *UserSpace) writeBytes(ctx context.Context, ar hostarch.AddrRange, src []byte) error {
	n, err := us.mem.CopyOut(ctx, ar.Start, src)
	if n < len(src) || err != nil {
		return usererr.At(usererr.ErrWriteFailed, hostarch.AddrRange{Start: ar.Start + hostarch.Addr(n), End: ar.End})
	}
	return nil
}

// copyStringIncrement is the maximum number of bytes that are validated and
// copied from user memory at a time by ReadString.
const copyStringIncrement = 64

// ReadString reads a NUL-terminated string of unknown length from the
// memory at p and returns it without the trailing NUL. The scan proceeds in
// increments of at most copyStringIncrement bytes, shortened at page
// boundaries, and each increment's range is checked and populated before
// any of its bytes are read. If no terminator is found within
// MaxStringLen, ReadString fails with ErrStringTooLong without validating
// anything past that bound. The accumulated bytes must be valid UTF-8.
func (us *UserSpace) ReadString(ctx context.Context, p ConstPtr[byte]) (string, error) {
	if p.IsNull() {
		return "", usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	maxlen := us.lim.MaxStringLen
	addr := p.Addr()
	buf := make([]byte, maxlen)
	var done int
	for done < maxlen {
		start, ok := addr.AddLength(uint64(done))
		if !ok {
			return "", usererr.At(usererr.ErrOverflow, hostarch.AddrRange{Start: addr, End: addr})
		}
		readlen := copyStringIncrement
		if readlen > maxlen-done {
			readlen = maxlen - done
		}
		end, ok := start.AddLength(uint64(readlen))
		if !ok {
			return "", usererr.At(usererr.ErrOverflow, hostarch.AddrRange{Start: start, End: start})
		}
		// Shorten the read to avoid crossing page boundaries, since
		// populating a page the string never reaches is expensive.
		if start.RoundDown() != end.RoundDown() {
			end = end.RoundDown()
		}
		ar := hostarch.AddrRange{Start: start, End: end}
		if err := us.v.CheckRegionAccess(ctx, ar, hostarch.Read); err != nil {
			return "", validatorError(err, usererr.ErrAccessDenied, ar)
		}
		if err := us.v.PopulateRegion(ctx, ar, hostarch.Read); err != nil {
			return "", validatorError(err, usererr.ErrPopulationFailed, ar)
		}
		n, err := us.mem.CopyIn(ctx, start, buf[done:done+int(end-start)])
		// Look for the terminating zero byte, which may have occurred
		// before hitting err.
		for i, c := range buf[done : done+n] {
			if c == 0 {
				return decodeString(buf[:done+i], hostarch.AddrRange{Start: addr, End: start + hostarch.Addr(i)})
			}
		}
		done += n
		if err != nil {
			return "", usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{Start: start + hostarch.Addr(n), End: end})
		}
	}
	end, _ := addr.AddLength(uint64(maxlen))
	return "", usererr.At(usererr.ErrStringTooLong, hostarch.AddrRange{Start: addr, End: end})
}

func decodeString(b []byte, ar hostarch.AddrRange) (string, error) {
	if !utf8.Valid(b) {
		return "", usererr.At(usererr.ErrInvalidEncoding, ar)
	}
	return string(b), nil
}

// ReadStringArray reads an argv-style contiguous array of string pointers
// terminated by a null entry, decoding each entry with ReadString. The
// result is all-or-nothing: any entry failing discards everything already
// decoded. Arrays with no null entry within MaxStringArrayLen fail with
// ErrArrayTooLong.
func (us *UserSpace) ReadStringArray(ctx context.Context, p ConstPtr[hostarch.Addr]) ([]string, error) {
	if p.IsNull() {
		return nil, usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	var strs []string
	for i := 0; ; i++ {
		if i >= us.lim.MaxStringArrayLen {
			end, _ := p.Addr().AddLength(uint64(i) * sizeOf[hostarch.Addr]())
			return nil, usererr.At(usererr.ErrArrayTooLong, hostarch.AddrRange{Start: p.Addr(), End: end})
		}
		ep, err := p.Offset(int64(i))
		if err != nil {
			return nil, err
		}
		addr, err := Read(ctx, us, ep)
		if err != nil {
			return nil, err
		}
		if addr == 0 {
			break
		}
		s, err := us.ReadString(ctx, ConstPtrAt[byte](addr))
		if err != nil {
			return nil, err
		}
		strs = append(strs, s)
	}
	return strs, nil
}

// ZeroOut writes n zero bytes starting at p through the validated pipeline.
// Like WriteSlice, a failure partway leaves already-zeroed bytes in place.
//
// Preconditions: n >= 0.
func (us *UserSpace) ZeroOut(ctx context.Context, p Ptr[byte], n int64) error {
	if n < 0 {
		panic("usermem.ZeroOut: negative length")
	}
	if n == 0 {
		return nil
	}
	if p.IsNull() {
		return usererr.At(usererr.ErrInvalidAddress, hostarch.AddrRange{})
	}
	ar, err := us.checkRegion(ctx, p.Addr(), uint64(n), 1, hostarch.Write)
	if err != nil {
		return err
	}
	zeros := make([]byte, min(int64(hostarch.PageSize), n))
	for done := int64(0); done < n; {
		chunk := zeros[:min(int64(len(zeros)), n-done)]
		if err := us.writeBytes(ctx, hostarch.AddrRange{Start: ar.Start + hostarch.Addr(done), End: ar.Start + hostarch.Addr(done) + hostarch.Addr(len(chunk))}, chunk); err != nil {
			return err
		}
		done += int64(len(chunk))
	}
	return nil
}
