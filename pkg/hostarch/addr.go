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

import "fmt"

// Addr represents a generic virtual address in an untrusted address space.
// An Addr is not dereferenceable; it only becomes usable after the range it
// heads has been validated and populated.
type Addr uintptr

// AddLength adds the given length to start and returns the result. ok is true
// iff adding the length did not overflow the range of Addr.
//
// Note: This function is usually used to check that a range of user-provided
// memory addresses is valid.
func (v Addr) AddLength(length uint64) (end Addr, ok bool) {
	end = v + Addr(length)
	// The second half of the following check is needed in the case that
	// uintptr is 32 bits.
	ok = end >= v && length <= uint64(^Addr(0))
	return
}

// RoundDown returns the address rounded down to the nearest page boundary.
func (v Addr) RoundDown() Addr {
	return v & ^Addr(PageMask)
}

// RoundUp returns the address rounded up to the nearest page boundary. ok is
// true iff rounding up did not wrap around.
func (v Addr) RoundUp() (addr Addr, ok bool) {
	addr = Addr(v + PageMask).RoundDown()
	ok = addr >= v
	return
}

// MustRoundUp is equivalent to RoundUp, but panics if rounding up wraps
// around.
func (v Addr) MustRoundUp() Addr {
	addr, ok := v.RoundUp()
	if !ok {
		panic(fmt.Sprintf("hostarch.Addr(%d).RoundUp() wraps", v))
	}
	return addr
}

// HugeRoundDown returns the address rounded down to the nearest huge page
// boundary.
func (v Addr) HugeRoundDown() Addr {
	return v & ^Addr(HugePageMask)
}

// HugeRoundUp returns the address rounded up to the nearest huge page
// boundary. ok is true iff rounding up did not wrap around.
func (v Addr) HugeRoundUp() (addr Addr, ok bool) {
	addr = Addr(v + HugePageMask).HugeRoundDown()
	ok = addr >= v
	return
}

// PageOffset returns the offset of v into the current page.
func (v Addr) PageOffset() uint64 {
	return uint64(v & PageMask)
}

// IsPageAligned returns true if v.PageOffset() == 0.
func (v Addr) IsPageAligned() bool {
	return v.PageOffset() == 0
}

// IsAligned returns true if v is a multiple of the given alignment, which
// must be a power of 2.
func (v Addr) IsAligned(align uintptr) bool {
	return uintptr(v)&(align-1) == 0
}

// AddrRange is a range of Addrs: the half-open interval [Start, End).
type AddrRange struct {
	Start Addr
	End   Addr
}

// ToRange returns [v, v+length). If this range would wrap around the address
// space, ToRange returns false.
func (v Addr) ToRange(length uint64) (AddrRange, bool) {
	end, ok := v.AddLength(length)
	return AddrRange{v, end}, ok
}

// IsPageAligned returns true if ar.Start.IsPageAligned() and
// ar.End.IsPageAligned().
func (ar AddrRange) IsPageAligned() bool {
	return ar.Start.IsPageAligned() && ar.End.IsPageAligned()
}

// String implements fmt.Stringer.String.
func (ar AddrRange) String() string {
	return fmt.Sprintf("[%#x, %#x)", ar.Start, ar.End)
}
