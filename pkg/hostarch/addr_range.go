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

// WellFormed returns true if ar.Start <= ar.End. All other methods on
// AddrRange require this.
func (ar AddrRange) WellFormed() bool {
	return ar.Start <= ar.End
}

// Length returns the length of the range.
func (ar AddrRange) Length() uint64 {
	return uint64(ar.End - ar.Start)
}

// Contains returns true if ar contains x.
func (ar AddrRange) Contains(x Addr) bool {
	return ar.Start <= x && x < ar.End
}

// Overlaps returns true if ar and other overlap.
func (ar AddrRange) Overlaps(other AddrRange) bool {
	return ar.Start < other.End && other.Start < ar.End
}

// IsSupersetOf returns true if ar is a superset of other.
func (ar AddrRange) IsSupersetOf(other AddrRange) bool {
	return ar.Start <= other.Start && other.End <= ar.End
}

// Intersect returns the range in both ar and other, or the empty range at
// other.Start if they do not overlap.
func (ar AddrRange) Intersect(other AddrRange) AddrRange {
	if ar.Start < other.Start {
		ar.Start = other.Start
	}
	if ar.End > other.End {
		ar.End = other.End
	}
	if ar.End < ar.Start {
		ar.End = ar.Start
	}
	return ar
}

// CanSplitAt returns true if it is legal to split a range at x: the split
// point must lie strictly inside the range.
func (ar AddrRange) CanSplitAt(x Addr) bool {
	return ar.Start < x && x < ar.End
}
