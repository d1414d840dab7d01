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

// Package hostarch defines the value types used to describe user virtual
// memory: addresses, half-open address ranges, and requested access types.
// None of these types carry validated memory; they are inputs to validation.
package hostarch

const (
	// PageShift is the binary log of the page size.
	PageShift = 12

	// PageSize is the checking granularity of user memory validation.
	PageSize = 1 << PageShift

	// PageMask masks the offset of an address within a page.
	PageMask = PageSize - 1

	// HugePageShift is the binary log of the huge page size.
	HugePageShift = 21

	// HugePageSize is the size of a huge page.
	HugePageSize = 1 << HugePageShift

	// HugePageMask masks the offset of an address within a huge page.
	HugePageMask = HugePageSize - 1
)
