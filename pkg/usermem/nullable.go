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

// NullCheckable is satisfied by both pointer variants.
type NullCheckable interface {
	IsNull() bool
}

// Nullable expresses an optional pointer argument: if p is null, it
// returns the zero R as an empty success without invoking op (and so
// without touching the validator); otherwise it runs op on p.
func Nullable[P NullCheckable, R any](p P, op func(P) (R, error)) (R, error) {
	if p.IsNull() {
		var zero R
		return zero, nil
	}
	return op(p)
}
