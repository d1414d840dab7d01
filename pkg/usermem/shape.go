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

import "context"

// Shape is a read request of one of three shapes: scalar, string, or
// slice. Each shape maps to exactly one primitive; ReadShape carries no
// logic of its own, and the shape decision is made at compile time by the
// request type the caller constructs.
type Shape[R any] interface {
	readFrom(ctx context.Context, us *UserSpace) (R, error)
}

// Scalar requests a single element.
type Scalar[T any] struct {
	Ptr ConstPtr[T]
}

func (s Scalar[T]) readFrom(ctx context.Context, us *UserSpace) (T, error) {
	return Read(ctx, us, s.Ptr)
}

// Str requests a NUL-terminated string.
type Str struct {
	Ptr ConstPtr[byte]
}

func (s Str) readFrom(ctx context.Context, us *UserSpace) (string, error) {
	return us.ReadString(ctx, s.Ptr)
}

// Slice requests Len contiguous elements.
type Slice[T any] struct {
	Ptr ConstPtr[T]
	Len int
}

func (s Slice[T]) readFrom(ctx context.Context, us *UserSpace) ([]T, error) {
	return ReadSlice(ctx, us, s.Ptr, s.Len)
}

// ReadShape dispatches a shaped read request to its primitive.
func ReadShape[R any](ctx context.Context, us *UserSpace, s Shape[R]) (R, error) {
	return s.readFrom(ctx, us)
}
