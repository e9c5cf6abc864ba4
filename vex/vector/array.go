// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vector

import (
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/internal/debug"
)

// Array represents an immutable sequence of variable-length value lists.
// Each row position spans child values [offset[i], offset[i]+size[i]).
// Spans of distinct rows need not be adjacent; child values referenced by no
// row are legal and ignored (they are left over from rows that were rolled
// back) and are reclaimed when the vector is released.
type Array struct {
	vector
	offsets *Flat[int32]
	sizes   *Flat[int32]
	values  Vector
}

// NewArray returns an array vector over per-row offset/size vectors and a
// shared child. All parts are retained; callers keep their own references.
func NewArray(typ *vex.ArrayType, length int, validity *memory.Buffer, offsets, sizes *Flat[int32], values Vector, nulls int) *Array {
	debug.Assert(offsets.Len() == length && sizes.Len() == length, "array offsets/sizes length mismatch")
	offsets.Retain()
	sizes.Retain()
	values.Retain()
	return &Array{
		vector:  newVector(typ, length, validity, nulls),
		offsets: offsets,
		sizes:   sizes,
		values:  values,
	}
}

// ValueOffset returns the child position where row i's elements begin.
func (a *Array) ValueOffset(i int) int { return int(a.offsets.Value(i)) }

// ValueLen returns the number of elements of row i. A zero length is valid
// and distinct from the position being null.
func (a *Array) ValueLen(i int) int { return int(a.sizes.Value(i)) }

// Values returns the shared child vector holding the concatenated elements.
func (a *Array) Values() Vector { return a.values }

func (a *Array) Release() {
	if a.vector.release() {
		a.offsets.Release()
		a.sizes.Release()
		a.values.Release()
	}
}

func (a *Array) getOneForMarshal(i int) interface{} {
	if a.IsNull(i) {
		return nil
	}
	off, n := a.ValueOffset(i), a.ValueLen(i)
	elems := make([]interface{}, n)
	for k := 0; k < n; k++ {
		elems[k] = a.values.getOneForMarshal(off + k)
	}
	return elems
}

func (a *Array) String() string { return vectorToString(a) }

func (a *Array) MarshalJSON() ([]byte, error) { return marshalVector(a) }

// ArrayBuilder builds array vectors. Child elements are appended through
// ValueBuilder; a row is committed with Append, naming the child span that
// the row references. This keeps failed rows cheap: child values already
// appended for a row that is never committed simply stay unreferenced.
type ArrayBuilder struct {
	builder

	typ     *vex.ArrayType
	values  Builder // builder for the array's elements
	offsets *FlatBuilder[int32]
	sizes   *FlatBuilder[int32]
}

// NewArrayBuilder returns a builder, using the provided memory allocator.
// The created builder will create arrays whose elements will be of the type
// etype.Elem().
func NewArrayBuilder(mem memory.Allocator, etype *vex.ArrayType) *ArrayBuilder {
	return &ArrayBuilder{
		builder: builder{refCount: 1, mem: mem},
		typ:     etype,
		values:  NewBuilder(mem, etype.Elem()),
		offsets: NewFlatBuilder[int32](mem, vex.Integer),
		sizes:   NewFlatBuilder[int32](mem, vex.Integer),
	}
}

func (b *ArrayBuilder) Type() vex.DataType { return b.typ }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
func (b *ArrayBuilder) Release() {
	b.builder.releaseInternal()
	b.values.Release()
	b.offsets.Release()
	b.sizes.Release()
}

// ValueBuilder returns the builder the array's child elements are appended to.
func (b *ArrayBuilder) ValueBuilder() Builder { return b.values }

// Append commits one row referencing the child span [offset, offset+size).
// The span must already be populated in the value builder.
func (b *ArrayBuilder) Append(offset, size int32) {
	debug.Assert(int(offset+size) <= b.values.Len(), "array span exceeds child length")
	b.Reserve(1)
	b.unsafeAppendBoolToBitmap(true)
	b.offsets.Append(offset)
	b.sizes.Append(size)
}

func (b *ArrayBuilder) AppendNull() {
	b.Reserve(1)
	b.unsafeAppendBoolToBitmap(false)
	b.offsets.Append(0)
	b.sizes.Append(0)
}

func (b *ArrayBuilder) init(capacity int) {
	b.builder.init(capacity)
	b.offsets.init(capacity)
	b.sizes.init(capacity)
}

// Reserve ensures there is enough space for appending n rows
// by checking the capacity and calling Resize if necessary.
func (b *ArrayBuilder) Reserve(n int) {
	b.builder.reserve(n, b.resizeHelper)
	b.offsets.Reserve(n)
	b.sizes.Reserve(n)
}

// Resize adjusts the space allocated by b to n rows. If n is greater than
// b.Cap(), additional memory will be allocated. If n is smaller, the
// allocated memory may be reduced.
func (b *ArrayBuilder) Resize(n int) {
	b.resizeHelper(n)
	b.offsets.Resize(n)
	b.sizes.Resize(n)
}

func (b *ArrayBuilder) resizeHelper(n int) {
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}

	if b.capacity == 0 {
		b.builder.init(n)
	} else {
		b.builder.resize(n, b.builder.init)
	}
}

func (b *ArrayBuilder) NewVector() Vector { return b.NewArrayVector() }

// NewArrayVector creates an Array vector from the memory buffers used by the
// builder and resets the builder so it can be used to build a new vector.
func (b *ArrayBuilder) NewArrayVector() *Array {
	values := b.values.NewVector()
	defer values.Release()
	offsets := b.offsets.NewFlatVector()
	defer offsets.Release()
	sizes := b.sizes.NewFlatVector()
	defer sizes.Release()

	a := NewArray(b.typ, b.length, b.finishBitmap(), offsets, sizes, values, b.nulls)
	b.builder.reset()
	return a
}

var (
	_ Vector  = (*Array)(nil)
	_ Builder = (*ArrayBuilder)(nil)
)
