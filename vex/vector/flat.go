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
	"unsafe"

	"github.com/JohnCGriffin/overflow"
	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/internal/debug"
)

// FixedWidth is the set of Go value types backing the fixed-width numeric
// kinds of the logical type catalog.
type FixedWidth interface {
	int8 | int16 | int32 | int64 | float32 | float64
}

func castSlice[T FixedWidth](b []byte) []T {
	var z T
	n := len(b) / int(unsafe.Sizeof(z))
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

func bytesRequired[T FixedWidth](n int) int {
	var z T
	nbytes, ok := overflow.Mul(n, int(unsafe.Sizeof(z)))
	if !ok {
		panic("vex/vector: buffer size overflow")
	}
	return nbytes
}

// Flat represents an immutable dense sequence of fixed-width values, one per
// row position.
type Flat[T FixedWidth] struct {
	vector
	values *memory.Buffer
	data   []T
}

// NewFlat returns a flat vector over the given buffers. The buffers are
// retained; callers keep their own references.
func NewFlat[T FixedWidth](typ vex.DataType, length int, values, validity *memory.Buffer, nulls int) *Flat[T] {
	v := &Flat[T]{vector: newVector(typ, length, validity, nulls)}
	if values != nil {
		values.Retain()
		v.values = values
		v.data = castSlice[T](values.Bytes())[:length:length]
	}
	return v
}

// Value returns the stored value at row position i. The result is undefined
// when the position is null; check IsNull first.
func (v *Flat[T]) Value(i int) T { return v.data[i] }

// Values returns the backing value slice.
func (v *Flat[T]) Values() []T { return v.data }

func (v *Flat[T]) Release() {
	if v.vector.release() {
		if v.values != nil {
			v.values.Release()
			v.values = nil
		}
		v.data = nil
	}
}

func (v *Flat[T]) getOneForMarshal(i int) interface{} {
	if v.IsNull(i) {
		return nil
	}
	return v.data[i]
}

func (v *Flat[T]) String() string { return vectorToString(v) }

func (v *Flat[T]) MarshalJSON() ([]byte, error) { return marshalVector(v) }

// FlatBuilder builds flat vectors incrementally.
type FlatBuilder[T FixedWidth] struct {
	builder

	typ     vex.DataType
	data    *memory.Buffer
	rawData []T
}

func NewFlatBuilder[T FixedWidth](mem memory.Allocator, typ vex.DataType) *FlatBuilder[T] {
	debug.Assert(isFixedWidthKind(typ.ID()), "flat builder requires a fixed-width kind")
	return &FlatBuilder[T]{builder: builder{refCount: 1, mem: mem}, typ: typ}
}

func (b *FlatBuilder[T]) Type() vex.DataType { return b.typ }

func (b *FlatBuilder[T]) Release() {
	if b.builder.releaseInternal() {
		if b.data != nil {
			b.data.Release()
			b.data = nil
			b.rawData = nil
		}
	}
}

func (b *FlatBuilder[T]) Append(v T) {
	b.Reserve(1)
	b.UnsafeAppend(v)
}

func (b *FlatBuilder[T]) UnsafeAppend(v T) {
	bitutil.SetBit(b.nullBitmap.Bytes(), b.length)
	b.rawData[b.length] = v
	b.length++
}

func (b *FlatBuilder[T]) AppendNull() {
	b.Reserve(1)
	var z T
	b.rawData[b.length] = z
	b.unsafeAppendBoolToBitmap(false)
}

// AppendValues appends values with their validity; a nil valid slice means
// all values are valid.
func (b *FlatBuilder[T]) AppendValues(v []T, valid []bool) {
	if len(valid) != 0 && len(v) != len(valid) {
		panic("vex/vector: len(v) != len(valid) && len(valid) != 0")
	}

	if len(v) == 0 {
		return
	}

	b.Reserve(len(v))
	copy(b.rawData[b.length:], v)
	for i := 0; i < len(v); i++ {
		b.unsafeAppendBoolToBitmap(len(valid) == 0 || valid[i])
	}
}

func (b *FlatBuilder[T]) Value(i int) T { return b.rawData[i] }

func (b *FlatBuilder[T]) init(capacity int) {
	b.builder.init(capacity)

	b.data = memory.NewResizableBuffer(b.mem)
	b.data.Resize(bytesRequired[T](capacity))
	b.rawData = castSlice[T](b.data.Buf())
}

// Reserve ensures there is enough space for appending n elements
// by checking the capacity and calling Resize if necessary.
func (b *FlatBuilder[T]) Reserve(n int) {
	b.builder.reserve(n, b.Resize)
}

// Resize adjusts the space allocated by b to n elements. If n is greater than
// b.Cap(), additional memory will be allocated. If n is smaller, the allocated
// memory may be reduced.
func (b *FlatBuilder[T]) Resize(n int) {
	nBuilder := n
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}

	if b.capacity == 0 {
		b.init(n)
	} else {
		b.builder.resize(nBuilder, b.init)
		b.data.Resize(bytesRequired[T](n))
		b.rawData = castSlice[T](b.data.Buf())
	}
}

func (b *FlatBuilder[T]) NewVector() Vector { return b.NewFlatVector() }

// NewFlatVector creates a Flat vector from the memory buffers used by the
// builder and resets the builder so it can be used to build a new vector.
func (b *FlatBuilder[T]) NewFlatVector() *Flat[T] {
	if b.data != nil {
		b.data.Resize(bytesRequired[T](b.length))
	}
	v := NewFlat[T](b.typ, b.length, b.data, b.finishBitmap(), b.nulls)
	b.resetWithData()
	return v
}

func (b *FlatBuilder[T]) resetWithData() {
	if b.data != nil {
		b.data.Release()
		b.data = nil
		b.rawData = nil
	}
	b.builder.reset()
}

func isFixedWidthKind(k vex.Kind) bool {
	switch k {
	case vex.BOOL, vex.TINYINT, vex.SMALLINT, vex.INTEGER, vex.BIGINT, vex.REAL, vex.DOUBLE:
		return true
	}
	return false
}

var (
	_ Vector  = (*Flat[int64])(nil)
	_ Builder = (*FlatBuilder[int64])(nil)
)
