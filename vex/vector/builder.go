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
	"fmt"
	"sync/atomic"

	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/internal/debug"
)

const (
	minBuilderCapacity = 1 << 5
)

// Builder provides an interface to build vectors incrementally. Appends are
// position-ordered; growth is amortized and never truncates silently.
type Builder interface {
	// Retain increases the reference count by 1.
	// Retain may be called simultaneously from multiple goroutines.
	Retain()
	// Release decreases the reference count by 1.
	Release()

	// Type returns the datatype that this is building.
	Type() vex.DataType

	// Len returns the number of elements in the vector builder.
	Len() int
	// Cap returns the total number of elements that can be stored
	// without allocating additional memory.
	Cap() int
	// NullN returns the number of null values in the vector builder.
	NullN() int

	// AppendNull adds a new null value to the vector being built.
	AppendNull()

	// Reserve ensures there is enough space for appending n elements
	// by checking the capacity and resizing the memory appropriately.
	Reserve(n int)
	// Resize adjusts the space allocated by b to n elements. If n is greater
	// than b.Cap(), additional memory will be allocated. If n is smaller,
	// the allocated memory may be reduced.
	Resize(n int)

	// NewVector creates a new vector from the memory buffers used by the
	// builder and resets the builder so it can be used to build a new vector.
	NewVector() Vector
}

type builder struct {
	refCount   int64
	mem        memory.Allocator
	nullBitmap *memory.Buffer
	nulls      int
	length     int
	capacity   int
}

func (b *builder) Len() int   { return b.length }
func (b *builder) Cap() int   { return b.capacity }
func (b *builder) NullN() int { return b.nulls }

// Retain increases the reference count by 1.
func (b *builder) Retain() { atomic.AddInt64(&b.refCount, 1) }

func (b *builder) releaseInternal() bool {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")
	if atomic.AddInt64(&b.refCount, -1) != 0 {
		return false
	}
	if b.nullBitmap != nil {
		b.nullBitmap.Release()
		b.nullBitmap = nil
	}
	return true
}

func (b *builder) init(capacity int) {
	toAlloc := bitutil.CeilByte(capacity) / 8
	b.nullBitmap = memory.NewResizableBuffer(b.mem)
	b.nullBitmap.Resize(toAlloc)
	b.capacity = capacity
	memory.Set(b.nullBitmap.Buf(), 0)
}

func (b *builder) reset() {
	if b.nullBitmap != nil {
		b.nullBitmap.Release()
		b.nullBitmap = nil
	}
	b.nulls = 0
	b.length = 0
	b.capacity = 0
}

func (b *builder) resize(newBits int, init func(int)) {
	if b.nullBitmap == nil {
		init(newBits)
		return
	}

	newBytesN := bitutil.CeilByte(newBits) / 8
	oldBytesN := b.nullBitmap.Len()
	b.nullBitmap.Resize(newBytesN)
	b.capacity = newBits
	if oldBytesN < newBytesN {
		memory.Set(b.nullBitmap.Buf()[oldBytesN:], 0)
	}
	if newBits < b.length {
		b.length = newBits
		b.nulls = newBits - bitutil.CountSetBits(b.nullBitmap.Buf(), 0, newBits)
	}
}

func (b *builder) reserve(elements int, resize func(int)) {
	if b.nullBitmap == nil {
		b.nullBitmap = memory.NewResizableBuffer(b.mem)
	}
	if b.length+elements > b.capacity {
		newCap := bitutil.NextPowerOf2(b.length + elements)
		resize(newCap)
	}
}

// unsafeAppendBoolToBitmap appends the validity of the next value.
// The caller must ensure there is enough space in the bitmap.
func (b *builder) unsafeAppendBoolToBitmap(isValid bool) {
	if isValid {
		bitutil.SetBit(b.nullBitmap.Bytes(), b.length)
	} else {
		b.nulls++
	}
	b.length++
}

// finishBitmap detaches the validity bitmap for the produced vector.
// Returns nil when no null was appended, so readers can skip bitmap checks.
func (b *builder) finishBitmap() *memory.Buffer {
	if b.nulls == 0 {
		return nil
	}
	return b.nullBitmap
}

// NewBuilder returns a builder for the given data type. It panics for types
// without a buildable storage shape; the udf resolver screens those out at
// registration time.
func NewBuilder(mem memory.Allocator, dtype vex.DataType) Builder {
	switch dtype.ID() {
	case vex.BOOL:
		return NewBoolBuilder(mem)
	case vex.TINYINT:
		return NewFlatBuilder[int8](mem, dtype)
	case vex.SMALLINT:
		return NewFlatBuilder[int16](mem, dtype)
	case vex.INTEGER:
		return NewFlatBuilder[int32](mem, dtype)
	case vex.BIGINT:
		return NewFlatBuilder[int64](mem, dtype)
	case vex.REAL:
		return NewFlatBuilder[float32](mem, dtype)
	case vex.DOUBLE:
		return NewFlatBuilder[float64](mem, dtype)
	case vex.ARRAY:
		return NewArrayBuilder(mem, dtype.(*vex.ArrayType))
	case vex.ROW:
		return NewRowBuilder(mem, dtype.(*vex.RowType))
	}
	panic(fmt.Errorf("vex/vector: unsupported data type %v", dtype))
}
