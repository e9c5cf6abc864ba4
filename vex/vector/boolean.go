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
	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vexlabs/vex-go/vex"
)

// Bool represents an immutable sequence of boolean values, bit-packed.
type Bool struct {
	vector
	values *memory.Buffer
}

func NewBool(length int, values, validity *memory.Buffer, nulls int) *Bool {
	v := &Bool{vector: newVector(vex.Boolean, length, validity, nulls)}
	if values != nil {
		values.Retain()
		v.values = values
	}
	return v
}

// Value returns the stored value at row position i. The result is undefined
// when the position is null; check IsNull first.
func (v *Bool) Value(i int) bool { return bitutil.BitIsSet(v.values.Bytes(), i) }

func (v *Bool) Release() {
	if v.vector.release() {
		if v.values != nil {
			v.values.Release()
			v.values = nil
		}
	}
}

func (v *Bool) getOneForMarshal(i int) interface{} {
	if v.IsNull(i) {
		return nil
	}
	return v.Value(i)
}

func (v *Bool) String() string { return vectorToString(v) }

func (v *Bool) MarshalJSON() ([]byte, error) { return marshalVector(v) }

// BoolBuilder builds bit-packed boolean vectors.
type BoolBuilder struct {
	builder

	data    *memory.Buffer
	rawData []byte
}

func NewBoolBuilder(mem memory.Allocator) *BoolBuilder {
	return &BoolBuilder{builder: builder{refCount: 1, mem: mem}}
}

func (b *BoolBuilder) Type() vex.DataType { return vex.Boolean }

func (b *BoolBuilder) Release() {
	if b.builder.releaseInternal() {
		if b.data != nil {
			b.data.Release()
			b.data = nil
			b.rawData = nil
		}
	}
}

func (b *BoolBuilder) Append(v bool) {
	b.Reserve(1)
	b.UnsafeAppend(v)
}

func (b *BoolBuilder) UnsafeAppend(v bool) {
	bitutil.SetBit(b.nullBitmap.Bytes(), b.length)
	if v {
		bitutil.SetBit(b.rawData, b.length)
	} else {
		bitutil.ClearBit(b.rawData, b.length)
	}
	b.length++
}

func (b *BoolBuilder) AppendNull() {
	b.Reserve(1)
	bitutil.ClearBit(b.rawData, b.length)
	b.unsafeAppendBoolToBitmap(false)
}

func (b *BoolBuilder) init(capacity int) {
	b.builder.init(capacity)

	b.data = memory.NewResizableBuffer(b.mem)
	b.data.Resize(bitutil.CeilByte(capacity) / 8)
	b.rawData = b.data.Buf()
	memory.Set(b.rawData, 0)
}

// Reserve ensures there is enough space for appending n elements
// by checking the capacity and calling Resize if necessary.
func (b *BoolBuilder) Reserve(n int) {
	b.builder.reserve(n, b.Resize)
}

// Resize adjusts the space allocated by b to n elements. If n is greater than
// b.Cap(), additional memory will be allocated. If n is smaller, the allocated
// memory may be reduced.
func (b *BoolBuilder) Resize(n int) {
	nBuilder := n
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}

	if b.capacity == 0 {
		b.init(n)
	} else {
		b.builder.resize(nBuilder, b.init)
		oldBytesN := b.data.Len()
		b.data.Resize(bitutil.CeilByte(n) / 8)
		b.rawData = b.data.Buf()
		if oldBytesN < b.data.Len() {
			memory.Set(b.rawData[oldBytesN:], 0)
		}
	}
}

func (b *BoolBuilder) NewVector() Vector { return b.NewBoolVector() }

// NewBoolVector creates a Bool vector from the memory buffers used by the
// builder and resets the builder so it can be used to build a new vector.
func (b *BoolBuilder) NewBoolVector() *Bool {
	if b.data != nil {
		b.data.Resize(bitutil.CeilByte(b.length) / 8)
	}
	v := NewBool(b.length, b.data, b.finishBitmap(), b.nulls)
	if b.data != nil {
		b.data.Release()
		b.data = nil
		b.rawData = nil
	}
	b.builder.reset()
	return v
}

var (
	_ Vector  = (*Bool)(nil)
	_ Builder = (*BoolBuilder)(nil)
)
