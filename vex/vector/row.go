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

// Row represents an immutable sequence of rows with a fixed ordered set of
// named fields. A row is materialized only by reading the same position
// across every field vector. Row absence is stored on the Row vector itself,
// never inferred from its fields.
type Row struct {
	vector
	fields []Vector
}

// NewRow returns a row vector over position-aligned field vectors. The
// fields are retained; callers keep their own references.
func NewRow(typ *vex.RowType, length int, validity *memory.Buffer, fields []Vector, nulls int) *Row {
	debug.Assert(len(fields) == typ.NumFields(), "row field count mismatch")
	for _, f := range fields {
		debug.Assert(f.Len() == length, "row field length mismatch")
		f.Retain()
	}
	return &Row{vector: newVector(typ, length, validity, nulls), fields: fields}
}

func (r *Row) NumFields() int     { return len(r.fields) }
func (r *Row) Field(i int) Vector { return r.fields[i] }

func (r *Row) FieldByName(name string) (Vector, bool) {
	i, ok := r.typ.(*vex.RowType).FieldIdx(name)
	if !ok {
		return nil, false
	}
	return r.fields[i], true
}

func (r *Row) Release() {
	if r.vector.release() {
		for _, f := range r.fields {
			f.Release()
		}
		r.fields = nil
	}
}

func (r *Row) getOneForMarshal(i int) interface{} {
	if r.IsNull(i) {
		return nil
	}
	typ := r.typ.(*vex.RowType)
	o := make(map[string]interface{}, len(r.fields))
	for k, f := range r.fields {
		o[typ.Field(k).Name] = f.getOneForMarshal(i)
	}
	return o
}

func (r *Row) String() string { return vectorToString(r) }

func (r *Row) MarshalJSON() ([]byte, error) { return marshalVector(r) }

// RowBuilder builds row vectors. Field values are appended to the individual
// field builders; Append then commits the row's validity. Callers are
// responsible for keeping every field builder at the same length when using
// Append directly; AppendNull maintains alignment itself.
type RowBuilder struct {
	builder

	typ    *vex.RowType
	fields []Builder
}

func NewRowBuilder(mem memory.Allocator, typ *vex.RowType) *RowBuilder {
	fields := make([]Builder, typ.NumFields())
	for i, f := range typ.Fields() {
		fields[i] = NewBuilder(mem, f.Type)
	}
	return &RowBuilder{
		builder: builder{refCount: 1, mem: mem},
		typ:     typ,
		fields:  fields,
	}
}

func (b *RowBuilder) Type() vex.DataType { return b.typ }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
func (b *RowBuilder) Release() {
	b.builder.releaseInternal()
	for _, f := range b.fields {
		f.Release()
	}
}

func (b *RowBuilder) NumFields() int             { return len(b.fields) }
func (b *RowBuilder) FieldBuilder(i int) Builder { return b.fields[i] }

// Append commits the validity of the next row. When valid, every field
// builder must already hold a value for this position.
func (b *RowBuilder) Append(valid bool) {
	b.Reserve(1)
	b.unsafeAppendBoolToBitmap(valid)
}

// AppendNull appends a null row, appending a null to every field builder so
// field alignment is preserved.
func (b *RowBuilder) AppendNull() {
	for _, f := range b.fields {
		f.AppendNull()
	}
	b.Append(false)
}

// Reserve ensures there is enough space for appending n rows
// by checking the capacity and calling Resize if necessary.
func (b *RowBuilder) Reserve(n int) {
	b.builder.reserve(n, b.resizeHelper)
	for _, f := range b.fields {
		f.Reserve(n)
	}
}

// Resize adjusts the space allocated by b to n rows. If n is greater than
// b.Cap(), additional memory will be allocated. If n is smaller, the
// allocated memory may be reduced.
func (b *RowBuilder) Resize(n int) {
	b.resizeHelper(n)
	for _, f := range b.fields {
		f.Resize(n)
	}
}

func (b *RowBuilder) resizeHelper(n int) {
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}

	if b.capacity == 0 {
		b.builder.init(n)
	} else {
		b.builder.resize(n, b.builder.init)
	}
}

func (b *RowBuilder) NewVector() Vector { return b.NewRowVector() }

// NewRowVector creates a Row vector from the memory buffers used by the
// builder and resets the builder so it can be used to build a new vector.
func (b *RowBuilder) NewRowVector() *Row {
	fields := make([]Vector, len(b.fields))
	for i, f := range b.fields {
		debug.Assert(f.Len() == b.length, "row field builder out of alignment")
		fields[i] = f.NewVector()
	}

	r := NewRow(b.typ, b.length, b.finishBitmap(), fields, b.nulls)
	for _, f := range fields {
		f.Release()
	}
	b.builder.reset()
	return r
}

var (
	_ Vector  = (*Row)(nil)
	_ Builder = (*RowBuilder)(nil)
)
