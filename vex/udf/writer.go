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

package udf

import (
	"fmt"
	"math"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/vector"
)

// Writer is a mutable typed handle over the output column, bound by the
// driver to the currently active row. Concrete writers are *ScalarWriter,
// *ArrayWriter and *RowWriter; writers cannot be constructed outside the
// driver, so writing to a row the driver never activated is impossible.
//
// A writer session covers exactly one row: the driver resets the writer,
// invokes the function, and commits. When a session ends unsuccessfully the
// offsets/lengths of the bound row do not advance; child values appended
// during the failed session stay unreferenced in the child column and are
// reclaimed when the output is released.
type Writer interface {
	Type() vex.DataType

	reset()
	commit(valid bool)
}

func newWriter(dt vex.DataType, b vector.Builder) Writer {
	switch t := dt.(type) {
	case *vex.ArrayType:
		w := &ArrayWriter{typ: t, b: b.(*vector.ArrayBuilder)}
		if rt, ok := t.Elem().(*vex.RowType); ok {
			w.elemRow = rt
		}
		return w
	case *vex.RowType:
		return &RowWriter{typ: t, b: b.(*vector.RowBuilder), slots: make([]fieldSlot, t.NumFields())}
	}
	return &ScalarWriter{typ: dt, b: b}
}

// ScalarWriter writes one fixed-width value per row. Setting a value marks
// the row present; SetNull marks it absent. A session that sets nothing
// commits as absent.
type ScalarWriter struct {
	typ vex.DataType
	b   vector.Builder

	set  bool
	null bool
	bits uint64
}

func (w *ScalarWriter) Type() vex.DataType { return w.typ }

func (w *ScalarWriter) SetBool(v bool) {
	w.kindCheck(vex.BOOL)
	w.setBits(boolBits(v))
}
func (w *ScalarWriter) SetInt8(v int8)   { w.kindCheck(vex.TINYINT); w.setBits(uint64(v)) }
func (w *ScalarWriter) SetInt16(v int16) { w.kindCheck(vex.SMALLINT); w.setBits(uint64(v)) }
func (w *ScalarWriter) SetInt32(v int32) { w.kindCheck(vex.INTEGER); w.setBits(uint64(v)) }
func (w *ScalarWriter) SetInt64(v int64) { w.kindCheck(vex.BIGINT); w.setBits(uint64(v)) }
func (w *ScalarWriter) SetFloat32(v float32) {
	w.kindCheck(vex.REAL)
	w.setBits(uint64(math.Float32bits(v)))
}
func (w *ScalarWriter) SetFloat64(v float64) {
	w.kindCheck(vex.DOUBLE)
	w.setBits(math.Float64bits(v))
}

// SetNull marks the bound row absent.
func (w *ScalarWriter) SetNull() {
	w.set = true
	w.null = true
}

// SetNotNull marks the bound row present with the staged value (zero when
// no value was set).
func (w *ScalarWriter) SetNotNull() {
	w.set = true
	w.null = false
}

func (w *ScalarWriter) setBits(bits uint64) {
	w.bits = bits
	w.set = true
	w.null = false
}

func (w *ScalarWriter) kindCheck(k vex.Kind) {
	if w.typ.ID() != k {
		panic(fmt.Sprintf("vex/udf: cannot write %s into %s writer", k, w.typ))
	}
}

func (w *ScalarWriter) reset() {
	w.set = false
	w.null = false
	w.bits = 0
}

func (w *ScalarWriter) commit(valid bool) {
	if !valid || !w.set || w.null {
		w.b.AppendNull()
		return
	}
	appendScalarBits(w.b, w.typ.ID(), w.bits)
}

// ArrayWriter appends elements of one array value per row. Child values are
// appended to the shared child column immediately; the row's offset/length
// advance only when the session commits.
type ArrayWriter struct {
	typ     *vex.ArrayType
	b       *vector.ArrayBuilder
	elemRow *vex.RowType // non-nil when elements are rows

	start int
	n     int
	null  bool
}

func (w *ArrayWriter) Type() vex.DataType { return w.typ }

// Len returns the number of elements appended in the current session.
func (w *ArrayWriter) Len() int { return w.n }

// Reserve requests child capacity for at least n more elements. Growth is
// amortized; this is a hint, not a hard cap.
func (w *ArrayWriter) Reserve(n int) { w.b.ValueBuilder().Reserve(n) }

// SetNull marks the whole array value absent. Elements appended in this
// session are abandoned.
func (w *ArrayWriter) SetNull() { w.null = true }

func (w *ArrayWriter) AppendBool(v bool) {
	w.elemKindCheck(vex.BOOL)
	w.b.ValueBuilder().(*vector.BoolBuilder).Append(v)
	w.n++
}

func (w *ArrayWriter) AppendInt8(v int8) {
	w.elemKindCheck(vex.TINYINT)
	w.b.ValueBuilder().(*vector.FlatBuilder[int8]).Append(v)
	w.n++
}

func (w *ArrayWriter) AppendInt16(v int16) {
	w.elemKindCheck(vex.SMALLINT)
	w.b.ValueBuilder().(*vector.FlatBuilder[int16]).Append(v)
	w.n++
}

func (w *ArrayWriter) AppendInt32(v int32) {
	w.elemKindCheck(vex.INTEGER)
	w.b.ValueBuilder().(*vector.FlatBuilder[int32]).Append(v)
	w.n++
}

func (w *ArrayWriter) AppendInt64(v int64) {
	w.elemKindCheck(vex.BIGINT)
	w.b.ValueBuilder().(*vector.FlatBuilder[int64]).Append(v)
	w.n++
}

func (w *ArrayWriter) AppendFloat32(v float32) {
	w.elemKindCheck(vex.REAL)
	w.b.ValueBuilder().(*vector.FlatBuilder[float32]).Append(v)
	w.n++
}

func (w *ArrayWriter) AppendFloat64(v float64) {
	w.elemKindCheck(vex.DOUBLE)
	w.b.ValueBuilder().(*vector.FlatBuilder[float64]).Append(v)
	w.n++
}

// AppendNull appends one null element.
func (w *ArrayWriter) AppendNull() {
	w.b.ValueBuilder().AppendNull()
	w.n++
}

// AppendRowValues appends one full row's worth of field values as a single
// element of an array-of-row value. The append is atomic: every field column
// of the element row type grows together, so field alignment is preserved.
// A nil value leaves that field absent.
func (w *ArrayWriter) AppendRowValues(vals ...interface{}) {
	if w.elemRow == nil {
		panic(fmt.Sprintf("vex/udf: array writer for %v has no row elements", w.typ))
	}
	if len(vals) != w.elemRow.NumFields() {
		panic(fmt.Sprintf("vex/udf: array writer for %v given %d of %d field values",
			w.typ, len(vals), w.elemRow.NumFields()))
	}
	// Validate before touching any field builder so a bad value cannot
	// leave the element row partially appended.
	for k, v := range vals {
		checkScalarValue(w.elemRow.Field(k).Type.ID(), v)
	}

	rb := w.b.ValueBuilder().(*vector.RowBuilder)
	for k, v := range vals {
		appendScalarValue(rb.FieldBuilder(k), w.elemRow.Field(k).Type.ID(), v)
	}
	rb.Append(true)
	w.n++
}

func (w *ArrayWriter) elemKindCheck(k vex.Kind) {
	if w.typ.Elem().ID() != k {
		panic(fmt.Sprintf("vex/udf: cannot append %s into %v writer", k, w.typ))
	}
}

func (w *ArrayWriter) reset() {
	w.start = w.b.ValueBuilder().Len()
	w.n = 0
	w.null = false
}

func (w *ArrayWriter) commit(valid bool) {
	if !valid || w.null {
		w.b.AppendNull()
		return
	}
	w.b.Append(int32(w.start), int32(w.n))
}

// RowWriter writes one row value per session, field by field or as a whole
// tuple. Field values are staged in the writer and flushed to the field
// columns only at commit, so a failed session can never desynchronize
// fields. Fields not written commit as absent.
type RowWriter struct {
	typ *vex.RowType
	b   *vector.RowBuilder

	slots []fieldSlot
	null  bool
}

type fieldSlot struct {
	set  bool
	null bool
	bits uint64
	arr  *ArrayWriter // for array-valued fields
}

func (w *RowWriter) Type() vex.DataType { return w.typ }

func (w *RowWriter) NumFields() int { return w.typ.NumFields() }

// Set assigns the whole tuple at once, one value per field in declaration
// order. A nil value leaves that field absent.
func (w *RowWriter) Set(vals ...interface{}) {
	if len(vals) != w.typ.NumFields() {
		panic(fmt.Sprintf("vex/udf: row writer for %v given %d of %d field values",
			w.typ, len(vals), w.typ.NumFields()))
	}
	for k, v := range vals {
		checkScalarValue(w.typ.Field(k).Type.ID(), v)
	}
	for k, v := range vals {
		if v == nil {
			w.SetNullAt(k)
			continue
		}
		w.slots[k] = fieldSlot{set: true, bits: scalarValueBits(w.typ.Field(k).Type.ID(), v)}
	}
	w.null = false
}

func (w *RowWriter) SetBoolAt(k int, v bool) { w.setScalarAt(k, vex.BOOL, boolBits(v)) }
func (w *RowWriter) SetInt8At(k int, v int8) { w.setScalarAt(k, vex.TINYINT, uint64(v)) }
func (w *RowWriter) SetInt16At(k int, v int16) {
	w.setScalarAt(k, vex.SMALLINT, uint64(v))
}
func (w *RowWriter) SetInt32At(k int, v int32) {
	w.setScalarAt(k, vex.INTEGER, uint64(v))
}
func (w *RowWriter) SetInt64At(k int, v int64) {
	w.setScalarAt(k, vex.BIGINT, uint64(v))
}
func (w *RowWriter) SetFloat32At(k int, v float32) {
	w.setScalarAt(k, vex.REAL, uint64(math.Float32bits(v)))
}
func (w *RowWriter) SetFloat64At(k int, v float64) {
	w.setScalarAt(k, vex.DOUBLE, math.Float64bits(v))
}

// SetNullAt explicitly leaves field k absent.
func (w *RowWriter) SetNullAt(k int) {
	w.fieldCheck(k)
	w.slots[k] = fieldSlot{set: true, null: true}
}

// SetNull marks the whole row value absent. Absence is recorded on the row
// column itself; staged field values are abandoned.
func (w *RowWriter) SetNull() { w.null = true }

// ArrayAt returns a writer for an array-valued field. The field commits
// together with the row session.
func (w *RowWriter) ArrayAt(k int) *ArrayWriter {
	w.fieldCheck(k)
	ft, ok := w.typ.Field(k).Type.(*vex.ArrayType)
	if !ok {
		panic(fmt.Sprintf("vex/udf: field %d of %v is not an array", k, w.typ))
	}
	if w.slots[k].arr == nil {
		aw := newWriter(ft, w.b.FieldBuilder(k)).(*ArrayWriter)
		aw.reset()
		w.slots[k] = fieldSlot{set: true, arr: aw}
	}
	return w.slots[k].arr
}

func (w *RowWriter) setScalarAt(k int, kind vex.Kind, bits uint64) {
	w.fieldCheck(k)
	if w.typ.Field(k).Type.ID() != kind {
		panic(fmt.Sprintf("vex/udf: cannot write %s into field %d of %v", kind, k, w.typ))
	}
	w.slots[k] = fieldSlot{set: true, bits: bits}
}

func (w *RowWriter) fieldCheck(k int) {
	if k < 0 || k >= len(w.slots) {
		panic(fmt.Errorf("%w: row writer field %d of %d", vex.ErrOutOfRange, k, len(w.slots)))
	}
}

func (w *RowWriter) reset() {
	for k := range w.slots {
		w.slots[k] = fieldSlot{}
	}
	w.null = false
}

func (w *RowWriter) commit(valid bool) {
	if !valid || w.null {
		w.b.AppendNull()
		return
	}
	for k := range w.slots {
		slot := &w.slots[k]
		fb := w.b.FieldBuilder(k)
		switch {
		case slot.arr != nil:
			slot.arr.commit(true)
		case slot.set && !slot.null:
			appendScalarBits(fb, w.typ.Field(k).Type.ID(), slot.bits)
		default:
			fb.AppendNull()
		}
	}
	w.b.Append(true)
}

func appendScalarBits(b vector.Builder, k vex.Kind, bits uint64) {
	switch k {
	case vex.BOOL:
		b.(*vector.BoolBuilder).Append(bits != 0)
	case vex.TINYINT:
		b.(*vector.FlatBuilder[int8]).Append(int8(bits))
	case vex.SMALLINT:
		b.(*vector.FlatBuilder[int16]).Append(int16(bits))
	case vex.INTEGER:
		b.(*vector.FlatBuilder[int32]).Append(int32(bits))
	case vex.BIGINT:
		b.(*vector.FlatBuilder[int64]).Append(int64(bits))
	case vex.REAL:
		b.(*vector.FlatBuilder[float32]).Append(math.Float32frombits(uint32(bits)))
	case vex.DOUBLE:
		b.(*vector.FlatBuilder[float64]).Append(math.Float64frombits(bits))
	default:
		panic(fmt.Sprintf("vex/udf: no scalar storage for kind %s", k))
	}
}

func appendScalarValue(b vector.Builder, k vex.Kind, v interface{}) {
	if v == nil {
		b.AppendNull()
		return
	}
	appendScalarBits(b, k, scalarValueBits(k, v))
}

// checkScalarValue panics when v cannot be stored as kind k. nil is valid
// for every kind and stores an absent value.
func checkScalarValue(k vex.Kind, v interface{}) {
	if v == nil {
		return
	}
	if _, ok := tryScalarValueBits(k, v); !ok {
		panic(fmt.Sprintf("vex/udf: cannot store %T as %s", v, k))
	}
}

func scalarValueBits(k vex.Kind, v interface{}) uint64 {
	bits, ok := tryScalarValueBits(k, v)
	if !ok {
		panic(fmt.Sprintf("vex/udf: cannot store %T as %s", v, k))
	}
	return bits
}

func tryScalarValueBits(k vex.Kind, v interface{}) (uint64, bool) {
	switch k {
	case vex.BOOL:
		if x, ok := v.(bool); ok {
			return boolBits(x), true
		}
	case vex.TINYINT:
		if x, ok := v.(int8); ok {
			return uint64(x), true
		}
	case vex.SMALLINT:
		if x, ok := v.(int16); ok {
			return uint64(x), true
		}
	case vex.INTEGER:
		if x, ok := v.(int32); ok {
			return uint64(x), true
		}
	case vex.BIGINT:
		if x, ok := v.(int64); ok {
			return uint64(x), true
		}
	case vex.REAL:
		if x, ok := v.(float32); ok {
			return uint64(math.Float32bits(x)), true
		}
	case vex.DOUBLE:
		if x, ok := v.(float64); ok {
			return math.Float64bits(x), true
		}
	}
	return 0, false
}

func boolBits(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

var (
	_ Writer = (*ScalarWriter)(nil)
	_ Writer = (*ArrayWriter)(nil)
	_ Writer = (*RowWriter)(nil)
)
