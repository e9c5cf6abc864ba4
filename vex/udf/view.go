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

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/vector"
)

// ArrayView is a read-only typed handle over one array value: the elements
// of a single row position of an array column. Views never copy underlying
// bytes; they borrow the batch's vectors and must not outlive the batch.
type ArrayView struct {
	arr *vector.Array
	off int
	n   int
}

func newArrayView(arr *vector.Array, row int) ArrayView {
	return ArrayView{arr: arr, off: arr.ValueOffset(row), n: arr.ValueLen(row)}
}

// Len returns the number of elements in the array value.
func (v ArrayView) Len() int { return v.n }

// IsNull reports whether element i is null.
func (v ArrayView) IsNull(i int) bool {
	v.boundsCheck(i)
	return v.arr.Values().IsNull(v.off + i)
}

func (v ArrayView) Bool(i int) bool {
	v.boundsCheck(i)
	return v.arr.Values().(*vector.Bool).Value(v.off + i)
}

func (v ArrayView) Int8(i int) int8 {
	v.boundsCheck(i)
	return v.arr.Values().(*vector.Flat[int8]).Value(v.off + i)
}

func (v ArrayView) Int16(i int) int16 {
	v.boundsCheck(i)
	return v.arr.Values().(*vector.Flat[int16]).Value(v.off + i)
}

func (v ArrayView) Int32(i int) int32 {
	v.boundsCheck(i)
	return v.arr.Values().(*vector.Flat[int32]).Value(v.off + i)
}

func (v ArrayView) Int64(i int) int64 {
	v.boundsCheck(i)
	return v.arr.Values().(*vector.Flat[int64]).Value(v.off + i)
}

func (v ArrayView) Float32(i int) float32 {
	v.boundsCheck(i)
	return v.arr.Values().(*vector.Flat[float32]).Value(v.off + i)
}

func (v ArrayView) Float64(i int) float64 {
	v.boundsCheck(i)
	return v.arr.Values().(*vector.Flat[float64]).Value(v.off + i)
}

// Row returns a view over element i of an array-of-row value.
func (v ArrayView) Row(i int) RowView {
	v.boundsCheck(i)
	return RowView{row: v.arr.Values().(*vector.Row), idx: v.off + i}
}

// Array returns a view over element i of an array-of-array value.
func (v ArrayView) Array(i int) ArrayView {
	v.boundsCheck(i)
	return newArrayView(v.arr.Values().(*vector.Array), v.off+i)
}

func (v ArrayView) boundsCheck(i int) {
	if i < 0 || i >= v.n {
		panic(fmt.Errorf("%w: array view index %d with size %d", vex.ErrOutOfRange, i, v.n))
	}
}

// Elements returns a lazy forward iterator over the array elements. The
// sequence is finite and restartable: calling Elements again yields the
// same elements from the start.
func (v ArrayView) Elements() ElementIter { return ElementIter{v: v, i: -1} }

// ElementIter iterates the elements of an ArrayView in order.
//
//	for it := view.Elements(); it.Next(); {
//		sum += it.Int64()
//	}
type ElementIter struct {
	v ArrayView
	i int
}

// Next advances the iterator and reports whether an element is available.
func (it *ElementIter) Next() bool {
	it.i++
	return it.i < it.v.n
}

// Index returns the position of the current element.
func (it *ElementIter) Index() int { return it.i }

func (it *ElementIter) IsNull() bool     { return it.v.IsNull(it.i) }
func (it *ElementIter) Bool() bool       { return it.v.Bool(it.i) }
func (it *ElementIter) Int8() int8       { return it.v.Int8(it.i) }
func (it *ElementIter) Int16() int16     { return it.v.Int16(it.i) }
func (it *ElementIter) Int32() int32     { return it.v.Int32(it.i) }
func (it *ElementIter) Int64() int64     { return it.v.Int64(it.i) }
func (it *ElementIter) Float32() float32 { return it.v.Float32(it.i) }
func (it *ElementIter) Float64() float64 { return it.v.Float64(it.i) }
func (it *ElementIter) Row() RowView     { return it.v.Row(it.i) }
func (it *ElementIter) Array() ArrayView { return it.v.Array(it.i) }

// RowView is a read-only typed handle over one row value of a row column.
// Field accessors return the value and whether the field value is present;
// absence of a field value is not an error.
type RowView struct {
	row *vector.Row
	idx int
}

// NumFields returns the number of fields of the row type.
func (v RowView) NumFields() int { return v.row.NumFields() }

// FieldIdx returns the position of the named field.
func (v RowView) FieldIdx(name string) (int, bool) {
	return v.row.DataType().(*vex.RowType).FieldIdx(name)
}

func (v RowView) BoolAt(k int) (bool, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return false, false
	}
	return f.(*vector.Bool).Value(v.idx), true
}

func (v RowView) Int8At(k int) (int8, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return 0, false
	}
	return f.(*vector.Flat[int8]).Value(v.idx), true
}

func (v RowView) Int16At(k int) (int16, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return 0, false
	}
	return f.(*vector.Flat[int16]).Value(v.idx), true
}

func (v RowView) Int32At(k int) (int32, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return 0, false
	}
	return f.(*vector.Flat[int32]).Value(v.idx), true
}

func (v RowView) Int64At(k int) (int64, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return 0, false
	}
	return f.(*vector.Flat[int64]).Value(v.idx), true
}

func (v RowView) Float32At(k int) (float32, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return 0, false
	}
	return f.(*vector.Flat[float32]).Value(v.idx), true
}

func (v RowView) Float64At(k int) (float64, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return 0, false
	}
	return f.(*vector.Flat[float64]).Value(v.idx), true
}

// ArrayAt returns a view over an array-valued field.
func (v RowView) ArrayAt(k int) (ArrayView, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return ArrayView{}, false
	}
	return newArrayView(f.(*vector.Array), v.idx), true
}

// RowAt returns a view over a row-valued field.
func (v RowView) RowAt(k int) (RowView, bool) {
	f := v.field(k)
	if f.IsNull(v.idx) {
		return RowView{}, false
	}
	return RowView{row: f.(*vector.Row), idx: v.idx}, true
}

func (v RowView) field(k int) vector.Vector {
	if k < 0 || k >= v.row.NumFields() {
		panic(fmt.Errorf("%w: row view field %d of %d", vex.ErrOutOfRange, k, v.row.NumFields()))
	}
	return v.row.Field(k)
}
