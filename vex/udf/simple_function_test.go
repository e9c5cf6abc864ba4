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

package udf_test

import (
	"context"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/udf"
	"github.com/vexlabs/vex-go/vex/vector"
)

var (
	arrayData = [][]int64{
		{0, 1, 2, 4},
		{99, 98},
		{101, 42},
		{10001, 12345676},
	}
	rowVectorCol1 = []int64{0, 22, 44, 55, 99, 101, 9, 0}
	rowVectorCol2 = []float64{9.1, 22.4, 44.55, 99.9, 1.01, 9.8, 10001.1, 0.1}
)

func buildArrayData(t *testing.T, mem memory.Allocator) *vector.Array {
	t.Helper()
	b := vector.NewArrayBuilder(mem, vex.ArrayOf(vex.Bigint))
	defer b.Release()
	vb := b.ValueBuilder().(*vector.FlatBuilder[int64])
	for _, row := range arrayData {
		off := int32(vb.Len())
		vb.AppendValues(row, nil)
		b.Append(off, int32(len(row)))
	}
	return b.NewArrayVector()
}

func buildRowData(t *testing.T, mem memory.Allocator) *vector.Row {
	t.Helper()
	typ := vex.RowOf(
		vex.Field{Name: "n", Type: vex.Bigint},
		vex.Field{Name: "x", Type: vex.Double},
	)
	b := vector.NewRowBuilder(mem, typ)
	defer b.Release()
	for i := range rowVectorCol1 {
		b.FieldBuilder(0).(*vector.FlatBuilder[int64]).Append(rowVectorCol1[i])
		b.FieldBuilder(1).(*vector.FlatBuilder[float64]).Append(rowVectorCol2[i])
		b.Append(true)
	}
	return b.NewRowVector()
}

func TestArrayWriterFunction(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	reg := udf.NewRegistry()
	_, err := reg.RegisterArray("sequence3", vex.ArrayOf(vex.Bigint),
		[]vex.DataType{vex.Bigint},
		func(out *udf.ArrayWriter, args *udf.Args) bool {
			v := args.Int64(0)
			out.Reserve(3)
			for k := int64(0); k < 3; k++ {
				out.AppendInt64(v + k)
			}
			return true
		})
	require.NoError(t, err)

	col := bigintColumn(mem, []int64{0, 10, 20}, nil)
	defer col.Release()
	batch := vector.NewBatch([]vector.Vector{col})
	defer batch.Release()

	out, err := udf.Evaluate(context.Background(), mem, reg, "sequence3(c0)", batch)
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, "[[0,1,2],[10,11,12],[20,21,22]]", out.String())
}

func TestArrayReaderFunction(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	reg := udf.NewRegistry()
	_, err := reg.RegisterScalar("array_sum", vex.Bigint,
		[]vex.DataType{vex.ArrayOf(vex.Bigint)},
		func(out *udf.ScalarWriter, args *udf.Args) bool {
			var sum int64
			for it := args.Array(0).Elements(); it.Next(); {
				if it.IsNull() {
					continue
				}
				sum += it.Int64()
			}
			out.SetInt64(sum)
			return true
		})
	require.NoError(t, err)

	arr := buildArrayData(t, mem)
	defer arr.Release()
	batch := vector.NewBatch([]vector.Vector{arr})
	defer batch.Release()

	out, err := udf.Evaluate(context.Background(), mem, reg, "array_sum(c0)", batch)
	require.NoError(t, err)
	defer out.Release()

	want := bigintColumn(mem, []int64{7, 197, 143, 12355677}, nil)
	defer want.Release()
	assert.True(t, vector.Equal(want, out), "got %v want %v", out, want)
}

func TestArrayViewIndexedAccess(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	reg := udf.NewRegistry()
	_, err := reg.RegisterScalar("array_first", vex.Bigint,
		[]vex.DataType{vex.ArrayOf(vex.Bigint)},
		func(out *udf.ScalarWriter, args *udf.Args) bool {
			view := args.Array(0)
			if view.Len() == 0 || view.IsNull(0) {
				return false
			}
			out.SetInt64(view.Int64(0))
			return true
		})
	require.NoError(t, err)

	arr := buildArrayData(t, mem)
	defer arr.Release()
	batch := vector.NewBatch([]vector.Vector{arr})
	defer batch.Release()

	out, err := udf.Evaluate(context.Background(), mem, reg, "array_first(c0)", batch)
	require.NoError(t, err)
	defer out.Release()

	want := bigintColumn(mem, []int64{0, 99, 101, 10001}, nil)
	defer want.Release()
	assert.True(t, vector.Equal(want, out), "got %v want %v", out, want)
}

func TestRowWriterFunction(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	retType := vex.RowOf(
		vex.Field{Name: "n", Type: vex.Bigint},
		vex.Field{Name: "x", Type: vex.Double},
	)
	reg := udf.NewRegistry()
	_, err := reg.RegisterRow("make_pair", retType,
		[]vex.DataType{vex.Bigint, vex.Double},
		func(out *udf.RowWriter, args *udf.Args) bool {
			out.Set(args.Int64(0), args.Float64(1))
			return true
		})
	require.NoError(t, err)

	c0 := bigintColumn(mem, rowVectorCol1, nil)
	defer c0.Release()
	c1b := vector.NewFlatBuilder[float64](mem, vex.Double)
	c1b.AppendValues(rowVectorCol2, nil)
	c1 := c1b.NewVector()
	c1b.Release()
	defer c1.Release()

	batch := vector.NewBatch([]vector.Vector{c0, c1})
	defer batch.Release()

	out, err := udf.Evaluate(context.Background(), mem, reg, "make_pair(c0, c1)", batch)
	require.NoError(t, err)
	defer out.Release()

	want := buildRowData(t, mem)
	defer want.Release()
	assert.True(t, vector.Equal(want, out), "got %v want %v", out, want)
}

func TestRowReaderFunction(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rowType := vex.RowOf(
		vex.Field{Name: "n", Type: vex.Bigint},
		vex.Field{Name: "x", Type: vex.Double},
	)
	reg := udf.NewRegistry()
	_, err := reg.RegisterScalar("pair_first", vex.Bigint,
		[]vex.DataType{rowType},
		func(out *udf.ScalarWriter, args *udf.Args) bool {
			view := args.Row(0)
			k, ok := view.FieldIdx("n")
			if !ok {
				return false
			}
			v, ok := view.Int64At(k)
			if !ok {
				return false
			}
			out.SetInt64(v)
			return true
		})
	require.NoError(t, err)

	rows := buildRowData(t, mem)
	defer rows.Release()
	batch := vector.NewBatch([]vector.Vector{rows})
	defer batch.Release()

	out, err := udf.Evaluate(context.Background(), mem, reg, "pair_first(c0)", batch)
	require.NoError(t, err)
	defer out.Release()

	want := bigintColumn(mem, rowVectorCol1, nil)
	defer want.Release()
	assert.True(t, vector.Equal(want, out), "got %v want %v", out, want)
}

func TestArrayRowWriterFunction(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	retType := vex.ArrayOf(vex.RowOfTypes(vex.Integer, vex.Integer))
	reg := udf.NewRegistry()
	_, err := reg.RegisterArray("triple_pair", retType,
		[]vex.DataType{vex.Integer},
		func(out *udf.ArrayWriter, args *udf.Args) bool {
			v := args.Int32(0)
			for k := 0; k < 3; k++ {
				out.AppendRowValues(v, v+1)
			}
			return true
		})
	require.NoError(t, err)

	cb := vector.NewFlatBuilder[int32](mem, vex.Integer)
	cb.AppendValues([]int32{22, 5}, nil)
	col := cb.NewVector()
	cb.Release()
	defer col.Release()

	batch := vector.NewBatch([]vector.Vector{col})
	defer batch.Release()

	out, err := udf.Evaluate(context.Background(), mem, reg, "triple_pair(c0)", batch)
	require.NoError(t, err)
	defer out.Release()

	arr := out.(*vector.Array)
	require.Equal(t, 2, arr.Len())
	assert.Equal(t, 3, arr.ValueLen(0))
	assert.Equal(t,
		`[[{"f0":22,"f1":23},{"f0":22,"f1":23},{"f0":22,"f1":23}],`+
			`[{"f0":5,"f1":6},{"f0":5,"f1":6},{"f0":5,"f1":6}]]`,
		arr.String())
}

func TestArrayRowReaderFunction(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	reg := udf.NewRegistry()
	_, err := reg.RegisterArray("triple_pair", vex.ArrayOf(vex.RowOfTypes(vex.Integer, vex.Integer)),
		[]vex.DataType{vex.Integer},
		func(out *udf.ArrayWriter, args *udf.Args) bool {
			v := args.Int32(0)
			for k := 0; k < 3; k++ {
				out.AppendRowValues(v, v+1)
			}
			return true
		})
	require.NoError(t, err)

	_, err = reg.RegisterScalar("sum_first_fields", vex.Bigint,
		[]vex.DataType{vex.ArrayOf(vex.RowOfTypes(vex.Integer, vex.Integer))},
		func(out *udf.ScalarWriter, args *udf.Args) bool {
			var sum int64
			for it := args.Array(0).Elements(); it.Next(); {
				if v, ok := it.Row().Int32At(0); ok {
					sum += int64(v)
				}
			}
			out.SetInt64(sum)
			return true
		})
	require.NoError(t, err)

	cb := vector.NewFlatBuilder[int32](mem, vex.Integer)
	cb.AppendValues([]int32{22}, nil)
	col := cb.NewVector()
	cb.Release()
	defer col.Release()

	batch := vector.NewBatch([]vector.Vector{col})
	defer batch.Release()

	// Three copies of 22 sum to 66.
	out, err := udf.Evaluate(context.Background(), mem, reg,
		"sum_first_fields(triple_pair(c0))", batch)
	require.NoError(t, err)
	defer out.Release()

	want := bigintColumn(mem, []int64{66}, nil)
	defer want.Release()
	assert.True(t, vector.Equal(want, out), "got %v want %v", out, want)
}

func TestDatasetLookup(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	// Each row carries a key and a small keyed dataset; the function scans
	// the dataset for the key and returns the associated measure.
	entry := vex.RowOf(
		vex.Field{Name: "key", Type: vex.Bigint},
		vex.Field{Name: "measure", Type: vex.Double},
	)
	reg := udf.NewRegistry()
	_, err := reg.RegisterScalar("lookup", vex.Double,
		[]vex.DataType{vex.Bigint, vex.ArrayOf(entry)},
		func(out *udf.ScalarWriter, args *udf.Args) bool {
			key := args.Int64(0)
			for it := args.Array(1).Elements(); it.Next(); {
				row := it.Row()
				if k, ok := row.Int64At(0); ok && k == key {
					if m, ok := row.Float64At(1); ok {
						out.SetFloat64(m)
						return true
					}
				}
			}
			return false
		})
	require.NoError(t, err)

	keysB := vector.NewFlatBuilder[int64](mem, vex.Bigint)
	keysB.AppendValues([]int64{22, 7}, nil)
	keys := keysB.NewVector()
	keysB.Release()
	defer keys.Release()

	dsB := vector.NewArrayBuilder(mem, vex.ArrayOf(entry))
	rb := dsB.ValueBuilder().(*vector.RowBuilder)
	appendEntry := func(k int64, m float64) {
		rb.FieldBuilder(0).(*vector.FlatBuilder[int64]).Append(k)
		rb.FieldBuilder(1).(*vector.FlatBuilder[float64]).Append(m)
		rb.Append(true)
	}
	appendEntry(11, 1.5)
	appendEntry(22, 2.5)
	dsB.Append(0, 2)
	appendEntry(33, 3.5)
	dsB.Append(2, 1)
	ds := dsB.NewArrayVector()
	dsB.Release()
	defer ds.Release()

	batch := vector.NewBatch([]vector.Vector{keys, ds}, "key", "dataset")
	defer batch.Release()

	out, err := udf.Evaluate(context.Background(), mem, reg, "lookup(key, dataset)", batch)
	require.NoError(t, err)
	defer out.Release()

	res := out.(*vector.Flat[float64])
	require.Equal(t, 2, res.Len())
	assert.Equal(t, 2.5, res.Value(0))
	assert.True(t, res.IsNull(1))
}
