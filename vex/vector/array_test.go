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

package vector_test

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/vector"
)

func TestArrayBuilder(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := vector.NewArrayBuilder(mem, vex.ArrayOf(vex.Bigint))
	defer b.Release()
	vb := b.ValueBuilder().(*vector.FlatBuilder[int64])

	// [0 1 2 4], [99 98], null, []
	vb.AppendValues([]int64{0, 1, 2, 4}, nil)
	b.Append(0, 4)
	vb.AppendValues([]int64{99, 98}, nil)
	b.Append(4, 2)
	b.AppendNull()
	b.Append(6, 0)

	v := b.NewArrayVector()
	defer v.Release()

	require.Equal(t, 4, v.Len())
	assert.Equal(t, 1, v.NullN())

	assert.Equal(t, 0, v.ValueOffset(0))
	assert.Equal(t, 4, v.ValueLen(0))
	assert.Equal(t, 4, v.ValueOffset(1))
	assert.Equal(t, 2, v.ValueLen(1))
	assert.True(t, v.IsNull(2))

	// An empty array value is present, distinct from null.
	assert.True(t, v.IsValid(3))
	assert.Zero(t, v.ValueLen(3))

	child := v.Values().(*vector.Flat[int64])
	assert.Equal(t, []int64{0, 1, 2, 4, 99, 98}, child.Values())

	assert.Equal(t, "[[0,1,2,4],[99,98],null,[]]", v.String())
}

func TestArrayUnreferencedChildGaps(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	// Child values appended but never referenced by a committed row are
	// legal leftovers; readers never observe them.
	b := vector.NewArrayBuilder(mem, vex.ArrayOf(vex.Bigint))
	defer b.Release()
	vb := b.ValueBuilder().(*vector.FlatBuilder[int64])

	vb.AppendValues([]int64{1, 2}, nil)
	b.Append(0, 2)
	vb.AppendValues([]int64{7, 7, 7}, nil) // abandoned
	vb.AppendValues([]int64{3}, nil)
	b.Append(5, 1)

	withGap := b.NewArrayVector()
	defer withGap.Release()

	vb = b.ValueBuilder().(*vector.FlatBuilder[int64])
	vb.AppendValues([]int64{1, 2}, nil)
	b.Append(0, 2)
	vb.AppendValues([]int64{3}, nil)
	b.Append(2, 1)

	dense := b.NewArrayVector()
	defer dense.Release()

	assert.Equal(t, 6, withGap.Values().Len())
	assert.Equal(t, 3, dense.Values().Len())
	assert.True(t, vector.Equal(withGap, dense))
}

func TestArrayOfArray(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := vector.NewArrayBuilder(mem, vex.ArrayOf(vex.ArrayOf(vex.Integer)))
	defer b.Release()
	inner := b.ValueBuilder().(*vector.ArrayBuilder)
	leaf := inner.ValueBuilder().(*vector.FlatBuilder[int32])

	// [[1 2] [3]], [[]]
	leaf.AppendValues([]int32{1, 2}, nil)
	inner.Append(0, 2)
	leaf.AppendValues([]int32{3}, nil)
	inner.Append(2, 1)
	b.Append(0, 2)
	inner.Append(3, 0)
	b.Append(2, 1)

	v := b.NewArrayVector()
	defer v.Release()

	require.Equal(t, 2, v.Len())
	assert.Equal(t, "[[[1,2],[3]],[[]]]", v.String())
}

func TestArrayEqualAcrossLayouts(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := vector.NewArrayBuilder(mem, vex.ArrayOf(vex.Bigint))
	defer b.Release()
	vb := b.ValueBuilder().(*vector.FlatBuilder[int64])

	// Same logical rows, committed in reverse child order.
	vb.AppendValues([]int64{101, 42}, nil)
	vb.AppendValues([]int64{99, 98}, nil)
	b.Append(2, 2)
	b.Append(0, 2)
	left := b.NewArrayVector()
	defer left.Release()

	vb = b.ValueBuilder().(*vector.FlatBuilder[int64])
	vb.AppendValues([]int64{99, 98}, nil)
	vb.AppendValues([]int64{101, 42}, nil)
	b.Append(0, 2)
	b.Append(2, 2)
	right := b.NewArrayVector()
	defer right.Release()

	assert.True(t, vector.Equal(left, right))
	assert.True(t, vector.SlotEqual(left, 0, right, 0))
	assert.False(t, vector.SlotEqual(left, 0, right, 1))
}
