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

package vex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlabs/vex-go/vex"
)

func TestPrimitiveTypes(t *testing.T) {
	tests := []struct {
		typ      vex.DataType
		id       vex.Kind
		name     string
		bitWidth int
	}{
		{vex.Boolean, vex.BOOL, "boolean", 1},
		{vex.Tinyint, vex.TINYINT, "tinyint", 8},
		{vex.Smallint, vex.SMALLINT, "smallint", 16},
		{vex.Integer, vex.INTEGER, "integer", 32},
		{vex.Bigint, vex.BIGINT, "bigint", 64},
		{vex.Real, vex.REAL, "real", 32},
		{vex.Double, vex.DOUBLE, "double", 64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.id, tc.typ.ID())
			assert.Equal(t, tc.name, tc.typ.Name())
			assert.Equal(t, tc.name, tc.typ.String())
			assert.Equal(t, tc.bitWidth, tc.typ.(vex.FixedWidthDataType).BitWidth())
		})
	}
}

func TestTypeEqual(t *testing.T) {
	tests := []struct {
		left, right vex.DataType
		want        bool
	}{
		{nil, nil, true},
		{vex.Bigint, nil, false},
		{vex.Bigint, vex.Bigint, true},
		{vex.Bigint, vex.Integer, false},
		{vex.Real, vex.Double, false},
		{vex.ArrayOf(vex.Bigint), vex.ArrayOf(vex.Bigint), true},
		{vex.ArrayOf(vex.Bigint), vex.ArrayOf(vex.Integer), false},
		{vex.ArrayOf(vex.Bigint), vex.Bigint, false},
		{vex.ArrayOf(vex.ArrayOf(vex.Double)), vex.ArrayOf(vex.ArrayOf(vex.Double)), true},
		{
			vex.RowOf(vex.Field{Name: "a", Type: vex.Bigint}),
			vex.RowOf(vex.Field{Name: "a", Type: vex.Bigint}),
			true,
		},
		{
			vex.RowOf(vex.Field{Name: "a", Type: vex.Bigint}),
			vex.RowOf(vex.Field{Name: "b", Type: vex.Bigint}),
			false,
		},
		{
			vex.RowOf(vex.Field{Name: "a", Type: vex.Bigint}),
			vex.RowOf(vex.Field{Name: "a", Type: vex.Bigint, Nullable: true}),
			false,
		},
		{
			vex.RowOfTypes(vex.Bigint, vex.Double),
			vex.RowOfTypes(vex.Bigint, vex.Double),
			true,
		},
		{
			vex.RowOfTypes(vex.Bigint, vex.Double),
			vex.RowOfTypes(vex.Double, vex.Bigint),
			false,
		},
	}

	for _, tc := range tests {
		assert.Equalf(t, tc.want, vex.TypeEqual(tc.left, tc.right),
			"TypeEqual(%v, %v)", tc.left, tc.right)
	}
}

func TestArrayOf(t *testing.T) {
	typ := vex.ArrayOf(vex.ArrayOf(vex.Integer))
	assert.Equal(t, vex.ARRAY, typ.ID())
	assert.Equal(t, "array<array<integer>>", typ.String())
	assert.True(t, vex.TypeEqual(typ.Elem(), vex.ArrayOf(vex.Integer)))

	assert.Panics(t, func() { vex.ArrayOf(nil) })
}

func TestRowOf(t *testing.T) {
	typ := vex.RowOf(
		vex.Field{Name: "id", Type: vex.Bigint},
		vex.Field{Name: "score", Type: vex.Double, Nullable: true},
	)
	require.Equal(t, 2, typ.NumFields())
	assert.Equal(t, "row<id: bigint, score: double>", typ.String())

	f, ok := typ.FieldByName("score")
	require.True(t, ok)
	assert.True(t, vex.TypeEqual(vex.Double, f.Type))
	assert.True(t, f.Nullable)

	i, ok := typ.FieldIdx("id")
	require.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = typ.FieldIdx("missing")
	assert.False(t, ok)

	assert.Panics(t, func() {
		vex.RowOf(
			vex.Field{Name: "dup", Type: vex.Bigint},
			vex.Field{Name: "dup", Type: vex.Double},
		)
	})
	assert.Panics(t, func() { vex.RowOf(vex.Field{Name: "x"}) })
}

func TestRowOfTypes(t *testing.T) {
	typ := vex.RowOfTypes(vex.Integer, vex.Double)
	require.Equal(t, 2, typ.NumFields())
	assert.Equal(t, "f0", typ.Field(0).Name)
	assert.Equal(t, "f1", typ.Field(1).Name)
	assert.True(t, typ.Field(0).Nullable)
}

func TestFingerprintDistinguishesShapes(t *testing.T) {
	types := []vex.DataType{
		vex.Boolean,
		vex.Bigint,
		vex.Double,
		vex.Varchar,
		vex.ArrayOf(vex.Bigint),
		vex.ArrayOf(vex.Double),
		vex.ArrayOf(vex.ArrayOf(vex.Bigint)),
		vex.RowOfTypes(vex.Bigint),
		vex.RowOfTypes(vex.Bigint, vex.Double),
		vex.ArrayOf(vex.RowOfTypes(vex.Bigint, vex.Double)),
	}

	seen := make(map[string]vex.DataType)
	for _, typ := range types {
		fp := typ.Fingerprint()
		require.NotEmpty(t, fp, "fingerprint of %v", typ)
		prev, dup := seen[fp]
		require.Falsef(t, dup, "%v and %v share fingerprint %q", prev, typ, fp)
		seen[fp] = typ
	}

	// Equal descriptors built separately share a fingerprint.
	assert.Equal(t,
		vex.ArrayOf(vex.RowOfTypes(vex.Bigint, vex.Double)).Fingerprint(),
		vex.ArrayOf(vex.RowOfTypes(vex.Bigint, vex.Double)).Fingerprint())
}

func TestTypesToString(t *testing.T) {
	assert.Equal(t, "(bigint, array<double>)",
		vex.TypesToString([]vex.DataType{vex.Bigint, vex.ArrayOf(vex.Double)}))
}
