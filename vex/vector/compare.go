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

	"github.com/vexlabs/vex-go/vex"
)

// Equal reports whether two vectors hold the same logical values: same type,
// same length, nulls in the same positions and equal values elsewhere.
// Array spans are compared element-wise, so two arrays are equal even when
// their child layouts differ (e.g. one carries unreferenced gaps).
func Equal(left, right Vector) bool {
	switch {
	case left == nil || right == nil:
		return left == nil && right == nil
	case !vex.TypeEqual(left.DataType(), right.DataType()):
		return false
	case left.Len() != right.Len():
		return false
	}

	for i := 0; i < left.Len(); i++ {
		if !SlotEqual(left, i, right, i) {
			return false
		}
	}
	return true
}

// SlotEqual reports whether position li of left holds the same logical value
// as position ri of right. Both vectors must have equal data types.
func SlotEqual(left Vector, li int, right Vector, ri int) bool {
	if left.IsNull(li) || right.IsNull(ri) {
		return left.IsNull(li) == right.IsNull(ri)
	}

	switch l := left.(type) {
	case *Bool:
		return l.Value(li) == right.(*Bool).Value(ri)
	case *Flat[int8]:
		return l.Value(li) == right.(*Flat[int8]).Value(ri)
	case *Flat[int16]:
		return l.Value(li) == right.(*Flat[int16]).Value(ri)
	case *Flat[int32]:
		return l.Value(li) == right.(*Flat[int32]).Value(ri)
	case *Flat[int64]:
		return l.Value(li) == right.(*Flat[int64]).Value(ri)
	case *Flat[float32]:
		return l.Value(li) == right.(*Flat[float32]).Value(ri)
	case *Flat[float64]:
		return l.Value(li) == right.(*Flat[float64]).Value(ri)
	case *Array:
		r := right.(*Array)
		if l.ValueLen(li) != r.ValueLen(ri) {
			return false
		}
		lo, ro := l.ValueOffset(li), r.ValueOffset(ri)
		for k := 0; k < l.ValueLen(li); k++ {
			if !SlotEqual(l.Values(), lo+k, r.Values(), ro+k) {
				return false
			}
		}
		return true
	case *Row:
		r := right.(*Row)
		for k := 0; k < l.NumFields(); k++ {
			if !SlotEqual(l.Field(k), li, r.Field(k), ri) {
				return false
			}
		}
		return true
	}
	panic(fmt.Errorf("vex/vector: unsupported vector type %T", left))
}
