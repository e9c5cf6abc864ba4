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

// Package vector provides columnar storage for batches of rows: flat
// fixed-width vectors, array vectors with per-row offset/size spans over a
// shared child, and row vectors with position-aligned named children, plus
// the append-only builders that produce them.
package vector

import (
	"sync/atomic"

	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/goccy/go-json"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/internal/debug"
)

// Vector is columnar storage for one logical field across all rows of a
// batch. A position may be marked null independent of its stored bytes.
// Vectors are immutable once produced by a builder and reference counted.
type Vector interface {
	// DataType returns the logical type descriptor of the vector.
	DataType() vex.DataType
	// Len returns the number of row positions.
	Len() int
	// NullN returns the number of null positions.
	NullN() int
	IsNull(i int) bool
	IsValid(i int) bool

	// Retain increases the reference count by 1.
	// Retain may be called simultaneously from multiple goroutines.
	Retain()
	// Release decreases the reference count by 1.
	// Release may be called simultaneously from multiple goroutines.
	// When the reference count goes to zero, the memory is freed.
	Release()

	String() string

	getOneForMarshal(i int) interface{}
}

type vector struct {
	refCount int64
	typ      vex.DataType
	nulls    int
	length   int
	validity *memory.Buffer // LSB bit-packed; nil means no nulls
}

func newVector(typ vex.DataType, length int, validity *memory.Buffer, nulls int) vector {
	if validity != nil {
		validity.Retain()
	}
	return vector{refCount: 1, typ: typ, nulls: nulls, length: length, validity: validity}
}

func (v *vector) DataType() vex.DataType { return v.typ }
func (v *vector) Len() int               { return v.length }
func (v *vector) NullN() int             { return v.nulls }

func (v *vector) IsNull(i int) bool {
	if v.validity == nil {
		return false
	}
	return !bitutil.BitIsSet(v.validity.Bytes(), i)
}

func (v *vector) IsValid(i int) bool { return !v.IsNull(i) }

func (v *vector) Retain() { atomic.AddInt64(&v.refCount, 1) }

// release decrements the reference count and reports whether the caller is
// responsible for freeing the remaining buffers.
func (v *vector) release() bool {
	debug.Assert(atomic.LoadInt64(&v.refCount) > 0, "too many releases")
	if atomic.AddInt64(&v.refCount, -1) != 0 {
		return false
	}
	if v.validity != nil {
		v.validity.Release()
		v.validity = nil
	}
	return true
}

// marshalVector renders any vector as a JSON array, nulls as JSON null.
// Used by String and MarshalJSON implementations; handy in test failures.
func marshalVector(v Vector) ([]byte, error) {
	vals := make([]interface{}, v.Len())
	for i := range vals {
		vals[i] = v.getOneForMarshal(i)
	}
	return json.Marshal(vals)
}

func vectorToString(v Vector) string {
	b, err := marshalVector(v)
	if err != nil {
		return "(invalid)"
	}
	return string(b)
}
