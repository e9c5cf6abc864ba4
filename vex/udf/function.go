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
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/vector"
)

// RowFn is the per-row callable of a registered function. It is invoked once
// per active row with a writer bound to the output column at that row and
// typed views over the argument columns. Returning false commits the row as
// absent without consuming anything appended during the call; it is the only
// recoverable failure path and evaluation continues with the next row.
type RowFn func(out Writer, args *Args) bool

// Option configures a function at registration time.
type Option func(*Function)

// NullTolerant lets the function observe rows with absent arguments. By
// default the driver skips such rows, committing null without invoking the
// function.
func NullTolerant() Option {
	return func(f *Function) { f.nullTolerant = true }
}

// Function is a registered per-row function together with its resolved
// signature shapes.
type Function struct {
	name   string
	ret    vex.DataType
	params []vex.DataType
	fn     RowFn

	outShape    *Shape
	paramShapes []*Shape

	nullTolerant bool
}

// NewFunction resolves the declared signature and returns the registrable
// function. Unresolvable shapes fail here, before any batch is evaluated.
func NewFunction(name string, ret vex.DataType, params []vex.DataType, fn RowFn, opts ...Option) (*Function, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: function name must not be empty", vex.ErrInvalid)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: function %q has no callable", vex.ErrInvalid, name)
	}

	outShape, err := Resolve(ret)
	if err != nil {
		return nil, fmt.Errorf("function %q return type: %w", name, err)
	}
	if outShape.writeErr != nil {
		return nil, fmt.Errorf("%w: function %q return type: %v",
			vex.ErrSignatureMismatch, name, outShape.writeErr)
	}

	paramShapes := make([]*Shape, len(params))
	for i, p := range params {
		s, err := Resolve(p)
		if err != nil {
			return nil, fmt.Errorf("function %q parameter %d: %w", name, i, err)
		}
		paramShapes[i] = s
	}

	f := &Function{
		name:        name,
		ret:         ret,
		params:      params,
		fn:          fn,
		outShape:    outShape,
		paramShapes: paramShapes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Function) Name() string               { return f.name }
func (f *Function) ReturnType() vex.DataType   { return f.ret }
func (f *Function) ParamTypes() []vex.DataType { return f.params }
func (f *Function) NullTolerant() bool         { return f.nullTolerant }

// Execute evaluates the function over the argument columns, producing the
// output column. Rows are processed strictly in ascending position because
// composite child growth is append-only and position-order dependent.
// Inactive rows and, for null-intolerant functions, rows with an absent
// argument commit as null. Cancellation is batch-granular: on context error
// the partial output is discarded.
func (f *Function) Execute(ctx context.Context, mem memory.Allocator, args []vector.Vector, nrows int, sel vector.RowSet) (vector.Vector, error) {
	if len(args) != len(f.params) {
		return nil, fmt.Errorf("%w: function %q accepts %d arguments but %d passed",
			vex.ErrInvalid, f.name, len(f.params), len(args))
	}
	for i, a := range args {
		if !vex.TypeEqual(a.DataType(), f.params[i]) {
			return nil, fmt.Errorf("%w: function %q argument %d is %v, want %v",
				vex.ErrSignatureMismatch, f.name, i, a.DataType(), f.params[i])
		}
		if a.Len() < nrows {
			return nil, fmt.Errorf("%w: function %q argument %d has %d rows, want %d",
				vex.ErrInvalid, f.name, i, a.Len(), nrows)
		}
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	b := f.outShape.NewBuilder(mem)
	defer b.Release()
	b.Reserve(nrows)

	out := newWriter(f.ret, b)
	in := &Args{fn: f, cols: args}

	for i := 0; i < nrows; i++ {
		if i&0x03ff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		out.reset()
		if sel != nil && !sel.Contains(i) {
			out.commit(false)
			continue
		}
		if !f.nullTolerant && anyNull(args, i) {
			out.commit(false)
			continue
		}

		in.row = i
		out.commit(f.fn(out, in))
	}

	return b.NewVector(), nil
}

func anyNull(args []vector.Vector, i int) bool {
	for _, a := range args {
		if a.IsNull(i) {
			return true
		}
	}
	return false
}

// Args exposes the argument views of the row currently being evaluated.
// Args borrow the batch's columns; they are only valid for the duration of
// the per-row call.
type Args struct {
	fn   *Function
	cols []vector.Vector
	row  int
}

// NumArgs returns the number of declared parameters.
func (a *Args) NumArgs() int { return len(a.cols) }

// IsNull reports whether argument i is absent at the current row. Only
// null-tolerant functions observe absent arguments.
func (a *Args) IsNull(i int) bool { return a.cols[i].IsNull(a.row) }

func (a *Args) Bool(i int) bool       { return a.cols[i].(*vector.Bool).Value(a.row) }
func (a *Args) Int8(i int) int8       { return a.cols[i].(*vector.Flat[int8]).Value(a.row) }
func (a *Args) Int16(i int) int16     { return a.cols[i].(*vector.Flat[int16]).Value(a.row) }
func (a *Args) Int32(i int) int32     { return a.cols[i].(*vector.Flat[int32]).Value(a.row) }
func (a *Args) Int64(i int) int64     { return a.cols[i].(*vector.Flat[int64]).Value(a.row) }
func (a *Args) Float32(i int) float32 { return a.cols[i].(*vector.Flat[float32]).Value(a.row) }
func (a *Args) Float64(i int) float64 { return a.cols[i].(*vector.Flat[float64]).Value(a.row) }

// Array returns a view over an array-typed argument at the current row.
func (a *Args) Array(i int) ArrayView {
	return newArrayView(a.cols[i].(*vector.Array), a.row)
}

// Row returns a view over a row-typed argument at the current row.
func (a *Args) Row(i int) RowView {
	return RowView{row: a.cols[i].(*vector.Row), idx: a.row}
}
