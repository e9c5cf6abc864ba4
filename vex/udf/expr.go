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

	"github.com/alecthomas/participle/v2"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/vector"
)

// The evaluator accepts call expressions over registered functions, batch
// column names and numeric literals, e.g. "plus(c0, array_sum(c1), 5)".

type callExpr struct {
	Name string     `parser:"@Ident"`
	Args []*argExpr `parser:"'(' (@@ (',' @@)*)? ')'"`
}

type argExpr struct {
	Call  *callExpr `parser:"  @@"`
	Float *float64  `parser:"| @Float"`
	Int   *int64    `parser:"| @Int"`
	Ref   *string   `parser:"| @Ident"`
}

// A column reference and a call both start with an identifier, hence the
// second token of lookahead.
var exprParser = participle.MustBuild[callExpr](participle.UseLookahead(2))

// Evaluate parses a call expression and evaluates it against the batch,
// dispatching calls through the registry. Column references resolve by batch
// column name. Integer literals materialize as BIGINT columns and decimal
// literals as DOUBLE columns spanning the batch. The caller owns the
// returned column; intermediate columns of nested calls are released.
func Evaluate(ctx context.Context, mem memory.Allocator, reg *Registry, expr string, batch *vector.Batch) (vector.Vector, error) {
	ast, err := exprParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", vex.ErrInvalid, expr, err)
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return evalCall(ctx, mem, reg, ast, batch)
}

func evalCall(ctx context.Context, mem memory.Allocator, reg *Registry, call *callExpr, batch *vector.Batch) (vector.Vector, error) {
	fn, ok := reg.Lookup(call.Name)
	if !ok {
		return nil, fmt.Errorf("%w: no registered function %q", vex.ErrInvalid, call.Name)
	}

	args := make([]vector.Vector, len(call.Args))
	owned := make([]vector.Vector, 0, len(call.Args))
	defer func() {
		for _, v := range owned {
			v.Release()
		}
	}()

	for i, a := range call.Args {
		switch {
		case a.Call != nil:
			v, err := evalCall(ctx, mem, reg, a.Call, batch)
			if err != nil {
				return nil, err
			}
			owned = append(owned, v)
			args[i] = v
		case a.Ref != nil:
			col, ok := batch.ColumnByName(*a.Ref)
			if !ok {
				return nil, fmt.Errorf("%w: no column %q in batch", vex.ErrInvalid, *a.Ref)
			}
			args[i] = col
		case a.Float != nil:
			args[i] = constColumn[float64](mem, vex.Double, *a.Float, batch.NumRows())
			owned = append(owned, args[i])
		case a.Int != nil:
			args[i] = constColumn[int64](mem, vex.Bigint, *a.Int, batch.NumRows())
			owned = append(owned, args[i])
		}
	}

	return fn.Execute(ctx, mem, args, batch.NumRows(), batch.RowSet())
}

func constColumn[T vector.FixedWidth](mem memory.Allocator, dtype vex.DataType, value T, n int) vector.Vector {
	b := vector.NewFlatBuilder[T](mem, dtype)
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		b.UnsafeAppend(value)
	}
	return b.NewVector()
}
