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

	"github.com/apache/arrow/go/v17/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/vexlabs/vex-go/vex/vector"
)

// EvalBatches evaluates one expression against independent batches
// concurrently, at most limit batches at a time (limit <= 0 means no limit).
// Evaluation within each batch stays single-threaded; only whole batches run
// in parallel. Results are positionally aligned with the input batches. On
// error, columns already produced are released and the first error is
// returned.
func EvalBatches(ctx context.Context, mem memory.Allocator, reg *Registry, expr string, batches []*vector.Batch, limit int) ([]vector.Vector, error) {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	out := make([]vector.Vector, len(batches))
	for i := range batches {
		i := i
		g.Go(func() error {
			v, err := Evaluate(gctx, mem, reg, expr, batches[i])
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, v := range out {
			if v != nil {
				v.Release()
			}
		}
		return nil, err
	}
	return out, nil
}
