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
	"sync/atomic"

	"github.com/vexlabs/vex-go/vex/internal/debug"
)

// Batch is an ordered group of rows processed together: one or more named
// columns of equal length plus an active row set naming which positions
// participate in an evaluation. A batch owns references to its columns;
// batches are never shared across concurrent evaluations' write paths.
type Batch struct {
	refCount int64

	names []string
	cols  []Vector
	nrows int
	sel   RowSet
}

// NewBatch returns a batch over the given columns. When names are omitted
// the columns are named c0, c1, ... in order. All columns must have the same
// length. The columns are retained; callers keep their own references.
func NewBatch(cols []Vector, names ...string) *Batch {
	if len(cols) == 0 {
		panic("vex/vector: batch requires at least one column")
	}
	if len(names) == 0 {
		names = make([]string, len(cols))
		for i := range names {
			names[i] = fmt.Sprintf("c%d", i)
		}
	}
	if len(names) != len(cols) {
		panic("vex/vector: batch column/name count mismatch")
	}

	nrows := cols[0].Len()
	for _, c := range cols {
		debug.Assert(c.Len() == nrows, "batch columns must share a row count")
		c.Retain()
	}
	return &Batch{refCount: 1, names: names, cols: cols, nrows: nrows}
}

func (b *Batch) NumRows() int { return b.nrows }
func (b *Batch) NumCols() int { return len(b.cols) }

func (b *Batch) Column(i int) Vector { return b.cols[i] }
func (b *Batch) Name(i int) string   { return b.names[i] }

func (b *Batch) ColumnByName(name string) (Vector, bool) {
	for i, n := range b.names {
		if n == name {
			return b.cols[i], true
		}
	}
	return nil, false
}

// SetRowSet installs the active row set for subsequent evaluations.
// A nil row set means every row is active.
func (b *Batch) SetRowSet(sel RowSet) { b.sel = sel }

// RowSet returns the active row set, or nil when every row is active.
func (b *Batch) RowSet() RowSet { return b.sel }

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (b *Batch) Retain() { atomic.AddInt64(&b.refCount, 1) }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the column memory is freed.
func (b *Batch) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")
	if atomic.AddInt64(&b.refCount, -1) == 0 {
		for _, c := range b.cols {
			c.Release()
		}
		b.cols = nil
	}
}
