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

import "github.com/apache/arrow/go/v17/arrow/bitutil"

// RowSet names the row positions of a batch that participate in an
// evaluation. Implementations are a contiguous range or a bitmap; a nil
// RowSet conventionally means all rows.
type RowSet interface {
	// Contains reports whether row position i is active.
	Contains(i int) bool
	// NumActive returns the number of active positions in [0, n).
	NumActive(n int) int
}

// Range is a contiguous active row set covering [Begin, End).
type Range struct {
	Begin, End int
}

func (r Range) Contains(i int) bool { return i >= r.Begin && i < r.End }

func (r Range) NumActive(n int) int {
	end := r.End
	if end > n {
		end = n
	}
	begin := r.Begin
	if begin < 0 {
		begin = 0
	}
	if end <= begin {
		return 0
	}
	return end - begin
}

// Bitmap is an active row set with one bit per row position, LSB bit-packed.
// The zero value of every position is inactive.
type Bitmap struct {
	bits []byte
	n    int
}

// NewBitmap returns a bitmap row set for n rows with every position inactive.
func NewBitmap(n int) *Bitmap {
	return &Bitmap{bits: make([]byte, bitutil.CeilByte(n)/8), n: n}
}

func (b *Bitmap) Len() int { return b.n }

func (b *Bitmap) Set(i int)   { bitutil.SetBit(b.bits, i) }
func (b *Bitmap) Clear(i int) { bitutil.ClearBit(b.bits, i) }

func (b *Bitmap) Contains(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return bitutil.BitIsSet(b.bits, i)
}

func (b *Bitmap) NumActive(n int) int {
	if n > b.n {
		n = b.n
	}
	if n <= 0 {
		return 0
	}
	return bitutil.CountSetBits(b.bits, 0, n)
}

var (
	_ RowSet = Range{}
	_ RowSet = (*Bitmap)(nil)
)
