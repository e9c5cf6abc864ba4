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
	"fmt"
	"sync"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/zeebo/xxh3"

	"github.com/vexlabs/vex-go/vex"
	"github.com/vexlabs/vex-go/vex/vector"
)

// Shape is the resolved view/writer structure for one type descriptor.
// Shapes are memoized per distinct descriptor: resolving the same descriptor
// twice yields the same *Shape, so repeated evaluations of a registered
// function reuse the resolution.
type Shape struct {
	typ vex.DataType

	elem   *Shape   // for ARRAY
	fields []*Shape // for ROW

	// writeErr is non-nil when the shape is readable through views but has
	// no writer, e.g. nesting beyond the supported writer depth. Checked at
	// registration time for return types, never per row.
	writeErr error
}

func (s *Shape) Type() vex.DataType { return s.typ }
func (s *Shape) Elem() *Shape       { return s.elem }
func (s *Shape) Field(i int) *Shape { return s.fields[i] }
func (s *Shape) NumFields() int     { return len(s.fields) }

// NewBuilder allocates an output builder tree for this shape.
func (s *Shape) NewBuilder(mem memory.Allocator) vector.Builder {
	return vector.NewBuilder(mem, s.typ)
}

var shapeCache = struct {
	sync.RWMutex
	shapes map[uint64]*Shape
}{shapes: make(map[uint64]*Shape)}

// Resolve maps a type descriptor to its concrete view/writer shape,
// recursively for nested descriptors. It fails with a SignatureMismatch
// error for descriptors that have no columnar storage shape at all;
// descriptors that are viewable but not writable resolve successfully and
// report the restriction when used as a return type.
func Resolve(dt vex.DataType) (*Shape, error) {
	if dt == nil {
		return nil, fmt.Errorf("%w: nil type descriptor", vex.ErrSignatureMismatch)
	}

	key := xxh3.HashString(dt.Fingerprint())
	shapeCache.RLock()
	s, ok := shapeCache.shapes[key]
	shapeCache.RUnlock()
	if ok {
		return s, nil
	}

	s, err := resolve(dt)
	if err != nil {
		return nil, err
	}

	shapeCache.Lock()
	defer shapeCache.Unlock()
	if prev, ok := shapeCache.shapes[key]; ok {
		return prev, nil
	}
	shapeCache.shapes[key] = s
	return s, nil
}

func resolve(dt vex.DataType) (*Shape, error) {
	switch t := dt.(type) {
	case *vex.ArrayType:
		elem, err := Resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Shape{typ: dt, elem: elem, writeErr: arrayWriteErr(t)}, nil
	case *vex.RowType:
		fields := make([]*Shape, t.NumFields())
		for i, f := range t.Fields() {
			fs, err := Resolve(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = fs
		}
		return &Shape{typ: dt, fields: fields, writeErr: rowWriteErr(t)}, nil
	}

	if isScalarKind(dt.ID()) {
		return &Shape{typ: dt}, nil
	}
	return nil, fmt.Errorf("%w: leaf kind %s has no fixed-width storage shape",
		vex.ErrSignatureMismatch, dt.Name())
}

// arrayWriteErr reports why an array descriptor cannot be written, or nil.
// Writers support arrays of fixed-width scalars and arrays of rows whose
// fields are all fixed-width scalars.
func arrayWriteErr(t *vex.ArrayType) error {
	switch elem := t.Elem().(type) {
	case *vex.RowType:
		for _, f := range elem.Fields() {
			if !isScalarKind(f.Type.ID()) {
				return fmt.Errorf("%w: writer for %v: row element field %s must be fixed-width",
					vex.ErrNotImplemented, t, f.Name)
			}
		}
		return nil
	case *vex.ArrayType:
		return fmt.Errorf("%w: writer for %v: nested array elements", vex.ErrNotImplemented, t)
	}
	if !isScalarKind(t.Elem().ID()) {
		return fmt.Errorf("%w: writer for %v", vex.ErrNotImplemented, t)
	}
	return nil
}

// rowWriteErr reports why a row descriptor cannot be written, or nil.
// Writers support rows whose fields are fixed-width scalars or arrays of
// fixed-width scalars.
func rowWriteErr(t *vex.RowType) error {
	for _, f := range t.Fields() {
		switch ft := f.Type.(type) {
		case *vex.ArrayType:
			if !isScalarKind(ft.Elem().ID()) {
				return fmt.Errorf("%w: writer for %v: field %s nests too deeply",
					vex.ErrNotImplemented, t, f.Name)
			}
		case *vex.RowType:
			return fmt.Errorf("%w: writer for %v: row-valued field %s",
				vex.ErrNotImplemented, t, f.Name)
		default:
			if !isScalarKind(f.Type.ID()) {
				return fmt.Errorf("%w: writer for %v: field %s", vex.ErrNotImplemented, t, f.Name)
			}
		}
	}
	return nil
}

func isScalarKind(k vex.Kind) bool {
	switch k {
	case vex.BOOL, vex.TINYINT, vex.SMALLINT, vex.INTEGER, vex.BIGINT, vex.REAL, vex.DOUBLE:
		return true
	}
	return false
}
