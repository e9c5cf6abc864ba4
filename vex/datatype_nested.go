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

package vex

import (
	"fmt"
	"strings"
)

// ArrayType describes a nested type in which each slot contains a
// variable-size sequence of values, all having the same relative type.
type ArrayType struct {
	elem DataType
}

// ArrayOf returns the array type with element type t.
//
// ArrayOf panics if t is nil.
func ArrayOf(t DataType) *ArrayType {
	if t == nil {
		panic("vex: nil DataType")
	}
	return &ArrayType{elem: t}
}

func (*ArrayType) ID() Kind     { return ARRAY }
func (*ArrayType) Name() string { return "array" }

func (t *ArrayType) String() string {
	return fmt.Sprintf("array<%s>", t.elem)
}

// Elem returns the ArrayType's element type.
func (t *ArrayType) Elem() DataType { return t.elem }

func (t *ArrayType) Fingerprint() string {
	child := t.elem.Fingerprint()
	if len(child) > 0 {
		return typeFingerprint(t) + "{" + child + "}"
	}
	return ""
}

// Field is one named, positioned member of a RowType.
type Field struct {
	Name     string   // field name
	Type     DataType // the field's data type
	Nullable bool     // fields can be nullable
}

func (f Field) Fingerprint() string {
	typeFingerprint := f.Type.Fingerprint()
	if typeFingerprint == "" {
		return ""
	}

	var b strings.Builder
	b.WriteByte('F')
	if f.Nullable {
		b.WriteByte('n')
	} else {
		b.WriteByte('N')
	}
	b.WriteString(f.Name)
	b.WriteByte('{')
	b.WriteString(typeFingerprint)
	b.WriteByte('}')
	return b.String()
}

func (f Field) Equal(o Field) bool {
	switch {
	case f.Name != o.Name:
		return false
	case f.Nullable != o.Nullable:
		return false
	case !TypeEqual(f.Type, o.Type):
		return false
	}
	return true
}

func (f Field) String() string {
	o := new(strings.Builder)
	nullable := ""
	if f.Nullable {
		nullable = ", nullable"
	}
	fmt.Fprintf(o, "%s: type=%v%v", f.Name, f.Type, nullable)
	return o.String()
}

// RowType describes a nested type parameterized by an ordered sequence of
// relative types, called its fields.
type RowType struct {
	fields []Field
	index  map[string]int
}

// RowOf returns the row type with fields fs.
//
// RowOf panics if there are duplicated fields.
// RowOf panics if there is a field with a nil DataType.
func RowOf(fs ...Field) *RowType {
	n := len(fs)
	if n == 0 {
		return &RowType{}
	}

	t := &RowType{
		fields: make([]Field, n),
		index:  make(map[string]int, n),
	}
	for i, f := range fs {
		if f.Type == nil {
			panic("vex: field with nil DataType")
		}
		t.fields[i] = f
		if _, dup := t.index[f.Name]; dup {
			panic(fmt.Errorf("vex: duplicate field with name %q", f.Name))
		}
		t.index[f.Name] = i
	}

	return t
}

// RowOfTypes returns a row type with fields named f0, f1, ... in order,
// each nullable. It mirrors positional tuple signatures where field names
// carry no meaning.
func RowOfTypes(types ...DataType) *RowType {
	fs := make([]Field, len(types))
	for i, typ := range types {
		fs[i] = Field{Name: fmt.Sprintf("f%d", i), Type: typ, Nullable: true}
	}
	return RowOf(fs...)
}

func (*RowType) ID() Kind     { return ROW }
func (*RowType) Name() string { return "row" }

func (t *RowType) String() string {
	o := new(strings.Builder)
	o.WriteString("row<")
	for i, f := range t.fields {
		if i > 0 {
			o.WriteString(", ")
		}
		fmt.Fprintf(o, "%s: %v", f.Name, f.Type)
	}
	o.WriteString(">")
	return o.String()
}

func (t *RowType) NumFields() int    { return len(t.fields) }
func (t *RowType) Fields() []Field   { return t.fields }
func (t *RowType) Field(i int) Field { return t.fields[i] }

func (t *RowType) FieldByName(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

func (t *RowType) FieldIdx(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

func (t *RowType) Fingerprint() string {
	var b strings.Builder
	b.WriteString(typeFingerprint(t))
	b.WriteByte('{')
	for _, c := range t.fields {
		child := c.Fingerprint()
		if len(child) == 0 {
			return ""
		}
		b.WriteString(child)
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}

var (
	_ DataType = (*ArrayType)(nil)
	_ DataType = (*RowType)(nil)
)
