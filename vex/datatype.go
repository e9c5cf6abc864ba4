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

// Kind is a logical type tag. A kind is either a primitive physical
// representation (a fixed number of bits per value) or a nested kind
// composed of other data types.
type Kind int

const (
	// BOOL is a 1-bit value, bit-packed
	BOOL Kind = iota

	// TINYINT is a signed 8-bit integer
	TINYINT

	// SMALLINT is a signed 16-bit integer
	SMALLINT

	// INTEGER is a signed 32-bit integer
	INTEGER

	// BIGINT is a signed 64-bit integer
	BIGINT

	// REAL is a 4-byte floating point value
	REAL

	// DOUBLE is an 8-byte floating point value
	DOUBLE

	// VARCHAR is a variable-length UTF8 string. It is part of the logical
	// catalog but carries no fixed-width physical representation.
	VARCHAR

	// ARRAY is a variable-size sequence of some element type
	ARRAY

	// ROW is an ordered set of named fields, each with its own type
	ROW
)

var kindNames = [...]string{
	BOOL:     "boolean",
	TINYINT:  "tinyint",
	SMALLINT: "smallint",
	INTEGER:  "integer",
	BIGINT:   "bigint",
	REAL:     "real",
	DOUBLE:   "double",
	VARCHAR:  "varchar",
	ARRAY:    "array",
	ROW:      "row",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// DataType is the representation of a logical type descriptor. Descriptors
// are immutable once built and shared by reference across every batch
// evaluated against the same signature.
type DataType interface {
	ID() Kind
	// Name is the name of the data type.
	Name() string
	// Fingerprint returns a canonical string uniquely identifying the
	// descriptor tree, used for equality and memoization.
	Fingerprint() string
	String() string
}

// FixedWidthDataType is a DataType that requires a fixed number of bits in
// memory for each element.
type FixedWidthDataType interface {
	DataType
	// BitWidth returns the number of bits required to store a single element.
	BitWidth() int
}

// PrimitiveType is a leaf descriptor for a fixed-width kind.
type PrimitiveType struct {
	kind     Kind
	bitWidth int
}

func (t *PrimitiveType) ID() Kind       { return t.kind }
func (t *PrimitiveType) Name() string   { return t.kind.String() }
func (t *PrimitiveType) String() string { return t.kind.String() }
func (t *PrimitiveType) BitWidth() int  { return t.bitWidth }

func (t *PrimitiveType) Fingerprint() string { return typeFingerprint(t) }

// The logical type catalog. Primitive descriptors are singletons; callers
// compare them through TypeEqual or Fingerprint, never by pointer.
var (
	Boolean  DataType = &PrimitiveType{kind: BOOL, bitWidth: 1}
	Tinyint  DataType = &PrimitiveType{kind: TINYINT, bitWidth: 8}
	Smallint DataType = &PrimitiveType{kind: SMALLINT, bitWidth: 16}
	Integer  DataType = &PrimitiveType{kind: INTEGER, bitWidth: 32}
	Bigint   DataType = &PrimitiveType{kind: BIGINT, bitWidth: 64}
	Real     DataType = &PrimitiveType{kind: REAL, bitWidth: 32}
	Double   DataType = &PrimitiveType{kind: DOUBLE, bitWidth: 64}

	// Varchar has no fixed-width representation; it exists so signature
	// validation has an unknown leaf to reject.
	Varchar DataType = &varcharType{}
)

type varcharType struct{}

func (*varcharType) ID() Kind              { return VARCHAR }
func (*varcharType) Name() string          { return "varchar" }
func (*varcharType) String() string        { return "varchar" }
func (t *varcharType) Fingerprint() string { return typeFingerprint(t) }

func typeIDFingerprint(id Kind) string {
	c := string(rune(int(id) + int('A')))
	return "@" + c
}

func typeFingerprint(typ DataType) string { return typeIDFingerprint(typ.ID()) }

// TypeEqual reports whether two descriptors describe the same logical type.
func TypeEqual(a, b DataType) bool {
	switch {
	case a == nil || b == nil:
		return a == b
	case a.ID() != b.ID():
		return false
	}
	return a.Fingerprint() == b.Fingerprint()
}

// TypesToString renders a list of descriptors for error messages.
func TypesToString(types []DataType) string {
	o := "("
	for i, t := range types {
		if i > 0 {
			o += ", "
		}
		o += t.String()
	}
	return o + ")"
}

var (
	_ DataType           = (*PrimitiveType)(nil)
	_ FixedWidthDataType = (*PrimitiveType)(nil)
)
