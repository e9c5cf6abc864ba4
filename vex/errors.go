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

import "errors"

var (
	// ErrInvalid is wrapped by errors for malformed input: unknown
	// functions, unknown column references, mismatched arity.
	ErrInvalid = errors.New("invalid")
	// ErrNotImplemented is wrapped by errors for shapes the layer does not
	// support, e.g. writer nesting beyond the supported depth.
	ErrNotImplemented = errors.New("not implemented")
	// ErrSignatureMismatch is wrapped by registration-time errors when a
	// declared signature cannot be resolved to view/writer shapes. It is
	// fatal to that registration and never raised per row.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrOutOfRange is wrapped by panics raised when a view is indexed past
	// its declared size. This is a programmer error in function code and is
	// not recovered.
	ErrOutOfRange = errors.New("index out of range")
)
