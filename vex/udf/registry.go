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

	"golang.org/x/exp/slices"

	"github.com/vexlabs/vex-go/vex"
)

// Registry is a thread-safe name to function mapping used by the expression
// evaluator to dispatch calls.
type Registry struct {
	mx    sync.RWMutex
	funcs map[string]*Function
}

// NewRegistry creates an empty function registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]*Function)}
}

var (
	registry     *Registry
	registryOnce sync.Once
)

// GetRegistry returns the process-wide default function registry.
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		registry = NewRegistry()
	})
	return registry
}

// Register resolves the signature, constructs the function and adds it to
// the registry. It fails if a function with the same name already exists.
func (r *Registry) Register(name string, ret vex.DataType, params []vex.DataType, fn RowFn, opts ...Option) (*Function, error) {
	f, err := NewFunction(name, ret, params, fn, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.AddFunction(f, false); err != nil {
		return nil, err
	}
	return f, nil
}

// AddFunction adds a previously constructed function to the registry,
// optionally replacing an existing function of the same name.
func (r *Registry) AddFunction(f *Function, allowOverwrite bool) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	name := f.Name()
	if _, ok := r.funcs[name]; ok && !allowOverwrite {
		return fmt.Errorf("%w: function %q already registered", vex.ErrInvalid, name)
	}
	r.funcs[name] = f
	return nil
}

// Lookup returns the registered function with the given name.
func (r *Registry) Lookup(name string) (*Function, bool) {
	r.mx.RLock()
	defer r.mx.RUnlock()
	f, ok := r.funcs[name]
	return f, ok
}

// NumFunctions returns the number of registered functions.
func (r *Registry) NumFunctions() int {
	r.mx.RLock()
	defer r.mx.RUnlock()
	return len(r.funcs)
}

// Names returns the sorted list of registered function names.
func (r *Registry) Names() []string {
	r.mx.RLock()
	defer r.mx.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterScalar registers a function producing a fixed-width scalar column.
// The callable receives the writer pre-cast, sparing the author the
// downcast from the Writer interface.
func (r *Registry) RegisterScalar(name string, ret vex.DataType, params []vex.DataType, fn func(out *ScalarWriter, args *Args) bool, opts ...Option) (*Function, error) {
	return r.Register(name, ret, params, func(out Writer, args *Args) bool {
		return fn(out.(*ScalarWriter), args)
	}, opts...)
}

// RegisterArray registers a function producing an array column.
func (r *Registry) RegisterArray(name string, ret *vex.ArrayType, params []vex.DataType, fn func(out *ArrayWriter, args *Args) bool, opts ...Option) (*Function, error) {
	return r.Register(name, ret, params, func(out Writer, args *Args) bool {
		return fn(out.(*ArrayWriter), args)
	}, opts...)
}

// RegisterRow registers a function producing a row column.
func (r *Registry) RegisterRow(name string, ret *vex.RowType, params []vex.DataType, fn func(out *RowWriter, args *Args) bool, opts ...Option) (*Function, error) {
	return r.Register(name, ret, params, func(out Writer, args *Args) bool {
		return fn(out.(*RowWriter), args)
	}, opts...)
}
