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

// Package udf lets a function author write ordinary per-row code over
// column-oriented batch storage. A registered function declares its
// signature with logical type descriptors; the evaluation driver binds
// read-only views over the argument columns and a growable writer over the
// output column, invokes the function once per active row, and commits
// per-row null state. Nested composites (arrays of fixed-width values, rows
// of heterogeneous fields, arrays of rows) are viewed and written without
// copying underlying storage.
package udf
