// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrTreeShape is returned when a node is found somewhere the rewriter
	// does not expect it. This error is indicative of a bug.
	ErrTreeShape = errors.NewKind("unexpected tree shape: %s")

	// ErrAmbiguousColumn is returned when a column reference matches columns
	// with different unique ids in more than one source.
	ErrAmbiguousColumn = errors.NewKind("ambiguous column name %q, it's present in all these sources: %v")

	// ErrColumnNotFound is returned when a projected column does not exist in
	// any source in scope.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in any source in scope")

	// ErrTableNotFound is returned when no dataset of the catalog holds the
	// given table.
	ErrTableNotFound = errors.NewKind("table not found: %s")

	// ErrIDSpaceExhausted is returned when every unique id of a session has
	// already been issued.
	ErrIDSpaceExhausted = errors.NewKind("unique id space exhausted after %d ids")

	// ErrPointerCycle is returned when pointing a node at another one would
	// make the resolution graph cyclic.
	ErrPointerCycle = errors.NewKind("pointing node %d at node %d would create a cycle")

	// ErrNodeNotFound is returned when a node id is not registered in the graph.
	ErrNodeNotFound = errors.NewKind("node %d is not registered")

	// ErrNodeStillReferenced is returned when removing a node other nodes
	// still point at.
	ErrNodeStillReferenced = errors.NewKind("node %d is still referenced by %v")

	// ErrLookupFailed wraps errors coming from a SchemaLookup.
	ErrLookupFailed = errors.NewKind("schema lookup %s failed")
)
