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

package expression

import "gopkg.in/src-d/go-bqsql.v0/sql"

// Visitor visits nodes of an expression.
type Visitor interface {
	// Visit method is invoked for each node encountered by Walk.
	// If the result Visitor is not nil, Walk visits each of the children
	// of the node with that visitor, followed by a call of Visit(nil)
	// to the returned visitor.
	Visit(n sql.Node) Visitor
}

// Walk traverses the expression in depth-first order. It starts by calling
// v.Visit(n); n must not be nil. If the visitor returned by v.Visit(n) is not
// nil, Walk is invoked recursively with the returned visitor for each
// children of the node, followed by a call of v.Visit(nil) to the returned
// visitor.
func Walk(v Visitor, n sql.Node) {
	if v = v.Visit(n); v == nil {
		return
	}

	for _, child := range n.Children() {
		Walk(v, child)
	}

	v.Visit(nil)
}

type inspector func(sql.Node) bool

func (f inspector) Visit(n sql.Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses the expression in depth-first order: It starts by calling
// f(n); n must not be nil. If f returns true, Inspect invokes f recursively
// for each of the children of n, followed by a call of f(nil).
func Inspect(n sql.Node, f func(sql.Node) bool) {
	Walk(inspector(f), n)
}

// References returns the column references of the expression. Subqueries are
// not entered.
func References(e sql.Node) []*ColumnReference {
	if e == nil {
		return nil
	}

	var refs []*ColumnReference
	Inspect(e, func(n sql.Node) bool {
		switch n := n.(type) {
		case nil:
			return false
		case *ColumnReference:
			refs = append(refs, n)
		}
		return n.Kind() != sql.KindSubquery
	})
	return refs
}
