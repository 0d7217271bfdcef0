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

package plan

import (
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
)

// Inspect traverses the tree in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the children of node, followed by a call of
// f(nil).
func Inspect(node sql.Node, f func(sql.Node) bool) {
	expression.Inspect(node, f)
}

// Subqueries returns every subquery reachable from node in pre-order. Union
// branches can share their sources, so a subquery reachable through several
// paths is returned once.
func Subqueries(node sql.Node) []*Subquery {
	seen := make(map[*Subquery]struct{})
	var result []*Subquery
	Inspect(node, func(n sql.Node) bool {
		sq, ok := n.(*Subquery)
		if !ok {
			return n != nil
		}

		if _, ok := seen[sq]; ok {
			return false
		}
		seen[sq] = struct{}{}
		result = append(result, sq)
		return true
	})
	return result
}

// Statements returns the statement of node, if it is one, followed by the
// statements of every subquery reachable from it.
func Statements(node sql.Node) []*SelectStatement {
	var result []*SelectStatement
	if s, ok := node.(*SelectStatement); ok {
		result = append(result, s)
	}
	for _, sq := range Subqueries(node) {
		result = append(result, sq.Statement())
	}
	return result
}

// Projections returns the projected items of every statement reachable from
// node.
func Projections(node sql.Node) []sql.Projected {
	var result []sql.Projected
	for _, s := range Statements(node) {
		result = append(result, s.Projection.Items...)
	}
	return result
}
