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
	"strings"

	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// FromClause lists the sources of a statement. Items are subqueries, a single
// join or a single source table. When Union is set, the items are branches
// whose rows are concatenated.
type FromClause struct {
	Items []sql.Node
	Union bool
}

var _ sql.Node = (*FromClause)(nil)

// NewFromClause creates a FROM clause with the given items.
func NewFromClause(items ...sql.Node) *FromClause {
	return &FromClause{Items: items}
}

// NewUnion creates a FROM clause concatenating the given branches.
func NewUnion(branches ...*Subquery) *FromClause {
	f := &FromClause{Union: true}
	for _, b := range branches {
		b.SetUnion(true)
		f.Items = append(f.Items, b)
	}
	return f
}

// Subqueries returns the subqueries directly visible from the clause: its
// subquery items and the sides of its joins.
func (f *FromClause) Subqueries() []*Subquery {
	var result []*Subquery
	for _, item := range f.Items {
		switch item := item.(type) {
		case *Subquery:
			result = append(result, item)
		case *JoinExpression:
			result = append(result, item.Left, item.Right)
		}
	}
	return result
}

// IndexOf returns the position of the item whose projection is the given
// scope, or -1.
func (f *FromClause) IndexOf(scope sql.Scope) int {
	for i, item := range f.Items {
		if sq, ok := item.(*Subquery); ok && sql.Scope(sq.Statement()) == scope {
			return i
		}
	}
	return -1
}

// Kind implements the sql.Node interface.
func (*FromClause) Kind() sql.Kind { return sql.KindFrom }

// Children implements the sql.Node interface.
func (f *FromClause) Children() []sql.Node { return f.Items }

// Render implements the sql.Node interface.
func (f *FromClause) Render(level int) string {
	items := make([]string, len(f.Items))
	for i, item := range f.Items {
		items[i] = item.Render(level)
	}

	if sql.Pretty(level) {
		return strings.Join(items, ",\n")
	}
	return strings.Join(items, ", ")
}
