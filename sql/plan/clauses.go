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
	"fmt"
	"strings"

	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// Where is the WHERE clause of a statement.
type Where struct {
	Predicate sql.Expression
}

// Kind implements the sql.Node interface.
func (*Where) Kind() sql.Kind { return sql.KindWhere }

// Children implements the sql.Node interface.
func (w *Where) Children() []sql.Node { return []sql.Node{w.Predicate} }

// Render implements the sql.Node interface.
func (w *Where) Render(level int) string {
	return sql.Indent(level) + w.Predicate.RenderExpr()
}

// Having is the HAVING clause of a statement.
type Having struct {
	Predicate sql.Expression
}

// Kind implements the sql.Node interface.
func (*Having) Kind() sql.Kind { return sql.KindHaving }

// Children implements the sql.Node interface.
func (h *Having) Children() []sql.Node { return []sql.Node{h.Predicate} }

// Render implements the sql.Node interface.
func (h *Having) Render(level int) string {
	return sql.Indent(level) + h.Predicate.RenderExpr()
}

// GroupBy is the GROUP BY clause of a statement.
type GroupBy struct {
	Exprs []sql.Expression
}

// Kind implements the sql.Node interface.
func (*GroupBy) Kind() sql.Kind { return sql.KindGroupBy }

// Children implements the sql.Node interface.
func (g *GroupBy) Children() []sql.Node {
	children := make([]sql.Node, len(g.Exprs))
	for i, e := range g.Exprs {
		children[i] = e
	}
	return children
}

// Render implements the sql.Node interface.
func (g *GroupBy) Render(level int) string {
	parts := make([]string, len(g.Exprs))
	for i, e := range g.Exprs {
		parts[i] = e.RenderExpr()
	}
	return sql.Indent(level) + strings.Join(parts, ", ")
}

// SortField is an expression of an ORDER BY clause.
type SortField struct {
	Expr sql.Expression
	Desc bool
}

// OrderBy is the ORDER BY clause of a statement.
type OrderBy struct {
	Fields []SortField
}

// Kind implements the sql.Node interface.
func (*OrderBy) Kind() sql.Kind { return sql.KindOrderBy }

// Children implements the sql.Node interface.
func (o *OrderBy) Children() []sql.Node {
	children := make([]sql.Node, len(o.Fields))
	for i, f := range o.Fields {
		children[i] = f.Expr
	}
	return children
}

// Render implements the sql.Node interface.
func (o *OrderBy) Render(level int) string {
	parts := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		order := "ASC"
		if f.Desc {
			order = "DESC"
		}
		parts[i] = f.Expr.RenderExpr() + " " + order
	}
	return sql.Indent(level) + strings.Join(parts, ", ")
}

// Limit is the LIMIT clause of a statement. Offset is ignored when zero.
type Limit struct {
	Count  int64
	Offset int64
}

// Kind implements the sql.Node interface.
func (*Limit) Kind() sql.Kind { return sql.KindLimit }

// Children implements the sql.Node interface.
func (*Limit) Children() []sql.Node { return nil }

// Render implements the sql.Node interface.
func (l *Limit) Render(int) string {
	if l.Offset > 0 {
		return fmt.Sprintf("LIMIT %d OFFSET %d", l.Count, l.Offset)
	}
	return fmt.Sprintf("LIMIT %d", l.Count)
}
