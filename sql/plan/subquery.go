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
)

// Subquery is a parenthesized SELECT. Every source of a rewritten query is a
// subquery: tables are wrapped in one selecting their columns, and joins are
// wrapped in one re-projecting both sides.
type Subquery struct {
	stmt        *SelectStatement
	alias       string
	uniqueID    string
	inJoin      bool
	union       bool
	transparent bool
	expr        bool
}

var _ sql.Expression = (*Subquery)(nil)

// NewSubquery wraps the statement. The alias is optional.
func NewSubquery(ctx *sql.Context, stmt *SelectStatement, alias string) (*Subquery, error) {
	uid, err := ctx.NewUniqueID()
	if err != nil {
		return nil, err
	}

	s := &Subquery{stmt: stmt, alias: alias, uniqueID: uid}
	stmt.parent = s
	return s, nil
}

// NewTableSubquery wraps the table in a statement selecting from it. The
// projection is left empty.
func NewTableSubquery(ctx *sql.Context, table *SourceTable) (*Subquery, error) {
	return NewSubquery(ctx, NewSelectStatement(NewFromClause(table)), table.Alias)
}

// Statement returns the wrapped statement.
func (s *Subquery) Statement() *SelectStatement { return s.stmt }

// Items returns the projected items of the wrapped statement.
func (s *Subquery) Items() []sql.Projected { return s.stmt.Projection.Items }

// Alias returns the alias given in the query, or the unique id.
func (s *Subquery) Alias() string {
	if s.alias != "" {
		return s.alias
	}
	return s.uniqueID
}

// UserAlias returns the alias given in the query, if any.
func (s *Subquery) UserAlias() string { return s.alias }

// UniqueID returns the unique id of the subquery.
func (s *Subquery) UniqueID() string { return s.uniqueID }

// InJoin reports whether the subquery is a side of a join.
func (s *Subquery) InJoin() bool { return s.inJoin }

// IsUnion reports whether the subquery is a branch of a union.
func (s *Subquery) IsUnion() bool { return s.union }

// SetUnion marks the subquery as a branch of a union.
func (s *Subquery) SetUnion(union bool) { s.union = union }

// IsTransparent reports whether the subquery was synthesized by the rewriter.
// The items of a transparent subquery can still be referenced by the names
// of the items they re-project.
func (s *Subquery) IsTransparent() bool { return s.transparent }

// SetTransparent marks the subquery as synthesized.
func (s *Subquery) SetTransparent(transparent bool) { s.transparent = transparent }

// IsExpr reports whether the subquery is an operand of a predicate.
func (s *Subquery) IsExpr() bool { return s.expr }

// SetExpr marks the subquery as an operand.
func (s *Subquery) SetExpr(expr bool) { s.expr = expr }

// Table returns the source table the subquery wraps, if it wraps one.
func (s *Subquery) Table() (*SourceTable, bool) {
	if s.stmt.From == nil || len(s.stmt.From.Items) != 1 {
		return nil, false
	}
	t, ok := s.stmt.From.Items[0].(*SourceTable)
	return t, ok
}

// Qualifiers returns the prefixes columns of the subquery can be written
// with: the alias when there is one, the names of the wrapped table
// otherwise.
func (s *Subquery) Qualifiers() []string {
	if s.alias != "" {
		return []string{s.alias}
	}
	if t, ok := s.Table(); ok {
		return t.Qualifiers()
	}
	return []string{s.uniqueID}
}

// Kind implements the sql.Node interface.
func (*Subquery) Kind() sql.Kind { return sql.KindSubquery }

// Children implements the sql.Node interface.
func (s *Subquery) Children() []sql.Node { return []sql.Node{s.stmt} }

// RenderExpr implements the sql.Expression interface.
func (s *Subquery) RenderExpr() string {
	return "(" + s.stmt.Render(-1) + ")"
}

// Render implements the sql.Node interface.
func (s *Subquery) Render(level int) string {
	var alias string
	if !s.union && !s.expr {
		alias = " AS " + s.Alias()
	}

	if !sql.Pretty(level) {
		return s.RenderExpr() + alias
	}

	return sql.Indent(level) + "(\n" +
		s.stmt.Render(level+1) + "\n" +
		sql.Indent(level) + ")" + alias
}

func (s *Subquery) String() string { return s.Render(0) }
