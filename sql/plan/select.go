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

// SelectStatement is a SELECT. It is the scope of the items of its
// projection.
type SelectStatement struct {
	Projection *Projection
	From       *FromClause
	Where      *Where
	GroupBy    *GroupBy
	Having     *Having
	OrderBy    *OrderBy
	Limit      *Limit
	Distinct   bool
	parent     *Subquery
}

var _ sql.Node = (*SelectStatement)(nil)
var _ sql.Scope = (*SelectStatement)(nil)

// NewSelectStatement creates an empty statement reading from the given FROM
// clause.
func NewSelectStatement(from *FromClause) *SelectStatement {
	s := &SelectStatement{From: from}
	s.Projection = NewProjection(s)
	return s
}

// Parent returns the subquery enclosing the statement, nil for the outermost
// statement.
func (s *SelectStatement) Parent() *Subquery { return s.parent }

// IsRoot reports whether this is the outermost statement.
func (s *SelectStatement) IsRoot() bool { return s.parent == nil }

// SetWhere sets the predicate of the WHERE clause, removing the clause when
// the predicate is nil.
func (s *SelectStatement) SetWhere(pred sql.Expression) {
	if pred == nil {
		s.Where = nil
		return
	}
	s.Where = &Where{Predicate: pred}
}

// Predicate returns the predicate of the WHERE clause, if any.
func (s *SelectStatement) Predicate() sql.Expression {
	if s.Where == nil {
		return nil
	}
	return s.Where.Predicate
}

// Qualifier implements the sql.Scope interface.
func (s *SelectStatement) Qualifier() (string, bool) {
	if s.parent == nil || s.parent.IsUnion() || s.parent.IsExpr() {
		return "", false
	}
	return s.parent.Alias(), true
}

// Qualifiers implements the sql.Scope interface.
func (s *SelectStatement) Qualifiers() []string {
	if s.parent == nil {
		return nil
	}
	return s.parent.Qualifiers()
}

// Transparent implements the sql.Scope interface.
func (s *SelectStatement) Transparent() bool {
	return s.parent != nil && s.parent.IsTransparent()
}

// Kind implements the sql.Node interface.
func (*SelectStatement) Kind() sql.Kind { return sql.KindSelect }

// Children implements the sql.Node interface.
func (s *SelectStatement) Children() []sql.Node {
	children := []sql.Node{s.Projection}
	if s.From != nil {
		children = append(children, s.From)
	}
	if s.Where != nil {
		children = append(children, s.Where)
	}
	if s.GroupBy != nil {
		children = append(children, s.GroupBy)
	}
	if s.Having != nil {
		children = append(children, s.Having)
	}
	if s.OrderBy != nil {
		children = append(children, s.OrderBy)
	}
	if s.Limit != nil {
		children = append(children, s.Limit)
	}
	return children
}

// Render implements the sql.Node interface.
func (s *SelectStatement) Render(level int) string {
	keyword := "SELECT"
	if s.Distinct {
		keyword += " DISTINCT"
	}

	clauses := []string{clause(level, keyword, s.Projection.Render(sql.Deeper(level)))}
	if s.From != nil && len(s.From.Items) > 0 {
		clauses = append(clauses, clause(level, "FROM", s.From.Render(sql.Deeper(level))))
	}
	if s.Where != nil {
		clauses = append(clauses, clause(level, "WHERE", s.Where.Render(sql.Deeper(level))))
	}
	if s.GroupBy != nil {
		clauses = append(clauses, clause(level, "GROUP BY", s.GroupBy.Render(sql.Deeper(level))))
	}
	if s.Having != nil {
		clauses = append(clauses, clause(level, "HAVING", s.Having.Render(sql.Deeper(level))))
	}
	if s.OrderBy != nil {
		clauses = append(clauses, clause(level, "ORDER BY", s.OrderBy.Render(sql.Deeper(level))))
	}
	if s.Limit != nil {
		clauses = append(clauses, sql.Indent(level)+s.Limit.Render(level))
	}

	if sql.Pretty(level) {
		return strings.Join(clauses, "\n")
	}
	return strings.Join(clauses, " ")
}

func (s *SelectStatement) String() string { return s.Render(0) }

// clause renders a keyword followed by its body, which is already indented
// one level deeper in pretty mode.
func clause(level int, keyword, body string) string {
	if sql.Pretty(level) {
		return sql.Indent(level) + keyword + "\n" + body
	}
	return keyword + " " + body
}

// Projection is the list of projected items of a statement.
type Projection struct {
	Items []sql.Projected
	// Star is set when the columns of the source are unknown and every
	// column is selected.
	Star  bool
	scope sql.Scope
}

var _ sql.Node = (*Projection)(nil)

// NewProjection creates an empty projection whose items belong to scope.
func NewProjection(scope sql.Scope) *Projection {
	return &Projection{scope: scope}
}

// Add appends the items, making them part of the projection scope.
func (p *Projection) Add(items ...sql.Projected) {
	for _, item := range items {
		item.SetScope(p.scope)
		p.Items = append(p.Items, item)
	}
}

// Remove drops the item with the given node id.
func (p *Projection) Remove(id sql.NodeID) bool {
	for i, item := range p.Items {
		if item.ID() == id {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Index returns the position of the item with the given node id, or -1.
func (p *Projection) Index(id sql.NodeID) int {
	for i, item := range p.Items {
		if item.ID() == id {
			return i
		}
	}
	return -1
}

// AssignOutputNames gives every item the name the client sees: the alias of
// the query, else the name of the source column. Items whose name was already
// taken keep their unique id.
func (p *Projection) AssignOutputNames() {
	taken := make(map[string]struct{})
	for _, item := range p.Items {
		name := item.Name()
		if name == "" || name == item.UniqueID() {
			continue
		}

		key := strings.ToLower(name)
		if _, ok := taken[key]; ok {
			continue
		}
		taken[key] = struct{}{}
		item.SetOutputName(name)
	}
}

// Kind implements the sql.Node interface.
func (*Projection) Kind() sql.Kind { return sql.KindProjection }

// Children implements the sql.Node interface.
func (p *Projection) Children() []sql.Node {
	children := make([]sql.Node, len(p.Items))
	for i, item := range p.Items {
		children[i] = item
	}
	return children
}

// Render implements the sql.Node interface.
func (p *Projection) Render(level int) string {
	var items []string
	if p.Star || len(p.Items) == 0 {
		items = append(items, sql.Indent(level)+"*")
	}

	for _, item := range p.Items {
		items = append(items, sql.Indent(level)+item.Render(level))
	}

	if sql.Pretty(level) {
		return strings.Join(items, ",\n")
	}
	return strings.Join(items, ", ")
}
