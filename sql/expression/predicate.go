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

import (
	"strings"

	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// Comparison operators with a special shape.
const (
	OpEquals    = "="
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
	OpExists    = "EXISTS"
	OpBetween   = "BETWEEN"
)

// Comparison is a leaf of a boolean predicate. Left is nil for EXISTS and
// Right is nil for the IS [NOT] NULL family.
type Comparison struct {
	Left     sql.Expression
	Operator string
	Right    sql.Expression
}

var _ sql.Expression = (*Comparison)(nil)

// NewComparison creates a comparison between left and right.
func NewComparison(left sql.Expression, op string, right sql.Expression) *Comparison {
	return &Comparison{Left: left, Operator: strings.ToUpper(op), Right: right}
}

// NewEquals creates an equality between left and right.
func NewEquals(left, right sql.Expression) *Comparison {
	return NewComparison(left, OpEquals, right)
}

// IsEquality reports whether the operator is =.
func (c *Comparison) IsEquality() bool { return c.Operator == OpEquals }

// ColumnReferences returns both operands when they are column references.
func (c *Comparison) ColumnReferences() (left, right *ColumnReference, ok bool) {
	left, lok := c.Left.(*ColumnReference)
	right, rok := c.Right.(*ColumnReference)
	return left, right, lok && rok
}

// Kind implements the sql.Node interface.
func (*Comparison) Kind() sql.Kind { return sql.KindComparison }

// Children implements the sql.Node interface.
func (c *Comparison) Children() []sql.Node {
	var children []sql.Node
	if c.Left != nil {
		children = append(children, c.Left)
	}
	if c.Right != nil {
		children = append(children, c.Right)
	}
	return children
}

// RenderExpr implements the sql.Expression interface.
func (c *Comparison) RenderExpr() string {
	switch {
	case c.Left == nil:
		return c.Operator + " " + c.Right.RenderExpr()
	case c.Right == nil:
		return c.Left.RenderExpr() + " " + c.Operator
	default:
		return c.Left.RenderExpr() + " " + c.Operator + " " + c.Right.RenderExpr()
	}
}

// Render implements the sql.Node interface.
func (c *Comparison) Render(int) string { return c.RenderExpr() }

func (c *Comparison) String() string { return c.RenderExpr() }

// Conjunction is the AND of two or more predicates.
type Conjunction struct {
	Predicates []sql.Expression
}

var _ sql.Expression = (*Conjunction)(nil)

// NewConjunction returns the AND of the given predicates. Nested conjunctions
// are flattened, nil predicates are skipped, and fewer than two predicates
// are returned as is, so a Conjunction is never empty nor unary.
func NewConjunction(preds ...sql.Expression) sql.Expression {
	var flat []sql.Expression
	for _, p := range preds {
		switch p := p.(type) {
		case nil:
		case *Conjunction:
			flat = append(flat, p.Predicates...)
		default:
			flat = append(flat, p)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &Conjunction{Predicates: flat}
	}
}

// Kind implements the sql.Node interface.
func (*Conjunction) Kind() sql.Kind { return sql.KindConjunction }

// Children implements the sql.Node interface.
func (c *Conjunction) Children() []sql.Node { return predicateNodes(c.Predicates) }

// RenderExpr implements the sql.Expression interface.
func (c *Conjunction) RenderExpr() string {
	parts := make([]string, len(c.Predicates))
	for i, p := range c.Predicates {
		parts[i] = parenthesize(p, sql.KindDisjunction)
	}
	return strings.Join(parts, " AND ")
}

// Render implements the sql.Node interface.
func (c *Conjunction) Render(int) string { return c.RenderExpr() }

func (c *Conjunction) String() string { return c.RenderExpr() }

// Disjunction is the OR of two or more predicates.
type Disjunction struct {
	Predicates []sql.Expression
}

var _ sql.Expression = (*Disjunction)(nil)

// NewDisjunction returns the OR of the given predicates. Nested disjunctions
// are flattened, then branches that repeat another branch or are absorbed by
// a less restrictive one are dropped: in A OR (A AND B) only A survives.
// Fewer than two remaining branches are returned as is.
func NewDisjunction(preds ...sql.Expression) sql.Expression {
	var flat []sql.Expression
	for _, p := range preds {
		switch p := p.(type) {
		case nil:
		case *Disjunction:
			flat = append(flat, p.Predicates...)
		default:
			flat = append(flat, p)
		}
	}

	flat = removeAbsorbed(flat)

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &Disjunction{Predicates: flat}
	}
}

// removeAbsorbed drops every branch whose conjuncts are a superset of the
// conjuncts of another branch. Of two equal branches the first one is kept.
func removeAbsorbed(branches []sql.Expression) []sql.Expression {
	sets := make([]map[string]struct{}, len(branches))
	for i, b := range branches {
		sets[i] = make(map[string]struct{})
		for _, leaf := range Conjuncts(b) {
			sets[i][leaf.RenderExpr()] = struct{}{}
		}
	}

	var result []sql.Expression
	for i, b := range branches {
		absorbed := false
		for j := range branches {
			if i == j || !subset(sets[j], sets[i]) {
				continue
			}
			// equal sets: only the later branch goes away
			if len(sets[i]) > len(sets[j]) || j < i {
				absorbed = true
				break
			}
		}
		if !absorbed {
			result = append(result, b)
		}
	}
	return result
}

func subset(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Kind implements the sql.Node interface.
func (*Disjunction) Kind() sql.Kind { return sql.KindDisjunction }

// Children implements the sql.Node interface.
func (d *Disjunction) Children() []sql.Node { return predicateNodes(d.Predicates) }

// RenderExpr implements the sql.Expression interface.
func (d *Disjunction) RenderExpr() string {
	parts := make([]string, len(d.Predicates))
	for i, p := range d.Predicates {
		parts[i] = parenthesize(p, sql.KindConjunction)
	}
	return strings.Join(parts, " OR ")
}

// Render implements the sql.Node interface.
func (d *Disjunction) Render(int) string { return d.RenderExpr() }

func (d *Disjunction) String() string { return d.RenderExpr() }

// Negation is the NOT of a predicate.
type Negation struct {
	Predicate sql.Expression
}

var _ sql.Expression = (*Negation)(nil)

// NewNegation creates the negation of the predicate.
func NewNegation(pred sql.Expression) *Negation {
	return &Negation{Predicate: pred}
}

// Kind implements the sql.Node interface.
func (*Negation) Kind() sql.Kind { return sql.KindNegation }

// Children implements the sql.Node interface.
func (n *Negation) Children() []sql.Node { return []sql.Node{n.Predicate} }

// RenderExpr implements the sql.Expression interface.
func (n *Negation) RenderExpr() string {
	return "NOT (" + n.Predicate.RenderExpr() + ")"
}

// Render implements the sql.Node interface.
func (n *Negation) Render(int) string { return n.RenderExpr() }

func (n *Negation) String() string { return n.RenderExpr() }

// Conjuncts returns the predicates of a conjunction, or the predicate itself.
func Conjuncts(e sql.Expression) []sql.Expression {
	if c, ok := e.(*Conjunction); ok {
		return c.Predicates
	}
	if e == nil {
		return nil
	}
	return []sql.Expression{e}
}

// Disjuncts returns the branches of a disjunction, or the predicate itself.
func Disjuncts(e sql.Expression) []sql.Expression {
	if d, ok := e.(*Disjunction); ok {
		return d.Predicates
	}
	if e == nil {
		return nil
	}
	return []sql.Expression{e}
}

func parenthesize(e sql.Expression, kind sql.Kind) string {
	if e.Kind() == kind {
		return "(" + e.RenderExpr() + ")"
	}
	return e.RenderExpr()
}

func predicateNodes(preds []sql.Expression) []sql.Node {
	children := make([]sql.Node, len(preds))
	for i, p := range preds {
		children[i] = p
	}
	return children
}
