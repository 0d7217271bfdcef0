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
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
)

// JoinType is the type of a join.
type JoinType byte

const (
	// JoinUnspecified is a join without type keyword, an inner join.
	JoinUnspecified JoinType = iota
	// JoinInner is an INNER JOIN.
	JoinInner
	// JoinLeft is a LEFT OUTER JOIN.
	JoinLeft
	// JoinRight is a RIGHT OUTER JOIN.
	JoinRight
	// JoinFull is a FULL OUTER JOIN.
	JoinFull
	// JoinCross is a CROSS JOIN.
	JoinCross
)

func (t JoinType) String() string {
	switch t {
	case JoinInner:
		return "INNER JOIN"
	case JoinLeft:
		return "LEFT OUTER JOIN"
	case JoinRight:
		return "RIGHT OUTER JOIN"
	case JoinFull:
		return "FULL OUTER JOIN"
	case JoinCross:
		return "CROSS JOIN"
	default:
		return "JOIN"
	}
}

// JoinExpression joins two subqueries.
type JoinExpression struct {
	Left  *Subquery
	Right *Subquery
	Type  JoinType
	On    *OnClause
}

var _ sql.Node = (*JoinExpression)(nil)

// NewJoinExpression joins left and right. Both sides are marked as part of a
// join.
func NewJoinExpression(left, right *Subquery, typ JoinType, on *OnClause) *JoinExpression {
	left.inJoin = true
	right.inJoin = true
	return &JoinExpression{Left: left, Right: right, Type: typ, On: on}
}

// Kind implements the sql.Node interface.
func (*JoinExpression) Kind() sql.Kind { return sql.KindJoin }

// Children implements the sql.Node interface.
func (j *JoinExpression) Children() []sql.Node {
	children := []sql.Node{j.Left, j.Right}
	if j.On != nil {
		children = append(children, j.On)
	}
	return children
}

// Render implements the sql.Node interface.
func (j *JoinExpression) Render(level int) string {
	var on string
	if j.On != nil && len(j.On.Conditions) > 0 {
		on = "ON " + j.On.RenderExpr()
	}

	if !sql.Pretty(level) {
		parts := []string{j.Left.Render(-1), j.Type.String(), j.Right.Render(-1)}
		if on != "" {
			parts = append(parts, on)
		}
		return strings.Join(parts, " ")
	}

	lines := []string{
		j.Left.Render(level),
		sql.Indent(level) + j.Type.String(),
		j.Right.Render(level),
	}
	if on != "" {
		lines = append(lines, sql.Indent(level)+on)
	}
	return strings.Join(lines, "\n")
}

func (j *JoinExpression) String() string { return j.Render(0) }

// Logical operators between the conditions of an ON clause.
const (
	OpAnd = "AND"
	OpOr  = "OR"
)

// OnClause is the ON clause of a join: a list of conditions separated by AND
// or OR operators.
type OnClause struct {
	Conditions []sql.Expression
	Operators  []string
}

var _ sql.Expression = (*OnClause)(nil)

// NewOnClause creates a clause with the conditions ANDed.
func NewOnClause(conds ...sql.Expression) *OnClause {
	o := &OnClause{}
	for _, c := range conds {
		o.And(c)
	}
	return o
}

// And appends a condition with the AND operator.
func (o *OnClause) And(cond sql.Expression) { o.add(OpAnd, cond) }

// Or appends a condition with the OR operator.
func (o *OnClause) Or(cond sql.Expression) { o.add(OpOr, cond) }

func (o *OnClause) add(op string, cond sql.Expression) {
	if len(o.Conditions) > 0 {
		o.Operators = append(o.Operators, op)
	}
	o.Conditions = append(o.Conditions, cond)
}

// Predicate returns the clause as a predicate tree, AND binding tighter than
// OR.
func (o *OnClause) Predicate() sql.Expression {
	if len(o.Conditions) == 0 {
		return nil
	}

	var branches []sql.Expression
	group := []sql.Expression{o.Conditions[0]}
	for i, op := range o.Operators {
		if op == OpOr {
			branches = append(branches, expression.NewConjunction(group...))
			group = nil
		}
		group = append(group, o.Conditions[i+1])
	}
	branches = append(branches, expression.NewConjunction(group...))

	return expression.NewDisjunction(branches...)
}

// Kind implements the sql.Node interface.
func (*OnClause) Kind() sql.Kind { return sql.KindOn }

// Children implements the sql.Node interface.
func (o *OnClause) Children() []sql.Node {
	children := make([]sql.Node, len(o.Conditions))
	for i, c := range o.Conditions {
		children[i] = c
	}
	return children
}

// RenderExpr implements the sql.Expression interface.
func (o *OnClause) RenderExpr() string {
	var buf strings.Builder
	for i, c := range o.Conditions {
		if i > 0 {
			buf.WriteString(" " + o.Operators[i-1] + " ")
		}

		switch c.Kind() {
		case sql.KindConjunction, sql.KindDisjunction:
			buf.WriteString("(" + c.RenderExpr() + ")")
		default:
			buf.WriteString(c.RenderExpr())
		}
	}
	return buf.String()
}

// Render implements the sql.Node interface.
func (o *OnClause) Render(int) string { return o.RenderExpr() }
