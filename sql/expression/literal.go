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
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// Literal is a constant value.
type Literal struct {
	value interface{}
	text  string
}

var _ sql.Expression = (*Literal)(nil)

// NewLiteral creates a literal of the given value. Strings are quoted, nil is
// NULL and numbers keep their usual representation.
func NewLiteral(value interface{}) *Literal {
	return &Literal{value: value, text: literalText(value)}
}

// NewRawLiteral creates a literal rendered exactly as the given text.
func NewRawLiteral(text string) *Literal {
	return &Literal{value: text, text: text}
}

func literalText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return QuoteString(v)
	case []byte:
		return QuoteString(string(v))
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return s
	}
}

// QuoteString returns s as a single quoted string literal.
func QuoteString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// Value returns the value of the literal.
func (l *Literal) Value() interface{} { return l.value }

// Kind implements the sql.Node interface.
func (*Literal) Kind() sql.Kind { return sql.KindLiteral }

// Children implements the sql.Node interface.
func (*Literal) Children() []sql.Node { return nil }

// RenderExpr implements the sql.Expression interface.
func (l *Literal) RenderExpr() string { return l.text }

// Render implements the sql.Node interface.
func (l *Literal) Render(int) string { return l.text }

func (l *Literal) String() string { return l.text }

// Tuple is a parenthesized list of expressions, the right side of IN.
type Tuple []sql.Expression

var _ sql.Expression = Tuple(nil)

// NewTuple creates a tuple of the given expressions.
func NewTuple(exprs ...sql.Expression) Tuple { return Tuple(exprs) }

// Kind implements the sql.Node interface.
func (Tuple) Kind() sql.Kind { return sql.KindTuple }

// Children implements the sql.Node interface.
func (t Tuple) Children() []sql.Node {
	children := make([]sql.Node, len(t))
	for i, e := range t {
		children[i] = e
	}
	return children
}

// RenderExpr implements the sql.Expression interface.
func (t Tuple) RenderExpr() string {
	return "(" + strings.Join(renderExprs(t), ", ") + ")"
}

// Render implements the sql.Node interface.
func (t Tuple) Render(int) string { return t.RenderExpr() }

// Range is the right side of a BETWEEN comparison.
type Range struct {
	From sql.Expression
	To   sql.Expression
}

var _ sql.Expression = (*Range)(nil)

// NewRange creates a range between from and to.
func NewRange(from, to sql.Expression) *Range {
	return &Range{From: from, To: to}
}

// Kind implements the sql.Node interface.
func (*Range) Kind() sql.Kind { return sql.KindRange }

// Children implements the sql.Node interface.
func (r *Range) Children() []sql.Node { return []sql.Node{r.From, r.To} }

// RenderExpr implements the sql.Expression interface.
func (r *Range) RenderExpr() string {
	return r.From.RenderExpr() + " AND " + r.To.RenderExpr()
}

// Render implements the sql.Node interface.
func (r *Range) Render(int) string { return r.RenderExpr() }

// Arithmetic is a binary arithmetic expression, or a unary one when Left is
// nil.
type Arithmetic struct {
	Left     sql.Expression
	Operator string
	Right    sql.Expression
}

var _ sql.Expression = (*Arithmetic)(nil)

// NewArithmetic creates a binary arithmetic expression.
func NewArithmetic(left sql.Expression, op string, right sql.Expression) *Arithmetic {
	return &Arithmetic{Left: left, Operator: op, Right: right}
}

// NewUnary creates a unary expression such as -x.
func NewUnary(op string, expr sql.Expression) *Arithmetic {
	return &Arithmetic{Operator: op, Right: expr}
}

// Kind implements the sql.Node interface.
func (*Arithmetic) Kind() sql.Kind { return sql.KindArithmetic }

// Children implements the sql.Node interface.
func (a *Arithmetic) Children() []sql.Node {
	if a.Left == nil {
		return []sql.Node{a.Right}
	}
	return []sql.Node{a.Left, a.Right}
}

// RenderExpr implements the sql.Expression interface.
func (a *Arithmetic) RenderExpr() string {
	if a.Left == nil {
		return a.Operator + operand(a.Right)
	}
	return fmt.Sprintf("%s %s %s", operand(a.Left), a.Operator, operand(a.Right))
}

// Render implements the sql.Node interface.
func (a *Arithmetic) Render(int) string { return a.RenderExpr() }

func operand(e sql.Expression) string {
	if a, ok := e.(*Arithmetic); ok && a.Left != nil {
		return "(" + a.RenderExpr() + ")"
	}
	return e.RenderExpr()
}

// When is a branch of a CASE expression.
type When struct {
	Cond sql.Expression
	Val  sql.Expression
}

// Case is a CASE expression. Value is nil for the searched form.
type Case struct {
	Value sql.Expression
	Whens []When
	Else  sql.Expression
}

var _ sql.Expression = (*Case)(nil)

// NewCase creates a CASE expression.
func NewCase(value sql.Expression, whens []When, elseExpr sql.Expression) *Case {
	return &Case{Value: value, Whens: whens, Else: elseExpr}
}

// Kind implements the sql.Node interface.
func (*Case) Kind() sql.Kind { return sql.KindCase }

// Children implements the sql.Node interface.
func (c *Case) Children() []sql.Node {
	var children []sql.Node
	if c.Value != nil {
		children = append(children, c.Value)
	}
	for _, w := range c.Whens {
		children = append(children, w.Cond, w.Val)
	}
	if c.Else != nil {
		children = append(children, c.Else)
	}
	return children
}

// RenderExpr implements the sql.Expression interface.
func (c *Case) RenderExpr() string {
	var buf strings.Builder
	buf.WriteString("CASE")
	if c.Value != nil {
		buf.WriteString(" " + c.Value.RenderExpr())
	}
	for _, w := range c.Whens {
		fmt.Fprintf(&buf, " WHEN %s THEN %s", w.Cond.RenderExpr(), w.Val.RenderExpr())
	}
	if c.Else != nil {
		buf.WriteString(" ELSE " + c.Else.RenderExpr())
	}
	buf.WriteString(" END")
	return buf.String()
}

// Render implements the sql.Node interface.
func (c *Case) Render(int) string { return c.RenderExpr() }
