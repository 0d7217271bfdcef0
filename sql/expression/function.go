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

	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// FunctionCall is a call to a function of the backend. It is projected when
// it appears in a SELECT list, and used as an operand anywhere else.
type FunctionCall struct {
	projectedBase
	name     string
	alias    string
	distinct bool
	params   []sql.Expression
}

var _ sql.Projected = (*FunctionCall)(nil)

// NewFunctionCall creates a call to the function name.
func NewFunctionCall(ctx *sql.Context, name, alias string, distinct bool, params ...sql.Expression) (*FunctionCall, error) {
	f := &FunctionCall{
		name:     strings.ToUpper(name),
		alias:    alias,
		distinct: distinct,
		params:   params,
	}
	if err := f.init(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Function returns the name of the called function.
func (f *FunctionCall) Function() string { return f.name }

// Alias returns the alias given in the query, if any.
func (f *FunctionCall) Alias() string { return f.alias }

// Params returns the parameters of the call.
func (f *FunctionCall) Params() []sql.Expression { return f.params }

// Name implements the sql.Projected interface.
func (f *FunctionCall) Name() string {
	if f.alias != "" {
		return f.alias
	}
	return f.uniqueID
}

// Synonyms implements the sql.Projected interface.
func (f *FunctionCall) Synonyms() []string {
	names := qualify(f.scope, f.alias)
	names = append(names, qualify(f.scope, f.uniqueID)...)
	return dedupStrings(names)
}

// Kind implements the sql.Node interface.
func (*FunctionCall) Kind() sql.Kind { return sql.KindFunctionCall }

// Children implements the sql.Node interface.
func (f *FunctionCall) Children() []sql.Node {
	children := make([]sql.Node, len(f.params))
	for i, p := range f.params {
		children[i] = p
	}
	return children
}

// RenderExpr implements the sql.Expression interface.
func (f *FunctionCall) RenderExpr() string {
	var distinct string
	if f.distinct {
		distinct = "DISTINCT "
	}
	return fmt.Sprintf("%s(%s%s)", f.name, distinct, strings.Join(renderExprs(f.params), ", "))
}

// Render implements the sql.Node interface.
func (f *FunctionCall) Render(int) string {
	return f.RenderExpr() + " AS " + f.OutputName()
}

func (f *FunctionCall) String() string { return f.Render(-1) }

// Computed is any projected expression that is neither a column nor a
// function call, e.g. arithmetic or a constant.
type Computed struct {
	projectedBase
	expr       sql.Expression
	alias      string
	equivalent bool
}

var _ sql.Projected = (*Computed)(nil)

// NewComputed creates a projected expression.
func NewComputed(ctx *sql.Context, expr sql.Expression, alias string) (*Computed, error) {
	c := &Computed{expr: expr, alias: alias}
	if err := c.init(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewEquivalentColumn creates the constant true column cross joins are keyed
// on.
func NewEquivalentColumn(ctx *sql.Context) (*Computed, error) {
	c, err := NewComputed(ctx, NewLiteral(true), EquivalentColumn)
	if err != nil {
		return nil, err
	}
	c.SetOutputName(EquivalentColumn)
	c.equivalent = true
	return c, nil
}

// Expr returns the projected expression.
func (c *Computed) Expr() sql.Expression { return c.expr }

// Alias returns the alias given in the query, if any.
func (c *Computed) Alias() string { return c.alias }

// IsEquivalentColumn reports whether this is the cross join key column.
func (c *Computed) IsEquivalentColumn() bool {
	return c.equivalent
}

// Name implements the sql.Projected interface.
func (c *Computed) Name() string {
	if c.alias != "" {
		return c.alias
	}
	return c.uniqueID
}

// Synonyms implements the sql.Projected interface.
func (c *Computed) Synonyms() []string {
	if c.IsEquivalentColumn() {
		return nil
	}

	names := qualify(c.scope, c.alias)
	names = append(names, qualify(c.scope, c.uniqueID)...)
	return dedupStrings(names)
}

// Kind implements the sql.Node interface.
func (*Computed) Kind() sql.Kind { return sql.KindComputed }

// Children implements the sql.Node interface.
func (c *Computed) Children() []sql.Node { return []sql.Node{c.expr} }

// RenderExpr implements the sql.Expression interface.
func (c *Computed) RenderExpr() string { return c.expr.RenderExpr() }

// Render implements the sql.Node interface.
func (c *Computed) Render(int) string {
	return c.RenderExpr() + " AS " + c.OutputName()
}

func (c *Computed) String() string { return c.Render(-1) }
