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
	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// EquivalentColumn is the name of the constant column cross joins are keyed on.
const EquivalentColumn = "EQUIVALENT_COLUMN"

// ColumnCall is a column in a projection. A ColumnCall either points at the
// item of an inner statement it re-projects, or is a base column read from a
// source table.
type ColumnCall struct {
	projectedBase
	column   string
	prefixes []string
	alias    string
}

var _ sql.Projected = (*ColumnCall)(nil)

// NewColumnCall creates a column named name, written with the given scope
// prefixes, and an optional alias.
func NewColumnCall(ctx *sql.Context, name string, prefixes []string, alias string) (*ColumnCall, error) {
	c := &ColumnCall{
		column:   name,
		prefixes: append([]string(nil), prefixes...),
		alias:    alias,
	}
	if err := c.init(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewPointingColumnCall creates a column re-projecting target, carrying its
// name forward.
func NewPointingColumnCall(ctx *sql.Context, target sql.Projected, prefixes []string) (*ColumnCall, error) {
	c, err := NewColumnCall(ctx, target.Name(), prefixes, "")
	if err != nil {
		return nil, err
	}

	if err := c.PointTo(target); err != nil {
		return nil, err
	}
	return c, nil
}

// Column returns the source column name.
func (c *ColumnCall) Column() string { return c.column }

// Prefixes returns the scope prefixes the column was written with.
func (c *ColumnCall) Prefixes() []string { return c.prefixes }

// Alias returns the alias given in the query, if any.
func (c *ColumnCall) Alias() string { return c.alias }

// FullName returns the column as written in the query.
func (c *ColumnCall) FullName() string { return FullName(c.prefixes, c.column) }

// Name implements the sql.Projected interface.
func (c *ColumnCall) Name() string {
	if c.alias != "" {
		return c.alias
	}
	return c.column
}

// IsBase reports whether the column is read from a source table.
func (c *ColumnCall) IsBase() bool {
	return !c.IsResolved()
}

// Synonyms implements the sql.Projected interface.
func (c *ColumnCall) Synonyms() []string {
	if c.scope != nil && c.scope.Transparent() {
		var names []string
		if target, ok := c.Pointed(); ok {
			names = append(names, target.Synonyms()...)
		}
		names = append(names, qualify(c.scope, c.uniqueID)...)
		return dedupStrings(names)
	}

	names := qualify(c.scope, c.Name())
	names = append(names, qualify(c.scope, c.uniqueID)...)
	return dedupStrings(names)
}

// Kind implements the sql.Node interface.
func (*ColumnCall) Kind() sql.Kind { return sql.KindColumnCall }

// Children implements the sql.Node interface.
func (*ColumnCall) Children() []sql.Node { return nil }

// RenderExpr implements the sql.Expression interface.
func (c *ColumnCall) RenderExpr() string {
	if target, ok := c.Pointed(); ok {
		return QualifiedName(c.scope, target)
	}
	return c.FullName()
}

// Render implements the sql.Node interface.
func (c *ColumnCall) Render(int) string {
	return c.RenderExpr() + " AS " + c.OutputName()
}

func (c *ColumnCall) String() string { return c.Render(-1) }

// ColumnReference is the usage of a column outside of a projection: in a
// predicate, a GROUP BY, an ORDER BY, an ON clause or a function parameter.
type ColumnReference struct {
	pointer
	name     string
	prefixes []string
	scope    sql.Scope
	star     bool
}

var _ sql.Expression = (*ColumnReference)(nil)

// NewColumnReference creates a reference to the column name, written with
// the given scope prefixes.
func NewColumnReference(ctx *sql.Context, name string, prefixes []string) *ColumnReference {
	r := &ColumnReference{
		name:     name,
		prefixes: append([]string(nil), prefixes...),
	}
	r.graph = ctx.Graph
	r.id = ctx.Graph.Add(r)
	return r
}

// NewStarReference creates the parameter of COUNT(*). It always renders as *
// but can point at a column to keep it alive.
func NewStarReference(ctx *sql.Context) *ColumnReference {
	r := NewColumnReference(ctx, "*", nil)
	r.star = true
	return r
}

// Name returns the referenced column name.
func (r *ColumnReference) Name() string { return r.name }

// Prefixes returns the scope prefixes the reference was written with.
func (r *ColumnReference) Prefixes() []string { return r.prefixes }

// FullName returns the reference as written in the query.
func (r *ColumnReference) FullName() string { return FullName(r.prefixes, r.name) }

// IsStar reports whether this is the parameter of COUNT(*).
func (r *ColumnReference) IsStar() bool { return r.star }

// Scope returns the statement the reference is used in.
func (r *ColumnReference) Scope() sql.Scope { return r.scope }

// SetScope sets the statement the reference is used in.
func (r *ColumnReference) SetScope(s sql.Scope) { r.scope = s }

// Kind implements the sql.Node interface.
func (*ColumnReference) Kind() sql.Kind { return sql.KindColumnReference }

// Children implements the sql.Node interface.
func (*ColumnReference) Children() []sql.Node { return nil }

// RenderExpr implements the sql.Expression interface. Unresolved references
// render as written.
func (r *ColumnReference) RenderExpr() string {
	if r.star {
		return "*"
	}

	if target, ok := r.Pointed(); ok {
		return QualifiedName(r.scope, target)
	}
	return r.FullName()
}

// Render implements the sql.Node interface.
func (r *ColumnReference) Render(int) string { return r.RenderExpr() }

func (r *ColumnReference) String() string { return r.RenderExpr() }
