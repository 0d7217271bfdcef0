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

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

func names(items []sql.Projected) []string {
	var result []string
	for _, item := range items {
		result = append(result, item.Name())
	}
	return result
}

func TestExpandTable(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	o := table(t, ctx, "orders", "o")
	require.Equal([]string{"id", "customer_id", "total"}, names(o.Items()))
	for _, item := range o.Items() {
		col, ok := item.(*expression.ColumnCall)
		require.True(ok)
		require.True(col.IsBase())
		require.Equal(sql.Scope(o.Statement()), col.Scope())
	}

	require.Equal(
		"(SELECT id AS _aaab, customer_id AS _aaac, total AS _aaad FROM [acme:sales.orders]) AS o",
		o.Render(-1),
	)
}

func TestExpandTableUnknownColumns(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	p := table(t, ctx, "products", "")
	require.Empty(p.Items())
	require.True(p.Statement().Projection.Star)
	require.Equal("(SELECT * FROM [acme:sales.products]) AS _aaaa", p.Render(-1))
}

func TestExpandTableErrors(t *testing.T) {
	require := require.New(t)

	ctx := newTestContext("")
	sq, err := plan.NewTableSubquery(ctx, plan.NewSourceTable("", "", "products", ""))
	require.NoError(err)

	err = ExpandTable(ctx, sq)
	require.Error(err)
	require.True(sql.ErrTableNotFound.Is(err))

	other, err := plan.NewSubquery(ctx, plan.NewSelectStatement(plan.NewFromClause(sq)), "x")
	require.NoError(err)
	err = ExpandTable(ctx, other)
	require.Error(err)
	require.True(sql.ErrTreeShape.Is(err))
}

func TestExpandTableDetectsDataset(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("")

	c := table(t, ctx, "customers", "")
	tbl, ok := c.Table()
	require.True(ok)
	require.Equal("acme:sales.customers", tbl.FullName())
	require.Equal([]string{"id", "name"}, names(c.Items()))
}

func TestExpandStar(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	o := table(t, ctx, "orders", "o")
	_, err := equivalentColumn(ctx, o)
	require.NoError(err)
	require.Len(o.Items(), 4)

	items, err := ExpandStar(ctx, o, false)
	require.NoError(err)
	require.Equal([]string{"id", "customer_id", "total"}, names(items))
	for i, item := range items {
		require.Equal(o.Items()[i], pointed(t, item.(*expression.ColumnCall)))
		require.NotEqual(o.Items()[i].UniqueID(), item.UniqueID())
	}

	items, err = ExpandStar(ctx, o, true)
	require.NoError(err)
	for i, item := range items {
		require.Equal(o.Items()[i].UniqueID(), item.UniqueID())
	}
}

func TestExpandStatementStar(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	o := table(t, ctx, "orders", "o")
	c := table(t, ctx, "customers", "c")
	stmt := plan.NewSelectStatement(plan.NewFromClause(o, c))

	items, err := ExpandStatementStar(ctx, stmt)
	require.NoError(err)
	require.Equal([]string{"id", "customer_id", "total", "id", "name"}, names(items))
	require.False(stmt.Projection.Star)

	stmt = plan.NewSelectStatement(plan.NewFromClause(o, table(t, ctx, "products", "p")))
	items, err = ExpandStatementStar(ctx, stmt)
	require.NoError(err)
	require.Len(items, 3)
	require.True(stmt.Projection.Star)

	items, err = ExpandStatementStar(ctx, plan.NewSelectStatement(nil))
	require.NoError(err)
	require.Empty(items)
}

func TestExpandUnionStar(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	o := table(t, ctx, "orders", "o")
	a := wrapper(t, ctx, o, "", true)
	b := wrapper(t, ctx, o, "", true)
	a.SetTransparent(true)
	b.SetTransparent(true)
	stmt := plan.NewSelectStatement(plan.NewUnion(a, b))

	items, err := ExpandStatementStar(ctx, stmt)
	require.NoError(err)
	require.Equal([]string{"id", "customer_id", "total"}, names(items))

	for i, item := range items {
		col := item.(*expression.ColumnCall)
		require.Equal(a.Items()[i], pointed(t, col))
		require.Equal([]sql.Projected{b.Items()[i]}, col.ExtraPointed())
	}

	items, err = ExpandQualifiedStar(ctx, stmt, "o")
	require.NoError(err)
	require.Len(items, 3)

	_, err = ExpandQualifiedStar(ctx, stmt, "x")
	require.Error(err)
	require.True(sql.ErrColumnNotFound.Is(err))
}

func TestExpandQualifiedStar(t *testing.T) {
	ctx := newTestContext("sales")

	o := table(t, ctx, "orders", "o")
	c := table(t, ctx, "customers", "")
	p := table(t, ctx, "products", "p")
	stmt := plan.NewSelectStatement(plan.NewFromClause(o, c, p))

	testCases := []struct {
		scope    string
		expected []string
		star     bool
		err      bool
	}{
		{"o", []string{"id", "customer_id", "total"}, false, false},
		{"customers", []string{"id", "name"}, false, false},
		{"sales.customers", []string{"id", "name"}, false, false},
		{"p", nil, true, false},
		{"x", nil, false, true},
	}

	for _, tt := range testCases {
		t.Run(tt.scope, func(t *testing.T) {
			require := require.New(t)
			stmt.Projection.Star = false

			items, err := ExpandQualifiedStar(ctx, stmt, tt.scope)
			if tt.err {
				require.Error(err)
				require.True(sql.ErrColumnNotFound.Is(err))
				return
			}

			require.NoError(err)
			require.Equal(tt.expected, names(items))
			require.Equal(tt.star, stmt.Projection.Star)
		})
	}
}
