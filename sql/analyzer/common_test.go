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
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-bqsql.v0/mem"
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

func newTestContext(dataset string) *sql.Context {
	c := mem.NewCatalog()

	sales := mem.NewDatabase("sales")
	sales.AddTable(mem.NewTable("orders", "id", "customer_id", "total"))
	sales.AddTable(mem.NewTable("customers", "id", "name"))
	sales.AddTable(mem.NewTable("items", "order_id", "sku"))
	c.AddDatabase("acme", sales)

	session := sql.NewSession("acme", dataset, c)
	return sql.NewContext(context.Background(), sql.WithSession(session))
}

func table(t *testing.T, ctx *sql.Context, name, alias string) *plan.Subquery {
	t.Helper()

	sq, err := plan.NewTableSubquery(ctx, plan.NewSourceTable("", "", name, alias))
	require.NoError(t, err)
	require.NoError(t, ExpandTable(ctx, sq))
	return sq
}

func column(ctx *sql.Context, name string, prefixes ...string) *expression.ColumnReference {
	return expression.NewColumnReference(ctx, name, prefixes)
}

func resolved(t *testing.T, ctx *sql.Context, res *Resolution, name string, prefixes ...string) *expression.ColumnReference {
	t.Helper()

	ref := column(ctx, name, prefixes...)
	require.NoError(t, ResolveColumn(ctx, ref, res))
	require.True(t, ref.IsResolved(), "%s should be resolved", ref.FullName())
	return ref
}

func pointed(t *testing.T, p interface {
	Pointed() (sql.Projected, bool)
}) sql.Projected {
	t.Helper()

	target, ok := p.Pointed()
	require.True(t, ok)
	return target
}

func eq(left, right sql.Expression) sql.Expression {
	return expression.NewEquals(left, right)
}

func gt(left sql.Expression, value interface{}) sql.Expression {
	return expression.NewComparison(left, ">", expression.NewLiteral(value))
}

func and(preds ...sql.Expression) sql.Expression {
	return expression.NewConjunction(preds...)
}

func or(preds ...sql.Expression) sql.Expression {
	return expression.NewDisjunction(preds...)
}

// wrapper wraps the items of sq in a new subquery re-projecting them, as a
// union branch would.
func wrapper(t *testing.T, ctx *sql.Context, sq *plan.Subquery, alias string, propagateUID bool) *plan.Subquery {
	t.Helper()

	w, err := plan.NewSubquery(ctx, plan.NewSelectStatement(plan.NewFromClause(sq)), alias)
	require.NoError(t, err)

	items, err := ExpandStar(ctx, sq, propagateUID)
	require.NoError(t, err)
	w.Statement().Projection.Add(items...)
	return w
}

func joinOf(t *testing.T, sq *plan.Subquery) *plan.JoinExpression {
	t.Helper()

	from := sq.Statement().From
	require.NotNil(t, from)
	require.Len(t, from.Items, 1)

	j, ok := from.Items[0].(*plan.JoinExpression)
	require.True(t, ok, "expecting a join, got %T", from.Items[0])
	return j
}
