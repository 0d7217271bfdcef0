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
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-bqsql.v0/sql"
)

func TestWalkHelpers(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	left := tableSubquery(t, ctx, "orders", "o", "id")
	right := tableSubquery(t, ctx, "customers", "c", "id", "name")

	first, err := NewSubquery(ctx, NewSelectStatement(NewFromClause(NewJoinExpression(left, right, JoinInner, nil))), "")
	require.NoError(err)
	second, err := NewSubquery(ctx, NewSelectStatement(NewFromClause(left)), "")
	require.NoError(err)

	root := NewSelectStatement(NewUnion(first, second))
	require.True(root.From.Union)
	require.True(first.IsUnion())

	require.Equal([]*Subquery{first, left, right, second}, Subqueries(root))

	stmts := Statements(root)
	require.Len(stmts, 5)
	require.Equal(root, stmts[0])

	require.Len(Projections(root), 3)

	var kinds []sql.Kind
	Inspect(right, func(n sql.Node) bool {
		if n != nil {
			kinds = append(kinds, n.Kind())
		}
		return true
	})
	require.Equal(sql.KindSubquery, kinds[0])
	require.Contains(kinds, sql.KindSourceTable)
}

func TestFromClauseIndexOf(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	a := tableSubquery(t, ctx, "orders", "o")
	b := tableSubquery(t, ctx, "customers", "c")
	from := NewFromClause(a, b)

	require.Equal(1, from.IndexOf(b.Statement()))
	require.Equal(-1, from.IndexOf(NewSelectStatement(nil)))
	require.Equal("(SELECT * FROM [acme:sales.orders]) AS o, (SELECT * FROM [acme:sales.customers]) AS c", from.Render(-1))
}
