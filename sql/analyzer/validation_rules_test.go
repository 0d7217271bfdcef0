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

func TestValidateTree(t *testing.T) {
	ctx := newTestContext("sales")

	stmt, _ := joinedStatement(t, ctx, "name")
	_, err := validateTree(ctx, NewDefault(), stmt)
	require.NoError(t, err)

	leaf := gt(column(ctx, "total"), 1)
	testCases := []struct {
		name string
		pred sql.Expression
	}{
		{"unary conjunction", &expression.Conjunction{Predicates: []sql.Expression{leaf}}},
		{"empty disjunction", &expression.Disjunction{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			bad := plan.NewSelectStatement(plan.NewFromClause(table(t, ctx, "orders", "o")))
			bad.SetWhere(tt.pred)

			_, err := validateTree(ctx, NewDefault(), bad)
			require.Error(err)
			require.True(sql.ErrTreeShape.Is(err))
		})
	}
}

func TestValidateTreeJoinSides(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	j := &plan.JoinExpression{Left: table(t, ctx, "orders", "o")}
	stmt := plan.NewSelectStatement(plan.NewFromClause(j))

	_, err := validateTree(ctx, NewDefault(), stmt)
	require.Error(err)
	require.True(sql.ErrTreeShape.Is(err))
}
