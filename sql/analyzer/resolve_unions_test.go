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
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

func TestUnifyBranches(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	o := table(t, ctx, "orders", "o")
	a := wrapper(t, ctx, o, "", true)
	b := wrapper(t, ctx, o, "", false)

	items := b.Statement().Projection.Items
	items[0], items[2] = items[2], items[0]
	require.Equal([]string{"total", "customer_id", "id"}, names(b.Items()))

	require.NoError(UnifyBranches(ctx, []*plan.Subquery{a, b}))
	require.Equal([]string{"id", "customer_id", "total"}, names(b.Items()))
	for i, item := range a.Items() {
		require.Equal(item.UniqueID(), b.Items()[i].UniqueID())
	}
}

func TestUnifyBranchesMismatch(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	o := table(t, ctx, "orders", "o")
	c := table(t, ctx, "customers", "c")

	err := UnifyBranches(ctx, []*plan.Subquery{wrapper(t, ctx, o, "", true), wrapper(t, ctx, c, "", true)})
	require.Error(err)
	require.True(sql.ErrTreeShape.Is(err))

	a := wrapper(t, ctx, o, "", true)
	b := wrapper(t, ctx, o, "", true)
	b.Statement().Projection.Items[1] = c.Items()[1]

	err = UnifyBranches(ctx, []*plan.Subquery{a, b})
	require.Error(err)
	require.True(sql.ErrTreeShape.Is(err))

	require.NoError(UnifyBranches(ctx, []*plan.Subquery{a}))
}

func TestValidateUnions(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	o := table(t, ctx, "orders", "o")
	c := table(t, ctx, "customers", "c")

	stmt := plan.NewSelectStatement(plan.NewUnion(wrapper(t, ctx, o, "", true), wrapper(t, ctx, o, "", true)))
	_, err := validateUnions(ctx, NewDefault(), stmt)
	require.NoError(err)

	stmt = plan.NewSelectStatement(plan.NewUnion(wrapper(t, ctx, o, "", true), wrapper(t, ctx, c, "", true)))
	_, err = validateUnions(ctx, NewDefault(), stmt)
	require.Error(err)
	require.True(sql.ErrTreeShape.Is(err))
}
