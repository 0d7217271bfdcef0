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
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-bqsql.v0/sql"
)

func TestCloneKeepsTargets(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	target, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)

	ref := NewColumnReference(ctx, "id", nil)
	require.NoError(ref.PointTo(target))

	original := NewConjunction(
		NewEquals(ref, NewLiteral(1)),
		NewNegation(NewComparison(ref, OpIsNull, nil)),
	)

	cloned, err := Clone(ctx, original)
	require.NoError(err)
	require.Equal(original.RenderExpr(), cloned.RenderExpr())

	cmp := cloned.(*Conjunction).Predicates[0].(*Comparison)
	clonedRef := cmp.Left.(*ColumnReference)
	require.True(clonedRef != ref)
	require.NotEqual(ref.ID(), clonedRef.ID())

	pointed, ok := clonedRef.Pointed()
	require.True(ok)
	require.Equal(target, pointed)
	require.Equal([]sql.NodeID{ref.ID(), clonedRef.ID()}, ctx.Graph.Referrers(target.ID()))

	clonedRef.Unresolve()
	require.True(ref.IsResolved())
	require.False(clonedRef.IsResolved())
}

func TestCloneKeepsSharedNodesShared(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	target, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)

	ref := NewColumnReference(ctx, "id", nil)
	require.NoError(ref.PointTo(target))
	sum := NewArithmetic(ref, "+", NewLiteral(1))

	original := NewDisjunction(
		NewEquals(sum, NewLiteral(2)),
		NewComparison(sum, ">", ref),
	)

	cloned, err := Clone(ctx, original)
	require.NoError(err)

	preds := cloned.(*Disjunction).Predicates
	left := preds[0].(*Comparison).Left.(*Arithmetic)
	right := preds[1].(*Comparison)
	require.True(left != sum)
	require.True(right.Left == sql.Expression(left))
	require.True(right.Right == left.Left)
	require.Len(ctx.Graph.Referrers(target.ID()), 2)
}

func TestCopierPointsAtCopiedItems(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	outer, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)
	inner, err := NewColumnCall(ctx, "total", nil, "")
	require.NoError(err)

	call, err := NewPointingColumnCall(ctx, inner, nil)
	require.NoError(err)
	ref := NewColumnReference(ctx, "id", nil)
	require.NoError(ref.PointTo(outer))

	c := NewCopier(ctx)
	copiedInner, err := c.Item(inner)
	require.NoError(err)
	copiedCall, err := c.Item(call)
	require.NoError(err)
	copiedRef, err := c.Copy(ref)
	require.NoError(err)
	require.NoError(c.Link())

	require.NotEqual(inner.UniqueID(), copiedInner.UniqueID())
	target, ok := copiedCall.(*ColumnCall).Pointed()
	require.True(ok)
	require.Equal(copiedInner.ID(), target.ID())

	target, ok = copiedRef.(*ColumnReference).Pointed()
	require.True(ok)
	require.Equal(outer.ID(), target.ID())

	target, ok = call.Pointed()
	require.True(ok)
	require.Equal(inner.ID(), target.ID())
}

func TestCloneSharesLiterals(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	lit := NewLiteral(1)
	original := NewEquals(NewRawLiteral("a"), lit)

	cloned, err := Clone(ctx, original)
	require.NoError(err)
	require.True(cloned != sql.Expression(original))
	require.True(cloned.(*Comparison).Right == sql.Expression(lit))
}

func TestCloneFunctionCall(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	f, err := NewFunctionCall(ctx, "count", "", true, NewRawLiteral("x"))
	require.NoError(err)

	cloned, err := Clone(ctx, f)
	require.NoError(err)

	g := cloned.(*FunctionCall)
	require.Equal("COUNT(DISTINCT x)", g.RenderExpr())
	require.NotEqual(f.UniqueID(), g.UniqueID())
}

func TestCloneNil(t *testing.T) {
	require := require.New(t)

	cloned, err := Clone(sql.NewEmptyContext(), nil)
	require.NoError(err)
	require.Nil(cloned)
}

func TestCloneCase(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	original := NewCase(NewRawLiteral("x"), []When{
		{Cond: NewLiteral(1), Val: NewArithmetic(NewRawLiteral("a"), "+", NewLiteral(1))},
	}, NewTuple(NewLiteral(2)))

	cloned, err := Clone(ctx, original)
	require.NoError(err)
	require.Equal(original.RenderExpr(), cloned.RenderExpr())
	require.True(cloned.(*Case) != original)
}
