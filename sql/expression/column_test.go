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

type testScope struct {
	qualifier   string
	qualifiers  []string
	transparent bool
}

func (s *testScope) Qualifier() (string, bool) { return s.qualifier, s.qualifier != "" }
func (s *testScope) Qualifiers() []string      { return s.qualifiers }
func (s *testScope) Transparent() bool         { return s.transparent }

func TestColumnCallBase(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	col, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)
	col.SetScope(&testScope{qualifier: "o", qualifiers: []string{"o"}})

	require.True(col.IsBase())
	require.Equal("_aaaa", col.UniqueID())
	require.Equal("id", col.Name())
	require.Equal("id AS _aaaa", col.Render(-1))
	require.Equal([]string{"id", "o.id", "_aaaa", "o._aaaa"}, col.Synonyms())
}

func TestColumnCallAlias(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	col, err := NewColumnCall(ctx, "total", []string{"o"}, "amount")
	require.NoError(err)

	require.Equal("amount", col.Name())
	require.Equal("o.total", col.FullName())
	require.Equal([]string{"amount", "_aaaa"}, col.Synonyms())
}

func TestPointingColumnCall(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	inner := &testScope{qualifier: "o", qualifiers: []string{"o"}}
	root := &testScope{}

	base, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)
	base.SetScope(inner)

	col, err := NewPointingColumnCall(ctx, base, []string{"o"})
	require.NoError(err)
	col.SetScope(root)

	require.False(col.IsBase())
	require.True(base.IsPointedTo())
	require.Equal("id", col.Name())
	require.Equal("o._aaaa AS _aaab", col.Render(-1))

	col.SetOutputName("id")
	require.Equal("o._aaaa AS id", col.Render(-1))

	col.Unresolve()
	require.False(base.IsPointedTo())
	require.Equal("o.id", col.RenderExpr())
}

func TestTransparentColumnCall(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	base, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)
	base.SetScope(&testScope{qualifier: "o", qualifiers: []string{"o"}})

	wrapper, err := NewPointingColumnCall(ctx, base, nil)
	require.NoError(err)
	wrapper.SetUniqueID(base.UniqueID())
	wrapper.SetScope(&testScope{qualifier: "_w", qualifiers: []string{"_w"}, transparent: true})

	require.Equal(
		[]string{"id", "o.id", "_aaaa", "o._aaaa", "_w._aaaa"},
		wrapper.Synonyms(),
	)
}

func TestColumnReference(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	target, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)
	target.SetScope(&testScope{qualifier: "o", qualifiers: []string{"o"}})

	ref := NewColumnReference(ctx, "id", []string{"o"})
	require.False(ref.IsResolved())
	require.Equal("o.id", ref.RenderExpr())

	require.NoError(ref.PointTo(target))
	ref.SetScope(&testScope{})
	require.True(ref.IsResolved())
	require.Equal("o._aaaa", ref.RenderExpr())

	ref.SetScope(target.Scope())
	require.Equal("_aaaa", ref.RenderExpr())
}

func TestStarReference(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	target, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)

	star := NewStarReference(ctx)
	require.True(star.IsStar())
	require.NoError(star.PointTo(target))
	require.Equal("*", star.RenderExpr())
	require.True(target.IsPointedTo())
}

func TestPointToExtras(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	a, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)
	b, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)

	ref := NewColumnReference(ctx, "id", nil)
	require.NoError(ref.PointTo(a, b))

	pointed, ok := ref.Pointed()
	require.True(ok)
	require.Equal(a, pointed)
	require.Equal([]sql.Projected{b}, ref.ExtraPointed())
	require.True(b.IsPointedTo())
}

func TestFunctionCall(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	f, err := NewFunctionCall(ctx, "sum", "", true, NewRawLiteral("x"))
	require.NoError(err)
	require.Equal("SUM", f.Function())
	require.Equal("_aaaa", f.Name())
	require.Equal("SUM(DISTINCT x) AS _aaaa", f.Render(-1))
	require.Equal([]string{"_aaaa"}, f.Synonyms())

	g, err := NewFunctionCall(ctx, "count", "n", false, NewRawLiteral("*"))
	require.NoError(err)
	require.Equal("n", g.Name())
	require.Equal("COUNT(*)", g.RenderExpr())
	require.Equal([]string{"n", "_aaab"}, g.Synonyms())
}

func TestComputed(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	c, err := NewComputed(ctx, NewArithmetic(NewRawLiteral("a"), "+", NewLiteral(1)), "")
	require.NoError(err)
	require.False(c.IsEquivalentColumn())
	require.Equal("a + 1 AS _aaaa", c.Render(-1))

	eq, err := NewEquivalentColumn(ctx)
	require.NoError(err)
	require.True(eq.IsEquivalentColumn())
	require.Nil(eq.Synonyms())
	require.Equal("true AS EQUIVALENT_COLUMN", eq.Render(-1))
}

func TestQualifiedName(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	named := &testScope{qualifier: "o"}
	anonymous := &testScope{}

	col, err := NewColumnCall(ctx, "id", nil, "")
	require.NoError(err)

	require.Equal("_aaaa", QualifiedName(named, col))

	col.SetScope(named)
	require.Equal("_aaaa", QualifiedName(named, col))
	require.Equal("o._aaaa", QualifiedName(anonymous, col))

	col.SetScope(anonymous)
	require.Equal("_aaaa", QualifiedName(named, col))
}
