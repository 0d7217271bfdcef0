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

package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type dummyNode string

func (dummyNode) Kind() Kind { return KindLiteral }
func (dummyNode) Children() []Node { return nil }
func (d dummyNode) Render(int) string { return string(d) }

func TestGraphPoint(t *testing.T) {
	require := require.New(t)

	g := NewGraph()
	a, b, c := g.Add(dummyNode("a")), g.Add(dummyNode("b")), g.Add(dummyNode("c"))

	require.NoError(g.Point(a, b))
	to, ok := g.Target(a)
	require.True(ok)
	require.Equal(b, to)
	require.True(g.IsPointedTo(b))
	require.Equal([]NodeID{a}, g.Referrers(b))

	// repointing updates the reverse index
	require.NoError(g.Point(a, c))
	require.False(g.IsPointedTo(b))
	require.True(g.IsPointedTo(c))

	g.Unpoint(a)
	require.False(g.IsPointedTo(c))
	_, ok = g.Target(a)
	require.False(ok)
}

func TestGraphExtras(t *testing.T) {
	require := require.New(t)

	g := NewGraph()
	ref := g.Add(dummyNode("ref"))
	x, y := g.Add(dummyNode("x")), g.Add(dummyNode("y"))

	require.NoError(g.Point(ref, x, x, y, y))
	require.Equal([]NodeID{y}, g.Extras(ref))
	require.True(g.IsPointedTo(x))
	require.True(g.IsPointedTo(y))

	g.Unpoint(ref)
	require.False(g.IsPointedTo(x))
	require.False(g.IsPointedTo(y))
	require.Empty(g.Extras(ref))
}

func TestGraphCycles(t *testing.T) {
	require := require.New(t)

	g := NewGraph()
	a, b, c := g.Add(dummyNode("a")), g.Add(dummyNode("b")), g.Add(dummyNode("c"))

	require.NoError(g.Point(a, b))
	require.NoError(g.Point(b, c))

	err := g.Point(c, a)
	require.True(ErrPointerCycle.Is(err))

	err = g.Point(a, a)
	require.True(ErrPointerCycle.Is(err))

	require.Equal(c, g.Ultimate(a))
	require.Equal([]NodeID{a, b, c}, g.Chain(a))
}

func TestGraphRemove(t *testing.T) {
	require := require.New(t)

	g := NewGraph()
	a, b := g.Add(dummyNode("a")), g.Add(dummyNode("b"))
	require.NoError(g.Point(a, b))

	err := g.Remove(b)
	require.True(ErrNodeStillReferenced.Is(err))

	require.NoError(g.Remove(a))
	require.False(g.IsPointedTo(b))
	require.NoError(g.Remove(b))
	require.Equal(0, g.Len())

	err = g.Point(a, b)
	require.True(ErrNodeNotFound.Is(err))
}
