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

func renderBranches(branches [][]sql.Expression) [][]string {
	result := make([][]string, len(branches))
	for i, b := range branches {
		result[i] = renderExprs(b)
	}
	return result
}

func TestToDNF(t *testing.T) {
	a, b, c, d := leaf("a"), leaf("b"), leaf("c"), leaf("d")

	testCases := []struct {
		name     string
		pred     sql.Expression
		expected [][]string
	}{
		{
			"leaf",
			a,
			[][]string{{"a = 1"}},
		},
		{
			"conjunction",
			&Conjunction{Predicates: []sql.Expression{a, b}},
			[][]string{{"a = 1", "b = 1"}},
		},
		{
			"distributed disjunction",
			&Conjunction{Predicates: []sql.Expression{
				&Disjunction{Predicates: []sql.Expression{a, b}},
				c,
			}},
			[][]string{{"a = 1", "c = 1"}, {"b = 1", "c = 1"}},
		},
		{
			"nested",
			&Conjunction{Predicates: []sql.Expression{
				a,
				&Disjunction{Predicates: []sql.Expression{
					b,
					&Conjunction{Predicates: []sql.Expression{c, d}},
				}},
			}},
			[][]string{{"a = 1", "b = 1"}, {"a = 1", "c = 1", "d = 1"}},
		},
		{
			"negation is a leaf",
			&Conjunction{Predicates: []sql.Expression{
				NewNegation(&Disjunction{Predicates: []sql.Expression{a, b}}),
				c,
			}},
			[][]string{{"NOT (a = 1 OR b = 1)", "c = 1"}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, renderBranches(ToDNF(tt.pred)))
		})
	}
}

func TestToDNFNil(t *testing.T) {
	require.Nil(t, ToDNF(nil))
}

func TestToDNFDeepTree(t *testing.T) {
	require := require.New(t)

	const depth = 2000
	var pred sql.Expression = leaf("x")
	for i := 0; i < depth; i++ {
		pred = &Conjunction{Predicates: []sql.Expression{leaf("x"), pred}}
	}

	branches := ToDNF(pred)
	require.Len(branches, 1)
	require.Len(branches[0], depth+1)
}

func TestFromDNF(t *testing.T) {
	require := require.New(t)

	a, b, c := leaf("a"), leaf("b"), leaf("c")
	pred := FromDNF([][]sql.Expression{{a, c}, {b, c}})
	require.Equal("(a = 1 AND c = 1) OR (b = 1 AND c = 1)", pred.RenderExpr())

	require.Equal(a, FromDNF([][]sql.Expression{{a}}))
}
