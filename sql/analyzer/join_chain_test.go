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
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
)

func TestJoinChain(t *testing.T) {
	t0 := expression.NewEquals(expression.NewRawLiteral("t0"), expression.NewLiteral(0))
	t1 := expression.NewEquals(expression.NewRawLiteral("t1"), expression.NewLiteral(1))
	t2 := expression.NewEquals(expression.NewRawLiteral("t2"), expression.NewLiteral(2))

	testCases := []struct {
		name     string
		terms    []joinTerm
		expected []joinComponent
	}{
		{
			"no terms",
			nil,
			nil,
		},
		{
			"chain",
			[]joinTerm{{t0, 0, 1}, {t1, 1, 2}},
			[]joinComponent{{first: 0, steps: []chainStep{
				{item: 1, terms: []*expression.Comparison{t0}},
				{item: 2, terms: []*expression.Comparison{t1}},
			}}},
		},
		{
			"same pair",
			[]joinTerm{{t0, 0, 1}, {t1, 1, 0}},
			[]joinComponent{{first: 0, steps: []chainStep{
				{item: 1, terms: []*expression.Comparison{t0, t1}},
			}}},
		},
		{
			"disconnected",
			[]joinTerm{{t0, 0, 1}, {t1, 2, 3}},
			[]joinComponent{
				{first: 0, steps: []chainStep{{item: 1, terms: []*expression.Comparison{t0}}}},
				{first: 2, steps: []chainStep{{item: 3, terms: []*expression.Comparison{t1}}}},
			},
		},
		{
			"cycle",
			[]joinTerm{{t0, 0, 2}, {t1, 0, 1}, {t2, 2, 1}},
			[]joinComponent{{first: 0, steps: []chainStep{
				{item: 2, terms: []*expression.Comparison{t0}},
				{item: 1, terms: []*expression.Comparison{t1, t2}},
			}}},
		},
		{
			"connected later",
			[]joinTerm{{t0, 0, 1}, {t1, 2, 3}, {t2, 1, 2}},
			[]joinComponent{{first: 0, steps: []chainStep{
				{item: 1, terms: []*expression.Comparison{t0}},
				{item: 2, terms: []*expression.Comparison{t2}},
				{item: 3, terms: []*expression.Comparison{t1}},
			}}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, joinChain(tt.terms))
		})
	}
}

func TestJoinComponentItems(t *testing.T) {
	c := joinComponent{first: 2, steps: []chainStep{{item: 0}, {item: 1}}}
	require.Equal(t, []int{2, 0, 1}, c.items())
}
