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
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingLookup struct {
	calls map[string]int
	fail  bool
}

func (l *countingLookup) Columns(_ context.Context, catalog, dataset, table, column string) ([]string, error) {
	l.calls["Columns"]++
	if l.fail {
		return nil, fmt.Errorf("backend unavailable")
	}
	return []string{"a", "b"}, nil
}

func (l *countingLookup) ColumnPrefixes(_ context.Context, catalog, column string) ([]string, error) {
	l.calls["ColumnPrefixes"]++
	return []string{"ds.t"}, nil
}

func (l *countingLookup) TableDatasets(_ context.Context, catalog, table string) ([]string, error) {
	l.calls["TableDatasets"]++
	return []string{"ds"}, nil
}

func TestMemoLookup(t *testing.T) {
	require := require.New(t)

	inner := &countingLookup{calls: make(map[string]int)}
	m := NewMemoLookup(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cols, err := m.Columns(ctx, "p", "ds", "t", AnyPattern)
		require.NoError(err)
		require.Equal([]string{"a", "b"}, cols)
	}
	require.Equal(1, inner.calls["Columns"])

	_, err := m.Columns(ctx, "p", "ds", "other", AnyPattern)
	require.NoError(err)
	require.Equal(2, inner.calls["Columns"])

	for i := 0; i < 2; i++ {
		_, err = m.ColumnPrefixes(ctx, "p", "a")
		require.NoError(err)
		_, err = m.TableDatasets(ctx, "p", "t")
		require.NoError(err)
	}
	require.Equal(1, inner.calls["ColumnPrefixes"])
	require.Equal(1, inner.calls["TableDatasets"])

	require.Equal(m, NewMemoLookup(m))
}

func TestMemoLookupErrorsAreNotMemoized(t *testing.T) {
	require := require.New(t)

	inner := &countingLookup{calls: make(map[string]int), fail: true}
	m := NewMemoLookup(inner)

	_, err := m.Columns(context.Background(), "p", "ds", "t", AnyPattern)
	require.True(ErrLookupFailed.Is(err))

	inner.fail = false
	cols, err := m.Columns(context.Background(), "p", "ds", "t", AnyPattern)
	require.NoError(err)
	require.Len(cols, 2)
	require.Equal(2, inner.calls["Columns"])
}

func TestMatchPattern(t *testing.T) {
	testCases := []struct {
		pattern string
		name    string
		ok      bool
	}{
		{"", "anything", true},
		{"%", "anything", true},
		{"users", "USERS", true},
		{"users", "user", false},
		{"us%", "users", true},
		{"us_rs", "users", true},
		{"us_rs", "usrs", false},
		{"a.b", "axb", false},
	}

	for _, tt := range testCases {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			require.Equal(t, tt.ok, MatchPattern(tt.pattern, tt.name))
		})
	}
}
