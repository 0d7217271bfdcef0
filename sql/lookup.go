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
	"regexp"
	"strings"
	"sync"

	"github.com/mitchellh/hashstructure"
)

// AnyPattern matches every name.
const AnyPattern = "%"

// SchemaLookup answers schema questions about a catalog. Patterns follow the
// LIKE syntax: % matches any sequence of characters and _ a single one.
type SchemaLookup interface {
	// Columns returns the ordered column names of the table in the first
	// dataset matching datasetPattern, keeping those matching columnPattern.
	Columns(ctx context.Context, catalog, datasetPattern, table, columnPattern string) ([]string, error)
	// ColumnPrefixes returns the "dataset.table" prefixes of every table
	// holding a column with the given name.
	ColumnPrefixes(ctx context.Context, catalog, column string) ([]string, error)
	// TableDatasets returns the datasets holding a table with the given name,
	// in catalog order.
	TableDatasets(ctx context.Context, catalog, table string) ([]string, error)
}

// EmptyLookup is a SchemaLookup of a catalog without tables.
type EmptyLookup struct{}

var _ SchemaLookup = EmptyLookup{}

// Columns implements the SchemaLookup interface.
func (EmptyLookup) Columns(context.Context, string, string, string, string) ([]string, error) {
	return nil, nil
}

// ColumnPrefixes implements the SchemaLookup interface.
func (EmptyLookup) ColumnPrefixes(context.Context, string, string) ([]string, error) {
	return nil, nil
}

// TableDatasets implements the SchemaLookup interface.
func (EmptyLookup) TableDatasets(context.Context, string, string) ([]string, error) {
	return nil, nil
}

type lookupCall struct {
	Method string
	Args   []string
}

// MemoLookup memoizes the answers of a SchemaLookup by the exact argument
// tuple of each call. Failed calls are not memoized.
type MemoLookup struct {
	inner   SchemaLookup
	answers map[uint64][]string
}

var _ SchemaLookup = (*MemoLookup)(nil)

// NewMemoLookup wraps the given lookup. Wrapping a MemoLookup returns it as is.
func NewMemoLookup(l SchemaLookup) *MemoLookup {
	if m, ok := l.(*MemoLookup); ok {
		return m
	}
	return &MemoLookup{inner: l, answers: make(map[uint64][]string)}
}

// Columns implements the SchemaLookup interface.
func (m *MemoLookup) Columns(ctx context.Context, catalog, datasetPattern, table, columnPattern string) ([]string, error) {
	return m.memoize(lookupCall{"Columns", []string{catalog, datasetPattern, table, columnPattern}}, func() ([]string, error) {
		return m.inner.Columns(ctx, catalog, datasetPattern, table, columnPattern)
	})
}

// ColumnPrefixes implements the SchemaLookup interface.
func (m *MemoLookup) ColumnPrefixes(ctx context.Context, catalog, column string) ([]string, error) {
	return m.memoize(lookupCall{"ColumnPrefixes", []string{catalog, column}}, func() ([]string, error) {
		return m.inner.ColumnPrefixes(ctx, catalog, column)
	})
}

// TableDatasets implements the SchemaLookup interface.
func (m *MemoLookup) TableDatasets(ctx context.Context, catalog, table string) ([]string, error) {
	return m.memoize(lookupCall{"TableDatasets", []string{catalog, table}}, func() ([]string, error) {
		return m.inner.TableDatasets(ctx, catalog, table)
	})
}

func (m *MemoLookup) memoize(call lookupCall, fn func() ([]string, error)) ([]string, error) {
	key, err := hashstructure.Hash(call, nil)
	if err != nil {
		answer, err := fn()
		if err != nil {
			return nil, ErrLookupFailed.Wrap(err, call.Method)
		}
		return answer, nil
	}

	if answer, ok := m.answers[key]; ok {
		return answer, nil
	}

	answer, err := fn()
	if err != nil {
		return nil, ErrLookupFailed.Wrap(err, call.Method)
	}

	m.answers[key] = answer
	return answer, nil
}

var (
	patternMu    sync.Mutex
	patternCache = make(map[string]*regexp.Regexp)
)

// MatchPattern reports whether name matches the LIKE pattern, ignoring case.
// An empty pattern matches everything.
func MatchPattern(pattern, name string) bool {
	if pattern == "" || pattern == AnyPattern {
		return true
	}

	if !strings.ContainsAny(pattern, "%_") {
		return strings.EqualFold(pattern, name)
	}

	return likeRegexp(pattern).MatchString(name)
}

func likeRegexp(pattern string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re, ok := patternCache[pattern]; ok {
		return re
	}

	var buf strings.Builder
	buf.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '%':
			buf.WriteString(".*")
		case '_':
			buf.WriteString(".")
		default:
			buf.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	buf.WriteString("$")

	re := regexp.MustCompile(buf.String())
	patternCache[pattern] = re
	return re
}
