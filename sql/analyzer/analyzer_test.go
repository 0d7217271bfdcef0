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
	"context"
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

func TestAnalyzerBatches(t *testing.T) {
	require := require.New(t)

	a := NewDefault()
	var descs []string
	for _, b := range a.Batches {
		descs = append(descs, b.Desc)
	}

	require.Equal([]string{
		"pre-analyzer",
		"default-rules",
		"once-after",
		"post-analyzer",
		"pre-validation",
		"validation",
		"post-validation",
		"after-all",
	}, descs)
}

func TestBuilder(t *testing.T) {
	require := require.New(t)

	noop := func(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) { return n, nil }
	a := NewBuilder().
		WithDebug().
		AddPreAnalyzeRule("pre_analyze", noop).
		AddPostAnalyzeRule("post_analyze", noop).
		AddPreValidationRule("pre_validation", noop).
		AddPostValidationRule("post_validation", noop).
		Build()

	require.True(a.Debug)

	expected := map[string]string{
		"pre-analyzer":    "pre_analyze",
		"post-analyzer":   "post_analyze",
		"pre-validation":  "pre_validation",
		"post-validation": "post_validation",
	}
	for _, b := range a.Batches {
		name, ok := expected[b.Desc]
		if !ok {
			continue
		}
		require.Len(b.Rules, 1, b.Desc)
		require.Equal(name, b.Rules[0].Name)
	}
}

func TestFork(t *testing.T) {
	require := require.New(t)

	a := NewBuilder().WithDebug().Build()
	a.PushDebugContext("outer")

	f := a.Fork()
	require.True(f.Debug)
	require.Equal(a.Batches, f.Batches)
	require.Empty(f.debugCtx)

	f.PushDebugContext("inner")
	require.Equal([]string{"outer"}, a.debugCtx)
}

func TestAnalyze(t *testing.T) {
	require := require.New(t)

	tracer := mocktracer.New()
	base := newTestContext("sales")
	ctx := sql.NewContext(context.Background(), sql.WithSession(base.Session), sql.WithTracer(tracer))

	stmt, _ := joinedStatement(t, ctx, "name", "total")

	n, err := NewDefault().Analyze(ctx, stmt)
	require.NoError(err)
	require.Equal(sql.Node(stmt), n)

	require.Equal(
		"SELECT _aaah._aaag AS name, _aaah._aaad AS total "+
			"FROM (SELECT o._aaad AS _aaad, c._aaag AS _aaag "+
			"FROM (SELECT id AS _aaab, customer_id AS _aaac, total AS _aaad FROM [acme:sales.orders]) AS o "+
			"JOIN (SELECT id AS _aaaf, name AS _aaag FROM [acme:sales.customers]) AS c "+
			"ON o._aaac = c._aaaf) AS _aaah",
		n.Render(-1),
	)

	var spans []string
	for _, s := range tracer.FinishedSpans() {
		spans = append(spans, s.OperationName)
	}
	require.Subset(spans, []string{"synthesize_joins", "resolve_late", "prune_columns", "validate_tree", "analyze"})
}

func TestAnalyzeInvalidNode(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	_, err := NewDefault().Analyze(ctx, plan.NewFromClause())
	require.Error(err)
	require.True(ErrInvalidNodeType.Is(err))
}

func TestAnalyzeSkipsMaxIterations(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	stmt := plan.NewSelectStatement(plan.NewFromClause(table(t, ctx, "orders", "o")))
	stmt.Limit = &plan.Limit{}

	a := NewBuilder().AddPostAnalyzeRule("grow", func(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
		stmt.Limit.Count++
		return n, nil
	}).Build()

	_, err := a.Analyze(ctx, stmt)
	require.NoError(err)
	require.Equal(int64(maxAnalysisIterations), stmt.Limit.Count)
}

func TestBatchEval(t *testing.T) {
	testCases := []struct {
		name       string
		iterations int
		max        int64
		calls      int
		err        bool
	}{
		{"fixed point", 10, 3, 4, false},
		{"single iteration", 1, 3, 1, false},
		{"max iterations", 3, 100, 3, true},
		{"disabled", 0, 3, 0, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := sql.NewEmptyContext()

			stmt := plan.NewSelectStatement(plan.NewFromClause())
			stmt.Limit = &plan.Limit{}

			var calls int
			b := &Batch{
				Desc:       tt.name,
				Iterations: tt.iterations,
				Rules: []Rule{{"grow", func(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
					calls++
					if stmt.Limit.Count < tt.max {
						stmt.Limit.Count++
					}
					return n, nil
				}}},
			}

			_, err := b.Eval(ctx, NewDefault(), stmt)
			if tt.err {
				require.Error(err)
				require.True(ErrMaxAnalysisIters.Is(err))
			} else {
				require.NoError(err)
			}
			require.Equal(tt.calls, calls)
		})
	}
}

func TestAssignOutputNames(t *testing.T) {
	require := require.New(t)
	ctx := newTestContext("sales")

	stmt, w := joinedStatement(t, ctx, "total", "name")
	_, err := assignOutputNames(ctx, NewDefault(), stmt)
	require.NoError(err)
	require.Equal("total", stmt.Projection.Items[0].OutputName())
	require.Equal("name", stmt.Projection.Items[1].OutputName())
	for _, item := range w.Items() {
		require.Equal(item.UniqueID(), item.OutputName())
	}

	_, err = assignOutputNames(ctx, NewDefault(), plan.NewFromClause())
	require.Error(err)
	require.True(ErrInvalidNodeType.Is(err))
}
