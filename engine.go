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

// Package bqsql rewrites standard SQL SELECT statements into BigQuery legacy
// SQL.
package bqsql // import "gopkg.in/src-d/go-bqsql.v0"

import (
	"context"
	"io"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"gopkg.in/src-d/go-bqsql.v0/mem"
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/analyzer"
	"gopkg.in/src-d/go-bqsql.v0/sql/catalog"
	"gopkg.in/src-d/go-bqsql.v0/sql/parse"
)

// Engine rewrites queries against a schema catalog.
type Engine struct {
	Analyzer *analyzer.Analyzer
	Lookup   sql.SchemaLookup
	Cache    *sql.RewriteCache
	Config   Config
	Tracer   opentracing.Tracer

	closer io.Closer
}

// New creates a new Engine answering schema questions with the given lookup.
// A nil lookup knows no tables, so every table keeps all of its columns.
func New(cfg Config, lookup sql.SchemaLookup) *Engine {
	if lookup == nil {
		lookup = sql.EmptyLookup{}
	}

	b := analyzer.NewBuilder()
	if cfg.Debug {
		b = b.WithDebug()
	}

	return &Engine{
		Analyzer: b.Build(),
		Lookup:   lookup,
		Cache:    sql.NewRewriteCache(cfg.CacheSize),
		Config:   cfg,
		Tracer:   opentracing.NoopTracer{},
	}
}

// NewFromConfig creates an Engine using the catalog named in the
// configuration: the schema file if any, else the bolt catalog if any, else
// no catalog at all.
func NewFromConfig(cfg Config) (*Engine, error) {
	switch {
	case cfg.SchemaFile != "":
		c, err := mem.LoadYAMLFile(cfg.SchemaFile)
		if err != nil {
			return nil, err
		}
		return New(cfg, c), nil
	case cfg.CatalogPath != "":
		c, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}

		e := New(cfg, c)
		e.closer = c
		return e, nil
	default:
		return New(cfg, nil), nil
	}
}

// Close releases the catalog opened by NewFromConfig.
func (e *Engine) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

func (e *Engine) cacheKey(query string) uint64 {
	return sql.CacheKey([]interface{}{
		query,
		e.Config.Catalog,
		e.Config.Dataset,
		e.Config.IDPrefix,
		e.Config.Pretty,
	})
}

func (e *Engine) newContext(ctx context.Context, query string) *sql.Context {
	var opts []sql.SessionOption
	if e.Config.IDPrefix != "" {
		opts = append(opts, sql.WithIDPrefix(e.Config.IDPrefix))
	}

	session := sql.NewSession(e.Config.Catalog, e.Config.Dataset, e.Lookup, opts...)
	return sql.NewContext(
		ctx,
		sql.WithSession(session),
		sql.WithTracer(e.Tracer),
		sql.WithQuery(query),
	)
}

// Rewrite turns the given SELECT statement into its legacy SQL equivalent.
// Every rewrite runs in its own session, so the same query always gets the
// same output.
func (e *Engine) Rewrite(ctx context.Context, query string) (string, error) {
	key := e.cacheKey(query)
	if out, err := e.Cache.Get(key); err == nil {
		logrus.WithField(sql.QueryLogField, query).Debug("rewrite served from cache")
		return out, nil
	}

	sctx := e.newContext(ctx, query)
	span, sctx := sctx.Span("rewrite", opentracing.Tags{
		"session": sctx.ID.String(),
	})
	defer span.Finish()

	stmt, err := parse.Parse(sctx, query)
	if err != nil {
		sctx.Logger().WithError(err).Debug("unable to parse query")
		return "", err
	}

	analyzed, err := e.Analyzer.Fork().Analyze(sctx, stmt)
	if err != nil {
		sctx.Logger().WithError(err).Debug("unable to analyze query")
		return "", err
	}

	level := -1
	if e.Config.Pretty {
		level = 0
	}

	out := analyzed.Render(level)
	e.Cache.Put(key, out)
	sctx.Logger().WithField("ids", sctx.IDs.Issued()).Debug("query rewritten")
	return out, nil
}

// RewriteAll rewrites the given queries concurrently and returns their
// rewrites in the same order. It stops at the first error.
func (e *Engine) RewriteAll(ctx context.Context, queries []string) ([]string, error) {
	span, sctx := sql.NewContext(ctx, sql.WithTracer(e.Tracer)).Span("rewrite_all", opentracing.Tags{
		"queries": len(queries),
	})
	defer span.Finish()

	result := make([]string, len(queries))
	eg, egCtx := sctx.NewErrgroup()
	for i, q := range queries {
		i, q := i, q
		eg.Go(func() error {
			out, err := e.Rewrite(egCtx, q)
			if err != nil {
				return err
			}
			result[i] = out
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
