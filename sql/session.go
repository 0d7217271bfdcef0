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

	opentracing "github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// SessionLogField is the log field holding the session id.
	SessionLogField = "session"
	// QueryLogField is the log field holding the query being rewritten.
	QueryLogField = "query"
)

// Session holds every piece of mutable state of a single rewrite: the id
// generator, the resolution graph and the memoized schema lookup. A session
// must not be shared between rewrites.
type Session struct {
	// ID identifies the session in logs and traces.
	ID uuid.UUID
	// Catalog is the project tables belong to when the query does not name one.
	Catalog string
	// Dataset is used for tables without dataset before falling back to
	// dataset detection.
	Dataset string
	// IDs issues the unique ids of the rewrite.
	IDs *IDGenerator
	// Graph holds the resolution links of the rewrite.
	Graph *Graph
	// Lookup is the memoized schema lookup.
	Lookup SchemaLookup

	logger *logrus.Entry
}

// SessionOption configures a session.
type SessionOption func(*Session)

// WithIDPrefix sets the prefix of the unique ids issued by the session.
func WithIDPrefix(prefix string) SessionOption {
	return func(s *Session) {
		s.IDs = NewIDGenerator(prefix)
	}
}

// WithLogger sets the logger of the session.
func WithLogger(l *logrus.Entry) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session for a rewrite against the given catalog.
// Lookups are memoized for the lifetime of the session.
func NewSession(catalog, dataset string, lookup SchemaLookup, opts ...SessionOption) *Session {
	id, err := uuid.NewV4()
	if err != nil {
		logrus.WithError(err).Warn("unable to generate session id")
	}

	if lookup == nil {
		lookup = EmptyLookup{}
	}

	s := &Session{
		ID:      id,
		Catalog: catalog,
		Dataset: dataset,
		IDs:     NewIDGenerator(DefaultIDPrefix),
		Graph:   NewGraph(),
		Lookup:  NewMemoLookup(lookup),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logrus.WithField(SessionLogField, id.String())
	}

	return s
}

// NewBaseSession returns a session without catalog nor lookup.
func NewBaseSession() *Session {
	return NewSession("", "", nil)
}

// GetLogger returns the logger of the session.
func (s *Session) GetLogger() *logrus.Entry {
	return s.logger
}

// NewUniqueID returns the next unique id of the session.
func (s *Session) NewUniqueID() (string, error) {
	return s.IDs.Next()
}

// Context of a rewrite.
type Context struct {
	context.Context
	*Session
	query  string
	tracer opentracing.Tracer
}

// ContextOption is a function to configure the context.
type ContextOption func(*Context)

// WithSession adds the given session to the context.
func WithSession(s *Session) ContextOption {
	return func(ctx *Context) {
		ctx.Session = s
	}
}

// WithTracer adds the given tracer to the context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithQuery adds the given query to the context.
func WithQuery(q string) ContextOption {
	return func(ctx *Context) {
		ctx.query = q
	}
}

// NewContext creates a new rewrite context. Options can be passed to configure
// the context. If some aspect of the context is not configured, the default
// value will be used.
// By default, the context will have an empty base session and a noop tracer.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context: ctx,
		tracer:  opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.Session == nil {
		c.Session = NewBaseSession()
	}

	return c
}

// NewEmptyContext returns a default context with default values.
func NewEmptyContext() *Context { return NewContext(context.TODO()) }

// Query returns the query string associated with this context.
func (c *Context) Query() string { return c.query }

// Logger returns the session logger with the query attached.
func (c *Context) Logger() *logrus.Entry {
	l := c.GetLogger()
	if c.query != "" {
		l = l.WithField(QueryLogField, c.query)
	}
	return l
}

// Span creates a new tracing span with the given context.
// It will return the span and a new context that should be passed to all
// children of this span.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, c.WithContext(ctx)
}

// WithContext returns a new context with the given underlying context.
func (c *Context) WithContext(ctx context.Context) *Context {
	nc := *c
	nc.Context = ctx
	return &nc
}

// NewErrgroup returns an errgroup bound to the context and the context the
// goroutines of the group must use.
func (c *Context) NewErrgroup() (*errgroup.Group, *Context) {
	eg, egCtx := errgroup.WithContext(c.Context)
	return eg, c.WithContext(egCtx)
}
