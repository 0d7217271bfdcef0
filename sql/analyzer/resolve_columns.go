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
	"strings"

	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

// Resolution is the context a column is resolved in: the statement using it,
// the sources visible from there and the clause it appears in.
type Resolution struct {
	Stmt    *plan.SelectStatement
	Sources []*plan.Subquery
	Clause  sql.Clause
	// Outer is the resolution of the enclosing statement, used for
	// correlated references.
	Outer *Resolution
}

// NewResolution returns the resolution of the given clause of stmt, whose
// sources are the subqueries visible from its FROM clause.
func NewResolution(stmt *plan.SelectStatement, clause sql.Clause, outer *Resolution) *Resolution {
	r := &Resolution{Stmt: stmt, Clause: clause, Outer: outer}
	if stmt != nil && stmt.From != nil {
		r.Sources = stmt.From.Subqueries()
	}
	return r
}

// WithClause returns a copy of the resolution for another clause.
func (r *Resolution) WithClause(clause sql.Clause) *Resolution {
	nr := *r
	nr.Clause = clause
	return &nr
}

// ResolveColumn points the reference at the projected item it names.
//
// Every projected item of every source is matched against the full name of
// the reference by its synonyms. When nothing matches an unqualified name, the
// tables holding a column with that name are asked to the schema lookup and
// each of them is tried as a prefix. Matches with different unique ids make
// the reference ambiguous. References that cannot be resolved are left
// unresolved in tolerant clauses, so they can be retried once more of the
// tree is built.
func ResolveColumn(ctx *sql.Context, ref *expression.ColumnReference, res *Resolution) error {
	if res.Stmt != nil {
		ref.SetScope(res.Stmt)
	}

	if ref.IsStar() {
		return nil
	}

	matches, err := res.find(ctx, ref.Name(), ref.Prefixes())
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		ref.Unresolve()
		if res.Clause.Tolerant() {
			ctx.Logger().Debugf("unable to resolve column %s in %s clause, leaving it unresolved", ref.FullName(), res.Clause)
			return nil
		}
		return sql.ErrColumnNotFound.New(ref.FullName())
	}

	return ref.PointTo(matches[0], matches[1:]...)
}

// ResolveColumnCall points a projected column at the item it re-projects.
func ResolveColumnCall(ctx *sql.Context, col *expression.ColumnCall, res *Resolution) error {
	matches, err := res.find(ctx, col.Column(), col.Prefixes())
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		if res.Clause.Tolerant() {
			ctx.Logger().Debugf("unable to resolve column %s, leaving it unresolved", col.FullName())
			return nil
		}
		return sql.ErrColumnNotFound.New(col.FullName())
	}

	return col.PointTo(matches[0], matches[1:]...)
}

// ResolveExpression resolves every column reference of the expression.
// Subqueries used as operands are not entered: they are resolved when built.
func ResolveExpression(ctx *sql.Context, e sql.Node, res *Resolution) error {
	for _, ref := range expression.References(e) {
		if err := ResolveColumn(ctx, ref, res); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolution) find(ctx *sql.Context, name string, prefixes []string) ([]sql.Projected, error) {
	for res := r; res != nil; res = res.Outer {
		matches, err := res.findLocal(ctx, name, prefixes)
		if err != nil || len(matches) > 0 {
			return matches, err
		}
	}
	return nil, nil
}

func (r *Resolution) findLocal(ctx *sql.Context, name string, prefixes []string) ([]sql.Projected, error) {
	full := expression.FullName(prefixes, name)

	// GROUP BY, HAVING and ORDER BY can name the items of the statement
	// itself.
	switch r.Clause {
	case sql.ClauseGroupBy, sql.ClauseHaving, sql.ClauseOrderBy:
		if r.Stmt != nil {
			matches := matchItems(full, r.Stmt.Projection.Items)
			if len(matches) > 0 {
				return checkAmbiguity(ctx, full, matches)
			}
		}
	}

	var items []sql.Projected
	for _, sq := range r.Sources {
		items = append(items, sq.Items()...)
	}

	matches := matchItems(full, items)
	if len(matches) == 0 && len(prefixes) == 0 {
		matches = r.matchLookupPrefixes(ctx, name, items)
	}

	return checkAmbiguity(ctx, full, matches)
}

// matchLookupPrefixes retries an unqualified name with the prefix of every
// table holding a column with that name.
func (r *Resolution) matchLookupPrefixes(ctx *sql.Context, name string, items []sql.Projected) []sql.Projected {
	if len(items) == 0 {
		return nil
	}

	prefixes, err := ctx.Lookup.ColumnPrefixes(ctx, ctx.Catalog, name)
	if err != nil {
		ctx.Logger().WithError(err).Warnf("unable to look up tables with column %s", name)
		return nil
	}

	for _, p := range prefixes {
		candidates := []string{p + "." + name}
		if i := strings.LastIndex(p, "."); i >= 0 {
			candidates = append(candidates, p[i+1:]+"."+name)
		}

		for _, c := range candidates {
			if matches := matchItems(c, items); len(matches) > 0 {
				return matches
			}
		}
	}

	return nil
}

func matchItems(full string, items []sql.Projected) []sql.Projected {
	var matches []sql.Projected
	for _, item := range items {
		for _, syn := range item.Synonyms() {
			if strings.EqualFold(syn, full) {
				matches = append(matches, item)
				break
			}
		}
	}
	return matches
}

// checkAmbiguity fails when the matches are not all the same logical column,
// that is, when they do not share one unique id.
func checkAmbiguity(ctx *sql.Context, full string, matches []sql.Projected) ([]sql.Projected, error) {
	if len(matches) < 2 {
		return matches, nil
	}

	uid := matches[0].UniqueID()
	for _, m := range matches[1:] {
		if m.UniqueID() != uid {
			return nil, sql.ErrAmbiguousColumn.New(full, describe(ctx, matches))
		}
	}
	return matches, nil
}

// describe names every item after the source it comes from, following the
// items re-projected by join wrappers down to a qualified statement.
func describe(ctx *sql.Context, items []sql.Projected) string {
	var names []string
	for _, item := range items {
		names = append(names, sourceName(ctx, item))
	}
	return strings.Join(dedupStrings(names), ", ")
}

func sourceName(ctx *sql.Context, item sql.Projected) string {
	for _, id := range ctx.Graph.Chain(item.ID()) {
		n, ok := ctx.Graph.Node(id)
		if !ok {
			break
		}

		p, ok := n.(sql.Projected)
		if !ok {
			break
		}

		s := p.Scope()
		if s == nil || s.Transparent() {
			continue
		}

		if q, ok := s.Qualifier(); ok {
			return q + "." + p.Name()
		}
		return p.Name()
	}
	return item.Name()
}

func dedupStrings(in []string) []string {
	var seen = make(map[string]struct{})
	var result []string
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			result = append(result, s)
		}
	}
	return result
}

// resolveLate retries the resolution of every unresolved reference of the
// tree now that all the joins have been synthesized.
func resolveLate(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("resolve_late")
	defer span.Finish()

	stmt, ok := n.(*plan.SelectStatement)
	if !ok {
		return nil, ErrInvalidNodeType.New("resolve_late", n)
	}

	r := &lateResolver{visited: make(map[*plan.SelectStatement]bool)}
	if err := r.resolveStatement(ctx, stmt, nil); err != nil {
		return nil, err
	}

	if r.resolved > 0 {
		a.Log("resolved %d references", r.resolved)
	}
	return n, nil
}

type lateResolver struct {
	visited  map[*plan.SelectStatement]bool
	resolved int
}

func (r *lateResolver) resolveStatement(ctx *sql.Context, stmt *plan.SelectStatement, outer *Resolution) error {
	if r.visited[stmt] {
		return nil
	}
	r.visited[stmt] = true

	type clauseNode struct {
		clause sql.Clause
		node   sql.Node
	}

	var clauses []clauseNode
	for _, item := range stmt.Projection.Items {
		if f, ok := item.(*expression.FunctionCall); ok {
			clauses = append(clauses, clauseNode{sql.ClauseFunctionParam, f})
		}
	}
	if stmt.Where != nil {
		clauses = append(clauses, clauseNode{sql.ClauseWhere, stmt.Where})
	}
	if stmt.GroupBy != nil {
		clauses = append(clauses, clauseNode{sql.ClauseGroupBy, stmt.GroupBy})
	}
	if stmt.Having != nil {
		clauses = append(clauses, clauseNode{sql.ClauseHaving, stmt.Having})
	}
	if stmt.OrderBy != nil {
		clauses = append(clauses, clauseNode{sql.ClauseOrderBy, stmt.OrderBy})
	}

	res := NewResolution(stmt, sql.ClauseWhere, outer)
	for _, c := range clauses {
		cres := res.WithClause(c.clause)
		if err := r.resolveNode(ctx, c.node, cres); err != nil {
			return err
		}

		for _, sq := range exprSubqueries(c.node) {
			if err := r.resolveStatement(ctx, sq.Statement(), cres); err != nil {
				return err
			}
		}
	}

	if stmt.From == nil {
		return nil
	}

	for _, item := range stmt.From.Items {
		if j, ok := item.(*plan.JoinExpression); ok && j.On != nil {
			on := &Resolution{
				Stmt:    stmt,
				Sources: []*plan.Subquery{j.Left, j.Right},
				Clause:  sql.ClauseOn,
				Outer:   outer,
			}
			if err := r.resolveNode(ctx, j.On, on); err != nil {
				return err
			}
		}
	}

	for _, sq := range stmt.From.Subqueries() {
		if err := r.resolveStatement(ctx, sq.Statement(), nil); err != nil {
			return err
		}
	}

	return nil
}

func (r *lateResolver) resolveNode(ctx *sql.Context, n sql.Node, res *Resolution) error {
	for _, ref := range expression.References(n) {
		if ref.IsResolved() || ref.IsStar() {
			continue
		}

		if err := ResolveColumn(ctx, ref, res); err != nil {
			return err
		}

		if ref.IsResolved() {
			r.resolved++
		}
	}
	return nil
}

// exprSubqueries returns the subqueries used as operands in the node, without
// entering them.
func exprSubqueries(n sql.Node) []*plan.Subquery {
	var result []*plan.Subquery
	plan.Inspect(n, func(node sql.Node) bool {
		if sq, ok := node.(*plan.Subquery); ok {
			result = append(result, sq)
			return false
		}
		return node != nil
	})
	return result
}
