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
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

// SynthesizeJoins replaces the implicit cross join of the FROM items of the
// statement by explicit joins. Equalities of the WHERE clause between columns
// of two different items become the ON conditions of the joins, items not
// joined by any of them are cross joined, and the rest of the predicate is
// kept as the WHERE clause of the outermost join. A WHERE clause whose
// branches join different items becomes a union of one join tree per branch.
//
// Statements reading from less than two items are left untouched.
func SynthesizeJoins(ctx *sql.Context, stmt *plan.SelectStatement) error {
	if stmt.From == nil || stmt.From.Union || len(stmt.From.Items) < 2 {
		return nil
	}

	items := make([]*plan.Subquery, len(stmt.From.Items))
	for i, item := range stmt.From.Items {
		sq, ok := item.(*plan.Subquery)
		if !ok {
			return sql.ErrTreeShape.New("FROM item of kind " + item.Kind().String() + " where a subquery was expected")
		}
		items[i] = sq
	}

	span, ctx := ctx.Span("synthesize_joins")
	defer span.Finish()

	pred := stmt.Predicate()
	if hasJoinDisjunction(pred, items) {
		pred = expression.FromDNF(expression.ToDNF(pred))
	}

	if d, ok := pred.(*expression.Disjunction); ok && hasJoinTerm(d, items) {
		ctx.Logger().Debugf("synthesizing %d union branches over %d sources", len(d.Predicates), len(items))

		var branches []*plan.Subquery
		for _, p := range d.Predicates {
			branchPred, err := expression.Clone(ctx, p)
			if err != nil {
				return err
			}

			sq, err := synthesizeConjunction(ctx, items, branchPred)
			if err != nil {
				return err
			}
			branches = append(branches, sq)
		}

		for _, ref := range allReferences(stmt.Predicate()) {
			ref.Unresolve()
		}

		if err := UnifyBranches(ctx, branches); err != nil {
			return err
		}

		stmt.From = plan.NewUnion(branches...)
		stmt.SetWhere(nil)
		return nil
	}

	sq, err := synthesizeConjunction(ctx, items, pred)
	if err != nil {
		return err
	}

	stmt.From = plan.NewFromClause(sq)
	stmt.SetWhere(nil)
	return nil
}

// synthesizeConjunction joins every item using the join terms of the
// conjunction and returns the outermost join, holding the rest of the
// predicate as its WHERE clause.
func synthesizeConjunction(ctx *sql.Context, items []*plan.Subquery, pred sql.Expression) (*plan.Subquery, error) {
	var terms []joinTerm
	var residual []sql.Expression
	for _, c := range expression.Conjuncts(pred) {
		if t, ok := joinTermOf(c, items); ok {
			terms = append(terms, t)
		} else {
			residual = append(residual, c)
		}
	}

	touched := make(map[int]bool)
	var result *plan.Subquery
	for _, c := range joinChain(terms) {
		sq, err := joinComponentItems(ctx, items, c)
		if err != nil {
			return nil, err
		}

		for _, i := range c.items() {
			touched[i] = true
		}

		if result, err = crossJoinWrap(ctx, result, sq); err != nil {
			return nil, err
		}
	}

	for i, sq := range items {
		if touched[i] {
			continue
		}

		var err error
		if result, err = crossJoinWrap(ctx, result, sq); err != nil {
			return nil, err
		}
	}

	if len(residual) > 0 {
		if err := attachResidual(ctx, result, expression.NewConjunction(residual...)); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// joinComponentItems joins the items of a component in chain order, each
// join being wrapped so it can be joined again.
func joinComponentItems(ctx *sql.Context, items []*plan.Subquery, c joinComponent) (*plan.Subquery, error) {
	current := items[c.first]
	for _, step := range c.steps {
		right := items[step.item]

		var refs []*expression.ColumnReference
		conds := make([]sql.Expression, len(step.terms))
		for i, t := range step.terms {
			refs = append(refs, expression.References(t)...)
			conds[i] = t
		}

		if err := Rebind(ctx, refs, []*plan.Subquery{current, right}); err != nil {
			return nil, err
		}

		j := plan.NewJoinExpression(current, right, plan.JoinUnspecified, plan.NewOnClause(conds...))

		var err error
		if current, err = WrapJoin(ctx, j); err != nil {
			return nil, err
		}
	}
	return current, nil
}

func crossJoinWrap(ctx *sql.Context, left, right *plan.Subquery) (*plan.Subquery, error) {
	if left == nil {
		return right, nil
	}

	j, err := CrossJoin(ctx, left, right)
	if err != nil {
		return nil, err
	}
	return WrapJoin(ctx, j)
}

// attachResidual moves the predicate to the WHERE clause of the statement of
// the join wrapper, pointing its columns at the sides of the join.
func attachResidual(ctx *sql.Context, sq *plan.Subquery, pred sql.Expression) error {
	stmt := sq.Statement()
	if stmt.From == nil {
		return sql.ErrTreeShape.New("residual predicate on a subquery without FROM clause")
	}

	if err := Rebind(ctx, allReferences(pred), stmt.From.Subqueries()); err != nil {
		return err
	}

	for _, ref := range expression.References(pred) {
		ref.SetScope(stmt)
	}

	stmt.SetWhere(expression.NewConjunction(stmt.Predicate(), pred))
	return nil
}

// CrossJoin joins two subqueries without a join key. Both sides project the
// constant EQUIVALENT_COLUMN, which is the only condition of the join.
func CrossJoin(ctx *sql.Context, left, right *plan.Subquery) (*plan.JoinExpression, error) {
	on := plan.NewOnClause()
	var refs []sql.Expression
	for _, side := range []*plan.Subquery{left, right} {
		col, err := equivalentColumn(ctx, side)
		if err != nil {
			return nil, err
		}

		ref := expression.NewColumnReference(ctx, expression.EquivalentColumn, []string{side.Alias()})
		if err := ref.PointTo(col); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	on.And(expression.NewEquals(refs[0], refs[1]))
	return plan.NewJoinExpression(left, right, plan.JoinUnspecified, on), nil
}

// equivalentColumn returns the EQUIVALENT_COLUMN of the subquery, adding it
// to its projection if it has none.
func equivalentColumn(ctx *sql.Context, sq *plan.Subquery) (sql.Projected, error) {
	for _, item := range sq.Items() {
		if isEquivalentColumn(item) {
			return item, nil
		}
	}

	col, err := expression.NewEquivalentColumn(ctx)
	if err != nil {
		return nil, err
	}

	sq.Statement().Projection.Add(col)
	return col, nil
}

// WrapJoin wraps the join in a new subquery re-projecting every column of
// both sides under their own unique id, so the join can be used as a side of
// another join. The new subquery is transparent: its columns can be
// referenced by every name of the columns they re-project.
func WrapJoin(ctx *sql.Context, j *plan.JoinExpression) (*plan.Subquery, error) {
	stmt := plan.NewSelectStatement(plan.NewFromClause(j))
	sq, err := plan.NewSubquery(ctx, stmt, "")
	if err != nil {
		return nil, err
	}
	sq.SetTransparent(true)

	for _, side := range []*plan.Subquery{j.Left, j.Right} {
		if side.Statement().Projection.Star {
			stmt.Projection.Star = true
		}

		items, err := ExpandStar(ctx, side, true)
		if err != nil {
			return nil, err
		}
		stmt.Projection.Add(items...)
	}

	if j.On != nil {
		for _, ref := range expression.References(j.On) {
			ref.SetScope(stmt)
		}
	}

	return sq, nil
}

// Rebind points every reference at the item of the sources re-projecting the
// item it currently points at. References pointing somewhere else are left
// as they are.
func Rebind(ctx *sql.Context, refs []*expression.ColumnReference, sources []*plan.Subquery) error {
	for _, ref := range refs {
		target, ok := ref.Pointed()
		if !ok {
			continue
		}

		newTarget, ok := sourceItem(ctx, target, sources)
		if !ok {
			continue
		}

		var extras []sql.Projected
		for _, e := range ref.ExtraPointed() {
			if ne, ok := sourceItem(ctx, e, sources); ok {
				extras = append(extras, ne)
			}
		}

		if err := ref.PointTo(newTarget, extras...); err != nil {
			return err
		}
	}
	return nil
}

// sourceItem returns the item of the sources whose pointer chain goes
// through target.
func sourceItem(ctx *sql.Context, target sql.Projected, sources []*plan.Subquery) (sql.Projected, bool) {
	for _, sq := range sources {
		for _, item := range sq.Items() {
			for _, id := range ctx.Graph.Chain(item.ID()) {
				if id == target.ID() {
					return item, true
				}
			}
		}
	}
	return nil, false
}

// joinTermOf reports whether the predicate is an equality between columns of
// two different items.
func joinTermOf(e sql.Expression, items []*plan.Subquery) (joinTerm, bool) {
	cmp, ok := e.(*expression.Comparison)
	if !ok || !cmp.IsEquality() {
		return joinTerm{}, false
	}

	l, r, ok := cmp.ColumnReferences()
	if !ok {
		return joinTerm{}, false
	}

	li, ri := itemIndex(l, items), itemIndex(r, items)
	if li < 0 || ri < 0 || li == ri {
		return joinTerm{}, false
	}

	return joinTerm{cmp: cmp, left: li, right: ri}, true
}

// itemIndex returns the position of the item whose projection holds the
// column the reference points at, or -1.
func itemIndex(ref *expression.ColumnReference, items []*plan.Subquery) int {
	target, ok := ref.Pointed()
	if !ok {
		return -1
	}

	for i, sq := range items {
		if target.Scope() == sql.Scope(sq.Statement()) {
			return i
		}
	}
	return -1
}

func hasJoinTerm(e sql.Expression, items []*plan.Subquery) bool {
	switch e := e.(type) {
	case *expression.Conjunction:
		for _, p := range e.Predicates {
			if hasJoinTerm(p, items) {
				return true
			}
		}
	case *expression.Disjunction:
		for _, p := range e.Predicates {
			if hasJoinTerm(p, items) {
				return true
			}
		}
	default:
		_, ok := joinTermOf(e, items)
		return ok
	}
	return false
}

// hasJoinDisjunction reports whether the predicate holds, below its top-level
// conjunctions and disjunctions, a disjunction with a join term. Such a
// predicate needs to be in disjunctive normal form to be split in branches.
func hasJoinDisjunction(e sql.Expression, items []*plan.Subquery) bool {
	switch e := e.(type) {
	case *expression.Conjunction:
		for _, p := range e.Predicates {
			if d, ok := p.(*expression.Disjunction); ok && hasJoinTerm(d, items) {
				return true
			}
			if hasJoinDisjunction(p, items) {
				return true
			}
		}
	case *expression.Disjunction:
		for _, p := range e.Predicates {
			if hasJoinDisjunction(p, items) {
				return true
			}
		}
	}
	return false
}

// allReferences returns every column reference below the node, including
// those of nested subqueries.
func allReferences(n sql.Node) []*expression.ColumnReference {
	if n == nil {
		return nil
	}

	var refs []*expression.ColumnReference
	plan.Inspect(n, func(n sql.Node) bool {
		if ref, ok := n.(*expression.ColumnReference); ok {
			refs = append(refs, ref)
		}
		return n != nil
	})
	return refs
}
