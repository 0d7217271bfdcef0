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
	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// Copyable is implemented by expressions of other packages that know how to
// copy themselves with a Copier.
type Copyable interface {
	Copy(c *Copier) (sql.Expression, error)
}

// Copier copies expression trees. A node reachable several times from the
// copied tree is copied once. Columns and references pointing at an item
// copied along are pointed at its copy once the copy is complete, the others
// keep their targets.
type Copier struct {
	ctx    *sql.Context
	copies map[sql.Node]sql.Node
	items  map[sql.NodeID]sql.Projected
	scopes map[sql.Scope]sql.Scope
	links  []link
}

type link struct {
	src, dst *pointer
	ref      *ColumnReference
}

// NewCopier creates a copier registering its nodes in the session of ctx.
func NewCopier(ctx *sql.Context) *Copier {
	return &Copier{
		ctx:    ctx,
		copies: make(map[sql.Node]sql.Node),
		items:  make(map[sql.NodeID]sql.Projected),
		scopes: make(map[sql.Scope]sql.Scope),
	}
}

// Context returns the context the copier was created with.
func (c *Copier) Context() *sql.Context { return c.ctx }

// MapScope records that the statement to replaces from in the copy.
func (c *Copier) MapScope(from, to sql.Scope) { c.scopes[from] = to }

// Clone returns a copy of the expression. Column references of the copy point
// at the same items as the originals and can be repointed independently.
// Literals are shared.
func Clone(ctx *sql.Context, e sql.Expression) (sql.Expression, error) {
	c := NewCopier(ctx)
	result, err := c.Copy(e)
	if err != nil {
		return nil, err
	}

	if err := c.Link(); err != nil {
		return nil, err
	}
	return result, nil
}

// Copy copies the expression. The copy is only complete after Link.
func (c *Copier) Copy(e sql.Expression) (sql.Expression, error) {
	if e == nil {
		return nil, nil
	}

	if _, ok := e.(Tuple); !ok {
		if done, ok := c.copies[e]; ok {
			return done.(sql.Expression), nil
		}
	}

	result, err := c.copy(e)
	if err != nil {
		return nil, err
	}

	if _, ok := e.(Tuple); !ok {
		c.copies[e] = result
	}
	return result, nil
}

// Item copies a projected item.
func (c *Copier) Item(p sql.Projected) (sql.Projected, error) {
	e, err := c.Copy(p)
	if err != nil {
		return nil, err
	}

	result, ok := e.(sql.Projected)
	if !ok {
		return nil, sql.ErrTreeShape.New("copy of projected item " + p.UniqueID() + " is not projected")
	}
	return result, nil
}

// CopyAll copies every expression.
func (c *Copier) CopyAll(exprs []sql.Expression) ([]sql.Expression, error) {
	if exprs == nil {
		return nil, nil
	}

	result := make([]sql.Expression, len(exprs))
	for i, e := range exprs {
		copied, err := c.Copy(e)
		if err != nil {
			return nil, err
		}
		result[i] = copied
	}
	return result, nil
}

// Link points the copied columns and references at their targets and moves
// the references to the copied statements.
func (c *Copier) Link() error {
	for _, l := range c.links {
		if l.ref != nil {
			if s, ok := c.scopes[l.ref.scope]; ok {
				l.ref.scope = s
			}
		}

		target, ok := l.src.Pointed()
		if !ok {
			continue
		}

		var extras []sql.Projected
		for _, e := range l.src.ExtraPointed() {
			extras = append(extras, c.target(e))
		}

		if err := l.dst.PointTo(c.target(target), extras...); err != nil {
			return err
		}
	}
	c.links = nil
	return nil
}

func (c *Copier) target(p sql.Projected) sql.Projected {
	if copied, ok := c.items[p.ID()]; ok {
		return copied
	}
	return p
}

func (c *Copier) copy(e sql.Expression) (sql.Expression, error) {
	switch e := e.(type) {
	case *ColumnReference:
		r := NewColumnReference(c.ctx, e.name, e.prefixes)
		r.star = e.star
		r.scope = e.scope
		c.links = append(c.links, link{src: &e.pointer, dst: &r.pointer, ref: r})
		return r, nil
	case *ColumnCall:
		cc, err := NewColumnCall(c.ctx, e.column, e.prefixes, e.alias)
		if err != nil {
			return nil, err
		}
		c.projected(e, cc, &e.projectedBase, &cc.projectedBase)
		return cc, nil
	case *FunctionCall:
		params, err := c.CopyAll(e.params)
		if err != nil {
			return nil, err
		}
		f, err := NewFunctionCall(c.ctx, e.name, e.alias, e.distinct, params...)
		if err != nil {
			return nil, err
		}
		c.projected(e, f, &e.projectedBase, &f.projectedBase)
		return f, nil
	case *Computed:
		expr, err := c.Copy(e.expr)
		if err != nil {
			return nil, err
		}
		cp, err := NewComputed(c.ctx, expr, e.alias)
		if err != nil {
			return nil, err
		}
		cp.equivalent = e.equivalent
		c.projected(e, cp, &e.projectedBase, &cp.projectedBase)
		return cp, nil
	case *Comparison:
		left, err := c.Copy(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.Copy(e.Right)
		if err != nil {
			return nil, err
		}
		return &Comparison{Left: left, Operator: e.Operator, Right: right}, nil
	case *Conjunction:
		preds, err := c.CopyAll(e.Predicates)
		if err != nil {
			return nil, err
		}
		return &Conjunction{Predicates: preds}, nil
	case *Disjunction:
		preds, err := c.CopyAll(e.Predicates)
		if err != nil {
			return nil, err
		}
		return &Disjunction{Predicates: preds}, nil
	case *Negation:
		pred, err := c.Copy(e.Predicate)
		if err != nil {
			return nil, err
		}
		return NewNegation(pred), nil
	case *Arithmetic:
		left, err := c.Copy(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.Copy(e.Right)
		if err != nil {
			return nil, err
		}
		return &Arithmetic{Left: left, Operator: e.Operator, Right: right}, nil
	case *Range:
		from, err := c.Copy(e.From)
		if err != nil {
			return nil, err
		}
		to, err := c.Copy(e.To)
		if err != nil {
			return nil, err
		}
		return NewRange(from, to), nil
	case Tuple:
		exprs, err := c.CopyAll(e)
		if err != nil {
			return nil, err
		}
		return Tuple(exprs), nil
	case *Case:
		return c.copyCase(e)
	case Copyable:
		return e.Copy(c)
	default:
		return e, nil
	}
}

// projected copies what the projected items have in common and schedules
// the copy to point where the original does.
func (c *Copier) projected(orig, copied sql.Projected, src, dst *projectedBase) {
	c.items[orig.ID()] = copied
	dst.output = src.output
	if src.output == src.uniqueID {
		dst.output = ""
	}
	dst.scope = src.scope
	if s, ok := c.scopes[src.scope]; ok {
		dst.scope = s
	}
	c.links = append(c.links, link{src: &src.pointer, dst: &dst.pointer})
}

func (c *Copier) copyCase(e *Case) (*Case, error) {
	value, err := c.Copy(e.Value)
	if err != nil {
		return nil, err
	}

	whens := make([]When, len(e.Whens))
	for i, w := range e.Whens {
		cond, err := c.Copy(w.Cond)
		if err != nil {
			return nil, err
		}
		val, err := c.Copy(w.Val)
		if err != nil {
			return nil, err
		}
		whens[i] = When{Cond: cond, Val: val}
	}

	elseExpr, err := c.Copy(e.Else)
	if err != nil {
		return nil, err
	}
	return NewCase(value, whens, elseExpr), nil
}
