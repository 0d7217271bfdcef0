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
	"strings"

	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// pointer is the part shared by every node registered in the session graph.
type pointer struct {
	id    sql.NodeID
	graph *sql.Graph
}

// ID returns the graph id of the node.
func (p *pointer) ID() sql.NodeID { return p.id }

// Pointed returns the item the node points at, if any.
func (p *pointer) Pointed() (sql.Projected, bool) {
	if p.graph == nil {
		return nil, false
	}

	to, ok := p.graph.Target(p.id)
	if !ok {
		return nil, false
	}

	n, ok := p.graph.Node(to)
	if !ok {
		return nil, false
	}

	target, ok := n.(sql.Projected)
	return target, ok
}

// ExtraPointed returns the extra items the node points at.
func (p *pointer) ExtraPointed() []sql.Projected {
	if p.graph == nil {
		return nil
	}

	var result []sql.Projected
	for _, id := range p.graph.Extras(p.id) {
		if n, ok := p.graph.Node(id); ok {
			if target, ok := n.(sql.Projected); ok {
				result = append(result, target)
			}
		}
	}
	return result
}

// IsResolved reports whether the node points at something.
func (p *pointer) IsResolved() bool {
	_, ok := p.Pointed()
	return ok
}

// PointTo makes the node point at target, recording extras as additional
// targets.
func (p *pointer) PointTo(target sql.Projected, extras ...sql.Projected) error {
	ids := make([]sql.NodeID, len(extras))
	for i, e := range extras {
		ids[i] = e.ID()
	}
	return p.graph.Point(p.id, target.ID(), ids...)
}

// Unresolve removes every link going out of the node.
func (p *pointer) Unresolve() {
	if p.graph != nil {
		p.graph.Unpoint(p.id)
	}
}

// IsPointedTo reports whether other nodes point at this one.
func (p *pointer) IsPointedTo() bool {
	return p.graph != nil && p.graph.IsPointedTo(p.id)
}

// projectedBase holds what every projected item has in common.
type projectedBase struct {
	pointer
	uniqueID string
	output   string
	scope    sql.Scope
}

func (p *projectedBase) init(ctx *sql.Context, self sql.Node) error {
	uid, err := ctx.NewUniqueID()
	if err != nil {
		return err
	}

	p.uniqueID = uid
	p.graph = ctx.Graph
	p.id = ctx.Graph.Add(self)
	return nil
}

// UniqueID implements the sql.Projected interface.
func (p *projectedBase) UniqueID() string { return p.uniqueID }

// SetUniqueID implements the sql.Projected interface.
func (p *projectedBase) SetUniqueID(id string) { p.uniqueID = id }

// OutputName implements the sql.Projected interface.
func (p *projectedBase) OutputName() string {
	if p.output != "" {
		return p.output
	}
	return p.uniqueID
}

// SetOutputName implements the sql.Projected interface.
func (p *projectedBase) SetOutputName(name string) { p.output = name }

// Scope implements the sql.Projected interface.
func (p *projectedBase) Scope() sql.Scope { return p.scope }

// SetScope implements the sql.Projected interface.
func (p *projectedBase) SetScope(s sql.Scope) { p.scope = s }

// FullName joins the prefixes and the name with dots.
func FullName(prefixes []string, name string) string {
	if len(prefixes) == 0 {
		return name
	}
	return strings.Join(prefixes, ".") + "." + name
}

// QualifiedName returns how a node living in scope from refers to target.
func QualifiedName(from sql.Scope, target sql.Projected) string {
	ts := target.Scope()
	if ts == nil || ts == from {
		return target.OutputName()
	}

	if q, ok := ts.Qualifier(); ok && q != "" {
		return q + "." + target.OutputName()
	}
	return target.OutputName()
}

// qualify returns name along with name prefixed by every qualifier of the
// scope.
func qualify(scope sql.Scope, name string) []string {
	if name == "" {
		return nil
	}

	names := []string{name}
	if scope == nil {
		return names
	}

	for _, q := range scope.Qualifiers() {
		names = append(names, q+"."+name)
	}
	return names
}

func dedupStrings(in []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, s := range in {
		k := strings.ToLower(s)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			result = append(result, s)
		}
	}
	return result
}

func renderExprs(exprs []sql.Expression) []string {
	result := make([]string, len(exprs))
	for i, e := range exprs {
		result[i] = e.RenderExpr()
	}
	return result
}
