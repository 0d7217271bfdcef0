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
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
)

// joinTerm is an equality between columns of two different FROM items.
type joinTerm struct {
	cmp         *expression.Comparison
	left, right int
}

// joinGroup holds every term between the same two FROM items.
type joinGroup struct {
	left, right int
	terms       []*expression.Comparison
}

func (g *joinGroup) touches(item int) bool {
	return g.left == item || g.right == item
}

func (g *joinGroup) other(item int) int {
	if g.left == item {
		return g.right
	}
	return g.left
}

// chainStep joins one more FROM item to everything joined before it.
type chainStep struct {
	item  int
	terms []*expression.Comparison
}

// joinComponent is a set of FROM items connected by join terms, in the order
// they must be joined.
type joinComponent struct {
	first int
	steps []chainStep
}

// items returns the FROM items of the component in join order.
func (c joinComponent) items() []int {
	result := []int{c.first}
	for _, s := range c.steps {
		result = append(result, s.item)
	}
	return result
}

// joinChain splits the join terms in connected components. Terms are grouped
// by the pair of FROM items they connect, in order of first appearance. A
// component starts with the first pending group, then keeps absorbing the
// item of a group touching it: every pending group between that item and the
// component becomes the condition of its join. Groups that are not connected
// to the component are retried on the next one.
func joinChain(terms []joinTerm) []joinComponent {
	var pending []*joinGroup
	index := make(map[[2]int]*joinGroup)
	for _, t := range terms {
		l, r := t.left, t.right
		if l > r {
			l, r = r, l
		}

		key := [2]int{l, r}
		g, ok := index[key]
		if !ok {
			g = &joinGroup{left: l, right: r}
			index[key] = g
			pending = append(pending, g)
		}
		g.terms = append(g.terms, t.cmp)
	}

	var components []joinComponent
	for len(pending) > 0 {
		g := pending[0]
		pending = pending[1:]

		c := joinComponent{
			first: g.left,
			steps: []chainStep{{item: g.right, terms: g.terms}},
		}
		included := map[int]bool{g.left: true, g.right: true}

		for {
			next := -1
			for _, g := range pending {
				if included[g.left] != included[g.right] {
					next = g.left
					if included[next] {
						next = g.right
					}
					break
				}
			}

			if next < 0 {
				break
			}

			step := chainStep{item: next}
			var rest []*joinGroup
			for _, g := range pending {
				if g.touches(next) && included[g.other(next)] {
					step.terms = append(step.terms, g.terms...)
				} else {
					rest = append(rest, g)
				}
			}

			pending = rest
			included[next] = true
			c.steps = append(c.steps, step)
		}

		components = append(components, c)
	}

	return components
}
