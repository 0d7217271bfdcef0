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

import "sort"

// NodeID addresses a node registered in a Graph.
type NodeID uint32

// Graph is the arena holding the resolution links of a rewrite. A node points
// at most at one target plus any number of extra targets; the reverse index
// of both kinds of links is maintained by Point and Unpoint only.
type Graph struct {
	next      NodeID
	nodes     map[NodeID]Node
	targets   map[NodeID]NodeID
	extras    map[NodeID][]NodeID
	referrers map[NodeID]map[NodeID]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[NodeID]Node),
		targets:   make(map[NodeID]NodeID),
		extras:    make(map[NodeID][]NodeID),
		referrers: make(map[NodeID]map[NodeID]struct{}),
	}
}

// Add registers the node and returns its id.
func (g *Graph) Add(n Node) NodeID {
	g.next++
	g.nodes[g.next] = n
	return g.next
}

// Node returns the node registered with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of registered nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Point makes from point at to, recording extras as additional targets. Any
// previous link of from is replaced.
func (g *Graph) Point(from, to NodeID, extras ...NodeID) error {
	if _, ok := g.nodes[from]; !ok {
		return ErrNodeNotFound.New(from)
	}

	for _, id := range append([]NodeID{to}, extras...) {
		if _, ok := g.nodes[id]; !ok {
			return ErrNodeNotFound.New(id)
		}
		if g.reaches(id, from) {
			return ErrPointerCycle.New(from, id)
		}
	}

	g.Unpoint(from)

	g.targets[from] = to
	g.addReferrer(to, from)

	var recorded []NodeID
	for _, id := range extras {
		if id == to || containsID(recorded, id) {
			continue
		}
		recorded = append(recorded, id)
		g.addReferrer(id, from)
	}
	if len(recorded) > 0 {
		g.extras[from] = recorded
	}

	return nil
}

// Unpoint removes every link going out of the node.
func (g *Graph) Unpoint(from NodeID) {
	if to, ok := g.targets[from]; ok {
		g.removeReferrer(to, from)
		delete(g.targets, from)
	}

	for _, id := range g.extras[from] {
		g.removeReferrer(id, from)
	}
	delete(g.extras, from)
}

// Remove unregisters a node nothing points at anymore.
func (g *Graph) Remove(id NodeID) error {
	if refs := g.Referrers(id); len(refs) > 0 {
		return ErrNodeStillReferenced.New(id, refs)
	}

	g.Unpoint(id)
	delete(g.nodes, id)
	return nil
}

// Target returns the node from points at.
func (g *Graph) Target(from NodeID) (NodeID, bool) {
	to, ok := g.targets[from]
	return to, ok
}

// Extras returns the extra targets of the node.
func (g *Graph) Extras(from NodeID) []NodeID {
	return append([]NodeID(nil), g.extras[from]...)
}

// IsPointedTo reports whether any node points at id, either as its target or
// as an extra target.
func (g *Graph) IsPointedTo(id NodeID) bool {
	return len(g.referrers[id]) > 0
}

// Referrers returns the ids of the nodes pointing at id in ascending order.
func (g *Graph) Referrers(id NodeID) []NodeID {
	refs := g.referrers[id]
	if len(refs) == 0 {
		return nil
	}

	result := make([]NodeID, 0, len(refs))
	for ref := range refs {
		result = append(result, ref)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Ultimate follows the targets starting at id and returns the last node of
// the chain, which is id itself when it points nowhere.
func (g *Graph) Ultimate(id NodeID) NodeID {
	for {
		next, ok := g.targets[id]
		if !ok {
			return id
		}
		id = next
	}
}

// Chain returns id followed by every node reachable through targets.
func (g *Graph) Chain(id NodeID) []NodeID {
	chain := []NodeID{id}
	for {
		next, ok := g.targets[id]
		if !ok {
			return chain
		}
		chain = append(chain, next)
		id = next
	}
}

// reaches reports whether to can be reached from start following targets.
func (g *Graph) reaches(start, to NodeID) bool {
	if start == to {
		return true
	}

	visited := map[NodeID]struct{}{start: {}}
	queue := []NodeID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		next := g.extras[id]
		if t, ok := g.targets[id]; ok {
			next = append([]NodeID{t}, next...)
		}

		for _, n := range next {
			if n == to {
				return true
			}
			if _, ok := visited[n]; !ok {
				visited[n] = struct{}{}
				queue = append(queue, n)
			}
		}
	}

	return false
}

func (g *Graph) addReferrer(to, from NodeID) {
	refs, ok := g.referrers[to]
	if !ok {
		refs = make(map[NodeID]struct{})
		g.referrers[to] = refs
	}
	refs[from] = struct{}{}
}

func (g *Graph) removeReferrer(to, from NodeID) {
	refs := g.referrers[to]
	delete(refs, from)
	if len(refs) == 0 {
		delete(g.referrers, to)
	}
}

func containsID(ids []NodeID, id NodeID) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
