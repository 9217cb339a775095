// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package graph

import (
	"fmt"
)

// Edge is a directed edge.
type Edge struct {
	ID   int
	From int
	To   int
}

func (e Edge) String() string {
	return fmt.Sprintf("e%d(%d->%d)", e.ID, e.From, e.To)
}

// Change records a change to the enabled state of an edge.
type Change struct {
	Addition bool // whether the edge was enabled (or added) rather than disabled
	ID       int
	Mod      int // Modifications after the change
}

// Graph is the read-only view of a mutable graph used by
// incremental algorithms.  Every counter increases monotonically.
type Graph interface {
	Nodes() int
	Edges() []Edge
	EdgeEnabled(id int) bool

	Modifications() int
	Additions() int
	Deletions() int

	// History returns the changes recorded since the last ClearHistory.
	History() []Change
	HistoryClears() int
}

// Dynamic is a directed graph whose edges can be added, enabled and
// disabled.  Every change increments Modifications; adding or enabling
// an edge increments Additions and disabling one increments Deletions.
// Edge state changes are logged to a history which consumers read
// with their own cursor.
type Dynamic struct {
	nodes   int
	edges   []Edge
	enabled []bool

	modifications int
	additions     int
	deletions     int

	history       []Change
	historyClears int
}

// NewDynamic creates an empty graph.
func NewDynamic() *Dynamic {
	return &Dynamic{}
}

// AddNode adds a node and returns it.
func (g *Dynamic) AddNode() int {
	n := g.nodes
	g.nodes++
	g.modifications++
	return n
}

// AddNodes adds nodes until there are at least n.
func (g *Dynamic) AddNodes(n int) {
	for g.nodes < n {
		g.AddNode()
	}
}

// AddEdge adds an enabled edge and returns its id.
func (g *Dynamic) AddEdge(from, to int) int {
	g.checkNode(from)
	g.checkNode(to)
	id := len(g.edges)
	g.edges = append(g.edges, Edge{ID: id, From: from, To: to})
	g.enabled = append(g.enabled, true)
	g.modifications++
	g.additions++
	g.history = append(g.history, Change{Addition: true, ID: id, Mod: g.modifications})
	return id
}

func (g *Dynamic) checkNode(u int) {
	if u < 0 || u >= g.nodes {
		panic(fmt.Sprintf("node %d out of range [0..%d)", u, g.nodes))
	}
}

func (g *Dynamic) checkEdge(id int) {
	if id < 0 || id >= len(g.edges) {
		panic(fmt.Sprintf("edge %d out of range [0..%d)", id, len(g.edges)))
	}
}

// EnableEdge enables edge id.  Enabling an enabled edge does nothing.
func (g *Dynamic) EnableEdge(id int) {
	g.SetEdgeEnabled(id, true)
}

// DisableEdge disables edge id.  Disabling a disabled edge does nothing.
func (g *Dynamic) DisableEdge(id int) {
	g.SetEdgeEnabled(id, false)
}

// SetEdgeEnabled sets whether edge id is enabled.
func (g *Dynamic) SetEdgeEnabled(id int, on bool) {
	g.checkEdge(id)
	if g.enabled[id] == on {
		return
	}
	g.enabled[id] = on
	g.modifications++
	if on {
		g.additions++
	} else {
		g.deletions++
	}
	g.history = append(g.history, Change{Addition: on, ID: id, Mod: g.modifications})
}

// EdgeEnabled returns whether edge id is enabled.
func (g *Dynamic) EdgeEnabled(id int) bool {
	g.checkEdge(id)
	return g.enabled[id]
}

// Edge returns the edge with id.
func (g *Dynamic) Edge(id int) Edge {
	g.checkEdge(id)
	return g.edges[id]
}

// Nodes returns the number of nodes.
func (g *Dynamic) Nodes() int { return g.nodes }

// Edges returns all edges, enabled or not.  The result must not
// be modified.
func (g *Dynamic) Edges() []Edge { return g.edges }

// Modifications returns the number of changes to g.
func (g *Dynamic) Modifications() int { return g.modifications }

// Additions returns the number of edge additions and enables.
func (g *Dynamic) Additions() int { return g.additions }

// Deletions returns the number of edge disables.
func (g *Dynamic) Deletions() int { return g.deletions }

// History implements Graph.
func (g *Dynamic) History() []Change { return g.history }

// HistoryClears implements Graph.
func (g *Dynamic) HistoryClears() int { return g.historyClears }

// ClearHistory drops the recorded history.  Consumers notice via
// HistoryClears and must not rely on their cursor afterwards.
func (g *Dynamic) ClearHistory() {
	g.history = nil
	g.historyClears++
}

// Adjacency returns the enabled out-neighbours of every node.
func (g *Dynamic) Adjacency() [][]int {
	adj := make([][]int, g.nodes)
	for _, e := range g.edges {
		if g.enabled[e.ID] {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}
	return adj
}
