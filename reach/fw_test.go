// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package reach

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irifrance/ginit/gen"
	"github.com/irifrance/ginit/graph"
)

// chain builds 0->1->2 with an isolated node 3.
func chain() (*graph.Dynamic, int, int) {
	g := graph.NewDynamic()
	g.AddNodes(4)
	e01 := g.AddEdge(0, 1)
	e12 := g.AddEdge(1, 2)
	return g, e01, e12
}

func TestChain(t *testing.T) {
	g, _, e12 := chain()
	fw := New(g)
	st := &DefaultStatus{}
	fw.AddSource(0, st)
	fw.Update()

	for u, want := range []bool{true, true, true, false} {
		assert.Equal(t, want, fw.Connected(0, u), "node %d", u)
		assert.Equal(t, want, st.IsReachable(u), "status of node %d", u)
	}
	assert.Equal(t, 2, fw.Distance(0, 2))
	assert.Equal(t, fw.Inf(), fw.Distance(0, 3))
	assert.Equal(t, []int{0, 1, 2}, fw.Path(0, 2, nil))
	assert.Equal(t, 1, fw.Previous(0, 2))
	assert.Equal(t, -1, fw.Previous(0, 0))
	assert.Nil(t, fw.Path(0, 3, nil))

	g.DisableEdge(e12)
	assert.False(t, fw.Connected(0, 2))
	assert.False(t, st.IsReachable(2))
	assert.True(t, st.IsReachable(1))
	assert.Equal(t, -1, fw.Previous(0, 2))
}

func TestCaching(t *testing.T) {
	g, e01, _ := chain()
	fw := New(g)
	fw.AddSource(0, &DefaultStatus{})
	for i := 0; i < 5; i++ {
		fw.Connected(0, 2)
		fw.Distance(0, 1)
	}
	var st Stats
	fw.ReadStats(&st)
	assert.Equal(t, int64(1), st.FullUpdates)

	fw.Update()
	fw.ReadStats(&st)
	assert.Equal(t, int64(1), st.SkippedUpdates)

	// off then on nets out
	g.DisableEdge(e01)
	g.EnableEdge(e01)
	assert.False(t, fw.UpToDate())
	assert.True(t, fw.Connected(0, 2))
	fw.ReadStats(&st)
	assert.Equal(t, int64(1), st.FullUpdates)
	assert.Equal(t, int64(1), st.FastUpdates)
	assert.True(t, fw.UpToDate())

	// a real change recomputes
	g.DisableEdge(e01)
	assert.False(t, fw.Connected(0, 1))
	fw.ReadStats(&st)
	assert.Equal(t, int64(2), st.FullUpdates)
}

func TestNetChangeAfterClear(t *testing.T) {
	g, e01, _ := chain()
	fw := New(g)
	fw.AddSource(0, &DefaultStatus{})
	fw.Update()
	g.DisableEdge(e01)
	g.ClearHistory()
	g.EnableEdge(e01)
	fw.Update()
	var st Stats
	fw.ReadStats(&st)
	assert.Equal(t, int64(2), st.FullUpdates)
	assert.Zero(t, st.FastUpdates)
}

func TestNewNodes(t *testing.T) {
	g, _, _ := chain()
	fw := New(g)
	fw.AddSource(0, &DefaultStatus{})
	fw.Update()
	u := g.AddNode()
	g.AddEdge(2, u)
	assert.True(t, fw.Connected(0, u))
	assert.Equal(t, 3, fw.Distance(0, u))
	assert.Equal(t, 6, fw.Inf())
}

func TestSetNodes(t *testing.T) {
	g, _, _ := chain()
	fw := New(g)
	fw.AddSource(0, &DefaultStatus{})
	require.False(t, fw.Connected(0, 3))
	assert.Equal(t, 5, fw.Distance(0, 3))

	fw.SetNodes(g.Nodes() + 1)
	assert.False(t, fw.UpToDate())
	assert.False(t, fw.ConnectedUnsafe(0, 2))
	assert.True(t, fw.ConnectedUnsafe(0, 0))
	assert.False(t, fw.Connected(0, 3))
	assert.Equal(t, 2, fw.Distance(0, 2))
	assert.Equal(t, 5, fw.Inf())

	fw.SetNodes(g.Nodes() + 1)
	fw.SetNodes(g.Nodes())
	assert.True(t, fw.Connected(0, 2))
	assert.False(t, fw.Connected(0, 3))
	assert.Equal(t, 1, fw.Distance(0, 1))
	assert.Equal(t, 5, fw.Distance(2, 0))

	// same size keeps the tables
	fw.SetNodes(g.Nodes())
	assert.True(t, fw.UpToDate())
}

func TestPolarity(t *testing.T) {
	for _, tc := range []struct {
		p          Polarity
		sets       int
		reach, not bool
	}{
		{ReportBoth, 4, true, true},
		{ReportReachable, 3, true, false},
		{ReportUnreachable, 1, false, true},
		{ReportNone, 0, false, false},
	} {
		g, _, _ := chain()
		fw := New(g, WithPolarity(tc.p))
		st := &DefaultStatus{}
		fw.AddSource(0, st)
		fw.Update()
		assert.Equal(t, tc.sets, st.Sets(), "%s", tc.p)
		assert.Equal(t, tc.reach, st.IsReachable(2), "%s", tc.p)
		assert.Equal(t, tc.p, fw.Polarity())
	}
}

type recorder struct {
	set map[int]bool
}

func (r *recorder) SetReachable(u int, reachable bool) {
	r.set[u] = reachable
}

func (r *recorder) IsReachable(u int) bool {
	return r.set[u]
}

func TestUnreachableReported(t *testing.T) {
	g, _, e12 := chain()
	fw := New(g, WithPolarity(ReportUnreachable))
	r := &recorder{set: map[int]bool{}}
	fw.AddSource(0, r)
	g.DisableEdge(e12)
	fw.Update()
	assert.Equal(t, map[int]bool{2: false, 3: false}, r.set)
}

func TestSources(t *testing.T) {
	g, _, _ := chain()
	fw := New(g)
	a, b := &DefaultStatus{}, &DefaultStatus{}
	fw.AddSource(0, a)
	fw.AddSource(1, b)
	assert.Equal(t, []int{0, 1}, fw.Sources())
	assert.Panics(t, func() { fw.AddSource(1, &DefaultStatus{}) })
	fw.Update()
	assert.True(t, a.IsReachable(1))
	assert.False(t, b.IsReachable(0))
	assert.True(t, b.IsReachable(1))
	assert.True(t, fw.Reachable(0, 2))
	assert.False(t, fw.Reachable(1, 0))
	assert.Panics(t, func() { fw.Reachable(2, 0) })
}

func TestOutOfRange(t *testing.T) {
	g, _, _ := chain()
	fw := New(g)
	assert.Panics(t, func() { fw.Connected(0, 4) })
	assert.False(t, fw.ConnectedUnsafe(0, 4))
	assert.True(t, fw.ConnectedUnchecked(0, 2))
	g.AddNode()
	assert.Panics(t, func() { fw.ConnectedUnchecked(0, 2) })
}

func TestSelfLoop(t *testing.T) {
	g := graph.NewDynamic()
	g.AddNodes(2)
	g.AddEdge(1, 1)
	fw := New(g)
	assert.Equal(t, 0, fw.Distance(1, 1))
	assert.Equal(t, []int{1}, fw.Path(1, 1, nil))
	assert.False(t, fw.Connected(1, 0))
}

func bfs(adj [][]int, s int) []int {
	dist := make([]int, len(adj))
	for i := range dist {
		dist[i] = -1
	}
	dist[s] = 0
	q := []int{s}
	for len(q) > 0 {
		u := q[0]
		q = q[1:]
		for _, v := range adj[u] {
			if dist[v] < 0 {
				dist[v] = dist[u] + 1
				q = append(q, v)
			}
		}
	}
	return dist
}

func TestRandom(t *testing.T) {
	gen.Seed(44)
	n := 24
	g := graph.NewDynamic()
	gen.RandDigraph(g, n, 40)
	fw := New(g)
	sts := make([]*DefaultStatus, 3)
	for i := range sts {
		sts[i] = &DefaultStatus{}
		fw.AddSource(i*7, sts[i])
	}
	for round := 0; round < 30; round++ {
		gen.RandToggles(g, 3)
		adj := g.Adjacency()
		fw.Update()
		for i, s := range fw.Sources() {
			dist := bfs(adj, s)
			for u, d := range dist {
				require.Equal(t, d >= 0, fw.Connected(s, u), "round %d %d->%d", round, s, u)
				require.Equal(t, d >= 0, sts[i].IsReachable(u), "status round %d %d->%d", round, s, u)
				if d < 0 {
					continue
				}
				require.Equal(t, d, fw.Distance(s, u))
				p := fw.Path(s, u, nil)
				require.Len(t, p, d+1)
				require.Equal(t, s, p[0])
				require.Equal(t, u, p[len(p)-1])
				for j := 1; j < len(p); j++ {
					require.Contains(t, adj[p[j-1]], p[j], "path %v uses a disabled edge", p)
				}
			}
		}
	}
}

func TestDot(t *testing.T) {
	g, _, e12 := chain()
	g.DisableEdge(e12)
	fw := New(g)
	fw.AddSource(0, &DefaultStatus{})
	buf := bytes.NewBuffer(nil)
	require.NoError(t, fw.Dot(buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph{\n"))
	assert.Contains(t, out, "n1 [fillcolor=blue style=filled]\n")
	assert.Contains(t, out, "n2\n")
	assert.Contains(t, out, "n0 -> n1 [label=\"e0\",color=\"blue\"]\n")
	assert.Contains(t, out, "n1 -> n2 [label=\"e1\",color=\"red\"]\n")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestParsePolarity(t *testing.T) {
	for _, p := range []Polarity{ReportBoth, ReportUnreachable, ReportReachable, ReportNone} {
		q, err := ParsePolarity(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, q)
	}
	_, err := ParsePolarity("sideways")
	assert.Error(t, err)
}
