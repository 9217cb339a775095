// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import "github.com/irifrance/ginit/graph"

// RandDigraph adds to g nodes until it has n and then m random
// directed edges between distinct nodes, returning the ids of the
// new edges.  Parallel edges may occur.
func RandDigraph(g *graph.Dynamic, n, m int) []int {
	g.AddNodes(n)
	if n < 2 {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	ids := make([]int, 0, m)
	for i := 0; i < m; i++ {
		a := rng.Intn(n)
		b := rng.Intn(n - 1)
		if b >= a {
			b++
		}
		ids = append(ids, g.AddEdge(a, b))
	}
	return ids
}

// RandToggles flips the enabled state of k edges of g
// chosen at random.
func RandToggles(g *graph.Dynamic, k int) {
	es := len(g.Edges())
	if es == 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < k; i++ {
		id := rng.Intn(es)
		g.SetEdgeEnabled(id, !g.EdgeEnabled(id))
	}
}
