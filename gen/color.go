// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"github.com/irifrance/ginit/inter"
	"github.com/irifrance/ginit/z"
)

// ColorVar returns the variable stating node i has color c,
// when there are k colors.
func ColorVar(i, c, k int) z.Var {
	return z.Var(i*k + c + 1)
}

// RandColor creates a formula asking if a random
// (simple) graph with n nodes and m edges can
// be colored with k colors.  Every node must have
// exactly one color and no 2 adjacent nodes may have the
// same color.  If amo is nil, "exactly one" is coded with
// clauses, otherwise with calls to amo.
//
// RandColor returns the graph.
func RandColor(dst inter.Adder, amo AMOFunc, n, m, k int) [][]int {
	g := RandGraph(n, m)
	vs := make([]z.Var, k)
	for i := range g {
		for c := 0; c < k; c++ {
			vs[c] = ColorVar(i, c, k)
			dst.Add(vs[c].Pos())
		}
		dst.Add(0)
		if amo == nil {
			AtMostOne(dst, vs...)
		} else {
			amo(vs...)
		}
	}
	for a, es := range g {
		for _, b := range es {
			if b >= a {
				continue
			}
			for c := 0; c < k; c++ {
				dst.Add(ColorVar(a, c, k).Neg())
				dst.Add(ColorVar(b, c, k).Neg())
				dst.Add(0)
			}
		}
	}
	return g
}

type edge struct {
	a, b int
}

// RandGraph creates a simple (undirected) random graph with n nodes and m
// edges.  If m > n*(n-1)/2, RandGraph returns nil.
//
// The result is in the form of an edge list, namely each node is idenitified
// by an integer in [0..n) and the edgelist for node i is result[i].  There
// are no multi-edges and no self edges.  The symmetric view of the graph is
// returned with 2*m edges.
func RandGraph(n, m int) [][]int {
	if m > n*(n-1)/2 {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	ns := make([][]int, n)

	es := make([]edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			es = append(es, edge{i, j})
		}
	}

	for i := 0; i < m; i++ {
		el := len(es)
		j := rng.Intn(el)
		e := es[j]
		ns[e.a] = append(ns[e.a], e.b)
		ns[e.b] = append(ns[e.b], e.a)
		el--
		es[j], es[el] = es[el], es[j]
		es = es[:el]
	}
	return ns
}
