// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math/rand"
	"sync"

	"github.com/irifrance/ginit/inter"
	"github.com/irifrance/ginit/z"
)

// AMOFunc adds a constraint that at most one of vs is true,
// typically by creating an at-most-one theory.
type AMOFunc func(vs ...z.Var)

// make the rng seedable
var rng = rand.New(rand.NewSource(33))
var mu sync.Mutex

func Seed(s int64) {
	mu.Lock()
	defer mu.Unlock()
	rng = rand.New(rand.NewSource(s))
}

// BinCycle generates
// (1,-2) (2,-3), (3,-4) ... (n-1, -(n)), (n, 1)
func BinCycle(dst inter.Adder, n int) {
	N := n + 1

	for i := 1; i < N; i++ {
		j := i + 1
		if j == N {
			j = 1
		}
		m, o := z.Var(i).Pos(), z.Var(j).Neg()
		dst.Add(m)
		dst.Add(o)
		dst.Add(z.LitNull)
	}
}

// AtMostOne adds to dst a binary clause for every pair of vs,
// stating that no 2 of vs are true.
func AtMostOne(dst inter.Adder, vs ...z.Var) {
	for i, u := range vs {
		for _, v := range vs[i+1:] {
			dst.Add(u.Neg())
			dst.Add(v.Neg())
			dst.Add(z.LitNull)
		}
	}
}

// Php generates a pigeon hole problem asking
// whether or not P pigeons can be placed
// in H holes with 1 pigeon per hole.
//
// If amo is nil, the holes are constrained by pairwise
// clauses, otherwise by calls to amo.
func Php(dst inter.Adder, amo AMOFunc, P, H int) {
	for i := 0; i < P; i++ {
		for j := 0; j < H; j++ {
			dst.Add(PartVar(i, j, P))
		}
		dst.Add(0)
	}
	vs := make([]z.Var, P)
	for h := 0; h < H; h++ {
		for i := 0; i < P; i++ {
			vs[i] = PartVar(i, h, P).Var()
		}
		if amo == nil {
			AtMostOne(dst, vs...)
			continue
		}
		amo(vs...)
	}
}
