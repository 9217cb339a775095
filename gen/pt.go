// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"github.com/irifrance/ginit/inter"
	"github.com/irifrance/ginit/z"
)

// PartVar returns a variable if element i is in partition k
// for a set of n elements.
func PartVar(i, k, n int) z.Lit {
	return z.Var(k*n + i + 1).Pos()
}

// Partition adds constraints to dst stating that there exists a partition of n
// elements into k parts.  Every model of the result is a partition with
// PartVar(i, k, n) true if and only if element i is in partition k.
//
// If amo is nil, each element is kept in at most one part by
// pairwise clauses, otherwise by calls to amo.
func Partition(dst inter.Adder, amo AMOFunc, n, k int) {
	vs := make([]z.Var, k)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			dst.Add(PartVar(i, j, n))
			vs[j] = PartVar(i, j, n).Var()
		}
		dst.Add(0)
		if amo == nil {
			AtMostOne(dst, vs...)
			continue
		}
		amo(vs...)
	}
}
