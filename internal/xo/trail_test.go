// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"testing"

	"github.com/irifrance/ginit/gen"
	"github.com/irifrance/ginit/z"
)

func TestTrailBinarySat(t *testing.T) {
	N := 8
	dst := NewS()
	gen.BinCycle(dst, N)
	trail := dst.Trail
	trail.NewLevel()
	trail.Assign(z.Lit(2), Reason{})
	x := trail.Prop()
	if x != nil {
		t.Errorf("binary cycle: unexpected conflict")
	}
	if trail.Tail != N {
		t.Errorf("binary cycle: tail %d != %d", trail.Tail, N)
	}
	trail.Back(0)
	if trail.Tail != 0 || trail.Head != 0 {
		t.Errorf("back to 0: tail %d head %d", trail.Tail, trail.Head)
	}
	for v := z.Var(1); v <= z.Var(N); v++ {
		if dst.Vars.Sign(v.Pos()) != 0 {
			t.Errorf("back to 0: %s still assigned", v)
		}
	}
}

func TestTrailBinaryUnsat(t *testing.T) {
	N := 8
	dst := NewS()
	gen.BinCycle(dst, N)
	// (¬1 ∨ ¬5) with the cycle forces all equal.
	dst.Add(z.Var(1).Neg())
	dst.Add(z.Var(5).Neg())
	dst.Add(0)
	trail := dst.Trail
	trail.NewLevel()
	trail.Assign(z.Var(3).Pos(), Reason{})
	x := trail.Prop()
	if x == nil {
		t.Fatalf("binary cycle: expected conflict")
	}
	for _, m := range x {
		if dst.Vars.Sign(m) != -1 {
			t.Errorf("conflict literal %s not false", m)
		}
	}
	trail.Back(0)
	if x := trail.Prop(); x != nil {
		t.Errorf("conflict survived backtrack")
	}
}

func TestTrailLevels(t *testing.T) {
	dst := NewS()
	gen.BinCycle(dst, 4)
	for v := z.Var(5); v <= 8; v++ {
		dst.Add(v.Pos())
		dst.Add(z.Var(9).Pos())
		dst.Add(0)
	}
	trail := dst.Trail
	for v := z.Var(5); v <= 7; v++ {
		trail.NewLevel()
		trail.Assign(v.Neg(), Reason{})
		if x := trail.Prop(); x != nil {
			t.Fatalf("unexpected conflict at %s", v)
		}
	}
	if trail.Level != 3 {
		t.Fatalf("level %d != 3", trail.Level)
	}
	if d := trail.Decision(2); d != z.Var(6).Neg() {
		t.Errorf("decision 2: %s", d)
	}
	if dst.Vars.Levels[9] != 1 {
		t.Errorf("9 implied at level %d", dst.Vars.Levels[9])
	}
	trail.Back(1)
	if trail.Level != 1 || trail.Tail != 2 {
		t.Errorf("back 1: %s", trail)
	}
	if dst.Vars.Sign(z.Var(9).Pos()) != 1 {
		t.Errorf("back 1 undid level 1")
	}
}
