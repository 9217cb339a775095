// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irifrance/ginit/inter"
	"github.com/irifrance/ginit/z"
)

// implies is a theory stating that from implies to.  It observes
// from and to under the local names 1 and 2.
type implies struct {
	core     inter.Core
	index    int
	r        z.Marker
	from, to z.Var
	satisfy  bool

	fromTrue bool
	events   []string
}

func newImplies(core inter.Core, from, to z.Var, satisfy bool) *implies {
	t := &implies{core: core, index: -1, from: from, to: to, satisfy: satisfy}
	core.AddTheory(t)
	t.r = core.NewReasonMarker(t)
	core.NewTheoryVar(from, t.index, 1)
	core.NewTheoryVar(to, t.index, 2)
	return t
}

func (t *implies) Name() string         { return "implies" }
func (t *implies) SetTheoryIndex(i int) { t.index = i }
func (t *implies) TheoryIndex() int     { return t.index }
func (t *implies) NewDecisionLevel()    { t.events = append(t.events, "level") }

func (t *implies) BacktrackUntil(level int) {
	t.events = append(t.events, fmt.Sprintf("back %d", level))
}

func (t *implies) UndecideTheory(m z.Lit) {
	t.events = append(t.events, "undecide "+m.String())
	if m == z.Var(1).Pos() {
		t.fromTrue = false
	}
}

func (t *implies) EnqueueTheory(m z.Lit) {
	t.events = append(t.events, "enqueue "+m.String())
	if m == z.Var(1).Pos() {
		t.fromTrue = true
	}
}

func (t *implies) PropagateTheory(dst []z.Lit) (bool, []z.Lit) {
	t.core.TheoryPropagated(t)
	if !t.fromTrue {
		return true, dst
	}
	if t.core.Val(t.to.Pos()) == -1 {
		return false, append(dst[:0], t.from.Neg(), t.to.Pos())
	}
	t.core.Enqueue(t.to.Pos(), t.r)
	if t.satisfy {
		t.core.SetTheorySatisfied(t)
	}
	return true, dst
}

func (t *implies) BuildReason(m z.Lit, dst []z.Lit, r z.Marker) []z.Lit {
	if r != t.r || m != t.to.Pos() {
		panic("implies: bad reason request")
	}
	return append(dst[:0], m, t.from.Neg())
}

func (t *implies) CheckSolved() bool {
	return t.core.Val(t.from.Pos()) != 1 || t.core.Val(t.to.Pos()) == 1
}

func TestTheoriesRegistry(t *testing.T) {
	s := NewS()
	a := newImplies(s, 1, 2, false)
	b := newImplies(s, 2, 3, false)
	assert.Equal(t, 0, a.TheoryIndex())
	assert.Equal(t, 1, b.TheoryIndex())
	assert.NotEqual(t, z.MarkerNull, a.r)
	assert.NotEqual(t, a.r, b.r)
	assert.Same(t, b, s.Theories.owner(b.r))

	assert.Panics(t, func() { s.AddTheory(a) })
	assert.Panics(t, func() { s.NewTheoryVar(1, a.index, 1) })
	assert.Panics(t, func() { s.NewTheoryVar(5, 7, 5) })
	assert.Panics(t, func() { s.Theories.owner(z.Marker(99)) })
	assert.Panics(t, func() {
		s.NewReasonMarker(&implies{index: -1})
	})
}

func TestTheoryPropagates(t *testing.T) {
	s := NewS()
	a, b := z.Var(1), z.Var(2)
	th := newImplies(s, a, b, false)
	s.Add(b.Neg())
	s.Add(z.Var(3).Pos())
	s.Add(0)

	s.Assume(a.Pos())
	require.Equal(t, 1, s.Solve())
	assert.True(t, s.Value(b.Pos()))
	assert.True(t, s.Value(z.Var(3).Pos()))
	assert.Contains(t, th.events, "enqueue 1")

	if diff := cmp.Diff([]z.Lit{a.Pos()}, s.Reasons(nil, b.Pos())); diff != "" {
		t.Errorf("theory reasons (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]z.Lit{b.Pos()}, s.Reasons(nil, z.Var(3).Pos())); diff != "" {
		t.Errorf("clause reasons (-want +got):\n%s", diff)
	}
	assert.Empty(t, s.Reasons(nil, a.Pos()))
}

func TestTheoryConflict(t *testing.T) {
	s := NewS()
	a, b := z.Var(1), z.Var(2)
	newImplies(s, a, b, false)
	s.Add(b.Neg())
	s.Add(0)

	s.Assume(a.Pos())
	require.Equal(t, -1, s.Solve())
	assert.Equal(t, []z.Lit{a.Pos()}, s.Why(nil))

	var st Stats
	s.ReadStats(&st)
	assert.Equal(t, int64(1), st.TheoryConflicts)

	// without the assumption, a is decided false.
	require.Equal(t, 1, s.Solve())
	assert.False(t, s.Value(a.Pos()))
}

func TestWhyThroughTheoryReason(t *testing.T) {
	s := NewS()
	a, b, c := z.Var(1), z.Var(2), z.Var(3)
	newImplies(s, a, b, false)
	s.Add(b.Neg())
	s.Add(c.Neg())
	s.Add(0)

	s.Assume(a.Pos(), c.Pos())
	require.Equal(t, -1, s.Solve())
	assert.ElementsMatch(t, []z.Lit{a.Pos(), c.Pos()}, s.Why(nil))
}

func TestTheorySatisfiedSkipped(t *testing.T) {
	s := NewS()
	a, b := z.Var(1), z.Var(2)
	th := newImplies(s, a, b, true)
	s.Lit() // 3

	trail := s.Trail
	s.decide(a.Pos(), false)
	require.Nil(t, trail.Prop())
	assert.Equal(t, 1, s.Theories.satAt[th.index])
	assert.True(t, s.Value(b.Pos()))

	var st Stats
	s.ReadStats(&st)
	props := st.TheoryProps

	s.decide(z.Var(3).Pos(), false)
	require.Nil(t, trail.Prop())
	s.ReadStats(&st)
	assert.Equal(t, props, st.TheoryProps, "satisfied theory propagated")

	// backtracking to the satisfying level keeps it satisfied
	trail.Back(1)
	assert.Equal(t, 1, s.Theories.satAt[th.index])

	th.events = th.events[:0]
	trail.Back(0)
	assert.Equal(t, -1, s.Theories.satAt[th.index])
	assert.Equal(t, []string{"undecide 2", "undecide 1", "back 0"}, th.events)
	assert.False(t, th.fromTrue)
}

func TestTheoryEnqueueFalse(t *testing.T) {
	s := NewS()
	a, b := z.Var(1), z.Var(2)
	th := newImplies(s, a, b, false)
	s.decide(b.Neg(), false)
	require.Nil(t, s.Trail.Prop())
	s.decide(a.Pos(), false)
	assert.False(t, s.Enqueue(b.Pos(), th.r))
	x := s.Trail.Prop()
	assert.Equal(t, []z.Lit{b.Pos(), a.Neg()}, x)
	assert.True(t, s.Enqueue(z.Var(2).Neg(), th.r))
}

func TestAddClauseAboveLevel0(t *testing.T) {
	s := NewS()
	s.decide(z.Var(1).Pos(), false)
	assert.Panics(t, func() { s.AddClause(z.Var(2).Pos()) })
}

func TestAddClauseEmpty(t *testing.T) {
	s := NewS()
	a := z.Var(1).Pos()
	s.Add(a)
	s.Add(0)
	assert.False(t, s.AddClause(a.Not()))
	assert.NotNil(t, s.Trail.Prop())
}
