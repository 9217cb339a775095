// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"

	"github.com/irifrance/ginit/inter"
	"github.com/irifrance/ginit/z"
)

// tvar records that a theory observes a variable under a local name.
type tvar struct {
	theory int
	local  z.Var
}

// Theories dispatches core events to the registered theories and
// holds the reason marker registry.
type Theories struct {
	D       []inter.Theory
	owners  []int    // owners[r] is the index of the theory which minted marker r
	obs     [][]tvar // indexed by variable
	pending []bool
	satAt   []int // level at which a theory was satisfied, -1 if not satisfied

	buf  []z.Lit
	rbuf []z.Lit

	stEnqueues  int64
	stProps     int64
	stConflicts int64
	stReasons   int64
	stSatisfied int64
}

func newTheories(vcap int) *Theories {
	return &Theories{
		owners: []int{-1},
		obs:    make([][]tvar, vcap),
		buf:    make([]z.Lit, 0, 16),
		rbuf:   make([]z.Lit, 0, 16)}
}

func (th *Theories) add(t inter.Theory) int {
	for _, o := range th.D {
		if o == t {
			panic(fmt.Sprintf("theory %s added twice", t.Name()))
		}
	}
	i := len(th.D)
	th.D = append(th.D, t)
	th.pending = append(th.pending, true)
	th.satAt = append(th.satAt, -1)
	t.SetTheoryIndex(i)
	return i
}

func (th *Theories) index(t inter.Theory) int {
	i := t.TheoryIndex()
	if i < 0 || i >= len(th.D) || th.D[i] != t {
		panic(fmt.Sprintf("theory %s not registered", t.Name()))
	}
	return i
}

func (th *Theories) newMarker(t inter.Theory) z.Marker {
	i := th.index(t)
	r := z.Marker(len(th.owners))
	th.owners = append(th.owners, i)
	return r
}

func (th *Theories) owner(r z.Marker) inter.Theory {
	if r == z.MarkerNull || int(r) >= len(th.owners) {
		panic(fmt.Sprintf("unknown reason marker %s", r))
	}
	return th.D[th.owners[r]]
}

func (th *Theories) newTheoryVar(v z.Var, theory int, local z.Var) {
	if theory < 0 || theory >= len(th.D) {
		panic(fmt.Sprintf("theory var %s for unknown theory %d", v, theory))
	}
	for _, tv := range th.obs[v] {
		if tv.theory == theory {
			panic(fmt.Sprintf("theory var %s registered twice for theory %d", v, theory))
		}
	}
	th.obs[v] = append(th.obs[v], tvar{theory: theory, local: local})
}

func localLit(m z.Lit, local z.Var) z.Lit {
	if m.IsPos() {
		return local.Pos()
	}
	return local.Neg()
}

// enqueue delivers m to the theories observing its variable.  Satisfied
// theories receive it too, so that every undecide matches an enqueue.
func (th *Theories) enqueue(m z.Lit) {
	for _, tv := range th.obs[m.Var()] {
		th.stEnqueues++
		th.pending[tv.theory] = true
		th.D[tv.theory].EnqueueTheory(localLit(m, tv.local))
	}
}

func (th *Theories) undecide(m z.Lit) {
	for _, tv := range th.obs[m.Var()] {
		th.D[tv.theory].UndecideTheory(localLit(m, tv.local))
	}
}

func (th *Theories) newDecisionLevel() {
	for _, t := range th.D {
		t.NewDecisionLevel()
	}
}

func (th *Theories) backtrack(level int) {
	for i, t := range th.D {
		if th.satAt[i] > level {
			th.satAt[i] = -1
		}
		th.pending[i] = true
		t.BacktrackUntil(level)
	}
}

// propagate runs PropagateTheory on every pending unsatisfied theory,
// returning the first conflict found.
func (th *Theories) propagate(vars *Vars) []z.Lit {
	for i, t := range th.D {
		if th.satAt[i] >= 0 || !th.pending[i] {
			continue
		}
		th.stProps++
		ok, x := t.PropagateTheory(th.buf[:0])
		if ok {
			continue
		}
		th.stConflicts++
		for _, m := range x {
			if vars.Vals[m] != -1 {
				panic(fmt.Sprintf("theory %s[%d] conflict %v has non-false literal %s", t.Name(), i, x, m))
			}
		}
		th.buf = x
		return x
	}
	return nil
}

func (th *Theories) setSatisfied(t inter.Theory, level int) {
	i := th.index(t)
	if th.satAt[i] < 0 {
		th.stSatisfied++
		th.satAt[i] = level
	}
}

func (th *Theories) propagated(t inter.Theory) {
	th.pending[th.index(t)] = false
}

// buildReason returns the reason clause for m propagated under r.
func (th *Theories) buildReason(m z.Lit, r z.Marker) []z.Lit {
	t := th.owner(r)
	th.stReasons++
	rs := t.BuildReason(m, th.rbuf[:0], r)
	if len(rs) == 0 || rs[0] != m {
		panic(fmt.Sprintf("theory %s reason %v for %s under %s does not start with it", t.Name(), rs, m, r))
	}
	th.rbuf = rs
	return rs
}

// checkSolved returns the indices of the theories not satisfied by
// the current assignment.
func (th *Theories) checkSolved() []int {
	var res []int
	for i, t := range th.D {
		if !t.CheckSolved() {
			res = append(res, i)
		}
	}
	return res
}

func (th *Theories) growToVar(u z.Var) {
	obs := make([][]tvar, u+1)
	copy(obs, th.obs)
	th.obs = obs
}

func (th *Theories) readStats(st *Stats) {
	st.Theories = len(th.D)
	st.TheoryEnqueues += th.stEnqueues
	th.stEnqueues = 0
	st.TheoryProps += th.stProps
	th.stProps = 0
	st.TheoryConflicts += th.stConflicts
	th.stConflicts = 0
	st.TheoryReasons += th.stReasons
	th.stReasons = 0
	st.TheorySatisfied += th.stSatisfied
	th.stSatisfied = 0
}
