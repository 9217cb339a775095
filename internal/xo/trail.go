// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"bytes"
	"fmt"

	"github.com/irifrance/ginit/z"
)

// Trail is the sequence of assigned literals, in assignment order,
// together with the decision levels which partition it.
type Trail struct {
	Vars     *Vars
	Cdb      *Cdb
	Theories *Theories

	D      []z.Lit
	Tail   int   // len(D)
	Head   int   // D[:Head] has been propagated
	Level  int   // current decision level
	levels []int // levels[l] is Tail when level l+1 was opened
	Props  int64

	x []z.Lit // pending conflict, all literals false

	stBacks int64
}

// NewTrail creates a trail over the clauses of cdb and the theories th.
func NewTrail(cdb *Cdb, th *Theories) *Trail {
	return &Trail{
		Vars:     cdb.Vars,
		Cdb:      cdb,
		Theories: th,
		D:        make([]z.Lit, 0, cdb.Vars.Top),
		levels:   make([]int, 0, 64)}
}

// Assign makes m true at the current level with reason r.
// m must be unassigned.
func (t *Trail) Assign(m z.Lit, r Reason) {
	vars := t.Vars
	if vars.Vals[m] != 0 {
		panic(fmt.Sprintf("assign %s: already assigned", m))
	}
	vars.Set(m)
	u := m.Var()
	vars.Levels[u] = t.Level
	vars.Reasons[u] = r
	t.D = append(t.D, m)
	t.Tail++
}

// NewLevel opens a new decision level.
func (t *Trail) NewLevel() {
	t.levels = append(t.levels, t.Tail)
	t.Level++
	t.Theories.newDecisionLevel()
}

// Decision returns the literal which opened level l > 0.
func (t *Trail) Decision(l int) z.Lit {
	return t.D[t.levels[l-1]]
}

// fail records a conflict for the next call to Prop.  Only
// the first conflict is kept.
func (t *Trail) fail(x []z.Lit) {
	if t.x != nil {
		return
	}
	t.x = append(make([]z.Lit, 0, len(x)), x...)
}

// Prop propagates the trail under the clauses and the theories until
// a fixpoint or a conflict.  Prop returns nil if there is no conflict,
// and otherwise a set of literals which are all false.
func (t *Trail) Prop() []z.Lit {
	th := t.Theories
	for {
		if t.x != nil {
			return t.x
		}
		for t.Head < t.Tail {
			m := t.D[t.Head]
			t.Head++
			t.Props++
			x := t.Cdb.prop(m, t)
			// m counts as delivered once Head passes it, so the
			// theories see it even when the clauses conflict.
			th.enqueue(m)
			if x != nil {
				t.fail(x)
			}
			if t.x != nil {
				return t.x
			}
		}
		if x := th.propagate(t.Vars); x != nil {
			t.fail(x)
			return t.x
		}
		if t.x == nil && t.Head == t.Tail {
			return nil
		}
	}
}

// Back undoes all assignments above level l.
func (t *Trail) Back(l int) {
	if l >= t.Level {
		return
	}
	t.stBacks++
	vars := t.Vars
	start := t.levels[l]
	for i := t.Tail - 1; i >= start; i-- {
		m := t.D[i]
		if i < t.Head {
			t.Theories.undecide(m)
		}
		vars.unset(m)
	}
	t.D = t.D[:start]
	t.Tail = start
	if t.Head > start {
		t.Head = start
	}
	t.levels = t.levels[:l]
	t.Level = l
	t.x = nil
	t.Theories.backtrack(l)
}

func (t *Trail) growToVar(u z.Var) {
	if cap(t.D) < int(u) {
		d := make([]z.Lit, len(t.D), u+1)
		copy(d, t.D)
		t.D = d
	}
}

func (t *Trail) readStats(st *Stats) {
	st.Props += t.Props
	t.Props = 0
	st.Backtracks += t.stBacks
	t.stBacks = 0
}

func (t *Trail) String() string {
	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "trail[%d/%d@%d]", t.Head, t.Tail, t.Level)
	l := 0
	for i, m := range t.D {
		for l < len(t.levels) && t.levels[l] == i {
			l++
			fmt.Fprintf(buf, " |%d", l)
		}
		fmt.Fprintf(buf, " %s", m)
	}
	return buf.String()
}
