// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package amo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/irifrance/ginit/inter"
	"github.com/irifrance/ginit/z"
)

// T is an at-most-one theory: at most one of a set of variables
// may be true.  Each T holds a single constraint; multiple
// constraints need multiple T's.
//
// T propagates natively, forcing every other member false once a
// member is true, until the set is resolved enough at decision level
// 0 to be cheaply expressed as binary clauses.  Then T clausifies and
// reports itself satisfied for good.
type T struct {
	core  inter.Core
	index int
	log   *zap.Logger

	eager    bool
	clausify int

	falseReason z.Marker

	vars []z.Var

	trueVar     z.Var
	conflictVar z.Var
	needsProp   bool
	clausified  bool

	stPropagations  int64
	stSkipped       int64
	stShrinkRemoved int64
	stReasons       int64
	stConflicts     int64
}

var _ inter.Theory = (*T)(nil)

// Option configures a T.
type Option func(t *T)

// WithEagerProp makes T force the other members false as soon as
// a member is enqueued true, instead of at the next propagation.
func WithEagerProp(eager bool) Option {
	return func(t *T) {
		t.eager = eager
	}
}

// WithClausify sets the size at or below which T clausifies
// at decision level 0.
func WithClausify(n int) Option {
	return func(t *T) {
		t.clausify = n
	}
}

// WithLogger sets the logger of a T.
func WithLogger(log *zap.Logger) Option {
	return func(t *T) {
		if log != nil {
			t.log = log
		}
	}
}

// New creates a T and registers it with core.
func New(core inter.Core, opts ...Option) *T {
	t := &T{
		core:        core,
		index:       -1,
		log:         zap.NewNop(),
		trueVar:     z.VarNull,
		conflictVar: z.VarNull}
	for _, opt := range opts {
		opt(t)
	}
	core.AddTheory(t)
	t.falseReason = core.NewReasonMarker(t)
	return t
}

// AddVar adds v to the set of which at most one may be true.
// The theory uses the same variable ids as the core.
func (t *T) AddVar(v z.Var) {
	t.core.NewTheoryVar(v, t.index, v)
	t.vars = append(t.vars, v)
}

// Vars returns a copy of the current members of the set.
func (t *T) Vars() []z.Var {
	return append([]z.Var(nil), t.vars...)
}

// Clausified returns whether t has been replaced by clauses.
func (t *T) Clausified() bool {
	return t.clausified
}

// Name implements inter.Theory.
func (t *T) Name() string {
	return "AMO"
}

// SetTheoryIndex implements inter.Theory.
func (t *T) SetTheoryIndex(i int) {
	t.index = i
}

// TheoryIndex implements inter.Theory.
func (t *T) TheoryIndex() int {
	return t.index
}

// NewDecisionLevel implements inter.Theory.
func (t *T) NewDecisionLevel() {}

// BacktrackUntil implements inter.Theory.  All state is
// maintained by UndecideTheory.
func (t *T) BacktrackUntil(level int) {}

// UndecideTheory implements inter.Theory.
func (t *T) UndecideTheory(m z.Lit) {
	v := m.Var()
	if v == t.trueVar {
		t.needsProp = false
		t.trueVar = z.VarNull
		if t.conflictVar != z.VarNull {
			panic(fmt.Sprintf("amo %d: undecide true var %s before conflict var %s", t.index, v, t.conflictVar))
		}
	}
	if v == t.conflictVar {
		t.conflictVar = z.VarNull
	}
}

// EnqueueTheory implements inter.Theory.
func (t *T) EnqueueTheory(m z.Lit) {
	if t.clausified || t.conflictVar != z.VarNull {
		return
	}
	if !m.IsPos() {
		// it is always safe to assign a member false.
		return
	}
	v := m.Var()
	switch t.trueVar {
	case z.VarNull:
		t.trueVar = v
		if t.needsProp {
			panic(fmt.Sprintf("amo %d: pending propagation without true var", t.index))
		}
		if t.eager {
			t.stPropagations++
			t.forceFalse()
			return
		}
		t.needsProp = true
	case v:
	default:
		t.conflictVar = v
	}
}

func (t *T) forceFalse() {
	for _, u := range t.vars {
		if u != t.trueVar {
			t.core.Enqueue(u.Neg(), t.falseReason)
		}
	}
}

// PropagateTheory implements inter.Theory.
func (t *T) PropagateTheory(dst []z.Lit) (bool, []z.Lit) {
	if t.clausified {
		t.core.SetTheorySatisfied(t)
		return true, dst
	}
	t.core.TheoryPropagated(t)
	if t.core.DecisionLevel() == 0 {
		if ok, done := t.fold(); done {
			if ok {
				return true, dst
			}
			return false, t.constantConflict(dst)
		}
	}
	if t.conflictVar != z.VarNull {
		if t.trueVar == z.VarNull || t.trueVar == t.conflictVar {
			panic(fmt.Sprintf("amo %d: conflict var %s with true var %s", t.index, t.conflictVar, t.trueVar))
		}
		dst = append(dst[:0], t.conflictVar.Neg(), t.trueVar.Neg())
		t.needsProp = false
		t.stConflicts++
		return false, dst
	}
	if t.trueVar != z.VarNull && t.needsProp {
		t.stPropagations++
		t.needsProp = false
		t.forceFalse()
		return true, dst
	}
	t.stSkipped++
	return true, dst
}

// fold drops the members which are false at level 0 and, if the
// remaining set is resolved or small, clausifies.  done is whether t
// clausified, ok whether clausification found no conflict.
func (t *T) fold() (ok, done bool) {
	core := t.core
	hasTrue := false
	j := 0
	for _, v := range t.vars {
		m := v.Pos()
		switch {
		case core.Val(m) == -1 && core.Level(v) == 0:
			continue
		case core.Val(m) == 1 && core.Level(v) == 0:
			hasTrue = true
		}
		t.vars[j] = v
		j++
	}
	t.stShrinkRemoved += int64(len(t.vars) - j)
	t.vars = t.vars[:j]
	if !hasTrue && len(t.vars) != 0 && len(t.vars) > t.clausify {
		return true, false
	}
	t.clausified = true
	ms := make([]z.Lit, len(t.vars))
	for i, v := range t.vars {
		ms[i] = v.Pos()
	}
	t.log.Debug("clausifying amo",
		zap.Int("theory", t.index),
		zap.Int("size", len(ms)),
		zap.Bool("constant", hasTrue))
	core.SetTheorySatisfied(t)
	return Clausify(core, ms), true
}

// constantConflict returns the first 2 members true at level 0, negated.
func (t *T) constantConflict(dst []z.Lit) []z.Lit {
	dst = dst[:0]
	for _, v := range t.vars {
		if t.core.Val(v.Pos()) == 1 {
			dst = append(dst, v.Neg())
			if len(dst) == 2 {
				break
			}
		}
	}
	return dst
}

// BuildReason implements inter.Theory.  The reason for ¬v is
// (¬v ∨ ¬t), where t is the member currently true.
func (t *T) BuildReason(m z.Lit, dst []z.Lit, r z.Marker) []z.Lit {
	t.stReasons++
	if r != t.falseReason {
		panic(fmt.Sprintf("amo %d: reason marker %s is not %s", t.index, r, t.falseReason))
	}
	v := m.Var()
	if m.IsPos() || v == t.trueVar || t.trueVar == z.VarNull {
		panic(fmt.Sprintf("amo %d: no reason for %s (true var %s)", t.index, m, t.trueVar))
	}
	return append(dst[:0], m, t.trueVar.Neg())
}

// CheckSolved implements inter.Theory.
func (t *T) CheckSolved() bool {
	n := 0
	for _, v := range t.vars {
		if t.core.Val(v.Pos()) == 1 {
			n++
			if n > 1 {
				return false
			}
		}
	}
	return true
}

// Clausify adds clauses to core expressing that at most one of ms is
// true.  It must be called at decision level 0.  Literals false at level
// 0 are ignored.  If one literal c is true at level 0, the clauses
// (¬c ∨ ¬m) are added for every other m; otherwise every pair is
// excluded.  If two literals are true at level 0, Clausify adds the
// falsified clause over them and returns false.
func Clausify(core inter.Core, ms []z.Lit) bool {
	if core.DecisionLevel() != 0 {
		panic(fmt.Sprintf("amo clausify at level %d", core.DecisionLevel()))
	}
	set := make([]z.Lit, 0, len(ms))
	c := z.LitNull
	for _, m := range ms {
		v := m.Var()
		switch {
		case core.Val(m) == -1 && core.Level(v) == 0:
		case core.Val(m) == 1 && core.Level(v) == 0:
			if c != z.LitNull {
				core.AddClause(c.Not(), m.Not())
				return false
			}
			c = m
		default:
			set = append(set, m)
		}
	}
	if c == z.LitNull {
		for i, m := range set {
			for _, n := range set[i+1:] {
				core.AddClause(m.Not(), n.Not())
			}
		}
		return true
	}
	for _, m := range set {
		core.AddClause(c.Not(), m.Not())
	}
	return true
}

// Stats holds statistics of a T.
type Stats struct {
	Propagations        int64
	PropagationsSkipped int64
	ShrinkRemoved       int64
	Reasons             int64
	Conflicts           int64
	Clausified          bool
	Size                int
}

// ReadStats adds the cumulative statistics of t to st and
// resets them.
func (t *T) ReadStats(st *Stats) {
	st.Propagations += t.stPropagations
	t.stPropagations = 0
	st.PropagationsSkipped += t.stSkipped
	t.stSkipped = 0
	st.ShrinkRemoved += t.stShrinkRemoved
	t.stShrinkRemoved = 0
	st.Reasons += t.stReasons
	t.stReasons = 0
	st.Conflicts += t.stConflicts
	t.stConflicts = 0
	st.Clausified = t.clausified
	st.Size = len(t.vars)
}
