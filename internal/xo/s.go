// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/irifrance/ginit/inter"
	"github.com/irifrance/ginit/z"
)

const (
	// check for cancellation every CancelTicks decisions.
	CancelTicks int64 = 256
)

// S implements a DPLL solver with chronological backtracking, hosting
// lazily propagating theories.
//
// S implements inter.Core.  The Core methods are not synchronised: they
// are called by theories from within Solve, or during setup before
// any Solve.
type S struct {
	Vars     *Vars
	Cdb      *Cdb
	Trail    *Trail
	Theories *Theories
	mu       sync.Mutex
	log      *zap.Logger

	// last conflict
	x []z.Lit
	// if trivially inconsistent assumptions, first conflicting assumption
	xLit z.Lit

	assumptLevel int
	assumes      []z.Lit // only last set of requested assumptions before solve.
	failed       []z.Lit
	allFailed    bool // unsat by search above the assumptions

	// flipped[l-1] is whether the decision of level l is the
	// second branch (or an assumption)
	flipped []bool

	stDecisions int64
	stConflicts int64
	stSat       int64
	stUnsat     int64
	stEnded     int64
	stAssumes   int64
	stFailed    int64
}

var (
	_ inter.S    = (*S)(nil)
	_ inter.Core = (*S)(nil)
)

// Option configures an S.
type Option func(s *S)

// WithLogger sets the logger of an S.
func WithLogger(log *zap.Logger) Option {
	return func(s *S) {
		if log != nil {
			s.log = log
		}
	}
}

// NewS creates a new Solver with default (relatively small) capacity
func NewS(opts ...Option) *S {
	return NewSV(128, opts...)
}

// NewSV creates a new Solver with specified capacity hint for
// the number of variables.
func NewSV(vCapHint int, opts ...Option) *S {
	vars := NewVars(vCapHint)
	cdb := NewCdb(vars, vCapHint*4)
	th := newTheories(int(vars.Top))
	s := &S{
		Vars:     vars,
		Cdb:      cdb,
		Trail:    NewTrail(cdb, th),
		Theories: th,
		log:      zap.NewNop(),
		xLit:     z.LitNull,
		assumes:  make([]z.Lit, 0, 64),
		flipped:  make([]bool, 0, 64)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *S) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("<xo@%d>", s.Trail.Level)
}

// Who identifies the solver and configuration.
func (s *S) Who() string {
	return fmt.Sprintf("xo.S %s/%s/%d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
}

// Solve solves the constraints under the assumptions made since
// the last call to Solve.  It returns 1 if sat and -1 if unsat.
func (s *S) Solve() int {
	return s.SolveContext(context.Background())
}

// SolveContext is like Solve, but returns 0 if ctx is done
// before a result is found.
func (s *S) SolveContext(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		s.assumes = s.assumes[:0]
	}()
	if r := s.solveInit(); r != 0 {
		s.stUnsat++
		s.log.Debug("unsat under assumptions", zap.Int("level", s.Trail.Level))
		return r
	}
	trail := s.Trail
	for {
		if x := trail.Prop(); x != nil {
			s.stConflicts++
			if trail.Level <= s.assumptLevel {
				s.x = x
				s.stUnsat++
				s.log.Debug("unsat", zap.Int("level", trail.Level), zap.Int("conflict", len(x)))
				return -1
			}
			if !s.backtrack() {
				s.allFailed = true
				s.stUnsat++
				s.log.Debug("unsat by search", zap.Int("assumptions", s.assumptLevel))
				return -1
			}
			continue
		}
		m := s.guess()
		if m == z.LitNull {
			s.checkModel()
			s.stSat++
			// the model stays on the trail until the next Add or Solve.
			return 1
		}
		s.stDecisions++
		if s.stDecisions%CancelTicks == 0 && ctx.Err() != nil {
			s.stEnded++
			trail.Back(s.assumptLevel)
			s.flipped = s.flipped[:s.assumptLevel]
			return 0
		}
		s.decide(m, false)
	}
}

func (s *S) decide(m z.Lit, flipped bool) {
	s.Trail.NewLevel()
	s.flipped = append(s.flipped, flipped)
	s.Trail.Assign(m, Reason{})
}

// backtrack undoes levels until one whose decision has not been
// flipped, and flips it.  It returns false if no such level exists
// above the assumptions.
func (s *S) backtrack() bool {
	trail := s.Trail
	for trail.Level > s.assumptLevel {
		l := trail.Level
		d := trail.Decision(l)
		wasFlipped := s.flipped[l-1]
		trail.Back(l - 1)
		s.flipped = s.flipped[:l-1]
		if !wasFlipped {
			s.decide(d.Not(), true)
			return true
		}
	}
	return false
}

// guess returns the negative literal of the least unassigned
// variable, or z.LitNull if all are assigned.
func (s *S) guess() z.Lit {
	vals := s.Vars.Vals
	for v := z.Var(1); v <= s.Vars.Max; v++ {
		m := v.Neg()
		if vals[m] == 0 {
			return m
		}
	}
	return z.LitNull
}

func (s *S) checkModel() {
	errs := s.Cdb.CheckModel()
	for _, e := range errs {
		s.log.Error("internal error: sat model", zap.Error(e))
	}
	for _, i := range s.Theories.checkSolved() {
		s.log.Error("internal error: theory not solved by sat model",
			zap.Int("theory", i),
			zap.String("name", s.Theories.D[i].Name()))
	}
}

// returns -1 if known to be inconsistent by propagation
// under the assumptions, 0 otherwise.
func (s *S) solveInit() int {
	s.cleanup()
	trail := s.Trail
	if s.Cdb.Bot != z.CNull {
		s.x = []z.Lit{}
		return -1
	}
	if x := trail.Prop(); x != nil {
		s.x = x
		return -1
	}
	for _, m := range s.assumes {
		switch s.Vars.Vals[m] {
		case 0:
			s.decide(m, true)
			s.assumptLevel++
			if x := trail.Prop(); x != nil {
				s.x = x
				return -1
			}
		case 1:
			// nothing
		case -1:
			s.xLit = m
			s.stFailed++
			return -1
		default:
			panic(fmt.Sprintf("bad value %d\n", s.Vars.Vals[m]))
		}
	}
	return 0
}

func (s *S) cleanup() {
	s.Trail.Back(0)
	s.flipped = s.flipped[:0]
	s.assumptLevel = 0
	s.x = nil
	s.xLit = z.LitNull
	s.failed = nil
	s.allFailed = false
}

// Value returns the truth value of m in the model found by the
// last call to Solve, which must have returned 1.
func (s *S) Value(m z.Lit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Vars.Vals[m] == 1
}

// Add implements inter.Adder.
func (s *S) Add(m z.Lit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLitCap(m)
	if m != z.LitNull {
		s.Cdb.Add(m)
		return
	}
	s.cleanup()
	loc, u := s.Cdb.Add(m)
	if u != z.LitNull {
		s.Trail.Assign(u, Reason{C: loc})
	}
}

// Lit returns the positive literal of a fresh variable.
func (s *S) Lit() z.Lit {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := (s.Vars.Max + 1).Pos()
	s.ensureLitCap(m)
	return m
}

// MaxVar returns the maximum variable added or assumed.
func (s *S) MaxVar() z.Var {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Vars.Max
}

// Assume causes the solver to Assume the literal m to be true for the
// next call to Solve().
func (s *S) Assume(ms ...z.Lit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range ms {
		s.ensureLitCap(m)
	}
	s.stAssumes += int64(len(ms))
	s.assumes = append(s.assumes, ms...)
}

// Why appends to ms a list of assumptions which together caused the
// previous call to Solve to be unsat.  When the assumptions were found
// inconsistent by propagation, the list is computed from the reasons
// of the conflict, theory reasons included.  When they were found
// inconsistent by search, all assumptions are returned.
//
// If the previous call was not unsat, then Why() returns ms.
func (s *S) Why(ms []z.Lit) []z.Lit {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = ms
	switch {
	case s.xLit != z.LitNull:
		s.failed = append(s.failed, s.xLit)
		s.final([]z.Lit{s.xLit})
	case s.allFailed:
		for l := 1; l <= s.assumptLevel; l++ {
			s.failed = append(s.failed, s.Trail.Decision(l))
		}
	case s.x != nil:
		s.final(s.x)
	default:
		return ms
	}
	return s.failed
}

func (s *S) final(ms []z.Lit) {
	marks := make([]bool, s.Vars.Max+1)
	for _, m := range ms {
		s.finalRec(m, marks)
	}
}

// finalRec records in s.failed the assumptions which caused the
// false literal m to be false.
func (s *S) finalRec(m z.Lit, marks []bool) {
	u := m.Var()
	if marks[u] {
		return
	}
	marks[u] = true
	if s.Vars.Levels[u] == 0 {
		return
	}
	r := s.Vars.Reasons[u]
	switch {
	case r.IsDecision():
		s.failed = append(s.failed, m.Not())
		s.stFailed++
	case r.C != z.CNull:
		for _, n := range s.Cdb.D[r.C] {
			if n.Var() != u {
				s.finalRec(n, marks)
			}
		}
	default:
		rs := s.Theories.buildReason(m.Not(), r.M)
		rs = append([]z.Lit(nil), rs[1:]...)
		for _, n := range rs {
			s.finalRec(n, marks)
		}
	}
}

// Reasons returns the literals which implied m, stored in dst if
// possible.  Theory reasons are built on demand.  If m is a decision,
// an assumption, or unassigned, the result is empty.
func (s *S) Reasons(dst []z.Lit, m z.Lit) []z.Lit {
	s.mu.Lock()
	defer s.mu.Unlock()
	dst = dst[:0]
	if s.Vars.Vals[m] != 1 {
		return dst
	}
	u := m.Var()
	r := s.Vars.Reasons[u]
	switch {
	case r.C != z.CNull:
		for _, n := range s.Cdb.D[r.C] {
			if n.Var() != u {
				dst = append(dst, n.Not())
			}
		}
	case r.M != z.MarkerNull:
		for _, n := range s.Theories.buildReason(m, r.M)[1:] {
			dst = append(dst, n.Not())
		}
	}
	return dst
}

// AddTheory implements inter.Core.
func (s *S) AddTheory(t inter.Theory) int {
	i := s.Theories.add(t)
	s.log.Debug("added theory", zap.String("name", t.Name()), zap.Int("index", i))
	return i
}

// NewReasonMarker implements inter.Core.
func (s *S) NewReasonMarker(t inter.Theory) z.Marker {
	return s.Theories.newMarker(t)
}

// NewTheoryVar implements inter.Core.
func (s *S) NewTheoryVar(v z.Var, theory int, local z.Var) {
	s.ensureLitCap(v.Pos())
	s.Theories.newTheoryVar(v, theory, local)
}

// Val implements inter.Core.
func (s *S) Val(m z.Lit) int8 {
	return s.Vars.Vals[m]
}

// Level implements inter.Core.
func (s *S) Level(v z.Var) int {
	return s.Vars.Levels[v]
}

// DecisionLevel implements inter.Core.
func (s *S) DecisionLevel() int {
	return s.Trail.Level
}

// Enqueue implements inter.Core.
func (s *S) Enqueue(m z.Lit, r z.Marker) bool {
	switch s.Vars.Vals[m] {
	case 1:
		return true
	case -1:
		s.Trail.fail(s.Theories.buildReason(m, r))
		return false
	}
	s.Trail.Assign(m, Reason{M: r})
	return true
}

// AddClause implements inter.Core.
func (s *S) AddClause(ms ...z.Lit) bool {
	if s.Trail.Level != 0 {
		panic(fmt.Sprintf("AddClause %v at level %d", ms, s.Trail.Level))
	}
	ns := make([]z.Lit, len(ms))
	copy(ns, ms)
	for _, m := range ns {
		s.ensureLitCap(m)
	}
	loc, u := s.Cdb.addLits(ns)
	if u != z.LitNull {
		s.Trail.Assign(u, Reason{C: loc})
	}
	if loc != z.CNull && len(s.Cdb.D[loc]) == 0 {
		s.Trail.fail(ms)
		return false
	}
	return true
}

// SetTheorySatisfied implements inter.Core.
func (s *S) SetTheorySatisfied(t inter.Theory) {
	s.Theories.setSatisfied(t, s.Trail.Level)
}

// TheoryPropagated implements inter.Core.
func (s *S) TheoryPropagated(t inter.Theory) {
	s.Theories.propagated(t)
}

// ReadStats reads data from the solver into st.  The solver values are reset
// if they are cumulative.
func (s *S) ReadStats(st *Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.Decisions += s.stDecisions
	s.stDecisions = 0
	st.Conflicts += s.stConflicts
	s.stConflicts = 0
	st.Sat += s.stSat
	s.stSat = 0
	st.Unsat += s.stUnsat
	s.stUnsat = 0
	st.Ended += s.stEnded
	s.stEnded = 0
	st.Assumptions += s.stAssumes
	s.stAssumes = 0
	st.Failed += s.stFailed
	s.stFailed = 0
	st.Vars = int(s.Vars.Max)
	s.Trail.readStats(st)
	s.Cdb.readStats(st)
	s.Theories.readStats(st)
}

// we keep a global track of variable/literal capacity here.
// when we need to grow, all subcomponents grow.
func (s *S) ensureLitCap(m z.Lit) {
	vars := s.Vars
	mVar := m.Var()
	top := vars.Top
	if mVar >= top {
		for top <= mVar {
			top *= 2
		}
		vars.growToVar(top)
		s.Cdb.growToVar(top)
		s.Trail.growToVar(top)
		s.Theories.growToVar(top)
	}
	if mVar > vars.Max {
		vars.Max = mVar
	}
}
