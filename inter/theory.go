// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package inter

import "github.com/irifrance/ginit/z"

// Theory is a decision procedure for a specialised constraint domain
// which participates in boolean search by lazily propagating literals
// and lazily explaining them.
//
// All methods are called by a Core from its own propagation loop, in
// trail order, from a single goroutine.  No method may block.
type Theory interface {
	// Name names the kind of theory, for logging.
	Name() string

	// SetTheoryIndex is called once, by Core.AddTheory.
	SetTheoryIndex(i int)
	TheoryIndex() int

	// NewDecisionLevel signals that the core opened a new decision level.
	NewDecisionLevel()

	// BacktrackUntil signals that all trail positions above level have
	// been undone.  It is called after UndecideTheory has been called for
	// every undone literal observed by the theory.
	BacktrackUntil(level int)

	// UndecideTheory signals that the observed literal m is no longer
	// assigned.  m is the literal in the theory's local variables.
	UndecideTheory(m z.Lit)

	// EnqueueTheory signals that the observed literal m has just been
	// assigned true.  It must run in amortised constant time and defer
	// any heavy work to PropagateTheory.
	EnqueueTheory(m z.Lit)

	// PropagateTheory performs deferred reasoning.  If the theory
	// detects a contradiction, it returns false and a set of literals,
	// all false under the current assignment, stored in dst if possible.
	// Calling PropagateTheory again without intervening EnqueueTheory
	// calls must not derive anything new.
	PropagateTheory(dst []z.Lit) (ok bool, conflict []z.Lit)

	// BuildReason reconstructs the reason for m, which was propagated by
	// the theory under marker r.  The result is a clause with m first
	// whose other literals are false, stored in dst if possible.
	BuildReason(m z.Lit, dst []z.Lit, r z.Marker) []z.Lit

	// CheckSolved reports whether the current total assignment
	// satisfies the theory.
	CheckSolved() bool
}

// Core is the boolean search engine as seen by a Theory.
type Core interface {
	// AddTheory registers t and returns its index.
	AddTheory(t Theory) int

	// NewReasonMarker mints a marker owned by t.
	NewReasonMarker(t Theory) z.Marker

	// NewTheoryVar records that theory observes global variable v,
	// which it calls local.
	NewTheoryVar(v z.Var, theory int, local z.Var)

	// Val returns 1 if m is true, -1 if m is false, and 0 otherwise.
	Val(m z.Lit) int8

	// Level returns the decision level at which v was assigned.
	Level(v z.Var) int

	// DecisionLevel returns the current decision level.
	DecisionLevel() int

	// Enqueue assigns m true with reason marker r.  Enqueue returns
	// false if m is already false, in which case the core records a
	// conflict explained by the theory owning r.
	Enqueue(m z.Lit, r z.Marker) bool

	// AddClause adds a permanent clause.  It may only be called
	// at decision level 0, and returns false if the clause is
	// falsified there.
	AddClause(ms ...z.Lit) bool

	// SetTheorySatisfied signals that t is entailed by the current
	// assignment until the core backtracks below the current level.
	SetTheorySatisfied(t Theory)

	// TheoryPropagated signals that t has consumed every pending
	// EnqueueTheory notification.
	TheoryPropagated(t Theory)
}
