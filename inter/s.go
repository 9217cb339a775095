// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package inter

import (
	"time"

	"github.com/irifrance/ginit/z"
)

// Interface Solveable encapsulates a decision
// procedure which may run for a long time.
//
// Solve returns
//
//	1  If the problem is SAT
//	0  If the problem is undetermined
//	-1 If the problem is UNSAT
//
// These error codes are used throughout ginit.
type Solvable interface {
	Solve() int
}

// Interface GoSolvable encapsulates a handle
// on a Solve running in its own goroutine.
type GoSolvable interface {
	GoSolve() Solve
}

// Solve is a handle on a Solve() running in another goroutine.
type Solve interface {
	// Test returns the result and true if the solve finished,
	// and 0, false otherwise.  Test does not block.
	Test() (int, bool)

	// Try waits at most d for a result, stopping the solve
	// and returning 0 if d elapses first.
	Try(d time.Duration) int

	// Wait blocks until the solve finishes.
	Wait() int

	// Stop cancels the solve and returns its result, which
	// is 0 unless the solve finished before being cancelled.
	Stop() int
}

// Adder encapsulates something to which
// clauses can be added by sequences of
// z.LitNull-terminated literals.
type Adder interface {

	// add a literal to the clauses.  if m is z.LitNull,
	// signals end of clause.
	//
	// Add should not be called under assumptions.  Doing
	// so yields undefined behavior.
	Add(m z.Lit)
}

// Interface MaxVar is something which records the
// maximum variable from a stream of inputs (such
// as Adds/Assumes) and can return the maximum of
// all such variables.
type MaxVar interface {
	MaxVar() z.Var
}

// Liter produces fresh variables and returns the corresponding
// positive literal.
type Liter interface {
	Lit() z.Lit
}

// Model encapsulates something from which a model
// can be exracted.
type Model interface {
	Value(m z.Lit) bool
}

// Assumable encapsulates a problem
type Assumable interface {
	Assume(m ...z.Lit)
	Why(dst []z.Lit) []z.Lit
}

// Interface S encapsulates something capable of incremental
// solving under assumptions.
type S interface {
	MaxVar
	Liter
	Adder
	Solvable
	GoSolvable
	Model
	Assumable

	// Reasons returns the reasons for the implied literal m,
	// storing the result in dst if possible.
	Reasons(dst []z.Lit, m z.Lit) []z.Lit
}
