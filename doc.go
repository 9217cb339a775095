// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package ginit provides a Boolean core hosting lazily propagating
// theories, with an at-most-one theory and incremental reachability
// over dynamic graphs.
//
// Theories learn of assignments to their variables through
// EnqueueTheory, propagate or report conflicts in clause form through
// PropagateTheory, and explain their implications on demand through
// BuildReason.  The core backtracks them with UndecideTheory and
// BacktrackUntil.  A theory which declares itself satisfied at some
// decision level is not called again until the core backtracks below
// that level.
//
// Example
//
//	g := ginit.New()
//	a, b, c := g.Lit(), g.Lit(), g.Lit()
//	g.AMO(a.Var(), b.Var(), c.Var())
//	g.Add(a)
//	g.Add(0)
//	g.Solve() // 1, with b and c false
package ginit
