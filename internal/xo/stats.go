// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"bytes"
	"fmt"
)

// Stats holds statistics of an S.  Cumulative fields are
// added to by ReadStats; the others are overwritten.
type Stats struct {
	Vars    int
	Clauses int

	Decisions   int64
	Conflicts   int64
	Props       int64
	Backtracks  int64
	Sat         int64
	Unsat       int64
	Ended       int64
	Assumptions int64
	Failed      int64

	Added     int64
	Satisfied int64
	Units     int64

	Theories        int
	TheoryEnqueues  int64
	TheoryProps     int64
	TheoryConflicts int64
	TheoryReasons   int64
	TheorySatisfied int64
}

// NewStats creates a new zero Stats.
func NewStats() *Stats {
	return &Stats{}
}

func (st *Stats) String() string {
	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "vars %d clauses %d theories %d\n", st.Vars, st.Clauses, st.Theories)
	fmt.Fprintf(buf, "decisions %d conflicts %d props %d backtracks %d\n",
		st.Decisions, st.Conflicts, st.Props, st.Backtracks)
	fmt.Fprintf(buf, "sat %d unsat %d ended %d assumptions %d failed %d\n",
		st.Sat, st.Unsat, st.Ended, st.Assumptions, st.Failed)
	fmt.Fprintf(buf, "added %d satisfied %d units %d\n", st.Added, st.Satisfied, st.Units)
	fmt.Fprintf(buf, "theory enqueues %d props %d conflicts %d reasons %d satisfied %d",
		st.TheoryEnqueues, st.TheoryProps, st.TheoryConflicts, st.TheoryReasons, st.TheorySatisfied)
	return buf.String()
}
