// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"bytes"
	"fmt"

	"github.com/irifrance/ginit/z"
)

// Reason records why a variable was assigned: by a clause, by
// a theory rule, or by neither (a decision or an assumption).
type Reason struct {
	C z.C
	M z.Marker
}

// IsDecision returns whether r is the reason of a decision.
func (r Reason) IsDecision() bool {
	return r.C == z.CNull && r.M == z.MarkerNull
}

func (r Reason) String() string {
	switch {
	case r.C != z.CNull:
		return r.C.String()
	case r.M != z.MarkerNull:
		return r.M.String()
	}
	return "d"
}

// Vars holds the assignment: values indexed by literal, and
// level and reason indexed by variable.
type Vars struct {
	Max     z.Var
	Top     z.Var
	Vals    []int8
	Levels  []int
	Reasons []Reason
}

// NewVars creates a Vars with capacity for capHint variables.
func NewVars(capHint int) *Vars {
	if capHint < 1 {
		capHint = 1
	}
	top := z.Var(capHint + 1)
	return &Vars{
		Top:     top,
		Vals:    make([]int8, 2*top),
		Levels:  make([]int, top),
		Reasons: make([]Reason, top)}
}

// Set makes m true.
func (v *Vars) Set(m z.Lit) {
	v.Vals[m] = 1
	v.Vals[m.Not()] = -1
}

// unset makes the variable of m unassigned.
func (v *Vars) unset(m z.Lit) {
	v.Vals[m] = 0
	v.Vals[m.Not()] = 0
	u := m.Var()
	v.Levels[u] = 0
	v.Reasons[u] = Reason{}
}

// Sign returns 1 if m is true, -1 if m is false, 0 otherwise.
func (v *Vars) Sign(m z.Lit) int8 {
	return v.Vals[m]
}

func (v *Vars) growToVar(u z.Var) {
	w := u + 1
	vals := make([]int8, 2*w)
	copy(vals, v.Vals)
	v.Vals = vals
	levels := make([]int, w)
	copy(levels, v.Levels)
	v.Levels = levels
	reasons := make([]Reason, w)
	copy(reasons, v.Reasons)
	v.Reasons = reasons
	v.Top = w
}

func (v *Vars) String() string {
	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "vars[%d/%d]", v.Max, v.Top)
	for i := z.Var(1); i <= v.Max; i++ {
		m := i.Pos()
		switch v.Vals[m] {
		case 0:
			continue
		case -1:
			m = m.Not()
		}
		fmt.Fprintf(buf, " %s@%d/%s", m, v.Levels[i], v.Reasons[i])
	}
	return buf.String()
}
