// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"
	"sort"

	"github.com/irifrance/ginit/z"
)

// Cdb is the clause store.  Clauses are only added at decision
// level 0; literals false at level 0 are dropped and clauses
// true at level 0 are not stored.
type Cdb struct {
	Vars    *Vars
	D       [][]z.Lit // D[0] is unused, z.CNull
	Watches [][]Watch // indexed by the watched literal
	Bot     z.C       // an empty clause, if one was added

	tmp []z.Lit

	stAdded     int64
	stSatisfied int64
	stUnits     int64
}

// NewCdb creates a clause store over vars with capacity hint cCapHint.
func NewCdb(vars *Vars, cCapHint int) *Cdb {
	d := make([][]z.Lit, 1, cCapHint+1)
	return &Cdb{
		Vars:    vars,
		D:       d,
		Watches: make([][]Watch, 2*vars.Top),
		Bot:     z.CNull,
		tmp:     make([]z.Lit, 0, 16)}
}

// Add adds a literal to the clause under construction, or
// finishes it if m is z.LitNull.
//
// When a clause is finished, Add returns its location and, if
// it is unit under the level 0 assignment, the literal which
// must be assigned.  A clause true at level 0 or tautological is
// not stored and has location z.CNull.
func (c *Cdb) Add(m z.Lit) (z.C, z.Lit) {
	if m != z.LitNull {
		c.tmp = append(c.tmp, m)
		return z.CNull, z.LitNull
	}
	loc, u := c.addLits(c.tmp)
	c.tmp = c.tmp[:0]
	return loc, u
}

func (c *Cdb) addLits(ms []z.Lit) (z.C, z.Lit) {
	vals := c.Vars.Vals
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	ns := make([]z.Lit, 0, len(ms))
	for i, m := range ms {
		if i > 0 && ms[i-1] == m {
			continue
		}
		if i > 0 && ms[i-1] == m.Not() {
			c.stSatisfied++
			return z.CNull, z.LitNull
		}
		switch vals[m] {
		case 1:
			c.stSatisfied++
			return z.CNull, z.LitNull
		case -1:
			continue
		}
		ns = append(ns, m)
	}
	c.stAdded++
	loc := z.C(len(c.D))
	c.D = append(c.D, ns)
	switch len(ns) {
	case 0:
		if c.Bot == z.CNull {
			c.Bot = loc
		}
		return loc, z.LitNull
	case 1:
		c.stUnits++
		return loc, ns[0]
	}
	isBin := len(ns) == 2
	c.Watches[ns[0]] = append(c.Watches[ns[0]], MakeWatch(loc, ns[1], isBin))
	c.Watches[ns[1]] = append(c.Watches[ns[1]], MakeWatch(loc, ns[0], isBin))
	return loc, z.LitNull
}

// IsBinary returns whether the clause at p has 2 literals.
func (c *Cdb) IsBinary(p z.C) bool {
	return len(c.D[p]) == 2
}

// IsUnit returns whether the clause at p has 1 literal.
func (c *Cdb) IsUnit(p z.C) bool {
	return len(c.D[p]) == 1
}

// Lits appends the literals of the clause at p to dst.
func (c *Cdb) Lits(p z.C, dst []z.Lit) []z.Lit {
	return append(dst, c.D[p]...)
}

// Len returns the number of stored clauses.
func (c *Cdb) Len() int {
	return len(c.D) - 1
}

// prop visits the clauses watching m.Not(), which has just become
// false.  It assigns unit literals on trail and returns a
// falsified clause if one is found.
func (c *Cdb) prop(m z.Lit, trail *Trail) []z.Lit {
	f := m.Not()
	vals := c.Vars.Vals
	ws := c.Watches[f]
	j := 0
	var x []z.Lit
	i := 0
	for i < len(ws) {
		w := ws[i]
		i++
		o := w.Other()
		if vals[o] == 1 {
			ws[j] = w
			j++
			continue
		}
		if w.IsBinary() {
			ws[j] = w
			j++
			if vals[o] == -1 {
				x = c.D[w.C()]
				break
			}
			trail.Assign(o, Reason{C: w.C()})
			continue
		}
		cl := c.D[w.C()]
		if cl[0] == f {
			cl[0], cl[1] = cl[1], cl[0]
		}
		first := cl[0]
		if first != o && vals[first] == 1 {
			ws[j] = w.Reblock(first)
			j++
			continue
		}
		moved := false
		for k := 2; k < len(cl); k++ {
			n := cl[k]
			if vals[n] != -1 {
				cl[1], cl[k] = n, f
				c.Watches[n] = append(c.Watches[n], MakeWatch(w.C(), first, false))
				moved = true
				break
			}
		}
		if moved {
			continue
		}
		ws[j] = w.Reblock(first)
		j++
		if vals[first] == -1 {
			x = cl
			break
		}
		trail.Assign(first, Reason{C: w.C()})
	}
	for i < len(ws) {
		ws[j] = ws[i]
		i++
		j++
	}
	c.Watches[f] = ws[:j]
	return x
}

// CheckWatches checks that every stored clause with at least 2
// literals is watched by its first 2 literals.
func (c *Cdb) CheckWatches() []error {
	var errs []error
	for p := 1; p < len(c.D); p++ {
		cl := c.D[p]
		if len(cl) < 2 {
			continue
		}
		for _, m := range cl[:2] {
			found := false
			for _, w := range c.Watches[m] {
				if w.C() == z.C(p) {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, fmt.Errorf("%s: %s not watched by %s", z.C(p), cl, m))
			}
		}
	}
	return errs
}

// CheckModel checks that every stored clause is true
// under the current assignment.
func (c *Cdb) CheckModel() []error {
	var errs []error
	vals := c.Vars.Vals
	for p := 1; p < len(c.D); p++ {
		sat := false
		for _, m := range c.D[p] {
			if vals[m] == 1 {
				sat = true
				break
			}
		}
		if !sat {
			errs = append(errs, fmt.Errorf("%s: %s not satisfied", z.C(p), c.D[p]))
		}
	}
	return errs
}

func (c *Cdb) growToVar(u z.Var) {
	ws := make([][]Watch, 2*(u+1))
	copy(ws, c.Watches)
	c.Watches = ws
}

func (c *Cdb) readStats(st *Stats) {
	st.Clauses = c.Len()
	st.Added += c.stAdded
	c.stAdded = 0
	st.Satisfied += c.stSatisfied
	c.stSatisfied = 0
	st.Units += c.stUnits
	c.stUnits = 0
}
