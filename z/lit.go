// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package z

import "fmt"

// Lit is a literal, a variable together with a polarity.
//
// The positive literal of variable v is 2*v, the negative literal
// is 2*v+1.  Since variable 0 is reserved, the zero Lit is LitNull.
type Lit uint32

const (
	// LitNull is the zero literal, used as a terminator and
	// to signal "no literal".
	LitNull Lit = 0
)

// Dimacs2Lit converts a non-zero dimacs integer to a literal.
func Dimacs2Lit(d int) Lit {
	if d < 0 {
		return Var(-d).Neg()
	}
	return Var(d).Pos()
}

// Dimacs returns the dimacs integer representation of m.
func (m Lit) Dimacs() int {
	v := int(m.Var())
	if m.IsPos() {
		return v
	}
	return -v
}

// Var returns the variable of m.
func (m Lit) Var() Var {
	return Var(m >> 1)
}

// Not returns the negation of m.
func (m Lit) Not() Lit {
	return m ^ 1
}

// IsPos returns whether m is a positive literal.
func (m Lit) IsPos() bool {
	return m&1 == 0
}

// Sign returns 1 if m is positive and -1 otherwise.
func (m Lit) Sign() int8 {
	if m.IsPos() {
		return 1
	}
	return -1
}

func (m Lit) String() string {
	if m == LitNull {
		return "null"
	}
	return fmt.Sprintf("%d", m.Dimacs())
}
