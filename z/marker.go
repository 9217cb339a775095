// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package z

import "fmt"

// Marker identifies a propagation rule of a theory.  A core mints markers
// on request of a theory and keeps the registry mapping each marker back
// to the theory which owns it.  A marker names the rule which propagated a
// literal, never the instance, so it stays valid across backtracking.
type Marker uint32

// MarkerNull is the zero marker, meaning "no theory reason".
const MarkerNull Marker = 0

func (r Marker) String() string {
	return fmt.Sprintf("r%d", uint32(r))
}

// C is the location of a clause in a clause store.
type C uint32

// CNull is the null clause location.
const CNull C = 0

func (c C) String() string {
	return fmt.Sprintf("c%d", uint32(c))
}
