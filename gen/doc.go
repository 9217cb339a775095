// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen contains generators for common
// kinds of formulas and random directed graphs.
//
// Generators which contain at-most-one constraints take an AMOFunc,
// so the constraints may be added natively as theories or, when
// the AMOFunc is nil, as pairwise clauses.
package gen
