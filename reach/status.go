// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package reach

import (
	"fmt"
	"strings"
)

// Status receives reachability of nodes from a source.  It is owned by
// the client which registered the source.
type Status interface {
	SetReachable(u int, reachable bool)
	IsReachable(u int) bool
}

// DefaultStatus is a Status backed by a slice.
type DefaultStatus struct {
	stat []bool
	sets int
}

// SetReachable implements Status.
func (d *DefaultStatus) SetReachable(u int, reachable bool) {
	for len(d.stat) <= u {
		d.stat = append(d.stat, false)
	}
	d.stat[u] = reachable
	d.sets++
}

// IsReachable implements Status.  Nodes never set are unreachable.
func (d *DefaultStatus) IsReachable(u int) bool {
	return u < len(d.stat) && d.stat[u]
}

// Sets returns the number of calls to SetReachable.
func (d *DefaultStatus) Sets() int {
	return d.sets
}

// Polarity selects which reachability changes are reported
// to the Status of a source.
type Polarity int

const (
	ReportBoth Polarity = iota
	ReportUnreachable
	ReportReachable
	ReportNone
)

var polarityNames = [...]string{"both", "unreachable", "reachable", "none"}

func (p Polarity) String() string {
	if p < 0 || int(p) >= len(polarityNames) {
		return fmt.Sprintf("polarity(%d)", int(p))
	}
	return polarityNames[p]
}

// ParsePolarity parses the String form of a Polarity.
func ParsePolarity(s string) (Polarity, error) {
	for i, n := range polarityNames {
		if strings.EqualFold(n, s) {
			return Polarity(i), nil
		}
	}
	return ReportNone, fmt.Errorf("unknown report polarity %q", s)
}

func (p Polarity) reportsUnreachable() bool {
	return p == ReportBoth || p == ReportUnreachable
}

func (p Polarity) reportsReachable() bool {
	return p == ReportBoth || p == ReportReachable
}
