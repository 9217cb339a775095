// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package metrics exposes solver and theory statistics as
// prometheus metrics.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/irifrance/ginit/amo"
	"github.com/irifrance/ginit/internal/xo"
	"github.com/irifrance/ginit/reach"
)

// CoreStats is something which reports core statistics,
// such as *xo.S.
type CoreStats interface {
	ReadStats(st *xo.Stats)
}

// AMOStats is something which reports the statistics of an
// at-most-one theory, such as *amo.T.
type AMOStats interface {
	TheoryIndex() int
	ReadStats(st *amo.Stats)
}

// ReachStats is something which reports reachability statistics,
// such as *reach.FloydWarshall.
type ReachStats interface {
	ReadStats(st *reach.Stats)
}

const namespace = "ginit"

var (
	coreDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "core", "events_total"),
		"Boolean core events by kind.",
		[]string{"kind"}, nil)
	amoDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "amo", "events_total"),
		"At-most-one theory events by theory and kind.",
		[]string{"theory", "kind"}, nil)
	amoSizeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "amo", "size"),
		"Live members of an at-most-one theory.",
		[]string{"theory"}, nil)
	reachDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "reach", "updates_total"),
		"Reachability updates by instance and kind.",
		[]string{"instance", "kind"}, nil)
	reachTimeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "reach", "full_update_seconds_total"),
		"Time spent in full reachability updates.",
		[]string{"instance"}, nil)
)

// Collector implements prometheus.Collector over a core and its
// theories.  Statistics read from the components are accumulated, so
// the exposed counters are monotonic.
//
// The ReadStats of *xo.S, *amo.T and *reach.FloydWarshall hand out
// their counters and reset them.  Given such components, the Collector
// must be their only reader; otherwise use readers which report
// cumulative statistics, like those of ginit.Gini.
//
// Collect reads the statistics of the components, which are not
// synchronised with solving: it must not run concurrently with calls
// into the theories.
type Collector struct {
	mu   sync.Mutex
	core CoreStats
	amos []AMOStats
	fws  []ReachStats
	cst  xo.Stats
	ast  []amo.Stats
	rst  []reach.Stats
}

// NewCollector creates a Collector for core, which may be nil.
func NewCollector(core CoreStats) *Collector {
	return &Collector{core: core}
}

// AddAMO adds an at-most-one theory to c.
func (c *Collector) AddAMO(t AMOStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.amos = append(c.amos, t)
	c.ast = append(c.ast, amo.Stats{})
}

// AddReach adds a reachability instance to c.
func (c *Collector) AddReach(fw ReachStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fws = append(c.fws, fw)
	c.rst = append(c.rst, reach.Stats{})
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- coreDesc
	ch <- amoDesc
	ch <- amoSizeDesc
	ch <- reachDesc
	ch <- reachTimeDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.core != nil {
		c.core.ReadStats(&c.cst)
		st := &c.cst
		for _, kv := range []struct {
			kind string
			v    int64
		}{
			{"decisions", st.Decisions},
			{"conflicts", st.Conflicts},
			{"props", st.Props},
			{"backtracks", st.Backtracks},
			{"sat", st.Sat},
			{"unsat", st.Unsat},
			{"ended", st.Ended},
			{"theory_enqueues", st.TheoryEnqueues},
			{"theory_props", st.TheoryProps},
			{"theory_conflicts", st.TheoryConflicts},
			{"theory_reasons", st.TheoryReasons},
			{"theory_satisfied", st.TheorySatisfied},
		} {
			ch <- prometheus.MustNewConstMetric(coreDesc, prometheus.CounterValue, float64(kv.v), kv.kind)
		}
	}
	for i, t := range c.amos {
		st := &c.ast[i]
		t.ReadStats(st)
		idx := strconv.Itoa(t.TheoryIndex())
		ch <- prometheus.MustNewConstMetric(amoDesc, prometheus.CounterValue, float64(st.Propagations), idx, "propagations")
		ch <- prometheus.MustNewConstMetric(amoDesc, prometheus.CounterValue, float64(st.PropagationsSkipped), idx, "skipped")
		ch <- prometheus.MustNewConstMetric(amoDesc, prometheus.CounterValue, float64(st.ShrinkRemoved), idx, "shrink_removed")
		ch <- prometheus.MustNewConstMetric(amoDesc, prometheus.CounterValue, float64(st.Reasons), idx, "reasons")
		ch <- prometheus.MustNewConstMetric(amoDesc, prometheus.CounterValue, float64(st.Conflicts), idx, "conflicts")
		ch <- prometheus.MustNewConstMetric(amoSizeDesc, prometheus.GaugeValue, float64(st.Size), idx)
	}
	for i, fw := range c.fws {
		st := &c.rst[i]
		fw.ReadStats(st)
		idx := strconv.Itoa(i)
		ch <- prometheus.MustNewConstMetric(reachDesc, prometheus.CounterValue, float64(st.FullUpdates), idx, "full")
		ch <- prometheus.MustNewConstMetric(reachDesc, prometheus.CounterValue, float64(st.FastUpdates), idx, "fast")
		ch <- prometheus.MustNewConstMetric(reachDesc, prometheus.CounterValue, float64(st.SkippedUpdates), idx, "skipped")
		ch <- prometheus.MustNewConstMetric(reachDesc, prometheus.CounterValue, float64(st.SkipableDeletions), idx, "skipable_deletions")
		ch <- prometheus.MustNewConstMetric(reachTimeDesc, prometheus.CounterValue, st.FullUpdateTime.Seconds(), idx)
	}
}
