// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package reach

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/irifrance/ginit/graph"
)

// FloydWarshall maintains all pairs shortest paths over the enabled
// edges of a graph, and reports reachability from registered sources.
//
// Results are recomputed only when the graph changed since the last
// update.  A change whose net effect leaves every edge in the state
// seen at the last update (an edge disabled then re-enabled, say) is
// detected by replaying the graph history and does not recompute.
//
// Distances are in edges; unreachable nodes are at distance Inf(),
// which is the number of nodes plus one.
type FloydWarshall struct {
	g        graph.Graph
	log      *zap.Logger
	polarity Polarity

	lastModification int
	lastAddition     int
	lastDeletion     int
	historyHead      int
	lastHistoryClear int
	enabledAt        []bool // edge states at the last update

	sources []int
	status  []Status

	n    int
	inf  int
	dist [][]int
	next [][]int // intermediate node of a shortest path, -1 for an edge

	stFullUpdates     int64
	stFastUpdates     int64
	stSkippedUpdates  int64
	stSkipableDeletes int64
	stFullUpdateTime  time.Duration
}

// Option configures a FloydWarshall.
type Option func(fw *FloydWarshall)

// WithPolarity sets which reachability results are reported
// to the source statuses.  The default is ReportBoth.
func WithPolarity(p Polarity) Option {
	return func(fw *FloydWarshall) {
		fw.polarity = p
	}
}

// WithLogger sets the logger of a FloydWarshall.
func WithLogger(log *zap.Logger) Option {
	return func(fw *FloydWarshall) {
		if log != nil {
			fw.log = log
		}
	}
}

// New creates a FloydWarshall over g.
func New(g graph.Graph, opts ...Option) *FloydWarshall {
	fw := &FloydWarshall{
		g:                g,
		log:              zap.NewNop(),
		polarity:         ReportBoth,
		lastModification: -1,
		lastAddition:     -1,
		lastDeletion:     -1}
	for _, opt := range opts {
		opt(fw)
	}
	return fw
}

// AddSource registers s, whose reachability results are
// reported to st.  Registering a source twice panics.
func (fw *FloydWarshall) AddSource(s int, st Status) {
	for _, t := range fw.sources {
		if t == s {
			panic(fmt.Sprintf("source %d added twice", s))
		}
	}
	fw.sources = append(fw.sources, s)
	fw.status = append(fw.status, st)
	fw.lastModification = -1
	fw.lastAddition = -1
	fw.lastDeletion = -1
}

// Sources returns the registered sources.
func (fw *FloydWarshall) Sources() []int {
	return fw.sources
}

// Polarity returns the report polarity.
func (fw *FloydWarshall) Polarity() Polarity {
	return fw.polarity
}

// Inf returns the distance of unreachable nodes.
func (fw *FloydWarshall) Inf() int {
	return fw.inf
}

// SetNodes sizes the tables for n nodes.  If n differs from the
// current size the tables are reallocated with no paths, and the
// next query recomputes them from the graph.
func (fw *FloydWarshall) SetNodes(n int) {
	if !fw.resize(n) {
		return
	}
	for i := 0; i < n; i++ {
		di, ni := fw.dist[i], fw.next[i]
		for j := range di {
			di[j] = fw.inf
			ni[j] = -1
		}
		di[i] = 0
	}
	fw.lastModification = -1
	fw.lastAddition = -1
	fw.lastDeletion = -1
}

// resize reallocates the tables if their size is not n, and returns
// whether it did.
func (fw *FloydWarshall) resize(n int) bool {
	fw.inf = n + 1
	if n == fw.n && fw.dist != nil {
		return false
	}
	fw.n = n
	fw.dist = make([][]int, n)
	fw.next = make([][]int, n)
	for i := 0; i < n; i++ {
		fw.dist[i] = make([]int, n)
		fw.next[i] = make([]int, n)
	}
	return true
}

// Update brings the tables up to date with the graph.
func (fw *FloydWarshall) Update() {
	g := fw.g
	if fw.lastModification >= 0 && g.Modifications() == fw.lastModification {
		fw.stSkippedUpdates++
		return
	}
	if fw.lastModification >= 0 && fw.netUnchanged() {
		fw.stFastUpdates++
		fw.snapshot()
		return
	}
	if fw.lastDeletion == g.Deletions() {
		fw.stSkipableDeletes++
	}
	fw.full()
}

// netUnchanged replays the history since the last update and returns
// whether every edge it touches is back in the state seen then.
func (fw *FloydWarshall) netUnchanged() bool {
	g := fw.g
	if g.Nodes() != fw.n || g.HistoryClears() != fw.lastHistoryClear {
		return false
	}
	if len(g.Edges()) != len(fw.enabledAt) {
		return false
	}
	h := g.History()
	if fw.historyHead > len(h) {
		return false
	}
	for _, c := range h[fw.historyHead:] {
		if g.EdgeEnabled(c.ID) != fw.enabledAt[c.ID] {
			return false
		}
	}
	return true
}

func (fw *FloydWarshall) full() {
	start := time.Now()
	g := fw.g
	fw.stFullUpdates++
	n := g.Nodes()
	fw.resize(n)
	inf := fw.inf
	dist, next := fw.dist, fw.next
	for i := 0; i < n; i++ {
		di, ni := dist[i], next[i]
		for j := range di {
			di[j] = inf
			ni[j] = -1
		}
		di[i] = 0
	}
	edges := g.Edges()
	if cap(fw.enabledAt) < len(edges) {
		fw.enabledAt = make([]bool, len(edges))
	}
	fw.enabledAt = fw.enabledAt[:len(edges)]
	for _, e := range edges {
		on := g.EdgeEnabled(e.ID)
		fw.enabledAt[e.ID] = on
		if on && e.From != e.To {
			dist[e.From][e.To] = 1
		}
	}
	for k := 0; k < n; k++ {
		dk := dist[k]
		for i := 0; i < n; i++ {
			di := dist[i]
			dik := di[k]
			if dik >= inf {
				continue
			}
			ni := next[i]
			for j, dkj := range dk {
				if d := dik + dkj; d < di[j] {
					di[j] = d
					ni[j] = k
				}
			}
		}
	}
	fw.report()
	fw.snapshot()
	dur := time.Since(start)
	fw.stFullUpdateTime += dur
	fw.log.Debug("reach full update",
		zap.Int("nodes", n),
		zap.Int("edges", len(edges)),
		zap.Int("sources", len(fw.sources)),
		zap.Duration("took", dur))
}

func (fw *FloydWarshall) report() {
	p := fw.polarity
	if p == ReportNone {
		return
	}
	for l, s := range fw.sources {
		if s < 0 || s >= fw.n {
			continue
		}
		st := fw.status[l]
		ds := fw.dist[s]
		for u, d := range ds {
			if d >= fw.inf {
				if p.reportsUnreachable() {
					st.SetReachable(u, false)
				}
			} else if p.reportsReachable() {
				st.SetReachable(u, true)
			}
		}
	}
}

func (fw *FloydWarshall) snapshot() {
	g := fw.g
	fw.lastModification = g.Modifications()
	fw.lastAddition = g.Additions()
	fw.lastDeletion = g.Deletions()
	fw.historyHead = len(g.History())
	fw.lastHistoryClear = g.HistoryClears()
}

// UpToDate returns whether the tables reflect the current graph.
func (fw *FloydWarshall) UpToDate() bool {
	return fw.lastModification >= 0 && fw.lastModification == fw.g.Modifications()
}

func (fw *FloydWarshall) ensure() {
	if !fw.UpToDate() {
		fw.Update()
	}
}

func (fw *FloydWarshall) check(u int) {
	if u < 0 || u >= fw.n {
		panic(fmt.Sprintf("node %d out of range [0..%d)", u, fw.n))
	}
}

// Connected returns whether t is reachable from s, updating first
// if needed.
func (fw *FloydWarshall) Connected(s, t int) bool {
	fw.ensure()
	fw.check(s)
	fw.check(t)
	return fw.dist[s][t] < fw.inf
}

// ConnectedUnsafe returns whether t was reachable from s at the last
// update, or false if s or t were not nodes then.
func (fw *FloydWarshall) ConnectedUnsafe(s, t int) bool {
	if s < 0 || t < 0 || s >= fw.n || t >= fw.n {
		return false
	}
	return fw.dist[s][t] < fw.inf
}

// ConnectedUnchecked is like ConnectedUnsafe but panics if the
// tables are not up to date.
func (fw *FloydWarshall) ConnectedUnchecked(s, t int) bool {
	if !fw.UpToDate() {
		panic("reach: unchecked query on stale tables")
	}
	return fw.ConnectedUnsafe(s, t)
}

// Reachable returns whether t is reachable from the i'th registered
// source.
func (fw *FloydWarshall) Reachable(i, t int) bool {
	if i < 0 || i >= len(fw.sources) {
		panic(fmt.Sprintf("source index %d out of range [0..%d)", i, len(fw.sources)))
	}
	return fw.Connected(fw.sources[i], t)
}

// Distance returns the number of edges on a shortest path from s to t,
// or Inf() if there is none.
func (fw *FloydWarshall) Distance(s, t int) int {
	fw.ensure()
	fw.check(s)
	fw.check(t)
	return fw.dist[s][t]
}

// Path appends to dst the nodes of a shortest path from s to t,
// starting with s and ending with t.  If t is unreachable from s,
// Path returns nil.
func (fw *FloydWarshall) Path(s, t int, dst []int) []int {
	fw.ensure()
	fw.check(s)
	fw.check(t)
	if fw.dist[s][t] >= fw.inf {
		return nil
	}
	dst = append(dst, s)
	if s == t {
		return dst
	}
	return fw.path(s, t, dst)
}

// path appends the nodes after i on a shortest path from i to j.
func (fw *FloydWarshall) path(i, j int, dst []int) []int {
	k := fw.next[i][j]
	if k == -1 {
		return append(dst, j)
	}
	dst = fw.path(i, k, dst)
	return fw.path(k, j, dst)
}

// Previous returns the node before t on a shortest path from s to t,
// or -1 if t is s or is unreachable.
func (fw *FloydWarshall) Previous(s, t int) int {
	p := fw.Path(s, t, nil)
	if len(p) < 2 {
		return -1
	}
	return p[len(p)-2]
}

// Dot writes the graph in graphviz format, filling nodes
// reachable from some source and colouring enabled edges blue and
// disabled ones red.
func (fw *FloydWarshall) Dot(w io.Writer) error {
	fw.ensure()
	if _, err := fmt.Fprintln(w, "digraph{"); err != nil {
		return err
	}
	for u := 0; u < fw.n; u++ {
		seen := false
		for _, s := range fw.sources {
			if s < fw.n && fw.dist[s][u] < fw.inf {
				seen = true
				break
			}
		}
		var err error
		if seen {
			_, err = fmt.Fprintf(w, "n%d [fillcolor=blue style=filled]\n", u)
		} else {
			_, err = fmt.Fprintf(w, "n%d\n", u)
		}
		if err != nil {
			return err
		}
	}
	for _, e := range fw.g.Edges() {
		color := "red"
		if fw.g.EdgeEnabled(e.ID) {
			color = "blue"
		}
		if _, err := fmt.Fprintf(w, "n%d -> n%d [label=\"e%d\",color=\"%s\"]\n", e.From, e.To, e.ID, color); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// Stats holds statistics of a FloydWarshall.
type Stats struct {
	FullUpdates       int64
	FastUpdates       int64
	SkippedUpdates    int64
	SkipableDeletions int64
	FullUpdateTime    time.Duration
}

// ReadStats adds the cumulative statistics of fw to st and
// resets them.
func (fw *FloydWarshall) ReadStats(st *Stats) {
	st.FullUpdates += fw.stFullUpdates
	fw.stFullUpdates = 0
	st.FastUpdates += fw.stFastUpdates
	fw.stFastUpdates = 0
	st.SkippedUpdates += fw.stSkippedUpdates
	fw.stSkippedUpdates = 0
	st.SkipableDeletions += fw.stSkipableDeletes
	fw.stSkipableDeletes = 0
	st.FullUpdateTime += fw.stFullUpdateTime
	fw.stFullUpdateTime = 0
}
