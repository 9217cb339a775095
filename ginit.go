// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ginit

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/irifrance/ginit/amo"
	"github.com/irifrance/ginit/config"
	"github.com/irifrance/ginit/graph"
	"github.com/irifrance/ginit/inter"
	"github.com/irifrance/ginit/internal/xo"
	"github.com/irifrance/ginit/metrics"
	"github.com/irifrance/ginit/reach"
	"github.com/irifrance/ginit/z"
)

// Stats holds solver statistics.
type Stats = xo.Stats

var _ inter.S = (*Gini)(nil)

// Gini is a solver hosting lazily propagating theories.
type Gini struct {
	xo   *xo.S
	opts *config.Options
	log  *zap.Logger

	mu   sync.Mutex
	amos []*amo.T
	fws  []*reach.FloydWarshall
	st   Stats
	ast  []amo.Stats
	rst  []reach.Stats
	coll *metrics.Collector
}

// Option configures a Gini.
type Option func(g *Gini)

// WithLogger sets the logger used by the core and by the theories
// created with AMO and Reach.
func WithLogger(log *zap.Logger) Option {
	return func(g *Gini) {
		if log != nil {
			g.log = log
		}
	}
}

// WithOptions sets the theory options, which must be valid.
// opts is not copied.
func WithOptions(opts *config.Options) Option {
	return func(g *Gini) {
		if opts != nil {
			g.opts = opts
		}
	}
}

// New creates a new solver with default options.
func New(opts ...Option) *Gini {
	g := &Gini{
		opts: config.Default(),
		log:  zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	g.xo = xo.NewS(xo.WithLogger(g.log))
	return g
}

// NewWithConfig creates a new solver configured by opts, which must be
// valid.  The logger is built from the configured level.
func NewWithConfig(opts *config.Options) (*Gini, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log, err := opts.Logger()
	if err != nil {
		return nil, err
	}
	return New(WithOptions(opts), WithLogger(log)), nil
}

// Options returns the options of g.
func (g *Gini) Options() *config.Options {
	return g.opts
}

// Core returns g as seen by theories.  Theories other than those
// created by AMO and Reach register themselves on it.
func (g *Gini) Core() inter.Core {
	return g.xo
}

// Add implements inter.Adder.
func (g *Gini) Add(m z.Lit) {
	g.xo.Add(m)
}

// Lit returns the positive literal of a fresh variable.
func (g *Gini) Lit() z.Lit {
	return g.xo.Lit()
}

// MaxVar returns the maximum variable added or assumed.
func (g *Gini) MaxVar() z.Var {
	return g.xo.MaxVar()
}

// Assume causes the literals ms to be assumed true for the next
// call to Solve.
func (g *Gini) Assume(ms ...z.Lit) {
	g.xo.Assume(ms...)
}

// Solve returns 1 if the constraints are satisfiable under the
// assumptions and -1 otherwise.
func (g *Gini) Solve() int {
	return g.xo.Solve()
}

// SolveContext is like Solve but returns 0 once ctx is done.
func (g *Gini) SolveContext(ctx context.Context) int {
	return g.xo.SolveContext(ctx)
}

// GoSolve solves in the background.
func (g *Gini) GoSolve() inter.Solve {
	return g.xo.GoSolve()
}

// Value returns the value of m in the last model found.
func (g *Gini) Value(m z.Lit) bool {
	return g.xo.Value(m)
}

// Why appends to ms the failed assumptions of the last unsat Solve.
func (g *Gini) Why(ms []z.Lit) []z.Lit {
	return g.xo.Why(ms)
}

// Reasons returns the literals which implied m, stored in dst if
// possible.
func (g *Gini) Reasons(dst []z.Lit, m z.Lit) []z.Lit {
	return g.xo.Reasons(dst, m)
}

// AMO creates an at-most-one theory over vs, configured from the
// options of g.
func (g *Gini) AMO(vs ...z.Var) *amo.T {
	t := amo.New(g.xo,
		amo.WithEagerProp(g.opts.AMOEagerProp),
		amo.WithClausify(g.opts.ClausifyAMO),
		amo.WithLogger(g.log))
	for _, v := range vs {
		t.AddVar(v)
	}
	g.mu.Lock()
	i := len(g.amos)
	g.amos = append(g.amos, t)
	g.ast = append(g.ast, amo.Stats{})
	coll := g.coll
	g.mu.Unlock()
	if coll != nil {
		coll.AddAMO(amoStats{g: g, i: i})
	}
	return t
}

// Reach creates a reachability instance over gr, reporting with the
// configured polarity.
func (g *Gini) Reach(gr graph.Graph) *reach.FloydWarshall {
	fw := reach.New(gr,
		reach.WithPolarity(g.opts.Polarity()),
		reach.WithLogger(g.log))
	g.mu.Lock()
	i := len(g.fws)
	g.fws = append(g.fws, fw)
	g.rst = append(g.rst, reach.Stats{})
	coll := g.coll
	g.mu.Unlock()
	if coll != nil {
		coll.AddReach(reachStats{g: g, i: i})
	}
	return fw
}

// Stats returns the statistics of the core accumulated since g was
// created.
func (g *Gini) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.xo.ReadStats(&g.st)
	return g.st
}

// ReadStats overwrites st with the result of Stats.
func (g *Gini) ReadStats(st *Stats) {
	*st = g.Stats()
}

// AMOStats returns the statistics of the i'th theory created by AMO,
// accumulated since its creation.
func (g *Gini) AMOStats(i int) amo.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.amos[i].ReadStats(&g.ast[i])
	return g.ast[i]
}

// ReachStats returns the statistics of the i'th instance created by
// Reach, accumulated since its creation.
func (g *Gini) ReachStats(i int) reach.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fws[i].ReadStats(&g.rst[i])
	return g.rst[i]
}

// Collector returns a prometheus collector over the core of g and
// the theories created by AMO and Reach, including those created
// later.  It reads statistics through g, so it may be used alongside
// Stats, AMOStats and ReachStats.
func (g *Gini) Collector() *metrics.Collector {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.coll != nil {
		return g.coll
	}
	// not yet shared, so adding under g.mu cannot deadlock with Collect
	coll := metrics.NewCollector(g)
	for i := range g.amos {
		coll.AddAMO(amoStats{g: g, i: i})
	}
	for i := range g.fws {
		coll.AddReach(reachStats{g: g, i: i})
	}
	g.coll = coll
	return coll
}

// amoStats reads the cumulative statistics of an AMO theory of g.
type amoStats struct {
	g *Gini
	i int
}

func (r amoStats) TheoryIndex() int {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	return r.g.amos[r.i].TheoryIndex()
}

func (r amoStats) ReadStats(st *amo.Stats) {
	*st = r.g.AMOStats(r.i)
}

// reachStats reads the cumulative statistics of a Reach instance of g.
type reachStats struct {
	g *Gini
	i int
}

func (r reachStats) ReadStats(st *reach.Stats) {
	*st = r.g.ReachStats(r.i)
}
