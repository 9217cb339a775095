// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"context"
	"sync"
	"time"

	"github.com/irifrance/ginit/inter"
)

// Ctl is a handle on a Solve running in its own goroutine.
type Ctl struct {
	cancel context.CancelFunc
	resChn chan int

	mu     sync.Mutex
	done   bool
	result int
}

// GoSolve provides a connection to Solve() running in
// another goroutine.
func (s *S) GoSolve() inter.Solve {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Ctl{
		cancel: cancel,
		resChn: make(chan int, 1)}
	go func() {
		c.resChn <- s.SolveContext(ctx)
	}()
	return c
}

func (c *Ctl) finish(r int) int {
	c.done = true
	c.result = r
	c.cancel()
	return r
}

// Test implements inter.Solve.
func (c *Ctl) Test() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.result, true
	}
	select {
	case r := <-c.resChn:
		return c.finish(r), true
	default:
		return 0, false
	}
}

// Try implements inter.Solve.
func (c *Ctl) Try(d time.Duration) int {
	c.mu.Lock()
	if c.done {
		defer c.mu.Unlock()
		return c.result
	}
	c.mu.Unlock()
	select {
	case r := <-c.resChn:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.finish(r)
	case <-time.After(d):
		return c.Stop()
	}
}

// Wait implements inter.Solve.
func (c *Ctl) Wait() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.result
	}
	return c.finish(<-c.resChn)
}

// Stop implements inter.Solve.
func (c *Ctl) Stop() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.result
	}
	c.cancel()
	return c.finish(<-c.resChn)
}
