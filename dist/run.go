// SPDX-License-Identifier: MIT

// Package dist - SPMD launcher for the in-process world.

package dist

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Run starts p goroutines, one per rank of a fresh in-process world, and runs
// fn on each. A rank that returns an error aborts the world so that peers
// blocked in a collective are released with ErrCommunication.
//
// The returned error is the first (by rank) error that is not a consequence of
// the abort, or the first error if every failure is a communication failure.
func Run(p int, fn func(c Comm) error) error {
	comms, err := NewLocalWorld(p)
	if err != nil {
		return err
	}

	errs := make([]error, p)
	var g errgroup.Group
	for r := range comms {
		c := comms[r]
		g.Go(func() error {
			if ferr := fn(c); ferr != nil {
				errs[c.Rank()] = ferr
				c.Abort(ferr)
				return ferr
			}
			return nil
		})
	}
	if g.Wait() == nil {
		return nil
	}

	var first error
	for r, e := range errs {
		if e == nil {
			continue
		}
		e = fmt.Errorf("rank %d: %w", r, e)
		if first == nil {
			first = e
		}
		if !errors.Is(e, ErrCommunication) {
			return e
		}
	}

	return first
}

// RunGrid is Run over a rows×cols grid built on the world.
func RunGrid(rows, cols int, fn func(g *Grid) error) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("RunGrid(%dx%d): %w", rows, cols, ErrBadGrid)
	}

	return Run(rows*cols, func(c Comm) error {
		g, err := NewGrid(c, rows, cols)
		if err != nil {
			return err
		}
		return fn(g)
	})
}
