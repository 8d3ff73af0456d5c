// SPDX-License-Identifier: MIT

// Package sketch - per-instance dispatch table.
//
// Every transform owns a router built at construction: a map from
// (input layout, output layout, direction) to the applier for that triple.
// A missing entry is ErrUnsupportedLayout; panics raised by linear-algebra
// kernels inside an applier are recovered and returned as ErrNumerical.

package sketch

import (
	"fmt"

	"github.com/katalvlaran/lvsketch/matrix"
)

type route struct {
	in, out Layout
	dir     Direction
}

// applyFunc computes sa from a. Shapes have already been validated.
type applyFunc func(a, sa matrix.Shape) error

type router struct {
	routes map[route]applyFunc
}

func newRouter() router {
	return router{routes: make(map[route]applyFunc)}
}

// handle registers fn for (in, out, dir).
func (r router) handle(in, out Layout, dir Direction, fn applyFunc) {
	r.routes[route{in: in, out: out, dir: dir}] = fn
}

// handleBoth registers the columnwise and rowwise appliers of (in, out).
func (r router) handleBoth(in, out Layout, col, row applyFunc) {
	r.handle(in, out, Columnwise, col)
	r.handle(in, out, Rowwise, row)
}

func (r router) supports(in, out Layout, dir Direction) bool {
	_, ok := r.routes[route{in: in, out: out, dir: dir}]
	return ok
}

func (r router) dispatch(op string, in, out Layout, dir Direction, a, sa matrix.Shape) error {
	fn, ok := r.routes[route{in: in, out: out, dir: dir}]
	if !ok {
		return fmt.Errorf("%s: %v -> %v %v: %w", op, in, out, dir, ErrUnsupportedLayout)
	}

	return guard(op, func() error { return fn(a, sa) })
}

// guard runs fn and turns a panic into ErrNumerical carrying the panic value.
func guard(op string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s: %v: %w", op, rec, ErrNumerical)
		}
	}()

	return fn()
}
