// SPDX-License-Identifier: MIT

// Package sketch - counter-based random context.
//
// A Context hands out contiguous blocks of logical slots. The value drawn for a
// slot is a pure function of (seed, slot): a PCG generator is seeded with the
// context seed and a splitmix64 mix of the slot index and then sampled once.
// There is no stream position, so any process can regenerate any slot of any
// transform without drawing the ones before it.
//
// SPMD contract: processes must construct transforms in the same order so that
// each transform reserves the same block on every process. Transforms built
// concurrently, or in a process-dependent order, should be named with
// WithIdentity, which reserves from Scope(id) instead.

package sketch

import (
	"math/rand/v2"
	"sync/atomic"
)

// Context is the shared random source of a family of transforms. Safe for
// concurrent use; share it by pointer.
type Context struct {
	seed    uint64
	counter atomic.Uint64
}

// NewContext returns a context whose first reservation starts at slot 0.
func NewContext(seed uint64) *Context {
	return &Context{seed: seed}
}

// Seed returns the context seed.
func (c *Context) Seed() uint64 { return c.seed }

// Counter returns the first slot not yet reserved.
func (c *Context) Counter() uint64 { return c.counter.Load() }

// Reserve claims n consecutive slots and returns a Stream over them.
func (c *Context) Reserve(n int) Stream {
	if n < 0 {
		n = 0
	}
	end := c.counter.Add(uint64(n))

	return Stream{seed: c.seed, base: end - uint64(n), size: n}
}

// Scope returns a context with the same seed whose reservations start at
// splitmix64(id) instead of the shared counter. The block of a named transform
// therefore depends only on (seed, id), not on construction order. The parent
// counter is not advanced.
func (c *Context) Scope(id uint64) *Context {
	s := &Context{seed: c.seed}
	s.counter.Store(splitmix64(id))

	return s
}

// Draw reserves n slots and samples each one from d, in slot order.
func (c *Context) Draw(n int, d Distribution) []float64 {
	st := c.Reserve(n)
	out := make([]float64, st.Len())
	for k := range out {
		out[k] = st.Sample(k, d)
	}

	return out
}

// Stream is a reserved block of slots [Base, Base+Len).
type Stream struct {
	seed uint64
	base uint64
	size int
}

// Base returns the first slot of the block; it identifies the transform.
func (s Stream) Base() uint64 { return s.base }

// Len returns the number of slots in the block.
func (s Stream) Len() int { return s.size }

// Source returns a generator positioned at the start of slot k. Each call
// returns a fresh generator.
func (s Stream) Source(k int) rand.Source {
	return rand.NewPCG(s.seed, splitmix64(s.base+uint64(k)))
}

// Sample draws slot k from d.
func (s Stream) Sample(k int, d Distribution) float64 {
	return d.Sample(s.Source(k))
}

// Index draws slot k uniformly from [0,n).
func (s Stream) Index(k, n int) int {
	return rand.New(s.Source(k)).IntN(n)
}

// splitmix64 is the SplitMix64 finalizer; it decorrelates adjacent slots.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb

	return x ^ (x >> 31)
}
