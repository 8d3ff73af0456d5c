// SPDX-License-Identifier: MIT

// Package dist - in-process world.
//
// Purpose:
//   - Run P cooperating "processes" as goroutines inside one address space.
//   - Implement every Comm collective on top of one rendezvous primitive
//     (exchange) guarded by a mutex and a condition variable.
//
// Determinism:
//   - Contributions are always combined in rank order.
//
// Notes:
//   - All worlds created by Split share the parent's fabric, so one Abort wakes
//     every blocked goroutine no matter which sub-communicator it waits on.

package dist

import (
	"fmt"
	"sort"
	"sync"
)

// fabric is the shared state of one in-process world and all its splits.
type fabric struct {
	mu     sync.Mutex
	cond   *sync.Cond
	err    error               // first abort cause; sticky
	splits map[splitKey]*world // sub-worlds keyed by (parent, split sequence, color)
}

type splitKey struct {
	parent *world
	seq    int
	color  int
}

// world is one communicator group: a reusable rendezvous with per-rank slots.
type world struct {
	f       *fabric
	size    int
	gen     uint64 // number of completed exchanges
	arrived int
	slots   []any
	out     []any // contributions of the last completed exchange
}

// localComm is one rank's handle on a world.
type localComm struct {
	w      *world
	rank   int
	nsplit int // number of Split calls issued through this handle
}

var _ Comm = (*localComm)(nil)

// NewLocalWorld creates an in-process world of size ranks and returns one Comm
// per rank. Each Comm must be driven by its own goroutine.
//
// Errors:
//   - ErrBadGrid if size <= 0.
func NewLocalWorld(size int) ([]Comm, error) {
	if size <= 0 {
		return nil, fmt.Errorf("NewLocalWorld(%d): %w", size, ErrBadGrid)
	}
	f := &fabric{splits: make(map[splitKey]*world)}
	f.cond = sync.NewCond(&f.mu)
	w := newWorld(f, size)

	comms := make([]Comm, size)
	for r := range comms {
		comms[r] = &localComm{w: w, rank: r}
	}

	return comms, nil
}

func newWorld(f *fabric, size int) *world {
	return &world{f: f, size: size, slots: make([]any, size)}
}

// exchange deposits v for rank and blocks until every rank of the world has
// deposited; it returns all contributions indexed by rank.
func (w *world) exchange(rank int, v any) ([]any, error) {
	f := w.f
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	myGen := w.gen
	w.slots[rank] = v
	w.arrived++
	if w.arrived == w.size {
		w.out = w.slots
		w.slots = make([]any, w.size)
		w.arrived = 0
		w.gen++
		f.cond.Broadcast()

		return w.out, nil
	}
	for w.gen == myGen && f.err == nil {
		f.cond.Wait()
	}
	if w.gen == myGen {
		// woken by Abort before the exchange completed
		return nil, f.err
	}

	// The next generation cannot complete before this rank calls again, so
	// w.out still holds this generation's contributions.
	return w.out, nil
}

func (c *localComm) Rank() int { return c.rank }

func (c *localComm) Size() int { return c.w.size }

func (c *localComm) Barrier() error {
	_, err := c.w.exchange(c.rank, nil)
	return err
}

func (c *localComm) AllReduceSum(buf []float64) error {
	contrib := append([]float64(nil), buf...)
	all, err := c.w.exchange(c.rank, contrib)
	if err != nil {
		return err
	}
	for r, v := range all {
		if len(v.([]float64)) != len(buf) {
			err = fmt.Errorf("%w: AllReduceSum: rank %d sent %d values, rank %d expects %d",
				ErrCommunication, r, len(v.([]float64)), c.rank, len(buf))
			c.Abort(err)
			return err
		}
	}
	for idx := range buf {
		buf[idx] = 0
	}
	for _, v := range all {
		for idx, x := range v.([]float64) {
			buf[idx] += x
		}
	}

	return nil
}

func (c *localComm) AllGather(payload []byte) ([][]byte, error) {
	all, err := c.w.exchange(c.rank, append([]byte(nil), payload...))
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(all))
	for r, v := range all {
		out[r] = v.([]byte)
	}

	return out, nil
}

func (c *localComm) AllToAll(send [][]byte) ([][]byte, error) {
	if len(send) != c.w.size {
		err := fmt.Errorf("%w: AllToAll: rank %d passed %d buffers for %d ranks",
			ErrCommunication, c.rank, len(send), c.w.size)
		c.Abort(err)
		return nil, err
	}
	cp := make([][]byte, len(send))
	for r := range send {
		cp[r] = append([]byte(nil), send[r]...)
	}
	all, err := c.w.exchange(c.rank, cp)
	if err != nil {
		return nil, err
	}
	recv := make([][]byte, len(all))
	for r, v := range all {
		recv[r] = v.([][]byte)[c.rank]
	}

	return recv, nil
}

type splitReq struct{ color, key int }

func (c *localComm) Split(color, key int) (Comm, error) {
	if color < 0 {
		err := fmt.Errorf("%w: Split: negative color %d", ErrCommunication, color)
		c.Abort(err)
		return nil, err
	}
	seq := c.nsplit
	c.nsplit++
	all, err := c.w.exchange(c.rank, splitReq{color: color, key: key})
	if err != nil {
		return nil, err
	}

	type member struct{ key, rank int }
	var members []member
	for r, v := range all {
		if req := v.(splitReq); req.color == color {
			members = append(members, member{key: req.key, rank: r})
		}
	}
	sort.Slice(members, func(a, b int) bool {
		if members[a].key != members[b].key {
			return members[a].key < members[b].key
		}
		return members[a].rank < members[b].rank
	})
	newRank := 0
	for i, m := range members {
		if m.rank == c.rank {
			newRank = i
		}
	}

	f := c.w.f
	f.mu.Lock()
	k := splitKey{parent: c.w, seq: seq, color: color}
	sub, ok := f.splits[k]
	if !ok {
		sub = newWorld(f, len(members))
		f.splits[k] = sub
	}
	f.mu.Unlock()

	return &localComm{w: sub, rank: newRank}, nil
}

func (c *localComm) Abort(err error) {
	f := c.w.f
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = fmt.Errorf("%w: rank %d aborted: %w", ErrCommunication, c.rank, err)
		f.cond.Broadcast()
	}
}
