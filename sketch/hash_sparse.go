// SPDX-License-Identifier: MIT

// Package sketch - signed-hash appliers producing sparse sketches.
//
// Every process first folds its local nonzeros into a partial map keyed by
// the global sketch position pos = row*cols + col. Partial maps are then
// combined by summing equal positions in source-rank order:
//   - DistSparse → DistSparse: each entry is routed (AllToAll) to the process
//     owning its position; only that process merges it.
//   - DistSparse → LocalSparse: every partial map is all-gathered and merged
//     everywhere, so each process holds the full sketch.
//
// Both produce the same bits as gathering all partial maps and merging them in
// rank order, because every position is summed in the same order either way.

package sketch

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

// partialMap sums sketch contributions per position.
type partialMap struct {
	cols int
	sum  map[int]float64
}

func newPartialMap(cols int) *partialMap {
	return &partialMap{cols: cols, sum: make(map[int]float64)}
}

func (p *partialMap) add(row, col int, v float64) {
	p.sum[row*p.cols+col] += v
}

func (p *partialMap) merge(ts []matrix.Triplet) {
	for _, t := range ts {
		p.add(t.Row, t.Col, t.Val)
	}
}

// triplets returns the nonzero entries ordered by position. Positions whose
// contributions cancel to exactly zero are not stored.
func (p *partialMap) triplets() []matrix.Triplet {
	keys := make([]int, 0, len(p.sum))
	for pos, v := range p.sum {
		if v != 0 {
			keys = append(keys, pos)
		}
	}
	sort.Ints(keys)
	out := make([]matrix.Triplet, len(keys))
	for k, pos := range keys {
		out[k] = matrix.Triplet{Row: pos / p.cols, Col: pos % p.cols, Val: p.sum[pos]}
	}

	return out
}

// localPartial folds the local block of a into a partial map of the sketch.
func (h *Hash) localPartial(a *dist.Sparse, cols int, dir Direction) *partialMap {
	p := newPartialMap(cols)
	rOff, cOff := a.RowOffset(), a.ColOffset()
	a.Local().Do(func(i, j int, v float64) {
		row, col, val := h.data.target(i+rOff, j+cOff, v, dir)
		p.add(row, col, val)
	})

	return p
}

func (h *Hash) localSparseToSparse(dir Direction) applyFunc {
	return func(a, sa matrix.Shape) error {
		A, SA := a.(*matrix.Sparse), sa.(*matrix.Sparse)
		p := newPartialMap(SA.Cols())
		A.Do(func(i, j int, v float64) {
			row, col, val := h.data.target(i, j, v, dir)
			p.add(row, col, val)
		})

		return SA.Replace(p.triplets())
	}
}

func (h *Hash) distSparseToDistSparse(dir Direction) applyFunc {
	return func(a, sa matrix.Shape) error {
		A, SA := a.(*dist.Sparse), sa.(*dist.Sparse)
		if err := sameGrid(A, SA); err != nil {
			return err
		}
		comm := A.Grid().Comm()

		outgoing := make([][]matrix.Triplet, comm.Size())
		for _, t := range h.localPartial(A, SA.Cols(), dir).triplets() {
			r := SA.OwnerRank(t.Row, t.Col)
			outgoing[r] = append(outgoing[r], t)
		}
		send := make([][]byte, len(outgoing))
		for r, ts := range outgoing {
			send[r] = dist.EncodeTriplets(ts)
		}
		recv, err := comm.AllToAll(send)
		if err != nil {
			return commError("hash exchange", err)
		}

		merged := newPartialMap(SA.Cols())
		for r, frame := range recv {
			ts, derr := dist.DecodeTriplets(frame)
			if derr != nil {
				return fmt.Errorf("hash exchange: from rank %d: %w", r, derr)
			}
			merged.merge(ts)
		}

		local := merged.triplets()
		rOff, cOff := SA.RowOffset(), SA.ColOffset()
		for k := range local {
			local[k].Row -= rOff
			local[k].Col -= cOff
		}

		return SA.SetLocal(local)
	}
}

func (h *Hash) distSparseToLocalSparse(dir Direction) applyFunc {
	return func(a, sa matrix.Shape) error {
		A, SA := a.(*dist.Sparse), sa.(*matrix.Sparse)
		part := h.localPartial(A, SA.Cols(), dir).triplets()
		frames, err := A.Grid().Comm().AllGather(dist.EncodeTriplets(part))
		if err != nil {
			return commError("hash gather", err)
		}

		merged := newPartialMap(SA.Cols())
		for r, frame := range frames {
			ts, derr := dist.DecodeTriplets(frame)
			if derr != nil {
				return fmt.Errorf("hash gather: from rank %d: %w", r, derr)
			}
			merged.merge(ts)
		}

		return SA.Replace(merged.triplets())
	}
}
