// SPDX-License-Identifier: MIT

// Package dist - block-distributed sparse matrix.
//
// Layout:
//   - Rows are cut into R contiguous blocks and columns into C contiguous blocks;
//     process (r,c) owns row block r × column block c.
//   - Block size along an axis of length n split p ways is b = max(1, round(n/p));
//     block k is [min(k*b,n), min((k+1)*b,n)) except the last, which runs to n.
//   - The local block is CSC with local (offset-relative) indices.

package dist

import (
	"fmt"

	"github.com/katalvlaran/lvsketch/matrix"
)

// Sparse is a distributed sparse matrix.
type Sparse struct {
	grid           *Grid
	rows, cols     int
	rowOff, colOff int
	local          *matrix.Sparse
}

var _ matrix.Shape = (*Sparse)(nil)

// blockSize returns the nominal block length of an n-long axis split p ways.
func blockSize(n, p int) int {
	b := int(0.5 + float64(n)/float64(p))
	if b < 1 {
		b = 1
	}

	return b
}

// blockRange returns the half-open range of block k.
func blockRange(n, p, k int) (lo, hi int) {
	b := blockSize(n, p)
	lo = min(k*b, n)
	if k == p-1 {
		return lo, n
	}

	return lo, min((k+1)*b, n)
}

// blockOwner returns the block holding index i.
func blockOwner(n, p, i int) int {
	return min(i/blockSize(n, p), p-1)
}

// NewSparse allocates an empty rows×cols distributed sparse matrix. Not collective.
//
// Errors:
//   - ErrBadGrid on a nil grid; matrix.ErrInvalidDimensions on negative dimensions.
func NewSparse(g *Grid, rows, cols int) (*Sparse, error) {
	if g == nil {
		return nil, fmt.Errorf("NewSparse: %w", ErrBadGrid)
	}
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("NewSparse(%dx%d): %w", rows, cols, matrix.ErrInvalidDimensions)
	}
	rLo, rHi := blockRange(rows, g.rows, g.row)
	cLo, cHi := blockRange(cols, g.cols, g.col)
	local, err := matrix.NewSparse(rHi-rLo, cHi-cLo)
	if err != nil {
		return nil, err
	}

	return &Sparse{
		grid:   g,
		rows:   rows,
		cols:   cols,
		rowOff: rLo,
		colOff: cLo,
		local:  local,
	}, nil
}

// NewSparseFromGlobal distributes a matrix replicated on every process: each
// process keeps the entries of its own block. Not collective.
func NewSparseFromGlobal(g *Grid, src *matrix.Sparse) (*Sparse, error) {
	if src == nil {
		return nil, fmt.Errorf("NewSparseFromGlobal: %w", matrix.ErrNilMatrix)
	}
	m, err := NewSparse(g, src.Rows(), src.Cols())
	if err != nil {
		return nil, err
	}
	lr, lc := m.local.Rows(), m.local.Cols()
	var ts []matrix.Triplet
	src.Do(func(i, j int, v float64) {
		i -= m.rowOff
		j -= m.colOff
		if i >= 0 && i < lr && j >= 0 && j < lc {
			ts = append(ts, matrix.Triplet{Row: i, Col: j, Val: v})
		}
	})
	if err = m.local.Replace(ts); err != nil {
		return nil, err
	}

	return m, nil
}

// Rows returns the global row count.
func (m *Sparse) Rows() int { return m.rows }

// Cols returns the global column count.
func (m *Sparse) Cols() int { return m.cols }

// Grid returns the process grid.
func (m *Sparse) Grid() *Grid { return m.grid }

// Local returns the local CSC block (local indices).
func (m *Sparse) Local() *matrix.Sparse { return m.local }

// RowOffset returns the global index of local row 0.
func (m *Sparse) RowOffset() int { return m.rowOff }

// ColOffset returns the global index of local column 0.
func (m *Sparse) ColOffset() int { return m.colOff }

// SetLocal replaces the local block with ts (local indices, duplicates summed
// in input order).
func (m *Sparse) SetLocal(ts []matrix.Triplet) error {
	if err := m.local.Replace(ts); err != nil {
		return fmt.Errorf("Sparse.SetLocal: %w", err)
	}

	return nil
}

// RowOwner returns the grid row owning global row i.
func (m *Sparse) RowOwner(i int) int { return blockOwner(m.rows, m.grid.rows, i) }

// ColOwner returns the grid column owning global column j.
func (m *Sparse) ColOwner(j int) int { return blockOwner(m.cols, m.grid.cols, j) }

// OwnerRank returns the world rank owning global entry (i,j).
func (m *Sparse) OwnerRank(i, j int) int {
	return m.RowOwner(i) + m.ColOwner(j)*m.grid.rows
}

// BlockOffsets returns the global offsets of the block held by world rank.
func (m *Sparse) BlockOffsets(rank int) (rowOff, colOff int) {
	r, c := rank%m.grid.rows, rank/m.grid.rows
	rowOff, _ = blockRange(m.rows, m.grid.rows, r)
	colOff, _ = blockRange(m.cols, m.grid.cols, c)

	return rowOff, colOff
}

// SameGrid reports whether o lives on the same grid handle as m.
func (m *Sparse) SameGrid(o *Sparse) bool { return o != nil && m.grid == o.grid }

// Gather assembles the global matrix on every process. Collective.
func (m *Sparse) Gather() (*matrix.Sparse, error) {
	ts := m.local.Triplets()
	for k := range ts {
		ts[k].Row += m.rowOff
		ts[k].Col += m.colOff
	}
	frames, err := m.grid.comm.AllGather(EncodeTriplets(ts))
	if err != nil {
		return nil, fmt.Errorf("Sparse.Gather: %w", err)
	}
	var all []matrix.Triplet
	for rank, frame := range frames {
		part, derr := DecodeTriplets(frame)
		if derr != nil {
			return nil, fmt.Errorf("Sparse.Gather: rank %d: %w", rank, derr)
		}
		all = append(all, part...)
	}

	out, err := matrix.NewSparseFromTriplets(m.rows, m.cols, all)
	if err != nil {
		return nil, fmt.Errorf("Sparse.Gather: %w", err)
	}

	return out, nil
}
