// SPDX-License-Identifier: MIT

// Package dist - element-cyclic distributed dense matrix.
//
// Purpose:
//   - Hold one process's local block of a global rows×cols matrix under a Dist.
//   - Translate local ↔ global indices with the grid shift/stride of each axis.
//
// The local block is a *matrix.Dense of LocalLength(rows)×LocalLength(cols); it
// is empty (0 rows or 0 cols) on processes that own nothing.

package dist

import (
	"fmt"

	"github.com/katalvlaran/lvsketch/matrix"
)

// Dense is a distributed dense matrix.
type Dense struct {
	grid       *Grid
	dist       Dist
	rows, cols int

	rowShift, rowStride int
	colShift, colStride int

	local *matrix.Dense
}

var _ matrix.Shape = (*Dense)(nil)

// NewDense allocates a zero rows×cols matrix distributed as d over g.
// Not collective.
//
// Errors:
//   - ErrBadGrid on a nil grid or an unknown distribution.
//   - matrix.ErrInvalidDimensions on negative dimensions.
func NewDense(g *Grid, d Dist, rows, cols int) (*Dense, error) {
	if g == nil || !d.valid() {
		return nil, fmt.Errorf("NewDense(%v): %w", d, ErrBadGrid)
	}
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("NewDense(%dx%d): %w", rows, cols, matrix.ErrInvalidDimensions)
	}
	m := &Dense{
		grid:      g,
		dist:      d,
		rows:      rows,
		cols:      cols,
		rowShift:  g.Shift(d.RowDist()),
		rowStride: g.Stride(d.RowDist()),
		colShift:  g.Shift(d.ColDist()),
		colStride: g.Stride(d.ColDist()),
	}
	local, err := matrix.NewDenseZeroOK(
		LocalLength(rows, m.rowShift, m.rowStride),
		LocalLength(cols, m.colShift, m.colStride),
	)
	if err != nil {
		return nil, err
	}
	m.local = local

	return m, nil
}

// Rows returns the global row count.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the global column count.
func (m *Dense) Cols() int { return m.cols }

// Grid returns the process grid.
func (m *Dense) Grid() *Grid { return m.grid }

// Dist returns the distribution.
func (m *Dense) Dist() Dist { return m.dist }

// Local returns the locally owned block (shared, not copied).
func (m *Dense) Local() *matrix.Dense { return m.local }

// RowShift returns the first owned global row.
func (m *Dense) RowShift() int { return m.rowShift }

// RowStride returns the distance between owned global rows.
func (m *Dense) RowStride() int { return m.rowStride }

// ColShift returns the first owned global column.
func (m *Dense) ColShift() int { return m.colShift }

// ColStride returns the distance between owned global columns.
func (m *Dense) ColStride() int { return m.colStride }

// GlobalRow maps a local row index to its global row.
func (m *Dense) GlobalRow(iLoc int) int { return m.rowShift + iLoc*m.rowStride }

// GlobalCol maps a local column index to its global column.
func (m *Dense) GlobalCol(jLoc int) int { return m.colShift + jLoc*m.colStride }

// GlobalRows returns the global index of every local row, in local order.
func (m *Dense) GlobalRows() []int {
	out := make([]int, m.local.Rows())
	for k := range out {
		out[k] = m.GlobalRow(k)
	}

	return out
}

// GlobalCols returns the global index of every local column, in local order.
func (m *Dense) GlobalCols() []int {
	out := make([]int, m.local.Cols())
	for k := range out {
		out[k] = m.GlobalCol(k)
	}

	return out
}

// FillFunc sets every owned entry (i,j) to f(i,j) with global indices.
func (m *Dense) FillFunc(f func(i, j int) float64) {
	lr, lc := m.local.Rows(), m.local.Cols()
	data := m.local.RawData()
	var iLoc, jLoc int
	for iLoc = 0; iLoc < lr; iLoc++ {
		gi := m.GlobalRow(iLoc)
		for jLoc = 0; jLoc < lc; jLoc++ {
			data[iLoc*lc+jLoc] = f(gi, m.GlobalCol(jLoc))
		}
	}
}

// SameGrid reports whether o lives on the same grid handle as m.
func (m *Dense) SameGrid(o *Dense) bool { return o != nil && m.grid == o.grid }

// Gather assembles the full global matrix on every process. Collective over
// the grid's world communicator.
//
// Errors:
//   - ErrCommunication from the underlying AllGather.
//   - ErrBadPayload if a peer's frame has the wrong size.
func (m *Dense) Gather() (*matrix.Dense, error) {
	out, err := matrix.NewDenseZeroOK(m.rows, m.cols)
	if err != nil {
		return nil, err
	}
	frames, err := m.grid.comm.AllGather(EncodeFloats(m.local.RawData()))
	if err != nil {
		return nil, fmt.Errorf("Dense.Gather: %w", err)
	}

	g, d := m.grid, m.dist
	rStride, cStride := g.Stride(d.RowDist()), g.Stride(d.ColDist())
	data := out.RawData()
	for rank, frame := range frames {
		rs, cs := g.shiftOf(d.RowDist(), rank), g.shiftOf(d.ColDist(), rank)
		lr, lc := LocalLength(m.rows, rs, rStride), LocalLength(m.cols, cs, cStride)
		vals, derr := DecodeFloats(frame)
		if derr != nil {
			return nil, fmt.Errorf("Dense.Gather: rank %d: %w", rank, derr)
		}
		if len(vals) != lr*lc {
			return nil, fmt.Errorf("Dense.Gather: rank %d sent %d values, want %d: %w",
				rank, len(vals), lr*lc, ErrBadPayload)
		}
		for iLoc := 0; iLoc < lr; iLoc++ {
			gi := rs + iLoc*rStride
			for jLoc := 0; jLoc < lc; jLoc++ {
				data[gi*m.cols+cs+jLoc*cStride] = vals[iLoc*lc+jLoc]
			}
		}
	}

	return out, nil
}

// Scatter fills the local block from a global matrix replicated on every
// process. Not collective.
//
// Errors:
//   - matrix.ErrDimensionMismatch if src is not Rows()×Cols().
func (m *Dense) Scatter(src *matrix.Dense) error {
	if err := matrix.ValidateShape(src, m.rows, m.cols); err != nil {
		return fmt.Errorf("Dense.Scatter: %w", err)
	}
	raw := src.RawData()
	m.FillFunc(func(i, j int) float64 { return raw[i*m.cols+j] })

	return nil
}
