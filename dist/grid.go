// SPDX-License-Identifier: MIT

// Package dist - 2-D process grid.
//
// Ranks are laid out column-major over an R×C grid: rank = row + col*R.
// A Grid also owns the two sub-communicators used by reductions:
//   - RowComm: the C processes sharing this grid row (ordered by column).
//   - ColComm: the R processes sharing this grid column (ordered by row).

package dist

import (
	"fmt"
	"math"
)

// Grid is one process's handle on an R×C process grid.
type Grid struct {
	comm       Comm
	rows, cols int
	row, col   int
	rowComm    Comm
	colComm    Comm
}

// NewGrid arranges the members of c into a rows×cols grid. It is collective:
// every member of c must call it with the same shape.
//
// Errors:
//   - ErrBadGrid if rows*cols != c.Size() or a dimension is not positive.
//   - ErrCommunication if the sub-communicator split fails.
func NewGrid(c Comm, rows, cols int) (*Grid, error) {
	if c == nil {
		return nil, fmt.Errorf("NewGrid: nil communicator: %w", ErrBadGrid)
	}
	if rows <= 0 || cols <= 0 || rows*cols != c.Size() {
		return nil, fmt.Errorf("NewGrid(%dx%d) over %d processes: %w", rows, cols, c.Size(), ErrBadGrid)
	}
	g := &Grid{
		comm: c,
		rows: rows,
		cols: cols,
		row:  c.Rank() % rows,
		col:  c.Rank() / rows,
	}

	var err error
	if g.rowComm, err = c.Split(g.row, g.col); err != nil {
		return nil, fmt.Errorf("NewGrid: row communicator: %w", err)
	}
	if g.colComm, err = c.Split(g.col, g.row); err != nil {
		return nil, fmt.Errorf("NewGrid: column communicator: %w", err)
	}

	return g, nil
}

// NewGridAuto picks the most square R×C factorization of c.Size() with R <= C.
func NewGridAuto(c Comm) (*Grid, error) {
	if c == nil {
		return nil, fmt.Errorf("NewGridAuto: nil communicator: %w", ErrBadGrid)
	}
	p := c.Size()
	r := int(math.Sqrt(float64(p)))
	for r > 1 && p%r != 0 {
		r--
	}
	if r < 1 {
		r = 1
	}

	return NewGrid(c, r, p/r)
}

// Comm returns the world communicator of the grid.
func (g *Grid) Comm() Comm { return g.comm }

// Rows returns R, the number of grid rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns C, the number of grid columns.
func (g *Grid) Cols() int { return g.cols }

// Size returns R*C.
func (g *Grid) Size() int { return g.rows * g.cols }

// Row returns this process's grid row.
func (g *Grid) Row() int { return g.row }

// Col returns this process's grid column.
func (g *Grid) Col() int { return g.col }

// Rank returns this process's rank in the world communicator.
func (g *Grid) Rank() int { return g.comm.Rank() }

// VCRank returns the column-major rank (== Rank()).
func (g *Grid) VCRank() int { return g.row + g.col*g.rows }

// VRRank returns the row-major rank.
func (g *Grid) VRRank() int { return g.row*g.cols + g.col }

// RowComm returns the communicator over this grid row.
func (g *Grid) RowComm() Comm { return g.rowComm }

// ColComm returns the communicator over this grid column.
func (g *Grid) ColComm() Comm { return g.colComm }

// Shift returns the first global index of axis distribution a owned here.
func (g *Grid) Shift(a AxisDist) int { return g.shiftOf(a, g.comm.Rank()) }

// Stride returns the distance between consecutive owned indices under a.
func (g *Grid) Stride(a AxisDist) int {
	switch a {
	case MC:
		return g.rows
	case MR:
		return g.cols
	case VC, VR:
		return g.Size()
	default:
		return 1
	}
}

// shiftOf returns the shift of world rank `rank` under a.
func (g *Grid) shiftOf(a AxisDist, rank int) int {
	row, col := rank%g.rows, rank/g.rows
	switch a {
	case MC:
		return row
	case MR:
		return col
	case VC:
		return rank
	case VR:
		return row*g.cols + col
	default:
		return 0
	}
}

// ReduceComm returns the communicator over which partial products must be
// summed when the contracted axis is distributed as a, or nil when a is Star.
//   - MC (rows split over grid rows)    → ColComm.
//   - MR (cols split over grid columns) → RowComm.
//   - VC/VR (split over all processes)   → the world.
func (g *Grid) ReduceComm(a AxisDist) Comm {
	switch a {
	case MC:
		return g.colComm
	case MR:
		return g.rowComm
	case VC, VR:
		return g.comm
	default:
		return nil
	}
}
