// SPDX-License-Identifier: MIT

// Package sketch - shared appliers of the linear transforms.
//
// Hash and dense transforms are both a linear map Π (S×N); random-feature
// transforms add a pointwise map on the emitted sketch. The appliers below are
// written once against linearMap and reused by every such kind.
//
// Distributed dense, columnwise (rowwise is the mirror image):
//   - Stage 1: Y = Π[:, I]·A_loc where I are the global rows held locally (S×m_loc).
//   - Stage 2: AllReduceSum(Y) over the processes holding the other pieces of the
//     same columns (grid.ReduceComm of the row distribution; none for STAR).
//   - Stage 3: keep the output rows owned here, applying the pointwise map with
//     the global sketch index.

package sketch

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

// linearMap accumulates Π-products into caller-provided outputs.
type linearMap interface {
	// accumulateColumnwise: y (S×a.Cols) += Π[:, idx]·a, with a len(idx)×m.
	accumulateColumnwise(idx []int, a, y *matrix.Dense) error
	// accumulateRowwise: y (a.Rows×S) += a·Π[:, idx]ᵗ, with a m×len(idx).
	accumulateRowwise(idx []int, a, y *matrix.Dense) error
	// sparseColumnwise: y (S×a.Cols) += Π·a.
	sparseColumnwise(a *matrix.Sparse, y *matrix.Dense)
	// sparseRowwise: y (a.Rows×S) += a·Πᵗ.
	sparseRowwise(a *matrix.Sparse, y *matrix.Dense)
}

// pointwise maps sketch entry v at global sketch index k; nil means identity.
type pointwise func(v float64, k int) float64

// projection binds a linear map to an optional pointwise map.
type projection struct {
	lin  linearMap
	post pointwise
}

func identityIndex(n int) []int {
	idx := make([]int, n)
	for k := range idx {
		idx[k] = k
	}

	return idx
}

// mapRows applies post to every row of y, row i carrying sketch index i.
func (p projection) mapRows(y *matrix.Dense) {
	if p.post == nil {
		return
	}
	for i := 0; i < y.Rows(); i++ {
		row := y.Row(i)
		for j := range row {
			row[j] = p.post(row[j], i)
		}
	}
}

// mapCols applies post to every column of y, column j carrying sketch index j.
func (p projection) mapCols(y *matrix.Dense) {
	if p.post == nil {
		return
	}
	for i := 0; i < y.Rows(); i++ {
		row := y.Row(i)
		for j := range row {
			row[j] = p.post(row[j], j)
		}
	}
}

func (p projection) localDenseColumnwise(a, sa matrix.Shape) error {
	A, SA := a.(*matrix.Dense), sa.(*matrix.Dense)
	SA.Zero()
	if err := p.lin.accumulateColumnwise(identityIndex(A.Rows()), A, SA); err != nil {
		return err
	}
	p.mapRows(SA)

	return nil
}

func (p projection) localDenseRowwise(a, sa matrix.Shape) error {
	A, SA := a.(*matrix.Dense), sa.(*matrix.Dense)
	SA.Zero()
	if err := p.lin.accumulateRowwise(identityIndex(A.Cols()), A, SA); err != nil {
		return err
	}
	p.mapCols(SA)

	return nil
}

func (p projection) localSparseColumnwise(a, sa matrix.Shape) error {
	SA := sa.(*matrix.Dense)
	SA.Zero()
	p.lin.sparseColumnwise(a.(*matrix.Sparse), SA)
	p.mapRows(SA)

	return nil
}

func (p projection) localSparseRowwise(a, sa matrix.Shape) error {
	SA := sa.(*matrix.Dense)
	SA.Zero()
	p.lin.sparseRowwise(a.(*matrix.Sparse), SA)
	p.mapCols(SA)

	return nil
}

// reduce sums buf over c; a nil communicator means nothing to reduce.
func reduce(c dist.Comm, buf []float64) error {
	if c == nil || c.Size() == 1 {
		return nil
	}
	if err := c.AllReduceSum(buf); err != nil {
		return commError("reduce", err)
	}

	return nil
}

// commError tags a collective failure with ErrCommunication, keeping the
// original message.
func commError(op string, err error) error {
	if errors.Is(err, ErrCommunication) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrCommunication, err)
}

func (p projection) distDenseColumnwise(s int) applyFunc {
	return func(a, sa matrix.Shape) error {
		A, SA := a.(*dist.Dense), sa.(*dist.Dense)
		if err := sameGrid(A, SA); err != nil {
			return err
		}
		aLoc := A.Local()
		y, err := matrix.NewDenseZeroOK(s, aLoc.Cols())
		if err != nil {
			return err
		}
		if err = p.lin.accumulateColumnwise(A.GlobalRows(), aLoc, y); err != nil {
			return err
		}
		if err = reduce(A.Grid().ReduceComm(A.Dist().RowDist()), y.RawData()); err != nil {
			return err
		}

		out := SA.Local()
		for iLoc := 0; iLoc < out.Rows(); iLoc++ {
			gi := SA.GlobalRow(iLoc)
			dst := out.Row(iLoc)
			copy(dst, y.Row(gi))
			if p.post != nil {
				for j := range dst {
					dst[j] = p.post(dst[j], gi)
				}
			}
		}

		return nil
	}
}

func (p projection) distDenseRowwise(s int) applyFunc {
	return func(a, sa matrix.Shape) error {
		A, SA := a.(*dist.Dense), sa.(*dist.Dense)
		if err := sameGrid(A, SA); err != nil {
			return err
		}
		aLoc := A.Local()
		y, err := matrix.NewDenseZeroOK(aLoc.Rows(), s)
		if err != nil {
			return err
		}
		if err = p.lin.accumulateRowwise(A.GlobalCols(), aLoc, y); err != nil {
			return err
		}
		if err = reduce(A.Grid().ReduceComm(A.Dist().ColDist()), y.RawData()); err != nil {
			return err
		}

		out := SA.Local()
		gcols := SA.GlobalCols()
		for iLoc := 0; iLoc < out.Rows(); iLoc++ {
			src, dst := y.Row(iLoc), out.Row(iLoc)
			for jLoc, gj := range gcols {
				v := src[gj]
				if p.post != nil {
					v = p.post(v, gj)
				}
				dst[jLoc] = v
			}
		}

		return nil
	}
}

// registerLocal wires the local dense and local sparse→dense routes.
func (p projection) registerLocal(r router) {
	r.handleBoth(LocalDense, LocalDense, p.localDenseColumnwise, p.localDenseRowwise)
	r.handleBoth(LocalSparse, LocalDense, p.localSparseColumnwise, p.localSparseRowwise)
}

// registerDistDense wires DistDense(d)→DistDense(d) for each d.
func (p projection) registerDistDense(r router, s int, dists ...dist.Dist) {
	col, row := p.distDenseColumnwise(s), p.distDenseRowwise(s)
	for _, d := range dists {
		l := DistDenseLayout(d)
		r.handleBoth(l, l, col, row)
	}
}
