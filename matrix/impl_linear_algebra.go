// SPDX-License-Identifier: MIT
// Package matrix provides the small set of dense kernels the sketch layer and
// its tests need: matrix product (BLAS-backed), transpose, scaling and
// tolerance comparison. All functions perform strict fail-fast validation and
// return clear errors on dimension mismatches.
//
// Notes:
//   - Products delegate to gonum blas64 on the shared row-major buffers; the
//     row-major Dense layout is exactly blas64.General, so no copies are made.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul       = "Mul"
	opMulInto   = "MulInto"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opAllClose  = "AllClose"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns the product a×b as a new Dense.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: allocate the (a.Rows × b.Cols) result.
//   - Stage 3: blas64.Gemm on the shared buffers.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with opMul).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDenseZeroOK(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err = MulInto(res, blas.NoTrans, blas.NoTrans, 1, a, b, 0); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	return res, nil
}

// MulInto computes dst = alpha·op(a)·op(b) + beta·dst in place, where op is the
// identity or the transpose as selected by ta/tb.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(m*k*n).
func MulInto(dst *Dense, ta, tb blas.Transpose, alpha float64, a, b *Dense, beta float64) error {
	for _, m := range []*Dense{dst, a, b} {
		if m == nil {
			return matrixErrorf(opMulInto, ErrNilMatrix)
		}
	}
	m, k := a.r, a.c
	if ta != blas.NoTrans {
		m, k = k, m
	}
	kb, n := b.r, b.c
	if tb != blas.NoTrans {
		kb, n = n, kb
	}
	if k != kb || dst.r != m || dst.c != n {
		return matrixErrorf(opMulInto, fmt.Errorf("op(a) %dx%d, op(b) %dx%d, dst %dx%d: %w",
			m, k, kb, n, dst.r, dst.c, ErrDimensionMismatch))
	}
	if m == 0 || n == 0 {
		return nil
	}
	if k == 0 {
		// empty inner dimension: only the beta term survives
		scaleSlice(dst.data, beta)
		return nil
	}
	blas64.Gemm(ta, tb, alpha, a.Raw(), b.Raw(), beta, dst.Raw())

	return nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Complexity: O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}
	res, err := NewDenseZeroOK(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// Scale multiplies every element of m by alpha in place.
//
// Errors:
//   - ErrNilMatrix; ErrNaNInf if alpha is not finite.
func Scale(m *Dense, alpha float64) error {
	if m == nil {
		return matrixErrorf(opScale, ErrNilMatrix)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return matrixErrorf(opScale, ErrNaNInf)
	}
	scaleSlice(m.data, alpha)

	return nil
}

func scaleSlice(x []float64, alpha float64) {
	for idx := range x {
		x[idx] *= alpha
	}
}

// AllClose reports whether |a(i,j) - b(i,j)| ≤ atol + rtol·|b(i,j)| for every element.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; NaN/Inf tolerances are rejected.
//
// Complexity: O(r*c), Space O(1).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	// Dense fast-path: operate over flat slices when both are *Dense.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range da.data {
				if math.Abs(da.data[idx]-db.data[idx]) > atol+rtol*math.Abs(db.data[idx]) {
					return false, nil
				}
			}
			return true, nil
		}
	}

	// Generic fallback via At (bounds-safe; still deterministic).
	var av, bv float64
	r, c := a.Rows(), a.Cols()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			av, _ = a.At(i, j)
			bv, _ = b.At(i, j)
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				return false, nil
			}
		}
	}

	return true, nil
}
