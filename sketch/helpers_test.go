// SPDX-License-Identifier: MIT
package sketch_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvsketch/matrix"
)

// scenario returns the rows×cols matrix with A[i][j] = i*cols + j + 1.
func scenario(i, j, cols int) float64 { return float64(i*cols + j + 1) }

// MustDense builds a rows×cols Dense filled by f.
func MustDense(t *testing.T, rows, cols int, f func(i, j int) float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseZeroOK(rows, cols)
	require.NoError(t, err)
	raw := m.RawData()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			raw[i*cols+j] = f(i, j)
		}
	}
	return m
}

// MustZero allocates a zero rows×cols Dense.
func MustZero(t *testing.T, rows, cols int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseZeroOK(rows, cols)
	require.NoError(t, err)
	return m
}

// MustSparse builds a sparse matrix holding f(i,j) wherever keep(i,j).
func MustSparse(t *testing.T, rows, cols int, keep func(i, j int) bool, f func(i, j int) float64) *matrix.Sparse {
	t.Helper()
	var ts []matrix.Triplet
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if keep(i, j) {
				ts = append(ts, matrix.Triplet{Row: i, Col: j, Val: f(i, j)})
			}
		}
	}
	s, err := matrix.NewSparseFromTriplets(rows, cols, ts)
	require.NoError(t, err)
	return s
}

// product returns alpha·op(x)·op(y) computed by gonum/mat, as an oracle.
func product(t *testing.T, alpha float64, x *matrix.Dense, tx bool, y *matrix.Dense, ty bool) *matrix.Dense {
	t.Helper()
	var a, b mat.Matrix = x.Mat(), y.Mat()
	if tx {
		a = a.T()
	}
	if ty {
		b = b.T()
	}
	var out mat.Dense
	out.Mul(a, b)
	out.Scale(alpha, &out)
	res, err := matrix.FromMat(&out)
	require.NoError(t, err)
	return res
}

// requireClose asserts element-wise |got-want| <= tol·(1+|want|).
func requireClose(t *testing.T, want, got *matrix.Dense, tol float64) {
	t.Helper()
	ok, err := matrix.AllClose(got, want, tol, tol)
	require.NoError(t, err)
	require.True(t, ok, "matrices differ beyond %g\nwant:\n%v\ngot:\n%v", tol, want, got)
}
