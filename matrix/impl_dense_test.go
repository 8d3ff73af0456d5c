// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvsketch/matrix"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)                      // zero rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions

	_, err = matrix.NewDense(5, -1)                      // negative columns
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions
}

// TestNewDenseZeroOK verifies that empty shapes are legal and negative ones are not.
func TestNewDenseZeroOK(t *testing.T) {
	m, err := matrix.NewDenseZeroOK(0, 3) // a process owning no rows
	require.NoError(t, err)
	require.Equal(t, 0, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Empty(t, m.RawData())
	require.Nil(t, m.Mat())            // gonum cannot represent 0×c
	require.Equal(t, 3, m.Raw().Stride) // blas view keeps a usable stride

	e, err := matrix.NewDenseZeroOK(2, 0)
	require.NoError(t, err)
	require.Equal(t, 1, e.Raw().Stride)

	_, err = matrix.NewDenseZeroOK(-1, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestRowsCols verifies that Rows(), Cols(), Shape() and Stride() agree.
func TestRowsCols(t *testing.T) {
	m := MustDense(t, 3, 4) // 3x4 zero matrix
	require.Equal(t, 3, m.Rows())
	require.Equal(t, 4, m.Cols())
	r, c := m.Shape()
	require.Equal(t, [2]int{3, 4}, [2]int{r, c})
	require.Equal(t, 4, m.Stride())
}

// TestNewDenseFrom checks row-major placement, copying and input validation.
func TestNewDenseFrom(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6}
	m, err := matrix.NewDenseFrom(2, 3, vals)
	require.NoError(t, err)
	v, err := m.At(1, 0) // row-major: offset 1*3+0
	require.NoError(t, err)
	require.Equal(t, 4.0, v)

	vals[0] = 100 // source is copied
	v, _ = m.At(0, 0)
	require.Equal(t, 1.0, v)

	_, err = matrix.NewDenseFrom(2, 3, vals[:5])
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
	require.ErrorContains(t, err, "Dense.From(0,1)")

	_, err = matrix.NewDenseFrom(0, 2, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m := MustDense(t, 2, 2) // 2x2 Dense matrix

	cases := []struct {
		name     string
		row, col int
	}{
		{"negative row", -1, 0},
		{"column past end", 0, 2},
		{"row past end", 2, 0},
		{"negative column", 0, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.At(tc.row, tc.col)
			require.ErrorIs(t, err, matrix.ErrOutOfRange)
			require.ErrorIs(t, m.Set(tc.row, tc.col, 1.23), matrix.ErrOutOfRange)
		})
	}
}

// TestSetGet validates Set() followed by At() and the finite-only policy of Set.
func TestSetGet(t *testing.T) {
	m := MustDense(t, 2, 3)

	require.NoError(t, m.Set(1, 2, 7.89)) // set element at row 1, column 2
	val, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 7.89, val)

	require.ErrorIs(t, m.Set(0, 0, math.Inf(-1)), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	val, _ = m.At(0, 0)
	require.Zero(t, val) // rejected writes leave the element untouched
}

// TestCloneIndependence checks that a clone owns its buffer.
func TestCloneIndependence(t *testing.T) {
	m := MustFrom(t, 2, 2, 1, 2, 3, 4)
	c, ok := m.Clone().(*matrix.Dense)
	require.True(t, ok)
	require.Equal(t, m.RawData(), c.RawData())

	require.NoError(t, c.Set(0, 0, -1))
	v, _ := m.At(0, 0)
	require.Equal(t, 1.0, v) // original unaffected
}

// TestViewsShareStorage checks that Row, RawData, Raw and Mat alias the buffer.
func TestViewsShareStorage(t *testing.T) {
	m := MustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)

	m.Row(1)[2] = 60
	v, _ := m.At(1, 2)
	require.Equal(t, 60.0, v)

	m.Raw().Data[0] = 10
	m.Mat().Set(0, 1, 20)
	require.Equal(t, []float64{10, 20, 3, 4, 5, 60}, m.RawData())

	m.Zero()
	require.Equal(t, make([]float64, 6), m.RawData())
}

// TestFromMat copies a gonum matrix, including a transposed view.
func TestFromMat(t *testing.T) {
	g := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	m, err := matrix.FromMat(g.T())
	require.NoError(t, err)
	require.Equal(t, 3, m.Rows())
	require.Equal(t, []float64{1, 4, 2, 5, 3, 6}, m.RawData())

	g.Set(0, 0, 9) // no aliasing
	require.Equal(t, 1.0, m.RawData()[0])
}

// TestStringOutput verifies the diagnostic dump.
func TestStringOutput(t *testing.T) {
	m := MustFrom(t, 2, 2, 1, 2.5, -3, 0)
	require.Equal(t, "[1, 2.5]\n[-3, 0]\n", m.String())
}
