// SPDX-License-Identifier: MIT
package sketch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsketch/matrix"
	"github.com/katalvlaran/lvsketch/sketch"
)

// TestCWT_ColumnwiseScenario: N=200, M=100, S=120, seed 0; the sketch must
// equal the explicit Π·A built from RowIdx/RowValue.
func TestCWT_ColumnwiseScenario(t *testing.T) {
	t.Parallel()
	const n, m, s = 200, 100, 120
	a := MustDense(t, n, m, func(i, j int) float64 { return scenario(i, j, m) })

	cwt, err := sketch.NewCWT(sketch.NewContext(0), n, s)
	require.NoError(t, err)
	sa := MustZero(t, s, m)
	require.NoError(t, cwt.Apply(a, sa, sketch.Columnwise))

	want := product(t, 1, cwt.Data().Matrix(), false, a, false)
	require.Equal(t, want.RawData(), sa.RawData())
	require.Equal(t, 1.0, cwt.Scale(a))
}

// TestCWT_RowwiseScenario: the same A sketched along its 100 columns to 60.
func TestCWT_RowwiseScenario(t *testing.T) {
	t.Parallel()
	const rows, n, s = 200, 100, 60
	a := MustDense(t, rows, n, func(i, j int) float64 { return scenario(i, j, n) })

	cwt, err := sketch.NewCWT(sketch.NewContext(0), n, s)
	require.NoError(t, err)
	sa := MustZero(t, rows, s)
	require.NoError(t, cwt.Apply(a, sa, sketch.Rowwise))

	want := product(t, 1, a, false, cwt.Data().Matrix(), true)
	require.Equal(t, want.RawData(), sa.RawData())
}

func TestHashData_Invariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		mk   func(ctx *sketch.Context) (*sketch.Hash, error)
		sign bool
	}{
		{"CWT", func(ctx *sketch.Context) (*sketch.Hash, error) { return sketch.NewCWT(ctx, 500, 37) }, true},
		{"MMT", func(ctx *sketch.Context) (*sketch.Hash, error) { return sketch.NewMMT(ctx, 500, 37) }, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, err := tc.mk(sketch.NewContext(7))
			require.NoError(t, err)
			d := h.Data()
			require.Len(t, d.RowIdx, 500)
			require.Len(t, d.RowValue, 500)
			seen := map[int]bool{}
			for i := range d.RowIdx {
				require.GreaterOrEqual(t, d.RowIdx[i], 0)
				require.Less(t, d.RowIdx[i], 37)
				seen[d.RowIdx[i]] = true
				if tc.sign {
					require.Contains(t, []float64{-1, 1}, d.RowValue[i])
				}
			}
			require.Greater(t, len(seen), 30, "buckets should be well spread")
		})
	}
}

func TestHash_SparseInputs(t *testing.T) {
	t.Parallel()
	const n, m, s = 60, 25, 17
	keep := func(i, j int) bool { return (3*i+j)%7 == 0 }
	a := MustSparse(t, n, m, keep, func(i, j int) float64 { return scenario(i, j, m) })
	aT := MustSparse(t, m, n, func(i, j int) bool { return keep(j, i) }, func(i, j int) float64 { return scenario(j, i, m) })

	h, err := sketch.NewMMT(sketch.NewContext(3), n, s)
	require.NoError(t, err)
	pi := h.Data().Matrix()

	t.Run("sparse to dense columnwise", func(t *testing.T) {
		sa := MustZero(t, s, m)
		require.NoError(t, h.Apply(a, sa, sketch.Columnwise))
		requireClose(t, product(t, 1, pi, false, a.ToDense(), false), sa, 1e-9)
	})
	t.Run("sparse to dense rowwise", func(t *testing.T) {
		sa := MustZero(t, m, s)
		require.NoError(t, h.Apply(aT, sa, sketch.Rowwise))
		requireClose(t, product(t, 1, aT.ToDense(), false, pi, true), sa, 1e-9)
	})
	t.Run("sparse to sparse columnwise", func(t *testing.T) {
		sa, err := matrix.NewSparse(s, m)
		require.NoError(t, err)
		require.NoError(t, h.Apply(a, sa, sketch.Columnwise))
		requireClose(t, product(t, 1, pi, false, a.ToDense(), false), sa.ToDense(), 1e-9)
	})
	t.Run("sparse to sparse rowwise", func(t *testing.T) {
		sa, err := matrix.NewSparse(m, s)
		require.NoError(t, err)
		require.NoError(t, h.Apply(aT, sa, sketch.Rowwise))
		requireClose(t, product(t, 1, aT.ToDense(), false, pi, true), sa.ToDense(), 1e-9)
	})
}

// TestHash_ApplyOverwrites checks that a reused output carries no stale values.
func TestHash_ApplyOverwrites(t *testing.T) {
	t.Parallel()
	h, err := sketch.NewCWT(sketch.NewContext(1), 10, 4)
	require.NoError(t, err)
	a := MustDense(t, 10, 3, func(i, j int) float64 { return float64(i - j) })
	sa := MustDense(t, 4, 3, func(i, j int) float64 { return 99 })
	require.NoError(t, h.Apply(a, sa, sketch.Columnwise))
	first := append([]float64(nil), sa.RawData()...)
	require.NoError(t, h.Apply(a, sa, sketch.Columnwise))
	require.Equal(t, first, sa.RawData())
	requireClose(t, product(t, 1, h.Data().Matrix(), false, a, false), sa, 0)
}

func TestApply_RejectsAliasedOperands(t *testing.T) {
	t.Parallel()
	ctx := sketch.NewContext(3)
	cwt, err := sketch.NewCWT(ctx, 4, 4)
	require.NoError(t, err)
	jlt, err := sketch.NewJLT(ctx, 4, 4)
	require.NoError(t, err)

	a := MustDense(t, 4, 4, func(i, j int) float64 { return float64(i*4 + j + 1) })
	orig := append([]float64(nil), a.RawData()...)
	for _, tr := range []sketch.Transform{cwt, jlt} {
		for _, dir := range []sketch.Direction{sketch.Columnwise, sketch.Rowwise} {
			err = tr.Apply(a, a, dir)
			require.ErrorIs(t, err, sketch.ErrInvalidParameter, "%v %v", tr.Type(), dir)
			require.Equal(t, sketch.KindInvalidParameter, sketch.KindOf(err))
			require.Equal(t, orig, a.RawData(), "input left intact")
		}
	}

	sp := MustSparse(t, 4, 4, func(i, j int) bool { return i == j }, func(i, _ int) float64 { return float64(i + 1) })
	require.ErrorIs(t, cwt.Apply(sp, sp, sketch.Columnwise), sketch.ErrInvalidParameter)
	require.Equal(t, 4, sp.NNZ())

	c, ok := a.Clone().(*matrix.Dense)
	require.True(t, ok)
	require.NoError(t, cwt.Apply(a, c, sketch.Columnwise), "a distinct buffer is fine")
}

func TestHash_SparseDropsCancelledEntries(t *testing.T) {
	t.Parallel()
	h, err := sketch.NewCWT(sketch.NewContext(4), 2, 1) // S=1: both inputs share bucket 0
	require.NoError(t, err)
	r := h.Data().RowValue
	a := MustSparse(t, 2, 1, func(int, int) bool { return true }, func(i, _ int) float64 {
		if i == 0 {
			return r[0]
		}
		return -r[1]
	}) // r0·r0 - r1·r1 = 0

	sa, err := matrix.NewSparse(1, 1)
	require.NoError(t, err)
	require.NoError(t, h.Apply(a, sa, sketch.Columnwise))
	require.Zero(t, sa.NNZ())
}

func TestDimensionMismatch(t *testing.T) {
	t.Parallel()
	ctx := sketch.NewContext(0)

	_, err := sketch.NewCWT(ctx, 0, 5)
	require.ErrorIs(t, err, sketch.ErrDimensionMismatch)
	_, err = sketch.NewJLT(ctx, 5, 0)
	require.ErrorIs(t, err, sketch.ErrDimensionMismatch)
	_, err = sketch.NewFJLT(ctx, -1, 3)
	require.ErrorIs(t, err, sketch.ErrDimensionMismatch)

	h, err := sketch.NewCWT(ctx, 8, 3)
	require.NoError(t, err)
	tests := []struct {
		name  string
		a, sa *matrix.Dense
		dir   sketch.Direction
	}{
		{"columnwise input rows", MustZero(t, 7, 2), MustZero(t, 3, 2), sketch.Columnwise},
		{"columnwise output rows", MustZero(t, 8, 2), MustZero(t, 4, 2), sketch.Columnwise},
		{"columnwise output cols", MustZero(t, 8, 2), MustZero(t, 3, 3), sketch.Columnwise},
		{"rowwise input cols", MustZero(t, 2, 9), MustZero(t, 2, 3), sketch.Rowwise},
		{"rowwise output cols", MustZero(t, 2, 8), MustZero(t, 2, 2), sketch.Rowwise},
		{"rowwise output rows", MustZero(t, 2, 8), MustZero(t, 1, 3), sketch.Rowwise},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			before := append([]float64(nil), tc.sa.RawData()...)
			err := h.Apply(tc.a, tc.sa, tc.dir)
			require.ErrorIs(t, err, sketch.ErrDimensionMismatch)
			require.Equal(t, sketch.KindDimensionMismatch, sketch.KindOf(err))
			require.Equal(t, before, tc.sa.RawData(), "output must be untouched")
		})
	}

	err = h.Apply(nil, MustZero(t, 3, 2), sketch.Columnwise)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
