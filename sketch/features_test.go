// SPDX-License-Identifier: MIT
package sketch_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsketch/matrix"
	"github.com/katalvlaran/lvsketch/sketch"
)

// mapFeatures applies post to every entry of z; k picks the sketch index.
func mapFeatures(t *testing.T, z *matrix.Dense, rowwise bool, post func(v float64, k int) float64) *matrix.Dense {
	t.Helper()
	out := MustZero(t, z.Rows(), z.Cols())
	for i := 0; i < z.Rows(); i++ {
		for j, v := range z.Row(i) {
			k := i
			if rowwise {
				k = j
			}
			out.Row(i)[j] = post(v, k)
		}
	}
	return out
}

func TestFeatures_LocalMatchesExplicit(t *testing.T) {
	t.Parallel()
	const n, m, s = 12, 5, 9
	a := MustDense(t, n, m, func(i, j int) float64 { return float64((i*m+j)%7) / 7 })
	aT := MustDense(t, m, n, func(i, j int) float64 { return float64((j*m+i)%7) / 7 })
	sp := MustSparse(t, n, m, func(i, j int) bool { return (i+2*j)%4 == 0 }, func(i, j int) float64 { return float64(i+j) / 10 })

	tests := []struct {
		name string
		mk   func(ctx *sketch.Context) (*sketch.Features, error)
	}{
		{"GaussianRFT", func(ctx *sketch.Context) (*sketch.Features, error) { return sketch.NewGaussianRFT(ctx, n, s, 1.5) }},
		{"LaplacianRFT", func(ctx *sketch.Context) (*sketch.Features, error) { return sketch.NewLaplacianRFT(ctx, n, s, 4) }},
		{"ExpSemigroupRLT", func(ctx *sketch.Context) (*sketch.Features, error) { return sketch.NewExpSemigroupRLT(ctx, n, s, 0.3) }},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f, err := tc.mk(sketch.NewContext(21))
			require.NoError(t, err)

			var pi *matrix.Dense
			var post func(v float64, k int) float64
			if rft := f.RFT(); rft != nil {
				require.Nil(t, f.RLT())
				pi = rft.Underlying.Matrix()
				post = func(v float64, k int) float64 { return rft.Scale * math.Cos(v/rft.Sigma+rft.Shifts[k]) }
			} else {
				rlt := f.RLT()
				pi = rlt.Underlying.Matrix()
				post = func(v float64, _ int) float64 { return rlt.Scale * math.Exp(-v*rlt.ValScale) }
			}

			sa := MustZero(t, s, m)
			require.NoError(t, f.Apply(a, sa, sketch.Columnwise))
			requireClose(t, mapFeatures(t, product(t, 1, pi, false, a, false), false, post), sa, 1e-8)

			saT := MustZero(t, m, s)
			require.NoError(t, f.Apply(aT, saT, sketch.Rowwise))
			requireClose(t, mapFeatures(t, product(t, 1, aT, false, pi, true), true, post), saT, 1e-8)

			// a second apply reuses the untouched projection
			require.NoError(t, f.Apply(sp, sa, sketch.Columnwise))
			requireClose(t, mapFeatures(t, product(t, 1, pi, false, sp.ToDense(), false), false, post), sa, 1e-8)
		})
	}
}

func TestFeatureData_Draws(t *testing.T) {
	t.Parallel()
	ctx := sketch.NewContext(8)
	rft, err := sketch.NewGaussianRFT(ctx, 5, 4, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(24), ctx.Counter(), "S·N projection slots then S shift slots")
	require.Len(t, rft.RFT().Shifts, 4)
	for _, v := range rft.RFT().Shifts {
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 2*math.Pi)
	}
	require.InDelta(t, math.Sqrt(0.5), rft.Scale(nil), 1e-15)
	require.Equal(t, 1.0, rft.RFT().Underlying.Scale)

	rlt, err := sketch.NewExpSemigroupRLT(ctx, 5, 4, 0.5)
	require.NoError(t, err)
	require.Equal(t, uint64(44), ctx.Counter())
	require.InDelta(t, 0.125, rlt.RLT().ValScale, 1e-15)
	require.InDelta(t, 0.5, rlt.Scale(nil), 1e-15)
	for _, v := range rlt.RLT().Underlying.Matrix().RawData() {
		require.Greater(t, v, 0.0, "Lévy draws are positive")
	}
}

func TestFeatures_InvalidAndUnsupported(t *testing.T) {
	t.Parallel()
	ctx := sketch.NewContext(1)
	for _, sigma := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := sketch.NewGaussianRFT(ctx, 4, 4, sigma)
		require.ErrorIs(t, err, sketch.ErrInvalidParameter, "σ=%g", sigma)
		_, err = sketch.NewExpSemigroupRLT(ctx, 4, 4, sigma)
		require.ErrorIs(t, err, sketch.ErrInvalidParameter, "β=%g", sigma)
	}
	_, err := sketch.NewLaplacianRFT(ctx, 0, 4, 1)
	require.ErrorIs(t, err, sketch.ErrDimensionMismatch)

	f, err := sketch.NewLaplacianRFT(ctx, 4, 4, 1)
	require.NoError(t, err)
	for _, dir := range []sketch.Direction{sketch.Columnwise, sketch.Rowwise} {
		require.False(t, f.Supports(sketch.DistDenseMCMR, sketch.DistDenseMCMR, dir))
		require.True(t, f.Supports(sketch.DistDenseStarVR, sketch.DistDenseStarVR, dir))
		require.False(t, f.Supports(sketch.LocalSparse, sketch.LocalSparse, dir), "features are never sparse")
	}

	out := MustZero(t, 3, 2)
	err = f.Apply(MustZero(t, 4, 2), out, sketch.Columnwise)
	require.ErrorIs(t, err, sketch.ErrDimensionMismatch)
}
