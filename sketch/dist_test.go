// SPDX-License-Identifier: MIT
package sketch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/dist/distmock"
	"github.com/katalvlaran/lvsketch/matrix"
	"github.com/katalvlaran/lvsketch/sketch"
)

var testGrids = []struct{ rows, cols int }{{1, 1}, {2, 2}, {2, 3}, {3, 1}}

var testParams = []sketch.Params{
	{Type: sketch.CWT},
	{Type: sketch.MMT},
	{Type: sketch.JLT},
	{Type: sketch.SignJLT},
	{Type: sketch.CT, C: 2},
	{Type: sketch.GaussianRFT, Sigma: 3},
	{Type: sketch.LaplacianRFT, Sigma: 3},
	{Type: sketch.ExpSemigroupRLT, Beta: 0.5},
	{Type: sketch.FJLT},
}

// nonneg is a small non-negative test matrix (the RLT kernel needs x >= 0).
func nonneg(i, j int) float64 { return 1 + float64((7*i+3*j)%11)/4 }

// sketchShape returns the output shape for an input of rows×cols.
func sketchShape(rows, cols, s int, dir sketch.Direction) (int, int) {
	if dir == sketch.Columnwise {
		return s, cols
	}
	return rows, s
}

// applyDistributed sketches a distributed copy of a on an r×c grid and
// returns the gathered result of every rank.
func applyDistributed(r, c int, p sketch.Params, seed uint64, d dist.Dist, dir sketch.Direction, a *matrix.Dense) ([]*matrix.Dense, error) {
	out := make([]*matrix.Dense, r*c)
	err := dist.RunGrid(r, c, func(g *dist.Grid) error {
		tr, err := sketch.New(p, sketch.NewContext(seed))
		if err != nil {
			return err
		}
		A, err := dist.NewDense(g, d, a.Rows(), a.Cols())
		if err != nil {
			return err
		}
		if err = A.Scatter(a); err != nil {
			return err
		}
		sr, sc := sketchShape(a.Rows(), a.Cols(), p.S, dir)
		SA, err := dist.NewDense(g, d, sr, sc)
		if err != nil {
			return err
		}
		if err = tr.Apply(A, SA, dir); err != nil {
			return err
		}
		full, err := SA.Gather()
		if err != nil {
			return err
		}
		out[g.Rank()] = full
		return nil
	})

	return out, err
}

func applyLocal(t *testing.T, p sketch.Params, seed uint64, dir sketch.Direction, a *matrix.Dense) *matrix.Dense {
	t.Helper()
	tr, err := sketch.New(p, sketch.NewContext(seed))
	require.NoError(t, err)
	sr, sc := sketchShape(a.Rows(), a.Cols(), p.S, dir)
	sa := MustZero(t, sr, sc)
	require.NoError(t, tr.Apply(a, sa, dir))
	return sa
}

// TestDistributedDense_MatchesLocal: every supported distributed layout yields
// the local sketch, on every grid shape, in both directions.
func TestDistributedDense_MatchesLocal(t *testing.T) {
	t.Parallel()
	const n, s, m, seed = 13, 7, 5, 21
	for _, base := range testParams {
		for _, dir := range []sketch.Direction{sketch.Columnwise, sketch.Rowwise} {
			p := base
			p.N, p.S = n, s
			dir := dir
			t.Run(fmt.Sprintf("%v/%v", p.Type, dir), func(t *testing.T) {
				t.Parallel()
				rows, cols := n, m
				if dir == sketch.Rowwise {
					rows, cols = m, n
				}
				a := MustDense(t, rows, cols, nonneg)
				want := applyLocal(t, p, seed, dir, a)

				probe, err := sketch.New(p, sketch.NewContext(seed))
				require.NoError(t, err)
				for _, d := range dist.Dists {
					l := sketch.DistDenseLayout(d)
					supported := probe.Supports(l, l, dir)
					for _, gs := range testGrids {
						got, err := applyDistributed(gs.rows, gs.cols, p, seed, d, dir, a)
						if !supported {
							require.ErrorIs(t, err, sketch.ErrUnsupportedLayout, "%v on %dx%d", d, gs.rows, gs.cols)
							continue
						}
						require.NoError(t, err, "%v on %dx%d", d, gs.rows, gs.cols)
						for rank, g := range got {
							require.Equal(t, got[0].RawData(), g.RawData(), "rank %d disagrees", rank)
						}
						ok, err := matrix.AllClose(got[0], want, 1e-9, 1e-9)
						require.NoError(t, err)
						require.True(t, ok, "%v on %dx%d\nwant:\n%v\ngot:\n%v", d, gs.rows, gs.cols, want, got[0])
					}
				}
			})
		}
	}
}

func TestSupportTable(t *testing.T) {
	t.Parallel()
	ctx := sketch.NewContext(0)
	layouts := []sketch.Layout{sketch.LocalDense}
	for _, d := range dist.Dists {
		layouts = append(layouts, sketch.DistDenseLayout(d))
	}
	tests := []struct {
		p       sketch.Params
		missing map[sketch.Direction][]sketch.Layout
	}{
		{sketch.Params{Type: sketch.CWT}, nil},
		{sketch.Params{Type: sketch.JLT}, nil},
		{sketch.Params{Type: sketch.GaussianRFT, Sigma: 1}, map[sketch.Direction][]sketch.Layout{
			sketch.Columnwise: {sketch.DistDenseMCMR},
			sketch.Rowwise:    {sketch.DistDenseMCMR},
		}},
		{sketch.Params{Type: sketch.FJLT}, map[sketch.Direction][]sketch.Layout{
			sketch.Columnwise: {sketch.DistDenseMCMR, sketch.DistDenseVCStar, sketch.DistDenseVRStar},
			sketch.Rowwise:    {sketch.DistDenseMCMR, sketch.DistDenseStarVC, sketch.DistDenseStarVR},
		}},
	}
	for _, tc := range tests {
		p := tc.p
		p.N, p.S = 8, 4
		tr, err := sketch.New(p, ctx)
		require.NoError(t, err)
		for _, dir := range []sketch.Direction{sketch.Columnwise, sketch.Rowwise} {
			for _, l := range layouts {
				want := !containsLayout(tc.missing[dir], l)
				require.Equal(t, want, tr.Supports(l, l, dir), "%v %v %v", p.Type, l, dir)
			}
		}
	}

	cwt, err := sketch.NewCWT(ctx, 8, 4)
	require.NoError(t, err)
	require.True(t, cwt.Supports(sketch.DistSparse, sketch.DistSparse, sketch.Rowwise))
	require.True(t, cwt.Supports(sketch.DistSparse, sketch.LocalSparse, sketch.Columnwise))
	require.False(t, cwt.Supports(sketch.DistSparse, sketch.LocalDense, sketch.Columnwise))
	jlt, err := sketch.NewJLT(ctx, 8, 4)
	require.NoError(t, err)
	require.False(t, jlt.Supports(sketch.LocalSparse, sketch.LocalSparse, sketch.Columnwise))
	require.False(t, jlt.Supports(sketch.LocalDense, sketch.DistDenseStarStar, sketch.Columnwise))
}

func containsLayout(ls []sketch.Layout, l sketch.Layout) bool {
	for _, x := range ls {
		if x == l {
			return true
		}
	}
	return false
}

// TestDistributedSparseHash: both distributed sparse routes reproduce the local
// sparse sketch. Integer data and ±1 values keep every sum exact.
func TestDistributedSparseHash(t *testing.T) {
	t.Parallel()
	const n, s, m, seed = 40, 9, 11, 5
	for _, dir := range []sketch.Direction{sketch.Columnwise, sketch.Rowwise} {
		for _, gs := range testGrids {
			dir, gs := dir, gs
			t.Run(fmt.Sprintf("%v/%dx%d", dir, gs.rows, gs.cols), func(t *testing.T) {
				t.Parallel()
				rows, cols := n, m
				if dir == sketch.Rowwise {
					rows, cols = m, n
				}
				a := MustSparse(t, rows, cols,
					func(i, j int) bool { return (i*5+j*3)%4 == 0 },
					func(i, j int) float64 { return float64(i - 2*j) })
				sr, sc := sketchShape(rows, cols, s, dir)

				local, err := sketch.NewCWT(sketch.NewContext(seed), n, s)
				require.NoError(t, err)
				want, err := matrix.NewSparse(sr, sc)
				require.NoError(t, err)
				require.NoError(t, local.Apply(a, want, dir))

				toDist := make([]*matrix.Sparse, gs.rows*gs.cols)
				toLocal := make([]*matrix.Sparse, gs.rows*gs.cols)
				err = dist.RunGrid(gs.rows, gs.cols, func(g *dist.Grid) error {
					h, err := sketch.NewCWT(sketch.NewContext(seed), n, s)
					if err != nil {
						return err
					}
					A, err := dist.NewSparseFromGlobal(g, a)
					if err != nil {
						return err
					}
					SA, err := dist.NewSparse(g, sr, sc)
					if err != nil {
						return err
					}
					if err = h.Apply(A, SA, dir); err != nil {
						return err
					}
					if toDist[g.Rank()], err = SA.Gather(); err != nil {
						return err
					}
					full, err := matrix.NewSparse(sr, sc)
					if err != nil {
						return err
					}
					if err = h.Apply(A, full, dir); err != nil {
						return err
					}
					toLocal[g.Rank()] = full
					return nil
				})
				require.NoError(t, err)
				for rank := range toDist {
					require.True(t, want.Equal(toDist[rank]), "DistSparse rank %d", rank)
					require.True(t, want.Equal(toLocal[rank]), "LocalSparse rank %d", rank)
				}
			})
		}
	}
}

// TestTransformData_GridIndependent: every process of every grid shape draws
// the same transform data from the same seed.
func TestTransformData_GridIndependent(t *testing.T) {
	t.Parallel()
	ref, err := sketch.NewCWT(sketch.NewContext(8), 30, 6)
	require.NoError(t, err)
	refJLT, err := sketch.NewJLT(sketch.NewContext(8), 30, 6)
	require.NoError(t, err)
	for _, gs := range testGrids {
		idx := make([][]int, gs.rows*gs.cols)
		pis := make([][]float64, gs.rows*gs.cols)
		err := dist.RunGrid(gs.rows, gs.cols, func(g *dist.Grid) error {
			h, err := sketch.NewCWT(sketch.NewContext(8), 30, 6)
			if err != nil {
				return err
			}
			j, err := sketch.NewJLT(sketch.NewContext(8), 30, 6)
			if err != nil {
				return err
			}
			idx[g.Rank()] = h.Data().RowIdx
			pis[g.Rank()] = j.Data().Matrix().RawData()
			return nil
		})
		require.NoError(t, err)
		for rank := range idx {
			require.Equal(t, ref.Data().RowIdx, idx[rank])
			require.Equal(t, refJLT.Data().Matrix().RawData(), pis[rank])
		}
	}
}

func TestDistributed_GridMismatch(t *testing.T) {
	t.Parallel()
	err := dist.Run(2, func(c dist.Comm) error {
		g1, err := dist.NewGrid(c, 1, 2)
		if err != nil {
			return err
		}
		g2, err := dist.NewGrid(c, 2, 1)
		if err != nil {
			return err
		}
		h, err := sketch.NewCWT(sketch.NewContext(0), 6, 3)
		if err != nil {
			return err
		}
		A, err := dist.NewDense(g1, dist.VCStar, 6, 2)
		if err != nil {
			return err
		}
		SA, err := dist.NewDense(g2, dist.VCStar, 3, 2)
		if err != nil {
			return err
		}
		return h.Apply(A, SA, sketch.Columnwise)
	})
	require.ErrorIs(t, err, dist.ErrGridMismatch)
	require.Equal(t, sketch.KindUnsupportedLayout, sketch.KindOf(err))
}

// TestDistributed_CommunicationFailure: a failing reduction surfaces as
// ErrCommunication carrying the transport's message.
func TestDistributed_CommunicationFailure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	c := distmock.NewMockComm(ctrl)
	c.EXPECT().Size().Return(2).AnyTimes()
	c.EXPECT().Rank().Return(0).AnyTimes()
	c.EXPECT().Split(gomock.Any(), gomock.Any()).Return(c, nil).Times(2)
	c.EXPECT().AllReduceSum(gomock.Any()).Return(errors.New("link down"))

	g, err := dist.NewGrid(c, 1, 2)
	require.NoError(t, err)
	h, err := sketch.NewJLT(sketch.NewContext(0), 6, 3)
	require.NoError(t, err)
	A, err := dist.NewDense(g, dist.VCStar, 6, 2)
	require.NoError(t, err)
	SA, err := dist.NewDense(g, dist.VCStar, 3, 2)
	require.NoError(t, err)

	err = h.Apply(A, SA, sketch.Columnwise)
	require.ErrorIs(t, err, sketch.ErrCommunication)
	require.ErrorContains(t, err, "link down")
	require.Equal(t, sketch.KindCommunication, sketch.KindOf(err))
}

// TestDistributed_PeerFailureReleasesCollective: a rank failing before the
// reduction must not leave its peers blocked.
func TestDistributed_PeerFailureReleasesCollective(t *testing.T) {
	t.Parallel()
	boom := errors.New("rank 1 gave up")
	err := dist.RunGrid(1, 2, func(g *dist.Grid) error {
		if g.Rank() == 1 {
			return boom
		}
		h, err := sketch.NewJLT(sketch.NewContext(0), 6, 3)
		if err != nil {
			return err
		}
		A, err := dist.NewDense(g, dist.VCStar, 6, 2)
		if err != nil {
			return err
		}
		SA, err := dist.NewDense(g, dist.VCStar, 3, 2)
		if err != nil {
			return err
		}
		err = h.Apply(A, SA, sketch.Columnwise)
		if !errors.Is(err, sketch.ErrCommunication) {
			return fmt.Errorf("want communication error, got %v", err)
		}
		return err
	})
	require.ErrorIs(t, err, boom)
}
