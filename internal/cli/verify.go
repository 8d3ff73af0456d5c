// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvsketch/config"
	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
	"github.com/katalvlaran/lvsketch/sketch"
)

var errMismatch = errors.New("distributed sketch differs from local sketch")

// verifyOpts holds the command-line flags of the verify command.
type verifyOpts struct {
	config   string
	cols     int     // M, the length of the untransformed axis
	dataSeed uint64  // seed of the generated input
	tol      float64 // largest accepted element-wise difference
	rowwise  bool
}

// layoutResult is the outcome of one distributed run.
type layoutResult struct {
	layout  sketch.Layout
	maxDiff float64
}

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	opts := verifyOpts{cols: 8, dataSeed: 1, tol: 1e-9}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check distributed sketches against the local sketch",
		Long: `Verify generates a random non-negative input, sketches it locally and then on
an in-process grid of the configured shape, once per distributed layout the
transform supports. Every distributed result must match the local one within
--tol.`,
		Example: `  lvsketch verify -c cwt.yaml
  lvsketch verify -c rlt.toml --rowwise --cols 32`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runVerify(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "run description (.yaml, .yml or .toml)")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "length of the untransformed axis")
	cmd.Flags().Uint64Var(&opts.dataSeed, "data-seed", opts.dataSeed, "seed of the generated input")
	cmd.Flags().Float64Var(&opts.tol, "tol", opts.tol, "largest accepted element-wise difference")
	cmd.Flags().BoolVar(&opts.rowwise, "rowwise", false, "sketch rows instead of columns")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (c *CLI) runVerify(ctx context.Context, w io.Writer, opts verifyOpts) error {
	if opts.cols <= 0 {
		return fmt.Errorf("--cols %d: must be positive", opts.cols)
	}
	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	t, err := c.newTransform(cfg)
	if err != nil {
		return err
	}

	dir := sketch.Columnwise
	rows, cols := t.N(), opts.cols
	if opts.rowwise {
		dir = sketch.Rowwise
		rows, cols = opts.cols, t.N()
	}
	a, err := randomInput(opts.dataSeed, rows, cols)
	if err != nil {
		return err
	}
	want, err := sketchShaped(t, a, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v N=%d S=%d %v on %dx%d grid, mean norm ratio %.4f\n",
		t.Type(), t.N(), t.S(), dir, cfg.Grid.Rows, cfg.Grid.Cols, meanNormRatio(a, want, dir))

	var results []layoutResult
	for _, d := range dist.Dists {
		l := sketch.DistDenseLayout(d)
		if !t.Supports(l, l, dir) {
			c.Logger.Debug("skipping unsupported layout", "layout", l, "dir", dir)
			continue
		}
		if err = ctx.Err(); err != nil {
			return fmt.Errorf("verify interrupted: %w", err)
		}
		prog := newProgress(c.Logger)
		got, derr := distributedDense(cfg, d, dir, a)
		if derr != nil {
			return fmt.Errorf("%v: %w", l, derr)
		}
		results = append(results, layoutResult{layout: l, maxDiff: maxDiff(got, want)})
		prog.done("verified", "layout", l)
	}
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("verify interrupted: %w", err)
	}
	if t.Supports(sketch.DistSparse, sketch.DistSparse, dir) {
		res, serr := verifySparse(cfg, t, dir, a)
		if serr != nil {
			return serr
		}
		results = append(results, res...)
	}

	failed := 0
	for _, r := range results {
		status := "ok"
		if !(r.maxDiff <= opts.tol) {
			status = "MISMATCH"
			failed++
		}
		fmt.Fprintf(w, "  %-22s max|Δ| = %-10.3g %s\n", r.layout, r.maxDiff, status)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d layouts: %w", failed, len(results), errMismatch)
	}

	return nil
}

// randomInput draws a rows×cols matrix uniform on [0,1).
func randomInput(seed uint64, rows, cols int) (*matrix.Dense, error) {
	vals := sketch.NewContext(seed).Draw(rows*cols, sketch.Uniform{Min: 0, Max: 1})
	return matrix.NewDenseFrom(rows, cols, vals)
}

// sketchShaped allocates the output for a and applies t.
func sketchShaped(t sketch.Transform, a *matrix.Dense, dir sketch.Direction) (*matrix.Dense, error) {
	rows, cols := t.S(), a.Cols()
	if dir == sketch.Rowwise {
		rows, cols = a.Rows(), t.S()
	}
	sa, err := matrix.NewDenseZeroOK(rows, cols)
	if err != nil {
		return nil, err
	}
	if err = t.Apply(a, sa, dir); err != nil {
		return nil, err
	}

	return sa, nil
}

// distributedDense sketches a distributed as d on the configured grid and
// returns every rank's gathered result.
func distributedDense(cfg *config.Config, d dist.Dist, dir sketch.Direction, a *matrix.Dense) ([]*matrix.Dense, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	out := make([]*matrix.Dense, cfg.Grid.Rows*cfg.Grid.Cols)
	err = dist.RunGrid(cfg.Grid.Rows, cfg.Grid.Cols, func(g *dist.Grid) error {
		t, err := sketch.New(p, cfg.Context(), opts...)
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
		rows, cols := t.S(), a.Cols()
		if dir == sketch.Rowwise {
			rows, cols = a.Rows(), t.S()
		}
		SA, err := dist.NewDense(g, d, rows, cols)
		if err != nil {
			return err
		}
		if err = t.Apply(A, SA, dir); err != nil {
			return err
		}
		out[g.Rank()], err = SA.Gather()
		return err
	})

	return out, err
}

// verifySparse sparsifies a (entries above ½) and checks both distributed
// sparse routes against the local sparse sketch.
func verifySparse(cfg *config.Config, t sketch.Transform, dir sketch.Direction, a *matrix.Dense) ([]layoutResult, error) {
	var ts []matrix.Triplet
	for i := 0; i < a.Rows(); i++ {
		for j, v := range a.Row(i) {
			if v > 0.5 {
				ts = append(ts, matrix.Triplet{Row: i, Col: j, Val: v})
			}
		}
	}
	sp, err := matrix.NewSparseFromTriplets(a.Rows(), a.Cols(), ts)
	if err != nil {
		return nil, err
	}
	rows, cols := t.S(), a.Cols()
	if dir == sketch.Rowwise {
		rows, cols = a.Rows(), t.S()
	}
	want, err := matrix.NewSparse(rows, cols)
	if err != nil {
		return nil, err
	}
	if err = t.Apply(sp, want, dir); err != nil {
		return nil, err
	}

	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	size := cfg.Grid.Rows * cfg.Grid.Cols
	toDist, toLocal := make([]*matrix.Dense, size), make([]*matrix.Dense, size)
	err = dist.RunGrid(cfg.Grid.Rows, cfg.Grid.Cols, func(g *dist.Grid) error {
		tr, err := sketch.New(p, cfg.Context())
		if err != nil {
			return err
		}
		A, err := dist.NewSparseFromGlobal(g, sp)
		if err != nil {
			return err
		}
		SA, err := dist.NewSparse(g, rows, cols)
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
		toDist[g.Rank()] = full.ToDense()

		loc, err := matrix.NewSparse(rows, cols)
		if err != nil {
			return err
		}
		if err = tr.Apply(A, loc, dir); err != nil {
			return err
		}
		toLocal[g.Rank()] = loc.ToDense()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", sketch.DistSparse, err)
	}

	ref := want.ToDense()
	return []layoutResult{
		{layout: sketch.DistSparse, maxDiff: maxDiff(toDist, ref)},
		{layout: sketch.LocalSparse, maxDiff: maxDiff(toLocal, ref)},
	}, nil
}

// maxDiff returns the largest element-wise difference between any rank's
// result and want.
func maxDiff(got []*matrix.Dense, want *matrix.Dense) float64 {
	worst := 0.0
	for _, g := range got {
		if g == nil {
			return math.Inf(1)
		}
		worst = math.Max(worst, floats.Distance(g.RawData(), want.RawData(), math.Inf(1)))
	}

	return worst
}

// meanNormRatio averages ‖sketch‖/‖input‖ over the untransformed axis.
func meanNormRatio(a, sa *matrix.Dense, dir sketch.Direction) float64 {
	var ratios []float64
	if dir == sketch.Rowwise {
		for i := 0; i < a.Rows(); i++ {
			if n := floats.Norm(a.Row(i), 2); n > 0 {
				ratios = append(ratios, floats.Norm(sa.Row(i), 2)/n)
			}
		}
		return stat.Mean(ratios, nil)
	}

	aCol, saCol := make([]float64, a.Rows()), make([]float64, sa.Rows())
	for j := 0; j < a.Cols(); j++ {
		for i := range aCol {
			aCol[i] = a.Row(i)[j]
		}
		for i := range saCol {
			saCol[i] = sa.Row(i)[j]
		}
		if n := floats.Norm(aCol, 2); n > 0 {
			ratios = append(ratios, floats.Norm(saCol, 2)/n)
		}
	}

	return stat.Mean(ratios, nil)
}
