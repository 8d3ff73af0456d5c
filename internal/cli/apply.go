// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvsketch/config"
	"github.com/katalvlaran/lvsketch/matrix"
	"github.com/katalvlaran/lvsketch/sketch"
)

// applyOpts holds the command-line flags of the apply command.
type applyOpts struct {
	config  string // path to a .yaml/.yml/.toml run description
	input   string // CSV input, "-" for stdin
	output  string // CSV output, "-" for stdout
	rowwise bool   // sketch rows instead of columns
}

// applyCommand creates the apply command.
func (c *CLI) applyCommand() *cobra.Command {
	opts := applyOpts{input: "-", output: "-"}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Sketch a CSV matrix with a configured transform",
		Long: `Apply reads a dense matrix from CSV, builds the transform described by the
config file and writes the sketch as CSV.

Columnwise (default) the input must have N rows and the sketch has S rows;
with --rowwise the input must have N columns and the sketch has S columns.`,
		Example: `  lvsketch apply -c cwt.yaml -i a.csv -o sa.csv
  cat a.csv | lvsketch apply -c rft.toml --rowwise`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runApply(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "run description (.yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", opts.input, "input CSV, - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output CSV, - for stdout")
	cmd.Flags().BoolVar(&opts.rowwise, "rowwise", false, "sketch rows instead of columns")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (c *CLI) runApply(cmd *cobra.Command, opts applyOpts) error {
	prog := newProgress(c.Logger)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	t, err := c.newTransform(cfg)
	if err != nil {
		return err
	}

	a, err := readInput(cmd, opts.input)
	if err != nil {
		return err
	}
	dir := sketch.Columnwise
	rows, cols := t.S(), a.Cols()
	if opts.rowwise {
		dir = sketch.Rowwise
		rows, cols = a.Rows(), t.S()
	}
	sa, err := matrix.NewDenseZeroOK(rows, cols)
	if err != nil {
		return err
	}
	if err = t.Apply(a, sa, dir); err != nil {
		return fmt.Errorf("apply %v: %w", t.Type(), err)
	}
	if err = cmd.Context().Err(); err != nil {
		return fmt.Errorf("apply interrupted: %w", err)
	}

	if err = writeOutput(cmd, opts.output, sa); err != nil {
		return err
	}
	prog.done("sketched", "type", t.Type(), "dir", dir, "in", fmt.Sprintf("%dx%d", a.Rows(), a.Cols()),
		"out", fmt.Sprintf("%dx%d", sa.Rows(), sa.Cols()))

	return nil
}

// newTransform builds the configured transform, logging through the CLI logger.
func (c *CLI) newTransform(cfg *config.Config) (sketch.Transform, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, sketch.WithLogger(c.Logger))

	return sketch.New(p, cfg.Context(), opts...)
}

func readInput(cmd *cobra.Command, path string) (*matrix.Dense, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	m, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

func writeOutput(cmd *cobra.Command, path string, m *matrix.Dense) error {
	if path == "-" {
		return writeCSV(cmd.OutOrStdout(), m)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = writeCSV(f, m); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
