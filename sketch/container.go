// SPDX-License-Identifier: MIT

package sketch

import (
	"fmt"

	"github.com/katalvlaran/lvsketch/matrix"
)

// Container holds one transform for a fixed (input, output) layout pair, so
// callers can pick the transform kind at runtime and apply it uniformly.
// The wrapped transform is owned by the container and not exposed.
type Container struct {
	t       Transform
	in, out Layout
}

// NewContainer wraps t for operands of layouts in → out.
//
// Errors:
//   - ErrUnsupportedLayout if t supports the pair in neither direction.
func NewContainer(t Transform, in, out Layout) (*Container, error) {
	if t == nil {
		return nil, fmt.Errorf("NewContainer: nil transform: %w", ErrInvalidParameter)
	}
	if !t.Supports(in, out, Columnwise) && !t.Supports(in, out, Rowwise) {
		return nil, fmt.Errorf("NewContainer(%v): %v -> %v: %w", t.Type(), in, out, ErrUnsupportedLayout)
	}

	return &Container{t: t, in: in, out: out}, nil
}

// Apply checks that a and sa have the declared layouts and applies the
// wrapped transform.
func (c *Container) Apply(a, sa matrix.Shape, dir Direction) error {
	if err := c.check(a, c.in); err != nil {
		return fmt.Errorf("Container.Apply: input: %w", err)
	}
	if err := c.check(sa, c.out); err != nil {
		return fmt.Errorf("Container.Apply: output: %w", err)
	}

	return c.t.Apply(a, sa, dir)
}

func (c *Container) check(m matrix.Shape, want Layout) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return err
	}
	got, err := LayoutOf(m)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("have %v, declared %v: %w", got, want, ErrUnsupportedLayout)
	}

	return nil
}

// Scale returns the wrapped transform's normalization for a.
func (c *Container) Scale(a matrix.Shape) float64 { return c.t.Scale(a) }

// Type returns the wrapped transform's kind.
func (c *Container) Type() Type { return c.t.Type() }

// N returns the input dimension.
func (c *Container) N() int { return c.t.N() }

// S returns the output dimension.
func (c *Container) S() int { return c.t.S() }

// Layouts returns the declared (input, output) layouts.
func (c *Container) Layouts() (in, out Layout) { return c.in, c.out }
