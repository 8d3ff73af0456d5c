// SPDX-License-Identifier: MIT

package sketch

import "fmt"

// Params selects and parameterizes a transform at runtime.
type Params struct {
	Type  Type
	N, S  int
	Sigma float64 // bandwidth of GaussianRFT / LaplacianRFT
	Beta  float64 // β of ExpSemigroupRLT
	C     float64 // scale numerator of CT; 0 means 1
}

// New constructs the transform described by p, consuming randomness from ctx.
//
// Errors:
//   - ErrDimensionMismatch, ErrInvalidParameter from the kind constructor.
func New(p Params, ctx *Context, opts ...Option) (Transform, error) {
	if ctx == nil {
		return nil, fmt.Errorf("New(%v): nil context: %w", p.Type, ErrInvalidParameter)
	}
	switch p.Type {
	case CWT:
		return wrap(NewCWT(ctx, p.N, p.S, opts...))
	case MMT:
		return wrap(NewMMT(ctx, p.N, p.S, opts...))
	case JLT:
		return wrap(NewJLT(ctx, p.N, p.S, opts...))
	case SignJLT:
		return wrap(NewSignJLT(ctx, p.N, p.S, opts...))
	case CT:
		c := p.C
		if c == 0 {
			c = 1
		}
		return wrap(NewCT(ctx, p.N, p.S, c, opts...))
	case GaussianRFT:
		return wrap(NewGaussianRFT(ctx, p.N, p.S, p.Sigma, opts...))
	case LaplacianRFT:
		return wrap(NewLaplacianRFT(ctx, p.N, p.S, p.Sigma, opts...))
	case ExpSemigroupRLT:
		return wrap(NewExpSemigroupRLT(ctx, p.N, p.S, p.Beta, opts...))
	case FJLT:
		return wrap(NewFJLT(ctx, p.N, p.S, opts...))
	default:
		return nil, fmt.Errorf("New(%v): %w", p.Type, ErrInvalidParameter)
	}
}

// wrap keeps a failed constructor from yielding a non-nil Transform that holds
// a nil pointer.
func wrap[T Transform](t T, err error) (Transform, error) {
	if err != nil {
		return nil, err
	}

	return t, nil
}
