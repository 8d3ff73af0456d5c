// SPDX-License-Identifier: MIT

// Package sketch - kernel random-feature transforms.
//
// Both families project with a dense Π (scale 1) and then map every emitted
// sketch entry z at sketch index k:
//   - RFT: Scale·cos(z/σ + Shifts[k]), Scale = sqrt(2/S).
//     GaussianRFT draws Π Gaussian (kernel exp(-‖x-y‖²/(2σ²))),
//     LaplacianRFT draws Π Cauchy (kernel exp(-‖x-y‖₁/σ)).
//   - RLT: Scale·exp(-z·β²/2), Scale = sqrt(1/S), Π Lévy(1)
//     (kernel exp(-β·Σ sqrt(xᵢ+yᵢ)) on non-negative data).
//
// Distributed support is limited to the V- and STAR-distributions; [MC,MR]
// has no specialization.

package sketch

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

// featureDists are the distributed dense layouts the feature maps support.
var featureDists = []dist.Dist{dist.VCStar, dist.VRStar, dist.StarVC, dist.StarVR, dist.StarStar}

// RFTData is the immutable state of a random Fourier feature transform.
type RFTData struct {
	Underlying *DenseData
	Shifts     []float64 // S phases, uniform on [0,2π)
	Sigma      float64
	Scale      float64
}

// NewRFTData draws the projection (S·N slots) and then the shifts (S slots).
//
// Errors:
//   - ErrDimensionMismatch if n<=0 or s<=0; ErrInvalidParameter if sigma<=0.
func NewRFTData(ctx *Context, n, s int, d Distribution, sigma float64) (*RFTData, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("NewRFTData(σ=%g): %w", sigma, ErrInvalidParameter)
	}
	under, err := NewDenseData(ctx, n, s, d, 1)
	if err != nil {
		return nil, err
	}

	return &RFTData{
		Underlying: under,
		Shifts:     ctx.Draw(s, Uniform{Min: 0, Max: 2 * math.Pi}),
		Sigma:      sigma,
		Scale:      math.Sqrt(2 / float64(s)),
	}, nil
}

func (d *RFTData) feature(z float64, k int) float64 {
	return d.Scale * math.Cos(z/d.Sigma+d.Shifts[k])
}

// RLTData is the immutable state of a random Laplace feature transform.
type RLTData struct {
	Underlying *DenseData
	Beta       float64
	ValScale   float64 // β²/2
	Scale      float64
}

// NewRLTData draws a Lévy(1) projection (S·N slots).
//
// Errors:
//   - ErrDimensionMismatch if n<=0 or s<=0; ErrInvalidParameter if beta<=0.
func NewRLTData(ctx *Context, n, s int, beta float64) (*RLTData, error) {
	if !(beta > 0) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("NewRLTData(β=%g): %w", beta, ErrInvalidParameter)
	}
	under, err := NewDenseData(ctx, n, s, Levy{C: 1}, 1)
	if err != nil {
		return nil, err
	}

	return &RLTData{
		Underlying: under,
		Beta:       beta,
		ValScale:   beta * beta / 2,
		Scale:      math.Sqrt(1 / float64(s)),
	}, nil
}

func (d *RLTData) feature(z float64, _ int) float64 {
	return d.Scale * math.Exp(-z*d.ValScale)
}

// Features is a random-feature transform (RFT or RLT).
type Features struct {
	base
	rft   *RFTData
	rlt   *RLTData
	scale float64
}

var _ Transform = (*Features)(nil)

// NewGaussianRFT returns random Fourier features for the Gaussian kernel of
// bandwidth sigma.
func NewGaussianRFT(ctx *Context, n, s int, sigma float64, opts ...Option) (*Features, error) {
	return newRFT(GaussianRFT, ctx, n, s, Gaussian{}, sigma, opts)
}

// NewLaplacianRFT returns random Fourier features for the Laplacian kernel of
// bandwidth sigma.
func NewLaplacianRFT(ctx *Context, n, s int, sigma float64, opts ...Option) (*Features, error) {
	return newRFT(LaplacianRFT, ctx, n, s, Cauchy{}, sigma, opts)
}

func newRFT(typ Type, ctx *Context, n, s int, d Distribution, sigma float64, opts []Option) (*Features, error) {
	o := applyOptions(opts)
	b, err := newBase(typ, n, s, o)
	if err != nil {
		return nil, err
	}
	data, err := NewRFTData(o.contextFor(ctx), n, s, d, sigma)
	if err != nil {
		return nil, err
	}
	f := &Features{base: b, rft: data, scale: data.Scale}
	f.register(projection{lin: data.Underlying, post: data.feature})
	f.log.Debug("constructed", "type", typ, "N", n, "S", s, "sigma", sigma, "base", data.Underlying.Base())

	return f, nil
}

// NewExpSemigroupRLT returns random Laplace features for the exponential
// semigroup kernel exp(-β·Σ sqrt(xᵢ+yᵢ)).
func NewExpSemigroupRLT(ctx *Context, n, s int, beta float64, opts ...Option) (*Features, error) {
	o := applyOptions(opts)
	b, err := newBase(ExpSemigroupRLT, n, s, o)
	if err != nil {
		return nil, err
	}
	data, err := NewRLTData(o.contextFor(ctx), n, s, beta)
	if err != nil {
		return nil, err
	}
	f := &Features{base: b, rlt: data, scale: data.Scale}
	f.register(projection{lin: data.Underlying, post: data.feature})
	f.log.Debug("constructed", "type", ExpSemigroupRLT, "N", n, "S", s, "beta", beta, "base", data.Underlying.Base())

	return f, nil
}

func (f *Features) register(p projection) {
	p.registerLocal(f.r)
	p.registerDistDense(f.r, f.s, featureDists...)
}

// RFT returns the Fourier feature state, or nil for an RLT.
func (f *Features) RFT() *RFTData { return f.rft }

// RLT returns the Laplace feature state, or nil for an RFT.
func (f *Features) RLT() *RLTData { return f.rlt }

// Scale returns the feature scale (sqrt(2/S) or sqrt(1/S)).
func (f *Features) Scale(matrix.Shape) float64 { return f.scale }
