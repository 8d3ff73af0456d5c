// SPDX-License-Identifier: MIT

// Package sketch - dense random projections (JLT, SignJLT, CT).
//
// Π is S×N with i.i.d. entries; entry (i,j) is context slot j*S+i of the
// transform's reservation, so any process can regenerate any column. The
// sketch is Scale·Π·A (columnwise) or Scale·A·Πᵗ (rowwise).
//
// Implementation:
//   - Stage 1: Π is realized once (sync.Once) and shared read-only.
//   - Stage 2: local dense products go through blas64.Gemm (matrix.MulInto);
//     distributed products multiply the needed columns of Π against the local
//     block and reduce (see linear.go).

package sketch

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/blas"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

// DenseData is the immutable state of a dense projection.
type DenseData struct {
	N, S  int
	Dist  Distribution
	Scale float64

	stream Stream
	once   sync.Once
	pi     *matrix.Dense
}

// NewDenseData reserves S·N slots for an S×N matrix drawn from d.
//
// Errors:
//   - ErrDimensionMismatch if n<=0 or s<=0.
func NewDenseData(ctx *Context, n, s int, d Distribution, scale float64) (*DenseData, error) {
	if n <= 0 || s <= 0 {
		return nil, fmt.Errorf("NewDenseData(N=%d, S=%d): %w", n, s, ErrDimensionMismatch)
	}

	return &DenseData{N: n, S: s, Dist: d, Scale: scale, stream: ctx.Reserve(s * n)}, nil
}

// Base returns the first context slot of the transform.
func (d *DenseData) Base() uint64 { return d.stream.Base() }

// Entry returns Π[i,j] without realizing the matrix.
func (d *DenseData) Entry(i, j int) float64 {
	return d.stream.Sample(j*d.S+i, d.Dist)
}

// Column writes Π[:,j] into dst (len S) and returns it; a nil dst is allocated.
func (d *DenseData) Column(j int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, d.S)
	}
	for i := range dst {
		dst[i] = d.Entry(i, j)
	}

	return dst
}

// Matrix returns the realized Π (unscaled). The result is shared: do not mutate.
func (d *DenseData) Matrix() *matrix.Dense {
	d.once.Do(func() {
		pi, _ := matrix.NewDense(d.S, d.N) // dimensions are positive by construction
		raw := pi.RawData()
		col := make([]float64, d.S)
		for j := 0; j < d.N; j++ {
			d.Column(j, col)
			for i, v := range col {
				raw[i*d.N+j] = v
			}
		}
		d.pi = pi
	})

	return d.pi
}

// columns returns Π[:, idx] as an S×len(idx) matrix.
func (d *DenseData) columns(idx []int) (*matrix.Dense, error) {
	pi := d.Matrix()
	if len(idx) == d.N {
		identity := true
		for k, j := range idx {
			if k != j {
				identity = false
				break
			}
		}
		if identity {
			return pi, nil
		}
	}
	sub, err := matrix.NewDenseZeroOK(d.S, len(idx))
	if err != nil {
		return nil, err
	}
	src, dst := pi.RawData(), sub.RawData()
	for i := 0; i < d.S; i++ {
		for k, j := range idx {
			dst[i*len(idx)+k] = src[i*d.N+j]
		}
	}

	return sub, nil
}

func (d *DenseData) accumulateColumnwise(idx []int, a, y *matrix.Dense) error {
	p, err := d.columns(idx)
	if err != nil {
		return err
	}

	return matrix.MulInto(y, blas.NoTrans, blas.NoTrans, d.Scale, p, a, 1)
}

func (d *DenseData) accumulateRowwise(idx []int, a, y *matrix.Dense) error {
	p, err := d.columns(idx)
	if err != nil {
		return err
	}

	return matrix.MulInto(y, blas.NoTrans, blas.Trans, d.Scale, a, p, 1)
}

func (d *DenseData) sparseColumnwise(a *matrix.Sparse, y *matrix.Dense) {
	pi := d.Matrix().RawData()
	raw, m := y.RawData(), y.Cols()
	a.Do(func(i, j int, v float64) {
		sv := d.Scale * v
		for k := 0; k < d.S; k++ {
			raw[k*m+j] += sv * pi[k*d.N+i]
		}
	})
}

func (d *DenseData) sparseRowwise(a *matrix.Sparse, y *matrix.Dense) {
	pi := d.Matrix().RawData()
	raw := y.RawData()
	a.Do(func(i, j int, v float64) {
		sv := d.Scale * v
		row := raw[i*d.S : (i+1)*d.S]
		for k := range row {
			row[k] += sv * pi[k*d.N+j]
		}
	})
}

// Dense is a dense random projection.
type Dense struct {
	base
	data *DenseData
}

var _ Transform = (*Dense)(nil)

// NewJLT returns a Johnson–Lindenstrauss transform: Gaussian entries, scale 1/√S.
func NewJLT(ctx *Context, n, s int, opts ...Option) (*Dense, error) {
	return newDense(JLT, ctx, n, s, Gaussian{}, 1/math.Sqrt(float64(s)), opts)
}

// NewSignJLT returns a sign projection: Rademacher entries, scale 1/√S.
func NewSignJLT(ctx *Context, n, s int, opts ...Option) (*Dense, error) {
	return newDense(SignJLT, ctx, n, s, Rademacher{}, 1/math.Sqrt(float64(s)), opts)
}

// NewCT returns a Cauchy transform with scale c/S.
//
// Errors:
//   - ErrInvalidParameter if c <= 0.
func NewCT(ctx *Context, n, s int, c float64, opts ...Option) (*Dense, error) {
	if !(c > 0) || math.IsInf(c, 0) {
		return nil, fmt.Errorf("CT(C=%g): %w", c, ErrInvalidParameter)
	}

	return newDense(CT, ctx, n, s, Cauchy{}, c/float64(s), opts)
}

func newDense(typ Type, ctx *Context, n, s int, d Distribution, scale float64, opts []Option) (*Dense, error) {
	o := applyOptions(opts)
	b, err := newBase(typ, n, s, o)
	if err != nil {
		return nil, err
	}
	data, err := NewDenseData(o.contextFor(ctx), n, s, d, scale)
	if err != nil {
		return nil, err
	}
	t := &Dense{base: b, data: data}

	p := projection{lin: data}
	p.registerLocal(t.r)
	p.registerDistDense(t.r, s, dist.Dists...)

	t.log.Debug("constructed", "type", typ, "N", n, "S", s, "dist", d, "scale", scale, "base", data.Base())

	return t, nil
}

// Data returns the transform state.
func (t *Dense) Data() *DenseData { return t.data }

// Scale returns DenseData.Scale.
func (t *Dense) Scale(matrix.Shape) float64 { return t.data.Scale }
