// SPDX-License-Identifier: MIT

// Package sketch - fast Johnson–Lindenstrauss transform.
//
// Π = sqrt(N/S)·FUT.Scale · R·F·D where D is a random ±1 diagonal (N slots),
// F the fast transform and R samples S rows uniformly with replacement
// (S slots). The transformed axis must be fully local, so distributed inputs
// are supported only where that axis is STAR.

package sketch

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

// FJLTData is the immutable state of an FJLT.
type FJLTData struct {
	N, S    int
	Signs   []float64 // D, length N
	Samples []int     // R, length S, each in [0,N)
	FUT     FUT
}

// NewFJLTData draws the sign diagonal and then the row samples.
//
// Errors:
//   - ErrDimensionMismatch if n<=0 or s<=0; ErrInvalidParameter on an unknown kind.
func NewFJLTData(ctx *Context, n, s int, kind FUTKind) (*FJLTData, error) {
	if n <= 0 || s <= 0 {
		return nil, fmt.Errorf("NewFJLTData(N=%d, S=%d): %w", n, s, ErrDimensionMismatch)
	}
	fut, err := NewFUT(kind, n)
	if err != nil {
		return nil, err
	}
	d := &FJLTData{
		N:       n,
		S:       s,
		Signs:   ctx.Draw(n, Rademacher{}),
		Samples: make([]int, s),
		FUT:     fut,
	}
	st := ctx.Reserve(s)
	for k := range d.Samples {
		d.Samples[k] = st.Index(k, n)
	}

	return d, nil
}

// FJLTransform is a fast Johnson–Lindenstrauss transform.
type FJLTransform struct {
	base
	data  *FJLTData
	scale float64
}

var _ Transform = (*FJLTransform)(nil)

// NewFJLT returns an FJLT; WithFUT selects the fast transform (DCT by default).
func NewFJLT(ctx *Context, n, s int, opts ...Option) (*FJLTransform, error) {
	o := applyOptions(opts)
	b, err := newBase(FJLT, n, s, o)
	if err != nil {
		return nil, err
	}
	data, err := NewFJLTData(o.contextFor(ctx), n, s, o.fut)
	if err != nil {
		return nil, err
	}
	t := &FJLTransform{
		base:  b,
		data:  data,
		scale: math.Sqrt(float64(n)/float64(s)) * data.FUT.Scale(),
	}

	t.r.handleBoth(LocalDense, LocalDense, t.localColumnwise, t.localRowwise)
	for _, d := range []dist.Dist{dist.StarVC, dist.StarVR, dist.StarStar} {
		l := DistDenseLayout(d)
		t.r.handle(l, l, Columnwise, t.distApply(t.columnwise))
	}
	for _, d := range []dist.Dist{dist.VCStar, dist.VRStar, dist.StarStar} {
		l := DistDenseLayout(d)
		t.r.handle(l, l, Rowwise, t.distApply(t.rowwise))
	}

	t.log.Debug("constructed", "type", FJLT, "N", n, "S", s, "fut", o.fut, "scale", t.scale)

	return t, nil
}

// Data returns the transform state.
func (t *FJLTransform) Data() *FJLTData { return t.data }

// Scale returns sqrt(N/S)·FUT.Scale.
func (t *FJLTransform) Scale(matrix.Shape) float64 { return t.scale }

// columnwise writes the sketch of the columns of a (N×m) into sa (S×m).
func (t *FJLTransform) columnwise(a, sa *matrix.Dense) error {
	w := a.Clone().(*matrix.Dense)
	for i, sgn := range t.data.Signs {
		row := w.Row(i)
		for j := range row {
			row[j] *= sgn
		}
	}
	if err := t.data.FUT.Apply(w, Columnwise); err != nil {
		return err
	}
	for k, src := range t.data.Samples {
		dst, from := sa.Row(k), w.Row(src)
		for j := range dst {
			dst[j] = t.scale * from[j]
		}
	}

	return nil
}

// rowwise writes the sketch of the rows of a (m×N) into sa (m×S).
func (t *FJLTransform) rowwise(a, sa *matrix.Dense) error {
	w := a.Clone().(*matrix.Dense)
	for i := 0; i < w.Rows(); i++ {
		row := w.Row(i)
		for j, sgn := range t.data.Signs {
			row[j] *= sgn
		}
	}
	if err := t.data.FUT.Apply(w, Rowwise); err != nil {
		return err
	}
	for i := 0; i < w.Rows(); i++ {
		dst, from := sa.Row(i), w.Row(i)
		for k, src := range t.data.Samples {
			dst[k] = t.scale * from[src]
		}
	}

	return nil
}

func (t *FJLTransform) localColumnwise(a, sa matrix.Shape) error {
	return t.columnwise(a.(*matrix.Dense), sa.(*matrix.Dense))
}

func (t *FJLTransform) localRowwise(a, sa matrix.Shape) error {
	return t.rowwise(a.(*matrix.Dense), sa.(*matrix.Dense))
}

// distApply runs a local kernel on the local blocks; the routes registered
// for it keep the transformed axis whole on every process.
func (t *FJLTransform) distApply(local func(a, sa *matrix.Dense) error) applyFunc {
	return func(a, sa matrix.Shape) error {
		A, SA := a.(*dist.Dense), sa.(*dist.Dense)
		if err := sameGrid(A, SA); err != nil {
			return err
		}

		return local(A.Local(), SA.Local())
	}
}
