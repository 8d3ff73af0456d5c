// SPDX-License-Identifier: MIT

// Package sketch - signed-hash transforms (CWT, MMT).
//
// Π is S×N with exactly one nonzero per column: Π[RowIdx[i], i] = RowValue[i].
// Applying Π is a scatter-accumulate; no dense Π is ever built.
//
// Complexity quicksheet:
//   - Construction O(N); dense apply O(N*M); sparse apply O(nnz).

package sketch

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

// HashData is the immutable state of a signed-hash transform.
type HashData struct {
	N, S     int
	RowIdx   []int     // bucket of input index i, in [0,S)
	RowValue []float64 // signed value of input index i
	Base     uint64    // first context slot (transform identity)
}

// NewHashData draws bucket indices and values for every input index.
// Slots [0,N) of the reservation give RowIdx and slots [N,2N) give RowValue.
//
// Errors:
//   - ErrDimensionMismatch if n<=0 or s<=0.
func NewHashData(ctx *Context, n, s int, values Distribution) (*HashData, error) {
	if n <= 0 || s <= 0 {
		return nil, fmt.Errorf("NewHashData(N=%d, S=%d): %w", n, s, ErrDimensionMismatch)
	}
	st := ctx.Reserve(2 * n)
	d := &HashData{
		N:        n,
		S:        s,
		RowIdx:   make([]int, n),
		RowValue: make([]float64, n),
		Base:     st.Base(),
	}
	for i := 0; i < n; i++ {
		d.RowIdx[i] = st.Index(i, s)
		d.RowValue[i] = st.Sample(n+i, values)
	}

	return d, nil
}

// Matrix materializes Π as an S×N dense matrix. Intended for verification.
func (d *HashData) Matrix() *matrix.Dense {
	p, _ := matrix.NewDense(d.S, d.N) // dimensions are positive by construction
	raw := p.RawData()
	for i, k := range d.RowIdx {
		raw[k*d.N+i] = d.RowValue[i]
	}

	return p
}

func (d *HashData) accumulateColumnwise(idx []int, a, y *matrix.Dense) error {
	for iLoc, gi := range idx {
		floats.AddScaled(y.Row(d.RowIdx[gi]), d.RowValue[gi], a.Row(iLoc))
	}

	return nil
}

func (d *HashData) accumulateRowwise(idx []int, a, y *matrix.Dense) error {
	var i int
	for i = 0; i < a.Rows(); i++ {
		src, dst := a.Row(i), y.Row(i)
		for jLoc, gj := range idx {
			dst[d.RowIdx[gj]] += d.RowValue[gj] * src[jLoc]
		}
	}

	return nil
}

func (d *HashData) sparseColumnwise(a *matrix.Sparse, y *matrix.Dense) {
	raw, m := y.RawData(), y.Cols()
	a.Do(func(i, j int, v float64) {
		raw[d.RowIdx[i]*m+j] += d.RowValue[i] * v
	})
}

func (d *HashData) sparseRowwise(a *matrix.Sparse, y *matrix.Dense) {
	raw, s := y.RawData(), y.Cols()
	a.Do(func(i, j int, v float64) {
		raw[i*s+d.RowIdx[j]] += d.RowValue[j] * v
	})
}

// target returns where global entry (i,j) of the input lands in the sketch and
// the value it contributes.
func (d *HashData) target(i, j int, v float64, dir Direction) (row, col int, val float64) {
	if dir == Columnwise {
		return d.RowIdx[i], j, d.RowValue[i] * v
	}

	return i, d.RowIdx[j], d.RowValue[j] * v
}

// Hash is a signed-hash sketching transform.
type Hash struct {
	base
	data *HashData
}

var _ Transform = (*Hash)(nil)

// NewCWT returns a Clarkson–Woodruff transform (Rademacher values).
func NewCWT(ctx *Context, n, s int, opts ...Option) (*Hash, error) {
	return newHash(CWT, ctx, n, s, Rademacher{}, opts)
}

// NewMMT returns a Meng–Mahoney transform (Cauchy values).
func NewMMT(ctx *Context, n, s int, opts ...Option) (*Hash, error) {
	return newHash(MMT, ctx, n, s, Cauchy{}, opts)
}

func newHash(typ Type, ctx *Context, n, s int, values Distribution, opts []Option) (*Hash, error) {
	o := applyOptions(opts)
	b, err := newBase(typ, n, s, o)
	if err != nil {
		return nil, err
	}
	data, err := NewHashData(o.contextFor(ctx), n, s, values)
	if err != nil {
		return nil, err
	}
	h := &Hash{base: b, data: data}

	p := projection{lin: data}
	p.registerLocal(h.r)
	p.registerDistDense(h.r, s, dist.Dists...)
	h.r.handleBoth(LocalSparse, LocalSparse, h.localSparseToSparse(Columnwise), h.localSparseToSparse(Rowwise))
	h.r.handleBoth(DistSparse, DistSparse, h.distSparseToDistSparse(Columnwise), h.distSparseToDistSparse(Rowwise))
	h.r.handleBoth(DistSparse, LocalSparse, h.distSparseToLocalSparse(Columnwise), h.distSparseToLocalSparse(Rowwise))

	h.log.Debug("constructed", "type", typ, "N", n, "S", s, "values", values, "base", data.Base)

	return h, nil
}

// Data returns the transform state.
func (h *Hash) Data() *HashData { return h.data }

// Scale is 1: the values are folded into Π.
func (h *Hash) Scale(matrix.Shape) float64 { return 1 }
