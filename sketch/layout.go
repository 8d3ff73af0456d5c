// SPDX-License-Identifier: MIT

package sketch

import (
	"fmt"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

// Direction selects the axis a transform acts on.
type Direction int

const (
	// Columnwise maps each N-long column to an S-long column: SA = Π·A.
	Columnwise Direction = iota
	// Rowwise maps each N-long row to an S-long row: SA = A·Πᵗ.
	Rowwise
)

func (d Direction) String() string {
	switch d {
	case Columnwise:
		return "columnwise"
	case Rowwise:
		return "rowwise"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Layout tags the storage kind of a matrix operand.
type Layout int

// Known layouts. The distributed dense tags follow dist.Dists.
const (
	LocalDense Layout = iota
	LocalSparse
	DistDenseMCMR
	DistDenseVCStar
	DistDenseVRStar
	DistDenseStarVC
	DistDenseStarVR
	DistDenseStarStar
	DistSparse
)

var layoutNames = [...]string{
	LocalDense:        "LocalDense",
	LocalSparse:       "LocalSparse",
	DistDenseMCMR:     "DistDense[MC,MR]",
	DistDenseVCStar:   "DistDense[VC,STAR]",
	DistDenseVRStar:   "DistDense[VR,STAR]",
	DistDenseStarVC:   "DistDense[STAR,VC]",
	DistDenseStarVR:   "DistDense[STAR,VR]",
	DistDenseStarStar: "DistDense[STAR,STAR]",
	DistSparse:        "DistSparse",
}

func (l Layout) String() string {
	if l < 0 || int(l) >= len(layoutNames) {
		return fmt.Sprintf("Layout(%d)", int(l))
	}

	return layoutNames[l]
}

// distDenseLayouts maps every dist.Dist to its layout tag.
var distDenseLayouts = map[dist.Dist]Layout{
	dist.MCMR:     DistDenseMCMR,
	dist.VCStar:   DistDenseVCStar,
	dist.VRStar:   DistDenseVRStar,
	dist.StarVC:   DistDenseStarVC,
	dist.StarVR:   DistDenseStarVR,
	dist.StarStar: DistDenseStarStar,
}

// DistDenseLayout returns the layout tag of a distributed dense matrix with
// distribution d.
func DistDenseLayout(d dist.Dist) Layout { return distDenseLayouts[d] }

// LayoutOf returns the layout of m.
//
// Errors:
//   - ErrUnsupportedLayout for any other concrete type.
func LayoutOf(m matrix.Shape) (Layout, error) {
	switch v := m.(type) {
	case *matrix.Dense:
		return LocalDense, nil
	case *matrix.Sparse:
		return LocalSparse, nil
	case *dist.Dense:
		if l, ok := distDenseLayouts[v.Dist()]; ok {
			return l, nil
		}
	case *dist.Sparse:
		return DistSparse, nil
	}

	return 0, fmt.Errorf("LayoutOf(%T): %w", m, ErrUnsupportedLayout)
}
