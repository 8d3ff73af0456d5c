// SPDX-License-Identifier: MIT

// Package dist - element-cyclic distributions of a dense matrix.
//
// A Dist pairs one AxisDist for the rows with one for the columns:
//   - MC:   index i lives on grid row    i % R.
//   - MR:   index j lives on grid column j % C.
//   - VC:   index i lives on the process whose column-major rank is i % P.
//   - VR:   index i lives on the process whose row-major rank is i % P.
//   - Star: every process holds every index.
//
// Process p owns the global indices shift(p), shift(p)+stride, ... of an axis.

package dist

import "fmt"

// AxisDist is the distribution of one axis of a dense matrix.
type AxisDist int

// Axis distributions.
const (
	Star AxisDist = iota
	MC
	MR
	VC
	VR
)

// String returns the bracket-free name of the axis distribution.
func (a AxisDist) String() string {
	switch a {
	case Star:
		return "STAR"
	case MC:
		return "MC"
	case MR:
		return "MR"
	case VC:
		return "VC"
	case VR:
		return "VR"
	default:
		return fmt.Sprintf("AxisDist(%d)", int(a))
	}
}

// Dist is a supported (row, column) distribution pair.
type Dist int

// Supported dense distributions.
const (
	MCMR Dist = iota
	VCStar
	VRStar
	StarVC
	StarVR
	StarStar
)

// Dists lists every supported distribution in declaration order.
var Dists = []Dist{MCMR, VCStar, VRStar, StarVC, StarVR, StarStar}

var distAxes = [...][2]AxisDist{
	MCMR:     {MC, MR},
	VCStar:   {VC, Star},
	VRStar:   {VR, Star},
	StarVC:   {Star, VC},
	StarVR:   {Star, VR},
	StarStar: {Star, Star},
}

func (d Dist) valid() bool { return d >= MCMR && d <= StarStar }

// RowDist returns the distribution of the row axis.
func (d Dist) RowDist() AxisDist { return distAxes[d][0] }

// ColDist returns the distribution of the column axis.
func (d Dist) ColDist() AxisDist { return distAxes[d][1] }

// String renders the pair Elemental-style, e.g. "[MC,MR]".
func (d Dist) String() string {
	if !d.valid() {
		return fmt.Sprintf("Dist(%d)", int(d))
	}

	return "[" + d.RowDist().String() + "," + d.ColDist().String() + "]"
}

// LocalLength returns how many of the indices [0,n) fall on a process with the
// given shift and stride.
func LocalLength(n, shift, stride int) int {
	if shift >= n {
		return 0
	}

	return (n - shift + stride - 1) / stride
}
