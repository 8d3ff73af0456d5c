// SPDX-License-Identifier: MIT
// Package sketch: sentinel error set.
//
// Every failure of a constructor or an Apply call wraps exactly one of these
// sentinels (via %w) together with the operation that failed, so callers match
// with errors.Is and boundary layers classify with KindOf. Nothing is retried.

package sketch

import (
	"errors"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

var (
	// ErrUnsupportedLayout: no apply specialization exists for the requested
	// (input layout, output layout, direction) combination.
	ErrUnsupportedLayout = errors.New("sketch: unsupported matrix layout")

	// ErrDimensionMismatch: the transform's (N,S) disagrees with a matrix shape,
	// or a transform was requested with N<=0 or S<=0.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrCommunication: a collective failed; the originating message is attached.
	ErrCommunication = dist.ErrCommunication

	// ErrNumerical: a linear-algebra primitive rejected its arguments.
	ErrNumerical = errors.New("sketch: numerical library failure")

	// ErrInvalidParameter: a kind-specific scalar (σ, β, C) is out of range.
	ErrInvalidParameter = errors.New("sketch: invalid transform parameter")
)

// ErrorKind classifies an error returned by this package.
type ErrorKind int

// Error kinds, in the order KindOf tests them.
const (
	KindNone ErrorKind = iota
	KindUnsupportedLayout
	KindDimensionMismatch
	KindCommunication
	KindNumerical
	KindInvalidParameter
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnsupportedLayout:
		return "unsupported layout"
	case KindDimensionMismatch:
		return "dimension mismatch"
	case KindCommunication:
		return "communication"
	case KindNumerical:
		return "numerical"
	case KindInvalidParameter:
		return "invalid parameter"
	default:
		return "other"
	}
}

// KindOf returns the kind of err. Operands living on different process grids
// count as an unsupported layout; nil matrices count as a dimension mismatch.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCommunication):
		return KindCommunication
	case errors.Is(err, ErrUnsupportedLayout), errors.Is(err, dist.ErrGridMismatch):
		return KindUnsupportedLayout
	case errors.Is(err, ErrDimensionMismatch), errors.Is(err, matrix.ErrNilMatrix):
		return KindDimensionMismatch
	case errors.Is(err, ErrNumerical):
		return KindNumerical
	case errors.Is(err, ErrInvalidParameter):
		return KindInvalidParameter
	default:
		return KindOther
	}
}
