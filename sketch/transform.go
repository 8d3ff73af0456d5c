// SPDX-License-Identifier: MIT

// Package sketch - transform kinds and the uniform apply contract.

package sketch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/lvsketch/dist"
	"github.com/katalvlaran/lvsketch/matrix"
)

// Type names a transform kind.
type Type int

// Transform kinds.
const (
	CWT Type = iota
	MMT
	JLT
	SignJLT
	CT
	GaussianRFT
	LaplacianRFT
	ExpSemigroupRLT
	FJLT
)

var typeNames = [...]string{
	CWT:             "CWT",
	MMT:             "MMT",
	JLT:             "JLT",
	SignJLT:         "SignJLT",
	CT:              "CT",
	GaussianRFT:     "GaussianRFT",
	LaplacianRFT:    "LaplacianRFT",
	ExpSemigroupRLT: "ExpSemigroupRLT",
	FJLT:            "FJLT",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}

	return typeNames[t]
}

// ParseType resolves a kind name, ignoring case.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if strings.EqualFold(n, name) {
			return Type(t), nil
		}
	}

	return 0, fmt.Errorf("ParseType(%q): %w", name, ErrInvalidParameter)
}

// Transform is a sketching transform of input dimension N and output
// dimension S.
type Transform interface {
	Type() Type
	N() int
	S() int

	// Apply overwrites sa with the sketch of a. Columnwise needs a N×M and sa
	// S×M; rowwise needs a M×N and sa M×S.
	Apply(a, sa matrix.Shape, dir Direction) error

	// Scale is the normalization folded into every sketch entry.
	Scale(a matrix.Shape) float64

	// Supports reports whether Apply has a specialization for the layouts.
	Supports(in, out Layout, dir Direction) bool
}

// base carries what every transform shares: identity, dimensions, logger and
// the dispatch table.
type base struct {
	typ  Type
	n, s int
	log  *log.Logger
	r    router
}

func newBase(typ Type, n, s int, o options) (base, error) {
	if n <= 0 || s <= 0 {
		return base{}, fmt.Errorf("%v(N=%d, S=%d): %w", typ, n, s, ErrDimensionMismatch)
	}

	return base{typ: typ, n: n, s: s, log: o.logger, r: newRouter()}, nil
}

func (b *base) Type() Type { return b.typ }

func (b *base) N() int { return b.n }

func (b *base) S() int { return b.s }

func (b *base) Supports(in, out Layout, dir Direction) bool {
	return b.r.supports(in, out, dir)
}

// Apply validates shapes, resolves layouts and dispatches.
func (b *base) Apply(a, sa matrix.Shape, dir Direction) error {
	op := b.typ.String() + ".Apply"
	if err := validateApply(b.n, b.s, a, sa, dir); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	in, err := LayoutOf(a)
	if err != nil {
		return fmt.Errorf("%s: input: %w", op, err)
	}
	out, err := LayoutOf(sa)
	if err != nil {
		return fmt.Errorf("%s: output: %w", op, err)
	}
	b.log.Debug("apply", "type", b.typ, "in", in, "out", out, "dir", dir,
		"rows", a.Rows(), "cols", a.Cols())

	return b.r.dispatch(op, in, out, dir, a, sa)
}

// validateApply checks operand shapes against (N,S).
//   - Columnwise: a is N×M, sa is S×M.
//   - Rowwise:    a is M×N, sa is M×S.
func validateApply(n, s int, a, sa matrix.Shape, dir Direction) error {
	if err := matrix.ValidateNotNil(a); err != nil {
		return err
	}
	if err := matrix.ValidateNotNil(sa); err != nil {
		return err
	}
	switch dir {
	case Columnwise:
		if a.Rows() != n || sa.Rows() != s || sa.Cols() != a.Cols() {
			return fmt.Errorf("columnwise N=%d S=%d: input %dx%d, output %dx%d: %w",
				n, s, a.Rows(), a.Cols(), sa.Rows(), sa.Cols(), ErrDimensionMismatch)
		}
	case Rowwise:
		if a.Cols() != n || sa.Cols() != s || sa.Rows() != a.Rows() {
			return fmt.Errorf("rowwise N=%d S=%d: input %dx%d, output %dx%d: %w",
				n, s, a.Rows(), a.Cols(), sa.Rows(), sa.Cols(), ErrDimensionMismatch)
		}
	default:
		return fmt.Errorf("direction %v: %w", dir, ErrInvalidParameter)
	}
	if aliased(a, sa) {
		return fmt.Errorf("input and output share storage: %w", ErrInvalidParameter)
	}

	return nil
}

// aliased reports whether a and sa are one matrix or share a dense buffer.
// Apply overwrites sa before reading all of a, so aliasing would destroy the input.
func aliased(a, sa matrix.Shape) bool {
	switch x := a.(type) {
	case *matrix.Dense:
		y, ok := sa.(*matrix.Dense)
		return ok && sameBuffer(x, y)
	case *matrix.Sparse:
		y, ok := sa.(*matrix.Sparse)
		return ok && x == y
	case *dist.Dense:
		y, ok := sa.(*dist.Dense)
		return ok && (x == y || sameBuffer(x.Local(), y.Local()))
	case *dist.Sparse:
		y, ok := sa.(*dist.Sparse)
		return ok && (x == y || x.Local() == y.Local())
	}

	return false
}

func sameBuffer(x, y *matrix.Dense) bool {
	if x == y {
		return true
	}
	dx, dy := x.RawData(), y.RawData()

	return len(dx) > 0 && len(dy) > 0 && &dx[0] == &dy[0]
}

// sameGrid checks that two distributed operands share one grid handle.
func sameGrid[M interface{ SameGrid(M) bool }](a, b M) error {
	if !a.SameGrid(b) {
		return dist.ErrGridMismatch
	}

	return nil
}
