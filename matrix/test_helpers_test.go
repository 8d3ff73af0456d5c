// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for the storage and kernel tests.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/lvsketch/matrix"
)

// hide WRAPS any Matrix to hide its concrete type from type assertions.
// Implementation:
//   - Stage 1: Embed matrix.Matrix to forward all methods.
//   - Stage 2: Use hide{X} in tests to force non-*Dense (fallback) paths.
//
// Complexity:
//   - Time O(1), Space O(1).
//
// Notes:
//   - Wrap ONLY the operand you want to de-opt; keep the other one *Dense to isolate path differences.
type hide struct{ matrix.Matrix }

// MustDense ALLOCATES an r×c *Dense or fails the test (fatal on error).
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseZeroOK(r, c)
	if err != nil {
		t.Fatalf("NewDenseZeroOK(%d,%d): %v", r, c, err)
	}

	return m
}

// MustFrom builds an r×c *Dense from row-major values or fails the test.
func MustFrom(t *testing.T, r, c int, vals ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	if err != nil {
		t.Fatalf("NewDenseFrom(%d,%d): %v", r, c, err)
	}

	return m
}

// MustSparse builds an r×c *Sparse from triplets or fails the test.
func MustSparse(t *testing.T, r, c int, ts ...matrix.Triplet) *matrix.Sparse {
	t.Helper()
	s, err := matrix.NewSparseFromTriplets(r, c, ts)
	if err != nil {
		t.Fatalf("NewSparseFromTriplets(%d,%d): %v", r, c, err)
	}

	return s
}
