// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by local and distributed storage.
// This file contains ONLY the capability interfaces and the coordinate triplet;
// concrete storage lives in dense.go and sparse.go.
package matrix

// Shape is the minimal capability every matrix participating in a sketch must
// expose: its logical (global) dimensions.
// Complexity: both methods are O(1).
type Shape interface {
	// Rows returns the number of rows.
	Rows() int

	// Cols returns the number of columns.
	Cols() int
}

// Matrix represents a two-dimensional mutable array of float64 values with
// bounds-checked element access.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	Shape

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}

// Triplet is one (row, col, value) coordinate entry. Slices of triplets are the
// interchange format used to build a brand-new Sparse result.
type Triplet struct {
	Row int     // row index
	Col int     // column index
	Val float64 // stored value
}
