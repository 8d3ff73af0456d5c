// SPDX-License-Identifier: MIT

// Package matrix - Sparse storage (compressed sparse column).
//
// Purpose:
//   - Column-major compressed storage: colPtr (len cols+1), rowIdx and values (len nnz).
//   - Build brand-new results from parallel (row, col, value) lists (Triplet slices).
//   - Deterministic duplicate handling: duplicates are summed in input order, so two
//     builds from the same triplet sequence are bit-identical.
//
// Complexity quicksheet:
//   - NewSparseFromTriplets: O(nnz log nnz); At: O(log nnz(col)); Do/Triplets: O(nnz).

package matrix

import (
	"fmt"
	"sort"
)

const (
	ctxTriplets = "NewSparseFromTriplets"
	ctxCSC      = "NewSparseCSC"
)

// Sparse is an r×c matrix in compressed sparse column (CSC) form.
// Within each column, row indices are strictly increasing.
type Sparse struct {
	r, c   int
	colPtr []int     // len c+1, colPtr[0]==0, non-decreasing
	rowIdx []int     // len nnz, row of each stored value
	values []float64 // len nnz
}

var _ Shape = (*Sparse)(nil)

// NewSparse returns an empty (all-zero) r×c sparse matrix. Zero dimensions are legal.
//
// Errors:
//   - ErrInvalidDimensions on negative dimensions.
func NewSparse(rows, cols int) (*Sparse, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}

	return &Sparse{r: rows, c: cols, colPtr: make([]int, cols+1)}, nil
}

// NewSparseFromTriplets builds an r×c CSC matrix from coordinate entries.
// Implementation:
//   - Stage 1: validate shape and every coordinate.
//   - Stage 2: stable sort by (col,row) so equal coordinates keep input order.
//   - Stage 3: compress, summing duplicates left to right.
//
// Errors:
//   - ErrInvalidDimensions, ErrOutOfRange (wrapped with the offending triplet).
//
// Complexity:
//   - Time O(n log n), Space O(n) for n triplets.
func NewSparseFromTriplets(rows, cols int, ts []Triplet) (*Sparse, error) {
	s, err := NewSparse(rows, cols)
	if err != nil {
		return nil, err
	}
	if err = s.Replace(ts); err != nil {
		return nil, err
	}

	return s, nil
}

// NewSparseCSC validates and copies raw CSC arrays into a new Sparse.
//
// Errors:
//   - ErrInvalidDimensions, ErrBadStorage.
func NewSparseCSC(rows, cols int, colPtr, rowIdx []int, values []float64) (*Sparse, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}
	if len(colPtr) != cols+1 || colPtr[0] != 0 || len(rowIdx) != len(values) || colPtr[cols] != len(values) {
		return nil, fmt.Errorf("%s: %w", ctxCSC, ErrBadStorage)
	}
	var j, k int
	for j = 0; j < cols; j++ {
		if colPtr[j+1] < colPtr[j] {
			return nil, fmt.Errorf("%s: column %d pointer decreases: %w", ctxCSC, j, ErrBadStorage)
		}
		for k = colPtr[j]; k < colPtr[j+1]; k++ {
			if rowIdx[k] < 0 || rowIdx[k] >= rows || (k > colPtr[j] && rowIdx[k] <= rowIdx[k-1]) {
				return nil, fmt.Errorf("%s: column %d entry %d: %w", ctxCSC, j, k, ErrBadStorage)
			}
		}
	}

	return &Sparse{
		r:      rows,
		c:      cols,
		colPtr: append([]int(nil), colPtr...),
		rowIdx: append([]int(nil), rowIdx...),
		values: append([]float64(nil), values...),
	}, nil
}

// Replace discards the current contents and rebuilds the matrix (same shape)
// from ts. On error the matrix is left unchanged.
func (s *Sparse) Replace(ts []Triplet) error {
	for k, t := range ts {
		if t.Row < 0 || t.Row >= s.r || t.Col < 0 || t.Col >= s.c {
			return fmt.Errorf("%s: entry %d (%d,%d) in %dx%d: %w", ctxTriplets, k, t.Row, t.Col, s.r, s.c, ErrOutOfRange)
		}
	}

	sorted := make([]Triplet, len(ts))
	copy(sorted, ts)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Col != sorted[b].Col {
			return sorted[a].Col < sorted[b].Col
		}
		return sorted[a].Row < sorted[b].Row
	})

	colPtr := make([]int, s.c+1)
	rowIdx := make([]int, 0, len(sorted))
	values := make([]float64, 0, len(sorted))
	lastRow, lastCol := -1, -1
	for _, t := range sorted {
		if t.Row == lastRow && t.Col == lastCol {
			values[len(values)-1] += t.Val // duplicate: sum in input order
			continue
		}
		rowIdx = append(rowIdx, t.Row)
		values = append(values, t.Val)
		colPtr[t.Col+1]++
		lastRow, lastCol = t.Row, t.Col
	}
	for j := 0; j < s.c; j++ {
		colPtr[j+1] += colPtr[j]
	}

	s.colPtr, s.rowIdx, s.values = colPtr, rowIdx, values

	return nil
}

// Rows returns the row count.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the column count.
func (s *Sparse) Cols() int { return s.c }

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return len(s.values) }

// ColPtr exposes the column pointer array (len Cols()+1). Do not mutate.
func (s *Sparse) ColPtr() []int { return s.colPtr }

// RowIndices exposes the row index array (len NNZ()). Do not mutate.
func (s *Sparse) RowIndices() []int { return s.rowIdx }

// Values exposes the value array (len NNZ()).
func (s *Sparse) Values() []float64 { return s.values }

// At returns the stored value at (i,j), or 0 if no entry is stored.
//
// Errors:
//   - ErrOutOfRange.
//
// Complexity: O(log nnz(col j)).
func (s *Sparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, fmt.Errorf("Sparse.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	lo, hi := s.colPtr[j], s.colPtr[j+1]
	k := lo + sort.SearchInts(s.rowIdx[lo:hi], i)
	if k < hi && s.rowIdx[k] == i {
		return s.values[k], nil
	}

	return 0, nil
}

// Do calls fn for every stored entry in column-major order.
func (s *Sparse) Do(fn func(i, j int, v float64)) {
	var j, k int
	for j = 0; j < s.c; j++ {
		for k = s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			fn(s.rowIdx[k], j, s.values[k])
		}
	}
}

// Triplets returns the stored entries in column-major order.
func (s *Sparse) Triplets() []Triplet {
	out := make([]Triplet, 0, len(s.values))
	s.Do(func(i, j int, v float64) {
		out = append(out, Triplet{Row: i, Col: j, Val: v})
	})

	return out
}

// ToDense materializes the matrix as a row-major Dense (zero dimensions allowed).
// Complexity: O(r*c + nnz).
func (s *Sparse) ToDense() *Dense {
	d, _ := NewDenseZeroOK(s.r, s.c) // dimensions are non-negative by construction
	s.Do(func(i, j int, v float64) {
		d.data[i*s.c+j] = v
	})

	return d
}

// Equal reports whether s and o have the same shape and the same value at every
// position. Explicitly stored zeros are treated as absent.
// Complexity: O(nnz(s) + nnz(o)).
func (s *Sparse) Equal(o *Sparse) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.r != o.r || s.c != o.c {
		return false
	}
	var j int
	for j = 0; j < s.c; j++ {
		a, aEnd := s.colPtr[j], s.colPtr[j+1]
		b, bEnd := o.colPtr[j], o.colPtr[j+1]
		for a < aEnd || b < bEnd {
			// skip explicit zeros on both sides
			if a < aEnd && s.values[a] == 0 {
				a++
				continue
			}
			if b < bEnd && o.values[b] == 0 {
				b++
				continue
			}
			if a == aEnd || b == bEnd {
				return false
			}
			if s.rowIdx[a] != o.rowIdx[b] || s.values[a] != o.values[b] {
				return false
			}
			a++
			b++
		}
	}

	return true
}
