// Package matrix provides the local (single address space) storage types used
// as inputs and outputs of sketching transforms.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set, a raw buffer
//     with its leading dimension, and zero-copy views for gonum (blas64.General,
//     *mat.Dense).
//   - Sparse: a compressed sparse column matrix that can be rebuilt from
//     coordinate triplets (duplicates summed deterministically).
//   - Validators and a few dense kernels (Mul, MulInto, Transpose, Scale, AllClose).
//
// Every failure is reported through the sentinels in errors.go and can be
// matched with errors.Is.
package matrix
