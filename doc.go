// Package lvsketch is a toolkit of randomized sketching transforms for dense and
// sparse matrices, local or distributed over a process grid.
//
// 🚀 What is lvsketch?
//
//	A reproducible sketching layer built on gonum that brings together:
//		• Counter-based randomness: every random value is a pure function of (seed, slot)
//		• Hash sketches: CountSketch (CWT) and Cauchy-valued MMT
//		• Dense sketches: Gaussian JLT, Rademacher SignJLT, Cauchy CT
//		• Fast transform: FJLT over a DCT or DHT
//		• Kernel feature maps: Gaussian/Laplacian random Fourier features, Laplace features
//		• Distributed storage: six dense distributions and a sparse layout on a 2-D grid
//
// ✨ Why choose lvsketch?
//
//   - Reproducible – the logical sketching matrix never depends on the partitioning
//   - Fail-fast – every misuse is a typed error, matched with errors.Is
//   - Layout aware – each transform dispatches on its operands and says what it supports
//
// Under the hood, everything is organized under three subpackages:
//
//	matrix/  local Dense (row-major) and Sparse (CSC) storage + small kernels
//	dist/    process grid, collectives, distributed dense and sparse matrices
//	sketch/  Context, transform data, appliers, Container and the New factory
//
// Quick example:
//
//	ctx := sketch.NewContext(42)
//	t, _ := sketch.NewJLT(ctx, 1000, 50)
//	_ = t.Apply(a, sa, sketch.Columnwise) // sa (50×m) = Π·a (1000×m)
//
// The lvsketch command (cmd/lvsketch) applies a configured transform to CSV
// data and verifies distributed layouts against the local result.
//
//	go install github.com/katalvlaran/lvsketch/cmd/lvsketch@latest
package lvsketch
