// Package sketch implements randomized sketching transforms: random linear (or
// feature) maps that compress the rows or columns of a matrix while
// approximately preserving norms, inner products or kernel values.
//
// Transform kinds:
//
//   - Signed hash:   CWT (±1 values), MMT (Cauchy values).
//   - Dense:         JLT (Gaussian), SignJLT (Rademacher), CT (Cauchy).
//   - Fast:          FJLT (random signs, DCT or DHT, row sampling).
//   - Kernel maps:   GaussianRFT, LaplacianRFT, ExpSemigroupRLT.
//
// Every transform draws its parameters from a Context at construction. A
// Context is counter based: the value of any logical slot is a pure function of
// (seed, slot), so the logical sketching matrix does not depend on how the
// input is partitioned across processes. Processes must construct transforms
// in the same order.
//
// Each transform dispatches on the layouts of its operands (local dense, local
// sparse, distributed dense in six distributions, distributed sparse); a
// missing combination returns ErrUnsupportedLayout. Container wraps any
// transform for a declared layout pair so the kind can be chosen at runtime.
//
//	ctx := sketch.NewContext(42)
//	t, err := sketch.NewCWT(ctx, n, s)
//	...
//	err = t.Apply(a, sa, sketch.Columnwise) // sa = Π·a
package sketch
