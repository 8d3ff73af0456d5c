// SPDX-License-Identifier: MIT

// Package sketch - structured fast unitary transforms.
//
// DCT is the unnormalized DCT-II (Y_k = 2·Σ x_n cos(π(n+½)k/N)) with its exact
// inverse; Scale = 1/sqrt(2N).
// DHT is the discrete Hartley transform (H_k = Σ x_n cas(2πkn/N)); it is its
// own inverse up to 1/N; Scale = 1/sqrt(N).
//
// Implementation:
//   - DCT: Makhoul's reordering, one complex FFT of length N and a twiddle.
//     Forward:  v = [x0 x2 x4 ... x5 x3 x1], Y_k = 2·Re(e^{-iπk/2N}·FFT(v)_k).
//     Inverse:  V_k = ½·e^{iπk/2N}·(Y_k - i·Y_{N-k}) (Y_N = 0), v = IFFT(V), undo reorder.
//   - DHT: one real FFT; H_k = Re X_k - Im X_k, using X_k = conj(X_{N-k}) above N/2.
//
// FFT plans keep scratch space, so each transform pools them; Apply and
// ApplyInverse are safe for concurrent use.

package sketch

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/katalvlaran/lvsketch/matrix"
)

// FUTKind selects a fast transform.
type FUTKind int

// Fast transform kinds.
const (
	DCTKind FUTKind = iota
	DHTKind
)

func (k FUTKind) String() string {
	switch k {
	case DCTKind:
		return "DCT"
	case DHTKind:
		return "DHT"
	default:
		return fmt.Sprintf("FUTKind(%d)", int(k))
	}
}

// ParseFUTKind resolves "dct" or "dht", ignoring case.
func ParseFUTKind(name string) (FUTKind, error) {
	for _, k := range []FUTKind{DCTKind, DHTKind} {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}

	return 0, fmt.Errorf("ParseFUTKind(%q): %w", name, ErrInvalidParameter)
}

// FUT is a fast transform applied to every column (or row) of a local matrix.
type FUT interface {
	Kind() FUTKind
	N() int
	Scale() float64
	Apply(a *matrix.Dense, dir Direction) error
	ApplyInverse(a *matrix.Dense, dir Direction) error
}

// NewFUT returns the fast transform of kind k and length n.
func NewFUT(k FUTKind, n int) (FUT, error) {
	switch k {
	case DCTKind:
		t, err := NewDCT(n)
		if err != nil {
			return nil, err
		}
		return t, nil
	case DHTKind:
		t, err := NewDHT(n)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("NewFUT(%v): %w", k, ErrInvalidParameter)
	}
}

// applyVectors runs fn over every length-n vector of a along dir.
func applyVectors(op string, n int, a *matrix.Dense, dir Direction, fn func(x []float64)) error {
	if err := matrix.ValidateNotNil(a); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch dir {
	case Columnwise:
		if a.Rows() != n {
			return fmt.Errorf("%s: %d rows, want %d: %w", op, a.Rows(), n, ErrDimensionMismatch)
		}
	case Rowwise:
		if a.Cols() != n {
			return fmt.Errorf("%s: %d cols, want %d: %w", op, a.Cols(), n, ErrDimensionMismatch)
		}
	default:
		return fmt.Errorf("%s: direction %v: %w", op, dir, ErrInvalidParameter)
	}

	return guard(op, func() error {
		if dir == Rowwise {
			for i := 0; i < a.Rows(); i++ {
				fn(a.Row(i))
			}
			return nil
		}
		raw, m := a.RawData(), a.Cols()
		buf := make([]float64, n)
		var i, j int
		for j = 0; j < m; j++ {
			for i = 0; i < n; i++ {
				buf[i] = raw[i*m+j]
			}
			fn(buf)
			for i = 0; i < n; i++ {
				raw[i*m+j] = buf[i]
			}
		}
		return nil
	})
}

// ---------- DCT ----------

// DCT is the DCT-II of length N and its inverse.
type DCT struct {
	n       int
	twiddle []complex128 // e^{-iπk/2N}
	pool    sync.Pool
}

type dctWork struct {
	fft  *fourier.CmplxFFT
	v, c []complex128
}

var _ FUT = (*DCT)(nil)

// NewDCT returns a DCT of length n.
//
// Errors:
//   - ErrDimensionMismatch if n<=0.
func NewDCT(n int) (*DCT, error) {
	if n <= 0 {
		return nil, fmt.Errorf("NewDCT(%d): %w", n, ErrDimensionMismatch)
	}
	t := &DCT{n: n, twiddle: make([]complex128, n)}
	for k := range t.twiddle {
		t.twiddle[k] = cmplx.Exp(complex(0, -math.Pi*float64(k)/float64(2*n)))
	}
	t.pool.New = func() any {
		return &dctWork{
			fft: fourier.NewCmplxFFT(n),
			v:   make([]complex128, n),
			c:   make([]complex128, n),
		}
	}

	return t, nil
}

func (t *DCT) Kind() FUTKind { return DCTKind }

func (t *DCT) N() int { return t.n }

// Scale returns 1/sqrt(2N).
func (t *DCT) Scale() float64 { return 1 / math.Sqrt(float64(2*t.n)) }

// Apply replaces every column (or row) of a with its DCT-II.
func (t *DCT) Apply(a *matrix.Dense, dir Direction) error {
	if t.n == 1 {
		return applyVectors("DCT.Apply", 1, a, dir, func(x []float64) { x[0] *= 2 })
	}
	w := t.pool.Get().(*dctWork)
	defer t.pool.Put(w)

	return applyVectors("DCT.Apply", t.n, a, dir, func(x []float64) { t.forward(w, x) })
}

// ApplyInverse undoes Apply exactly.
func (t *DCT) ApplyInverse(a *matrix.Dense, dir Direction) error {
	if t.n == 1 {
		return applyVectors("DCT.ApplyInverse", 1, a, dir, func(x []float64) { x[0] /= 2 })
	}
	w := t.pool.Get().(*dctWork)
	defer t.pool.Put(w)

	return applyVectors("DCT.ApplyInverse", t.n, a, dir, func(x []float64) { t.inverse(w, x) })
}

func (t *DCT) forward(w *dctWork, x []float64) {
	n := t.n
	for k := 0; 2*k < n; k++ {
		w.v[k] = complex(x[2*k], 0)
	}
	for k := 0; 2*k+1 < n; k++ {
		w.v[n-1-k] = complex(x[2*k+1], 0)
	}
	w.c = w.fft.Coefficients(w.c, w.v)
	for k := 0; k < n; k++ {
		x[k] = 2 * real(t.twiddle[k]*w.c[k])
	}
}

func (t *DCT) inverse(w *dctWork, y []float64) {
	n := t.n
	var ynk float64
	for k := 0; k < n; k++ {
		ynk = 0
		if k > 0 {
			ynk = y[n-k]
		}
		// conj(V_k) so that one forward FFT yields the inverse
		w.v[k] = cmplx.Conj(0.5 * cmplx.Conj(t.twiddle[k]) * complex(y[k], -ynk))
	}
	w.c = w.fft.Coefficients(w.c, w.v)
	inv := 1 / float64(n)
	for k := 0; 2*k < n; k++ {
		y[2*k] = real(w.c[k]) * inv
	}
	for k := 0; 2*k+1 < n; k++ {
		y[2*k+1] = real(w.c[n-1-k]) * inv
	}
}

// ---------- DHT ----------

// DHT is the discrete Hartley transform of length N.
type DHT struct {
	n    int
	pool sync.Pool
}

type dhtWork struct {
	fft *fourier.FFT
	c   []complex128
}

var _ FUT = (*DHT)(nil)

// NewDHT returns a DHT of length n.
//
// Errors:
//   - ErrDimensionMismatch if n<=0.
func NewDHT(n int) (*DHT, error) {
	if n <= 0 {
		return nil, fmt.Errorf("NewDHT(%d): %w", n, ErrDimensionMismatch)
	}
	t := &DHT{n: n}
	t.pool.New = func() any {
		return &dhtWork{fft: fourier.NewFFT(n), c: make([]complex128, n/2+1)}
	}

	return t, nil
}

func (t *DHT) Kind() FUTKind { return DHTKind }

func (t *DHT) N() int { return t.n }

// Scale returns 1/sqrt(N).
func (t *DHT) Scale() float64 { return 1 / math.Sqrt(float64(t.n)) }

// Apply replaces every column (or row) of a with its Hartley transform.
func (t *DHT) Apply(a *matrix.Dense, dir Direction) error {
	return t.run("DHT.Apply", a, dir, 1)
}

// ApplyInverse undoes Apply (the DHT divided by N).
func (t *DHT) ApplyInverse(a *matrix.Dense, dir Direction) error {
	return t.run("DHT.ApplyInverse", a, dir, 1/float64(t.n))
}

func (t *DHT) run(op string, a *matrix.Dense, dir Direction, scale float64) error {
	if t.n == 1 {
		return applyVectors(op, 1, a, dir, func([]float64) {})
	}
	w := t.pool.Get().(*dhtWork)
	defer t.pool.Put(w)

	return applyVectors(op, t.n, a, dir, func(x []float64) { t.hartley(w, x, scale) })
}

func (t *DHT) hartley(w *dhtWork, x []float64, scale float64) {
	n := t.n
	w.c = w.fft.Coefficients(w.c, x)
	var ck complex128
	for k := 0; k < n; k++ {
		if k <= n/2 {
			ck = w.c[k]
			x[k] = scale * (real(ck) - imag(ck))
		} else {
			ck = w.c[n-k]
			x[k] = scale * (real(ck) + imag(ck))
		}
	}
}
