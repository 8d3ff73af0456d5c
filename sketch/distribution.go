// SPDX-License-Identifier: MIT

package sketch

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution draws one value from a generator.
type Distribution interface {
	Sample(src rand.Source) float64
	String() string
}

// Gaussian is the standard normal distribution N(0,1).
type Gaussian struct{}

func (Gaussian) Sample(src rand.Source) float64 {
	return distuv.Normal{Mu: 0, Sigma: 1, Src: src}.Rand()
}

func (Gaussian) String() string { return "gaussian" }

// Rademacher is ±1 with equal probability.
type Rademacher struct{}

func (Rademacher) Sample(src rand.Source) float64 {
	return 2*distuv.Bernoulli{P: 0.5, Src: src}.Rand() - 1
}

func (Rademacher) String() string { return "rademacher" }

// Cauchy is the standard Cauchy distribution (Student's t with one degree of
// freedom).
type Cauchy struct{}

func (Cauchy) Sample(src rand.Source) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: 1, Src: src}.Rand()
}

func (Cauchy) String() string { return "cauchy" }

// Levy is the Lévy distribution with location 0 and scale C, i.e. the inverse
// gamma distribution with shape ½ and scale C/2. Its Laplace transform is
// E[exp(-tZ)] = exp(-sqrt(2Ct)).
type Levy struct{ C float64 }

func (l Levy) Sample(src rand.Source) float64 {
	return distuv.InverseGamma{Alpha: 0.5, Beta: l.C / 2, Src: src}.Rand()
}

func (l Levy) String() string { return fmt.Sprintf("levy(%g)", l.C) }

// Uniform is the continuous uniform distribution on [Min,Max).
type Uniform struct{ Min, Max float64 }

func (u Uniform) Sample(src rand.Source) float64 {
	return distuv.Uniform{Min: u.Min, Max: u.Max, Src: src}.Rand()
}

func (u Uniform) String() string { return fmt.Sprintf("uniform[%g,%g)", u.Min, u.Max) }
