package rng

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrNonPositiveShape indicates Gamma was called with shape <= 0.
var ErrNonPositiveShape = errors.New("rng: gamma shape must be > 0")

// ErrNegativeAlpha indicates Dirichlet was called with a negative
// concentration parameter.
var ErrNegativeAlpha = errors.New("rng: dirichlet alpha must be >= 0")

// RNG is a seedable, deterministic pseudo-random source. It is a thin,
// explicit wrapper around *rand.Rand — no method here touches global
// state, so two RNG values seeded identically produce bit-identical
// sequences regardless of what else runs concurrently.
type RNG struct {
	src *rand.Rand
}

// New returns an RNG seeded deterministically from seed.
// Complexity: O(1).
func New(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// Uniform returns a pseudo-random float64 in [0, 1).
// Complexity: O(1).
func (r *RNG) Uniform() float64 {
	return r.src.Float64()
}

// Normal returns a standard Gaussian sample via the Box-Muller transform
// on two independent uniforms. Complexity: O(1).
func (r *RNG) Normal() float64 {
	// Box-Muller requires u1 in (0,1], not [0,1), to avoid log(0).
	u1 := 1.0 - r.src.Float64()
	u2 := r.src.Float64()

	return math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
}

// Gamma draws a sample from Gamma(shape, scale=1) via Marsaglia-Tsang for
// shape >= 1 (squeeze test, then a log-ratio acceptance test), falling
// back to the Ahrens-Dieter GS rejection sampler for shape in (0, 1),
// whose x <= 1 branch is x = U^(1/shape) accepted with probability exp(-x).
//
// Complexity: O(1) expected (bounded number of rejections).
func (r *RNG) Gamma(shape float64) (float64, error) {
	if shape <= 0 {
		return 0, fmt.Errorf("Gamma(%g): %w", shape, ErrNonPositiveShape)
	}

	if shape < 1 {
		// Ahrens-Dieter GS: with b = 1 + shape/e, draw p = b*U. For p <= 1,
		// x = p^(1/shape) is accepted with probability exp(-x); for p > 1,
		// x = -log((b-p)/shape) is accepted with probability x^(shape-1).
		b := 1.0 + shape/math.E
		for {
			p := b * r.src.Float64()
			if p <= 1 {
				if p == 0 {
					continue // avoid pow(0, 1/shape) degeneracies
				}
				x := math.Pow(p, 1.0/shape)
				if r.src.Float64() <= math.Exp(-x) {
					return x, nil
				}
				continue
			}
			x := -math.Log((b - p) / shape)
			if r.src.Float64() <= math.Pow(x, shape-1) {
				return x, nil
			}
		}
	}

	// Marsaglia-Tsang for shape >= 1.
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := r.Normal()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := r.src.Float64()

		// Squeeze test: cheap accept before the expensive log test.
		if u < 1.0-0.0331*x*x*x*x {
			return d * v, nil
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v, nil
		}
	}
}

// Dirichlet samples a probability vector from Dirichlet(alpha) by drawing
// independent Gamma(alpha_k, 1) variates and normalizing. A zero sum
// (possible only when every alpha_k is 0) returns the zero vector rather
// than dividing by zero.
//
// Complexity: O(len(alpha)) expected.
func (r *RNG) Dirichlet(alpha []float64) ([]float64, error) {
	g := make([]float64, len(alpha))
	var sum float64
	for i, a := range alpha {
		if a < 0 {
			return nil, fmt.Errorf("Dirichlet[%d]=%g: %w", i, a, ErrNegativeAlpha)
		}
		if a == 0 {
			g[i] = 0
			continue
		}
		v, err := r.Gamma(a)
		if err != nil {
			return nil, fmt.Errorf("Dirichlet[%d]: %w", i, err)
		}
		g[i] = v
		sum += v
	}

	if sum == 0 {
		return g, nil
	}
	out := make([]float64, len(g))
	for i, v := range g {
		out[i] = v / sum
	}

	return out, nil
}
