// Package random provides discrete probability distributions used to drive
// creature movement.
package random

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNonPositiveSum is returned when weights cannot be normalized.
	ErrNonPositiveSum = errors.New("random: weights must have a positive sum")
	// ErrLengthMismatch is returned when blending distributions of different size.
	ErrLengthMismatch = errors.New("random: distributions differ in length")
	// ErrNegativeWeight is returned for weights below zero.
	ErrNegativeWeight = errors.New("random: weights must not be negative")
)

// PMF is a normalized probability mass function over outcomes 0..N-1.
type PMF struct {
	p []float64
}

// PMFFromWeights normalizes non-negative weights into a PMF.
func PMFFromWeights(weights []float64) (*PMF, error) {
	if len(weights) == 0 {
		return nil, ErrNonPositiveSum
	}
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: %v", ErrNegativeWeight, w)
		}
	}
	sum := floats.Sum(weights)
	if !(sum > 0) {
		return nil, ErrNonPositiveSum
	}

	p := make([]float64, len(weights))
	copy(p, weights)
	floats.Scale(1/sum, p)
	return &PMF{p: p}, nil
}

// Len returns the number of outcomes.
func (m *PMF) Len() int { return len(m.p) }

// Values returns a copy of the probabilities.
func (m *PMF) Values() []float64 {
	out := make([]float64, len(m.p))
	copy(out, m.p)
	return out
}

// CDF returns the cumulative distribution of m.
func (m *PMF) CDF() *CDF {
	c := make([]float64, len(m.p))
	floats.CumSum(c, m.p)
	c[len(c)-1] = 1
	return &CDF{c: c}
}

// CDF is a cumulative distribution function. Entries are non-decreasing
// and the last entry is exactly 1.
type CDF struct {
	c []float64
}

// CDFFromWeights normalizes weights and accumulates them.
func CDFFromWeights(weights []float64) (*CDF, error) {
	pmf, err := PMFFromWeights(weights)
	if err != nil {
		return nil, err
	}
	return pmf.CDF(), nil
}

// Uniform returns the CDF of n equally likely outcomes.
func Uniform(n int) *CDF {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	c, err := CDFFromWeights(w)
	if err != nil {
		panic(fmt.Sprintf("random: uniform over %d outcomes: %v", n, err))
	}
	return c
}

// Len returns the number of outcomes.
func (c *CDF) Len() int { return len(c.c) }

// Values returns a copy of the cumulative entries.
func (c *CDF) Values() []float64 {
	out := make([]float64, len(c.c))
	copy(out, c.c)
	return out
}

// Weights recovers the per-outcome probabilities.
func (c *CDF) Weights() []float64 {
	out := make([]float64, len(c.c))
	prev := 0.0
	for i, v := range c.c {
		out[i] = v - prev
		prev = v
	}
	return out
}

// Draw samples an outcome index. The result is always in [0, Len()).
func (c *CDF) Draw(rng *rand.Rand) int {
	r := rng.Float64()
	i := sort.Search(len(c.c), func(i int) bool { return c.c[i] > r })
	if i == len(c.c) {
		// r < 1 == c[last], so only reachable through a corrupt table.
		i = len(c.c) - 1
	}
	return i
}

// Blend returns the equal-weight mixture of c and o. Neither input changes.
func (c *CDF) Blend(o *CDF) (*CDF, error) {
	if len(c.c) != len(o.c) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(c.c), len(o.c))
	}
	out := make([]float64, len(c.c))
	floats.AddTo(out, c.c, o.c)
	floats.Scale(0.5, out)
	out[len(out)-1] = 1
	return &CDF{c: out}, nil
}

// Clone returns an independent copy of c.
func (c *CDF) Clone() *CDF {
	return &CDF{c: c.Values()}
}
