// Package demand implements demand distributions for inventory control
package demand

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goinventory/utils/floatutils"
)

// massTol is the tolerance within which a probability mass function
// must sum to 1
const massTol float64 = 1e-9

// TruncGeomPMF returns the probability mass function of a geometric
// distribution with success probability q, truncated to the support
// (0, 1, ..., m). Mass at values k < m equals q * (1-q)^k, and the
// mass that an untruncated geometric distribution would place beyond
// m is absorbed into the final entry so that the returned pmf sums
// to 1.
func TruncGeomPMF(m int, q float64) ([]float64, error) {
	if m < 0 {
		return nil, fmt.Errorf("truncgeompmf: support bound must be "+
			"non-negative, got %d", m)
	}
	if q <= 0.0 || q >= 1.0 {
		return nil, fmt.Errorf("truncgeompmf: success probability must be "+
			"in (0, 1), got %v", q)
	}

	pmf := make([]float64, m+1)
	mass := 0.0
	for k := 0; k < m; k++ {
		pmf[k] = q * math.Pow(1.0-q, float64(k))
		mass += pmf[k]
	}
	pmf[m] = floatutils.Max(0.0, 1.0-mass)

	return pmf, nil
}

// Distribution is a discrete probability distribution over the values
// (0, 1, ..., N) from which demands can be sampled. A Distribution
// with a nil source uses the global random number generator of the
// rand package for sampling.
type Distribution struct {
	pmf []float64
	cdf []float64
	rng *rand.Rand
}

// NewDistribution returns a new Distribution over the values
// (0, 1, ..., len(pmf)-1), where value i is drawn with probability
// pmf[i]. The pmf must be non-empty, have only non-negative entries,
// and sum to 1.
func NewDistribution(pmf []float64, src rand.Source) (*Distribution, error) {
	if len(pmf) == 0 {
		return nil, fmt.Errorf("newdistribution: pmf cannot be empty")
	}

	mass := 0.0
	for i, prob := range pmf {
		if prob < 0.0 {
			return nil, fmt.Errorf("newdistribution: probability of value "+
				"%d is negative (%v)", i, prob)
		}
		mass += prob
	}
	if math.Abs(mass-1.0) > massTol {
		return nil, fmt.Errorf("newdistribution: pmf must sum to 1, got %v",
			mass)
	}

	d := &Distribution{
		pmf: make([]float64, len(pmf)),
		cdf: make([]float64, len(pmf)),
	}
	if src != nil {
		d.rng = rand.New(src)
	}
	copy(d.pmf, pmf)

	cumulative := 0.0
	for i, prob := range pmf {
		cumulative += prob
		d.cdf[i] = cumulative
	}
	d.cdf[len(d.cdf)-1] = 1.0

	return d, nil
}

// NewTruncGeom returns a new Distribution of demands following a
// geometric distribution with success probability q, truncated to the
// support (0, 1, ..., m)
func NewTruncGeom(m int, q float64, src rand.Source) (*Distribution, error) {
	pmf, err := TruncGeomPMF(m, q)
	if err != nil {
		return nil, fmt.Errorf("newtruncgeom: %v", err)
	}
	return NewDistribution(pmf, src)
}

// Prob returns the probability of drawing the value k
func (d *Distribution) Prob(k int) float64 {
	if k < 0 || k >= len(d.pmf) {
		return 0.0
	}
	return d.pmf[k]
}

// CDF returns the probability of drawing a value less than or equal
// to k
func (d *Distribution) CDF(k int) float64 {
	if k < 0 {
		return 0.0
	}
	if k >= len(d.cdf) {
		return 1.0
	}
	return d.cdf[k]
}

// PMF returns a copy of the distribution's probability mass function
func (d *Distribution) PMF() []float64 {
	pmf := make([]float64, len(d.pmf))
	copy(pmf, d.pmf)
	return pmf
}

// Len returns the number of values in the distribution's support
func (d *Distribution) Len() int {
	return len(d.pmf)
}

// Mean returns the expected value of the distribution
func (d *Distribution) Mean() float64 {
	mean := 0.0
	for k, prob := range d.pmf {
		mean += float64(k) * prob
	}
	return mean
}

// Rand draws a value from the distribution. The drawn value is the
// smallest value whose cumulative probability exceeds a uniform random
// variate in [0, 1).
func (d *Distribution) Rand() int {
	var u float64
	if d.rng != nil {
		u = d.rng.Float64()
	} else {
		u = rand.Float64()
	}

	for k, cumulative := range d.cdf {
		if u < cumulative {
			return k
		}
	}
	return len(d.cdf) - 1
}
