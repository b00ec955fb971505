package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting states as vectors sampled from a
// multi-dimensional uniform categorical distribution. Dimension i of a
// start state takes one of the values (0, 1, 2, ... bounds[i]-1), each
// with equal probability.
type CategoricalStarter struct {
	dists []distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// dimension i uniformly from (0, 1, 2, ... bounds[i]-1)
func NewCategoricalStarter(bounds []int, seed uint64) CategoricalStarter {
	source := rand.NewSource(seed)

	dists := make([]distuv.Categorical, len(bounds))
	for i := range dists {
		weights := make([]float64, bounds[i])
		for j := range weights {
			weights[j] = 1.0 / float64(len(weights))
		}

		dists[i] = distuv.NewCategorical(weights, source)
	}

	return CategoricalStarter{dists}
}

// Start returns a starting state vector
func (c CategoricalStarter) Start() *mat.VecDense {
	start := make([]float64, len(c.dists))
	for i := range start {
		start[i] = c.dists[i].Rand()
	}

	return mat.NewVecDense(len(start), start)
}
