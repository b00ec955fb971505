package weights

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LinearUV initializes a matrix of weights, such as a tabular value
// function or action-value function, with values drawn independently
// from a univariate distribution
type LinearUV struct {
	distuv.Rander
}

// NewLinearUV creates and returns a new LinearUV, with weights drawn
// from the distribution defined by rand
func NewLinearUV(rand distuv.Rander) LinearUV {
	if rand == nil {
		panic("rand cannot be nil")
	}
	return LinearUV{rand}
}

// Initialize initializes a matrix of weights using values drawn from
// a univariate distribution
func (l LinearUV) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}

	backingData := weights.RawMatrix().Data
	for i := 0; i < len(backingData); i++ {
		backingData[i] = l.Rand()
	}
}
