package environment

import (
	"gonum.org/v1/gonum/mat"
)

// SingleStart implements the Starter interface for environments that
// always begin episodes in one fixed state
type SingleStart struct {
	state *mat.VecDense
}

// NewSingleStart returns a new SingleStart that always starts episodes
// in the argument state
func NewSingleStart(state *mat.VecDense) SingleStart {
	return SingleStart{state}
}

// Start returns a copy of the starting state vector
func (s SingleStart) Start() *mat.VecDense {
	start := mat.NewVecDense(s.state.Len(), nil)
	start.CopyVec(s.state)
	return start
}
