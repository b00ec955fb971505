// Package td implements tabular TD(0) policy evaluation
package td

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/agent"
	"github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// TD implements the tabular TD(0) algorithm for estimating the state
// values of a fixed target policy from experience. The agent behaves
// according to the target policy and updates one state value per
// step, with no access to the transition probabilities of the
// environment. Estimates improve asymptotically; on small decision
// processes they are typically close after about a million steps.
type TD struct {
	agent.Learner
	agent.Policy
	values *mat.Dense
	seed   uint64
}

// New creates a new TD agent estimating the state values of following
// the argument target policy in the argument environment. The
// initializer init fills the agent's value table before learning
// begins.
func New(env environment.Environment, target agent.Policy,
	init weights.Initializer, seed uint64) (*TD, error) {
	if env.ObservationSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("td: cannot use non-discrete states")
	}
	if env.ObservationSpec().Shape.Len() != 1 {
		return nil, fmt.Errorf("td: states must be 1-dimensional")
	}
	if env.ObservationSpec().LowerBound.AtVec(0) != 0.0 {
		return nil, fmt.Errorf("td: states must be enumerated starting " +
			"from 0")
	}
	states := int(env.ObservationSpec().UpperBound.AtVec(0)) + 1

	values := mat.NewDense(1, states, nil)
	init.Initialize(values)

	learner := NewTDLearner(values)

	return &TD{learner, target, values, seed}, nil
}

// Estimates returns a copy of the agent's current state-value
// estimates
func (t *TD) Estimates() *mat.VecDense {
	_, states := t.values.Dims()
	return mat.NewVecDense(states, mat.Row(nil, 0, t.values))
}
