package policy

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/timestep"
	"github.com/samuelfneumann/goinventory/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Greedy implements a greedy policy over a table of action values.
// The table has one row per action and one column per state, and the
// policy always chooses the action whose value in the current state's
// column is highest. When several actions share the highest value, the
// one with the lowest index is chosen.
type Greedy struct {
	weights *mat.Dense
	eval    bool
}

// NewGreedy creates a new Greedy policy for the argument environment,
// which must have 1-dimensional discrete states and actions enumerated
// from 0
func NewGreedy(env environment.Environment) (*Greedy, error) {
	actions, states, err := tableDims(env)
	if err != nil {
		return nil, fmt.Errorf("greedy: %v", err)
	}

	weights := mat.NewDense(actions, states, nil)
	return &Greedy{weights: weights}, nil
}

// Weights gets and returns the action-value table of the Greedy policy
// as a string description -> weights
func (p *Greedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SelectAction selects the action with the highest action value in the
// current state
func (p *Greedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	state := int(t.Observation.AtVec(0))
	actionValues := p.weights.ColView(state)

	action := float64(matutils.MaxVec(actionValues))
	return mat.NewVecDense(1, []float64{action})
}

// Eval sets the policy to evaluation mode. Greedy policies behave
// identically in evaluation and training modes.
func (p *Greedy) Eval() { p.eval = true }

// Train sets the policy to training mode
func (p *Greedy) Train() { p.eval = false }

// IsEval returns whether the policy is in evaluation mode
func (p *Greedy) IsEval() bool { return p.eval }
