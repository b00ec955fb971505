package policy

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/timestep"
	"gonum.org/v1/gonum/mat"
)

// Deterministic implements a policy that always chooses a fixed action
// in each state. The actions are given by a table with one entry per
// state, such as the policies computed by the solver package.
type Deterministic struct {
	table *mat.VecDense
	eval  bool
}

// NewDeterministic returns a new Deterministic policy choosing the
// actions in the argument table, where entry s is the action chosen in
// state s. The table must assign a valid action of the argument
// environment to every state.
func NewDeterministic(table *mat.VecDense,
	env environment.Environment) (*Deterministic, error) {
	actions, states, err := tableDims(env)
	if err != nil {
		return nil, fmt.Errorf("deterministic: %v", err)
	}

	if table.Len() != states {
		return nil, fmt.Errorf("deterministic: table must assign an action "+
			"to each of %d states, got %d entries", states, table.Len())
	}
	for state := 0; state < states; state++ {
		action := int(table.AtVec(state))
		if action < 0 || action >= actions {
			return nil, fmt.Errorf("deterministic: action %d in state %d "+
				"is outside [0, %d]", action, state, actions-1)
		}
	}

	fixed := mat.NewVecDense(table.Len(), nil)
	fixed.CopyVec(table)

	return &Deterministic{table: fixed}, nil
}

// SelectAction selects the fixed action of the current state
func (p *Deterministic) SelectAction(t timestep.TimeStep) *mat.VecDense {
	state := int(t.Observation.AtVec(0))
	return mat.NewVecDense(1, []float64{p.table.AtVec(state)})
}

// Eval sets the policy to evaluation mode. Deterministic policies
// behave identically in evaluation and training modes.
func (p *Deterministic) Eval() { p.eval = true }

// Train sets the policy to training mode
func (p *Deterministic) Train() { p.eval = false }

// IsEval returns whether the policy is in evaluation mode
func (p *Deterministic) IsEval() bool { return p.eval }
