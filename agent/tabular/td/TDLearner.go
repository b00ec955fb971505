package td

import (
	"fmt"
	"math"
	"os"

	"github.com/samuelfneumann/goinventory/timestep"
	"gonum.org/v1/gonum/mat"
)

// TDLearner implements the update functionality for the tabular TD(0)
// algorithm. The step size of each update shrinks with the number of
// times the updated state has been visited: after the n'th visit the
// step size is 1/√(1+n).
type TDLearner struct {
	values   *mat.Dense // state values, a single row
	visits   *mat.Dense // visit counts of each state
	step     timestep.TimeStep
	nextStep timestep.TimeStep
}

// NewTDLearner creates a new TDLearner struct
//
// values is the state-value table to learn
func NewTDLearner(values *mat.Dense) *TDLearner {
	_, states := values.Dims()
	visits := mat.NewDense(1, states, nil)

	return &TDLearner{values: values, visits: visits}
}

// ObserveFirst observes and records the first episodic timestep
func (t *TDLearner) ObserveFirst(step timestep.TimeStep) error {
	if !step.First() {
		fmt.Fprintf(os.Stderr, "Warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)",
			step.Number)
	}
	t.step = timestep.TimeStep{}
	t.nextStep = step
	return nil
}

// Observe observes and records any timestep other than the first
// timestep. The action is ignored: TD(0) estimates the values of the
// fixed policy generating the actions.
func (t *TDLearner) Observe(_ mat.Vector,
	nextStep timestep.TimeStep) error {
	t.step = t.nextStep
	t.nextStep = nextStep
	return nil
}

// Step updates the state values of the Agent's Learner
func (t *TDLearner) Step() error {
	state := int(t.step.Observation.AtVec(0))
	next := int(t.nextStep.Observation.AtVec(0))

	// Shrink the step size with the visits of the state being updated
	visits := t.visits.At(0, state) + 1.0
	t.visits.Set(0, state, visits)
	stepSize := 1.0 / math.Sqrt(1.0+visits)

	// Create the update target
	target := t.nextStep.Reward + t.nextStep.Discount*t.values.At(0, next)

	current := t.values.At(0, state)
	t.values.Set(0, state, current+stepSize*(target-current))

	return nil
}

// TdError returns the TD error of the argument transition under the
// current state-value estimates
func (t *TDLearner) TdError(tr timestep.Transition) float64 {
	state := int(tr.State.AtVec(0))
	next := int(tr.NextState.AtVec(0))

	target := tr.Reward + tr.Discount*t.values.At(0, next)
	return target - t.values.At(0, state)
}

// EndEpisode performs cleanup at the end of an episode
func (t *TDLearner) EndEpisode() {}

// Visits returns the number of times the argument state has been
// updated
func (t *TDLearner) Visits(state int) int {
	return int(t.visits.At(0, state))
}
