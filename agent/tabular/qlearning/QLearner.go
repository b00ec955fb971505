package qlearning

import (
	"fmt"
	"math"
	"os"

	"github.com/samuelfneumann/goinventory/timestep"
	"gonum.org/v1/gonum/mat"
)

// QLearner implements the update functionality for the tabular
// Q-Learning algorithm. The step size of each update shrinks with the
// number of times the updated (action, state) pair has been visited:
// after the n'th visit the step size is 1/√(1+n).
type QLearner struct {
	weights  *mat.Dense // action values, one row per action
	visits   *mat.Dense // visit counts of each (action, state) pair
	step     timestep.TimeStep
	action   int
	nextStep timestep.TimeStep
}

// NewQLearner creates a new QLearner struct
//
// weights is the action-value table of the policy to learn
func NewQLearner(weights *mat.Dense) *QLearner {
	actions, states := weights.Dims()
	visits := mat.NewDense(actions, states, nil)

	return &QLearner{
		weights: weights,
		visits:  visits,
		action:  -0,
	}
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "Warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)", t.Number)
	}
	q.step = timestep.TimeStep{}
	q.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first
// timestep
func (q *QLearner) Observe(action mat.Vector,
	nextStep timestep.TimeStep) error {
	if action.Len() != 1 {
		fmt.Fprintf(os.Stderr, "Warning: value-based methods should not "+
			"have multi-dimensional actions (action dim = %d)", action.Len())
	}
	q.step = q.nextStep
	q.action = int(action.AtVec(0))
	q.nextStep = nextStep
	return nil
}

// Step updates the action values of the Agent's Learner and Policy
func (q *QLearner) Step() error {
	state := int(q.step.Observation.AtVec(0))
	next := int(q.nextStep.Observation.AtVec(0))

	// Find the maximum action value in the next state
	maxNext := mat.Max(q.weights.ColView(next))

	// Create the update target
	discount := q.nextStep.Discount
	target := q.nextStep.Reward + discount*maxNext

	// Shrink the step size with the visits of the pair being updated
	visits := q.visits.At(q.action, state) + 1.0
	q.visits.Set(q.action, state, visits)
	stepSize := 1.0 / math.Sqrt(1.0+visits)

	current := q.weights.At(q.action, state)
	q.weights.Set(q.action, state, current+stepSize*(target-current))

	return nil
}

// TdError returns the TD error of the argument transition under the
// current action values
func (q *QLearner) TdError(t timestep.Transition) float64 {
	state := int(t.State.AtVec(0))
	action := int(t.Action.AtVec(0))
	next := int(t.NextState.AtVec(0))

	maxNext := mat.Max(q.weights.ColView(next))
	target := t.Reward + t.Discount*maxNext

	return target - q.weights.At(action, state)
}

// EndEpisode performs cleanup at the end of an episode
func (q *QLearner) EndEpisode() {}

// Weights gets and returns the action-value table of the learner
func (q *QLearner) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights["weights"] = q.weights

	return weights
}

// Visits returns the number of times the argument (action, state)
// pair has been updated
func (q *QLearner) Visits(action, state int) int {
	return int(q.visits.At(action, state))
}
