// Package qlearning implements the tabular Q-Learning algorithm
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/agent"
	"github.com/samuelfneumann/goinventory/agent/tabular/policy"
	"github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/utils/matutils"
	"github.com/samuelfneumann/goinventory/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is the exploration rate of the behaviour policy when
// no other rate is specified
const DefaultEpsilon float64 = 0.3

// QLearning implements the tabular Q-Learning algorithm. The agent
// behaves according to an ε-greedy policy over a table of action
// values and learns the action values of the greedy target policy.
// Actions selected by this algorithm will always be enumerated as
// (0, 1, 2, ..., N) where N is the maximum possible action.
type QLearning struct {
	agent.Learner
	agent.Policy // Behaviour
	Target       agent.Policy
	weights      *mat.Dense
	seed         uint64
}

// New creates a new QLearning agent acting in the argument
// environment. The initializer init fills the agent's action-value
// table before learning begins.
func New(env environment.Environment, config Config,
	init weights.Initializer, seed uint64) (*QLearning, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("qlearning: %v", err)
	}

	behaviour, err := policy.NewEGreedy(config.Epsilon, seed, env)
	if err != nil {
		return nil, fmt.Errorf("qlearning: invalid behaviour policy: %v",
			err)
	}

	// The greedy target policy shares the behaviour policy's table
	target := behaviour.GreedyPolicy

	table := behaviour.Weights()[policy.WeightsKey]
	init.Initialize(table)

	learner := NewQLearner(table)

	return &QLearning{learner, behaviour, target, table, seed}, nil
}

// GreedyPolicy returns the policy that is greedy with respect to the
// agent's current action values. Entry s of the returned vector is the
// action whose value in state s is highest; when several actions share
// the highest value, the one with the lowest index is chosen.
func (q *QLearning) GreedyPolicy() *mat.VecDense {
	_, states := q.weights.Dims()

	table := mat.NewVecDense(states, nil)
	for state := 0; state < states; state++ {
		best := matutils.MaxVec(q.weights.ColView(state))
		table.SetVec(state, float64(best))
	}
	return table
}
