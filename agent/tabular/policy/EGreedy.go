package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// EGreedy implements an ε-greedy policy over a table of action values.
// The table has one row per action and one column per state. With
// probability 1-ε the policy chooses the action whose value in the
// current state's column is highest, and with probability ε it chooses
// an action uniformly at random. In evaluation mode the policy always
// chooses greedily.
type EGreedy struct {
	weights      *mat.Dense
	GreedyPolicy *Greedy
	epsilon      float64
	seed         rand.Source // Seed for random number generation
	eval         bool
}

// NewEGreedy constructs a new EGreedy policy for the argument
// environment, where e=epsilon is the probability with which a random
// action is selected. The environment must have 1-dimensional discrete
// states and actions enumerated from 0.
func NewEGreedy(e float64, seed uint64,
	env environment.Environment) (*EGreedy, error) {
	if e < 0.0 || e > 1.0 {
		return nil, fmt.Errorf("egreedy: epsilon must be in [0, 1], got %v",
			e)
	}

	greedyPolicy, err := NewGreedy(env)
	if err != nil {
		return nil, fmt.Errorf("egreedy: %v", err)
	}

	// Share the table between both policies
	weights := greedyPolicy.Weights()[WeightsKey]
	source := rand.NewSource(seed)

	return &EGreedy{
		weights:      weights,
		GreedyPolicy: greedyPolicy,
		epsilon:      e,
		seed:         source,
	}, nil
}

// Weights gets and returns the action-value table of the EGreedy
// policy as a string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SelectAction selects an action from the ε-greedy policy
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	// Get the greedy action
	greedyAction := int(p.GreedyPolicy.SelectAction(t).AtVec(0))

	if p.eval {
		return mat.NewVecDense(1, []float64{float64(greedyAction)})
	}

	// Calculate the ε probability of choosing any action at random
	numActions, _ := p.weights.Dims()
	prob := p.epsilon / float64(numActions)
	actionProbabilities := make([]float64, numActions)
	for i := 0; i < numActions; i++ {
		actionProbabilities[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilities[greedyAction] += (1.0 - p.epsilon)

	// Construct a categorical distribution over actions using the
	// action probabilities
	dist := distuv.NewCategorical(actionProbabilities, p.seed)

	action := mat.NewVecDense(1, []float64{dist.Rand()})
	return action
}

// Eval sets the policy to evaluation mode, in which actions are always
// selected greedily
func (p *EGreedy) Eval() { p.eval = true }

// Train sets the policy to training mode
func (p *EGreedy) Train() { p.eval = false }

// IsEval returns whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool { return p.eval }
