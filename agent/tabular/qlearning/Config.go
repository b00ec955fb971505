package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/agent"
	"github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/utils/matutils/initializers/weights"
)

// Config represents a configuration for the QLearning agent
type Config struct {
	Epsilon float64 // epsilon for behaviour policy
}

// CreateAgent creates the agent from the Config. Action values are
// always initialized to zero using this function. To initialize from
// some other distribution, use the agent's constructor manually.
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {

	// Create the zero weight initializer
	rand := weights.NewZeroUV() // Zero RNG
	init := weights.NewLinearUV(rand)

	return New(env, c, init, seed)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*QLearning)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 {
		return fmt.Errorf("epsilon cannot be lower than 0")
	}
	return nil
}
