// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"github.com/samuelfneumann/goinventory/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when and how episodes end in an environment. An Ender
// inspects the timestep that an environment is about to return and, if the
// episode is over, modifies the timestep so that its StepType field is
// timestep.Last and its EndType records how the episode ended.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme and start-state distribution for
// some environment, as well as the conditions under which episodes in
// the environment end
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for a transition from state to
	// nextState by taking action
	GetReward(state, action, nextState mat.Vector) float64

	// AtGoal returns whether the argument state is a goal state
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards
	Min() float64
	Max() float64

	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a Task to
// complete
type Environment interface {
	Task

	// Reset resets the environment between episodes, returning the
	// first timestep of the new episode
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given an action, returning the
	// next timestep and whether it is the last timestep of the episode
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// CurrentTimeStep returns the last timestep of the environment
	CurrentTimeStep() timestep.TimeStep

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
