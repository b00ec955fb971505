// Package checkpointer implements checkpointing of agent state at
// specific timesteps of an experiment
package checkpointer

import (
	ts "github.com/samuelfneumann/goinventory/timestep"
)

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
