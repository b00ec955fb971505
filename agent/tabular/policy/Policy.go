// Package policy implements policies over tables of action values
package policy

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/environment"
)

const (
	// WeightsKey is the key at which policies store their action-value
	// tables in weight maps: map[string]*mat.Dense
	WeightsKey string = "weights"
)

// tableDims returns the dimensions (actions, states) of an
// action-value table for the argument environment. Tabular policies
// require an environment with 1-dimensional discrete states and
// actions, each enumerated from 0.
func tableDims(env environment.Environment) (actions, states int,
	err error) {
	if env.ActionSpec().Cardinality != environment.Discrete {
		return 0, 0, fmt.Errorf("cannot use non-discrete actions")
	}
	if env.ActionSpec().Shape.Len() != 1 {
		return 0, 0, fmt.Errorf("actions must be 1-dimensional")
	}
	if env.ActionSpec().LowerBound.AtVec(0) != 0.0 {
		return 0, 0, fmt.Errorf("actions must be enumerated starting from 0")
	}
	if env.ObservationSpec().Cardinality != environment.Discrete {
		return 0, 0, fmt.Errorf("cannot use non-discrete states")
	}
	if env.ObservationSpec().Shape.Len() != 1 {
		return 0, 0, fmt.Errorf("states must be 1-dimensional")
	}
	if env.ObservationSpec().LowerBound.AtVec(0) != 0.0 {
		return 0, 0, fmt.Errorf("states must be enumerated starting from 0")
	}

	actions = int(env.ActionSpec().UpperBound.AtVec(0)) + 1
	states = int(env.ObservationSpec().UpperBound.AtVec(0)) + 1
	return actions, states, nil
}
