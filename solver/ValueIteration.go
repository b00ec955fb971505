package solver

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/mdp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultEpsilon is the tolerance below which the change in state
	// values between sweeps is considered negligible
	DefaultEpsilon float64 = 1e-3

	// DefaultMaxSweeps bounds the number of sweeps performed before
	// value iteration gives up
	DefaultMaxSweeps int = 10000
)

// ValueIteration computes an optimal ordering policy by repeatedly
// sweeping the state values with greedy one-day backups until the
// Euclidean distance between successive values falls to a tolerance
type ValueIteration struct {
	discount  float64
	epsilon   float64
	maxSweeps int
}

// NewValueIteration returns a new ValueIteration that discounts each
// following day's profit by discount, stops once the state values
// change by no more than epsilon between sweeps, and fails if
// maxSweeps sweeps do not reach that tolerance.
func NewValueIteration(discount, epsilon float64,
	maxSweeps int) (*ValueIteration, error) {
	if discount < 0.0 || discount >= 1.0 {
		return nil, fmt.Errorf("valueiteration: discount must be in "+
			"[0, 1), got %v", discount)
	}
	if epsilon <= 0.0 {
		return nil, fmt.Errorf("valueiteration: epsilon must be positive, "+
			"got %v", epsilon)
	}
	if maxSweeps < 1 {
		return nil, fmt.Errorf("valueiteration: must allow at least one "+
			"sweep, got %d", maxSweeps)
	}

	return &ValueIteration{
		discount:  discount,
		epsilon:   epsilon,
		maxSweeps: maxSweeps,
	}, nil
}

// Solve computes an optimal ordering policy for the decision process
// held by k, returning the policy, its state values, and the number of
// sweeps performed. If the state values do not converge within the
// sweep limit, Solve returns an error satisfying IsNotConverged.
func (v *ValueIteration) Solve(k *mdp.Kernel) (*mat.VecDense,
	*mat.VecDense, int, error) {
	value := mat.NewVecDense(k.States(), nil)

	for sweep := 1; sweep <= v.maxSweeps; sweep++ {
		policy, newValue := GreedyPolicy(k, value, v.discount)

		change := floats.Distance(value.RawVector().Data,
			newValue.RawVector().Data, 2)
		if change <= v.epsilon {
			return policy, newValue, sweep, nil
		}
		value = newValue
	}

	return nil, nil, v.maxSweeps, &SolverError{
		Op:  "valueiteration: solve",
		Err: errNotConverged,
	}
}
