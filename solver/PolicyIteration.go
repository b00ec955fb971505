package solver

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/mdp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxImprovements bounds the number of improvement rounds
// performed before policy iteration gives up
const DefaultMaxImprovements int = 1000

// policyChangeTol is the Euclidean distance below which two policies
// are considered equal. Policies take integer values, so any distance
// below 1 implies the policies are identical.
const policyChangeTol float64 = 0.1

// PolicyIteration computes an optimal ordering policy by alternating
// exact policy evaluation with greedy policy improvement until the
// policy stops changing
type PolicyIteration struct {
	discount        float64
	maxImprovements int
}

// NewPolicyIteration returns a new PolicyIteration that discounts each
// following day's profit by discount and fails if maxImprovements
// improvement rounds do not reach a stable policy
func NewPolicyIteration(discount float64,
	maxImprovements int) (*PolicyIteration, error) {
	if discount < 0.0 || discount >= 1.0 {
		return nil, fmt.Errorf("policyiteration: discount must be in "+
			"[0, 1), got %v", discount)
	}
	if maxImprovements < 1 {
		return nil, fmt.Errorf("policyiteration: must allow at least one "+
			"improvement, got %d", maxImprovements)
	}

	return &PolicyIteration{
		discount:        discount,
		maxImprovements: maxImprovements,
	}, nil
}

// Solve computes an optimal ordering policy for the decision process
// held by k, returning the policy, its exact state values, and the
// number of improvement rounds performed. The starting policy never
// orders stock. If the policy does not stabilize within the
// improvement limit, Solve returns an error satisfying IsNotConverged.
func (p *PolicyIteration) Solve(k *mdp.Kernel) (*mat.VecDense,
	*mat.VecDense, int, error) {
	policy := mat.NewVecDense(k.States(), nil)

	for improvement := 1; improvement <= p.maxImprovements; improvement++ {
		value, err := Evaluate(k, policy, p.discount)
		if err != nil {
			return nil, nil, improvement,
				fmt.Errorf("policyiteration: solve: %v", err)
		}

		newPolicy, _ := GreedyPolicy(k, value, p.discount)

		change := floats.Distance(policy.RawVector().Data,
			newPolicy.RawVector().Data, 2)
		if change <= policyChangeTol {
			return newPolicy, value, improvement, nil
		}
		policy = newPolicy
	}

	return nil, nil, p.maxImprovements, &SolverError{
		Op:  "policyiteration: solve",
		Err: errNotConverged,
	}
}
