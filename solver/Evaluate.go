package solver

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/mdp"
	"gonum.org/v1/gonum/mat"
)

// Evaluate computes the state values of following the argument policy
// forever in the decision process held by k, discounting each day's
// profit by discount. The values solve the linear system
//
//	(I - discount*P) V = r
//
// where row s of P holds the transition probabilities out of stock
// level s under the policy's order, and entry s of r is the expected
// single-day profit of that order. The policy must assign a valid
// order size to each stock level, and the discount must be in [0, 1)
// for the system to be solvable in general.
func Evaluate(k *mdp.Kernel, policy mat.Vector,
	discount float64) (*mat.VecDense, error) {
	if discount < 0.0 || discount >= 1.0 {
		return nil, fmt.Errorf("evaluate: discount must be in [0, 1), "+
			"got %v", discount)
	}

	probs, err := k.PolicyMatrix(policy)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %v", err)
	}
	rewards, err := k.PolicyReward(policy)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %v", err)
	}

	numStock := k.States()
	system := mat.NewDense(numStock, numStock, nil)
	system.Scale(-discount, probs)
	for stock := 0; stock < numStock; stock++ {
		system.Set(stock, stock, 1.0+system.At(stock, stock))
	}

	var value mat.VecDense
	if err := value.SolveVec(system, rewards); err != nil {
		return nil, fmt.Errorf("evaluate: could not solve for state "+
			"values: %v", err)
	}
	return &value, nil
}
