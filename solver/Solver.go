// Package solver implements exact solution methods for inventory-control
// decision processes: policy evaluation by linear solve, value iteration,
// and policy iteration.
package solver

import (
	"github.com/samuelfneumann/goinventory/mdp"
	"github.com/samuelfneumann/goinventory/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// A Solver computes an optimal ordering policy for the decision
// process held by a Kernel. Solve returns the policy, the state values
// of following that policy, and the number of iterations performed.
type Solver interface {
	Solve(k *mdp.Kernel) (policy, value *mat.VecDense, iterations int,
		err error)
}

// GreedyPolicy returns the policy that is greedy for a single day with
// respect to the argument state values, together with the new state
// values of that greedy choice. Entry s of the returned policy is the
// order size maximizing the expected profit of a day at stock level s
// plus the discounted value of the stock it leads to; when several
// order sizes are equally good, the smallest is chosen.
func GreedyPolicy(k *mdp.Kernel, value *mat.VecDense,
	discount float64) (*mat.VecDense, *mat.VecDense) {
	numStock := k.States()
	numOrders := k.Actions()

	// Expected profits of each (stock, order) pair over one day,
	// including the discounted value of the next stock level
	qValues := mat.NewDense(numStock, numOrders, nil)
	expected := mat.NewVecDense(numStock, nil)
	for order := 0; order < numOrders; order++ {
		expected.MulVec(k.OrderMatrix(order), value)
		for stock := 0; stock < numStock; stock++ {
			qValues.Set(stock, order,
				k.AvgReward(stock, order)+discount*expected.AtVec(stock))
		}
	}

	policy := mat.NewVecDense(numStock, nil)
	newValue := mat.NewVecDense(numStock, nil)
	for stock := 0; stock < numStock; stock++ {
		best := matutils.MaxVec(qValues.RowView(stock))
		policy.SetVec(stock, float64(best))
		newValue.SetVec(stock, qValues.At(stock, best))
	}

	return policy, newValue
}
