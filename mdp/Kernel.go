package mdp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Kernel holds the exact dynamics of the inventory-control decision
// process described by a Config: the probability of moving between any
// two stock levels under any order size, and the expected single-day
// profit of any order size at any stock level.
//
// A Kernel should be treated as immutable once constructed. The
// matrices and tensors it exposes are views of shared storage, not
// copies.
type Kernel struct {
	config Config

	// backing stores transition probabilities in order-major layout:
	// the probability of moving from stock s to stock next under order
	// a is backing[a*S*S + s*S + next], where S is the number of stock
	// levels
	backing []float64

	trans      *tensor.Dense // backing viewed with shape (A, S, S)
	orderProbs []*mat.Dense  // backing viewed as one S×S matrix per order
	avgReward  *mat.Dense    // expected single-day profit, S×A
}

// NewKernel builds the dynamics of the decision process described by
// config. Construction enumerates every combination of stock level,
// order size, and demand exactly once, in a fixed order, so two kernels
// built from the same Config are identical bit for bit.
func NewKernel(config Config) (*Kernel, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newkernel: invalid config: %v", err)
	}

	numStock := config.States()
	numOrders := config.Actions()

	backing := make([]float64, numOrders*numStock*numStock)
	avgReward := mat.NewDense(numStock, numOrders, nil)

	for stock := 0; stock < numStock; stock++ {
		for order := 0; order < numOrders; order++ {
			for demand := 0; demand <= config.Capacity; demand++ {
				prob := config.DemandPMF[demand]
				next := config.NextStock(stock, order, demand)

				backing[order*numStock*numStock+stock*numStock+next] += prob

				reward := config.Reward(stock, order, next)
				avgReward.Set(stock, order,
					avgReward.At(stock, order)+prob*reward)
			}
		}
	}

	trans := tensor.NewDense(
		tensor.Float64,
		[]int{numOrders, numStock, numStock},
		tensor.WithBacking(backing),
	)

	orderProbs := make([]*mat.Dense, numOrders)
	for order := range orderProbs {
		matrix := backing[order*numStock*numStock : (order+1)*numStock*numStock]
		orderProbs[order] = mat.NewDense(numStock, numStock, matrix)
	}

	return &Kernel{
		config:     config,
		backing:    backing,
		trans:      trans,
		orderProbs: orderProbs,
		avgReward:  avgReward,
	}, nil
}

// Config returns the Config whose dynamics the Kernel holds
func (k *Kernel) Config() Config {
	return k.config
}

// States returns the number of stock levels of the decision process
func (k *Kernel) States() int {
	return k.config.States()
}

// Actions returns the number of order sizes of the decision process
func (k *Kernel) Actions() int {
	return k.config.Actions()
}

// Prob returns the probability that a day beginning with the argument
// stock, during which order units arrive, ends with nextStock units
func (k *Kernel) Prob(stock, nextStock, order int) float64 {
	return k.orderProbs[order].At(stock, nextStock)
}

// AvgReward returns the expected single-day profit of ordering order
// units at the argument stock level
func (k *Kernel) AvgReward(stock, order int) float64 {
	return k.avgReward.At(stock, order)
}

// OrderMatrix returns the transition probabilities between stock
// levels when order units are ordered every day. The returned matrix
// is a view into the Kernel's storage and should not be modified.
func (k *Kernel) OrderMatrix(order int) *mat.Dense {
	return k.orderProbs[order]
}

// Tensor returns the transition probabilities between stock levels as
// a tensor of shape (orders, stock levels, stock levels), where entry
// (a, s, next) is the probability of moving from stock s to stock next
// under order size a. The returned tensor is a view into the Kernel's
// storage and should not be modified.
func (k *Kernel) Tensor() *tensor.Dense {
	return k.trans
}

// PolicyMatrix returns the transition probabilities between stock
// levels when orders are placed according to the argument policy. The
// policy must assign a valid order size, as a float64-valued index, to
// each stock level.
func (k *Kernel) PolicyMatrix(policy mat.Vector) (*mat.Dense, error) {
	if err := k.validPolicy(policy); err != nil {
		return nil, fmt.Errorf("policymatrix: %v", err)
	}

	numStock := k.States()
	probs := mat.NewDense(numStock, numStock, nil)
	for stock := 0; stock < numStock; stock++ {
		order := int(policy.AtVec(stock))
		probs.SetRow(stock, k.orderProbs[order].RawRowView(stock))
	}
	return probs, nil
}

// PolicyReward returns the expected single-day profit at each stock
// level when orders are placed according to the argument policy
func (k *Kernel) PolicyReward(policy mat.Vector) (*mat.VecDense, error) {
	if err := k.validPolicy(policy); err != nil {
		return nil, fmt.Errorf("policyreward: %v", err)
	}

	numStock := k.States()
	rewards := mat.NewVecDense(numStock, nil)
	for stock := 0; stock < numStock; stock++ {
		order := int(policy.AtVec(stock))
		rewards.SetVec(stock, k.avgReward.At(stock, order))
	}
	return rewards, nil
}

// validPolicy returns an error if the argument policy does not assign
// a valid order size to every stock level
func (k *Kernel) validPolicy(policy mat.Vector) error {
	if policy.Len() != k.States() {
		return fmt.Errorf("policy must assign an order to each of %d "+
			"stock levels, got %d", k.States(), policy.Len())
	}
	for stock := 0; stock < policy.Len(); stock++ {
		order := int(policy.AtVec(stock))
		if order < 0 || order >= k.Actions() {
			return fmt.Errorf("policy orders %d units at stock level %d, "+
				"but orders must be in [0, %d]", order, stock, k.Actions()-1)
		}
	}
	return nil
}
