// Package mdp implements exact models of the retail inventory-control
// Markov decision process.
//
// A store holds at most Capacity units of stock. Each night the manager
// observes the remaining stock and orders new units, which arrive before
// the store opens. Each day customers buy units until either the demand
// for that day or the stock is exhausted. Stock levels and order sizes
// are the states and actions of the decision process, and the profit
// made in a day is the reward.
package mdp

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goinventory/utils/floatutils"
	"github.com/samuelfneumann/goinventory/utils/intutils"
)

// massTol is the tolerance within which the demand pmf must sum to 1
const massTol float64 = 1e-9

// Config describes a store whose inventory is managed. A Config should
// be treated as immutable: its fields are set once, at construction,
// and shared by every component modelling the same store.
type Config struct {
	// Capacity is the maximum number of units the store can hold. The
	// stock levels and order sizes are then (0, 1, ..., Capacity).
	Capacity int

	// HoldingCost is the cost of storing a single unit overnight
	HoldingCost float64

	// OrderCost is the per-unit cost of ordering new stock
	OrderCost float64

	// OrderSetupCost is the fixed cost of placing any non-empty order
	OrderSetupCost float64

	// SalePrice is the per-unit price customers pay
	SalePrice float64

	// DemandPMF holds the probability of each daily demand
	// (0, 1, ..., Capacity)
	DemandPMF []float64
}

// NewConfig validates the argument parameters and returns a new Config
// describing a store. The demand pmf is copied so that later
// modifications of the argument slice do not affect the Config.
func NewConfig(capacity int, holdingCost, orderCost, orderSetupCost,
	salePrice float64, demandPMF []float64) (Config, error) {
	pmf := make([]float64, len(demandPMF))
	copy(pmf, demandPMF)

	config := Config{
		Capacity:       capacity,
		HoldingCost:    holdingCost,
		OrderCost:      orderCost,
		OrderSetupCost: orderSetupCost,
		SalePrice:      salePrice,
		DemandPMF:      pmf,
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("newconfig: %v", err)
	}
	return config, nil
}

// Validate returns an error describing whether or not the Config is
// valid
func (c Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("validate: capacity must be non-negative, got %d",
			c.Capacity)
	}
	if len(c.DemandPMF) != c.Capacity+1 {
		return fmt.Errorf("validate: demand pmf must have %d entries, got %d",
			c.Capacity+1, len(c.DemandPMF))
	}

	mass := 0.0
	for d, prob := range c.DemandPMF {
		if prob < 0.0 {
			return fmt.Errorf("validate: probability of demand %d is "+
				"negative (%v)", d, prob)
		}
		mass += prob
	}
	if math.Abs(mass-1.0) > massTol {
		return fmt.Errorf("validate: demand pmf must sum to 1, got %v", mass)
	}
	return nil
}

// States returns the number of stock levels the store can be in
func (c Config) States() int {
	return c.Capacity + 1
}

// Actions returns the number of order sizes the manager can choose from
func (c Config) Actions() int {
	return c.Capacity + 1
}

// Replenish returns the stock on hand when the store opens, after an
// order of the argument size arrives at a store holding stock units.
// Units that do not fit in the store are turned away.
func (c Config) Replenish(stock, order int) int {
	return intutils.Min(c.Capacity, stock+order)
}

// NextStock returns the stock remaining at the end of a day that began
// with the argument stock, during which order units arrived and demand
// units were requested by customers
func (c Config) NextStock(stock, order, demand int) int {
	return intutils.Max(0, c.Replenish(stock, order)-demand)
}

// Reward returns the profit made in a day that began with the argument
// stock, during which order units were ordered and at the end of which
// nextStock units remained. Profit is the revenue from units sold minus
// the per-unit order cost, the fixed cost of placing a non-empty order,
// and the overnight holding cost of the starting stock.
func (c Config) Reward(stock, order, nextStock int) float64 {
	sold := c.Replenish(stock, order) - nextStock

	reward := c.SalePrice*float64(sold) - c.OrderCost*float64(order) -
		c.HoldingCost*float64(stock)
	if order > 0 {
		reward -= c.OrderSetupCost
	}
	return reward
}

// RewardBounds returns the minimum and maximum single-day profit over
// every combination of stock level, order size, and demand
func (c Config) RewardBounds() (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)

	for stock := 0; stock < c.States(); stock++ {
		for order := 0; order < c.Actions(); order++ {
			for demand := 0; demand <= c.Capacity; demand++ {
				reward := c.Reward(stock, order,
					c.NextStock(stock, order, demand))
				min = floatutils.Min(min, reward)
				max = floatutils.Max(max, reward)
			}
		}
	}
	return min, max
}
