package inventory

import (
	env "github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/mdp"
	ts "github.com/samuelfneumann/goinventory/timestep"
	"gonum.org/v1/gonum/mat"
)

// StockControl implements the task of running a store at a profit.
// Each day the manager is rewarded with the profit made that day:
// revenue from units sold, minus the cost of units ordered, the fixed
// cost of placing a non-empty order, and the cost of holding the
// morning's stock overnight.
//
// Managing a store is a continuing task. There is no goal stock level,
// and episodes only end if a step limit is set.
type StockControl struct {
	env.Starter
	stepEnder env.Ender // nil when no step limit is set
	config    mdp.Config
}

// NewStockControl returns a new StockControl task for the store
// described by config. The Starter s determines the stock held when a
// store opens for the first time. If episodeSteps is positive,
// episodes end after that many days; otherwise the task continues
// forever.
func NewStockControl(config mdp.Config, s env.Starter,
	episodeSteps int) *StockControl {
	var stepEnder env.Ender
	if episodeSteps > 0 {
		stepEnder = env.NewStepLimit(episodeSteps)
	}

	return &StockControl{s, stepEnder, config}
}

// GetReward returns the profit made over a day that began with the
// argument stock level, during which action units were ordered, and
// which ended with the nextState stock level
func (s *StockControl) GetReward(state, action, nextState mat.Vector) float64 {
	stock := int(state.AtVec(0))
	order := int(action.AtVec(0))
	next := int(nextState.AtVec(0))

	return s.config.Reward(stock, order, next)
}

// AtGoal returns whether the argument state is a goal state. Running
// a store never finishes, so no stock level is a goal.
func (s *StockControl) AtGoal(state mat.Matrix) bool {
	return false
}

// Min returns the minimum attainable single-day profit
func (s *StockControl) Min() float64 {
	min, _ := s.config.RewardBounds()
	return min
}

// Max returns the maximum attainable single-day profit
func (s *StockControl) Max() float64 {
	_, max := s.config.RewardBounds()
	return max
}

// RewardSpec returns the reward specification of the Task
func (s *StockControl) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{s.Min()})
	upperBound := mat.NewVecDense(1, []float64{s.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}

// End determines if a timestep is the last in the episode, modifying
// its StepType and EndType fields if so. Days in a store only stop
// arriving when a step limit was configured and has been reached.
func (s *StockControl) End(t *ts.TimeStep) bool {
	if s.stepEnder == nil {
		return false
	}
	return s.stepEnder.End(t)
}
