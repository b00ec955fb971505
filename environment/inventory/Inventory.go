// Package inventory implements the retail store environment for
// inventory control.
//
// The state of a store is the number of units it holds, observed each
// night after closing. An action is the number of new units ordered
// that night; ordered units arrive before the store opens, and any
// units beyond the store's capacity are turned away. During the day,
// customers buy units until the day's demand or the stock runs out.
// Rewards are the daily profits of the store.
package inventory

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goinventory/demand"
	env "github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/mdp"
	ts "github.com/samuelfneumann/goinventory/timestep"
	"gonum.org/v1/gonum/mat"
)

// Inventory implements the day-by-day simulation of a store. States
// and observations are 1-dimensional vectors holding the current
// stock; actions are 1-dimensional vectors holding the order size.
// Daily demands are drawn from the demand pmf of the store's Config.
type Inventory struct {
	env.Task
	config      mdp.Config
	demand      *demand.Distribution
	discount    float64
	currentStep ts.TimeStep
}

// New returns a new Inventory environment simulating the store
// described by config, together with the first timestep of the
// environment. The argument task determines the starting stock. The
// seed determines the sequence of daily demands.
func New(config mdp.Config, t env.Task, discount float64,
	seed uint64) (*Inventory, ts.TimeStep, error) {
	if err := config.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: invalid config: %v", err)
	}

	dist, err := demand.NewDistribution(config.DemandPMF,
		rand.NewSource(seed))
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not create "+
			"demand distribution: %v", err)
	}

	start := t.Start()
	if err := validateStart(start, config); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	firstStep := ts.New(ts.First, 0.0, discount, start, 0)

	inventory := &Inventory{
		Task:        t,
		config:      config,
		demand:      dist,
		discount:    discount,
		currentStep: firstStep,
	}

	return inventory, firstStep, nil
}

// Reset resets the environment, returning the first timestep of a new
// episode with a starting stock drawn from the environment Starter
func (i *Inventory) Reset() (ts.TimeStep, error) {
	start := i.Start()
	if err := validateStart(start, i.config); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	startStep := ts.New(ts.First, 0.0, i.discount, start, 0)
	i.currentStep = startStep

	return startStep, nil
}

// Step simulates one day of the store given the night's order,
// returning the next timestep and whether it is the last of the
// episode. Ordered units that do not fit in the store are turned away,
// and customers can only buy units that are in stock, so order sizes
// outside [0, Capacity] are tolerated and truncated by the store
// itself. Orders must still be 1-dimensional.
func (i *Inventory) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: orders must be " +
			"1-dimensional")
	}

	stock := int(i.currentStep.Observation.AtVec(0))
	order := int(action.AtVec(0))

	demanded := i.demand.Rand()
	next := i.config.NextStock(stock, order, demanded)
	nextState := mat.NewVecDense(1, []float64{float64(next)})

	reward := i.GetReward(i.currentStep.Observation, action, nextState)
	nextStep := ts.New(ts.Mid, reward, i.discount, nextState,
		i.currentStep.Number+1)

	last := i.End(&nextStep)
	i.currentStep = nextStep

	return nextStep, last, nil
}

// CurrentTimeStep returns the last timestep of the environment
func (i *Inventory) CurrentTimeStep() ts.TimeStep {
	return i.currentStep
}

// ActionSpec returns the action specification of the environment
func (i *Inventory) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{float64(i.config.Capacity)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (i *Inventory) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{float64(i.config.Capacity)})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discounting specification of the
// environment
func (i *Inventory) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{i.discount})
	upperBound := mat.NewVecDense(1, []float64{i.discount})

	return env.NewSpec(shape, env.Discount, lowerBound, upperBound,
		env.Continuous)
}

// validateStart returns an error if the argument state is not a legal
// stock level for the store described by config
func validateStart(state *mat.VecDense, config mdp.Config) error {
	if state.Len() != 1 {
		return fmt.Errorf("starting stock must be 1-dimensional, got %d "+
			"dimensions", state.Len())
	}

	stock := int(state.AtVec(0))
	if stock < 0 || stock > config.Capacity {
		return fmt.Errorf("starting stock %d is outside the store's "+
			"capacity [0, %d]", stock, config.Capacity)
	}
	return nil
}
