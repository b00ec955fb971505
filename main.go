package main

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/goinventory/agent/tabular/qlearning"
	"github.com/samuelfneumann/goinventory/demand"
	"github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/environment/inventory"
	"github.com/samuelfneumann/goinventory/experiment"
	"github.com/samuelfneumann/goinventory/experiment/checkpointer"
	"github.com/samuelfneumann/goinventory/experiment/tracker"
	"github.com/samuelfneumann/goinventory/experiment/trackers"
	"github.com/samuelfneumann/goinventory/mdp"
	"github.com/samuelfneumann/goinventory/solver"
	"github.com/samuelfneumann/goinventory/utils/matutils"
	"github.com/samuelfneumann/goinventory/utils/matutils/initializers/weights"
)

func main() {
	var seed uint64 = 192382
	discount := 0.9

	// Describe the store: it holds at most 10 units, pays 1 per unit
	// held overnight, pays 2 per unit ordered plus a fixed cost of 5
	// per order, and sells units at 6 each. Daily demand follows a
	// truncated geometric distribution.
	pmf, err := demand.TruncGeomPMF(10, 0.3)
	if err != nil {
		panic(err)
	}
	config, err := mdp.NewConfig(10, 1.0, 2.0, 5.0, 6.0, pmf)
	if err != nil {
		panic(err)
	}

	// Compute the optimal ordering policy exactly for reference
	kernel, err := mdp.NewKernel(config)
	if err != nil {
		panic(err)
	}
	vi, err := solver.NewValueIteration(discount, 1e-3,
		solver.DefaultMaxSweeps)
	if err != nil {
		panic(err)
	}
	optimal, _, _, err := vi.Solve(kernel)
	if err != nil {
		panic(err)
	}

	// Create the environment. Running a store is a continuing task, so
	// the whole experiment is one long episode starting from a random
	// stock level.
	starter := environment.NewCategoricalStarter([]int{config.States()},
		seed)
	task := inventory.NewStockControl(config, starter, 0)
	env, _, err := inventory.New(config, task, discount, seed)
	if err != nil {
		panic(err)
	}

	// Create the learning algorithm. Action values are initialized
	// randomly.
	args := qlearning.Config{Epsilon: qlearning.DefaultEpsilon}
	uniform := distuv.Uniform{Min: -1.0, Max: 1.0, Src: rand.NewSource(seed)}
	init := weights.NewLinearUV(uniform)
	q, err := qlearning.New(env, args, init, seed)
	if err != nil {
		panic(err)
	}

	// Record the greedy policy at exponentially increasing step counts
	// to observe how learning progresses
	var steps uint = 10_000_000
	checkpoints := []int{0, 1_000, 10_000, 100_000, 1_000_000, 10_000_000}
	snapshots, err := checkpointer.NewPolicySnapshots(checkpoints, q)
	if err != nil {
		panic(err)
	}

	// Experiment
	progress := trackers.NewProgress(int(steps), 100_000)
	e := experiment.NewOnline(env, q, steps,
		[]tracker.Tracker{progress},
		[]checkpointer.Checkpointer{snapshots})
	if err := e.Run(); err != nil {
		panic(err)
	}
	e.Save()

	for _, snapshot := range snapshots.Snapshots() {
		fmt.Printf("Greedy policy after %8d steps: %v\n", snapshot.Step,
			matutils.Format(snapshot.Policy.T()))
	}
	fmt.Printf("Optimal policy:                      %v\n",
		matutils.Format(optimal.T()))
}
