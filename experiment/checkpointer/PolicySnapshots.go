package checkpointer

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/goinventory/timestep"
)

// PolicySource is any object that can report the greedy policy with
// respect to its current action value estimates
type PolicySource interface {
	GreedyPolicy() *mat.VecDense
}

// PolicySnapshot records the greedy policy of a PolicySource at a
// single checkpoint step
type PolicySnapshot struct {
	Step   int
	Policy *mat.VecDense
}

// PolicySnapshots checkpoints the greedy policy of a learning agent
// at a fixed, increasing list of timesteps. Checkpoint steps are
// compared against timestep.TimeStep.Number, the step number within
// the current episode. On continuing tasks, where a single episode
// lasts the entire experiment, these coincide with the total number
// of environment steps taken.
//
// Snapshots are kept in memory rather than saved to disk, so that
// checkpointed policies can be compared against one another after an
// experiment finishes.
type PolicySnapshots struct {
	steps     []int
	next      int
	source    PolicySource
	snapshots []PolicySnapshot
}

// NewPolicySnapshots returns a Checkpointer that records the greedy
// policy of source at each step in steps. The steps must be sorted in
// increasing order.
func NewPolicySnapshots(steps []int, source PolicySource) (*PolicySnapshots,
	error) {
	if !sort.IntsAreSorted(steps) {
		return nil, fmt.Errorf("policysnapshots: checkpoint steps must " +
			"be sorted in increasing order")
	}
	checkpoints := make([]int, len(steps))
	copy(checkpoints, steps)

	return &PolicySnapshots{
		steps:  checkpoints,
		source: source,
	}, nil
}

// Checkpoint records the greedy policy of the tracked PolicySource if
// the argument timestep is a checkpoint step
func (p *PolicySnapshots) Checkpoint(t ts.TimeStep) error {
	for p.next < len(p.steps) && t.Number >= p.steps[p.next] {
		p.snapshots = append(p.snapshots, PolicySnapshot{
			Step:   p.steps[p.next],
			Policy: p.source.GreedyPolicy(),
		})
		p.next++
	}
	return nil
}

// Snapshots returns the policies recorded at each checkpoint step
// reached so far
func (p *PolicySnapshots) Snapshots() []PolicySnapshot {
	return p.snapshots
}
