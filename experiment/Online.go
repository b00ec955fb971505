package experiment

import (
	"fmt"

	"github.com/samuelfneumann/goinventory/agent"
	env "github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/experiment/checkpointer"
	"github.com/samuelfneumann/goinventory/experiment/tracker"
	ts "github.com/samuelfneumann/goinventory/timestep"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      uint
	currentSteps  uint
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many environment timesteps the experiment is run for. The t
// parameter is a slice of tracker.Tracker which determine what data
// is saved, and the c parameter is a slice of
// checkpointer.Checkpointer which save the state of the agent at
// specific timesteps.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t []tracker.Tracker, c []checkpointer.Checkpointer) *Online {
	return &Online{e, a, steps, 0, t, c}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment, returning
// whether or not the step limit of the experiment was reached during
// the episode
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runepisode: could not reset "+
			"environment: %v", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runepisode: %v", err)
	}
	o.track(step)
	if err := o.checkpoint(step); err != nil {
		return false, fmt.Errorf("runepisode: could not checkpoint: %v", err)
	}

	// Run the next timestep
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runepisode: could not step "+
				"environment: %v", err)
		}

		// Cache the environment step in each Tracker
		o.track(step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runepisode: %v", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runepisode: could not step agent: %v",
				err)
		}

		if err := o.checkpoint(step); err != nil {
			return false, fmt.Errorf("runepisode: could not checkpoint: %v",
				err)
		}
	}

	if step.Last() {
		o.Agent.EndEpisode()
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	ended := false

	var err error
	for !ended {
		ended, err = o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() {
	for _, t := range o.trackers {
		t.Save()
	}
}

// CurrentSteps returns the number of environment steps that the
// experiment has so far run for
func (o *Online) CurrentSteps() uint {
	return o.currentSteps
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// checkpoint checkpoints the agent on the current timestep
func (o *Online) checkpoint(t ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}
