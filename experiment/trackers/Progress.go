package trackers

import (
	"github.com/samuelfneumann/goinventory/experiment/tracker"
	"github.com/samuelfneumann/goinventory/timestep"
	"github.com/samuelfneumann/goinventory/utils/progressbar"
)

// Progress displays a progress bar for a running experiment. It tracks
// no data. Register a Progress with an experiment to see how far along
// the experiment is, which is useful for experiments that run for many
// millions of timesteps.
type Progress struct {
	bar          *progressbar.ProgressBar
	displayEvery int
	steps        int
}

// NewProgress returns a Tracker which displays a progress bar that
// fills after max tracked timesteps, redrawing every displayEvery
// timesteps
func NewProgress(max, displayEvery int) tracker.Tracker {
	return &Progress{
		bar:          progressbar.New(50, max),
		displayEvery: displayEvery,
	}
}

// Track increments the progress bar and periodically redraws it
func (p *Progress) Track(t timestep.TimeStep) {
	if t.First() {
		return
	}

	p.bar.Increment()
	p.steps++
	if p.steps%p.displayEvery == 0 {
		p.bar.Display()
	}
}

// Save finalizes the progress bar display
func (p *Progress) Save() {
	p.bar.Display()
	p.bar.Close()
}
