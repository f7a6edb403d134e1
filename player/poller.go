package player

import (
	"context"
	"time"
)

// PollResult is the terminal outcome of a bounded poll
type PollResult int

const (
	PollConfirmed PollResult = iota // probe reported true
	PollExhausted                   // attempt budget spent
	PollCancelled                   // cancelled before a verdict
)

// Poller runs a probe a fixed number of times at a fixed interval.
// Payment confirmation lands via a webhook outside the client's
// control, so the client waits a bounded while and then gives up
// rather than spinning forever.
type Poller struct {
	Attempts int
	Interval time.Duration
}

// PollTask is a handle on one running poll. The view tears it down
// with Cancel() on unmount so no timer survives navigation away.
type PollTask struct {
	cancel context.CancelFunc
	done   chan PollResult
}

// Cancel stops the poll; a tick already in flight is discarded
func (t *PollTask) Cancel() {
	t.cancel()
}

// Wait blocks until the poll reaches a terminal result
func (t *PollTask) Wait() PollResult {
	return <-t.done
}

// Start launches the poll. Each tick waits the interval first, then
// probes; a confirmed probe ends the poll immediately with no further
// attempts sent.
func (p *Poller) Start(ctx context.Context, probe func(context.Context) bool) *PollTask {
	ctx, cancel := context.WithCancel(ctx)
	task := &PollTask{cancel: cancel, done: make(chan PollResult, 1)}

	go func() {
		defer cancel()
		timer := time.NewTimer(p.Interval)
		defer timer.Stop()

		for attempt := 1; attempt <= p.Attempts; attempt++ {
			select {
			case <-ctx.Done():
				task.done <- PollCancelled
				return
			case <-timer.C:
			}
			if probe(ctx) {
				task.done <- PollConfirmed
				return
			}
			timer.Reset(p.Interval)
		}
		task.done <- PollExhausted
	}()

	return task
}
