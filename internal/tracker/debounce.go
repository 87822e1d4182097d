package tracker

import (
	"sync"
	"time"
)

const DefaultSettle = 100 * time.Millisecond

// Debouncer runs a callback once events have stopped arriving for the settle interval.
// Each Trigger replaces the pending callback and restarts the timer; a superseded
// callback never runs.
type Debouncer struct {
	mu     sync.Mutex
	settle time.Duration
	timer  *time.Timer
	gen    uint64
}

// NewDebouncer returns a debouncer with the given settle interval.
func NewDebouncer(settle time.Duration) *Debouncer {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Debouncer{settle: settle}
}

// Trigger schedules fn after the settle interval, cancelling any pending callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.settle, func() {
		d.mu.Lock()
		current := gen == d.gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop cancels the pending callback, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
