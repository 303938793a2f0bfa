package notify

import (
	"sync"
	"time"
)

// Debouncer delays a callback so rapid repeated triggers coalesce into one
// invocation after the configured quiet period.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay. A call while a previous trigger is
// still pending resets the timer, so only the last fn runs.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
