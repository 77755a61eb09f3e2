package autosave

import (
	"sync"
	"time"
)

// Debouncer runs at most one pending effect. Scheduling again before the delay
// elapses cancels the pending effect and restarts the window (trailing edge).
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
}

// NewDebouncer creates an idle debouncer
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Schedule replaces any pending effect with effect, to run after delay
func (d *Debouncer) Schedule(effect func(), delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = effect
	d.timer = time.AfterFunc(delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	effect := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	effect()
}

// Pending reports whether an effect is waiting to run
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush runs the pending effect now, if any
func (d *Debouncer) Flush() {
	d.mu.Lock()
	effect := d.take()
	d.mu.Unlock()

	if effect != nil {
		effect()
	}
}

// Cancel drops the pending effect without running it
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.take()
	d.mu.Unlock()
}

func (d *Debouncer) take() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	effect := d.pending
	d.pending = nil
	return effect
}
