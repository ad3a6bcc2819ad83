package sched

import (
	"sync"
	"time"
)

// WallTimer arms callbacks on the wall clock, one tick lasting Tick.
type WallTimer struct {
	Tick time.Duration

	mu      sync.Mutex
	pending *time.Timer
	stopped bool
}

// NewWallTimer creates a WallTimer whose ticks last tick.
func NewWallTimer(tick time.Duration) *WallTimer {
	return &WallTimer{Tick: tick}
}

// Arm implements Timer. Arming replaces any pending callback.
func (w *WallTimer) Arm(ticks int64, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(time.Duration(ticks)*w.Tick, fn)
}

// Stop cancels the pending callback and ignores later Arm calls.
func (w *WallTimer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.pending != nil {
		w.pending.Stop()
	}
}
