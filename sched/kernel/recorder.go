// Package kernel provides an in-memory stand-in for the kernel's scheduling
// control interface. It remembers what the kernel currently believes about
// each process and can be told to refuse calls.
package kernel

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/smorad/minix-sched/sched"
)

var (
	// ErrNotOwned is returned when scheduling a process that was never taken over.
	ErrNotOwned = errors.New("process not owned by this scheduler")
	// ErrInjected is returned by randomly injected failures.
	ErrInjected = errors.New("injected kernel failure")
)

// Assignment is the queue and quantum the kernel holds for a process.
type Assignment struct {
	Queue   int
	Quantum int
}

// Call is one recorded control call.
type Call struct {
	Op       string // "takeover" or "schedule"
	Endpoint sched.Endpoint
	Queue    int
	Quantum  int
	Err      error
}

// Recorder implements sched.Kernel.
type Recorder struct {
	mu           sync.Mutex
	calls        []Call
	owned        map[sched.Endpoint]bool
	assigned     map[sched.Endpoint]Assignment
	failTakeOver map[sched.Endpoint]error
	failSchedule map[sched.Endpoint]error
	failureRate  float64
	rng          *rand.Rand
}

// NewRecorder creates a Recorder that accepts every call.
func NewRecorder() *Recorder {
	return &Recorder{
		owned:        make(map[sched.Endpoint]bool),
		assigned:     make(map[sched.Endpoint]Assignment),
		failTakeOver: make(map[sched.Endpoint]error),
		failSchedule: make(map[sched.Endpoint]error),
	}
}

// FailTakeOver makes every TakeOver of ep return err until Clear.
func (r *Recorder) FailTakeOver(ep sched.Endpoint, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failTakeOver[ep] = err
}

// FailSchedule makes every Schedule of ep return err until Clear.
func (r *Recorder) FailSchedule(ep sched.Endpoint, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failSchedule[ep] = err
}

// Clear removes the failures configured for ep.
func (r *Recorder) Clear(ep sched.Endpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.failTakeOver, ep)
	delete(r.failSchedule, ep)
}

// SetFailureRate makes each Schedule call fail with probability rate,
// drawing from rng. A zero rate disables injection.
func (r *Recorder) SetFailureRate(rate float64, rng *rand.Rand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failureRate = rate
	r.rng = rng
}

// TakeOver implements sched.Kernel.
func (r *Recorder) TakeOver(ep sched.Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.failTakeOver[ep]
	if err == nil {
		r.owned[ep] = true
	}
	r.calls = append(r.calls, Call{Op: "takeover", Endpoint: ep, Err: err})
	return err
}

// Schedule implements sched.Kernel. A failed call leaves the previous
// assignment in place.
func (r *Recorder) Schedule(ep sched.Endpoint, queue, quantum int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.failSchedule[ep]
	switch {
	case err != nil:
	case !r.owned[ep]:
		err = fmt.Errorf("endpoint %d: %w", ep, ErrNotOwned)
	case r.failureRate > 0 && r.rng != nil && r.rng.Float64() < r.failureRate:
		err = fmt.Errorf("endpoint %d: %w", ep, ErrInjected)
	default:
		r.assigned[ep] = Assignment{Queue: queue, Quantum: quantum}
	}
	r.calls = append(r.calls, Call{Op: "schedule", Endpoint: ep, Queue: queue, Quantum: quantum, Err: err})
	return err
}

// Assignment returns what the kernel currently holds for ep.
func (r *Recorder) Assignment(ep sched.Endpoint) (Assignment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assigned[ep]
	return a, ok
}

// Calls returns a copy of every recorded call in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Release forgets ownership of ep, as the kernel does when a process exits.
func (r *Recorder) Release(ep sched.Endpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owned, ep)
	delete(r.assigned, ep)
}
