// Package sim drives a lottery scheduler with a deterministic stream of
// lifecycle events. It plays the roles the kernel and the request layer play
// in production: it delivers start, stop, renice and quantum-exhaustion
// requests, keeps the scheduler's timer on the simulated clock and records
// every decision in a trace.
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/smorad/minix-sched/internal/telemetry"
	"github.com/smorad/minix-sched/sched"
	"github.com/smorad/minix-sched/sched/kernel"
	"github.com/smorad/minix-sched/sched/trace"
)

// Driver runs one scheduler against an event stream on a simulated clock.
//
// Thread-safety: NOT thread-safe. Must be run from a single goroutine.
type Driver struct {
	Clock     int64
	Scheduler *sched.Scheduler
	Kernel    *kernel.Recorder
	Trace     *trace.SimulationTrace

	events       *EventHeap
	pending      int   // queued events other than timers
	blockCounter int64 // kernel's global blocked counter
	processed    int
}

// Report summarizes a finished run.
type Report struct {
	RunID     string
	Clock     int64
	Events    int
	Summary   *trace.TraceSummary
	Snapshot  sched.Snapshot
	Invariant error // nil when the pool and ticket bounds check out
}

// NewDriver builds a scheduler from cfg whose lottery draws come from the
// rng's lottery subsystem, wired to a fresh kernel recorder.
func NewDriver(cfg sched.Config, rng *sched.PartitionedRNG, tc trace.TraceConfig) (*Driver, error) {
	d := &Driver{
		Kernel: kernel.NewRecorder(),
		Trace:  trace.NewSimulationTrace(tc),
		events: NewEventHeap(),
	}
	s, err := sched.NewScheduler(cfg, d.Kernel, d, rng.ForSubsystem(sched.SubsystemLottery))
	if err != nil {
		return nil, err
	}
	d.Scheduler = s
	return d, nil
}

// Arm implements sched.Timer on the simulated clock.
func (d *Driver) Arm(ticks int64, fn func()) {
	d.Schedule(&TimerEvent{time: d.Clock + ticks, fn: fn})
}

// Schedule queues an event.
func (d *Driver) Schedule(e Event) {
	if e.Type() != EventTimer {
		d.pending++
	}
	d.events.Schedule(e)
}

// ScheduleAll queues every event.
func (d *Driver) ScheduleAll(events []Event) {
	for _, e := range events {
		d.Schedule(e)
	}
}

// Run starts the scheduler and processes events until only timers are left
// or the next event lies beyond horizon. Caller errors and kernel failures are
// recorded and the run continues; an invariant violation ends it.
func (d *Driver) Run(ctx context.Context, horizon int64) (*Report, error) {
	d.Scheduler.Start()
	for d.pending > 0 {
		if err := ctx.Err(); err != nil {
			return d.report(), err
		}
		next := d.events.Peek()
		if next.Timestamp() > horizon {
			break
		}
		d.events.PopNext()
		if next.Type() != EventTimer {
			d.pending--
		}
		d.Clock = next.Timestamp()
		d.processed++

		if err := d.execute(ctx, next); err != nil {
			return d.report(), err
		}
	}
	logrus.Infof("run %s finished at tick %d after %d events", d.Trace.RunID, d.Clock, d.processed)
	return d.report(), nil
}

func (d *Driver) execute(ctx context.Context, e Event) error {
	_, span := telemetry.StartSpan(ctx, e.Type().String(), map[string]int64{
		"sched.clock":    e.Timestamp(),
		"sched.endpoint": int64(e.Endpoint()),
	})
	err := e.Execute(d)
	telemetry.EndSpan(span, err)
	if err == nil {
		return nil
	}

	logrus.Debugf("[tick %07d] %s of endpoint %d: %v", d.Clock, e.Type(), e.Endpoint(), err)
	if d.Trace.Enabled() {
		d.Trace.RecordFailure(trace.FailureRecord{
			Clock:    d.Clock,
			Endpoint: int(e.Endpoint()),
			Event:    e.Type().String(),
			Error:    err.Error(),
		})
	}
	if sched.IsInvariantViolation(err) {
		logrus.Errorf("[tick %07d] invariant violated: %v", d.Clock, err)
		return fmt.Errorf("tick %d, %s of endpoint %d: %w", d.Clock, e.Type(), e.Endpoint(), err)
	}
	if !errors.Is(err, sched.ErrKernelPushFailed) && !errors.Is(err, sched.ErrUnknownProcess) {
		logrus.Warnf("[tick %07d] %s of endpoint %d rejected: %v", d.Clock, e.Type(), e.Endpoint(), err)
	}
	return nil
}

func (d *Driver) report() *Report {
	return &Report{
		RunID:     d.Trace.RunID,
		Clock:     d.Clock,
		Events:    d.processed,
		Summary:   trace.Summarize(d.Trace),
		Snapshot:  d.Scheduler.Snapshot(),
		Invariant: d.Scheduler.CheckInvariants(),
	}
}
