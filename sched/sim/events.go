package sim

import (
	"github.com/smorad/minix-sched/sched"
	"github.com/smorad/minix-sched/sched/trace"
)

// EventType identifies the kind of driver event.
type EventType int

const (
	EventStop EventType = iota
	EventStart
	EventRenice
	EventExhaust
	EventTimer
)

var eventTypeNames = map[EventType]string{
	EventStop:    "stop",
	EventStart:   "start",
	EventRenice:  "renice",
	EventExhaust: "quantum_exhausted",
	EventTimer:   "timer",
}

func (t EventType) String() string {
	return eventTypeNames[t]
}

// EventTypePriority orders events sharing a timestamp (lower first).
var EventTypePriority = map[EventType]int{
	EventStop:    0,
	EventStart:   1,
	EventRenice:  2,
	EventExhaust: 3,
	EventTimer:   4,
}

// Event is one scheduled occurrence in a run.
type Event interface {
	Timestamp() int64
	Type() EventType
	// Endpoint is the process the event concerns, -1 for none.
	Endpoint() sched.Endpoint
	Execute(d *Driver) error
}

// StartEvent delivers a start request.
type StartEvent struct {
	time    int64
	Request sched.StartRequest
}

func (e *StartEvent) Timestamp() int64         { return e.time }
func (e *StartEvent) Type() EventType          { return EventStart }
func (e *StartEvent) Endpoint() sched.Endpoint { return e.Request.Endpoint }

// Execute forwards the request to the scheduler.
func (e *StartEvent) Execute(d *Driver) error {
	_, err := d.Scheduler.StartScheduling(e.Request)
	return err
}

// StopEvent delivers a stop request and releases the process in the kernel.
type StopEvent struct {
	time int64
	EP   sched.Endpoint
}

func (e *StopEvent) Timestamp() int64         { return e.time }
func (e *StopEvent) Type() EventType          { return EventStop }
func (e *StopEvent) Endpoint() sched.Endpoint { return e.EP }

// Execute forwards the request to the scheduler.
func (e *StopEvent) Execute(d *Driver) error {
	err := d.Scheduler.StopScheduling(e.EP)
	d.Kernel.Release(e.EP)
	return err
}

// ReniceEvent delivers a nice-level change.
type ReniceEvent struct {
	time  int64
	EP    sched.Endpoint
	Queue int
}

func (e *ReniceEvent) Timestamp() int64         { return e.time }
func (e *ReniceEvent) Type() EventType          { return EventRenice }
func (e *ReniceEvent) Endpoint() sched.Endpoint { return e.EP }

// Execute forwards the request to the scheduler.
func (e *ReniceEvent) Execute(d *Driver) error {
	return d.Scheduler.Renice(e.EP, e.Queue)
}

// ExhaustEvent reports that a process used its whole quantum. Blocked marks
// that the process blocked since its last report, which advances the
// kernel's blocked counter.
type ExhaustEvent struct {
	time    int64
	EP      sched.Endpoint
	Blocked bool
}

func (e *ExhaustEvent) Timestamp() int64         { return e.time }
func (e *ExhaustEvent) Type() EventType          { return EventExhaust }
func (e *ExhaustEvent) Endpoint() sched.Endpoint { return e.EP }

// Execute forwards the report and records the resulting decisions.
func (e *ExhaustEvent) Execute(d *Driver) error {
	if e.Blocked {
		d.blockCounter++
	}
	out, err := d.Scheduler.QuantumExhausted(e.EP, d.blockCounter)
	if d.Trace.Enabled() {
		if out.Eligible {
			d.Trace.RecordTicket(trace.TicketRecord{
				Clock:    e.time,
				Endpoint: int(e.EP),
				Delta:    out.Delta,
				Rejected: out.Rejected,
			})
		}
		if out.Played {
			d.Trace.RecordLottery(trace.LotteryRecord{
				Clock:         e.time,
				WinningTicket: out.Lottery.WinningTicket,
				PoolTotal:     out.Lottery.PoolTotal,
				Winner:        int(out.Lottery.Winner),
				WinnerTickets: out.Lottery.WinnerTickets,
				Losers:        len(out.Lottery.Losers),
				BumpsRejected: out.Lottery.BumpsRejected,
				PushFailures:  out.Lottery.PushFailures,
			})
		}
	}
	return err
}

// TimerEvent fires a callback armed through the driver's Timer.
type TimerEvent struct {
	time int64
	fn   func()
}

func (e *TimerEvent) Timestamp() int64         { return e.time }
func (e *TimerEvent) Type() EventType          { return EventTimer }
func (e *TimerEvent) Endpoint() sched.Endpoint { return -1 }

// Execute runs the callback.
func (e *TimerEvent) Execute(_ *Driver) error {
	e.fn()
	return nil
}
