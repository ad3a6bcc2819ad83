package sched

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// StartMode distinguishes explicitly configured processes from forked ones.
type StartMode int

const (
	// StartFresh takes queue and quantum from the request.
	StartFresh StartMode = iota
	// StartInherited copies the quantum from the parent.
	StartInherited
)

func (m StartMode) String() string {
	if m == StartInherited {
		return "inherited"
	}
	return "fresh"
}

// StartRequest asks the scheduler to take over a process.
type StartRequest struct {
	Endpoint Endpoint
	Parent   Endpoint
	Ceiling  int
	Quantum  int // ignored for StartInherited
	Mode     StartMode
}

// ExhaustOutcome reports what a quantum-exhaustion event changed.
type ExhaustOutcome struct {
	Eligible bool // the process holds lottery tickets
	Delta    int  // ticket change requested by the policy
	Rejected bool // the change would have left [1, cap]
	Played   bool // a lottery round ran
	Lottery  LotteryResult
}

// Snapshot is a consistent copy of the scheduler state.
type Snapshot struct {
	Records   []Record
	PoolTotal int64
}

// Scheduler handles lifecycle requests for delegated processes. One mutex
// covers the table and pool for a whole handler or balancer pass, so a
// timer firing mid-request waits for the request to finish.
type Scheduler struct {
	mu       sync.Mutex
	cfg      Config
	table    *Table
	resolver Resolver
	kernel   Kernel
	timer    Timer
	lottery  *Lottery
	balancer *Balancer

	blockHighWater int64 // highest blocked counter reported by the kernel
}

// NewScheduler validates cfg and creates a Scheduler. Call Start to arm the
// balancing timer.
func NewScheduler(cfg Config, kernel Kernel, timer Timer, source Source) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	table := NewTable(cfg.Capacity, cfg.Layout)
	return &Scheduler{
		cfg:      cfg,
		table:    table,
		resolver: NewSlotResolver(table),
		kernel:   kernel,
		timer:    timer,
		lottery:  NewLottery(table, kernel, cfg.Policy, source),
		balancer: NewBalancer(table, kernel, cfg.Policy),
	}, nil
}

// Config returns the configuration the scheduler was built with.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Start arms the periodic balancing pass.
func (s *Scheduler) Start() {
	s.timer.Arm(s.cfg.BalancePeriod, s.onBalanceTimer)
	logrus.Infof("scheduler: balancing every %d ticks with policy %+v", s.cfg.BalancePeriod, s.cfg.Policy)
}

func (s *Scheduler) onBalanceTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Arm(s.cfg.BalancePeriod, s.onBalanceTimer)
	if err := s.balancer.Balance(); err != nil {
		if IsInvariantViolation(err) {
			logrus.Errorf("balance: %v", err)
		} else {
			logrus.Warnf("balance: %v", err)
		}
	}
}

// StartScheduling takes over scheduling of a new process and returns the
// endpoint of the scheduler now responsible for it.
func (s *Scheduler) StartScheduling(req StartRequest) (Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout := s.cfg.Layout
	if !layout.InRange(req.Ceiling) {
		return 0, fmt.Errorf("start %d: ceiling %d: %w", req.Endpoint, req.Ceiling, ErrInvalidQueueRange)
	}
	slot, err := s.resolver.Vacant(req.Endpoint)
	if err != nil {
		return 0, err
	}

	args := CreateArgs{
		Endpoint:  req.Endpoint,
		Parent:    req.Parent,
		Ceiling:   req.Ceiling,
		TicketCap: s.cfg.TicketCap,
	}
	switch req.Mode {
	case StartFresh:
		args.Queue = req.Ceiling
		args.Quantum = req.Quantum
		args.Tickets = s.cfg.StartTickets
	case StartInherited:
		pslot, err := s.resolver.Resolve(req.Parent)
		if err != nil {
			return 0, fmt.Errorf("start %d: parent: %w", req.Endpoint, err)
		}
		parent := &s.table.records[pslot]
		args.Queue = layout.LoserQ
		if s.cfg.Policy.Inherit == InheritParentQueue {
			args.Queue = parent.Queue
		}
		args.Quantum = parent.Quantum
		args.Tickets = s.cfg.InheritTickets
	default:
		return 0, fmt.Errorf("start %d: unknown mode %d", req.Endpoint, req.Mode)
	}

	rec, err := s.table.Create(slot, args)
	if err != nil {
		return 0, err
	}
	if err := s.kernel.TakeOver(rec.Endpoint); err != nil {
		logrus.Errorf("scheduler: taking over endpoint %d failed: %v", rec.Endpoint, err)
		return 0, s.release(slot, kernelError(err))
	}
	if err := s.kernel.Schedule(rec.Endpoint, rec.Queue, rec.Quantum); err != nil {
		logrus.Errorf("scheduler: scheduling endpoint %d failed: %v", rec.Endpoint, err)
		return 0, s.release(slot, kernelError(err))
	}
	logrus.Debugf("scheduler: started %s endpoint %d in queue %d, quantum %d, %d tickets",
		req.Mode, rec.Endpoint, rec.Queue, rec.Quantum, rec.Tickets)
	return s.cfg.SelfEndpoint, nil
}

// release frees a slot whose start failed and returns cause.
func (s *Scheduler) release(slot int, cause error) error {
	if err := s.table.Destroy(slot); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// StopScheduling removes a process and returns its tickets to the pool.
func (s *Scheduler) StopScheduling(ep Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.resolver.Resolve(ep)
	if err != nil {
		return err
	}
	if err := s.table.Destroy(slot); err != nil {
		return err
	}
	logrus.Debugf("scheduler: stopped endpoint %d", ep)
	return nil
}

// QuantumExhausted applies the policy's ticket change to a process that ran
// out of quantum, pushes its state and plays a lottery round. blockCount is
// the kernel's accounted blocked counter for the process.
func (s *Scheduler) QuantumExhausted(ep Endpoint, blockCount int64) (ExhaustOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out ExhaustOutcome
	slot, err := s.resolver.Resolve(ep)
	if err != nil {
		return out, err
	}
	rec := &s.table.records[slot]
	out.Eligible = s.table.Eligible(rec)

	out.Delta, s.blockHighWater = s.cfg.Policy.exhaustionDelta(rec, blockCount, s.blockHighWater)
	if err := s.table.Adjust(rec, out.Delta); err != nil {
		switch {
		case errors.Is(err, ErrTicketBoundViolation):
			out.Rejected = true
		case errors.Is(err, ErrNotUserEligible):
			// system processes hold no lottery tickets
		default:
			return out, err
		}
	}

	if err := s.kernel.Schedule(rec.Endpoint, rec.Queue, rec.Quantum); err != nil {
		logrus.Errorf("scheduler: scheduling endpoint %d failed: %v", rec.Endpoint, err)
		return out, kernelError(err)
	}

	out.Lottery, err = s.lottery.Run()
	switch {
	case errors.Is(err, ErrNoEligibleProcesses):
		return out, nil
	case err != nil && IsInvariantViolation(err):
		return out, err
	}
	out.Played = true
	return out, err
}

// Renice sets both the current queue and the ceiling of a process to
// newCeiling. If the kernel refuses the new queue the record is rolled back
// to what the kernel still holds.
func (s *Scheduler) Renice(ep Endpoint, newCeiling int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.Layout.InRange(newCeiling) {
		return fmt.Errorf("renice %d: queue %d: %w", ep, newCeiling, ErrInvalidQueueRange)
	}
	slot, err := s.resolver.Resolve(ep)
	if err != nil {
		return err
	}
	rec := &s.table.records[slot]

	oldQueue, oldCeiling := rec.Queue, rec.Ceiling
	if err := s.table.SetQueue(rec, newCeiling); err != nil {
		return err
	}
	rec.Ceiling = newCeiling

	if err := s.kernel.Schedule(rec.Endpoint, rec.Queue, rec.Quantum); err != nil {
		logrus.Warnf("scheduler: renice of endpoint %d to %d failed, rolling back to queue %d: %v",
			ep, newCeiling, oldQueue, err)
		if rerr := s.table.SetQueue(rec, oldQueue); rerr != nil {
			return errors.Join(kernelError(err), rerr)
		}
		rec.Ceiling = oldCeiling
		return kernelError(err)
	}
	return nil
}

// Snapshot returns a copy of every active record and the pool total.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Records: s.table.Records(), PoolTotal: s.table.PoolTotal()}
}

// CheckInvariants verifies the pool total and ticket bounds.
func (s *Scheduler) CheckInvariants() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.CheckInvariants()
}
