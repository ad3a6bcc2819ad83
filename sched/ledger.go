package sched

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Every change to the pool total happens in this file: Adjust moves single
// tickets, deposit and withdraw move a record's whole balance when it enters
// or leaves the lottery.

// PoolTotal returns the number of tickets held by eligible records.
func (t *Table) PoolTotal() int64 {
	return t.pool
}

// Adjust changes rec's tickets by delta, keeping the result inside
// [1, TicketCap]. A rejected adjustment leaves rec and the pool unchanged.
func (t *Table) Adjust(rec *Record, delta int) error {
	if !t.Eligible(rec) {
		return fmt.Errorf("endpoint %d in queue %d: %w", rec.Endpoint, rec.Queue, ErrNotUserEligible)
	}
	n := rec.Tickets + delta
	if n < 1 || n > rec.TicketCap {
		logrus.Debugf("could not allot %+d tickets to endpoint %d: %d would leave [1, %d]",
			delta, rec.Endpoint, n, rec.TicketCap)
		return fmt.Errorf("endpoint %d: %d%+d outside [1, %d]: %w",
			rec.Endpoint, rec.Tickets, delta, rec.TicketCap, ErrTicketBoundViolation)
	}
	if t.pool+int64(delta) < 0 {
		return fmt.Errorf("endpoint %d: pool %d%+d: %w", rec.Endpoint, t.pool, delta, ErrPoolUnderflow)
	}
	rec.Tickets = n
	t.pool += int64(delta)
	return nil
}

// SetTickets adjusts rec to exactly n tickets through Adjust.
func (t *Table) SetTickets(rec *Record, n int) error {
	return t.Adjust(rec, n-rec.Tickets)
}

// SetQueue moves rec to queue q. Crossing the user-range boundary deposits
// or withdraws the record's tickets so the pool keeps matching.
func (t *Table) SetQueue(rec *Record, q int) error {
	if !t.layout.InRange(q) {
		return fmt.Errorf("queue %d of %d: %w", q, t.layout.NrQueues, ErrInvalidQueueRange)
	}
	was := t.Eligible(rec)
	if was && !t.layout.IsUserQueue(q) {
		if err := t.withdraw(rec); err != nil {
			return err
		}
	}
	rec.Queue = q
	if !was && t.Eligible(rec) {
		t.deposit(rec)
	}
	return nil
}

func (t *Table) deposit(rec *Record) {
	t.pool += int64(rec.Tickets)
}

func (t *Table) withdraw(rec *Record) error {
	if t.pool < int64(rec.Tickets) {
		logrus.Errorf("ticket pool underflow: endpoint %d holds %d tickets, pool is %d",
			rec.Endpoint, rec.Tickets, t.pool)
		return fmt.Errorf("endpoint %d: pool %d - %d: %w", rec.Endpoint, t.pool, rec.Tickets, ErrPoolUnderflow)
	}
	t.pool -= int64(rec.Tickets)
	return nil
}
