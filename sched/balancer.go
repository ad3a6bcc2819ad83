package sched

import (
	"errors"
	"fmt"
)

// DefaultHz is the number of scheduler ticks per second.
const DefaultHz = 60

// DefaultBalanceSeconds is how often queues are balanced.
const DefaultBalanceSeconds = 5

// Balancer is the periodic standing-refresh pass. It runs on the timer path,
// so it walks the table in place and allocates nothing per record.
type Balancer struct {
	table  *Table
	kernel Kernel
	policy Policy
}

// NewBalancer creates a Balancer over table.
func NewBalancer(table *Table, kernel Kernel, policy Policy) *Balancer {
	return &Balancer{table: table, kernel: kernel, policy: policy}
}

// Balance re-pushes every active record's queue and quantum. With aging
// enabled, eligible records below their cap gain one ticket first.
// All records are visited even when a push fails.
func (b *Balancer) Balance() error {
	var (
		failed int
		first  error
	)
	for slot := range b.table.records {
		rec := &b.table.records[slot]
		if !rec.Active {
			continue
		}
		if b.policy.Aging && b.table.Eligible(rec) && rec.Tickets < rec.TicketCap {
			if err := b.table.Adjust(rec, +1); err != nil && IsInvariantViolation(err) {
				return err
			}
		}
		if err := b.kernel.Schedule(rec.Endpoint, rec.Queue, rec.Quantum); err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if failed > 0 {
		return errors.Join(ErrKernelPushFailed, fmt.Errorf("%d refreshes failed, first: %w", failed, first))
	}
	return nil
}
