package sched

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// LotteryResult describes one lottery round.
type LotteryResult struct {
	WinningTicket int64
	PoolTotal     int64
	Winner        Endpoint
	WinnerTickets int
	Losers        []Endpoint
	// BumpsRejected counts losers whose fairness bump hit the ticket cap.
	BumpsRejected int
	PushFailures  int
}

// Lottery draws one winner among the eligible records of a table.
type Lottery struct {
	table  *Table
	kernel Kernel
	policy Policy
	source Source
}

// NewLottery creates a Lottery over table that pushes its decisions to kernel.
func NewLottery(table *Table, kernel Kernel, policy Policy, source Source) *Lottery {
	return &Lottery{table: table, kernel: kernel, policy: policy, source: source}
}

// Run plays one round. The winner moves to the winner queue; every other
// eligible record moves to the loser queue and receives the policy's
// fairness bump. Each visited record is pushed to the kernel; push failures
// are reported together after the whole table has been processed.
func (l *Lottery) Run() (LotteryResult, error) {
	layout := l.table.Layout()
	pool := l.table.PoolTotal()
	if pool <= 0 {
		return LotteryResult{}, ErrNoEligibleProcesses
	}
	res := LotteryResult{
		WinningTicket: l.source.Int63n(pool),
		PoolTotal:     pool,
	}

	// Select first so a bookkeeping defect leaves every queue untouched.
	winner := -1
	var cumulative int64
	for slot := range l.table.records {
		rec := &l.table.records[slot]
		if !l.table.Eligible(rec) {
			continue
		}
		cumulative += int64(rec.Tickets)
		if cumulative > res.WinningTicket {
			winner = slot
			break
		}
	}
	if winner < 0 {
		logrus.Errorf("lottery: ticket %d not reached, scanned %d of pool %d", res.WinningTicket, cumulative, pool)
		return res, fmt.Errorf("ticket %d, scanned %d of pool %d: %w", res.WinningTicket, cumulative, pool, ErrLotteryExhausted)
	}

	var errs []error
	for slot := range l.table.records {
		rec := &l.table.records[slot]
		if !l.table.Eligible(rec) {
			continue
		}
		if slot == winner {
			rec.Queue = layout.WinnerQ
			res.Winner = rec.Endpoint
			res.WinnerTickets = rec.Tickets
		} else {
			rec.Queue = layout.LoserQ
			if err := l.table.Adjust(rec, l.policy.loserDelta(rec)); err != nil {
				if !errors.Is(err, ErrTicketBoundViolation) {
					errs = append(errs, err)
				} else {
					res.BumpsRejected++
				}
			}
			res.Losers = append(res.Losers, rec.Endpoint)
		}
		if err := l.kernel.Schedule(rec.Endpoint, rec.Queue, rec.Quantum); err != nil {
			logrus.Errorf("lottery: scheduling endpoint %d failed: %v", rec.Endpoint, err)
			res.PushFailures++
			errs = append(errs, kernelError(err))
		}
	}
	logrus.Debugf("lottery: ticket %d of %d, winner %d[%d], %d losers",
		res.WinningTicket, pool, res.Winner, res.WinnerTickets, len(res.Losers))
	return res, errors.Join(errs...)
}
