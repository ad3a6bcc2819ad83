package sched

import "fmt"

// QueueLayout partitions the kernel's priority queues. Lower numbers are
// scheduled sooner. Queues below MinUserQ form the system range, which never
// takes part in the lottery.
type QueueLayout struct {
	NrQueues int `yaml:"nr_queues" validate:"min=2"`
	MinUserQ int `yaml:"min_user_q" validate:"min=0"`
	MaxUserQ int `yaml:"max_user_q" validate:"min=0"`
	WinnerQ  int `yaml:"winner_q" validate:"min=0"`
	LoserQ   int `yaml:"loser_q" validate:"min=0"`
}

// DefaultQueueLayout mirrors the kernel's sixteen queues with the top four
// reserved for system processes.
func DefaultQueueLayout() QueueLayout {
	return QueueLayout{
		NrQueues: 16,
		MinUserQ: 4,
		MaxUserQ: 15,
		WinnerQ:  4,
		LoserQ:   5,
	}
}

// Validate checks the relations between the queue numbers.
func (l QueueLayout) Validate() error {
	if l.NrQueues < 2 {
		return fmt.Errorf("nr_queues must be at least 2, got %d", l.NrQueues)
	}
	if l.MinUserQ < 0 || l.MinUserQ > l.MaxUserQ || l.MaxUserQ >= l.NrQueues {
		return fmt.Errorf("user range %d..%d does not fit in %d queues", l.MinUserQ, l.MaxUserQ, l.NrQueues)
	}
	if !l.IsUserQueue(l.WinnerQ) || !l.IsUserQueue(l.LoserQ) {
		return fmt.Errorf("winner_q %d and loser_q %d must lie in the user range %d..%d",
			l.WinnerQ, l.LoserQ, l.MinUserQ, l.MaxUserQ)
	}
	if l.WinnerQ >= l.LoserQ {
		return fmt.Errorf("winner_q %d must be more favorable than loser_q %d", l.WinnerQ, l.LoserQ)
	}
	return nil
}

// InRange reports whether q names an existing queue.
func (l QueueLayout) InRange(q int) bool {
	return q >= 0 && q < l.NrQueues
}

// IsUserQueue reports whether q lies in the lottery-participating range.
func (l QueueLayout) IsUserQueue(q int) bool {
	return q >= l.MinUserQ && q <= l.MaxUserQ
}
