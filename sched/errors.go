package sched

import "errors"

// Caller errors: rejected synchronously, no side effects.
var (
	ErrInvalidQueueRange = errors.New("queue out of range")
	ErrUnknownProcess    = errors.New("unknown process")
	ErrSlotInUse         = errors.New("slot in use")
	ErrSlotNotActive     = errors.New("slot not active")
	ErrSlotOutOfRange    = errors.New("slot out of range")
)

// Policy-bound rejections: expected and non-fatal.
var (
	ErrNotUserEligible      = errors.New("process not lottery eligible")
	ErrTicketBoundViolation = errors.New("ticket allotment out of bounds")
	ErrNoEligibleProcesses  = errors.New("no eligible processes")
)

// ErrKernelPushFailed wraps a failure of the kernel control interface.
var ErrKernelPushFailed = errors.New("kernel push failed")

// Invariant violations: bookkeeping defects that must be surfaced loudly.
var (
	ErrPoolUnderflow    = errors.New("ticket pool would become negative")
	ErrPoolDiverged     = errors.New("ticket pool diverged from ticket sum")
	ErrTicketBounds     = errors.New("eligible process outside ticket bounds")
	ErrLotteryExhausted = errors.New("lottery scan exhausted without a winner")
)

// IsInvariantViolation reports whether err signals corrupted bookkeeping
// rather than a rejected request.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrPoolUnderflow) ||
		errors.Is(err, ErrPoolDiverged) ||
		errors.Is(err, ErrTicketBounds) ||
		errors.Is(err, ErrLotteryExhausted)
}

// kernelError joins ErrKernelPushFailed with the collaborator's error so
// errors.Is matches both.
func kernelError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrKernelPushFailed, err)
}
