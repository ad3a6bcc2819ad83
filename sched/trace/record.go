// Package trace provides decision-trace recording for lottery scheduling runs.
// This package has no dependencies on sched/ or sched/sim/; it stores pure data types.
package trace

// LotteryRecord captures a single lottery round.
type LotteryRecord struct {
	Round         int
	Clock         int64
	WinningTicket int64
	PoolTotal     int64
	Winner        int
	WinnerTickets int
	Losers        int
	BumpsRejected int
	PushFailures  int
}

// TicketRecord captures a quantum-exhaustion ticket adjustment.
type TicketRecord struct {
	Clock    int64
	Endpoint int
	Delta    int
	Rejected bool // adjustment would have left [1, cap]
}

// FailureRecord captures a handler that returned an error.
type FailureRecord struct {
	Clock    int64
	Endpoint int
	Event    string
	Error    string
}
