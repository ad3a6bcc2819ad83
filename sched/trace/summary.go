package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Rounds              int
	UniqueWinners       int
	WinDistribution     map[int]int // endpoint → rounds won
	MeanPoolTotal       float64
	AppliedAdjustments  int
	RejectedAdjustments int
	BumpsRejected       int
	PushFailures        int
	Failures            int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		WinDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.Rounds = len(st.Lotteries)
	if summary.Rounds > 0 {
		var pool int64
		for _, l := range st.Lotteries {
			summary.WinDistribution[l.Winner]++
			summary.BumpsRejected += l.BumpsRejected
			summary.PushFailures += l.PushFailures
			pool += l.PoolTotal
		}
		summary.MeanPoolTotal = float64(pool) / float64(summary.Rounds)
	}
	summary.UniqueWinners = len(summary.WinDistribution)

	for _, t := range st.Tickets {
		if t.Rejected {
			summary.RejectedAdjustments++
		} else {
			summary.AppliedAdjustments++
		}
	}
	summary.Failures = len(st.Failures)
	return summary
}

// WinShare returns the fraction of rounds won by endpoint.
func (s *TraceSummary) WinShare(endpoint int) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.WinDistribution[endpoint]) / float64(s.Rounds)
}
