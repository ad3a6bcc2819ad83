package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.Rounds != 0 || summary.UniqueWinners != 0 {
		t.Errorf("expected no rounds, got %d rounds and %d winners", summary.Rounds, summary.UniqueWinners)
	}
	if summary.MeanPoolTotal != 0 {
		t.Errorf("expected zero mean pool, got %f", summary.MeanPoolTotal)
	}
	if summary.WinShare(1) != 0 {
		t.Error("expected zero win share")
	}
}

func TestSummarize_NilTrace(t *testing.T) {
	if s := Summarize(nil); s.Rounds != 0 || s.WinDistribution == nil {
		t.Errorf("unexpected summary for nil trace: %+v", s)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN rounds won by two endpoints and a mix of ticket adjustments
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordLottery(LotteryRecord{Winner: 5, PoolTotal: 10, BumpsRejected: 1})
	st.RecordLottery(LotteryRecord{Winner: 5, PoolTotal: 20, PushFailures: 2})
	st.RecordLottery(LotteryRecord{Winner: 7, PoolTotal: 30})
	st.RecordTicket(TicketRecord{Endpoint: 5, Delta: -1})
	st.RecordTicket(TicketRecord{Endpoint: 7, Delta: -1, Rejected: true})
	st.RecordFailure(FailureRecord{Endpoint: 9, Event: "stop", Error: "unknown process"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts and shares match
	if summary.Rounds != 3 || summary.UniqueWinners != 2 {
		t.Errorf("expected 3 rounds and 2 winners, got %d and %d", summary.Rounds, summary.UniqueWinners)
	}
	if summary.MeanPoolTotal != 20 {
		t.Errorf("expected mean pool 20, got %f", summary.MeanPoolTotal)
	}
	if summary.AppliedAdjustments != 1 || summary.RejectedAdjustments != 1 {
		t.Errorf("expected 1 applied and 1 rejected, got %d and %d", summary.AppliedAdjustments, summary.RejectedAdjustments)
	}
	if summary.BumpsRejected != 1 || summary.PushFailures != 2 || summary.Failures != 1 {
		t.Errorf("unexpected failure counts: %+v", summary)
	}
	if share := summary.WinShare(5); share < 0.666 || share > 0.667 {
		t.Errorf("expected win share 2/3 for endpoint 5, got %f", share)
	}
}
