package sim

import (
	"fmt"
	"io"
	"sort"
)

// Print writes a human-readable summary of the run to w.
func (r *Report) Print(w io.Writer) {
	s := r.Summary
	fmt.Fprintln(w, "=== Scheduling Report ===")
	fmt.Fprintf(w, "Run ID               : %s\n", r.RunID)
	fmt.Fprintf(w, "Final Clock          : %d ticks\n", r.Clock)
	fmt.Fprintf(w, "Events Processed     : %d\n", r.Events)
	fmt.Fprintf(w, "Lottery Rounds       : %d\n", s.Rounds)
	if s.Rounds > 0 {
		fmt.Fprintf(w, "Mean Pool Total      : %.2f tickets\n", s.MeanPoolTotal)
		fmt.Fprintf(w, "Unique Winners       : %d\n", s.UniqueWinners)
	}
	fmt.Fprintf(w, "Ticket Adjustments   : %d applied, %d rejected\n", s.AppliedAdjustments, s.RejectedAdjustments)
	fmt.Fprintf(w, "Loser Bumps Rejected : %d\n", s.BumpsRejected)
	fmt.Fprintf(w, "Kernel Push Failures : %d\n", s.PushFailures)
	fmt.Fprintf(w, "Failed Requests      : %d\n", s.Failures)
	fmt.Fprintf(w, "Active Processes     : %d (pool %d)\n", len(r.Snapshot.Records), r.Snapshot.PoolTotal)
	if r.Invariant != nil {
		fmt.Fprintf(w, "Invariant Check      : FAILED: %v\n", r.Invariant)
	} else {
		fmt.Fprintln(w, "Invariant Check      : ok")
	}

	if s.Rounds == 0 {
		return
	}
	endpoints := make([]int, 0, len(s.WinDistribution))
	for ep := range s.WinDistribution {
		endpoints = append(endpoints, ep)
	}
	sort.Ints(endpoints)
	fmt.Fprintln(w, "--- Win Share ---")
	for _, ep := range endpoints {
		fmt.Fprintf(w, "endpoint %-6d : %6d wins (%.2f%%)\n", ep, s.WinDistribution[ep], 100*s.WinShare(ep))
	}
}
