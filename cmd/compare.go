package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smorad/minix-sched/sched"
	"github.com/smorad/minix-sched/sched/sim"
	"github.com/smorad/minix-sched/sched/trace"
)

// compareCmd runs the same workload under every policy preset
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run one workload under every policy preset side by side",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		w := buildWorkload(cmd)

		presets := make([]string, 0, len(sched.ValidPolicyPresets))
		for name := range sched.ValidPolicyPresets {
			if name != "" {
				presets = append(presets, name)
			}
		}
		sort.Strings(presets)

		rows := make([]compareRow, 0, len(presets))
		for _, name := range presets {
			cfg := sched.DefaultConfig()
			cfg.Policy = sched.NewPolicy(name)
			report, err := simulate(cmd.Context(), cfg, w, trace.TraceLevelDecisions)
			if err != nil {
				logrus.Fatalf("preset %s: %v", name, err)
			}
			rows = append(rows, compareRow{preset: name, report: report})
		}
		printComparison(os.Stdout, rows)
	},
}

type compareRow struct {
	preset string
	report *sim.Report
}

// maxWinShare returns the largest fraction of rounds won by one endpoint.
func maxWinShare(s *trace.TraceSummary) float64 {
	best := 0.0
	for ep := range s.WinDistribution {
		best = max(best, s.WinShare(ep))
	}
	return best
}

func printComparison(w io.Writer, rows []compareRow) {
	fmt.Fprintln(w, "=== Policy Comparison ===")
	fmt.Fprintf(w, "%-14s %8s %8s %10s %10s %10s %9s\n",
		"preset", "rounds", "winners", "max share", "applied", "rejected", "invariant")
	for _, r := range rows {
		s := r.report.Summary
		status := "ok"
		if r.report.Invariant != nil {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%-14s %8d %8d %9.2f%% %10d %10d %9s\n",
			r.preset, s.Rounds, s.UniqueWinners, 100*maxWinShare(s),
			s.AppliedAdjustments, s.RejectedAdjustments, status)
	}
}

func init() {
	addRunFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)
}
