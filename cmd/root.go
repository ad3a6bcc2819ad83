package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smorad/minix-sched/internal/telemetry"
	"github.com/smorad/minix-sched/sched"
	"github.com/smorad/minix-sched/sched/sim"
	"github.com/smorad/minix-sched/sched/trace"
)

// version is stamped into telemetry resources.
const version = "0.1.0"

var (
	// CLI flags shared by run and compare
	seed         int64  // Seed for workload generation and lottery draws
	horizon      int64  // Last tick at which events are processed
	logLevel     string // Log verbosity level
	policyPath   string // YAML policy bundle
	preset       string // Policy preset applied before the bundle
	workloadPath string // YAML workload description

	// workload overrides
	processes   int     // Number of user processes
	quantum     int     // Quantum of fresh processes in ticks
	failureRate float64 // Probability that a kernel push fails

	// CLI flags for run only
	traceLevel string // Decision trace verbosity
	otelTrace  string // File receiving OpenTelemetry spans
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "minix-sched",
	Short: "Lottery scheduling policy engine and workload simulator",
}

// runCmd drives one scheduler through a synthetic workload
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workload through the lottery scheduler",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}
		if otelTrace != "" {
			shutdown, err := telemetry.Init("minix-sched", version, otelTrace)
			if err != nil {
				logrus.Fatalf("unable to set up tracing: %v", err)
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logrus.Errorf("flushing spans: %v", err)
				}
			}()
		}

		cfg := buildConfig(cmd)
		w := buildWorkload(cmd)
		logrus.Infof("Starting run with seed=%d, horizon=%d, policy=%+v, workload=%+v", seed, horizon, cfg.Policy, w)

		report, err := simulate(cmd.Context(), cfg, w, trace.TraceLevel(traceLevel))
		if report != nil {
			report.Print(os.Stdout)
		}
		if err != nil {
			logrus.Fatalf("run aborted: %v", err)
		}
		logrus.Info("Run complete.")
	},
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildConfig resolves the scheduler configuration from the preset and the
// optional policy bundle.
func buildConfig(cmd *cobra.Command) sched.Config {
	cfg := sched.DefaultConfig()
	if cmd.Flags().Changed("preset") {
		if !sched.ValidPolicyPresets[preset] {
			logrus.Fatalf("unknown policy preset %q", preset)
		}
		cfg.Policy = sched.NewPolicy(preset)
	}
	if policyPath != "" {
		var err error
		if cfg, err = resolveBundle(policyPath, cfg); err != nil {
			logrus.Fatalf("%v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("%v", err)
	}
	return cfg
}

// buildWorkload loads the workload file, if any, and applies flag overrides.
func buildWorkload(cmd *cobra.Command) sim.Workload {
	w := sim.DefaultWorkload()
	if workloadPath != "" {
		var err error
		if w, err = sim.LoadWorkload(workloadPath); err != nil {
			logrus.Fatalf("%v", err)
		}
	}
	if cmd.Flags().Changed("processes") {
		w.Processes = processes
	}
	if cmd.Flags().Changed("quantum") {
		w.Quantum = quantum
	}
	if cmd.Flags().Changed("kernel-failure-rate") {
		w.KernelFailureRate = failureRate
	}
	if err := w.Validate(); err != nil {
		logrus.Fatalf("%v", err)
	}
	return w
}

// simulate generates the workload from the seed and runs it through a
// scheduler built from cfg.
func simulate(ctx context.Context, cfg sched.Config, w sim.Workload, level trace.TraceLevel) (*sim.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rng := sched.NewPartitionedRNG(sched.Seed(seed))
	events, err := sim.Generate(w, cfg, horizon, rng.ForSubsystem(sched.SubsystemWorkload))
	if err != nil {
		return nil, err
	}
	d, err := sim.NewDriver(cfg, rng, trace.TraceConfig{Level: level})
	if err != nil {
		return nil, err
	}
	d.Kernel.SetFailureRate(w.KernelFailureRate, rng.ForSubsystem(sim.SubsystemKernel))
	d.ScheduleAll(events)
	return d.Run(ctx, horizon)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addRunFlags registers the flags shared by run and compare.
func addRunFlags(c *cobra.Command) {
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for workload generation and lottery draws")
	c.Flags().Int64Var(&horizon, "horizon", 200000, "Last tick at which events are processed")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	c.Flags().StringVar(&policyPath, "policy-config", "", "Path to YAML policy bundle")
	c.Flags().StringVar(&preset, "preset", "dynamic", "Policy preset (dynamic, experimental, flat)")
	c.Flags().StringVar(&workloadPath, "workload", "", "Path to YAML workload description")
	c.Flags().IntVar(&processes, "processes", 8, "Number of user processes")
	c.Flags().IntVar(&quantum, "quantum", 200, "Quantum of fresh processes (in ticks)")
	c.Flags().Float64Var(&failureRate, "kernel-failure-rate", 0, "Probability that a kernel push fails")
}

// init sets up CLI flags and subcommands
func init() {
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "decisions", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&otelTrace, "otel-trace", "", "Write OpenTelemetry spans to this file")

	rootCmd.AddCommand(runCmd)
}
