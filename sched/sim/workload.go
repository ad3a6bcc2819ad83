package sim

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/smorad/minix-sched/sched"
)

// Workload describes a synthetic population of processes. Slot 0 holds a
// long-lived init process that inherited processes fork from; user and
// system processes follow in the next slots and restart for each generation.
type Workload struct {
	Processes         int     `yaml:"processes" validate:"min=1"`
	SystemProcesses   int     `yaml:"system_processes" validate:"min=0"`
	Generations       int     `yaml:"generations" validate:"min=1"`
	Quantum           int     `yaml:"quantum" validate:"min=1"`
	Lifetime          int64   `yaml:"lifetime" validate:"min=1"` // mean ticks per generation
	ForkFraction      float64 `yaml:"fork_fraction" validate:"min=0,max=1"`
	BlockProbability  float64 `yaml:"block_probability" validate:"min=0,max=1"`
	ReniceProbability float64 `yaml:"renice_probability" validate:"min=0,max=1"`
	KernelFailureRate float64 `yaml:"kernel_failure_rate" validate:"min=0,max=1"`
}

// DefaultWorkload returns a small mixed workload.
func DefaultWorkload() Workload {
	return Workload{
		Processes:         8,
		SystemProcesses:   2,
		Generations:       3,
		Quantum:           200,
		Lifetime:          20000,
		ForkFraction:      0.5,
		BlockProbability:  0.3,
		ReniceProbability: 0.2,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges.
func (w Workload) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("invalid workload: %w", err)
	}
	return nil
}

// LoadWorkload reads and strictly parses a YAML workload file. Fields left
// out keep their DefaultWorkload values.
func LoadWorkload(path string) (Workload, error) {
	w := DefaultWorkload()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("reading workload: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&w); err != nil {
		return w, fmt.Errorf("parsing workload: %w", err)
	}
	return w, w.Validate()
}

// InitEndpoint is the endpoint of the workload's init process.
const InitEndpoint sched.Endpoint = 0

// SubsystemKernel is the RNG subsystem for injected kernel failures.
const SubsystemKernel = "kernel"

// Generate draws the lifecycle events of w for a scheduler built from cfg.
// horizon must be finite; no process starts at or after it.
// Endpoints encode slot and generation as slot + generation*capacity, so a
// restarted process reuses its slot under a new endpoint.
func Generate(w Workload, cfg sched.Config, horizon int64, rng *rand.Rand) ([]Event, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if 1+w.Processes+w.SystemProcesses > cfg.Capacity {
		return nil, fmt.Errorf("workload needs %d slots, table has %d",
			1+w.Processes+w.SystemProcesses, cfg.Capacity)
	}
	layout := cfg.Layout
	var events []Event

	events = append(events, &StartEvent{time: 0, Request: sched.StartRequest{
		Endpoint: InitEndpoint, Parent: InitEndpoint, Ceiling: layout.MaxUserQ, Quantum: w.Quantum, Mode: sched.StartFresh,
	}})
	var last int64

	for i := 0; i < w.Processes+w.SystemProcesses; i++ {
		slot := 1 + i
		system := i >= w.Processes
		if system && layout.MinUserQ == 0 {
			break
		}
		t := 1 + rng.Int63n(w.Lifetime)
		for g := 0; g < w.Generations && t < horizon; g++ {
			ep := sched.Endpoint(slot + g*cfg.Capacity)
			life := 1 + rng.Int63n(2*w.Lifetime)
			end := min(t+life, horizon)

			req := sched.StartRequest{Endpoint: ep, Parent: InitEndpoint, Quantum: w.Quantum, Mode: sched.StartFresh}
			switch {
			case system:
				req.Ceiling = rng.Intn(layout.MinUserQ)
			case rng.Float64() < w.ForkFraction:
				req.Ceiling = layout.MinUserQ + rng.Intn(layout.MaxUserQ-layout.MinUserQ+1)
				req.Mode = sched.StartInherited
			default:
				req.Ceiling = layout.MinUserQ + rng.Intn(layout.MaxUserQ-layout.MinUserQ+1)
			}
			events = append(events, &StartEvent{time: t, Request: req})
			events = append(events, exhaustions(w, ep, t, end, rng)...)

			if !system && rng.Float64() < w.ReniceProbability && t+life/2 < end {
				q := layout.MinUserQ + rng.Intn(layout.MaxUserQ-layout.MinUserQ+1)
				events = append(events, &ReniceEvent{time: t + life/2, EP: ep, Queue: q})
			}
			events = append(events, &StopEvent{time: end, EP: ep})
			last = max(last, end)
			t = end + 1 + rng.Int63n(int64(w.Quantum))
		}
	}

	// init keeps running until the last process has stopped
	events = append(events, exhaustions(w, InitEndpoint, 0, last, rng)...)
	return events, nil
}

// exhaustions emits one quantum-exhaustion report per quantum in (from, to).
func exhaustions(w Workload, ep sched.Endpoint, from, to int64, rng *rand.Rand) []Event {
	var events []Event
	for t := from + int64(w.Quantum); t < to; t += int64(w.Quantum) {
		events = append(events, &ExhaustEvent{time: t, EP: ep, Blocked: rng.Float64() < w.BlockProbability})
	}
	return events
}
