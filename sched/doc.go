// Package sched implements the lottery scheduling policy of a user-space
// process scheduler that runs beside a microkernel.
//
// # Reading Guide
//
// Start with these files to understand the policy engine:
//   - table.go: the fixed-capacity scheduling record table (slot lifecycle)
//   - ledger.go: per-process tickets and the pool total, the only place both change
//   - lottery.go: one weighted draw per round, winners and losers
//   - scheduler.go: the lifecycle handlers (start, stop, quantum exhausted, renice)
//
// # Architecture
//
// The package computes decisions only. The kernel applies them through the
// Kernel interface and the periodic balancing pass is driven by a Timer.
// Sub-packages supply concrete collaborators:
//   - sched/kernel/: in-memory kernel control interface with failure injection
//   - sched/sim/: deterministic discrete-event driver and synthetic workloads
//   - sched/trace/: decision trace recording
//
// # Policy Variants
//
// Ticket adjustment rules are chosen at construction time through Policy
// (see policy.go) so that several variants can run side by side. A YAML
// PolicyBundle (bundle.go) selects them by name.
package sched
