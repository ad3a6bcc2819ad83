package sched

import "fmt"

// ExhaustionRule decides how a process's tickets change when it uses up its
// quantum.
type ExhaustionRule string

const (
	// ExhaustBlockCounter rewards a process with +1 when the kernel's blocked
	// counter moved past the highest value seen so far, and charges -1 otherwise.
	ExhaustBlockCounter ExhaustionRule = "block-counter"
	// ExhaustFlat always charges -1.
	ExhaustFlat ExhaustionRule = "flat"
	// ExhaustReset drops the process back to a single ticket.
	ExhaustReset ExhaustionRule = "reset"
)

// LoserBump decides how a lottery loser's tickets grow.
type LoserBump string

const (
	// BumpIncrement adds one ticket.
	BumpIncrement LoserBump = "increment"
	// BumpDouble doubles the current tickets.
	BumpDouble LoserBump = "double"
)

// InheritRule decides where an inherited process starts.
type InheritRule string

const (
	// InheritLoserQueue starts children in the loser queue.
	InheritLoserQueue InheritRule = "loser-queue"
	// InheritParentQueue starts children in the parent's current queue.
	InheritParentQueue InheritRule = "parent-queue"
)

// ValidExhaustionRules is the set of recognized exhaustion rule names.
var ValidExhaustionRules = map[ExhaustionRule]bool{ExhaustBlockCounter: true, ExhaustFlat: true, ExhaustReset: true}

// ValidLoserBumps is the set of recognized loser bump names.
var ValidLoserBumps = map[LoserBump]bool{BumpIncrement: true, BumpDouble: true}

// ValidInheritRules is the set of recognized inherit rule names.
var ValidInheritRules = map[InheritRule]bool{InheritLoserQueue: true, InheritParentQueue: true}

// Policy is the ticket strategy a Scheduler runs with.
type Policy struct {
	Exhaustion ExhaustionRule `yaml:"exhaustion"`
	LoserBump  LoserBump      `yaml:"loser_bump"`
	Inherit    InheritRule    `yaml:"inherit"`
	// Aging lets the balancer add a ticket to every eligible process below its cap.
	Aging bool `yaml:"aging"`
}

// Validate checks that every rule name is recognized.
func (p Policy) Validate() error {
	if !ValidExhaustionRules[p.Exhaustion] {
		return fmt.Errorf("unknown exhaustion rule %q", p.Exhaustion)
	}
	if !ValidLoserBumps[p.LoserBump] {
		return fmt.Errorf("unknown loser bump %q", p.LoserBump)
	}
	if !ValidInheritRules[p.Inherit] {
		return fmt.Errorf("unknown inherit rule %q", p.Inherit)
	}
	return nil
}

// ValidPolicyPresets is the set of recognized preset names.
var ValidPolicyPresets = map[string]bool{"": true, "dynamic": true, "experimental": true, "flat": true}

// NewPolicy returns a preset by name.
// Valid names: "dynamic" (default), "experimental", "flat".
// Empty string defaults to "dynamic".
// Panics on unrecognized names.
func NewPolicy(name string) Policy {
	if !ValidPolicyPresets[name] {
		panic(fmt.Sprintf("unknown policy preset %q", name))
	}
	switch name {
	case "", "dynamic":
		return Policy{Exhaustion: ExhaustBlockCounter, LoserBump: BumpIncrement, Inherit: InheritLoserQueue, Aging: true}
	case "experimental":
		return Policy{Exhaustion: ExhaustReset, LoserBump: BumpDouble, Inherit: InheritLoserQueue}
	case "flat":
		return Policy{Exhaustion: ExhaustFlat, LoserBump: BumpIncrement, Inherit: InheritParentQueue}
	default:
		panic(fmt.Sprintf("unhandled policy preset %q", name))
	}
}

// exhaustionDelta returns the ticket change for a process that used its
// whole quantum, and the new high-water mark of the blocked counter.
func (p Policy) exhaustionDelta(rec *Record, blockCount, highWater int64) (int, int64) {
	switch p.Exhaustion {
	case ExhaustBlockCounter:
		if blockCount > highWater {
			return +1, blockCount
		}
		return -1, highWater
	case ExhaustReset:
		return 1 - rec.Tickets, highWater
	default:
		return -1, highWater
	}
}

// loserDelta returns the ticket change for a lottery loser.
func (p Policy) loserDelta(rec *Record) int {
	if p.LoserBump == BumpDouble {
		return rec.Tickets
	}
	return 1
}
