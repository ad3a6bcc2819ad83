package sched

import (
	"hash/fnv"
	"math/rand"
)

// Seed identifies a reproducible run. Two runs with the same Seed and
// configuration draw identical lottery tickets and workloads.
type Seed int64

const (
	// SubsystemWorkload feeds synthetic workload generation.
	// Uses the master seed directly.
	SubsystemWorkload = "workload"

	// SubsystemLottery feeds the lottery draws.
	SubsystemLottery = "lottery"
)

// PartitionedRNG hands out isolated, deterministically seeded generators
// per subsystem, so extra draws in one subsystem never shift another.
//
// Derivation formula:
//   - For SubsystemWorkload: the master seed
//   - For all other subsystems: master seed XOR fnv1a64(subsystem name)
//
// Thread-safety: NOT thread-safe.
type PartitionedRNG struct {
	seed       Seed
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed Seed) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the generator of the named subsystem, creating it on
// first use. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derived := int64(p.seed)
	if name != SubsystemWorkload {
		derived ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(derived))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master seed.
func (p *PartitionedRNG) Seed() Seed {
	return p.seed
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
