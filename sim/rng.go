package sim

import (
	"hash/fnv"
	"math/rand"
)

// PartitionedRNG provides isolated RNG streams per subsystem for
// deterministic simulation. Each replication owns its own PartitionedRNG;
// the global rand source is never used.
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a new partitioned RNG with the given master seed.
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: masterSeed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the RNG stream for the given subsystem name.
// The stream is created lazily and derived deterministically from the master
// seed, so the order in which subsystems first draw does not matter.
// Multiple calls with the same name return the same stream.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, exists := p.subsystems[name]; exists {
		return rng
	}

	rng := rand.New(rand.NewSource(DeriveSeed(p.masterSeed, name)))
	p.subsystems[name] = rng
	return rng
}

// DeriveSeed deterministically derives a child seed from a master seed and a
// label: seed XOR fnv1a64(label). Used both for subsystem streams and for
// per-replication seeds in the optimizer, keeping replications independent
// of worker scheduling order.
func DeriveSeed(masterSeed int64, label string) int64 {
	h := fnv.New64a()
	h.Write([]byte(label))
	return masterSeed ^ int64(h.Sum64())
}
