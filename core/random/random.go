// Package random derives independent deterministic random streams from a
// single base seed. Every stochastic unit of an importance run (a fold, a
// group, a permutation repetition) draws from its own stream, so results are
// bit-identical regardless of execution order or parallelism degree.
package random

import "math/rand/v2"

// Source derives per-unit random streams from a base seed.
type Source struct {
	seed uint64
}

// NewSource creates a stream source for the given base seed.
func NewSource(seed int64) *Source {
	return &Source{seed: uint64(seed)}
}

// Seed returns the base seed the source was created with.
func (s *Source) Seed() int64 {
	return int64(s.seed)
}

// Stream returns an independent PCG stream for the given unit identifier.
// The same (seed, unit) pair always yields the same sequence.
func (s *Source) Stream(unit uint64) *rand.Rand {
	return rand.New(rand.NewPCG(s.seed, unit))
}

// UnitID packs a (fold, group, repetition) coordinate into a stream
// identifier. Bit-packing keeps the coordinates disjoint for any realistic
// run shape (folds and repetitions below 2^20, groups below 2^24).
func UnitID(fold, group, rep int) uint64 {
	return uint64(fold)<<44 | uint64(group)<<20 | uint64(rep)
}
