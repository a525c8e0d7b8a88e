// Package sampler provides the chain's sources of randomness and the
// uniform-without-replacement site sampler cmd/b3sim uses to build
// reduced smoke-test alignments.
package sampler

import "math/rand"

// Sampler is an interface for sampling elements.
type Sampler interface {
	Sample(size int) ([]int, bool)
}

// Uniform is the interface for uniform sampling without replacement.
type Uniform interface {
	Sampler
	Initialize(count int) error
}

// Source is a source of randomness, re-seedable after construction.
type Source interface {
	Seed(int64)
	Uint64() uint64
}

// source wraps a math/rand.Rand to implement Source.
type source struct {
	*rand.Rand
}

// NewSource returns a Source backed by math/rand, seeded with seed.
func NewSource(seed int64) Source {
	return &source{Rand: rand.New(rand.NewSource(seed))}
}

// randSource64 adapts a Source to math/rand.Source64, so an alternate
// stream (e.g. MT19937) can back a *rand.Rand the same way the chain's
// default PCG64 stream does.
type randSource64 struct {
	Source
}

// AsRandSource64 wraps s for use with rand.New, deriving Int63 from the
// top 63 bits of Uint64 the same way rng.PCG64 does.
func AsRandSource64(s Source) rand.Source64 {
	return randSource64{Source: s}
}

func (r randSource64) Int63() int64 { return int64(r.Uint64() >> 1) }
