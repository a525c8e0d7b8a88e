// Package rng implements PCG64 (permuted congruential generator, XSL-RR
// variant), a seedable 64-bit pseudorandom stream. It satisfies
// math/rand.Source64 so it plugs directly into rand.New.
package rng

import "math/bits"

// multiplier is the 128-bit LCG multiplier from the reference PCG64
// implementation (O'Neill, "PCG: A Family of Simple Fast
// Space-Efficient Statistically Good Algorithms for Random Number
// Generation").
var multiplier = [2]uint64{2549297995355413924, 4865540595714422341}

// PCG64 is a 128-bit-state, 64-bit-output generator: state advances by a
// 128-bit linear congruential step, and output is extracted from the
// upper bits via an XOR-shift followed by a random rotation (XSL-RR).
type PCG64 struct {
	stateHi, stateLo uint64
	incHi, incLo     uint64
}

// NewPCG64 seeds a generator from a 128-bit seed and a 128-bit stream
// selector. Two generators with the same seed and stream produce
// identical sequences; different streams with the same seed produce
// statistically independent sequences.
func NewPCG64(seedHi, seedLo, streamHi, streamLo uint64) *PCG64 {
	p := &PCG64{}
	// The increment must be odd: stream<<1 | 1, so that every stream
	// selector maps to a distinct increment.
	p.incHi, p.incLo = streamHi<<1|streamLo>>63, streamLo<<1|1

	p.step()
	p.stateHi += seedHi
	p.stateLo += seedLo
	carry := p.stateLo < seedLo
	if carry {
		p.stateHi++
	}
	p.step()
	return p
}

// step advances the 128-bit LCG state by one iteration: state =
// state*multiplier + increment, computed as 128-bit arithmetic from two
// 64-bit halves.
func (p *PCG64) step() {
	hi, lo := mul128(p.stateHi, p.stateLo, multiplier[0], multiplier[1])

	newLo := lo + p.incLo
	carry := newLo < lo
	newHi := hi + p.incHi
	if carry {
		newHi++
	}

	p.stateHi, p.stateLo = newHi, newLo
}

// mul128 multiplies two 128-bit numbers (each given as hi:lo uint64
// pairs) and returns the low 128 bits of the product, as hi:lo.
func mul128(aHi, aLo, bHi, bLo uint64) (hi, lo uint64) {
	hiLo, loLo := bits.Mul64(aLo, bLo)
	lo = loLo
	hi = hiLo + aLo*bHi + aHi*bLo
	return hi, lo
}

// Uint64 returns the next 64-bit output in the stream.
func (p *PCG64) Uint64() uint64 {
	p.step()

	// XSL: xor the high and low halves of the state.
	xored := p.stateHi ^ p.stateLo
	// RR: rotate right by the top 6 bits of the state.
	rot := uint(p.stateHi >> 58)
	return bits.RotateLeft64(xored, -int(rot))
}

// Int63 returns a non-negative 63-bit pseudo-random integer, satisfying
// math/rand.Source.
func (p *PCG64) Int63() int64 {
	return int64(p.Uint64() >> 1)
}

// Seed reseeds the generator deterministically from a single int64,
// satisfying math/rand.Source. The stream selector is fixed to 1 so that
// two PCG64 values seeded with the same int64 via Seed produce identical
// sequences.
func (p *PCG64) Seed(seed int64) {
	*p = *NewPCG64(0, uint64(seed), 0, 1)
}
