package sampler

import "math/rand"

// uniform implements Uniform by rejection sampling: keep drawing an index
// in [0, count) until one hasn't been used yet.
type uniform struct {
	count int
	rng   *rand.Rand
}

// NewUniform creates a uniform sampler seeded from the global source.
func NewUniform() Uniform {
	return &uniform{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// NewDeterministicUniform creates a uniform sampler seeded explicitly, for
// reproducible site subsampling.
func NewDeterministicUniform(seed int64) Uniform {
	return &uniform{rng: rand.New(rand.NewSource(seed))}
}

// Initialize sets the population size new samples are drawn from.
func (u *uniform) Initialize(count int) error {
	u.count = count
	return nil
}

// Sample draws size distinct indices from [0, count) without replacement.
// Reports false if size exceeds the population.
func (u *uniform) Sample(size int) ([]int, bool) {
	if size > u.count {
		return nil, false
	}

	indices := make([]int, size)
	selected := make(map[int]bool, size)
	for i := 0; i < size; i++ {
		for {
			idx := u.rng.Intn(u.count)
			if !selected[idx] {
				indices[i] = idx
				selected[idx] = true
				break
			}
		}
	}
	return indices, true
}
