package sampler

import "gonum.org/v1/gonum/mathext/prng"

// mt19937Source wraps gonum's MT19937 to implement Source, for comparison
// tooling that wants a non-PCG reference stream (b3sim's determinism
// checks run the same chain under both RNGs).
type mt19937Source struct {
	mt *prng.MT19937
}

// NewMT19937Source returns a Source backed by a freshly seeded MT19937
// generator.
func NewMT19937Source(seed uint64) Source {
	mt := prng.NewMT19937()
	mt.Seed(seed)
	return &mt19937Source{mt: mt}
}

func (m *mt19937Source) Uint64() uint64 { return m.mt.Uint64() }

// Seed reseeds the underlying generator, matching the Source interface
// so this can stand in for the eagerly-seeded constructor's seed later.
func (m *mt19937Source) Seed(seed int64) { m.mt.Seed(uint64(seed)) }
