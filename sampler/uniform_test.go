package sampler_test

import (
	"testing"

	"github.com/aspartik-go/b3/sampler"
	"github.com/stretchr/testify/require"
)

func TestUniformSamplesDistinctIndices(t *testing.T) {
	u := sampler.NewDeterministicUniform(7)
	require.NoError(t, u.Initialize(20))

	indices, ok := u.Sample(10)
	require.True(t, ok)
	require.Len(t, indices, 10)

	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		require.False(t, seen[idx], "index %d sampled twice", idx)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 20)
		seen[idx] = true
	}
}

func TestUniformRejectsOversizedSample(t *testing.T) {
	u := sampler.NewDeterministicUniform(1)
	require.NoError(t, u.Initialize(5))

	_, ok := u.Sample(6)
	require.False(t, ok)
}

func TestUniformIsDeterministicForASeed(t *testing.T) {
	a := sampler.NewDeterministicUniform(99)
	b := sampler.NewDeterministicUniform(99)
	require.NoError(t, a.Initialize(50))
	require.NoError(t, b.Initialize(50))

	idxA, _ := a.Sample(20)
	idxB, _ := b.Sample(20)
	require.Equal(t, idxA, idxB)
}
