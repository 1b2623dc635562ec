package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDeterministic(t *testing.T) {
	e := New()
	text := "Dogs bark loudly while cats sleep through the afternoon heat."

	first := e.Encode(text)
	second := e.Encode(text)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second, "encoding must be bit-identical across calls")
}

func TestEncodeEmptyInput(t *testing.T) {
	e := New()
	assert.Empty(t, e.Encode(""))
	assert.Empty(t, e.Encode("   \n\t "))
}

func TestEncodeDegenerateInput(t *testing.T) {
	e := New()
	// Stop words and sub-minimum tokens only: no exception, empty vector.
	assert.Empty(t, e.Encode("the and but for"))
	assert.Empty(t, e.Encode("a an of it is"))
	assert.Empty(t, e.Encode("!!! ... ---"))
}

func TestEncodeWeightsAreTermFrequencies(t *testing.T) {
	e := New()
	vec := e.Encode("gopher gopher gopher badger")

	sum := 0.0
	for _, w := range vec {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12, "TF weights sum to one")
	assert.InDelta(t, 0.75, vec[e.bucket("gopher")], 1e-12)
}

func TestEncodeBucketsBounded(t *testing.T) {
	e := New(WithBuckets(97))
	vec := e.Encode("deterministic hashed sparse vectors bound every token bucket")
	require.NotEmpty(t, vec)
	for idx := range vec {
		assert.Less(t, idx, uint32(97))
	}
}

func TestEncodeCollisionsAccumulate(t *testing.T) {
	// A single bucket forces every token into the same index. Collisions
	// between distinct tokens merge their counts; this is the documented
	// lossy tradeoff of fixed-width hashing.
	e := New(WithBuckets(1))
	vec := e.Encode("gopher badger marmot")
	require.Len(t, vec, 1)
	assert.InDelta(t, 1.0, vec[0], 1e-12)
}

func TestEncodeLowercasesTokens(t *testing.T) {
	e := New()
	assert.Equal(t, e.Encode("GOPHER Badger"), e.Encode("gopher badger"))
}
