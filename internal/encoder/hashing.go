package encoder

import (
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"docchat/internal/domain"
)

// DefaultBuckets is the fixed vocabulary-space size shared between the
// ingestion and query paths. Changing it invalidates all stored vectors.
const DefaultBuckets uint32 = 100_000

// minTokenLen drops very short tokens ("a", "of", "is") before hashing.
const minTokenLen = 3

// HashingEncoder produces fixed-width hashed sparse vectors with
// term-frequency weights. It needs no corpus preparation: each token is
// mapped to a bucket by a stable hash, so distinct tokens may collide and
// merge their counts. That is a bounded lossy-compression tradeoff of the
// design, not a defect.
type HashingEncoder struct {
	buckets      uint32
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// Option configures the encoder.
type Option func(*HashingEncoder)

// WithBuckets overrides the vocabulary-space size.
func WithBuckets(n uint32) Option {
	return func(e *HashingEncoder) {
		if n > 0 {
			e.buckets = n
		}
	}
}

// New creates a hashing encoder with the default bucket count and the
// built-in English stop-word set.
func New(opts ...Option) *HashingEncoder {
	e := &HashingEncoder{
		buckets:      DefaultBuckets,
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+`),
		stopwords:    defaultStopwords(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the identifier of this encoder implementation.
func (e *HashingEncoder) Name() string { return "hashing" }

// Buckets returns the vocabulary-space size.
func (e *HashingEncoder) Buckets() uint32 { return e.buckets }

// Encode tokenizes the text and returns its sparse TF vector. Text that
// yields no tokens after filtering encodes to an empty vector.
func (e *HashingEncoder) Encode(text string) domain.SparseVector {
	tokens := e.tokenize(text)
	vec := make(domain.SparseVector, len(tokens))
	if len(tokens) == 0 {
		return vec
	}
	counts := make(map[uint32]int, len(tokens))
	for _, tok := range tokens {
		counts[e.bucket(tok)]++
	}
	total := float64(len(tokens))
	for idx, count := range counts {
		vec[idx] = float64(count) / total
	}
	return vec
}

// bucket maps a token to its hash bucket. xxhash is deterministic across
// processes and versions, unlike Go's seeded map hash.
func (e *HashingEncoder) bucket(token string) uint32 {
	return uint32(xxhash.Sum64String(token) % uint64(e.buckets))
}

// tokenize lowercases, splits on non-alphanumeric boundaries and drops
// stop words and tokens shorter than minTokenLen runes.
func (e *HashingEncoder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if len([]rune(tok)) < minTokenLen {
			continue
		}
		if _, isStop := e.stopwords[tok]; isStop {
			continue
		}
		out = append(out, tok)
	}
	return out
}
