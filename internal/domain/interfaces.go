package domain

import "context"

// Chunker splits a document's text into chunks suitable for indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Encoder turns free text into a hashed sparse vector. Encoding is
// deterministic: the same text always produces the same vector, and the
// ingestion and query paths must share one Encoder configuration.
type Encoder interface {
	Name() string
	Buckets() uint32
	Encode(text string) SparseVector
}

// VectorStore persists encoded records per document scope and supports
// ranked similarity queries. The backing substrate (in-memory map or an
// external service) is pluggable behind this contract.
type VectorStore interface {
	// Upsert inserts or replaces records by ID within the given scope.
	Upsert(ctx context.Context, scope string, records []VectorRecord) error

	// Query restricts candidates to the given scope (empty scope spans all
	// scopes), ranks them by dot product against the query vector and
	// returns at most topK results. Unknown scopes yield empty results.
	Query(ctx context.Context, scope string, query SparseVector, topK int) ([]ScoredRecord, error)

	// Delete removes all records under the scope. Deleting an absent
	// scope is a no-op.
	Delete(ctx context.Context, scope string) error
}

// ScoredRecord pairs a stored record with its query similarity score.
type ScoredRecord struct {
	Record VectorRecord
	Score  float64
}

// Generator produces an answer from a query, retrieved context chunks and
// recent conversation turns. Prompt formatting and model choice belong to
// the implementation.
type Generator interface {
	Generate(ctx context.Context, query string, contextChunks []string, history []Turn) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
