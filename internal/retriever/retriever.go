// Package retriever turns a natural-language query into a ranked list of
// stored source chunks by encoding the query and delegating to the vector
// store.
package retriever

import (
	"context"

	"go.uber.org/zap"

	"docchat/internal/domain"
)

// DefaultTopK is the number of chunks returned when callers pass 0.
const DefaultTopK = 5

// Retriever orchestrates the sparse encoder and the vector store.
type Retriever struct {
	encoder domain.Encoder
	store   domain.VectorStore
	logger  *zap.Logger
}

// New creates a retriever. The encoder must be the same configuration used
// on the ingestion path.
func New(encoder domain.Encoder, store domain.VectorStore, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{encoder: encoder, store: store, logger: logger}
}

// Retrieve encodes the query and returns at most topK ranked chunks from
// the given scope. An empty scope spans all documents; callers needing
// isolation must always pass one. Queries that encode to an empty vector,
// and scopes with no ingested content, yield an empty list, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query, scope string, topK int) ([]domain.RetrievedChunk, error) {
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < 0 {
		return nil, domain.ErrInvalidTopK
	}

	vec := r.encoder.Encode(query)
	if len(vec) == 0 {
		r.logger.Debug("query encoded to empty vector", zap.String("scope", scope))
		return []domain.RetrievedChunk{}, nil
	}

	scored, err := r.store.Query(ctx, scope, vec, topK)
	if err != nil {
		return nil, err
	}

	chunks := make([]domain.RetrievedChunk, 0, len(scored))
	for _, sr := range scored {
		text, _ := sr.Record.Metadata["text"].(string)
		chunks = append(chunks, domain.RetrievedChunk{
			Text:     text,
			Score:    sr.Score,
			Metadata: sr.Record.Metadata,
		})
	}
	r.logger.Debug("retrieved chunks",
		zap.String("scope", scope),
		zap.Int("top_k", topK),
		zap.Int("results", len(chunks)),
	)
	return chunks, nil
}
