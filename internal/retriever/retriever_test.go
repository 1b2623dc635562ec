package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/chunker"
	"docchat/internal/domain"
	"docchat/internal/encoder"
	"docchat/internal/vectorstore/memory"
)

func ingest(t *testing.T, enc domain.Encoder, store domain.VectorStore, docID, text string, maxSize, overlap int) []domain.Chunk {
	t.Helper()
	c, err := chunker.New(maxSize, overlap, chunker.WithMinWords(0))
	require.NoError(t, err)
	chunks, err := c.Chunk(domain.Document{ID: docID, Content: text})
	require.NoError(t, err)

	records := make([]domain.VectorRecord, len(chunks))
	for i, ch := range chunks {
		records[i] = domain.VectorRecord{
			ID:     ch.ID(),
			Scope:  docID,
			Vector: enc.Encode(ch.Text),
			Metadata: map[string]any{
				"text":        ch.Text,
				"document_id": ch.DocumentID,
				"chunk_index": ch.Index,
			},
		}
	}
	require.NoError(t, store.Upsert(context.Background(), docID, records))
	return chunks
}

func TestRetrieveRanksSharedTokensFirst(t *testing.T) {
	ctx := context.Background()
	enc := encoder.New()
	store := memory.New()
	r := New(enc, store, nil)

	text := "Cats are mammals.\n\nDogs are mammals too. Dogs bark loudly."
	chunks := ingest(t, enc, store, "doc-1", text, 40, 5)
	require.Len(t, chunks, 2)

	results, err := r.Retrieve(ctx, "Do dogs bark?", "doc-1", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Text, "Dogs bark loudly")
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, "doc-1", results[0].Metadata["document_id"])
}

func TestRetrieveAfterDeleteIsEmpty(t *testing.T) {
	ctx := context.Background()
	enc := encoder.New()
	store := memory.New()
	r := New(enc, store, nil)

	ingest(t, enc, store, "doc-1", "Dogs bark loudly in the quiet yard every single morning.", 200, 5)
	require.NoError(t, store.Delete(ctx, "doc-1"))

	results, err := r.Retrieve(ctx, "dogs bark", "doc-1", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveUnknownScopeIsEmpty(t *testing.T) {
	r := New(encoder.New(), memory.New(), nil)
	results, err := r.Retrieve(context.Background(), "anything at all", "missing", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveDegenerateQueryIsEmpty(t *testing.T) {
	ctx := context.Background()
	enc := encoder.New()
	store := memory.New()
	r := New(enc, store, nil)
	ingest(t, enc, store, "doc-1", "Dogs bark loudly in the quiet yard every single morning.", 200, 5)

	// Stop words only: empty vector, empty result, no error.
	results, err := r.Retrieve(ctx, "the and but", "doc-1", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveCrossDocumentWhenScopeOmitted(t *testing.T) {
	ctx := context.Background()
	enc := encoder.New()
	store := memory.New()
	r := New(enc, store, nil)

	ingest(t, enc, store, "doc-1", "Gophers tunnel beneath gardens and eat roots all summer long.", 200, 5)
	ingest(t, enc, store, "doc-2", "Badgers dig burrows and hunt gophers across open grassland at night.", 200, 5)

	results, err := r.Retrieve(ctx, "where do gophers live", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	scoped, err := r.Retrieve(ctx, "where do gophers live", "doc-1", 10)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "doc-1", scoped[0].Metadata["document_id"])
}

func TestRetrieveDefaultsTopK(t *testing.T) {
	ctx := context.Background()
	enc := encoder.New()
	store := memory.New()
	r := New(enc, store, nil)
	ingest(t, enc, store, "doc-1", "Dogs bark loudly in the quiet yard every single morning.", 200, 5)

	_, err := r.Retrieve(ctx, "dogs bark", "doc-1", 0)
	require.NoError(t, err)

	_, err = r.Retrieve(ctx, "dogs bark", "doc-1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidTopK)
}
