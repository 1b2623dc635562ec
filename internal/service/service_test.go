package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/chunker"
	"docchat/internal/conversation"
	"docchat/internal/domain"
	"docchat/internal/encoder"
	"docchat/internal/registry"
	"docchat/internal/summarizer"
	"docchat/internal/vectorstore/memory"
)

// fakeGenerator echoes what it was asked, recording the inputs.
type fakeGenerator struct {
	lastQuery   string
	lastContext []string
	lastHistory []domain.Turn
	calls       int
}

func (f *fakeGenerator) Generate(_ context.Context, query string, contextChunks []string, history []domain.Turn) (string, error) {
	f.calls++
	f.lastQuery = query
	f.lastContext = contextChunks
	f.lastHistory = history
	return fmt.Sprintf("answer %d", f.calls), nil
}

func newTestService(t *testing.T, gen domain.Generator) *Service {
	t.Helper()
	c, err := chunker.New(200, 5, chunker.WithMinWords(0))
	require.NoError(t, err)
	reg, err := registry.Open(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	return New(Options{
		Chunker:    c,
		Encoder:    encoder.New(),
		Store:      memory.New(),
		Window:     conversation.NewWindow(6),
		Registry:   reg,
		Generator:  gen,
		Summarizer: summarizer.NewFrequency(),
	})
}

func TestIngestAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeGenerator{})

	res, err := svc.Ingest(ctx, domain.Document{
		ID:       "doc-1",
		Filename: "pets.txt",
		Content:  "Cats are mammals.\n\nDogs are mammals too. Dogs bark loudly.",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", res.Info.ID)
	assert.Equal(t, "processed", res.Info.Status)
	assert.Positive(t, res.Info.Chunks)
	assert.NotEmpty(t, res.Summary)

	results, err := svc.Search(ctx, "Do dogs bark?", "doc-1", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Text, "Dogs bark loudly")

	docs, err := svc.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "pets.txt", docs[0].Filename)
}

func TestIngestRejectsEmptyContent(t *testing.T) {
	svc := newTestService(t, &fakeGenerator{})
	_, err := svc.Ingest(context.Background(), domain.Document{ID: "d", Content: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestAskBuildsContextAndHistory(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{}
	svc := newTestService(t, gen)

	_, err := svc.Ingest(ctx, domain.Document{
		ID:      "doc-1",
		Content: "Dogs bark loudly when strangers approach the quiet old house.",
	})
	require.NoError(t, err)

	first, err := svc.Ask(ctx, "", "doc-1", "Why do dogs bark?")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ConversationID)
	assert.Equal(t, "answer 1", first.Text)
	require.NotEmpty(t, first.Sources)
	assert.Contains(t, gen.lastContext[0], "Dogs bark loudly")
	assert.Empty(t, gen.lastHistory, "first turn has no prior history")

	second, err := svc.Ask(ctx, first.ConversationID, "doc-1", "How loudly?")
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)
	require.Len(t, gen.lastHistory, 2, "prior user and assistant turns feed the next call")
	assert.Equal(t, domain.RoleUser, gen.lastHistory[0].Role)
	assert.Equal(t, "Why do dogs bark?", gen.lastHistory[0].Content)
	assert.Equal(t, domain.RoleAssistant, gen.lastHistory[1].Role)

	history := svc.History(first.ConversationID, 10)
	assert.Len(t, history, 4)
}

func TestAskFeedsConfiguredWindowToGenerator(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{}
	c, err := chunker.New(200, 5, chunker.WithMinWords(0))
	require.NoError(t, err)
	svc := New(Options{
		Chunker:   c,
		Encoder:   encoder.New(),
		Store:     memory.New(),
		Window:    conversation.NewWindow(14),
		Generator: gen,
	})

	convID := ""
	for i := 0; i < 8; i++ {
		answer, err := svc.Ask(ctx, convID, "", fmt.Sprintf("question %d", i))
		require.NoError(t, err)
		convID = answer.ConversationID
	}

	// Seven completed exchanges left 14 stored turns; the window's
	// configured cap, not the package default, bounds what the generator
	// sees on the eighth.
	assert.Len(t, gen.lastHistory, 14)
}

func TestAskWithoutDocumentScope(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{}
	svc := newTestService(t, gen)

	answer, err := svc.Ask(ctx, "", "", "Anything ingested about gophers?")
	require.NoError(t, err)
	assert.Empty(t, answer.Sources, "no content ingested yet")
	assert.Empty(t, gen.lastContext)
}

func TestAskValidation(t *testing.T) {
	svc := newTestService(t, &fakeGenerator{})
	_, err := svc.Ask(context.Background(), "", "", "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)

	noGen := newTestService(t, nil)
	_, err = noGen.Ask(context.Background(), "", "", "hello there")
	assert.Error(t, err)
}

func TestDeleteDocumentCleansUp(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{}
	svc := newTestService(t, gen)

	_, err := svc.Ingest(ctx, domain.Document{
		ID:      "doc-1",
		Content: "Dogs bark loudly when strangers approach the quiet old house.",
	})
	require.NoError(t, err)

	answer, err := svc.Ask(ctx, "", "doc-1", "Why do dogs bark?")
	require.NoError(t, err)
	require.Len(t, svc.History(answer.ConversationID, 10), 2)

	require.NoError(t, svc.DeleteDocument(ctx, "doc-1"))

	results, err := svc.Search(ctx, "dogs bark", "doc-1", 5)
	require.NoError(t, err)
	assert.Empty(t, results, "vectors removed with the document")

	docs, err := svc.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs, "registry entry removed")

	assert.Empty(t, svc.History(answer.ConversationID, 10), "bound conversation removed")

	// Idempotent: deleting again is a no-op.
	require.NoError(t, svc.DeleteDocument(ctx, "doc-1"))
}
