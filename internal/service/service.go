// Package service composes the retrieval core: chunking and encoding on
// the ingestion path, retrieval plus generation on the query path, and
// document lifecycle across the vector store, registry and conversation
// windows. All state lives in explicitly injected stores.
package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docchat/internal/conversation"
	"docchat/internal/domain"
	"docchat/internal/retriever"
)

// DocumentRegistry is the persistence collaborator for document metadata.
type DocumentRegistry interface {
	Add(ctx context.Context, info domain.DocumentInfo) error
	Get(ctx context.Context, id string) (*domain.DocumentInfo, error)
	List(ctx context.Context) ([]domain.DocumentInfo, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Service is the application core for document chat.
type Service struct {
	chunker   domain.Chunker
	encoder   domain.Encoder
	store     domain.VectorStore
	retriever *retriever.Retriever
	window    *conversation.Window
	registry  DocumentRegistry
	generator domain.Generator
	summarize domain.Summarizer
	logger    *zap.Logger
	topK      int

	mu       sync.Mutex
	bindings map[string]string // conversation ID -> document ID
}

// Options configures the service.
type Options struct {
	Chunker    domain.Chunker
	Encoder    domain.Encoder
	Store      domain.VectorStore
	Window     *conversation.Window
	Registry   DocumentRegistry // optional; nil disables metadata persistence
	Generator  domain.Generator // optional; nil disables Ask
	Summarizer domain.Summarizer
	Logger     *zap.Logger
	TopK       int
}

// New assembles the service from its collaborators.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = retriever.DefaultTopK
	}
	window := opts.Window
	if window == nil {
		window = conversation.NewWindow(conversation.DefaultMaxTurns)
	}
	return &Service{
		chunker:   opts.Chunker,
		encoder:   opts.Encoder,
		store:     opts.Store,
		retriever: retriever.New(opts.Encoder, opts.Store, logger),
		window:    window,
		registry:  opts.Registry,
		generator: opts.Generator,
		summarize: opts.Summarizer,
		logger:    logger,
		topK:      topK,
		bindings:  make(map[string]string),
	}
}

// IngestResult describes a completed ingestion.
type IngestResult struct {
	Info    domain.DocumentInfo
	Summary string
}

// IngestFile reads a plain-text file, assigns it a fresh document ID and
// ingests it.
func (s *Service) IngestFile(ctx context.Context, path string) (*IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := domain.Document{
		ID:       uuid.NewString(),
		Filename: filepath.Base(path),
		Content:  string(data),
	}
	return s.Ingest(ctx, doc)
}

// Ingest chunks, encodes and stores the document's text under the
// document's ID as scope, then records it in the registry.
func (s *Service) Ingest(ctx context.Context, doc domain.Document) (*IngestResult, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, domain.ErrEmptyDocument
	}

	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return nil, err
	}

	records := make([]domain.VectorRecord, len(chunks))
	for i, ch := range chunks {
		records[i] = domain.VectorRecord{
			ID:     ch.ID(),
			Scope:  doc.ID,
			Vector: s.encoder.Encode(ch.Text),
			Metadata: map[string]any{
				"text":        ch.Text,
				"document_id": ch.DocumentID,
				"chunk_index": ch.Index,
				"filename":    doc.Filename,
			},
		}
	}
	if err := s.store.Upsert(ctx, doc.ID, records); err != nil {
		return nil, err
	}

	info := domain.DocumentInfo{
		ID:         doc.ID,
		Filename:   doc.Filename,
		UploadedAt: time.Now().UTC(),
		Chunks:     len(chunks),
		Status:     "processed",
	}
	if s.registry != nil {
		if err := s.registry.Add(ctx, info); err != nil {
			return nil, err
		}
	}

	summary := ""
	if s.summarize != nil {
		if summary, err = s.summarize.Summarize(doc.Content, 3); err != nil {
			return nil, err
		}
	}

	s.logger.Info("document ingested",
		zap.String("document_id", doc.ID),
		zap.String("filename", doc.Filename),
		zap.Int("chunks", len(chunks)),
	)
	return &IngestResult{Info: info, Summary: summary}, nil
}

// Search returns ranked chunks for the query. An empty documentID spans
// all ingested documents.
func (s *Service) Search(ctx context.Context, query, documentID string, topK int) ([]domain.RetrievedChunk, error) {
	if topK == 0 {
		topK = s.topK
	}
	return s.retriever.Retrieve(ctx, query, documentID, topK)
}

// Answer is the result of one Ask exchange.
type Answer struct {
	Text           string
	ConversationID string
	Sources        []domain.RetrievedChunk
}

// Ask runs one retrieval-augmented exchange: retrieve context scoped to
// the document, feed it with the recent conversation window to the
// generator, and append both turns. An empty conversation ID starts a new
// conversation.
func (s *Service) Ask(ctx context.Context, conversationID, documentID, message string) (*Answer, error) {
	if s.generator == nil {
		return nil, errors.New("no generator configured")
	}
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyMessage
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	sources, err := s.retriever.Retrieve(ctx, message, documentID, s.topK)
	if err != nil {
		return nil, err
	}
	contextChunks := make([]string, 0, len(sources))
	for _, src := range sources {
		if src.Text != "" {
			contextChunks = append(contextChunks, src.Text)
		}
	}

	history := s.window.Recent(conversationID, s.window.MaxTurns())
	text, err := s.generator.Generate(ctx, message, contextChunks, history)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s.window.Append(conversationID, domain.Turn{Role: domain.RoleUser, Content: message, At: now})
	s.window.Append(conversationID, domain.Turn{Role: domain.RoleAssistant, Content: text, At: now})
	if documentID != "" {
		s.bind(conversationID, documentID)
	}

	return &Answer{Text: text, ConversationID: conversationID, Sources: sources}, nil
}

// History returns the most recent limit turns of a conversation.
func (s *Service) History(conversationID string, limit int) []domain.Turn {
	return s.window.Recent(conversationID, limit)
}

// Documents lists registered documents, newest first.
func (s *Service) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	if s.registry == nil {
		return nil, nil
	}
	return s.registry.List(ctx)
}

// DeleteDocument removes the document's vectors, registry entry and any
// conversations bound exclusively to it.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	if err := s.store.Delete(ctx, documentID); err != nil {
		return err
	}
	if s.registry != nil {
		if _, err := s.registry.Delete(ctx, documentID); err != nil {
			return err
		}
	}
	for _, convID := range s.unbind(documentID) {
		s.window.Remove(convID)
	}
	s.logger.Info("document deleted", zap.String("document_id", documentID))
	return nil
}

func (s *Service) bind(conversationID, documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[conversationID] = documentID
}

// unbind removes and returns the conversations bound to the document.
func (s *Service) unbind(documentID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for convID, docID := range s.bindings {
		if docID == documentID {
			removed = append(removed, convID)
			delete(s.bindings, convID)
		}
	}
	return removed
}
