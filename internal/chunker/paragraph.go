package chunker

import (
	"strings"

	"docchat/internal/domain"
)

// Defaults mirror common retrieval settings: roughly a half page of text
// per chunk with a 50-word overlap, and a 10-word noise floor that drops
// headers and page numbers.
const (
	DefaultMaxSize      = 1000
	DefaultOverlapWords = 50
	DefaultMinWords     = 10
)

// ParagraphChunker splits text on blank-line paragraph boundaries and
// accumulates paragraphs into chunks bounded by a character size, seeding
// each new chunk with the trailing words of the previous one.
type ParagraphChunker struct {
	maxSize      int
	overlapWords int
	minWords     int
}

// Option configures the chunker.
type Option func(*ParagraphChunker)

// WithMinWords sets the minimum word count below which chunks are dropped.
func WithMinWords(n int) Option {
	return func(c *ParagraphChunker) {
		if n >= 0 {
			c.minWords = n
		}
	}
}

// New creates a paragraph chunker. maxSize is the chunk size bound in
// characters, overlapWords the number of trailing words carried into the
// next chunk. Parameters where overlap >= maxSize are rejected.
func New(maxSize, overlapWords int, opts ...Option) (*ParagraphChunker, error) {
	if maxSize <= 0 || overlapWords < 0 || overlapWords >= maxSize {
		return nil, domain.ErrInvalidChunkParams
	}
	c := &ParagraphChunker{
		maxSize:      maxSize,
		overlapWords: overlapWords,
		minWords:     DefaultMinWords,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Chunk splits the document into ordered chunks. The same input and
// parameters always produce the same sequence. A paragraph that alone
// exceeds maxSize is emitted as its own chunk, unsplit.
func (c *ParagraphChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	paragraphs := splitParagraphs(document.Content)
	if len(paragraphs) == 0 {
		return nil, nil
	}

	var closed []string
	var current string
	for _, para := range paragraphs {
		if current != "" && len(current)+len("\n\n")+len(para) > c.maxSize {
			closed = append(closed, current)
			current = c.seedOverlap(current, para)
			continue
		}
		if current == "" {
			current = para
		} else {
			current += "\n\n" + para
		}
	}
	if current != "" {
		closed = append(closed, current)
	}

	chunks := make([]domain.Chunk, 0, len(closed))
	idx := 0
	for _, text := range closed {
		if len(strings.Fields(text)) < c.minWords {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			Index:      idx,
			Text:       text,
		})
		idx++
	}
	return chunks, nil
}

// seedOverlap starts the next chunk with the trailing overlap words of the
// just-closed chunk followed by the paragraph that triggered the split.
func (c *ParagraphChunker) seedOverlap(prev, para string) string {
	if c.overlapWords == 0 {
		return para
	}
	words := strings.Fields(prev)
	if len(words) <= c.overlapWords {
		return para
	}
	tail := strings.Join(words[len(words)-c.overlapWords:], " ")
	return tail + "\n\n" + para
}

func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
