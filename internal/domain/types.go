package domain

import (
	"strconv"
	"time"
)

// Document represents a single text document ingested into the system.
type Document struct {
	ID       string
	Filename string
	Content  string
}

// Chunk is a contiguous slice of a document's text used for indexing.
// Chunks are immutable once produced; the Index is the 0-based ordinal
// within the owning document.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
}

// ID returns the stable record identifier for this chunk.
func (c Chunk) ID() string {
	return c.DocumentID + ":" + strconv.Itoa(c.Index)
}

// VectorRecord is the persisted unit in the vector store: an encoded chunk
// together with the document scope it belongs to and an opaque metadata
// payload. The store exclusively owns the record's lifetime.
type VectorRecord struct {
	ID       string
	Scope    string
	Vector   SparseVector
	Metadata map[string]any
}

// RetrievedChunk is a ranked retrieval result handed to callers. The
// internal vector is discarded; only text, score and metadata survive.
type RetrievedChunk struct {
	Text     string
	Score    float64
	Metadata map[string]any
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are never mutated after
// being appended; only window eviction removes them.
type Turn struct {
	Role    Role
	Content string
	At      time.Time
}

// DocumentInfo is the registry view of an ingested document.
type DocumentInfo struct {
	ID         string
	Filename   string
	UploadedAt time.Time
	Chunks     int
	Status     string
	Path       string
}
