package domain

import "errors"

// Sentinel errors for parameter validation at call boundaries. Data-shape
// anomalies (empty text, unknown scope, no matches) are never errors; they
// resolve to empty results.
var (
	// ErrInvalidChunkParams indicates chunking parameters that cannot
	// produce forward progress, such as overlap >= maxSize.
	ErrInvalidChunkParams = errors.New("invalid chunk parameters")

	// ErrInvalidTopK indicates a negative or zero topK on a store query.
	ErrInvalidTopK = errors.New("topK must be positive")

	// ErrEmptyDocument indicates an ingestion payload with no text content.
	ErrEmptyDocument = errors.New("document has no text content")

	// ErrEmptyMessage indicates a chat message with no text content.
	ErrEmptyMessage = errors.New("message has no text content")

	// ErrDocumentNotFound indicates a registry lookup for an unknown document.
	ErrDocumentNotFound = errors.New("document not found")
)
