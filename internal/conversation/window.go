// Package conversation maintains bounded, ordered logs of prior turns per
// conversation, feeding recent context into retrieval-augmented generation.
package conversation

import (
	"sync"

	"docchat/internal/domain"
)

// DefaultMaxTurns is the retained-turn cap applied when none is given.
const DefaultMaxTurns = 10

// Window holds per-conversation turn logs with FIFO eviction once the cap
// is exceeded. Turns are append-only; only eviction removes entries.
// Lifecycle is owned by the composing service, not by module state.
type Window struct {
	mu       sync.Mutex
	maxTurns int
	turns    map[string][]domain.Turn
}

// NewWindow creates a window retaining at most maxTurns turns per
// conversation ID.
func NewWindow(maxTurns int) *Window {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Window{
		maxTurns: maxTurns,
		turns:    make(map[string][]domain.Turn),
	}
}

// Append adds a turn, creating the conversation on first use and evicting
// the oldest turns once the cap is exceeded.
func (w *Window) Append(conversationID string, turn domain.Turn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	log := append(w.turns[conversationID], turn)
	if excess := len(log) - w.maxTurns; excess > 0 {
		log = log[excess:]
	}
	w.turns[conversationID] = log
}

// Recent returns the most recent limit turns in chronological order,
// oldest of the returned window first, never more than currently stored.
func (w *Window) Recent(conversationID string, limit int) []domain.Turn {
	w.mu.Lock()
	defer w.mu.Unlock()
	log := w.turns[conversationID]
	if limit <= 0 || len(log) == 0 {
		return nil
	}
	if limit > len(log) {
		limit = len(log)
	}
	out := make([]domain.Turn, limit)
	copy(out, log[len(log)-limit:])
	return out
}

// MaxTurns reports the configured retained-turn cap.
func (w *Window) MaxTurns() int {
	return w.maxTurns
}

// Remove drops a conversation entirely. Used by document-lifecycle
// cleanup; removing an unknown ID is a no-op.
func (w *Window) Remove(conversationID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.turns, conversationID)
}

// Len reports the number of turns currently retained for the ID.
func (w *Window) Len(conversationID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.turns[conversationID])
}
