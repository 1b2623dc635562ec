// Package memory provides the in-process reference implementation of the
// vector store contract: brute-force dot-product ranking over scoped,
// mutex-guarded record slices.
package memory

import (
	"context"
	"sort"
	"sync"

	"docchat/internal/domain"
)

// upsertBatchSize bounds how many records are written per critical
// section. A performance detail only; semantics are unchanged.
const upsertBatchSize = 100

type entry struct {
	record domain.VectorRecord
	seq    uint64 // global insertion order, ties broken earliest-first
}

// Store is an in-memory scoped vector store. Concurrent upserts for
// overlapping record IDs are serialized (last writer wins per record);
// queries never observe a partially written record.
type Store struct {
	mu     sync.RWMutex
	scopes map[string][]entry
	byID   map[string]map[string]int // scope -> record ID -> slice index
	seq    uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		scopes: make(map[string][]entry),
		byID:   make(map[string]map[string]int),
	}
}

// Upsert inserts or replaces records by ID within the scope. Replacing a
// record keeps its original insertion position, so repeating an upsert
// leaves query results unchanged.
func (s *Store) Upsert(ctx context.Context, scope string, records []domain.VectorRecord) error {
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		s.upsertBatch(scope, records[start:end])
	}
	return nil
}

func (s *Store) upsertBatch(scope string, records []domain.VectorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.byID[scope]
	if ids == nil {
		ids = make(map[string]int)
		s.byID[scope] = ids
	}
	for _, rec := range records {
		rec.Scope = scope
		if i, ok := ids[rec.ID]; ok {
			s.scopes[scope][i].record = rec
			continue
		}
		s.seq++
		ids[rec.ID] = len(s.scopes[scope])
		s.scopes[scope] = append(s.scopes[scope], entry{record: rec, seq: s.seq})
	}
}

// Query ranks candidates in the scope by dot product against the query
// vector, descending, ties broken by insertion order. An empty scope spans
// all scopes. Querying an unknown scope yields an empty result.
func (s *Store) Query(ctx context.Context, scope string, query domain.SparseVector, topK int) ([]domain.ScoredRecord, error) {
	if topK <= 0 {
		return nil, domain.ErrInvalidTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []entry
	if scope == "" {
		for _, entries := range s.scopes {
			candidates = append(candidates, entries...)
		}
	} else {
		candidates = s.scopes[scope]
	}
	if len(candidates) == 0 {
		return []domain.ScoredRecord{}, nil
	}

	type scored struct {
		entry entry
		score float64
	}
	ranked := make([]scored, len(candidates))
	for i, e := range candidates {
		ranked[i] = scored{entry: e, score: query.Dot(e.record.Vector)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].entry.seq < ranked[j].entry.seq
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	results := make([]domain.ScoredRecord, topK)
	for i := 0; i < topK; i++ {
		results[i] = domain.ScoredRecord{
			Record: copyRecord(ranked[i].entry.record),
			Score:  ranked[i].score,
		}
	}
	return results, nil
}

// copyRecord detaches a result from store-owned state; mutating a returned
// record's vector or metadata must not alter stored records.
func copyRecord(rec domain.VectorRecord) domain.VectorRecord {
	rec.Vector = rec.Vector.Clone()
	if rec.Metadata != nil {
		meta := make(map[string]any, len(rec.Metadata))
		for k, v := range rec.Metadata {
			meta[k] = v
		}
		rec.Metadata = meta
	}
	return rec
}

// Delete removes every record under the scope. Absent scopes are a no-op.
func (s *Store) Delete(ctx context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, scope)
	delete(s.byID, scope)
	return nil
}

// Len reports the number of records stored under the scope.
func (s *Store) Len(scope string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scopes[scope])
}
