// Package qdrant implements the vector store contract on a remote Qdrant
// instance via its REST API, storing chunks as named sparse vectors and
// scoping them with a payload filter.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"docchat/internal/domain"
)

const sparseVectorName = "text"

// upsertBatchSize bounds points per upsert request.
const upsertBatchSize = 100

// Store is a minimal REST client to Qdrant configured for sparse vectors.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// Config contains connection details for a Qdrant store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// New creates a Qdrant-backed store and ensures the sparse collection
// exists. Creating an existing collection with the same schema is a no-op
// on the Qdrant side.
func New(cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	s := &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
	body := map[string]any{
		"sparse_vectors": map[string]any{
			sparseVectorName: map[string]any{},
		},
	}
	if err := s.putJSON(context.Background(), fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert writes records as sparse points. Point IDs are derived
// deterministically from record IDs so repeated upserts replace rather
// than duplicate.
func (s *Store) Upsert(ctx context.Context, scope string, records []domain.VectorRecord) error {
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.upsertBatch(ctx, scope, records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) upsertBatch(ctx context.Context, scope string, records []domain.VectorRecord) error {
	points := make([]map[string]any, len(records))
	for i, rec := range records {
		indices, values := splitVector(rec.Vector)
		payload := map[string]any{
			"record_id": rec.ID,
			"scope":     scope,
		}
		for k, v := range rec.Metadata {
			payload[k] = v
		}
		points[i] = map[string]any{
			"id": uuid.NewSHA1(uuid.NameSpaceOID, []byte(rec.ID)).String(),
			"vector": map[string]any{
				sparseVectorName: map[string]any{
					"indices": indices,
					"values":  values,
				},
			},
			"payload": payload,
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Query searches the collection, restricted to the scope when one is
// given. Qdrant scores sparse queries by dot product, matching the memory
// backend's ranking.
func (s *Store) Query(ctx context.Context, scope string, query domain.SparseVector, topK int) ([]domain.ScoredRecord, error) {
	if topK <= 0 {
		return nil, domain.ErrInvalidTopK
	}
	if len(query) == 0 {
		return []domain.ScoredRecord{}, nil
	}
	indices, values := splitVector(query)
	req := map[string]any{
		"vector": map[string]any{
			"name": sparseVectorName,
			"vector": map[string]any{
				"indices": indices,
				"values":  values,
			},
		},
		"limit":        topK,
		"with_payload": true,
	}
	if scope != "" {
		req["filter"] = scopeFilter(scope)
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.ScoredRecord, 0, len(resp.Result))
	for _, r := range resp.Result {
		rec := domain.VectorRecord{Metadata: r.Payload}
		if v, ok := r.Payload["record_id"].(string); ok {
			rec.ID = v
		}
		if v, ok := r.Payload["scope"].(string); ok {
			rec.Scope = v
		}
		results = append(results, domain.ScoredRecord{Record: rec, Score: r.Score})
	}
	return results, nil
}

// Delete removes all points under the scope by payload filter. Absent
// scopes delete nothing and return no error.
func (s *Store) Delete(ctx context.Context, scope string) error {
	body := map[string]any{"filter": scopeFilter(scope)}
	return s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection), body, nil)
}

func scopeFilter(scope string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{"key": "scope", "match": map[string]any{"value": scope}},
		},
	}
}

// splitVector converts the map form into Qdrant's parallel index/value
// lists, sorted by index for a stable wire representation.
func splitVector(vec domain.SparseVector) ([]uint32, []float64) {
	indices := make([]uint32, 0, len(vec))
	for idx := range vec {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = vec[idx]
	}
	return indices, values
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	return s.doJSON(ctx, http.MethodPut, url, body, nil)
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	return s.doJSON(ctx, http.MethodPost, url, body, out)
}

func (s *Store) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
