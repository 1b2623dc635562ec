// Package registry persists document metadata in SQLite so the set of
// ingested documents survives restarts. Vector data lives in the vector
// store; this registry only tracks what was ingested and when.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"docchat/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	document_id TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	uploaded_at TEXT NOT NULL,
	chunks      INTEGER NOT NULL,
	status      TEXT NOT NULL,
	file_path   TEXT NOT NULL
)`

// Registry is a SQLite-backed document metadata store.
type Registry struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the registry database at the given path. Parent
// directories are created as needed. Use ":memory:" for tests.
func Open(path string) (*Registry, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating registry directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening registry database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}
	return &Registry{db: db, path: path}, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Add inserts or replaces a document entry.
func (r *Registry) Add(ctx context.Context, info domain.DocumentInfo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (document_id, filename, uploaded_at, chunks, status, file_path)
		VALUES (?, ?, ?, ?, ?, ?)`,
		info.ID, info.Filename, info.UploadedAt.UTC().Format(time.RFC3339Nano),
		info.Chunks, info.Status, info.Path,
	)
	if err != nil {
		return fmt.Errorf("adding document %s: %w", info.ID, err)
	}
	return nil
}

// Get returns a document by ID, or domain.ErrDocumentNotFound.
func (r *Registry) Get(ctx context.Context, id string) (*domain.DocumentInfo, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT document_id, filename, uploaded_at, chunks, status, file_path
		FROM documents WHERE document_id = ?`, id)
	info, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching document %s: %w", id, err)
	}
	return info, nil
}

// List returns all documents, newest first.
func (r *Registry) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT document_id, filename, uploaded_at, chunks, status, file_path
		FROM documents ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentInfo
	for rows.Next() {
		info, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, *info)
	}
	return docs, rows.Err()
}

// Delete removes a document entry, reporting whether one existed.
func (r *Registry) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE document_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Exists reports whether a document is registered.
func (r *Registry) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.Get(ctx, id)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*domain.DocumentInfo, error) {
	var info domain.DocumentInfo
	var uploaded string
	if err := s.Scan(&info.ID, &info.Filename, &uploaded, &info.Chunks, &info.Status, &info.Path); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, uploaded)
	if err != nil {
		return nil, fmt.Errorf("parsing uploaded_at: %w", err)
	}
	info.UploadedAt = ts
	return &info, nil
}
