// Package postgres implements the whole-document store on PostgreSQL. The
// document is kept as a single JSONB row, preserving the read-whole /
// write-whole contract while moving the bytes off the local disk.
package postgres

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS travel_document (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    doc        JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

// Store persists the document in the travel_document table. Mutations are
// serialized behind an in-process mutex; the deployment model assumes a
// single active writer process.
type Store struct {
	mu sync.Mutex
	db *sqlx.DB
}

var _ storage.Store = (*Store)(nil)

// Open connects to PostgreSQL and ensures the document table exists.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, apperrors.NewStorageError("connect", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("migrate", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Read returns the stored document, or the empty default when no row exists.
// Read failures fall back to the empty document per the store contract.
func (s *Store) Read(ctx context.Context) (storage.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(ctx), nil
}

func (s *Store) readLocked(ctx context.Context) storage.Document {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT doc FROM travel_document WHERE id = 1`)
	if err != nil {
		return storage.Empty()
	}

	var doc storage.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return storage.Empty()
	}
	if doc.Users == nil {
		doc.Users = storage.Empty().Users
	}
	if doc.Destinations == nil {
		doc.Destinations = storage.Empty().Destinations
	}
	if doc.Reservations == nil {
		doc.Reservations = storage.Empty().Reservations
	}
	return doc
}

// Write upserts the single document row.
func (s *Store) Write(ctx context.Context, doc storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx, doc)
}

func (s *Store) writeLocked(ctx context.Context, doc storage.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewStorageError("encode", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO travel_document (id, doc, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`, raw, time.Now().UTC())
	if err != nil {
		return apperrors.NewStorageError("write", err)
	}
	return nil
}

// Update runs a read-modify-write cycle under the store lock.
func (s *Store) Update(ctx context.Context, fn func(doc *storage.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.readLocked(ctx)
	if err := fn(&doc); err != nil {
		return err
	}
	return s.writeLocked(ctx, doc)
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.NewStorageError("ping", err)
	}
	return nil
}
