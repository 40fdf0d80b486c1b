// Package document implements the whole-document store on a JSON file, plus
// an in-memory variant for tests and ephemeral deployments.
package document

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

// FileStore persists the document as one JSON file. Writes go to a temp file
// in the same directory followed by a rename, so readers never observe a
// half-written document. All access is serialized behind a single mutex.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

var _ storage.Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store at path. The parent directory is
// created if missing.
func NewFileStore(path string, log *logger.Logger) (*FileStore, error) {
	if log == nil {
		log = logger.NewDefault("store")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewStorageError("mkdir", err)
		}
	}
	return &FileStore{path: path, log: log}, nil
}

// Read returns the stored document. A missing or unreadable file falls back
// to the empty default; the failure is logged, not surfaced.
func (s *FileStore) Read(ctx context.Context) (storage.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(), nil
}

func (s *FileStore) readLocked() storage.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("document read failed, using empty document")
		}
		return storage.Empty()
	}

	var doc storage.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.WithError(err).Warn("document parse failed, using empty document")
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

// Write replaces the document. Write failures are surfaced: silently dropping
// a write would break the caller's durability expectations.
func (s *FileStore) Write(ctx context.Context, doc storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(doc)
}

func (s *FileStore) writeLocked(doc storage.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("encode", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".db-*.json")
	if err != nil {
		return apperrors.NewStorageError("write", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStorageError("write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("write", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("write", err)
	}
	return nil
}

// Update runs a read-modify-write cycle under the store lock.
func (s *FileStore) Update(ctx context.Context, fn func(doc *storage.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.readLocked()
	if err := fn(&doc); err != nil {
		return err
	}
	return s.writeLocked(doc)
}

// MemoryStore keeps the document in memory. Reads and writes deep-copy so
// callers never alias stored state.
type MemoryStore struct {
	mu  sync.Mutex
	doc storage.Document
}

var _ storage.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: storage.Empty()}
}

// Read returns a copy of the current document.
func (s *MemoryStore) Read(ctx context.Context) (storage.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), nil
}

// Write replaces the current document.
func (s *MemoryStore) Write(ctx context.Context, doc storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return nil
}

// Update runs a read-modify-write cycle under the store lock.
func (s *MemoryStore) Update(ctx context.Context, fn func(doc *storage.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.doc.Clone()
	if err := fn(&doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}
