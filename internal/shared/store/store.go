// Package store keeps the relay state as a directory of JSON documents.
//
// Every document is read as a full snapshot and written back as a full
// replacement. A missing or corrupt document is never an error: it is
// replaced on disk by the caller-supplied default so the next run starts
// from a known state.
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"
)

// Store is a JSON document store rooted at a directory.
type Store struct {
	basePath string
	mu       sync.RWMutex
}

// New creates the state directory if needed.
func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create state directory").Wrap(err)
	}
	return &Store{basePath: basePath}, nil
}

// Path returns the on-disk location of a document.
func (s *Store) Path(key string) string {
	return filepath.Join(s.basePath, key)
}

// Load decodes the document stored under key into dst. When the document is
// missing or cannot be decoded, def is persisted under key and decoded into dst
// instead.
func (s *Store) Load(key string, dst any, def any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	data, err := os.ReadFile(path)
	if err == nil {
		if err = json.Unmarshal(data, dst); err == nil {
			return nil
		}
		slog.Warn("Corrupt state document, resetting to default", "document", key, "error", err)
	} else if !os.IsNotExist(err) {
		slog.Warn("Unreadable state document, resetting to default", "document", key, "error", err)
	}

	raw, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return oops.With("document", key, "context", "failed to marshal default").Wrap(err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return oops.With("document", key, "context", "failed to apply default").Wrap(err)
	}
	return s.writeLocked(path, raw)
}

// Save atomically replaces the document stored under key.
func (s *Store) Save(key string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return oops.With("document", key, "context", "failed to marshal document").Wrap(err)
	}
	return s.writeLocked(s.Path(key), data)
}

// WriteFile atomically replaces a non-JSON artifact kept next to the documents.
func (s *Store) WriteFile(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(s.Path(key), data)
}

// writeLocked writes to a sibling temp file and renames it over path so a
// crash never leaves a half-written document behind.
func (s *Store) writeLocked(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return oops.With("path", path, "context", "failed to create temp file").Wrap(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return oops.With("path", path, "context", "failed to write temp file").Wrap(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return oops.With("path", path, "context", "failed to sync temp file").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return oops.With("path", path, "context", "failed to close temp file").Wrap(err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return oops.With("path", path, "context", "failed to chmod temp file").Wrap(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return oops.With("path", path, "context", "failed to replace document").Wrap(err)
	}
	return nil
}
