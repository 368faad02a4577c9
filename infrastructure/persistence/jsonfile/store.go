// Package jsonfile persists ordered records as a single JSON array per file.
//
// The whole file is the unit of read and write. Appends hold a per-path lock
// across read, parse, modify and write, and the rewritten array replaces the
// old file through a rename so readers never observe a partial document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "cosmic-backend/pkg/errors"

	"go.uber.org/zap"
)

const filePerm = 0o644

// Store is an append-only JSON array file holding records of type T
type Store[T any] struct {
	path   string
	name   string
	mu     *sync.Mutex
	logger *zap.Logger
}

// NewStore creates a store over path. name labels the store in errors and logs.
func NewStore[T any](path, name string, logger *zap.Logger) *Store[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store[T]{
		path:   path,
		name:   name,
		mu:     lockFor(path),
		logger: logger,
	}
}

// Path returns the file backing the store
func (s *Store[T]) Path() string {
	return s.path
}

// Ensure creates the file containing an empty array if it does not exist
func (s *Store[T]) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return pkgerrors.NewStorageReadError(s.name, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return pkgerrors.NewStorageWriteError(s.name, err)
	}
	if err := writeAtomic(s.path, []byte("[]")); err != nil {
		return pkgerrors.NewStorageWriteError(s.name, err)
	}

	s.logger.Info("Created empty store file", zap.String("store", s.name), zap.String("path", s.path))
	return nil
}

// Append adds record to the end of the array and rewrites the file
func (s *Store[T]) Append(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return pkgerrors.NewStorageWriteError(s.name, fmt.Errorf("failed to marshal record: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readRaw()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(append(existing, encoded), "", "  ")
	if err != nil {
		return pkgerrors.NewStorageWriteError(s.name, fmt.Errorf("failed to marshal array: %w", err))
	}

	if err := writeAtomic(s.path, data); err != nil {
		return pkgerrors.NewStorageWriteError(s.name, err)
	}

	s.logger.Debug("Appended record",
		zap.String("store", s.name),
		zap.Int("count", len(existing)+1),
	)
	return nil
}

// Records decodes every record in file order
func (s *Store[T]) Records(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	raw, err := s.readRaw()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, len(raw))
	for i, item := range raw {
		var record T
		if err := json.Unmarshal(item, &record); err != nil {
			return nil, pkgerrors.NewStorageReadError(s.name, fmt.Errorf("record %d: %w", i, err))
		}
		records = append(records, record)
	}
	return records, nil
}

// readRaw loads the array without decoding its elements, so keys unknown to T
// survive a rewrite. A missing or empty file reads as an empty array.
// Callers must hold s.mu.
func (s *Store[T]) readRaw() ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []json.RawMessage{}, nil
		}
		return nil, pkgerrors.NewStorageReadError(s.name, err)
	}
	if len(data) == 0 {
		return []json.RawMessage{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, pkgerrors.NewStorageReadError(s.name, fmt.Errorf("malformed JSON array: %w", err))
	}
	if items == nil {
		// the document was a literal null
		return nil, pkgerrors.NewStorageReadError(s.name, errors.New("malformed JSON array: null"))
	}
	return items, nil
}

// writeAtomic replaces path with data via a temp file in the same directory
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
