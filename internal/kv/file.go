package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/flyride/journal/internal/domain"
)

// fileStore keeps one <key>.json file per key under dir.
// Writes go to a temp file in the same directory and are renamed into place,
// so a crash mid-write leaves the previous value intact.
type fileStore struct {
	dir string
}

// NewFileStore constructs a Store rooted at dir, creating the directory if
// it does not exist yet.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kv.NewFileStore: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the file for key.
func (s *fileStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, fmt.Errorf("kv.fileStore.Get: %w", err)
	}
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("kv.fileStore.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("kv.fileStore.Get: %w", err)
	}
	return b, nil
}

// Put atomically replaces the file for key.
func (s *fileStore) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("kv.fileStore.Put: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("kv.fileStore.Put: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("kv.fileStore.Put: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("kv.fileStore.Put: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("kv.fileStore.Put: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("kv.fileStore.Put: rename: %w", err)
	}
	return nil
}
