// Package storage persists uploaded file bytes on the local filesystem.
//
// Keys are always derived from generated document ids, never from the
// user-supplied filename, so untrusted names stay display-only and can never
// steer a write outside the base directory.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes and removes files under a single base directory.
type Store struct {
	basePath string
}

// New creates the base directory if needed and returns a Store rooted there.
func New(basePath string) (*Store, error) {
	if basePath == "" {
		basePath = "uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// Path returns the absolute location a key is (or would be) stored at.
func (s *Store) Path(key string) string {
	return filepath.Join(s.basePath, filepath.Base(key))
}

// Save streams data into the file identified by key, creating or truncating it.
func (s *Store) Save(_ context.Context, key string, data io.Reader) (int64, error) {
	f, err := os.Create(s.Path(key))
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, data)
	if err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	return n, nil
}

// Remove deletes the file identified by key. Missing files are not an error;
// the caller logs orphans rather than failing.
func (s *Store) Remove(_ context.Context, key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
