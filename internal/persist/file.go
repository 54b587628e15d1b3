package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps each document as a file under a data directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed document store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Ensure creates the data directory if it doesn't exist.
func (s *FileStore) Ensure(ctx context.Context) error {
	return os.MkdirAll(s.dir, 0o755)
}

// Read returns the full content of the named document.
func (s *FileStore) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write replaces the named document with data.
func (s *FileStore) Write(ctx context.Context, name string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
