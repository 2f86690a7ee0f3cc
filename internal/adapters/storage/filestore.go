package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Default permission bits for stored blobs.
const (
	defaultFileMode fs.FileMode = 0o600
	defaultDirMode  fs.FileMode = 0o750
)

// FileStore is a Store backed by a single directory on the local
// filesystem. Blob names map to file names; path separators and parent
// references are rejected so a name can never escape the root.
type FileStore struct {
	root     string
	fileMode fs.FileMode
	dirMode  fs.FileMode
}

// NewFileStore creates a FileStore rooted at dir, creating the directory
// if it does not exist.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	s := &FileStore{
		root:     dir,
		fileMode: defaultFileMode,
		dirMode:  defaultDirMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(s.root, s.dirMode); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return s, nil
}

// Put persists data under name, overwriting any existing blob.
func (s *FileStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("put %q: %w", name, err)
	}
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, s.fileMode); err != nil {
		return "", fmt.Errorf("put %q: %w", name, err)
	}
	return name, nil
}

// Get returns the blob stored under name, or ErrNotFound.
func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return data, nil
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, name), nil
}
