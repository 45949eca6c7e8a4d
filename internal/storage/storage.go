// Package storage provides the upload storage adapter
package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kinds of stored files. Underscores map to path separators, so cover
// photos land under uploads/covers.
const (
	KindImage = "uploads"
	KindCover = "uploads_covers"
	KindCV    = "files"
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Create creates a new file and returns a WriteCloser
	// The file path is generated based on id and kind
	Create(id, kind string) (io.WriteCloser, error)

	// Open opens a file for reading and returns a ReadCloser
	Open(id, kind string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(id, kind string) error
}

// localStorage implements Storage interface using local filesystem
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// generatePath generates the full file path based on id and kind
// It converts underscores in kind to path separators
func (s *localStorage) generatePath(id, kind string) string {
	// Replace underscores with path separators based on operating system
	kindPath := strings.ReplaceAll(kind, "_", string(filepath.Separator))

	// Combine base path, kind path, and file id
	return filepath.Join(s.basePath, kindPath, id)
}

// Create creates a new file and returns a WriteCloser
func (s *localStorage) Create(id, kind string) (io.WriteCloser, error) {
	path := s.generatePath(id, kind)

	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// Create the file
	return os.Create(path)
}

// Open opens a file for reading and returns a ReadCloser
func (s *localStorage) Open(id, kind string) (io.ReadCloser, error) {
	path := s.generatePath(id, kind)
	return os.Open(path)
}

// Delete removes a file
func (s *localStorage) Delete(id, kind string) error {
	path := s.generatePath(id, kind)
	return os.Remove(path)
}
