package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"certigen/internal/domain/certificate"
)

var _ certificate.ArtifactStore = (*FileStore)(nil)

// FileStore keeps batch artifacts (uploaded templates, packaged archives) on
// the local filesystem under a single root directory, keyed by batch ID. The
// API server and the worker must share this directory.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed and returns the store.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating artifacts dir %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// SaveTemplate stores the uploaded template for a batch.
func (s *FileStore) SaveTemplate(batchID string, data []byte) (string, error) {
	return s.save(batchID, "template.pdf", data)
}

// SaveArchive stores the packaged archive for a batch.
func (s *FileStore) SaveArchive(batchID string, data []byte) (string, error) {
	return s.save(batchID, "constancias.zip", data)
}

// ReadTemplate loads previously stored template bytes.
func (s *FileStore) ReadTemplate(path string) ([]byte, error) {
	data, err := os.ReadFile(s.AbsPath(path))
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	return data, nil
}

// AbsPath resolves a stored relative path under the storage root.
func (s *FileStore) AbsPath(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

func (s *FileStore) save(batchID, name string, data []byte) (string, error) {
	// Batch IDs are UUIDs generated by us, but never trust them as path
	// components anyway.
	if strings.ContainsAny(batchID, `/\.`) || batchID == "" {
		return "", fmt.Errorf("invalid batch id %q", batchID)
	}

	dir := filepath.Join(s.root, batchID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating batch dir: %w", err)
	}

	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, data, 0o640); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	return batchID + "/" + name, nil
}
