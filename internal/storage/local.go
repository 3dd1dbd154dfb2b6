package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes assets to a directory on disk that the HTTP server serves
// under a public path prefix.
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore creates a LocalStore rooted at dir. The directory is created
// lazily on first write.
func NewLocalStore(dir, prefix string) *LocalStore {
	return &LocalStore{
		dir:    dir,
		prefix: prefix,
	}
}

// Store writes the payload under filename and returns its public path.
func (s *LocalStore) Store(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory %s: %w", s.dir, err)
	}
	target := filepath.Join(s.dir, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset %s: %w", filename, err)
	}
	return s.prefix + "/" + filename, nil
}

// Delete removes the file the reference points at. A malformed reference or an
// already-missing file is a no-op.
func (s *LocalStore) Delete(reference string) error {
	key := keyFromReference(reference)
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete asset %s: %w", key, err)
	}
	return nil
}
