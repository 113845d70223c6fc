package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore writes uploads under a base directory with random names. The key
// it returns is the bare filename; the base directory stays a deployment
// detail.
type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir}, nil
}

func (s *DiskStore) Store(up Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Name))
	key := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.Dir, key))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, up.Content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return key, nil
}

func (s *DiskStore) Delete(key string) error {
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
