package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key, err := s.Store(Upload{Name: "photo.PNG", Content: strings.NewReader("imagedata")})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key %q should keep a lowercased extension", key)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, key))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "imagedata" {
		t.Errorf("stored content = %q", data)
	}

	if err := s.Delete(key); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, key)); !os.IsNotExist(err) {
		t.Error("file still present after Delete")
	}

	// deleting a missing key is not an error
	if err := s.Delete(key); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}
