package storage

import "io"

// Upload is an incoming file to be stored.
type Upload struct {
	Name    string // original filename, used only for its extension
	Content io.Reader
}

// Store persists uploaded files and deletes them by key. Implementations
// must tolerate Delete on a key that no longer exists.
type Store interface {
	Store(up Upload) (key string, err error)
	Delete(key string) error
}
