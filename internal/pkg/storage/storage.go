package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrNotFound = errors.New("object not found")

// ObjectStore is a flat key-value store of byte blobs. Keys use "/" separators.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns ErrNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete of a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// List returns every key starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// cleanKey rejects empty keys and keys escaping the store root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))[1:]
	if cleaned == "" || cleaned != strings.Trim(key, "/") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return cleaned, nil
}
