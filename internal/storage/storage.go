// Package storage provides the key-value capability the task store persists
// through. Each backend keeps opaque string values under string keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// KV is the persistence contract: one serialized value per key.
type KV interface {
	// Get returns ok=false when the key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend is a KV that holds resources until closed.
type Backend interface {
	KV
	io.Closer
}

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Open returns the backend named by kind, rooted at path.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case BackendSQLite, "":
		return OpenSQLite(path)
	case BackendFile:
		return NewFile(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
