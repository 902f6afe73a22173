package tokenstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("tokenstore: key not found")

// Store is a small persistent key-value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open returns a store of the given kind. An empty path selects DefaultPath.
func Open(kind, path string) (Store, error) {
	kind = strings.ToLower(kind)
	if kind == KindMemory {
		return NewMemory(), nil
	}

	if path == "" {
		p, err := DefaultPath(kind)
		if err != nil {
			return nil, err
		}
		path = p
	}

	switch kind {
	case KindFile:
		return OpenFile(path)
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown token store kind %q", kind)
	}
}

// DefaultPath returns the store location under ~/.storeadmin.
func DefaultPath(kind string) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	dir := filepath.Join(home, ".storeadmin")
	switch strings.ToLower(kind) {
	case KindSQLite:
		return filepath.Join(dir, "storage.db"), nil
	default:
		return filepath.Join(dir, "storage.json"), nil
	}
}
