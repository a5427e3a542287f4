package store

import (
	"fmt"
	"strings"

	"github.com/stellarlinkco/prompt-lens/internal/config"
)

const DefaultSQLitePath = "data/prompt-lens.db"

// Open builds a persistence store from config. A "memory" type is an
// in-process SQLite database, handy for tests and one-shot CLI runs.
func Open(cfg *config.Config) (*SQLiteStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: missing config")
	}

	storageType := strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if storageType == "" {
		storageType = "sqlite"
	}

	switch storageType {
	case "sqlite":
		path := strings.TrimSpace(cfg.Storage.Path)
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewSQLiteStore(path)
	case "memory":
		return NewSQLiteStore(":memory:")
	default:
		return nil, fmt.Errorf("store: unsupported type %q", storageType)
	}
}
