package searchcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"spotlyric/internal/config"
	"spotlyric/internal/logging"
)

// Open builds a Store for the configured backend and sweeps expired entries
// once before returning it. Under the preserve bookmark policy the sweep is
// skipped; expired entries are then evicted lazily by Get after the finder has
// read their bookmarks.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("searchcache: config is required")
	}
	var backend Backend
	switch cfg.Cache.Backend {
	case config.CacheBackendSQLite:
		sqlite, err := OpenSQLite(ctx, cfg.Paths.CacheDB)
		if err != nil {
			return nil, err
		}
		backend = sqlite
	case config.CacheBackendMemory:
		backend = NewMemoryBackend()
	default:
		backend = NewFileBackend(cfg.Paths.CacheFile)
	}

	store := NewStore(backend, logger, WithExpiration(cfg.CacheExpiration()))
	if cfg.PreserveBookmarks() {
		return store, nil
	}
	if _, err := store.SweepExpired(ctx); err != nil {
		store.logger.Warn("startup sweep failed", logging.Error(err))
	}
	return store, nil
}

// Close releases backend resources such as database handles.
func (s *Store) Close() error {
	if closer, ok := s.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
