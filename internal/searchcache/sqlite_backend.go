package searchcache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"spotlyric/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// sqliteSchemaVersion is bumped when schema.sql changes incompatibly.
const sqliteSchemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SQLiteBackend stores one row per cache key. Save replaces all rows in a
// single transaction.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the cache database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	backend := &SQLiteBackend{db: db, path: path}
	if err := backend.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *SQLiteBackend) initSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var version int
	err := b.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := b.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", sqliteSchemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != sqliteSchemaVersion:
		return fmt.Errorf("%w: database %s has version %d, expected %d", ErrSchemaMismatch, b.path, version, sqliteSchemaVersion)
	}
	return nil
}

func (b *SQLiteBackend) Load(ctx context.Context) (map[string]Entry, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT cache_key, candidates_json, bookmarks_json, fetched_at FROM cache_entries")
	if err != nil {
		return nil, fmt.Errorf("query cache entries: %w", err)
	}
	defer rows.Close()

	entries := map[string]Entry{}
	for rows.Next() {
		var key, candidatesJSON, bookmarksJSON, fetchedAt string
		if err := rows.Scan(&key, &candidatesJSON, &bookmarksJSON, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		var entry Entry
		if err := json.Unmarshal([]byte(candidatesJSON), &entry.Candidates); err != nil {
			return nil, services.Wrap(services.ErrCacheCorrupt, "searchcache", "decode candidates", key, err)
		}
		if err := json.Unmarshal([]byte(bookmarksJSON), &entry.Bookmarks); err != nil {
			return nil, services.Wrap(services.ErrCacheCorrupt, "searchcache", "decode bookmarks", key, err)
		}
		if entry.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
			return nil, services.Wrap(services.ErrCacheCorrupt, "searchcache", "decode fetched_at", key, err)
		}
		entries[key] = entry.clone()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache entries: %w", err)
	}
	return entries, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, entries map[string]Entry) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cache_entries"); err != nil {
		return fmt.Errorf("clear cache entries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO cache_entries (cache_key, candidates_json, bookmarks_json, fetched_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for key, entry := range entries {
		entry = entry.clone()
		candidates, err := json.Marshal(entry.Candidates)
		if err != nil {
			return fmt.Errorf("encode candidates for %q: %w", key, err)
		}
		bookmarks, err := json.Marshal(entry.Bookmarks)
		if err != nil {
			return fmt.Errorf("encode bookmarks for %q: %w", key, err)
		}
		if _, err := stmt.ExecContext(ctx, key, string(candidates), string(bookmarks), entry.FetchedAt.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert cache entry %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache tx: %w", err)
	}
	return nil
}
