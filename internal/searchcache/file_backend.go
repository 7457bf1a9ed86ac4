package searchcache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"spotlyric/internal/services"
)

// documentVersion identifies the layout written by FileBackend. Version 1 is
// the positional [candidates, fetched_at, bookmarks] record layout, which is
// still accepted on read.
const documentVersion = 2

const lockRetryDelay = 25 * time.Millisecond

type document struct {
	SchemaVersion int              `json:"schema_version"`
	Entries       map[string]Entry `json:"entries"`
}

// FileBackend stores the cache as a single JSON document. Writes go to a
// temporary file that is renamed over the target, and a sibling .lock file
// serializes writers across processes.
type FileBackend struct {
	path string
	lock *flock.Flock
}

// NewFileBackend returns a backend persisting to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the cache document location.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Load(context.Context) (map[string]Entry, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	entries, err := decodeDocument(data)
	if err != nil {
		return nil, services.Wrap(services.ErrCacheCorrupt, "searchcache", "decode", b.path, err)
	}
	return entries, nil
}

func (b *FileBackend) Save(_ context.Context, entries map[string]Entry) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	data, err := encodeDocument(entries)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(b.path, data, 0o644); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// Lock acquires the cross-process advisory lock, polling until ctx is done.
func (b *FileBackend) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	locked, err := b.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock cache file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock cache file: %w", services.ErrTimeout)
	}
	return b.lock.Unlock, nil
}

func encodeDocument(entries map[string]Entry) ([]byte, error) {
	doc := document{SchemaVersion: documentVersion, Entries: make(map[string]Entry, len(entries))}
	for key, entry := range entries {
		doc.Entries[key] = entry.clone()
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode cache: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeDocument(data []byte) (map[string]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]Entry{}, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if version, ok := raw["schema_version"]; ok && isJSONNumber(version) {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc.SchemaVersion > documentVersion {
			return nil, fmt.Errorf("unsupported schema version %d", doc.SchemaVersion)
		}
		entries := make(map[string]Entry, len(doc.Entries))
		for key, entry := range doc.Entries {
			entries[key] = entry.clone()
		}
		return entries, nil
	}
	return decodeLegacy(raw)
}

func isJSONNumber(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && (trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'))
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
