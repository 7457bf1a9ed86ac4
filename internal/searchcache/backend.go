package searchcache

import "context"

// Backend persists the full key to entry mapping. Implementations replace the
// stored state wholesale on Save.
type Backend interface {
	Load(ctx context.Context) (map[string]Entry, error)
	Save(ctx context.Context, entries map[string]Entry) error
}

// Locker is implemented by backends that can exclude other processes for the
// duration of a read-modify-write cycle.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}

// MemoryBackend keeps entries in process memory. It is used for tests and for
// cache.backend = "memory".
type MemoryBackend struct {
	entries map[string]Entry
	saves   int
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: map[string]Entry{}}
}

func (m *MemoryBackend) Load(context.Context) (map[string]Entry, error) {
	out := make(map[string]Entry, len(m.entries))
	for k, v := range m.entries {
		out[k] = v.clone()
	}
	return out, nil
}

func (m *MemoryBackend) Save(_ context.Context, entries map[string]Entry) error {
	m.saves++
	m.entries = make(map[string]Entry, len(entries))
	for k, v := range entries {
		m.entries[k] = v.clone()
	}
	return nil
}

// Saves reports how many times Save was called.
func (m *MemoryBackend) Saves() int { return m.saves }
