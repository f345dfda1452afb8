package journal

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used for tests and local development
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  int64
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// ListEntries implements Store
func (m *MemoryStore) ListEntries(ctx context.Context, userID string, since time.Time) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list entries", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, unavailable("list entries", errStoreClosed)
	}

	result := []Entry{}
	for _, e := range m.entries {
		if e.UserID != userID || e.DeletedAt != nil || e.CreatedAt.Before(since) {
			continue
		}
		result = append(result, e)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// InsertEntry implements Store
func (m *MemoryStore) InsertEntry(ctx context.Context, e Entry) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable("insert entry", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, unavailable("insert entry", errStoreClosed)
	}

	e.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, e)

	return e.ID, nil
}

// Ping implements Store
func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return unavailable("ping", errStoreClosed)
	}
	return nil
}

// Close implements Store. Subsequent calls fail with ErrUnavailable.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
