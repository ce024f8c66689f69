package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// MemoryStore keeps entries in process memory. Expired entries are misses and are
// removed lazily on access or by the sweeper.
type MemoryStore struct {
	entries sync.Map // string -> *memoryEntry
	clock   clockwork.Clock
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore using clock for expiry.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{clock: clock}
}

// Get returns a copy of the stored value, or ErrMiss.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := m.entries.Load(key)
	if !ok {
		return nil, ErrMiss
	}

	entry, _ := raw.(*memoryEntry)
	if !m.clock.Now().Before(entry.expiresAt) {
		m.entries.CompareAndDelete(key, raw)
		return nil, ErrMiss
	}

	return append([]byte(nil), entry.value...), nil
}

// Set stores a copy of value until ttl elapses. A non-positive ttl stores nothing.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		m.entries.Delete(key)
		return nil
	}

	m.entries.Store(key, &memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: m.clock.Now().Add(ttl),
	})

	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op; the sweeper stops with its context.
func (m *MemoryStore) Close() error { return nil }

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// Sweep removes expired entries and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.clock.Now()
	removed := 0

	m.entries.Range(func(key, raw any) bool {
		entry, _ := raw.(*memoryEntry)
		if !now.Before(entry.expiresAt) && m.entries.CompareAndDelete(key, raw) {
			removed++
		}
		return true
	})

	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (m *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := m.clock.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				m.Sweep()
			}
		}
	}()
}
