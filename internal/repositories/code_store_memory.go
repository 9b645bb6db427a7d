package repositories

import (
	"context"
	"sync"
	"time"
)

type memoryCodeEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCodeStore is an in-memory implementation of CodeStore. Expiry is
// passive: entries are checked against their deadline on read, no
// background sweep. The mutex serializes Take, giving it the same
// one-winner guarantee as the Redis GETDEL.
type MemoryCodeStore struct {
	entries map[string]memoryCodeEntry
	mu      sync.Mutex
}

// NewMemoryCodeStore creates a new instance of MemoryCodeStore.
func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{
		entries: make(map[string]memoryCodeEntry),
	}
}

// Put stores a value under key with the given TTL, overwriting any
// previous value.
func (s *MemoryCodeStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryCodeEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get returns the value under key, or ErrCodeNotFound if absent or expired.
func (s *MemoryCodeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrCodeNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrCodeNotFound
	}
	return entry.value, nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *MemoryCodeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Take atomically reads and deletes a key.
func (s *MemoryCodeStore) Take(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrCodeNotFound
	}
	delete(s.entries, key)
	if time.Now().After(entry.expiresAt) {
		return nil, ErrCodeNotFound
	}
	return entry.value, nil
}
