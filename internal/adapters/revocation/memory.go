package revocation

import (
	"context"
	"sync"
	"time"

	"paysecure/internal/pkg/password"
)

// MemoryStore is a process-local store. It is lost on restart and not shared
// between instances, so it is meant for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke records token until expiresAt
func (s *MemoryStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	if !expiresAt.After(s.now()) {
		return nil
	}
	s.mu.Lock()
	s.entries[password.HashToken(token)] = expiresAt
	s.mu.Unlock()
	return nil
}

// IsRevoked reports whether token was revoked and has not yet expired
func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	exp, ok := s.entries[password.HashToken(token)]
	s.mu.RUnlock()
	return ok && exp.After(s.now()), nil
}

// Purge drops entries whose tokens have expired
func (s *MemoryStore) Purge(_ context.Context) (int64, error) {
	now := s.now()
	var n int64

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of entries held
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
