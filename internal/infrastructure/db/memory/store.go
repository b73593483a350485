// Package memory provides a process-local CredentialStore for development
// and tests. Tokens do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// CredentialStore keeps tokens in a map guarded by a mutex.
type CredentialStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewCredentialStore returns an empty store. A ttl of zero keeps entries
// until they are deleted.
func NewCredentialStore(ttl time.Duration) *CredentialStore {
	return &CredentialStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *CredentialStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return "", domain.ErrCredentialNotFound
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		s.mu.Lock()
		// A Set may have replaced the entry since the read lock was dropped.
		if cur, ok := s.entries[key]; ok && cur == e {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return "", domain.ErrCredentialNotFound
	}
	return e.value, nil
}

func (s *CredentialStore) Set(_ context.Context, key, value string) error {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (s *CredentialStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *CredentialStore) Ping(context.Context) error { return nil }

// Len reports how many keys are held, expired ones included.
func (s *CredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
