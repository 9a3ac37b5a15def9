package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
)

// Ensure TokenStorage implements the interface.
var _ driven.TokenStorage = (*TokenStorage)(nil)

type entry struct {
	value     string
	expiresAt time.Time
}

// TokenStorage is an in-memory cookie jar for the token strings.
// Entries read as absent once their retention window has elapsed.
type TokenStorage struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewTokenStorage creates an empty in-memory token storage.
func NewTokenStorage() *TokenStorage {
	return &TokenStorage{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value stored under key.
func (s *TokenStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", domain.ErrNotFound
	}
	return e.value, nil
}

// Set stores value under key for the retention window.
func (s *TokenStorage) Set(_ context.Context, key, value string, retention time.Duration) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(retention)}
	return nil
}

// Delete removes key.
func (s *TokenStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len returns the number of unexpired entries.
func (s *TokenStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	now := s.now()
	for _, e := range s.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}
