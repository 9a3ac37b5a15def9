package driven

import (
	"context"
	"time"
)

// TokenStorage is a cookie-like key-value store for the persisted token strings.
// Every entry has its own retention window after which it reads as absent.
type TokenStorage interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key is absent or its retention has elapsed.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value,
	// and keeps it for the given retention window.
	Set(ctx context.Context, key, value string, retention time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
