package domain

import (
	"fmt"
	"net/url"
	"time"
)

// StorageBackend selects where the token pair is persisted.
type StorageBackend string

const (
	// StorageSQLite persists tokens across process runs.
	StorageSQLite StorageBackend = "sqlite"
	// StorageMemory keeps tokens for the lifetime of the process only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// ClientConfig holds every externally tunable knob of the client.
type ClientConfig struct {
	// BaseURL is the absolute root every request path is resolved against.
	BaseURL string
	// Timeout bounds each individual request.
	Timeout time.Duration
	// NoRetryPaths are path prefixes whose 401 responses are returned as-is,
	// without a refresh attempt.
	NoRetryPaths []string
	// RateLimit is the sustained requests per second. Zero disables limiting.
	RateLimit float64
	// RateBurst is the token bucket size when RateLimit is set.
	RateBurst int
	// ExpiryBuffer is how far ahead of expiry tokens are refreshed.
	ExpiryBuffer time.Duration
	// StrictRefreshExpiry makes IsAuthenticated also reject an expired refresh token.
	// Off by default: an expired refresh token with a valid access token is
	// reported as authenticated.
	StrictRefreshExpiry bool
	// Storage selects the token storage backend.
	Storage StorageBackend
}

// DefaultClientConfig returns the defaults used when nothing is configured.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:      "http://localhost:3000",
		Timeout:      20 * time.Second,
		NoRetryPaths: []string{"/api/v1/billing"},
		RateBurst:    10,
		ExpiryBuffer: DefaultExpiryBuffer,
		Storage:      StorageSQLite,
	}
}

// Validate checks the configuration for values the client cannot work with.
func (c ClientConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q must be absolute: %w", c.BaseURL, ErrInvalidInput)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %w", ErrInvalidInput)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative: %w", ErrInvalidInput)
	}
	if c.ExpiryBuffer < 0 {
		return fmt.Errorf("expiry buffer must not be negative: %w", ErrInvalidInput)
	}
	if !c.Storage.IsValid() {
		return fmt.Errorf("unknown storage backend %q: %w", c.Storage, ErrInvalidInput)
	}
	return nil
}
