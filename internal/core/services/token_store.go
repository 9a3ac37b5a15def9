package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
	"github.com/custodia-labs/admindesk/internal/core/ports/driving"
	"github.com/custodia-labs/admindesk/internal/logger"
)

// TokenStore persists the access/refresh pair and answers expiry questions about it.
//
// Writing a new pair forgets the old one for all subsequent calls and re-arms the
// attached scheduler from the new access token's exp claim.
type TokenStore struct {
	storage driven.TokenStorage
	codec   driven.TokenCodec
	clock   driven.Clock

	mu                  sync.RWMutex
	buffer              time.Duration
	strictRefreshExpiry bool

	// scheduler is re-armed on every Set. May be nil.
	scheduler driving.RefreshScheduler
}

// NewTokenStore creates a token store over the given storage.
func NewTokenStore(storage driven.TokenStorage, codec driven.TokenCodec, clock driven.Clock) *TokenStore {
	return &TokenStore{
		storage: storage,
		codec:   codec,
		clock:   clock,
		buffer:  domain.DefaultExpiryBuffer,
	}
}

// SetExpiryBuffer changes the buffer used to classify a session as expiring.
func (s *TokenStore) SetExpiryBuffer(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = d
}

// SetStrictRefreshExpiry makes IsAuthenticated also reject an expired refresh token.
func (s *TokenStore) SetStrictRefreshExpiry(strict bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strictRefreshExpiry = strict
}

func (s *TokenStore) settings() (buffer time.Duration, strict bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffer, s.strictRefreshExpiry
}

// Get returns the stored token of the given kind.
func (s *TokenStore) Get(ctx context.Context, kind domain.TokenKind) (string, bool) {
	token, err := s.storage.Get(ctx, kind.String())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("token store: reading %s: %v", kind, err)
		}
		return "", false
	}
	return token, token != ""
}

// Set writes both tokens of pair and re-arms the scheduler.
// An empty RefreshToken leaves the stored refresh token untouched.
func (s *TokenStore) Set(ctx context.Context, pair domain.TokenPair) error {
	if pair.AccessToken == "" {
		return fmt.Errorf("access token is empty: %w", domain.ErrInvalidInput)
	}

	if err := s.storage.Set(ctx, domain.TokenAccess.String(), pair.AccessToken,
		domain.TokenAccess.Retention()); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}
	if pair.RefreshToken != "" {
		if err := s.storage.Set(ctx, domain.TokenRefresh.String(), pair.RefreshToken,
			domain.TokenRefresh.Retention()); err != nil {
			return fmt.Errorf("storing refresh token: %w", err)
		}
	}
	logger.Debug("token store: stored access token %s", logger.MaskToken(pair.AccessToken))

	s.rearm(pair.AccessToken)
	return nil
}

// rearm points the scheduler at the new access token.
// Tokens without a decodable exp leave the scheduler idle; the 401 path covers them.
func (s *TokenStore) rearm(accessToken string) {
	if s.scheduler == nil {
		return
	}
	expiresAt, ok := s.codec.ExpirationInstant(accessToken)
	if !ok {
		logger.Warn("token store: access token has no decodable expiration, proactive refresh disabled")
		s.scheduler.Disarm()
		return
	}
	s.scheduler.Arm(expiresAt)
}

// Clear removes both tokens. It neither notifies nor navigates.
func (s *TokenStore) Clear(ctx context.Context) error {
	accessErr := s.storage.Delete(ctx, domain.TokenAccess.String())
	refreshErr := s.storage.Delete(ctx, domain.TokenRefresh.String())
	if err := errors.Join(accessErr, refreshErr); err != nil {
		return fmt.Errorf("clearing tokens: %w", err)
	}
	return nil
}

// IsExpired returns true if token has no decodable expiration or
// now is at or past exp minus buffer.
func (s *TokenStore) IsExpired(token string, buffer time.Duration) bool {
	expiresAt, ok := s.codec.ExpirationInstant(token)
	if !ok {
		return true
	}
	return !s.clock.Now().Before(expiresAt.Add(-buffer))
}

// IsAuthenticated returns true if both tokens are present and the access token's
// stamped expiry has not passed.
//
// Unless strict refresh expiry is enabled, the refresh token's own expiry is not
// consulted: an expired refresh token next to a valid access token still counts
// as authenticated.
func (s *TokenStore) IsAuthenticated(ctx context.Context) bool {
	access, refresh, ok := s.pair(ctx)
	if !ok || s.IsExpired(access, 0) {
		return false
	}
	if _, strict := s.settings(); strict {
		if expiresAt, decodable := s.codec.ExpirationInstant(refresh); decodable &&
			!s.clock.Now().Before(expiresAt) {
			return false
		}
	}
	return true
}

// State derives the session state from the stored pair.
func (s *TokenStore) State(ctx context.Context) domain.SessionState {
	access, _, ok := s.pair(ctx)
	buffer, _ := s.settings()
	switch {
	case !ok:
		return domain.SessionUnauthenticated
	case s.IsExpired(access, buffer):
		return domain.SessionExpiring
	default:
		return domain.SessionAuthenticated
	}
}

func (s *TokenStore) pair(ctx context.Context) (access, refresh string, ok bool) {
	access, accessOK := s.Get(ctx, domain.TokenAccess)
	refresh, refreshOK := s.Get(ctx, domain.TokenRefresh)
	return access, refresh, accessOK && refreshOK
}
