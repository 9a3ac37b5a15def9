package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
	"github.com/custodia-labs/admindesk/internal/core/ports/driving"
	"github.com/custodia-labs/admindesk/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// SessionDeps are the driven ports a Session needs.
type SessionDeps struct {
	Storage   driven.TokenStorage
	Codec     driven.TokenCodec
	Backend   driven.AuthBackend
	Clock     driven.Clock
	Navigator driven.LoginNavigator // optional
}

// Session is the single token lifecycle manager of a process.
// Create it once at startup with NewSession and release it with Dispose.
type Session struct {
	store     *TokenStore
	scheduler *RefreshScheduler
	guard     *RefreshGuard
	backend   driven.AuthBackend
	codec     driven.TokenCodec

	mu     sync.Mutex
	closed bool
}

// NewSession wires the token store, refresh scheduler and refresh guard together.
func NewSession(deps SessionDeps, cfg domain.ClientConfig) *Session {
	store := NewTokenStore(deps.Storage, deps.Codec, deps.Clock)
	store.SetExpiryBuffer(cfg.ExpiryBuffer)
	store.SetStrictRefreshExpiry(cfg.StrictRefreshExpiry)

	guard := NewRefreshGuard(store, deps.Backend, nil, deps.Navigator)
	scheduler := NewRefreshScheduler(deps.Clock, cfg.ExpiryBuffer, guard.Refresh)
	guard.scheduler = scheduler
	store.scheduler = scheduler

	return &Session{
		store:     store,
		scheduler: scheduler,
		guard:     guard,
		backend:   deps.Backend,
		codec:     deps.Codec,
	}
}

// Start arms proactive refresh from a previously persisted access token.
// Without a token, or with one that has no decodable expiry, it stays idle.
func (s *Session) Start(ctx context.Context) domain.SessionState {
	if access, ok := s.store.Get(ctx, domain.TokenAccess); ok {
		s.store.rearm(access)
	}
	state := s.store.State(ctx)
	logger.Debug("session: started in state %s", state)
	return state
}

// Configure applies a reloaded configuration to the running session.
// A pending proactive refresh is rescheduled with the new expiry buffer; an idle
// scheduler stays idle.
func (s *Session) Configure(ctx context.Context, cfg domain.ClientConfig) {
	s.store.SetExpiryBuffer(cfg.ExpiryBuffer)
	s.store.SetStrictRefreshExpiry(cfg.StrictRefreshExpiry)
	s.scheduler.SetBuffer(cfg.ExpiryBuffer)

	if s.isClosed() || s.scheduler.State() != domain.SchedulerArmed {
		return
	}
	if access, ok := s.store.Get(ctx, domain.TokenAccess); ok {
		s.store.rearm(access)
	}
}

// Dispose stops proactive refresh and waits for background work, including a
// refresh already talking to the backend. Persisted tokens are kept.
// Safe to call more than once.
func (s *Session) Dispose() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.scheduler.Stop()
	s.guard.Close()
	return err
}

// Login authenticates with the backend and stores the issued pair.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	if s.isClosed() {
		return nil, domain.ErrSessionClosed
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrInvalidInput)
	}

	result, err := s.backend.Login(ctx, domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		return nil, fmt.Errorf("login response missing tokens: %w", domain.ErrAuthInvalid)
	}

	if err := s.store.Set(ctx, result.Tokens); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	logger.Info("session: logged in as %s", email)
	return result, nil
}

// Logout stops proactive refresh and forgets both tokens.
func (s *Session) Logout(ctx context.Context) error {
	s.scheduler.Disarm()
	return s.store.Clear(ctx)
}

// AccessToken returns the current access token.
func (s *Session) AccessToken(ctx context.Context) (string, bool) {
	return s.store.Get(ctx, domain.TokenAccess)
}

// Refresh obtains a new access token through the shared refresh guard.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	if s.isClosed() {
		return "", domain.ErrSessionClosed
	}
	return s.guard.Refresh(ctx)
}

// IsAuthenticated reports whether both tokens are present and the access token is unexpired.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	return s.store.IsAuthenticated(ctx)
}

// Status returns a snapshot of the session.
func (s *Session) Status(ctx context.Context) domain.SessionStatus {
	status := domain.SessionStatus{
		State:     s.store.State(ctx),
		Scheduler: s.scheduler.State(),
	}
	if access, ok := s.store.Get(ctx, domain.TokenAccess); ok {
		status.AccessExpiresAt, _ = s.codec.ExpirationInstant(access)
	}
	if refresh, ok := s.store.Get(ctx, domain.TokenRefresh); ok {
		status.RefreshExpiresAt, _ = s.codec.ExpirationInstant(refresh)
	}
	if at, ok := s.scheduler.NextFire(); ok {
		status.NextRefreshAt = at
	}
	return status
}

// Scheduler exposes the proactive refresh scheduler.
func (s *Session) Scheduler() driving.RefreshScheduler {
	return s.scheduler
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
