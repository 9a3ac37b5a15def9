package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
	"github.com/custodia-labs/admindesk/internal/core/ports/driving"
	"github.com/custodia-labs/admindesk/internal/logger"
)

const refreshFlightKey = "refresh"

// RefreshGuard collapses concurrent refresh requests into one backend call.
//
// The scheduled proactive refresh and every reactive 401 refresh go through
// Refresh, so whichever starts first wins and the others wait on its result.
// The shared attempt is forgotten as soon as it settles.
type RefreshGuard struct {
	store     *TokenStore
	backend   driven.AuthBackend
	scheduler driving.RefreshScheduler
	navigator driven.LoginNavigator

	group singleflight.Group

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewRefreshGuard creates a guard. scheduler and navigator may be nil.
func NewRefreshGuard(
	store *TokenStore,
	backend driven.AuthBackend,
	scheduler driving.RefreshScheduler,
	navigator driven.LoginNavigator,
) *RefreshGuard {
	return &RefreshGuard{
		store:     store,
		backend:   backend,
		scheduler: scheduler,
		navigator: navigator,
	}
}

// Refresh returns the new access token from the in-flight attempt, starting one
// if none is running. All concurrent callers observe the same result.
//
// The shared attempt is detached from the caller's cancellation so that one
// caller giving up does not fail the others; a caller whose ctx ends stops
// waiting and gets ctx.Err().
func (g *RefreshGuard) Refresh(ctx context.Context) (string, error) {
	ch := g.group.DoChan(refreshFlightKey, func() (any, error) {
		if !g.begin() {
			return "", domain.ErrSessionClosed
		}
		defer g.inflight.Done()
		return g.attempt(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		token, _ := res.Val.(string)
		return token, nil
	}
}

// Close rejects new attempts and waits for the running one to settle, so its
// result is persisted before the token storage goes away.
func (g *RefreshGuard) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.inflight.Wait()
}

func (g *RefreshGuard) begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.inflight.Add(1)
	return true
}

func (g *RefreshGuard) attempt(ctx context.Context) (string, error) {
	refreshToken, ok := g.store.Get(ctx, domain.TokenRefresh)
	if !ok {
		return "", g.fail(ctx, domain.ErrNoRefreshToken)
	}

	logger.Debug("refresh: exchanging refresh token %s", logger.MaskToken(refreshToken))

	pair, err := g.backend.Refresh(ctx, refreshToken)
	if err != nil {
		return "", g.fail(ctx, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err))
	}
	if pair.AccessToken == "" {
		return "", g.fail(ctx, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, domain.ErrMalformedRefreshResponse))
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}

	if err := g.store.Set(ctx, pair); err != nil {
		return "", g.fail(ctx, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err))
	}

	logger.Info("refresh: obtained new access token")
	return pair.AccessToken, nil
}

// fail ends the session: no more proactive refresh, no tokens, back to login.
func (g *RefreshGuard) fail(ctx context.Context, reason error) error {
	logger.Error("refresh: session ended: %v", reason)

	if g.scheduler != nil {
		g.scheduler.Disarm()
	}
	if err := g.store.Clear(ctx); err != nil {
		logger.Warn("refresh: %v", err)
	}
	if g.navigator != nil {
		g.navigator.RedirectToLogin(ctx, reason)
	}
	return reason
}
