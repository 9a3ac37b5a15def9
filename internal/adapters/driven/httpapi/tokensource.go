package httpapi

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// TokenSourceAdapter exposes the session's current access token as an
// oauth2.TokenSource. The client takes its bearer from here; oauth2-aware
// HTTP clients can reuse the same session through it.
//
// Token never refreshes. Recovering an expired token is the job of the
// client's 401 protocol, and a request without a token is sent unauthenticated.
type TokenSourceAdapter struct {
	session Session
	ctx     context.Context
}

// NewTokenSource creates an oauth2.TokenSource backed by session.
func NewTokenSource(ctx context.Context, session Session) oauth2.TokenSource {
	return &TokenSourceAdapter{
		session: session,
		ctx:     ctx,
	}
}

// Token implements oauth2.TokenSource. It returns an error wrapping
// domain.ErrNotFound when no access token is stored.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	if t.session == nil {
		return nil, fmt.Errorf("token source: no session: %w", domain.ErrNotFound)
	}
	accessToken, ok := t.session.AccessToken(t.ctx)
	if !ok || accessToken == "" {
		return nil, fmt.Errorf("token source: no access token: %w", domain.ErrNotFound)
	}
	return bearer(accessToken), nil
}

func bearer(accessToken string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
}
