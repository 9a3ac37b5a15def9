package driving

import (
	"context"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// SessionService owns the token pair and its refresh lifecycle.
type SessionService interface {
	// Login authenticates with the backend and stores the issued pair.
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)

	// Logout forgets the token pair and stops proactive refresh.
	Logout(ctx context.Context) error

	// AccessToken returns the current access token, if any.
	AccessToken(ctx context.Context) (string, bool)

	// Refresh obtains a new access token. Concurrent callers share one attempt.
	// On failure the session is torn down and the error wraps
	// domain.ErrTokenRefreshFailed or domain.ErrNoRefreshToken.
	Refresh(ctx context.Context) (string, error)

	// IsAuthenticated reports whether both tokens are present and the access
	// token has not passed its stamped expiry.
	IsAuthenticated(ctx context.Context) bool

	// Status returns a snapshot of the session for display.
	Status(ctx context.Context) domain.SessionStatus
}
