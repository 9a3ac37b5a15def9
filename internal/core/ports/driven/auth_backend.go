package driven

import (
	"context"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// AuthBackend is the backend's authentication surface.
// Implementations must send these calls without an Authorization header and
// without the 401 refresh protocol.
type AuthBackend interface {
	// Login exchanges credentials for a user and token pair.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error)

	// Refresh exchanges a refresh token for a new pair.
	// The returned RefreshToken may be empty if the backend did not rotate it.
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
}
