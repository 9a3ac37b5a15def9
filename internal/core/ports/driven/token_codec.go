package driven

import (
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// TokenCodec reads the payload of a bearer token without verifying it.
// The result is a scheduling hint and never a trust decision.
type TokenCodec interface {
	// Decode returns the token's claims, or false for any malformed input.
	// It never panics.
	Decode(token string) (*domain.Claims, bool)

	// ExpirationInstant returns the exp claim as an instant,
	// or false when the token cannot be decoded or has no exp.
	ExpirationInstant(token string) (time.Time, bool)
}
