package domain

import "time"

// TokenKind identifies one of the two bearer tokens of a session.
type TokenKind string

const (
	// TokenAccess is the short-lived token attached to every request.
	TokenAccess TokenKind = "accessToken"

	// TokenRefresh is the long-lived token sent only to the refresh endpoint.
	TokenRefresh TokenKind = "refreshToken"
)

// Storage retention windows. These bound how long the persisted strings are kept
// and are unrelated to token validity, which is dictated by the exp claim.
const (
	AccessTokenRetention  = 7 * 24 * time.Hour
	RefreshTokenRetention = 30 * 24 * time.Hour
)

// DefaultExpiryBuffer is how far ahead of expiry a token is treated as expiring.
const DefaultExpiryBuffer = 2 * time.Minute

// String returns the storage key for the token kind.
func (k TokenKind) String() string {
	return string(k)
}

// Retention returns the storage retention window for the token kind.
func (k TokenKind) Retention() time.Duration {
	if k == TokenRefresh {
		return RefreshTokenRetention
	}
	return AccessTokenRetention
}

// TokenPair is the access/refresh pair issued by login or refresh.
type TokenPair struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"accessToken"`
	// RefreshToken is used to obtain new access tokens.
	// It may be empty in a refresh response, in which case the current one is kept.
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Claims is the decoded payload of a token.
//
// Claims are read WITHOUT signature verification. They are a scheduling hint only
// and must never be used to make a trust decision; the backend remains the
// authority on whether a token is valid.
type Claims struct {
	// Subject is the sub claim, if present.
	Subject string
	// ExpiresAt is the exp claim. Zero when absent or malformed.
	ExpiresAt time.Time
	// Raw holds every claim as decoded from JSON.
	Raw map[string]any
}

// HasExpiry returns true if the claims carry a usable expiration.
func (c *Claims) HasExpiry() bool {
	return c != nil && !c.ExpiresAt.IsZero()
}

// LoginRequest is the body posted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is what the login endpoint returns.
type LoginResult struct {
	// User is the authenticated user as returned by the backend.
	User map[string]any `json:"user"`
	// Tokens is the newly issued token pair.
	Tokens TokenPair `json:"tokens"`
}
