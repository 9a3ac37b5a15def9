package domain

import "errors"

// Domain errors represent client-side failures.
// Transport failures are never returned as errors by the HTTP client; they are
// folded into a failed Envelope instead.
var (
	// ErrNotFound indicates a requested entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionClosed indicates the session has been disposed.
	ErrSessionClosed = errors.New("session closed")

	// Authentication Errors.

	// ErrAuthInvalid indicates the backend rejected the supplied credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrNoRefreshToken indicates a refresh was requested without a stored refresh token.
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrTokenRefreshFailed indicates the refresh endpoint call failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrMalformedRefreshResponse indicates the refresh response lacked an access token.
	ErrMalformedRefreshResponse = errors.New("malformed refresh response")

	// ErrUndecodableToken indicates a token carries no usable expiration claim.
	ErrUndecodableToken = errors.New("token has no decodable expiration")
)
