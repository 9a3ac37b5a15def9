package domain

import "time"

// SessionState is derived from which tokens are present and how close the access
// token is to expiry.
type SessionState int

const (
	// SessionUnauthenticated means at least one token is missing.
	SessionUnauthenticated SessionState = iota
	// SessionAuthenticated means both tokens are present and the access token
	// is outside the expiry buffer.
	SessionAuthenticated
	// SessionExpiring means the access token is within the buffer or expired
	// while the refresh token is still present.
	SessionExpiring
)

// String returns a human-readable name for the state.
func (s SessionState) String() string {
	switch s {
	case SessionUnauthenticated:
		return "unauthenticated"
	case SessionAuthenticated:
		return "authenticated"
	case SessionExpiring:
		return "expiring"
	default:
		return unknownDescription
	}
}

// SessionStatus is a point-in-time snapshot of the session for display.
type SessionStatus struct {
	State SessionState
	// AccessExpiresAt is the access token's self-reported expiry. Zero if unknown.
	AccessExpiresAt time.Time
	// RefreshExpiresAt is the refresh token's self-reported expiry. Zero if unknown
	// or if the refresh token is opaque.
	RefreshExpiresAt time.Time
	// Scheduler is the proactive refresh timer state.
	Scheduler SchedulerState
	// NextRefreshAt is when the armed timer fires. Zero unless Scheduler is Armed.
	NextRefreshAt time.Time
}
