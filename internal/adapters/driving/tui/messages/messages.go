// Package messages defines the tea.Msg types exchanged by the dashboard.
package messages

import (
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// Tick advances the countdowns once per second.
type Tick struct {
	Now time.Time
}

// StatusLoaded carries a fresh session snapshot.
type StatusLoaded struct {
	Status domain.SessionStatus
}

// RefreshCompleted is sent when a manual refresh finishes.
type RefreshCompleted struct {
	Err error
}

// LoggedOut is sent when the logout request finishes.
type LoggedOut struct {
	Err error
}
