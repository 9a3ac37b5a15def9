// Package tui provides an interactive terminal dashboard for the session.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/admindesk/internal/core/ports/driving"
)

// Ports aggregates the driving ports the dashboard uses.
type Ports struct {
	// Session provides status, refresh and logout.
	Session driving.SessionService

	// Settings is optional; when set the base URL is shown.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
