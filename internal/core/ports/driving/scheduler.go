package driving

import (
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// RefreshScheduler arms at most one pending proactive refresh.
type RefreshScheduler interface {
	// Arm cancels any pending timer and schedules a refresh ahead of expiresAt.
	Arm(expiresAt time.Time)

	// Disarm cancels any pending timer. Safe to call repeatedly.
	Disarm()

	// State returns the current scheduler state.
	State() domain.SchedulerState

	// NextFire returns when the pending timer fires, or false when not armed.
	NextFire() (time.Time, bool)
}
