// Package clock provides the wall clock used by the refresh scheduler.
package clock

import (
	"time"

	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
)

// Ensure System implements the interface.
var _ driven.Clock = System{}

// System is the real clock.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }

// NewTimer returns a timer backed by time.NewTimer.
func (System) NewTimer(d time.Duration) driven.Timer {
	return timer{t: time.NewTimer(d)}
}

type timer struct {
	t *time.Timer
}

func (t timer) C() <-chan time.Time { return t.t.C }
func (t timer) Stop() bool          { return t.t.Stop() }
