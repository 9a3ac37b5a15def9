package driven

import "time"

// Clock abstracts time for the refresh scheduler.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// NewTimer returns a one-shot timer that fires after d.
	NewTimer(d time.Duration) Timer
}

// Timer is a one-shot timer created by a Clock.
type Timer interface {
	// C delivers the fire instant once.
	C() <-chan time.Time

	// Stop prevents the timer from firing. Returns false if it already fired.
	Stop() bool
}
