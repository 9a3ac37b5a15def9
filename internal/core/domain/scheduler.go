package domain

const unknownDescription = "unknown"

// SchedulerState is the state of the proactive refresh timer.
type SchedulerState int

const (
	// SchedulerIdle means no timer is pending.
	SchedulerIdle SchedulerState = iota
	// SchedulerArmed means exactly one timer is pending.
	SchedulerArmed
	// SchedulerFiring means the timer elapsed and a refresh is running.
	SchedulerFiring
)

// String returns a human-readable name for the state.
func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "idle"
	case SchedulerArmed:
		return "armed"
	case SchedulerFiring:
		return "firing"
	default:
		return unknownDescription
	}
}
