package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
	"github.com/custodia-labs/admindesk/internal/core/ports/driving"
	"github.com/custodia-labs/admindesk/internal/logger"
)

// Ensure RefreshScheduler implements the interface.
var _ driving.RefreshScheduler = (*RefreshScheduler)(nil)

// RefreshFunc performs one refresh attempt and returns the new access token.
type RefreshFunc func(ctx context.Context) (string, error)

// RefreshScheduler owns at most one pending proactive refresh.
//
// Each Arm cancels the previous timer before creating a new one, so overlapping
// triggers are impossible. A successful refresh re-arms through the token store;
// a failed one leaves the scheduler idle until the next login.
type RefreshScheduler struct {
	clock  driven.Clock
	buffer time.Duration
	fire   RefreshFunc

	// ctx bounds every timer goroutine and refresh started by this scheduler.
	ctx  context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	state   domain.SchedulerState
	gen     uint64
	cancel  context.CancelFunc
	fireAt  time.Time
	stopped bool
	wg      sync.WaitGroup
}

// NewRefreshScheduler creates an idle scheduler that calls fire buffer ahead of expiry.
func NewRefreshScheduler(clock driven.Clock, buffer time.Duration, fire RefreshFunc) *RefreshScheduler {
	ctx, stop := context.WithCancel(context.Background())
	return &RefreshScheduler{
		clock:  clock,
		buffer: buffer,
		fire:   fire,
		ctx:    ctx,
		stop:   stop,
	}
}

// Arm cancels any pending timer and schedules one refresh at
// max(0, expiresAt - now - buffer) from now.
func (s *RefreshScheduler) Arm(expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.cancelLocked()

	now := s.clock.Now()
	delay := max(expiresAt.Sub(now)-s.buffer, 0)

	ctx, cancel := context.WithCancel(s.ctx)
	s.gen++
	s.cancel = cancel
	s.state = domain.SchedulerArmed
	s.fireAt = now.Add(delay)

	logger.Debug("scheduler: armed, refresh in %s", delay)

	timer := s.clock.NewTimer(delay)
	s.wg.Add(1)
	go s.wait(ctx, s.gen, timer)
}

// SetBuffer changes how far ahead of expiry the next Arm schedules its refresh.
// A pending timer keeps its fire time.
func (s *RefreshScheduler) SetBuffer(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = d
}

// Disarm cancels any pending timer and moves to idle.
// Calling it when already idle is a no-op.
func (s *RefreshScheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.SchedulerIdle && s.cancel == nil {
		return
	}
	s.cancelLocked()
	s.gen++
	s.state = domain.SchedulerIdle
	logger.Debug("scheduler: disarmed")
}

// State returns the current scheduler state.
func (s *RefreshScheduler) State() domain.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NextFire returns when the armed timer fires.
func (s *RefreshScheduler) NextFire() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SchedulerArmed {
		return time.Time{}, false
	}
	return s.fireAt, true
}

// Stop disarms the scheduler, aborts any running refresh and waits for
// background work to finish. The scheduler cannot be armed again afterwards.
func (s *RefreshScheduler) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.cancelLocked()
	s.gen++
	s.state = domain.SchedulerIdle
	s.mu.Unlock()

	s.stop()
	s.wg.Wait()
	return nil
}

// cancelLocked cancels the pending timer (caller must hold lock).
func (s *RefreshScheduler) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.fireAt = time.Time{}
}

// wait blocks until the timer elapses or the handle is cancelled, then fires.
func (s *RefreshScheduler) wait(ctx context.Context, gen uint64, timer driven.Timer) {
	defer s.wg.Done()

	select {
	case <-ctx.Done():
		timer.Stop()
		return
	case <-timer.C():
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.state = domain.SchedulerFiring
	s.fireAt = time.Time{}
	s.mu.Unlock()

	logger.Debug("scheduler: firing proactive refresh")

	var err error
	if s.fire != nil {
		_, err = s.fire(s.ctx)
	}
	if err != nil {
		logger.Warn("scheduler: proactive refresh failed: %v", err)
	}

	// A successful refresh re-armed through the token store and bumped gen.
	// Anything else ends here.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.cancel = nil
		s.state = domain.SchedulerIdle
	}
}
