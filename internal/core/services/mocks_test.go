package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
)

// --- Mock implementations for session testing ---

// testNow is the fixed starting instant of every fake clock.
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeClock implements driven.Clock with manually advanced time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	delays []time.Duration
}

type fakeTimer struct {
	clock   *fakeClock
	c       chan time.Time
	at      time.Time
	fired   bool
	stopped bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testNow}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTimer(d time.Duration) driven.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, c: make(chan time.Time, 1), at: c.now.Add(d)}
	c.delays = append(c.delays, d)
	if d <= 0 {
		t.fired = true
		t.c <- c.now
		return t
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and fires every timer that became due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !c.now.Before(t.at) {
			t.fired = true
			t.c <- c.now
		}
	}
}

// lastDelay returns the delay of the most recently created timer.
func (c *fakeClock) lastDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.delays) == 0 {
		return -1
	}
	return c.delays[len(c.delays)-1]
}

// firstDelay returns the delay of the first timer ever created.
func (c *fakeClock) firstDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.delays) == 0 {
		return -1
	}
	return c.delays[0]
}

func (c *fakeClock) timerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.delays)
}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.fired && !t.stopped
	t.stopped = true
	return wasActive
}

// fakeCodec implements driven.TokenCodec for tokens shaped "<id>.<unix-exp>".
type fakeCodec struct{}

func tokenFor(id string, exp time.Time) string {
	return fmt.Sprintf("%s.%d", id, exp.Unix())
}

func (fakeCodec) Decode(token string) (*domain.Claims, bool) {
	idx := strings.LastIndex(token, ".")
	if idx < 0 {
		return nil, false
	}
	exp, err := strconv.ParseInt(token[idx+1:], 10, 64)
	if err != nil {
		return nil, false
	}
	return &domain.Claims{Subject: token[:idx], ExpiresAt: time.Unix(exp, 0).UTC()}, true
}

func (c fakeCodec) ExpirationInstant(token string) (time.Time, bool) {
	claims, ok := c.Decode(token)
	if !ok || !claims.HasExpiry() {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

// mockBackend implements driven.AuthBackend for testing.
type mockBackend struct {
	mu           sync.Mutex
	refreshCalls atomic.Int64
	received     []string

	pair       domain.TokenPair
	refreshErr error
	login      *domain.LoginResult
	loginErr   error

	// started is closed when the first refresh call begins.
	started     chan struct{}
	startedOnce sync.Once
	// release, when non-nil, blocks refresh calls until closed.
	release chan struct{}
}

func newMockBackend(pair domain.TokenPair) *mockBackend {
	return &mockBackend{pair: pair, started: make(chan struct{})}
}

func (m *mockBackend) Login(_ context.Context, _ domain.LoginRequest) (*domain.LoginResult, error) {
	return m.login, m.loginErr
}

func (m *mockBackend) Refresh(_ context.Context, refreshToken string) (domain.TokenPair, error) {
	m.refreshCalls.Add(1)
	m.mu.Lock()
	m.received = append(m.received, refreshToken)
	release := m.release
	m.mu.Unlock()

	m.startedOnce.Do(func() { close(m.started) })
	if release != nil {
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair, m.refreshErr
}

func (m *mockBackend) receivedTokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.received...)
}

// mockNavigator implements driven.LoginNavigator for testing.
type mockNavigator struct {
	calls  atomic.Int64
	mu     sync.Mutex
	reason error
}

func (m *mockNavigator) RedirectToLogin(_ context.Context, reason error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.reason = reason
	m.mu.Unlock()
}

// recordingScheduler implements driving.RefreshScheduler and records calls.
type recordingScheduler struct {
	mu       sync.Mutex
	armed    []time.Time
	disarms  int
	state    domain.SchedulerState
	nextFire time.Time
}

func (r *recordingScheduler) Arm(expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = append(r.armed, expiresAt)
	r.state = domain.SchedulerArmed
}

func (r *recordingScheduler) Disarm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disarms++
	r.state = domain.SchedulerIdle
}

func (r *recordingScheduler) State() domain.SchedulerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *recordingScheduler) NextFire() (time.Time, bool) {
	return r.nextFire, !r.nextFire.IsZero()
}
