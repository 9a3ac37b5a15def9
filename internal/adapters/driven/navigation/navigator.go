// Package navigation implements the login redirect performed when a session ends.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
)

var (
	_ driven.LoginNavigator = (*Terminal)(nil)
	_ driven.LoginNavigator = Func(nil)
)

// Terminal tells the user on a terminal that they have to log in again.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	command string
	count   atomic.Int64
	reasons chan error
}

// NewTerminal creates a navigator writing to out. command is the login
// command suggested to the user.
func NewTerminal(out io.Writer, command string) *Terminal {
	return &Terminal{
		out:     out,
		command: command,
		reasons: make(chan error, 1),
	}
}

// RedirectToLogin prints the notice. It never blocks on Redirects.
func (t *Terminal) RedirectToLogin(_ context.Context, reason error) {
	t.count.Add(1)

	t.mu.Lock()
	fmt.Fprintf(t.out, "Session ended: %s\nRun '%s' to sign in again.\n", describe(reason), t.command)
	t.mu.Unlock()

	select {
	case t.reasons <- reason:
	default:
	}
}

// Count returns how many redirects have been issued.
func (t *Terminal) Count() int64 {
	return t.count.Load()
}

// Redirects delivers the reason of a redirect. Only the first pending reason
// is buffered; later ones are dropped until it is received.
func (t *Terminal) Redirects() <-chan error {
	return t.reasons
}

func describe(reason error) string {
	switch {
	case reason == nil:
		return "signed out"
	case errors.Is(reason, domain.ErrNoRefreshToken):
		return "no refresh token stored"
	case errors.Is(reason, domain.ErrAuthInvalid):
		return "the backend rejected the refresh token"
	case errors.Is(reason, domain.ErrTokenRefreshFailed):
		return "token refresh failed"
	default:
		return reason.Error()
	}
}

// Func adapts a plain function to the LoginNavigator interface.
type Func func(ctx context.Context, reason error)

// RedirectToLogin calls f.
func (f Func) RedirectToLogin(ctx context.Context, reason error) {
	if f != nil {
		f(ctx, reason)
	}
}
