package driven

import "context"

// LoginNavigator sends the user to the login entry point.
// It is invoked after the session has been torn down and must not block.
type LoginNavigator interface {
	RedirectToLogin(ctx context.Context, reason error)
}
