// Package services implements the driving port interfaces.
// Services contain the token lifecycle logic and orchestrate
// calls to driven ports (adapters).
//
// The pieces, leaves first:
//
//   - TokenStore: the persisted pair, expiry checks, scheduler re-arming
//   - RefreshScheduler: one cancellable timer ahead of access token expiry
//   - RefreshGuard: single-flight refresh shared by the scheduler and the 401 path
//   - Session: wires the three together with a create/dispose lifecycle
//   - SettingsService: resolves client configuration
package services
