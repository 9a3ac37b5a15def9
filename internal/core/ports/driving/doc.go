// Package driving defines the interfaces that callers use to drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI and any embedding application call these; core services implement them.
//
// # Interfaces
//
//   - SessionService: Login, logout, session state and the shared refresh entry point
//   - RefreshScheduler: The proactive refresh timer
//   - APIClient: Authenticated requests with normalized responses
//   - SettingsService: Resolved client configuration
package driving
