// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TokenStorage: Cookie-like persistence of the two token strings
//   - TokenCodec: Unverified decoding of token payloads
//   - AuthBackend: The backend's login and refresh endpoints
//   - Clock: Time source and timers for the refresh scheduler
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LoginNavigator: Sends the user to the login entry point when a session ends.
//     Without it the session is still torn down, only nobody is told.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
