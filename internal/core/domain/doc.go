// Package domain defines the core types of the admindesk client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TokenPair: The access and refresh bearer tokens of one session
//   - Claims: The untrusted, self-reported payload of an access token
//   - SessionState: Unauthenticated, Authenticated or Expiring
//   - SchedulerState: Lifecycle of the proactive refresh timer
//   - Envelope: The normalized shape of every backend response
//   - ClientConfig: Tunables for the HTTP client and session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
