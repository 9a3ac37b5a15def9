// Package httpapi is the authenticated HTTP client for the admin backend.
//
// Every call returns a normalized domain.Envelope; transport failures, timeouts
// and undecodable bodies are folded into a failed envelope instead of an error.
//
// A 401 triggers at most one shared refresh through the attached session and a
// single retry of the original request with the new token. Paths configured as
// no-retry return their 401 untouched.
//
// The package also provides the AuthBackend used by the session (login and
// refresh go through the same transport but never carry a bearer token and
// never enter the 401 protocol), an optional token bucket rate limiter and an
// oauth2.TokenSource view of the session.
package httpapi
