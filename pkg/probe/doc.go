// Package probe runs the outbound connectivity diagnostics.
//
// For each configured service a Runner executes a fixed sequence of steps:
// hostname extraction, DNS resolution, TCP connects to the HTTP and HTTPS
// ports, an unauthenticated HTTP request, HTTPS requests with and without
// certificate verification, a bearer-token authenticated API request, and a
// TLS handshake that reports the server certificate. Steps never retry.
// Only a DNS failure ends a service's sequence early; every other failure is
// reported and the next step runs.
//
// Each failure is classified into a Kind (timeout, connection, TLS or
// generic error) so the report can tell a silently dropped request apart
// from a refused connection or an untrusted certificate.
package probe
