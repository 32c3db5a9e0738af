// Package http holds the request and response model shared by every hitref
// component, plus the HTTP client used when a stored request is sent.
//
// It wraps the standard library's http package with:
//   - Configurable timeouts, redirects, TLS verification and proxy
//   - Ordered header lists with case-insensitive lookup
//   - Stored request definitions that can be rendered and sent
//   - Response records that point at a body file instead of holding the body
package http
