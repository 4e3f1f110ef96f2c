// Package transport provides the HTTP client podlink talks to instances
// through.
//
// The client carries a single base URL that the instance store rewrites
// whenever the active instance changes:
//
//   - http.go: Client, base URL handling, JSON decoding, StatusError
//
// Relative paths are joined onto the base URL (or the fallback origin when
// none is set); absolute URLs are used as given. Requests can be throttled
// with a token bucket limiter.
package transport
