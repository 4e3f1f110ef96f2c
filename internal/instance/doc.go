// Package instance holds the client-side state of the connected instance.
//
// Files:
//
//   - url.go: hosting location, default origin and path resolution
//   - settings.go: the typed settings tree and record merging
//   - events.go: the bounded event log and event filters
//   - store.go: Store, the mutable container for all of the above
//   - sync.go: Synchronizer, remote fetches and dependent resets
//
// The Store owns the instance URL and keeps the transport's base address in
// step with it. Fetches never leave the store half-updated: a failed request
// changes nothing, and records that cannot be applied are reported back to
// the caller instead of being absorbed.
package instance
