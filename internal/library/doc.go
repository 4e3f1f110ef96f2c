// Package library holds the per-instance client state that must be dropped
// whenever podlink switches to another instance: authentication, favorites,
// player, playlists, queue and radios.
//
// Each piece lives in a Container that returns to its initial value on
// Reset. Set groups them and exposes them as instance.Dependents.
package library
