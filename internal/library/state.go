package library

import (
	"slices"
	"time"
)

// AuthState is the login state against the current instance.
type AuthState struct {
	Authenticated bool
	Username      string
	Token         string
	Profile       map[string]any
}

// FavoritesState holds the IDs of favorited tracks.
type FavoritesState struct {
	Tracks map[int]struct{}
	Count  int
}

// PlayerState is the playback state.
type PlayerState struct {
	Playing  bool
	Volume   float64
	Looping  int
	Position time.Duration
	Duration time.Duration
}

// DefaultVolume is the player volume after a reset.
const DefaultVolume = 0.5

// Playlist is a user playlist summary.
type Playlist struct {
	ID         int
	Name       string
	TrackCount int
}

// PlaylistsState holds the user's playlists.
type PlaylistsState struct {
	Playlists []Playlist
}

// QueueState is the play queue.
type QueueState struct {
	Tracks       []int
	CurrentIndex int
	Ended        bool
}

// RadiosState is the active radio session, if any.
type RadiosState struct {
	Running   bool
	Type      string
	ObjectID  int
	SessionID int
}

func newAuth() AuthState { return AuthState{} }

func newFavorites() FavoritesState {
	return FavoritesState{Tracks: make(map[int]struct{})}
}

func newPlayer() PlayerState { return PlayerState{Volume: DefaultVolume} }

func newPlaylists() PlaylistsState { return PlaylistsState{} }

func newQueue() QueueState { return QueueState{CurrentIndex: -1} }

func newRadios() RadiosState { return RadiosState{} }

// Track toggles a favorite.
func (f *FavoritesState) Track(id int, favorite bool) {
	if favorite {
		f.Tracks[id] = struct{}{}
	} else {
		delete(f.Tracks, id)
	}
	f.Count = len(f.Tracks)
}

// IsFavorite reports whether id is a favorite.
func (f FavoritesState) IsFavorite(id int) bool {
	_, ok := f.Tracks[id]
	return ok
}

// Append adds tracks to the end of the queue.
func (q *QueueState) Append(ids ...int) {
	q.Tracks = append(slices.Clip(q.Tracks), ids...)
	if q.CurrentIndex < 0 && len(q.Tracks) > 0 {
		q.CurrentIndex = 0
	}
	q.Ended = false
}

// Current returns the current track ID.
func (q QueueState) Current() (int, bool) {
	if q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Tracks) {
		return 0, false
	}
	return q.Tracks[q.CurrentIndex], true
}
