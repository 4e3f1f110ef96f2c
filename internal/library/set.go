package library

import "github.com/yndnr/podlink/internal/instance"

// Set is the full collection of instance-scoped containers.
type Set struct {
	Auth      *Container[AuthState]
	Favorites *Container[FavoritesState]
	Player    *Container[PlayerState]
	Playlists *Container[PlaylistsState]
	Queue     *Container[QueueState]
	Radios    *Container[RadiosState]
}

// NewSet creates every container in its initial state.
func NewSet() *Set {
	return &Set{
		Auth:      NewContainer(newAuth),
		Favorites: NewContainer(newFavorites),
		Player:    NewContainer(newPlayer),
		Playlists: NewContainer(newPlaylists),
		Queue:     NewContainer(newQueue),
		Radios:    NewContainer(newRadios),
	}
}

// Dependents wires the set into an instance.Synchronizer.
func (s *Set) Dependents() instance.Dependents {
	return instance.Dependents{
		Auth:      s.Auth,
		Favorites: s.Favorites,
		Player:    s.Player,
		Playlists: s.Playlists,
		Queue:     s.Queue,
		Radios:    s.Radios,
	}
}

// Summary is a printable overview of the set.
type Summary struct {
	Authenticated bool    `json:"authenticated" yaml:"authenticated"`
	Username      string  `json:"username,omitempty" yaml:"username,omitempty"`
	Favorites     int     `json:"favorites" yaml:"favorites"`
	Playing       bool    `json:"playing" yaml:"playing"`
	Volume        float64 `json:"volume" yaml:"volume"`
	Playlists     int     `json:"playlists" yaml:"playlists"`
	Queued        int     `json:"queued" yaml:"queued"`
	RadioRunning  bool    `json:"radio_running" yaml:"radio_running"`
}

// Summary reads every container.
func (s *Set) Summary() Summary {
	auth := s.Auth.Get()
	player := s.Player.Get()
	return Summary{
		Authenticated: auth.Authenticated,
		Username:      auth.Username,
		Favorites:     s.Favorites.Get().Count,
		Playing:       player.Playing,
		Volume:        player.Volume,
		Playlists:     len(s.Playlists.Get().Playlists),
		Queued:        len(s.Queue.Get().Tracks),
		RadioRunning:  s.Radios.Get().Running,
	}
}
