package library

import (
	"sync"
	"testing"

	"github.com/yndnr/podlink/internal/instance"
	"github.com/yndnr/podlink/internal/telemetry/logger"
)

func TestContainer_UpdateReset(t *testing.T) {
	c := NewContainer(newQueue)

	c.Update(func(q *QueueState) { q.Append(3, 4) })
	if id, ok := c.Get().Current(); !ok || id != 3 {
		t.Errorf("Current() = %d, %v; want 3, true", id, ok)
	}

	c.Reset()
	if got := c.Get(); len(got.Tracks) != 0 || got.CurrentIndex != -1 {
		t.Errorf("after Reset() = %+v, want initial queue", got)
	}
	if c.Resets() != 1 {
		t.Errorf("Resets() = %d, want 1", c.Resets())
	}
}

func TestContainer_ResetDoesNotShareInitialState(t *testing.T) {
	c := NewContainer(newFavorites)
	c.Update(func(f *FavoritesState) { f.Track(1, true) })
	c.Reset()
	c.Update(func(f *FavoritesState) { f.Track(2, true) })

	got := c.Get()
	if got.IsFavorite(1) || !got.IsFavorite(2) || got.Count != 1 {
		t.Errorf("favorites after reset = %+v", got)
	}
}

func TestContainer_Concurrent(t *testing.T) {
	c := NewContainer(newFavorites)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.Update(func(f *FavoritesState) { f.Track(id, true) })
			_ = c.Get().Count
		}(i)
	}
	wg.Wait()

	if n := c.Get().Count; n != 50 {
		t.Errorf("Count = %d, want 50", n)
	}
}

func TestFavoritesState_Track(t *testing.T) {
	f := newFavorites()
	f.Track(7, true)
	f.Track(7, true)
	f.Track(8, true)
	f.Track(7, false)

	if f.IsFavorite(7) || !f.IsFavorite(8) || f.Count != 1 {
		t.Errorf("favorites = %+v", f)
	}
}

func TestQueueState_Current(t *testing.T) {
	q := newQueue()
	if _, ok := q.Current(); ok {
		t.Error("empty queue should have no current track")
	}
	q.Append(10)
	q.CurrentIndex = 5
	if _, ok := q.Current(); ok {
		t.Error("out of range index should have no current track")
	}
}

func TestSet_Summary(t *testing.T) {
	s := NewSet()
	s.Auth.Update(func(a *AuthState) { a.Authenticated = true; a.Username = "alice" })
	s.Player.Update(func(p *PlayerState) { p.Playing = true })
	s.Playlists.Update(func(p *PlaylistsState) {
		p.Playlists = append(p.Playlists, Playlist{ID: 1, Name: "Morning"})
	})

	got := s.Summary()
	want := Summary{Authenticated: true, Username: "alice", Playing: true, Volume: DefaultVolume, Playlists: 1}
	if got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestSet_ResetOnInstanceChange(t *testing.T) {
	s := NewSet()
	s.Auth.Update(func(a *AuthState) { a.Authenticated = true; a.Token = "abc" })
	s.Favorites.Update(func(f *FavoritesState) { f.Track(1, true) })
	s.Player.Update(func(p *PlayerState) { p.Playing = true; p.Volume = 1 })
	s.Playlists.Update(func(p *PlaylistsState) { p.Playlists = []Playlist{{ID: 1}} })
	s.Queue.Update(func(q *QueueState) { q.Append(1, 2, 3) })
	s.Radios.Update(func(r *RadiosState) { r.Running = true; r.Type = "random" })

	store := instance.NewStore(instance.WithInstanceURL("https://old.example.org"))
	syncer := instance.NewSynchronizer(store, nil,
		instance.WithLogger(logger.Nop()),
		instance.WithDependents(s.Dependents()),
	)
	syncer.SetInstance("https://new.example.org")

	if got := s.Summary(); got != NewSet().Summary() {
		t.Errorf("Summary() after instance change = %+v, want initial state", got)
	}
	if s.Auth.Get().Token != "" {
		t.Error("auth token should be cleared")
	}
	for name, n := range map[string]int{
		"auth":      s.Auth.Resets(),
		"favorites": s.Favorites.Resets(),
		"player":    s.Player.Resets(),
		"playlists": s.Playlists.Resets(),
		"queue":     s.Queue.Resets(),
		"radios":    s.Radios.Resets(),
	} {
		if n != 1 {
			t.Errorf("%s reset %d times, want 1", name, n)
		}
	}
}
