package instance

import (
	"sync"
	"time"

	kmaps "github.com/knadh/koanf/maps"
)

// APIPrefix is appended to the instance URL to form the transport base address.
const APIPrefix = "api/v1/"

// BaseURLSetter is the part of the transport the store reconfigures when the
// instance address changes.
type BaseURLSetter interface {
	SetBaseURL(baseURL string)
	ClearBaseURL()
}

// Store holds the client-side state of one instance connection. All
// mutations go through its methods and each one is applied as a single
// critical section.
type Store struct {
	mu sync.RWMutex

	instanceURL   string
	settings      Settings
	frontSettings map[string]any
	events        []Event
	maxEvents     int

	location  Location
	transport BaseURLSetter
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	instanceURL string
	maxEvents   int
	location    Location
	transport   BaseURLSetter
}

// WithInstanceURL seeds the instance address, normally from bootstrap
// configuration.
func WithInstanceURL(url string) StoreOption {
	return func(o *storeOptions) {
		o.instanceURL = url
	}
}

// WithMaxEvents sets the event log ceiling. Values below 1 are ignored.
func WithMaxEvents(n int) StoreOption {
	return func(o *storeOptions) {
		if n > 0 {
			o.maxEvents = n
		}
	}
}

// WithLocation sets the hosting location used when no instance URL is set.
func WithLocation(loc Location) StoreOption {
	return func(o *storeOptions) {
		o.location = loc
	}
}

// WithTransport sets the transport whose base address follows the instance URL.
func WithTransport(t BaseURLSetter) StoreOption {
	return func(o *storeOptions) {
		o.transport = t
	}
}

// NewStore creates a store with the default settings skeleton and applies
// the seeded instance URL, if any.
func NewStore(opts ...StoreOption) *Store {
	o := storeOptions{
		maxEvents: DefaultMaxEvents,
		location:  Location{Scheme: "http", Hostname: "localhost"},
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		settings:      DefaultSettings(),
		frontSettings: map[string]any{},
		maxEvents:     o.maxEvents,
		location:      o.location,
		transport:     o.transport,
	}
	s.setInstanceURLLocked(o.instanceURL)
	return s
}

// MergeSettings applies tree to the settings. See Settings.Merge for the
// rules and the returned errors.
func (s *Store) MergeSettings(tree Tree) []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Merge(tree)
}

// AppendEvent puts e at the front of the event log, dropping the oldest
// entries beyond MaxEvents. A missing ID or time is filled in.
func (s *Store) AppendEvent(e Event) {
	if e.ID == "" {
		e.ID = newEventID()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = prependBounded(s.events, e, s.maxEvents)
}

// ReplaceEvents replaces the whole event log. The ceiling is not applied;
// callers loading a log in bulk are expected to trim it.
func (s *Store) ReplaceEvents(events []Event) {
	c := cloneEvents(events)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = c
}

// ReplaceFrontSettings replaces the front-end settings blob.
func (s *Store) ReplaceFrontSettings(blob map[string]any) {
	c := kmaps.Copy(blob)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frontSettings = c
}

// SetInstanceURL stores the normalized address and points the transport at
// its API root before returning. An empty address clears the transport base.
func (s *Store) SetInstanceURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setInstanceURLLocked(url)
}

func (s *Store) setInstanceURLLocked(url string) {
	s.instanceURL = NormalizeURL(url)
	if s.transport == nil {
		return
	}
	if s.instanceURL == "" {
		s.transport.ClearBaseURL()
		return
	}
	s.transport.SetBaseURL(s.instanceURL + APIPrefix)
}

// InstanceURL returns the normalized instance address, possibly empty.
func (s *Store) InstanceURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instanceURL
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// FrontSettings returns a copy of the front-end settings blob.
func (s *Store) FrontSettings() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return kmaps.Copy(s.frontSettings)
}

// Events returns a copy of the event log, newest first.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(s.events)
}

// EventCount returns the number of events in the log.
func (s *Store) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// MaxEvents returns the event log ceiling.
func (s *Store) MaxEvents() int {
	return s.maxEvents
}

// Location returns the hosting location.
func (s *Store) Location() Location {
	return s.location
}

// DefaultURL returns the hosting location's origin.
func (s *Store) DefaultURL() string {
	return DefaultOrigin(s.location)
}

// AbsoluteURL resolves rel against the instance address, or against the
// hosting origin when no instance is configured.
func (s *Store) AbsoluteURL(rel string) string {
	return Resolve(s.InstanceURL(), s.location, rel)
}

// Snapshot is a point-in-time copy of the store.
type Snapshot struct {
	InstanceURL   string         `json:"instance_url" yaml:"instance_url"`
	Settings      Settings       `json:"settings" yaml:"settings"`
	FrontSettings map[string]any `json:"front_settings" yaml:"front_settings"`
	Events        []Event        `json:"events" yaml:"events"`
	MaxEvents     int            `json:"max_events" yaml:"max_events"`
}

// Snapshot returns a consistent copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		InstanceURL:   s.instanceURL,
		Settings:      s.settings.Clone(),
		FrontSettings: kmaps.Copy(s.frontSettings),
		Events:        cloneEvents(s.events),
		MaxEvents:     s.maxEvents,
	}
}
