package instance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/podlink/internal/telemetry/logger"
	"github.com/yndnr/podlink/internal/telemetry/metric"
	"github.com/yndnr/podlink/internal/transport"
)

// Request paths.
const (
	SettingsPath      = "instance/settings/"
	FrontSettingsPath = "/settings.json"
)

// Fetch kinds, used in errors, logs and metrics.
const (
	KindSettings      = "settings"
	KindFrontSettings = "front_settings"
)

// Resettable is a dependent container that drops its state when the active
// instance changes.
type Resettable interface {
	Reset()
}

// Dependents are the containers reset on every instance change, in this
// order: auth, favorites, player, playlists, queue, radios. Nil entries are
// skipped.
type Dependents struct {
	Auth      Resettable
	Favorites Resettable
	Player    Resettable
	Playlists Resettable
	Queue     Resettable
	Radios    Resettable
}

type namedDependent struct {
	name string
	r    Resettable
}

func (d Dependents) ordered() []namedDependent {
	all := []namedDependent{
		{"auth", d.Auth},
		{"favorites", d.Favorites},
		{"player", d.Player},
		{"playlists", d.Playlists},
		{"queue", d.Queue},
		{"radios", d.Radios},
	}
	out := all[:0]
	for _, nd := range all {
		if nd.r != nil {
			out = append(out, nd)
		}
	}
	return out
}

// Fetcher is the part of the transport the synchronizer needs.
type Fetcher interface {
	GetJSON(ctx context.Context, path string, target any) error
}

// SettingsResult is the outcome of FetchSettings. Err is nil on success;
// Skipped and Rejected list records that were received but not applied.
type SettingsResult struct {
	Tree     Tree
	Skipped  []error
	Rejected []error
	Err      error
}

// FrontResult is the outcome of FetchFrontSettings. Absent is set when the
// server has no front-end settings file, which is not treated as a fault.
type FrontResult struct {
	Settings map[string]any
	Absent   bool
	Err      error
}

// Synchronizer fetches remote configuration into a Store and resets
// dependents when the instance changes.
type Synchronizer struct {
	store      *Store
	fetcher    Fetcher
	dependents Dependents
	log        logger.Logger
	metrics    *metric.Metrics
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithDependents sets the containers reset by SetInstance.
func WithDependents(d Dependents) SyncOption {
	return func(s *Synchronizer) {
		s.dependents = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) SyncOption {
	return func(s *Synchronizer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metric.Metrics) SyncOption {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// NewSynchronizer creates a synchronizer for store, issuing requests through
// fetcher.
func NewSynchronizer(store *Store, fetcher Fetcher, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		store:   store,
		fetcher: fetcher,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetInstance switches the active instance and then resets every dependent.
// The store and transport already point at the new address when the first
// Reset runs.
func (s *Synchronizer) SetInstance(url string) {
	s.store.SetInstanceURL(url)
	s.metrics.InstanceChanged()
	s.log.Info("instance changed", "instance_url", s.store.InstanceURL())

	for _, d := range s.dependents.ordered() {
		d.r.Reset()
		s.metrics.DependentReset(d.name)
	}
}

// FetchSettings loads the instance settings and merges them into the store.
// onComplete runs after a successful merge. Failures are logged, recorded in
// the event log and returned in the result; the store is left untouched.
func (s *Synchronizer) FetchSettings(ctx context.Context, onComplete func()) SettingsResult {
	start := time.Now()

	var records []Record
	if err := s.fetcher.GetJSON(ctx, SettingsPath, &records); err != nil {
		s.metrics.ObserveFetch(KindSettings, metric.OutcomeFailure, time.Since(start))
		s.log.Error("error while fetching settings", "error", err)
		s.store.AppendEvent(NewEvent(slog.LevelError, "Error while fetching settings",
			map[string]any{"error": err.Error()}))
		return SettingsResult{Err: &FetchError{Op: KindSettings, URL: SettingsPath, Cause: err}}
	}

	tree, skipped := BuildTree(records)
	rejected := s.store.MergeSettings(tree)
	s.metrics.ObserveFetch(KindSettings, metric.OutcomeSuccess, time.Since(start))

	for _, err := range skipped {
		s.log.Warn("skipped malformed settings record", "error", err)
	}
	s.metrics.SettingsRejected("malformed", len(skipped))
	var unknown, mistyped int
	for _, err := range rejected {
		s.log.Warn("settings record not applied", "error", err)
		var typeErr *SettingTypeError
		if errors.As(err, &typeErr) {
			mistyped++
		} else {
			unknown++
		}
	}
	s.metrics.SettingsRejected("unknown", unknown)
	s.metrics.SettingsRejected("type", mistyped)

	s.log.Info("successfully fetched instance settings",
		"records", len(records),
		"skipped", len(skipped),
		"rejected", len(rejected),
	)
	s.store.AppendEvent(NewEvent(slog.LevelInfo, "Successfully fetched instance settings",
		map[string]any{"records": len(records)}))

	if onComplete != nil {
		onComplete()
	}
	return SettingsResult{Tree: tree, Skipped: skipped, Rejected: rejected}
}

// FetchFrontSettings loads settings.json from the hosting origin and
// replaces the store's front settings with it. A missing file leaves the
// previous value in place.
func (s *Synchronizer) FetchFrontSettings(ctx context.Context) FrontResult {
	start := time.Now()
	url := Resolve("", s.store.Location(), FrontSettingsPath)

	var blob map[string]any
	if err := s.fetcher.GetJSON(ctx, url, &blob); err != nil {
		s.metrics.ObserveFetch(KindFrontSettings, metric.OutcomeFailure, time.Since(start))

		var statusErr *transport.StatusError
		absent := errors.As(err, &statusErr) && statusErr.NotFound()
		if absent {
			s.log.Info("no front-end customization available", "url", url)
		} else {
			s.log.Error("error when fetching front-end configuration", "url", url, "error", err)
			s.store.AppendEvent(NewEvent(slog.LevelError, "Error when fetching front-end configuration",
				map[string]any{"error": err.Error()}))
		}
		return FrontResult{Absent: absent, Err: &FetchError{Op: KindFrontSettings, URL: url, Cause: err}}
	}

	if blob == nil {
		blob = map[string]any{}
	}
	s.store.ReplaceFrontSettings(blob)
	s.metrics.ObserveFetch(KindFrontSettings, metric.OutcomeSuccess, time.Since(start))
	s.log.Debug("front-end settings loaded", "keys", len(blob))

	return FrontResult{Settings: blob}
}

// FetchSettingsAsync runs FetchSettings in a goroutine. The channel yields
// exactly one result and is then closed.
func (s *Synchronizer) FetchSettingsAsync(ctx context.Context, onComplete func()) <-chan SettingsResult {
	ch := make(chan SettingsResult, 1)
	go func() {
		defer close(ch)
		ch <- s.FetchSettings(ctx, onComplete)
	}()
	return ch
}

// FetchFrontSettingsAsync runs FetchFrontSettings in a goroutine.
func (s *Synchronizer) FetchFrontSettingsAsync(ctx context.Context) <-chan FrontResult {
	ch := make(chan FrontResult, 1)
	go func() {
		defer close(ch)
		ch <- s.FetchFrontSettings(ctx)
	}()
	return ch
}

// BootstrapResult carries both fetch outcomes.
type BootstrapResult struct {
	Settings SettingsResult
	Front    FrontResult
}

// Bootstrap fetches instance settings and front-end settings concurrently.
// The returned error is the settings failure, if any; a missing or broken
// front-end file does not fail the bootstrap.
func (s *Synchronizer) Bootstrap(ctx context.Context) (BootstrapResult, error) {
	var res BootstrapResult
	var g errgroup.Group

	g.Go(func() error {
		res.Settings = s.FetchSettings(ctx, nil)
		return res.Settings.Err
	})
	g.Go(func() error {
		res.Front = s.FetchFrontSettings(ctx)
		return nil
	})

	err := g.Wait()
	return res, err
}
