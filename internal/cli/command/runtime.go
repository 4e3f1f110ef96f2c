package command

import (
	"crypto/tls"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/podlink/internal/config"
	"github.com/yndnr/podlink/internal/infra/confloader"
	"github.com/yndnr/podlink/internal/infra/tlsroots"
	"github.com/yndnr/podlink/internal/instance"
	"github.com/yndnr/podlink/internal/library"
	"github.com/yndnr/podlink/internal/telemetry/logger"
	"github.com/yndnr/podlink/internal/telemetry/metric"
	"github.com/yndnr/podlink/internal/transport"
)

// Runtime is everything a command needs, built once per invocation.
type Runtime struct {
	Config   *config.Config
	Loader   *confloader.Loader
	Log      logger.Logger
	Client   *transport.Client
	Store    *instance.Store
	Sync     *instance.Synchronizer
	Library  *library.Set
	Registry *prometheus.Registry
}

func newRuntime(c *cli.Context) (*Runtime, error) {
	loader := config.NewLoader(c.String("config"), flagOverrides(c))
	cfg, err := config.Load(loader)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	logger.SetDefault(log)

	loc, err := instance.ParseLocation(cfg.Front.Origin)
	if err != nil {
		return nil, fmt.Errorf("front.origin: %w", err)
	}

	var tlsConfig *tls.Config
	if cfg.HTTP.CAFile != "" {
		if tlsConfig, err = tlsroots.ClientConfig(cfg.HTTP.CAFile); err != nil {
			return nil, fmt.Errorf("http.ca_file: %w", err)
		}
	}

	client := transport.New(
		transport.WithTimeout(cfg.HTTP.Timeout),
		transport.WithTLSConfig(tlsConfig),
		transport.WithRateLimit(cfg.HTTP.RateLimit, cfg.HTTP.Burst),
		transport.WithUserAgent(cfg.HTTP.UserAgent),
		transport.WithFallbackOrigin(instance.DefaultOrigin(loc)),
	)

	store := instance.NewStore(
		instance.WithLocation(loc),
		instance.WithMaxEvents(cfg.MaxEvents),
		instance.WithTransport(client),
		instance.WithInstanceURL(cfg.InstanceURL),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(metric.NewCollector(store))
	lib := library.NewSet()

	sync := instance.NewSynchronizer(store, client,
		instance.WithDependents(lib.Dependents()),
		instance.WithLogger(log.With("component", "sync")),
		instance.WithMetrics(metric.New(reg)),
	)

	log.Debug("runtime ready",
		"config_file", loader.FilePath(),
		"instance_url", store.InstanceURL(),
		"api_base", client.BaseURL(),
	)

	return &Runtime{
		Config:   cfg,
		Loader:   loader,
		Log:      log,
		Client:   client,
		Store:    store,
		Sync:     sync,
		Library:  lib,
		Registry: reg,
	}, nil
}
