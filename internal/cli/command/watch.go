package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/podlink/internal/cli/output"
	"github.com/yndnr/podlink/internal/config"
	"github.com/yndnr/podlink/internal/infra/confloader"
	"github.com/yndnr/podlink/internal/infra/shutdown"
	"github.com/yndnr/podlink/internal/instance"
	"github.com/yndnr/podlink/internal/telemetry/logger"
	"github.com/yndnr/podlink/internal/telemetry/metric"
)

const eventPollInterval = 250 * time.Millisecond

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Bootstrap, follow the configuration file and print events until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "filter",
				Usage: `Event filter expression, e.g. 'level == "ERROR" || message contains "settings"'`,
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Re-fetch instance settings at this interval (0 disables)",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Serve Prometheus metrics (overrides metrics.enabled)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Metrics listen address (overrides metrics.addr)",
			},
		},
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	filter, err := instance.CompileEventFilter(c.String("filter"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	h := shutdown.NewHandler(shutdown.DefaultTimeout)

	if c.Bool("metrics") || rt.Config.Metrics.Enabled {
		addr := rt.Config.Metrics.Addr
		if c.IsSet("metrics-addr") {
			addr = c.String("metrics-addr")
		}
		srv, err := serveMetrics(rt, addr)
		if err != nil {
			return err
		}
		h.OnShutdown(srv.Shutdown)
	}

	if path := rt.Loader.FilePath(); path != "" {
		w, err := watchConfig(ctx, rt, path)
		if err != nil {
			return err
		}
		h.OnShutdown(func(context.Context) error { return w.Stop() })
	}

	if _, err := rt.Sync.Bootstrap(ctx); err != nil {
		rt.Log.Warn("initial settings fetch failed, continuing", "error", err)
	}

	if d := c.Duration("interval"); d > 0 {
		go refreshLoop(ctx, rt, d)
	}

	printer := &eventPrinter{w: c.App.Writer, format: format, filter: filter, log: rt.Log}
	done := make(chan struct{})
	go func() {
		defer close(done)
		printer.run(ctx, rt.Store)
	}()

	err = h.Wait(c.Context)
	cancel()
	<-done
	printer.flush(rt.Store.Events())
	return err
}

func serveMetrics(rt *Runtime, addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metric.Handler(rt.Registry))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			rt.Log.Error("metrics server stopped", "error", err)
		}
	}()
	rt.Log.Info("serving metrics", "addr", ln.Addr().String())
	return srv, nil
}

func watchConfig(ctx context.Context, rt *Runtime, path string) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.Log.With("component", "confwatch")))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	var mu sync.Mutex
	w.OnChange(func(string) {
		mu.Lock()
		defer mu.Unlock()
		reloadConfig(ctx, rt)
	})
	w.StartAsync()
	return w, nil
}

// reloadConfig re-reads the configuration and applies what can change at
// runtime: the log level and the instance URL.
func reloadConfig(ctx context.Context, rt *Runtime) {
	cfg, err := config.Load(rt.Loader)
	if err != nil {
		rt.Log.Error("configuration reload failed", "error", err)
		rt.Store.AppendEvent(instance.NewEvent(slog.LevelError, "Configuration reload failed",
			map[string]any{"error": err.Error()}))
		return
	}

	logger.SetLevel(cfg.Log.Level)

	if instance.NormalizeURL(cfg.InstanceURL) == rt.Store.InstanceURL() {
		rt.Log.Debug("configuration reloaded, instance unchanged")
		return
	}
	rt.Sync.SetInstance(cfg.InstanceURL)
	rt.Store.AppendEvent(instance.NewEvent(slog.LevelInfo, "Instance changed",
		map[string]any{"instance_url": rt.Store.InstanceURL()}))
	rt.Sync.FetchSettingsAsync(ctx, nil)
}

func refreshLoop(ctx context.Context, rt *Runtime, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rt.Sync.FetchSettings(ctx, nil)
		}
	}
}

// eventPrinter writes events it has not printed before, oldest first.
type eventPrinter struct {
	w      io.Writer
	format output.Format
	filter *instance.EventFilter
	log    logger.Logger
	seen   map[string]struct{}
}

func (p *eventPrinter) run(ctx context.Context, store *instance.Store) {
	ticker := time.NewTicker(eventPollInterval)
	defer ticker.Stop()
	for {
		p.flush(store.Events())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *eventPrinter) flush(events []instance.Event) {
	seen := make(map[string]struct{}, len(events))
	for _, e := range slices.Backward(events) {
		seen[e.ID] = struct{}{}
		if _, ok := p.seen[e.ID]; ok {
			continue
		}
		ok, err := p.filter.Match(e)
		if err != nil {
			p.log.Warn("event filter failed", "filter", p.filter.String(), "error", err)
			continue
		}
		if ok {
			p.print(e)
		}
	}
	// Events that fell off the log are forgotten so the set stays bounded.
	p.seen = seen
}

func (p *eventPrinter) print(e instance.Event) {
	switch p.format {
	case output.FormatJSON:
		b, err := json.Marshal(e)
		if err != nil {
			p.log.Warn("encode event", "error", err)
			return
		}
		fmt.Fprintf(p.w, "%s\n", b)
	case output.FormatYAML:
		b, err := yaml.Marshal(e)
		if err != nil {
			p.log.Warn("encode event", "error", err)
			return
		}
		fmt.Fprintf(p.w, "---\n%s", b)
	default:
		line := fmt.Sprintf("%s  %-5s  %s", e.Time.Format(time.DateTime), e.Level, e.Message)
		if len(e.Metadata) > 0 {
			line += "  " + output.Cell(e.Metadata)
		}
		fmt.Fprintln(p.w, line)
	}
}
