package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	var errs []error

	if cfg.InstanceURL != "" {
		if err := verifyHTTPURL("instance_url", cfg.InstanceURL); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.MaxEvents < 1 {
		errs = append(errs, errors.New("max_events must be at least 1"))
	}
	if err := verifyHTTPURL("front.origin", cfg.Front.Origin); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, verifyHTTP(&cfg.HTTP)...)
	errs = append(errs, verifyLog(&cfg.Log)...)

	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			errs = append(errs, fmt.Errorf("metrics.addr: %w", err))
		}
	}

	return errors.Join(errs...)
}

func verifyHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: scheme must be http or https, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host in %q", key, raw)
	}
	return nil
}

func verifyHTTP(cfg *HTTPSection) []error {
	var errs []error
	if cfg.Timeout <= 0 {
		errs = append(errs, errors.New("http.timeout must be positive"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("http.rate_limit must not be negative"))
	}
	if cfg.RateLimit > 0 && cfg.Burst < 1 {
		errs = append(errs, errors.New("http.burst must be at least 1 when rate limiting"))
	}
	return errs
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", cfg.Level))
	}
	switch cfg.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", cfg.Format))
	}
	return errs
}
