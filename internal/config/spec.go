package config

import "time"

// Config is the bootstrap configuration of podlink.
type Config struct {
	// InstanceURL is the instance to talk to. Empty means the API is served
	// from the hosting origin.
	InstanceURL string `koanf:"instance_url" yaml:"instance_url" json:"instance_url"`

	// MaxEvents is the event log ceiling.
	MaxEvents int `koanf:"max_events" yaml:"max_events" json:"max_events"`

	Front   FrontSection   `koanf:"front" yaml:"front" json:"front"`
	HTTP    HTTPSection    `koanf:"http" yaml:"http" json:"http"`
	Log     LogSection     `koanf:"log" yaml:"log" json:"log"`
	Metrics MetricsSection `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// FrontSection describes where the front end is hosted.
type FrontSection struct {
	// Origin is the hosting origin, e.g. "https://listen.example.org". It
	// is where settings.json is fetched from and the API fallback.
	Origin string `koanf:"origin" yaml:"origin" json:"origin"`
}

// HTTPSection configures the transport.
type HTTPSection struct {
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`
	RateLimit float64       `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"` // requests per second, 0 disables
	Burst     int           `koanf:"burst" yaml:"burst" json:"burst"`
	UserAgent string        `koanf:"user_agent" yaml:"user_agent" json:"user_agent"`
	CAFile    string        `koanf:"ca_file" yaml:"ca_file" json:"ca_file"` // PEM file or directory of extra roots
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"` // text, json
}

// MetricsSection configures the Prometheus endpoint of the watch command.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled" json:"enabled"`
	Addr    string `koanf:"addr" yaml:"addr" json:"addr"`
}
