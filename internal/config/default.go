package config

import "time"

// Default configuration values.
const (
	DefaultMaxEvents   = 200
	DefaultFrontOrigin = "http://localhost"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultBurst       = 1
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultMetricsAddr = "127.0.0.1:9464"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MaxEvents: DefaultMaxEvents,
		Front: FrontSection{
			Origin: DefaultFrontOrigin,
		},
		HTTP: HTTPSection{
			Timeout: DefaultHTTPTimeout,
			Burst:   DefaultBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsSection{
			Addr: DefaultMetricsAddr,
		},
	}
}
