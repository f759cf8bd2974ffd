// Package config provides hierarchical configuration loading for pulsefeed.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the pulsefeed service.
type Config struct {
	Server      Server      `yaml:"server"`
	Tenants     []string    `yaml:"tenants"`
	Feed        Feed        `yaml:"feed"`
	Logging     Logging     `yaml:"logging"`
	Rate        Rate        `yaml:"rate"`
	Idempotency Idempotency `yaml:"idempotency"`
	NATS        NATS        `yaml:"nats"`
	Telemetry   Telemetry   `yaml:"telemetry"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
	StaticDir  string `yaml:"static_dir"`
}

// Feed holds event log and broadcast configuration.
type Feed struct {
	MaxEvents        int           `yaml:"max_events"`         // per-tenant log capacity
	MaxMessageLen    int           `yaml:"max_message_len"`    // raw message length cap, in runes
	ReplayCount      int           `yaml:"replay_count"`       // events replayed to a new subscriber
	DefaultListLimit int           `yaml:"default_list_limit"` // list limit when the caller gives none
	MaxListLimit     int           `yaml:"max_list_limit"`     // largest list limit the API accepts
	DeliveryTimeout  time.Duration `yaml:"delivery_timeout"`   // per-subscriber broadcast write bound
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Rate holds per-IP rate limiter configuration.
type Rate struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	MaxIdleTime       time.Duration `yaml:"max_idle_time"`
}

// Idempotency holds configuration for replaying deduplicated POST responses.
type Idempotency struct {
	TTL         time.Duration `yaml:"ttl"`
	CacheSizeMB int64         `yaml:"cache_size_mb"`
}

// NATS holds the optional JetStream relay configuration.
// An empty URL disables the relay.
type NATS struct {
	URL string `yaml:"url"`
}

// Telemetry holds the optional OTLP metrics exporter configuration.
// An empty endpoint leaves metrics as no-ops.
type Telemetry struct {
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
			StaticDir:  "web",
		},
		Tenants: []string{"tenant_a", "tenant_b"},
		Feed: Feed{
			MaxEvents:        1000,
			MaxMessageLen:    500,
			ReplayCount:      10,
			DefaultListLimit: 50,
			MaxListLimit:     100,
			DeliveryTimeout:  5 * time.Second,
		},
		Logging: Logging{
			Level:   "info",
			Service: "pulsefeed",
		},
		Rate: Rate{
			RequestsPerSecond: 10,
			Burst:             100,
			CleanupInterval:   time.Minute,
			MaxIdleTime:       10 * time.Minute,
		},
		Idempotency: Idempotency{
			TTL:         time.Hour,
			CacheSizeMB: 64,
		},
	}
}
