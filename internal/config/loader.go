package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "pulsefeed.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PULSEFEED_PORT")
	setString(&cfg.Server.CORSOrigin, "PULSEFEED_CORS_ORIGIN")
	setString(&cfg.Server.StaticDir, "PULSEFEED_STATIC_DIR")

	if v := os.Getenv("PULSEFEED_TENANTS"); v != "" {
		cfg.Tenants = splitList(v)
	}

	setInt(&cfg.Feed.MaxEvents, "PULSEFEED_FEED_MAX_EVENTS")
	setInt(&cfg.Feed.MaxMessageLen, "PULSEFEED_FEED_MAX_MESSAGE_LEN")
	setInt(&cfg.Feed.ReplayCount, "PULSEFEED_FEED_REPLAY_COUNT")
	setInt(&cfg.Feed.DefaultListLimit, "PULSEFEED_FEED_DEFAULT_LIST_LIMIT")
	setInt(&cfg.Feed.MaxListLimit, "PULSEFEED_FEED_MAX_LIST_LIMIT")
	setDuration(&cfg.Feed.DeliveryTimeout, "PULSEFEED_FEED_DELIVERY_TIMEOUT")

	setString(&cfg.Logging.Level, "PULSEFEED_LOG_LEVEL")
	setString(&cfg.Logging.Service, "PULSEFEED_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "PULSEFEED_LOG_ASYNC")

	setFloat64(&cfg.Rate.RequestsPerSecond, "PULSEFEED_RATE_RPS")
	setInt(&cfg.Rate.Burst, "PULSEFEED_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "PULSEFEED_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "PULSEFEED_RATE_MAX_IDLE_TIME")

	setDuration(&cfg.Idempotency.TTL, "PULSEFEED_IDEMPOTENCY_TTL")
	setInt64(&cfg.Idempotency.CacheSizeMB, "PULSEFEED_IDEMPOTENCY_CACHE_MB")

	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Telemetry.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// validate checks that required fields are set and consistent.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if len(cfg.Tenants) == 0 {
		return errors.New("tenants must not be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Tenants))
	for _, id := range cfg.Tenants {
		if id == "" {
			return errors.New("tenants must not contain empty identifiers")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate tenant %q", id)
		}
		seen[id] = struct{}{}
	}
	if cfg.Feed.MaxEvents < 1 {
		return errors.New("feed.max_events must be >= 1")
	}
	if cfg.Feed.MaxMessageLen < 1 {
		return errors.New("feed.max_message_len must be >= 1")
	}
	if cfg.Feed.ReplayCount < 0 {
		return errors.New("feed.replay_count must be >= 0")
	}
	if cfg.Feed.DefaultListLimit < 1 || cfg.Feed.MaxListLimit < cfg.Feed.DefaultListLimit {
		return errors.New("feed list limits must satisfy 1 <= default <= max")
	}
	if cfg.Feed.DeliveryTimeout <= 0 {
		return errors.New("feed.delivery_timeout must be positive")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
