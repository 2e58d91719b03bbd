package config

import "time"

// Config is the root configuration for the Janus gateway.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Quota configures admission control: the quota backend and the
	// per-tier limit table.
	Quota QuotaConfig `yaml:"quota"`

	// Auth configures credential resolution and session tokens.
	Auth AuthConfig `yaml:"auth"`

	// Storage configures the account store.
	Storage StorageConfig `yaml:"storage"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// ListenAddress is the host:port to bind.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Streaming responses need headroom here.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// QuotaConfig configures the admission control subsystem.
type QuotaConfig struct {
	// Backend selects the shared state store: "memory" or "redis".
	Backend string `yaml:"backend"`

	// Redis configures the Redis backend. Ignored for the memory backend.
	Redis RedisConfig `yaml:"redis"`

	// Tiers maps tier name to requests per minute. Missing tiers fall
	// back to built-in defaults.
	Tiers map[string]int64 `yaml:"tiers"`

	// GlobalLimit is the shared capacity across all identities, per minute.
	GlobalLimit int64 `yaml:"global_limit"`

	// SweepSchedule is a cron expression for expired-state sweeps of the
	// memory backend. Empty disables sweeping.
	SweepSchedule string `yaml:"sweep_schedule"`

	// WatchLimits reloads the tier table when the config file changes.
	WatchLimits bool `yaml:"watch_limits"`
}

// RedisConfig configures the Redis quota backend.
type RedisConfig struct {
	// Address is the host:port of the Redis server.
	Address string `yaml:"address"`

	// Password authenticates to Redis. Empty means no auth.
	Password string `yaml:"password"`

	// DB selects the Redis logical database.
	DB int `yaml:"db"`
}

// AuthConfig configures credential resolution.
type AuthConfig struct {
	// SigningSecret signs session tokens. Required.
	SigningSecret string `yaml:"signing_secret"`

	// TokenTTL is the session token lifetime.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// LoginRatePerSecond throttles credential endpoints per client IP.
	LoginRatePerSecond float64 `yaml:"login_rate_per_second"`

	// LoginBurst is the per-IP burst on credential endpoints.
	LoginBurst int `yaml:"login_burst"`
}

// StorageConfig configures the account store.
type StorageConfig struct {
	// SQLitePath is the database file path.
	SQLitePath string `yaml:"sqlite_path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is the handler format: json or text.
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint.
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	Path string `yaml:"path"`
}
