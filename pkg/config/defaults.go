package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Quota defaults
	DefaultQuotaBackend  = "memory"
	DefaultRedisAddress  = "127.0.0.1:6379"
	DefaultGlobalLimit   = int64(10000)
	DefaultSweepSchedule = "@every 5m"

	// Auth defaults
	DefaultTokenTTL           = 30 * time.Minute
	DefaultLoginRatePerSecond = 1.0
	DefaultLoginBurst         = 5

	// Storage defaults
	DefaultSQLitePath = "data/janus.db"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Metrics defaults
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
)

// DefaultTiers returns the built-in tier limit table, requests per minute.
func DefaultTiers() map[string]int64 {
	return map[string]int64{
		"free":       10,
		"pro":        100,
		"enterprise": 1000,
	}
}

// ApplyDefaults fills in default values for any zero-valued configuration
// fields. It is called automatically by Load.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Quota.Backend == "" {
		cfg.Quota.Backend = DefaultQuotaBackend
	}
	if cfg.Quota.Redis.Address == "" {
		cfg.Quota.Redis.Address = DefaultRedisAddress
	}
	if cfg.Quota.GlobalLimit == 0 {
		cfg.Quota.GlobalLimit = DefaultGlobalLimit
	}
	if cfg.Quota.SweepSchedule == "" {
		cfg.Quota.SweepSchedule = DefaultSweepSchedule
	}
	if cfg.Quota.Tiers == nil {
		cfg.Quota.Tiers = DefaultTiers()
	} else {
		for tier, limit := range DefaultTiers() {
			if _, ok := cfg.Quota.Tiers[tier]; !ok {
				cfg.Quota.Tiers[tier] = limit
			}
		}
	}

	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}
	if cfg.Auth.LoginRatePerSecond == 0 {
		cfg.Auth.LoginRatePerSecond = DefaultLoginRatePerSecond
	}
	if cfg.Auth.LoginBurst == 0 {
		cfg.Auth.LoginBurst = DefaultLoginBurst
	}

	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = DefaultSQLitePath
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// NewDefault returns a configuration populated entirely from defaults.
// The signing secret is intentionally left empty and must be supplied
// before the configuration validates.
func NewDefault() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
	}
	ApplyDefaults(cfg)
	return cfg
}
