package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention JANUS_SECTION_FIELD and always take precedence over file-based
// configuration.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format JANUS_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("JANUS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("JANUS_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("JANUS_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("JANUS_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("JANUS_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Quota overrides
	if val := os.Getenv("JANUS_QUOTA_BACKEND"); val != "" {
		cfg.Quota.Backend = val
	}
	if val := os.Getenv("JANUS_QUOTA_REDIS_ADDRESS"); val != "" {
		cfg.Quota.Redis.Address = val
	}
	if val := os.Getenv("JANUS_QUOTA_REDIS_PASSWORD"); val != "" {
		cfg.Quota.Redis.Password = val
	}
	if val := os.Getenv("JANUS_QUOTA_REDIS_DB"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Quota.Redis.DB = i
		}
	}
	if val := os.Getenv("JANUS_QUOTA_GLOBAL_LIMIT"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Quota.GlobalLimit = i
		}
	}
	if val := os.Getenv("JANUS_QUOTA_SWEEP_SCHEDULE"); val != "" {
		cfg.Quota.SweepSchedule = val
	}
	if val := os.Getenv("JANUS_QUOTA_WATCH_LIMITS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Quota.WatchLimits = b
		}
	}

	// Auth overrides
	if val := os.Getenv("JANUS_AUTH_SIGNING_SECRET"); val != "" {
		cfg.Auth.SigningSecret = val
	}
	if val := os.Getenv("JANUS_AUTH_TOKEN_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Auth.TokenTTL = d
		}
	}
	if val := os.Getenv("JANUS_AUTH_LOGIN_RATE_PER_SECOND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Auth.LoginRatePerSecond = f
		}
	}
	if val := os.Getenv("JANUS_AUTH_LOGIN_BURST"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Auth.LoginBurst = i
		}
	}

	// Storage overrides
	if val := os.Getenv("JANUS_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLitePath = val
	}

	// Logging overrides
	if val := os.Getenv("JANUS_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("JANUS_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	// Metrics overrides
	if val := os.Getenv("JANUS_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("JANUS_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}
}
