package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access to
// all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateQuota(&cfg.Quota)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "timeout must not be negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "timeout must not be negative",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "timeout must not be negative",
		})
	}

	return errs
}

func validateQuota(cfg *QuotaConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, FieldError{
			Field:   "quota.backend",
			Message: fmt.Sprintf("unknown backend %q, must be \"memory\" or \"redis\"", cfg.Backend),
		})
	}

	if cfg.Backend == "redis" && cfg.Redis.Address == "" {
		errs = append(errs, FieldError{
			Field:   "quota.redis.address",
			Message: "redis address is required for the redis backend",
		})
	}

	for tier, limit := range cfg.Tiers {
		if limit <= 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("quota.tiers.%s", tier),
				Message: "tier limit must be positive",
			})
		}
	}

	if cfg.GlobalLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "quota.global_limit",
			Message: "global limit must be positive",
		})
	}

	return errs
}

func validateAuth(cfg *AuthConfig) []FieldError {
	var errs []FieldError

	if cfg.SigningSecret == "" {
		errs = append(errs, FieldError{
			Field:   "auth.signing_secret",
			Message: "signing secret is required",
		})
	} else if len(cfg.SigningSecret) < 16 {
		errs = append(errs, FieldError{
			Field:   "auth.signing_secret",
			Message: "signing secret must be at least 16 characters",
		})
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, FieldError{
			Field:   "auth.token_ttl",
			Message: "token TTL must be positive",
		})
	}
	if cfg.LoginRatePerSecond < 0 {
		errs = append(errs, FieldError{
			Field:   "auth.login_rate_per_second",
			Message: "rate must not be negative",
		})
	}
	if cfg.LoginBurst < 0 {
		errs = append(errs, FieldError{
			Field:   "auth.login_burst",
			Message: "burst must not be negative",
		})
	}

	return errs
}

func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	if cfg.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "storage.sqlite_path",
			Message: "sqlite path is required",
		})
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q, must be debug, info, warn or error", cfg.Level),
		})
	}

	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q, must be json or text", cfg.Format),
		})
	}

	return errs
}

func validateMetrics(cfg *MetricsConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && !strings.HasPrefix(cfg.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}
