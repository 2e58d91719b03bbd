// Package config provides configuration management for Janus.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.Load("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention JANUS_SECTION_FIELD.
// For example:
//
//   - JANUS_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - JANUS_QUOTA_REDIS_ADDRESS overrides quota.redis.address
//   - JANUS_AUTH_SIGNING_SECRET overrides auth.signing_secret
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// Configuration instances are passed explicitly to the components that need
// them; there is no package-level singleton.
package config
