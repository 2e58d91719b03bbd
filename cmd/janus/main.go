// Janus is an API gateway for chat-completion traffic.
//
// It guards a mock chat-completion endpoint with two-level token-bucket
// admission control (per-identity and global), resolves bearer credentials
// (API keys and session tokens) against a SQLite account store, and fails
// open when its own infrastructure misbehaves.
//
// Usage:
//
//	# Start the gateway with default configuration
//	janus run
//
//	# Start with a custom configuration file
//	janus run --config /etc/janus/config.yaml
//
//	# Check a configuration file without starting
//	janus validate
//
//	# Mint an API key for an account
//	janus keys generate --email user@example.com
//
//	# Show version information
//	janus version
package main

func main() {
	Execute()
}
