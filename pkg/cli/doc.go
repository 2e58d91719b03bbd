// Package cli provides shared helpers for the janus command line: typed
// command errors and signal-aware contexts.
package cli
