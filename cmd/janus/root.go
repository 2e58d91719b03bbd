package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "janus",
	Short: "Janus - rate-limited API gateway for chat completions",
	Long: `Janus is an API gateway that guards a chat-completion endpoint with
two-level token-bucket admission control.

Every authenticated request is checked against a per-identity bucket sized
by the account's tier, then against a global bucket shared by all traffic.
Credentials are API keys or signed session tokens; accounts live in SQLite;
quota state lives in Redis or in process memory. When the gateway's own
infrastructure fails, requests pass through rather than being rejected.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
