package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/janus/pkg/cli"
	"mercator-hq/janus/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load the configuration file, apply environment overrides, and report
whether the result is valid without starting the gateway.

Examples:
  # Validate the default config file
  janus validate

  # Validate a specific file
  janus validate --config /etc/janus/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError(err.Error())
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  quota backend:  %s\n", cfg.Quota.Backend)
	fmt.Printf("  global limit:   %d/min\n", cfg.Quota.GlobalLimit)
	for tier, limit := range cfg.Quota.Tiers {
		fmt.Printf("  tier %-10s %d/min\n", tier+":", limit)
	}
	return nil
}
