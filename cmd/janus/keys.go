package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/janus/pkg/auth"
	"mercator-hq/janus/pkg/cli"
	"mercator-hq/janus/pkg/config"
	"mercator-hq/janus/pkg/store"
)

var keysFlags struct {
	email string
	name  string
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys",
	Long: `Mint and inspect API keys for registered accounts.

API keys are static bearer credentials with the sk- prefix. The key value
is printed once at generation time and stored for lookup; treat the output
as a secret.`,
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an API key for an account",
	Long: `Generate a new API key for the account registered under the given
email address and store it in the account database.

Examples:
  # Mint a key for an account
  janus keys generate --email user@example.com

  # Mint a named key
  janus keys generate --email user@example.com --name ci-pipeline`,
	RunE: generateKey,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysGenerateCmd)

	keysGenerateCmd.Flags().StringVar(&keysFlags.email, "email", "", "account email (required)")
	keysGenerateCmd.Flags().StringVar(&keysFlags.name, "name", "default", "key label")
	_ = keysGenerateCmd.MarkFlagRequired("email")
}

func generateKey(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError(err.Error())
	}

	accounts, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return cli.NewCommandError("keys generate", fmt.Errorf("open account store: %w", err))
	}
	defer accounts.Close()

	ctx := context.Background()
	user, err := accounts.UserByEmail(ctx, keysFlags.email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return cli.NewCommandError("keys generate", fmt.Errorf("no account registered for %s", keysFlags.email))
		}
		return cli.NewCommandError("keys generate", err)
	}

	key, err := auth.GenerateAPIKey()
	if err != nil {
		return cli.NewCommandError("keys generate", err)
	}

	record, err := accounts.CreateAPIKey(ctx, user.ID, keysFlags.name, key)
	if err != nil {
		return cli.NewCommandError("keys generate", err)
	}

	fmt.Printf("✓ API key created for %s (%s)\n", user.Email, record.Name)
	fmt.Println()
	fmt.Printf("  %s\n", record.Key)
	fmt.Println()
	fmt.Println("Store this key securely. It will not be shown again.")
	return nil
}
