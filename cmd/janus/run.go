package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mercator-hq/janus/pkg/auth"
	"mercator-hq/janus/pkg/cli"
	"mercator-hq/janus/pkg/config"
	"mercator-hq/janus/pkg/llm"
	"mercator-hq/janus/pkg/quota"
	"mercator-hq/janus/pkg/server"
	"mercator-hq/janus/pkg/store"
	"mercator-hq/janus/pkg/telemetry/logging"
	"mercator-hq/janus/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Janus gateway",
	Long: `Start the Janus gateway with the specified configuration.

The gateway listens on the configured address, authenticates bearer
credentials, and admits or denies requests against the tiered quota tables
before serving chat completions.

Examples:
  # Start with default config
  janus run

  # Start with custom config
  janus run --config /etc/janus/config.yaml

  # Override listen address
  janus run --listen 0.0.0.0:8000

  # Validate config without starting
  janus run --dry-run`,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the gateway")
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError(err.Error())
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.Setup(cfg.Logging)
	if err != nil {
		return cli.NewConfigError(err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Janus v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx := cli.SignalContext()

	// Account store.
	accounts, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("open account store: %w", err))
	}
	defer accounts.Close()
	fmt.Printf("✓ Account store ready (%s)\n", cfg.Storage.SQLitePath)

	// Quota backend.
	var quotaStore quota.Store
	switch cfg.Quota.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Quota.Redis.Address,
			Password: cfg.Quota.Redis.Password,
			DB:       cfg.Quota.Redis.DB,
		})
		redisStore, err := quota.NewRedisStore(client)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("connect quota backend: %w", err))
		}
		quotaStore = redisStore
	case "memory":
		memStore := quota.NewMemoryStore()
		if cfg.Quota.SweepSchedule != "" {
			sweeper := quota.NewSweeper(memStore, cfg.Quota.SweepSchedule)
			if err := sweeper.Start(); err != nil {
				logger.Warn("quota sweeper failed to start", "error", err)
			} else {
				defer sweeper.Stop()
			}
		}
		quotaStore = memStore
	default:
		return cli.NewConfigError(fmt.Sprintf("unknown quota backend %q", cfg.Quota.Backend))
	}
	defer quotaStore.Close()
	fmt.Printf("✓ Quota backend ready (%s)\n", cfg.Quota.Backend)

	// Limit table, optionally hot-reloaded from the config file.
	table := quota.NewTable(limitsFromConfig(cfg))
	if cfg.Quota.WatchLimits {
		watcher := config.NewWatcher(cfgFile)
		go func() {
			err := watcher.Watch(ctx, func(next *config.Config) {
				table.Replace(limitsFromConfig(next))
				logger.Info("limit table reloaded")
			})
			if err != nil {
				logger.Error("config watcher stopped", "error", err)
			}
		}()
	}

	// Metrics.
	var collector *metrics.Collector
	var quotaMetrics *quota.Metrics
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		quotaMetrics = quota.NewMetrics(collector.Registerer())
	}

	// Auth.
	tokens, err := auth.NewTokenService([]byte(cfg.Auth.SigningSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return cli.NewConfigError(err.Error())
	}
	source := store.NewIdentitySource(accounts)
	resolver := auth.NewResolver(source, source, tokens)

	controller := quota.NewController(quotaStore, table, quotaMetrics)

	srv := server.New(cfg, server.Deps{
		Accounts:     accounts,
		Resolver:     resolver,
		Tokens:       tokens,
		Controller:   controller,
		QuotaMetrics: quotaMetrics,
		Collector:    collector,
		Completer:    llm.NewMockCompleter(),
		Version:      Version,
	})

	fmt.Println()
	fmt.Printf("✓ Gateway listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Gateway stopped")
	return nil
}

// limitsFromConfig converts the config tier table to quota limits.
func limitsFromConfig(cfg *config.Config) quota.Limits {
	tiers := make(map[quota.Tier]int64, len(cfg.Quota.Tiers))
	for name, limit := range cfg.Quota.Tiers {
		tiers[quota.Tier(name)] = limit
	}
	return quota.Limits{
		Tiers:  tiers,
		Global: cfg.Quota.GlobalLimit,
	}
}
