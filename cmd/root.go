package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfscout/appraise-cli/internal/appraise"
	"github.com/shelfscout/appraise-cli/internal/config"
	"github.com/shelfscout/appraise-cli/internal/decision"
	"github.com/shelfscout/appraise-cli/internal/pricing"
	"github.com/shelfscout/appraise-cli/internal/registry"
	"github.com/shelfscout/appraise-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "appraise-cli",
	Short: "Used-book resale appraisal pipeline",
	Long:  "Scores scouted books: extracts market features, routes to specialist or unified pricing models, applies collectible overrides, and recommends Buy, Skip, or NeedsReview.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initEngine loads the creator registry and model artifacts and wires the
// appraisal engine. Both are read-only after this point.
func initEngine() (*appraise.Engine, *registry.Registry, error) {
	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return nil, nil, err
	}
	router, err := pricing.NewRouter(cfg.Models.Dir)
	if err != nil {
		return nil, nil, err
	}
	zap.L().Info("engine ready",
		zap.Int("registry_entries", reg.Len()),
		zap.String("models_dir", cfg.Models.Dir),
	)
	return appraise.New(reg, router, cfg.Collectible.HighValueMultiplier), reg, nil
}

// resolveProfile maps a --profile flag value to a preset, falling back
// to the configured default when the flag is empty.
func resolveProfile(name string) (decision.Profile, error) {
	if name == "" {
		name = cfg.Decision.DefaultProfile
	}
	return decision.ByName(name)
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "appraise.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
