package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/challenge-workflows/eval-cli/internal/config"
	"github.com/challenge-workflows/eval-cli/internal/model"
	"github.com/challenge-workflows/eval-cli/internal/schema"
	"github.com/challenge-workflows/eval-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "eval-cli",
	Short: "Validate and score data-challenge prediction files",
	Long:  "Checks predictions files against a goldstandard and computes AUROC/AUPRC, writing a results JSON consumed by the challenge orchestration workflow.",
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

// loadSchema resolves the challenge schema: the configured YAML file when
// set, the built-in binary-classification layout otherwise.
func loadSchema(cfg *config.Config) (*schema.Schema, error) {
	if cfg != nil && cfg.Schema.File != "" {
		return schema.Load(cfg.Schema.File)
	}
	return schema.Default(), nil
}

// openStore opens the configured history backend, or returns nil when
// history recording is disabled.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.History.Driver {
	case "":
		return nil, nil
	case "sqlite":
		return store.NewSQLite(cfg.History.Path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.History.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.History.Driver)
	}
}

// recordHistory persists one evaluation record. History is best-effort
// bookkeeping: failures are logged, never surfaced to the workflow.
func recordHistory(ctx context.Context, cfg *config.Config, ev *model.Evaluation) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		zap.L().Warn("history store unavailable", zap.Error(err))
		return
	}
	if st == nil {
		return
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("history migrate failed", zap.Error(err))
		return
	}
	if err := st.RecordEvaluation(ctx, ev); err != nil {
		zap.L().Warn("history record failed", zap.Error(err))
		return
	}
	zap.L().Debug("evaluation recorded",
		zap.String("id", ev.ID),
		zap.String("kind", string(ev.Kind)),
		zap.String("status", ev.Status),
	)
}
