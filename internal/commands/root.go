package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/famledger/famledger/internal/config"
	"github.com/famledger/famledger/internal/ledger"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "famledger",
		Short: "Single-user family budget ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newNewCommand(),
		newSaveCommand(),
		newLoadCommand(),
		newImportCommand(),
		newAccountCommand(),
		newFamilyCommand(),
	)

	return rootCmd
}

// withEngine loads configuration, opens the working store and hands a
// ready engine to fn, closing it afterwards.
func withEngine(fn func(ctx context.Context, eng *ledger.Engine) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		eng, err := ledger.Open(ctx, ledger.Options{
			Path:   cfg.Database.Path,
			Logger: log,
		})
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		if cfg.Ledger.BaseCurrency != "" {
			if err := eng.SetBaseCurrencyCode(ctx, cfg.Ledger.BaseCurrency); err != nil {
				return err
			}
		}
		return fn(ctx, eng)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
