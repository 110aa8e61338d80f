// Package main provides the CLI entrypoint for vocatype.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/config"
	"github.com/verte-zerg/vocatype/internal/logger"
	"github.com/verte-zerg/vocatype/internal/review"
	"github.com/verte-zerg/vocatype/internal/store"
)

const (
	defaultLang        = "en"
	defaultWords       = 25
	defaultCaps        = 0.5
	defaultPunct       = 0.5
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultUserID      = 1
	defaultReviewLimit = 20
)

const defaultPunctSet = ".,!?;:\"'()-"

var (
	globalDBPath   string
	globalLogLevel string
	globalUserID   int64
)

// app carries what every subcommand needs after config and env are resolved.
type app struct {
	file   config.FileConfig
	env    config.Env
	dbPath string
	userID int64
	log    *zap.Logger
}

var current *app

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "vocatype",
		Short:             "Typing trainer with spaced-repetition vocabulary review",
		SilenceUsage:      true,
		PersistentPreRunE: setupApp,
		RunE:              runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&globalDBPath, "db", "", "SQLite database path (default from $"+config.EnvDBPath+" or XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&globalUserID, "user-id", defaultUserID, "learner ID for vocabulary progress")
	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newDueCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newRemindCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())

	return rootCmd
}

// setupApp resolves settings with precedence flag > environment > config file > default.
func setupApp(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	level := env.LogLevel
	if os.Getenv(config.EnvLogLevel) == "" && fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	if cmd.Flags().Changed("log-level") {
		level = globalLogLevel
	}

	dbPath := env.DBPath
	if cmd.Flags().Changed("db") {
		dbPath = globalDBPath
	}

	userID := globalUserID
	if !cmd.Flags().Changed("user-id") && fileCfg.Review.UserID != nil {
		userID = *fileCfg.Review.UserID
	}
	if userID <= 0 {
		return fmt.Errorf("--user-id must be > 0")
	}

	log := logger.New(level, os.Stderr)
	current = &app{file: fileCfg, env: env, dbPath: dbPath, userID: userID, log: log}
	cmd.SetContext(logger.NewContext(cmd.Context(), log))
	return nil
}

func (a *app) openStore() (*store.Store, func(), error) {
	st, err := store.Open(a.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			a.log.Error("failed to close db", zap.Error(cerr))
		}
		_ = a.log.Sync()
	}
	return st, closeFn, nil
}

func (a *app) reviewService(st *store.Store) *review.Service {
	return review.NewService(st, nil)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
