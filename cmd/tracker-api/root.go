package main

import (
	"context"
	"fmt"

	"github.com/forecast-ops/job-tracker/internal/config"
	"github.com/forecast-ops/job-tracker/internal/store"
	"github.com/forecast-ops/job-tracker/pkg/log"
	"github.com/forecast-ops/job-tracker/pkg/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "tracker-api",
	Short:        "Forecast job tracker API",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

// setup reads the configuration and replaces the global zap logger. The
// returned func restores the previous logger and flushes the new one.
func setup() (*config.Config, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("reading configuration: %w", err)
	}

	logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel), cfg.Service.LogFormat)
	undo := zap.ReplaceGlobals(logger)

	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}

// openStore connects to the database and brings its schema up to date.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	zap.S().Info("Initializing data store")
	db, err := store.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing data store: %w", err)
	}

	s := store.NewStore(db)

	switch cfg.Database.Type {
	case config.DatabaseTypeSqlite:
		err = s.InitialMigration(ctx)
	default:
		err = migrations.MigrateStore(db, cfg.Service.MigrationFolder)
	}
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}
