package main

import (
	"github.com/kubev2v/rack-planner/internal/config"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "rack-planner",
	Short: "rack-planner keeps the inventory of racks, devices, ports and cables.",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(newImportCablesCmd())
	rootCmd.AddCommand(newExportCablesCmd())
}

// setup loads the configuration and replaces the global zap logger.
// The returned func flushes and restores the logger.
func setup() (*config.Config, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger := log.InitLog(logLvl)
	undo := zap.ReplaceGlobals(logger)

	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	zap.S().Info("Initializing data store")
	db, err := store.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	s := store.NewStore(db)
	if err := s.InitialMigration(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
