package main

import (
	"fmt"
	"os"

	"github.com/dom/attendance-platform/internal/config"
	"github.com/dom/attendance-platform/internal/logging"
	"github.com/dom/attendance-platform/internal/repository"
	"github.com/dom/attendance-platform/internal/repository/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var rootCmd = &cobra.Command{
	Use:          "server",
	Short:        "Attendance platform core service",
	Long:         "Serves organization management, admin authentication and face detection result intake.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(
		serveCmd,
		migrateCmd,
		purgeTokensCmd,
		createSuperAdminCmd,
	)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every subcommand needs.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	repos *repository.Repositories
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("service", cfg.ServiceName))

	gormLevel := logger.Warn
	if cfg.IsDevelopment() {
		gormLevel = logger.Info
	}
	db, err := postgres.NewConnection(cfg.DatabaseURL, gormLevel)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		repos: postgres.NewRepositories(db),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	a.log.Sync()
}
