package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/attendance-platform/internal/api"
	"github.com/dom/attendance-platform/internal/config"
	"github.com/dom/attendance-platform/internal/discovery"
	"github.com/dom/attendance-platform/internal/repository/postgres"
	"github.com/dom/attendance-platform/internal/scheduler"
	"github.com/dom/attendance-platform/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	skipMigrate bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if !skipMigrate {
				if err := postgres.Migrate(a.db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			services, err := service.NewServices(a.repos, a.cfg, a.log)
			if err != nil {
				return err
			}
			if a.cfg.IdentityResolver == config.IdentityResolverPlaceholder {
				a.log.Warn("placeholder identity resolver active, every caller maps to one organization",
					zap.String("entityId", a.cfg.PlaceholderEntityID))
			}

			cron := scheduler.New(a.log)
			if _, err := cron.AddJob("purge-refresh-tokens", a.cfg.TokenPurgeSchedule, services.Purger.Run); err != nil {
				return fmt.Errorf("schedule token purge: %w", err)
			}
			cron.Start()
			defer cron.Shutdown()

			status := discovery.NewSelfStatus(a.cfg.ServiceName, a.cfg.Environment)
			router := api.NewRouter(services, status, a.cfg, a.log)

			srv := &http.Server{
				Addr:         "0.0.0.0:" + a.cfg.Port,
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			return runServer(cmd.Context(), srv, a.log)
		},
	}
)

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on startup")
}

// runServer serves until SIGINT or SIGTERM, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
