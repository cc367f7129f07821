package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/attendance-platform/internal/config"
	"github.com/dom/attendance-platform/internal/discovery"
	"github.com/dom/attendance-platform/internal/gateway"
	"github.com/dom/attendance-platform/internal/logging"
	"github.com/dom/attendance-platform/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:          "gateway",
		Short:        "Attendance platform API gateway",
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadGateway()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()
	log = log.With(zap.String("service", cfg.ServiceName))

	prober := discovery.NewUpstreamProber(cfg.ServiceName, cfg.Routes, cfg.ProbeTimeout, log)
	cron := scheduler.New(log)
	if _, err := cron.AddJob("probe-upstreams", cfg.ProbeSchedule, prober.Probe); err != nil {
		return fmt.Errorf("schedule upstream probe: %w", err)
	}
	cron.Start()
	defer cron.Shutdown()

	// Fill the first snapshot without waiting for the schedule
	go func() {
		if err := prober.Probe(cmd.Context()); err != nil {
			log.Warn("initial upstream probe", zap.Error(err))
		}
	}()

	handler, err := gateway.NewHandler(cfg, prober, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("gateway starting", zap.String("addr", srv.Addr), zap.Int("routes", len(cfg.Routes)))
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
			return fmt.Errorf("start gateway: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down gateway")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("gateway forced to shutdown: %w", err)
	}

	log.Info("gateway stopped")
	return nil
}
