package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/takeru-oka/repo-health/internal/cache"
	"github.com/takeru-oka/repo-health/internal/config"
	"github.com/takeru-oka/repo-health/internal/gateway"
	"github.com/takeru-oka/repo-health/internal/server"
	"github.com/takeru-oka/repo-health/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the dashboard HTTP server",
	Long: `Starts the dashboard HTTP server. Configuration is read from the
environment (APP_* variables) with optional .env overrides; see
internal/config for the full list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	cfg, err := config.NewLoader("APP").Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	store, err := newStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("cache store error: %w", err)
	}

	fetcher, err := gateway.NewGitHubGateway(cfg.GithubToken, store, cfg.HTTPClientTimeout, logger)
	if err != nil {
		return fmt.Errorf("github gateway error: %w", err)
	}

	analyzer := usecase.NewAnalyzer(fetcher, logger)
	handler, err := server.NewHandler(analyzer, cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("handler error: %w", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.NewRouter(handler),
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down", "grace", cfg.ShutdownGrace)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}
	return nil
}

func newStore(cfg config.Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.CacheBackend == "memory" {
		return cache.NewMemoryStore(cfg.CacheSize, cfg.CacheTTL)
	}
	return cache.NewFileStore(cfg.CacheDir, cfg.CacheTTL, logger)
}
