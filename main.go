package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tolonipescarias/portal/internal/config"
	"github.com/tolonipescarias/portal/internal/handler"
	"github.com/tolonipescarias/portal/internal/remote"
	"github.com/tolonipescarias/portal/internal/repository/sqlite"
	"github.com/tolonipescarias/portal/internal/service"
	"github.com/tolonipescarias/portal/internal/validation"
)

func main() {
	cfg := config.MustLoad()

	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	slog.SetDefault(logger)
	logger.Info("starting portal", "env", string(cfg.Env), "remote_api", cfg.RemoteAPI.BaseURL)

	db, err := sqlite.New(cfg.Sessions.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	api := remote.New(cfg.RemoteAPI.BaseURL, cfg.RemoteAPI.Timeout)
	policy := cfg.AuthPolicy()

	registry := service.NewSessionRegistry(api, policy, db.Sessions(), logger)
	cookies := service.NewCookieTokenMaker(cfg.Auth.JWTSecret, cfg.Sessions.CookieTTL)
	limiter := service.NewAttemptLimiter(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	validate := validation.New()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, registry, cookies, limiter, validate, api, cfg.HTTPServer.CookieSecure)

	srv := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: cfg.HTTPServer.ReadTimeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	revalidator := service.NewSessionRevalidator(registry, cfg.Sessions.RevalidateInterval, logger)
	go revalidator.Run(ctx)

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
