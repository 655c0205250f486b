package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rmitchellscott/wxcraft"
	"github.com/rmitchellscott/wxcraft/internal/config"
	"github.com/rmitchellscott/wxcraft/internal/fetch"
	"github.com/rmitchellscott/wxcraft/internal/observability"
	"github.com/rmitchellscott/wxcraft/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	wxcraft.SetLogger(logger.Named("decoder"))

	client := fetch.New(cfg.AVWXBaseURL, cfg.FetchTimeout, logger.Named("fetch"))
	handler := server.NewHandler(client, logger)
	router := server.NewRouter(handler, server.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("upstream", cfg.AVWXBaseURL),
			zap.Int("rate_limit_rps", cfg.RateLimitRPS))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("shutdown complete")
	if err := observability.FlushTelemetry(logger); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry flush: %v\n", err)
	}
}
