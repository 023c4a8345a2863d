package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agenthands/homefeed/internal/app"
	"github.com/agenthands/homefeed/internal/logging"
	"github.com/agenthands/homefeed/internal/metrics"
	"github.com/agenthands/homefeed/internal/server"
	"github.com/agenthands/homefeed/internal/tracing"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("No .env file found, using defaults")
	}

	cfg, err := app.Bootstrap()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	if cfg.Log.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		logging.Error().Err(err).Msg("failed to initialize tracing")
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics()
	if err := m.Register(reg); err != nil {
		logging.Error().Err(err).Msg("failed to register metrics")
		os.Exit(1)
	}

	a, err := app.Open(ctx, cfg, m)
	if err != nil {
		logging.Error().Err(err).Msg("failed to connect to stores")
		os.Exit(1)
	}

	srv := server.NewServer(a, a.HealthChecks(), reg)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.SetupRouter(),
	}

	go func() {
		logging.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("http shutdown")
	}
	if err := a.Close(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("closing stores")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("tracing shutdown")
	}
}
