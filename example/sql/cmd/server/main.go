// Command server runs a demo app that continuously exercises a tracked
// Postgres connection so the produced spans and metrics can be watched
// in Jaeger/Tempo and Prometheus.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/halcyon-labs/sqltrack/example/sql/internal/config"
	"github.com/halcyon-labs/sqltrack/example/sql/internal/database"
	"github.com/halcyon-labs/sqltrack/example/sql/internal/telemetry"
	tracksql "github.com/halcyon-labs/sqltrack/sql"
)

func main() {
	ctx := context.Background()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	shutdownTracing, shutdownMetrics, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup telemetry")
	}
	defer func() {
		_ = shutdownTracing(ctx)
		_ = shutdownMetrics(ctx)
	}()

	if err := tracksql.RegisterAllViews(); err != nil {
		logger.Fatal().Err(err).Msg("failed to register views")
	}

	metricsServer := &http.Server{Addr: config.MetricsPort}
	go func() {
		logger.Info().Str("addr", config.MetricsPort).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("metrics server failed")
		}
	}()

	db, err := database.New(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.CreateTable(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to create table")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	tracer := otel.Tracer(config.ServiceName)

	ticker := time.NewTicker(config.OperationIntervalSeconds * time.Second)
	defer ticker.Stop()

	logger.Info().
		Str("metrics", "http://localhost"+config.MetricsPort+"/metrics").
		Msg("example app started, press Ctrl+C to stop")

	for {
		select {
		case <-ticker.C:
			opCtx, span := tracer.Start(ctx, "db-operations")

			if err := db.InsertUsers(opCtx); err != nil {
				logger.Error().Err(err).Msg("failed to insert users")
			}
			if names, err := db.QueryUsers(opCtx); err != nil {
				logger.Error().Err(err).Msg("failed to query users")
			} else {
				logger.Debug().Strs("names", names).Msg("queried users")
			}
			if count, err := db.CountUsers(opCtx); err != nil {
				logger.Error().Err(err).Msg("failed to count users")
			} else {
				logger.Info().Int("count", count).Msg("users in table")
			}
			if err := db.InsertWithTransaction(opCtx); err != nil {
				logger.Error().Err(err).Msg("transaction failed")
			}
			// Expected miss, demonstrates ERROR-status recordings.
			_ = db.QueryMissingUser(opCtx)

			span.End()

		case <-sigChan:
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("metrics server shutdown error")
			}
			return
		}
	}
}
