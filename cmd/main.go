package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/agora/internal/config"
	"github.com/UnknownOlympus/agora/internal/geocoding"
	"github.com/UnknownOlympus/agora/internal/lcsd"
	"github.com/UnknownOlympus/agora/internal/metrics"
	"github.com/UnknownOlympus/agora/internal/repository"
	"github.com/UnknownOlympus/agora/internal/selection"
	"github.com/UnknownOlympus/agora/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

func main() {
	os.Exit(run())
}

// run wires the importer and returns the process exit code.
func run() int {
	// Cancelled on SIGINT/SIGTERM for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb, logger)
	if err = repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare schema: %v", err)
	}

	source := lcsd.AutoSource{
		Remote: lcsd.NewHTTPSource(cfg.HTTP.Timeout, cfg.HTTP.Retries, logger),
		Local:  lcsd.FileSource{},
	}
	feeds := lcsd.NewClient(source, cfg.EventsURL, cfg.VenuesURL, logger, appMetrics)

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Type),
		APIKey:    cfg.Geocoder.APIKey,
		RateLimit: cfg.Geocoder.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Type)

	importer := service.NewImportService(
		logger,
		feeds,
		repo,
		geoProvider,
		cfg.Geocoder.Type, // Provider name for metrics
		appMetrics,
		selection.Options{
			MinEvents: cfg.MinEvents,
			TopCount:  cfg.TopCount,
			OverFetch: cfg.OverFetch,
			Backfill:  cfg.Backfill,
		},
		cfg.Geocoder.Workers,
		cfg.Interval,
		cfg.Geocoder.Prefix,
	)

	if cfg.Interval <= 0 {
		return runOnce(ctx, logger, importer)
	}

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "interval", cfg.Interval)

	go startMonitoringServer(ctx, logger, reg, dtb, cfg.Port)
	go importer.Run(ctx)

	<-ctx.Done()
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	logger.InfoContext(ctx, "Application stopped gracefully.")

	return 0
}

// runOnce performs a single import. An empty selection is reported but is not
// a failure: the stored catalog simply stays as it was.
func runOnce(ctx context.Context, logger *slog.Logger, importer *service.ImportService) int {
	report, err := importer.RunOnce(ctx)
	switch {
	case errors.Is(err, service.ErrNoVenuesSelected):
		logger.WarnContext(ctx, "Import finished without venues", "eligible", report.Selection.Eligible)
		return 0
	case err != nil:
		logger.ErrorContext(ctx, "Import failed", "error", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Imported %d venues and %d events (%d events skipped)\n",
		report.Venues, report.Events, report.Skipped)

	return 0
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := dtb.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
