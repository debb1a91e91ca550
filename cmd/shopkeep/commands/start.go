package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/internal/telemetry"
	"github.com/marmos91/shopkeep/pkg/api"
	"github.com/marmos91/shopkeep/pkg/api/handlers"
	"github.com/marmos91/shopkeep/pkg/config"
	"github.com/marmos91/shopkeep/pkg/reconcile"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/shopkeep/pkg/metrics/prometheus"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the shopkeep API server",
	Long: `Start the shopkeep API server in the foreground.

The server exposes the health probes, the admin cleanup endpoint and the
product API. Run it under a process supervisor (systemd, Kubernetes, ...).

Examples:
  # Start with the default config file
  shopkeep start

  # Start with custom config file
  shopkeep start --config /etc/shopkeep/config.yaml

  # Start with environment variable overrides
  SHOPKEEP_LOGGING_LEVEL=DEBUG shopkeep start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:    cfg.Telemetry.Enabled,
		Version:    Version,
		Endpoint:   cfg.Telemetry.Endpoint,
		Insecure:   cfg.Telemetry.Insecure,
		SampleRate: cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		// ctx is cancelled by then; flush on a fresh deadline.
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := telemetryShutdown(flushCtx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:      cfg.Telemetry.Profiling.Enabled,
		Version:      Version,
		Endpoint:     cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes: cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	metricsResult := config.InitializeMetrics(cfg)
	if metricsResult.Handler != nil {
		logger.Info("Metrics enabled", "path", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	catalog, err := config.CreateCatalogStore(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	uploadStore, err := config.CreateUploadsStore(ctx, cfg.Uploads)
	if err != nil {
		return err
	}
	defer func() { _ = uploadStore.Close() }()

	logger.Info("Stores ready",
		logger.Database(string(cfg.Database.Type)),
		logger.StoreType(uploadStore.Type()))

	apiServer, err := api.NewServer(cfg.API, api.Dependencies{
		Catalog:    catalog,
		Uploads:    uploadStore,
		Reconciler: reconcile.New(uploadStore, catalog, metricsResult.Reconcile),
		Connection: handlers.ConnectionInfo{
			Type: string(cfg.Database.Type),
			URL:  cfg.Database.MaskedDSN(),
		},
		HTTPMetrics:    metricsResult.HTTP,
		MetricsHandler: metricsResult.Handler,
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("Server is running. Press Ctrl+C to stop.", "port", apiServer.Port())

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		select {
		case err := <-serverDone:
			if err != nil {
				logger.Error("Server shutdown error", logger.Err(err))
				return err
			}
		case <-time.After(cfg.ShutdownTimeout):
			return fmt.Errorf("server did not stop within %s", cfg.ShutdownTimeout)
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		if err != nil {
			logger.Error("Server error", logger.Err(err))
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}
