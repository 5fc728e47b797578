package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/sensorlog/sensorview/internal/comfort"
	"github.com/sensorlog/sensorview/internal/config"
	server "github.com/sensorlog/sensorview/internal/grpc"
	"github.com/sensorlog/sensorview/internal/resample"
	"github.com/sensorlog/sensorview/internal/service"
	"github.com/sensorlog/sensorview/internal/store"
)

// Command sensorview serves read-only queries over a snapshot of sensor
// readings.
//
// The service supports:
//   - Listing devices, their parameters and their temperature/humidity sensors
//   - Date-filtered parameter tables, raw or resampled (1h, 3h, 1d, 1d-minmax)
//   - Effective temperature and feeling classification per sensor
//   - CSV export of parameter tables
//   - Prometheus metrics and gRPC health checks
//
// Usage:
//
//	sensorview [flags]
//
// The flags are:
//
//	-config string
//	      path to config file (default "config.yaml")
//	-port int
//	      gRPC server port, overrides server.port
func main() {
	// Parse command line flags
	flags := parseFlags()

	// Load configuration
	appConfig, err := loadConfig(flags.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if flags.Port > 0 {
		appConfig.Server.Port = flags.Port
	}

	// Initialize structured logger
	logger, err := appConfig.Logging.NewLogger()
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	closed, err := resample.ParseClosed(appConfig.Resample.Closed)
	if err != nil {
		logger.Fatalf("Invalid resample configuration: %v", err)
	}
	deriver, err := comfort.NewDeriver(appConfig.Comfort.Locale)
	if err != nil {
		logger.Fatalf("Invalid comfort configuration: %v", err)
	}

	// Create a context that will be canceled on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, closeSource, err := createSource(appConfig)
	if err != nil {
		logger.Fatalf("Failed to create snapshot source: %v", err)
	}
	st, err := store.Load(ctx, src, logger)
	closeSource()
	if err != nil {
		logger.Fatalf("Failed to load snapshot: %v", err)
	}

	svc := service.NewService(st, logger,
		service.WithResampler(resample.New(closed)),
		service.WithDeriver(deriver),
	)

	// Create and setup gRPC server
	health := server.NewHealthChecker()
	serverConfig := server.ServerConfig{
		CacheSize:       appConfig.Limits.CacheSize,
		RateLimit:       appConfig.Limits.RateLimit,
		RateLimitBurst:  appConfig.Limits.RateLimitBurst,
		SnapshotRecords: st.Len(),
		Health:          health,
	}
	srv, err := server.SetupServerWithRegistry(svc, serverConfig, logger, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatalf("Failed to setup server: %v", err)
	}

	// Start listening
	addr := fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatalf("Failed to listen: %v", err)
	}

	errChan := make(chan error, 2)

	var metricsServer *http.Server
	if appConfig.Metrics.Enabled {
		metricsServer = newMetricsServer(appConfig.Server.Host, appConfig.Metrics.Port)
		go func() {
			logger.WithFields(logrus.Fields{
				"port": appConfig.Metrics.Port,
			}).Info("Starting metrics server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	// Handle shutdown gracefully
	go handleShutdown(ctx, srv, health, metricsServer, logger)

	// Start gRPC server
	logger.WithFields(logrus.Fields{
		"port":    appConfig.Server.Port,
		"records": st.Len(),
	}).Info("Starting gRPC server")

	go func() {
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
			return
		}
		errChan <- nil
	}()

	// Wait for the server to stop or fail
	if err := <-errChan; err != nil {
		logger.Fatalf("Service error: %v", err)
	}
	logger.Info("Server exited")
}

type Flags struct {
	ConfigPath string
	Port       int
}

func parseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to the configuration file")
	flag.IntVar(&flags.Port, "port", 0, "The gRPC server port (overrides server.port)")

	flag.Parse()

	return flags
}

// loadConfig reads the configuration file, falling back to defaults when the
// default path does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && path == "config.yaml" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// createSource returns the configured snapshot source and a function
// releasing its resources.
func createSource(cfg *config.Config) (store.Source, func(), error) {
	noop := func() {}
	switch cfg.Data.Source {
	case "http":
		return store.HTTPSource{URL: cfg.Data.URL, Timeout: cfg.Data.Timeout()}, noop, nil
	case "postgres":
		src, err := store.NewPostgresSource(cfg.Database.ConnectionString(), cfg.Database.Table)
		if err != nil {
			return nil, noop, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return store.FileSource{Path: cfg.Data.Path}, noop, nil
	}
}

func newMetricsServer(host string, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Handle graceful shutdown
func handleShutdown(
	ctx context.Context,
	srv *grpc.Server,
	health *server.HealthChecker,
	metricsServer *http.Server,
	logger *logrus.Logger,
) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Println("Context canceled, initiating shutdown")
	case sig := <-sigChan:
		logger.Printf("Received signal %v, initiating shutdown", sig)
	}

	health.Shutdown()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Metrics server shutdown failed")
		}
	}

	// Perform graceful shutdown
	logger.Println("Gracefully stopping server...")
	srv.GracefulStop()
	logger.Println("Server stopped")
}
