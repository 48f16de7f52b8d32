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
	"time"

	"github.com/ledgerguard/riskscan/internal/application/usecase"
	"github.com/ledgerguard/riskscan/internal/domain/port"
	"github.com/ledgerguard/riskscan/internal/domain/service"
	"github.com/ledgerguard/riskscan/internal/infrastructure/config"
	"github.com/ledgerguard/riskscan/internal/infrastructure/manifest"
	"github.com/ledgerguard/riskscan/internal/infrastructure/metrics"
	"github.com/ledgerguard/riskscan/internal/infrastructure/xrpl"
	grpcpresentation "github.com/ledgerguard/riskscan/internal/presentation/grpc"
	"github.com/ledgerguard/riskscan/internal/presentation/rest"
	"github.com/ledgerguard/riskscan/pkg/observability"
	"github.com/ledgerguard/riskscan/pkg/tlsutil"
)

const serviceName = "riskscand"

func main() {
	if err := run(); err != nil {
		slog.Error("riskscand exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting riskscand",
		slog.Int("http_port", cfg.HTTPPort),
		slog.Int("grpc_port", cfg.GRPCPort),
		slog.String("ledger_node", cfg.Ledger.NodeURL),
	)

	tracerProvider, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:  cfg.Telemetry.ServiceName,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Insecure:     cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", slog.String("error", err.Error()))
	} else {
		defer shutdownWithTimeout(logger, "tracer", tracerProvider.Shutdown)
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer shutdownWithTimeout(logger, "meter", meterProvider.Shutdown)

	recorder, err := metrics.NewRecorder(meterProvider)
	if err != nil {
		return err
	}

	// Known-account registry: PostgreSQL when configured, else built in.
	known, readiness, closeRegistry, err := openRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRegistry()
	logTrustedAccounts(ctx, known, logger)

	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	gateway, err := xrpl.NewGateway(xrpl.Config{
		NodeURL:        cfg.Ledger.NodeURL,
		PageLimit:      cfg.Ledger.PageLimit,
		MaxPages:       cfg.Ledger.MaxPages,
		RequestTimeout: cfg.Ledger.RequestTimeout,
	}, recorder, logger)
	if err != nil {
		return fmt.Errorf("failed to create ledger gateway: %w", err)
	}

	prober := manifest.NewProber(cfg.Manifest.Timeout, logger)
	aggregator := service.NewConcentrationAggregator(logger)

	runScan := usecase.NewRunScan(usecase.RunScanDeps{
		Ledger:        gateway,
		Prober:        prober,
		KnownAccounts: known,
		Publisher:     publisher,
		Recorder:      recorder,
		Clock:         port.SystemClock{},
		Aggregator:    aggregator,
		Scorer:        service.NewScorer(),
		Logger:        logger,
	})
	tokenMetrics := usecase.NewTokenMetrics(gateway, aggregator, logger)

	tlsCfg, err := tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	if err != nil {
		return err
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskScanHandler(runScan, tokenMetrics, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), grpcpresentation.ServerOptions{
		TLS:        tlsCfg,
		Reflection: cfg.GRPC.Reflection,
	}, logger)

	// HTTP server.
	limiter := rest.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go sweepLimiter(ctx, limiter)

	router := rest.NewRouter(
		rest.NewHandler(runScan, tokenMetrics, logger),
		rest.RouterConfig{
			Health:         rest.NewHealthHandler(serviceName, readiness),
			MetricsHandler: metricsHandler,
			Limiter:        limiter,
		},
		logger,
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		TLSConfig:         tlsCfg,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Issuer scans page through every trust line.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()), slog.Bool("tls", tlsCfg != nil))
		var err error
		if tlsCfg != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("riskscand started",
		slog.String("grpc_address", cfg.GRPCAddress()),
		slog.String("http_address", cfg.HTTPAddress()),
		slog.String("environment", cfg.Environment),
	)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", slog.String("error", serveErr.Error()))
	}

	logger.Info("shutting down riskscand")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}
	grpcServer.Stop()

	logger.Info("riskscand stopped")
	return serveErr
}

func sweepLimiter(ctx context.Context, limiter *rest.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep(10 * time.Minute)
		}
	}
}

func shutdownWithTimeout(logger *slog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Warn("shutdown failed", slog.String("component", name), slog.String("error", err.Error()))
	}
}
