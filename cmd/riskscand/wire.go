package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/port"
	"github.com/ledgerguard/riskscan/internal/infrastructure/config"
	"github.com/ledgerguard/riskscan/internal/infrastructure/kafka"
	"github.com/ledgerguard/riskscan/internal/infrastructure/memory"
	"github.com/ledgerguard/riskscan/internal/infrastructure/messaging"
	"github.com/ledgerguard/riskscan/internal/infrastructure/postgres"
	"github.com/ledgerguard/riskscan/internal/presentation/rest"
	pkgkafka "github.com/ledgerguard/riskscan/pkg/kafka"
	pgutil "github.com/ledgerguard/riskscan/pkg/postgres"
)

// registry is a known-account store that can also enumerate entries.
type registry interface {
	port.KnownAccountRepository
	List(ctx context.Context, status model.KnownAccountStatus) ([]model.KnownAccount, error)
}

func openRegistry(ctx context.Context, cfg config.Config, logger *slog.Logger) (registry, map[string]rest.ReadinessCheck, func(), error) {
	if cfg.DB.URL == "" {
		logger.Info("DATABASE_URL not set, using built-in known-account registry")
		return memory.NewDefaultRegistry(), nil, func() {}, nil
	}

	version, err := pgutil.MigrateUp(cfg.DB.URL, cfg.DB.MigrationsDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database migrated", slog.Uint64("version", uint64(version)))

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgutil.NewPool(dbCtx, pgutil.Config{
		URL:      cfg.DB.URL,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database")

	checks := map[string]rest.ReadinessCheck{
		"database": func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) },
	}
	return postgres.NewKnownAccountRepository(pool), checks, pool.Close, nil
}

func logTrustedAccounts(ctx context.Context, r registry, logger *slog.Logger) {
	trusted, err := r.List(ctx, model.KnownAccountTrusted)
	if err != nil {
		logger.Warn("failed to list trusted accounts", slog.String("error", err.Error()))
		return
	}
	logger.Info("known-account registry loaded", slog.Int("trusted", len(trusted)))
}

func openPublisher(cfg config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, scan events are logged only")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled(),
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info("publishing scan events to kafka",
		slog.Any("brokers", cfg.Kafka.Brokers),
		slog.String("topic", cfg.Kafka.Topic),
	)

	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Warn("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}
	return kafka.NewPublisher(producer, cfg.Kafka.Topic, logger), closeFn, nil
}
