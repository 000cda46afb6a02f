package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/catalog/internal/cache"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/migrations"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/nats"
)

// NewStore opens the store selected by the database driver. The returned func releases it.
func NewStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return store.NewInMemoryStore(), func() {}, nil
	}

	if cfg.Migrate {
		if err := bootstrap.Migrate(migrations.FS, cfg.URL, logger); err != nil {
			return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	logger.Info("Successfully connected to the database!")
	return store.NewPgStore(dbPool), dbPool.Close, nil
}

// NewPublisher connects to NATS JetStream and provisions the catalog stream.
// A disabled configuration yields a publisher that drops every event.
func NewPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		logger.Info("NATS disabled, catalog events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := nats.NewClient(cfg.Url, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := nats.NewJetStreamContext(nc)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	if _, err := nats.EnsureStream(ctx, js, cfg.Stream, messaging.ProductSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS JetStream", slog.String("stream", cfg.Stream))

	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.Any("error", err))
		}
	}
	return nats.NewNatsPublisher(js), closeFn, nil
}

// NewCache connects to Redis when caching is enabled. A nil client means no caching.
func NewCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Client, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to Redis", slog.String("addr", cfg.Addr), slog.Duration("ttl", cfg.TTL))
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close Redis client", slog.Any("error", err))
		}
	}
	return client, closeFn, nil
}
