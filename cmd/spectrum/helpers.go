package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/config"
	"github.com/Veraticus/shopper-spectrum/internal/ingest"
	"github.com/Veraticus/shopper-spectrum/internal/metrics"
	"github.com/Veraticus/shopper-spectrum/internal/service"
	"github.com/Veraticus/shopper-spectrum/internal/storage"
	"github.com/spf13/viper"
)

// loadConfig reads the validated configuration from viper.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the database and runs migrations.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

type loadOptions struct {
	saveSnapshot bool
}

// loadCore builds the analytics core from --data when given, otherwise from
// the database.
func loadCore(ctx context.Context, cfg *config.Config, lo loadOptions) (*analytics.Core, error) {
	start := time.Now()

	var (
		core *analytics.Core
		err  error
	)
	if cfg.DataPath != "" {
		core, err = loadCoreFromFile(ctx, cfg)
	} else {
		core, err = loadCoreFromStorage(ctx, cfg, lo)
	}
	if err != nil {
		return nil, err
	}

	summary := core.Summary()
	sizes := make([]int, summary.Clusters)
	for _, p := range core.Profiles() {
		sizes[p.Cluster] = p.Customers
	}
	metrics.RecordFit(summary.Customers, summary.Items, sizes, time.Since(start))

	slog.Debug("Model ready",
		"customers", summary.Customers,
		"items", summary.Items,
		"clusters", summary.Clusters,
		"duration", time.Since(start))

	return core, nil
}

func loadCoreFromFile(ctx context.Context, cfg *config.Config) (*analytics.Core, error) {
	opts, err := cfg.IngestOptions()
	if err != nil {
		return nil, err
	}

	transactions, stats, err := ingest.ReadFile(ctx, cfg.DataPath, opts)
	if err != nil {
		return nil, err
	}
	slog.Info("Read transaction log",
		"path", cfg.DataPath,
		"rows", stats.Rows,
		"kept", stats.Kept,
		"dropped", stats.Dropped())

	return analytics.Build(ctx, transactions, cfg.Analytics)
}

func loadCoreFromStorage(ctx context.Context, cfg *config.Config, lo loadOptions) (*analytics.Core, error) {
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	return service.LoadCore(ctx, store, cfg.Analytics, cfg.UseSnapshot, lo.saveSnapshot)
}
