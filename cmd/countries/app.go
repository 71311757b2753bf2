package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"countryquiz/internal/config"
	"countryquiz/internal/infra/fetcher"
	"countryquiz/internal/observability/logging"
	"countryquiz/internal/resilience/retry"
	"countryquiz/internal/usecase/catalog"
)

// app holds the components shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher *fetcher.RESTCountriesFetcher
	catalog *catalog.Catalog
}

func newApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn("configuration fallback applied", slog.String("warning", warning))
	}

	f := fetcher.NewRESTCountriesFetcher(cfg.Fetcher(),
		fetcher.WithLogger(logging.WithComponent(logger, "fetcher")))

	return &app{
		cfg:     cfg,
		logger:  logger,
		fetcher: f,
		catalog: catalog.New(f, catalog.WithLogger(logging.WithComponent(logger, "catalog"))),
	}, nil
}

// loadCatalog performs the first catalog load, retrying transient fetch
// failures up to LOAD_ATTEMPTS calls in total.
func (a *app) loadCatalog(ctx context.Context) error {
	return retry.Do(ctx, a.logger, retry.CatalogLoadPolicy(a.cfg.LoadAttempts), func(ctx context.Context) error {
		return a.catalog.Load(ctx, false)
	})
}
