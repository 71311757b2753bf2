package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	handlerhttp "countryquiz/internal/handler/http"
	"countryquiz/internal/observability/logging"
	"countryquiz/internal/observability/metrics"
	"countryquiz/internal/usecase/catalog"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// version is reported by the status endpoints. It is set at build time with
// -ldflags "-X main.version=...".
var version = "dev"

// refreshTimeout bounds a scheduled refresh.
const refreshTimeout = 2 * time.Minute

func (a *app) serve(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	health := &handlerhttp.HealthHandler{
		Catalog: a.catalog,
		Breaker: a.fetcher.Breaker(),
		Version: version,
	}
	server := handlerhttp.NewServer(a.cfg.StatusAddr,
		handlerhttp.NewRouter(health, nil),
		logging.WithComponent(a.logger, "status"))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gctx)
	})

	g.Go(func() error {
		a.reportInitialLoad(a.loadCatalog(gctx))
		return nil
	})

	g.Go(func() error {
		return a.runRefresh(gctx)
	})

	return g.Wait()
}

// reportInitialLoad logs the outcome of the first load. A failed initial
// load leaves readiness at 503 until a scheduled refresh succeeds; a load
// superseded by such a refresh is not a failure.
func (a *app) reportInitialLoad(err error) {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, catalog.ErrSuperseded):
		a.logger.Debug("initial catalog load superseded by a scheduled refresh")
	default:
		a.logger.Error("initial catalog load failed", slog.Any("error", err))
	}
}

// runRefresh force-reloads the catalog on the configured schedule until ctx
// is done.
func (a *app) runRefresh(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(a.cfg.RefreshSchedule, func() {
		a.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling refresh: %w", err)
	}

	c.Start()
	a.logger.Info("catalog refresh scheduled", slog.String("schedule", a.cfg.RefreshSchedule))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (a *app) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	start := time.Now()
	err := a.catalog.Load(ctx, true)
	metrics.RecordRefresh(time.Since(start), err, time.Now())
	if err != nil {
		a.logger.Warn("scheduled catalog refresh failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return
	}
	a.logger.Info("catalog refreshed",
		slog.Int("countries", len(a.catalog.Snapshot().Countries)),
		slog.Duration("duration", time.Since(start)))
}
