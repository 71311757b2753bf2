package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"countryquiz/internal/domain/entity"
	"countryquiz/internal/observability/metrics"
	"countryquiz/internal/observability/tracing"
	"countryquiz/internal/usecase/fetch"
	"countryquiz/internal/usecase/observe"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is an immutable snapshot of the catalog.
type State struct {
	// Countries holds the loaded countries in server order. It is empty while
	// a load is in flight and after a failed load.
	Countries []entity.Country

	IsLoading bool

	// LastError is the error of the most recent load, nil once a load starts
	// or succeeds.
	LastError error

	Criterion entity.SortCriterion
	Ascending bool

	// LoadedAt is when Countries was last replaced. Zero until the first
	// successful load.
	LoadedAt time.Time

	// Generation increases with every load that reaches the fetcher.
	Generation uint64
}

// Ready reports whether countries are available for display.
func (s State) Ready() bool {
	return !s.IsLoading && len(s.Countries) > 0
}

// Catalog is the country list view-model.
// All methods are safe for concurrent use. Subscribers are called after the
// internal lock is released and see snapshots in the order the changes were
// made; a change made from inside a callback is delivered after the current
// snapshot has reached every subscriber.
type Catalog struct {
	fetcher fetch.CountryFetcher
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time

	mu    sync.RWMutex
	state State

	pub observe.Publisher[State]
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// WithClock replaces time.Now for LoadedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithTracerProvider sets the provider used for load spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Catalog) { c.tracer = tracing.Tracer(tp) }
}

// New creates an empty catalog sorted by common name, ascending.
func New(fetcher fetch.CountryFetcher, opts ...Option) *Catalog {
	c := &Catalog{
		fetcher: fetcher,
		logger:  slog.Default(),
		tracer:  tracing.Tracer(nil),
		now:     time.Now,
		state: State{
			Criterion: entity.SortByCommonName,
			Ascending: true,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fills the catalog from the fetcher.
//
// When countries are already loaded and force is false, Load returns nil
// without touching the network. Otherwise it clears the list, marks the
// catalog as loading, publishes that intermediate state and fetches. On
// failure the list stays empty and the error is kept in LastError as well as
// returned.
//
// If another Load starts before this one finishes, only the newer one may
// apply its result; this call then returns ErrSuperseded.
func (c *Catalog) Load(ctx context.Context, force bool) error {
	c.mu.Lock()
	if len(c.state.Countries) > 0 && !force {
		c.mu.Unlock()
		metrics.RecordCatalogLoad(metrics.LoadCacheHit, 0)
		return nil
	}

	c.state.Generation++
	gen := c.state.Generation
	c.state.IsLoading = true
	c.state.LastError = nil
	c.state.Countries = nil
	loading := c.snapshotLocked()
	c.pub.Enqueue(loading)
	c.mu.Unlock()

	c.pub.Flush()

	ctx, span := c.tracer.Start(ctx, "catalog.load", trace.WithAttributes(
		attribute.Int64("catalog.generation", int64(gen)),
		attribute.Bool("catalog.force", force),
	))
	defer span.End()

	countries, err := c.fetcher.Fetch(ctx)

	c.mu.Lock()
	if gen != c.state.Generation {
		c.mu.Unlock()
		metrics.RecordCatalogLoad(metrics.LoadSuperseded, 0)
		span.SetStatus(codes.Error, "superseded")
		c.logger.Debug("discarding superseded catalog load",
			slog.Uint64("generation", gen))
		return ErrSuperseded
	}

	c.state.IsLoading = false
	if err != nil {
		c.state.LastError = err
		failed := c.snapshotLocked()
		c.pub.Enqueue(failed)
		c.mu.Unlock()

		c.pub.Flush()
		metrics.RecordCatalogLoad(metrics.LoadFailed, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		c.logger.Error("catalog load failed",
			slog.Uint64("generation", gen),
			slog.Any("error", err))
		return fmt.Errorf("load catalog: %w", err)
	}

	c.state.Countries = countries
	c.state.LoadedAt = c.now()
	loaded := c.snapshotLocked()
	c.pub.Enqueue(loaded)
	c.mu.Unlock()

	c.pub.Flush()
	metrics.RecordCatalogLoad(metrics.LoadLoaded, len(countries))
	span.SetAttributes(attribute.Int("catalog.countries", len(countries)))
	c.logger.Info("catalog loaded",
		slog.Int("countries", len(countries)),
		slog.Uint64("generation", gen))
	return nil
}

// Sorted returns a new slice of the loaded countries ordered by the current
// criterion and direction. Countries with equal keys keep their server order.
func (c *Catalog) Sorted() []entity.Country {
	c.mu.RLock()
	countries := slices.Clone(c.state.Countries)
	criterion, ascending := c.state.Criterion, c.state.Ascending
	c.mu.RUnlock()

	slices.SortStableFunc(countries, func(a, b entity.Country) int {
		if ascending {
			return criterion.Compare(a, b)
		}
		return criterion.Compare(b, a)
	})
	return countries
}

// ToggleSortDirection flips between ascending and descending order.
func (c *Catalog) ToggleSortDirection() {
	c.mu.Lock()
	c.state.Ascending = !c.state.Ascending
	snap := c.snapshotLocked()
	c.pub.Enqueue(snap)
	c.mu.Unlock()

	metrics.RecordSortChange(snap.Criterion.String())
	c.pub.Flush()
}

// SetSortCriterion changes the sort key. Unknown criteria are rejected with
// entity.ErrInvalidSortCriterion and leave the state unchanged.
func (c *Catalog) SetSortCriterion(criterion entity.SortCriterion) error {
	if !criterion.Valid() {
		return fmt.Errorf("%w: %d", entity.ErrInvalidSortCriterion, int(criterion))
	}

	c.mu.Lock()
	c.state.Criterion = criterion
	snap := c.snapshotLocked()
	c.pub.Enqueue(snap)
	c.mu.Unlock()

	metrics.RecordSortChange(criterion.String())
	c.pub.Flush()
	return nil
}

// Snapshot returns the current state. The Countries slice is a copy.
func (c *Catalog) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Catalog) snapshotLocked() State {
	s := c.state
	s.Countries = slices.Clone(c.state.Countries)
	return s
}

// Subscribe registers fn to receive a snapshot after every change.
// The returned function removes the subscription.
func (c *Catalog) Subscribe(fn func(State)) (cancel func()) {
	return c.pub.Subscribe(fn)
}

// Find returns the loaded country whose common name matches name,
// ignoring case and surrounding spaces.
func (c *Catalog) Find(name string) (entity.Country, bool) {
	name = strings.TrimSpace(name)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, country := range c.state.Countries {
		if strings.EqualFold(country.Names.Common, name) {
			return country, true
		}
	}
	return entity.Country{}, false
}

// Fetch loads the catalog if needed and returns a copy of its countries.
// It lets a quiz engine reuse the catalog's data instead of issuing its own
// request.
func (c *Catalog) Fetch(ctx context.Context) ([]entity.Country, error) {
	if err := c.Load(ctx, false); err != nil {
		return nil, err
	}
	return c.Snapshot().Countries, nil
}

var _ fetch.CountryFetcher = (*Catalog)(nil)
