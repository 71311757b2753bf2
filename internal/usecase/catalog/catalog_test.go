package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"countryquiz/internal/domain/entity"
	"countryquiz/internal/usecase/catalog"
	"countryquiz/internal/usecase/fetch"
	"countryquiz/tests/fixtures"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*──────────────────── stub fetcher ────────────────────*/

type stubFetcher struct {
	mu        sync.Mutex
	countries []entity.Country
	err       error
	calls     int
}

func (s *stubFetcher) Fetch(_ context.Context) ([]entity.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.countries, nil
}

func (s *stubFetcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func names(countries []entity.Country) []string {
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		out = append(out, c.Names.Common)
	}
	return out
}

func loadedCatalog(t *testing.T, countries ...entity.Country) *catalog.Catalog {
	t.Helper()
	c := catalog.New(&stubFetcher{countries: countries})
	require.NoError(t, c.Load(context.Background(), false))
	return c
}

/*──────────────────── tests ────────────────────*/

func TestNew_InitialState(t *testing.T) {
	c := catalog.New(&stubFetcher{})

	s := c.Snapshot()
	assert.Empty(t, s.Countries)
	assert.False(t, s.IsLoading)
	assert.NoError(t, s.LastError)
	assert.Equal(t, entity.SortByCommonName, s.Criterion)
	assert.True(t, s.Ascending)
	assert.True(t, s.LoadedAt.IsZero())
	assert.False(t, s.Ready())
}

func TestLoad_Success(t *testing.T) {
	loadedAt := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	countries := fixtures.NewTestCountries(3)
	c := catalog.New(&stubFetcher{countries: countries}, catalog.WithClock(func() time.Time { return loadedAt }))

	require.NoError(t, c.Load(context.Background(), false))

	s := c.Snapshot()
	assert.Equal(t, names(countries), names(s.Countries))
	assert.False(t, s.IsLoading)
	assert.NoError(t, s.LastError)
	assert.Equal(t, loadedAt, s.LoadedAt)
	assert.Equal(t, uint64(1), s.Generation)
	assert.True(t, s.Ready())
}

func TestLoad_CachedWithoutForce(t *testing.T) {
	stub := &stubFetcher{countries: fixtures.NewTestCountries(4)}
	c := catalog.New(stub)

	require.NoError(t, c.Load(context.Background(), false))
	require.NoError(t, c.Load(context.Background(), false))

	assert.Equal(t, 1, stub.Calls(), "second load must not reach the network")
}

func TestLoad_ForceRefetches(t *testing.T) {
	stub := &stubFetcher{countries: fixtures.NewTestCountries(4)}
	c := catalog.New(stub)

	require.NoError(t, c.Load(context.Background(), false))
	stub.countries = fixtures.NewTestCountries(2)
	require.NoError(t, c.Load(context.Background(), true))

	assert.Equal(t, 2, stub.Calls())
	assert.Len(t, c.Snapshot().Countries, 2)
	assert.Equal(t, uint64(2), c.Snapshot().Generation)
}

func TestLoad_EmptyResultIsRefetched(t *testing.T) {
	stub := &stubFetcher{countries: nil}
	c := catalog.New(stub)

	require.NoError(t, c.Load(context.Background(), false))
	require.NoError(t, c.Load(context.Background(), false))

	assert.Equal(t, 2, stub.Calls(), "an empty catalog is never considered cached")
}

func TestLoad_Failure(t *testing.T) {
	fetchErr := &fetch.TransportError{StatusCode: 503, Err: errors.New("Service Unavailable")}
	c := catalog.New(&stubFetcher{err: fetchErr})

	err := c.Load(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetch.ErrTransport))

	s := c.Snapshot()
	assert.Empty(t, s.Countries)
	assert.False(t, s.IsLoading)
	require.Error(t, s.LastError)
	assert.Same(t, fetchErr, s.LastError)
	assert.True(t, s.LoadedAt.IsZero())
}

func TestLoad_FailedRefreshClearsPreviousList(t *testing.T) {
	stub := &stubFetcher{countries: fixtures.NewTestCountries(3)}
	c := catalog.New(stub)
	require.NoError(t, c.Load(context.Background(), false))

	stub.err = &fetch.DecodingError{Index: 2, Err: errors.New("bad latlng")}
	require.Error(t, c.Load(context.Background(), true))

	s := c.Snapshot()
	assert.Empty(t, s.Countries)
	assert.True(t, errors.Is(s.LastError, fetch.ErrDecoding))
}

func TestLoad_SuccessClearsLastError(t *testing.T) {
	stub := &stubFetcher{err: errors.New("boom")}
	c := catalog.New(stub)
	require.Error(t, c.Load(context.Background(), false))

	stub.err = nil
	stub.countries = fixtures.NewTestCountries(1)
	require.NoError(t, c.Load(context.Background(), false))

	assert.NoError(t, c.Snapshot().LastError)
}

func TestLoad_PublishesLoadingThenLoaded(t *testing.T) {
	stub := &stubFetcher{countries: fixtures.NewTestCountries(2)}
	c := catalog.New(stub)
	require.NoError(t, c.Load(context.Background(), false))

	var states []catalog.State
	cancel := c.Subscribe(func(s catalog.State) { states = append(states, s) })
	defer cancel()

	require.NoError(t, c.Load(context.Background(), true))

	require.Len(t, states, 2)
	assert.True(t, states[0].IsLoading)
	assert.Empty(t, states[0].Countries, "observers see the cleared list while loading")
	assert.False(t, states[1].IsLoading)
	assert.Len(t, states[1].Countries, 2)
}

func TestLoad_CacheHitPublishesNothing(t *testing.T) {
	c := loadedCatalog(t, fixtures.NewTestCountries(2)...)

	published := 0
	c.Subscribe(func(catalog.State) { published++ })

	require.NoError(t, c.Load(context.Background(), false))
	assert.Zero(t, published)
}

// blockingFetcher parks each call until the test answers on the channel it
// announces through calls.
type blockingFetcher struct {
	calls chan chan []entity.Country
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{calls: make(chan chan []entity.Country)}
}

func (b *blockingFetcher) Fetch(ctx context.Context) ([]entity.Country, error) {
	result := make(chan []entity.Country)
	b.calls <- result
	select {
	case countries := <-result:
		return countries, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestLoad_SupersededLoadIsDiscarded(t *testing.T) {
	bf := newBlockingFetcher()
	c := catalog.New(bf)

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(context.Background(), true) }()
	first := <-bf.calls

	secondDone := make(chan error, 1)
	go func() { secondDone <- c.Load(context.Background(), true) }()
	second := <-bf.calls

	// The newer load finishes first.
	newer := fixtures.NewTestCountries(2)
	second <- newer
	require.NoError(t, <-secondDone)

	// The stale load then returns older data, which must be ignored.
	first <- fixtures.NewTestCountries(5)
	err := <-firstDone
	assert.True(t, errors.Is(err, catalog.ErrSuperseded))

	s := c.Snapshot()
	assert.Equal(t, names(newer), names(s.Countries))
	assert.False(t, s.IsLoading)
	assert.Equal(t, uint64(2), s.Generation)
}

func TestLoad_SupersededWhileNewerStillLoading(t *testing.T) {
	bf := newBlockingFetcher()
	c := catalog.New(bf)

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(context.Background(), true) }()
	first := <-bf.calls

	secondDone := make(chan error, 1)
	go func() { secondDone <- c.Load(context.Background(), true) }()
	second := <-bf.calls

	first <- fixtures.NewTestCountries(5)
	assert.True(t, errors.Is(<-firstDone, catalog.ErrSuperseded))
	assert.True(t, c.Snapshot().IsLoading, "the newer load is still in flight")
	assert.Empty(t, c.Snapshot().Countries)

	second <- fixtures.NewTestCountries(3)
	require.NoError(t, <-secondDone)
	assert.Len(t, c.Snapshot().Countries, 3)
}

func TestLoad_ContextCancelled(t *testing.T) {
	bf := newBlockingFetcher()
	c := catalog.New(bf)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Load(ctx, false) }()
	<-bf.calls
	cancel()

	err := <-done
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, c.Snapshot().IsLoading)
	assert.True(t, errors.Is(c.Snapshot().LastError, context.Canceled))
}

func TestSorted_DensityAscending(t *testing.T) {
	a := fixtures.NewTestCountry("A", fixtures.WithPopulation(100), fixtures.WithArea(10))
	b := fixtures.NewTestCountry("B", fixtures.WithPopulation(50), fixtures.WithArea(10))
	c := loadedCatalog(t, a, b)

	require.NoError(t, c.SetSortCriterion(entity.SortByDensity))

	assert.Equal(t, []string{"B", "A"}, names(c.Sorted()))
}

func TestSorted_ZeroAreaSortsFirstByDensity(t *testing.T) {
	c := loadedCatalog(t,
		fixtures.NewTestCountry("Dense", fixtures.WithPopulation(1000), fixtures.WithArea(1)),
		fixtures.NewTestCountry("Nowhere", fixtures.WithPopulation(1000), fixtures.WithArea(0)),
	)
	require.NoError(t, c.SetSortCriterion(entity.SortByDensity))

	assert.Equal(t, []string{"Nowhere", "Dense"}, names(c.Sorted()))
}

func TestSorted_OrderedForEveryCriterion(t *testing.T) {
	countries := []entity.Country{
		fixtures.NewTestCountry("Kenya", fixtures.WithPopulation(53771300), fixtures.WithArea(580367)),
		fixtures.NewTestCountry("Monaco", fixtures.WithPopulation(39244), fixtures.WithArea(2.02)),
		fixtures.NewTestCountry("Brazil", fixtures.WithPopulation(212559409), fixtures.WithArea(8515767)),
		fixtures.NewTestCountry("Iceland", fixtures.WithPopulation(366425), fixtures.WithArea(103000)),
		fixtures.NewTestCountry("Japan", fixtures.WithPopulation(125836021), fixtures.WithArea(377930)),
	}
	c := loadedCatalog(t, countries...)

	for _, criterion := range entity.SortCriteria() {
		for _, ascending := range []bool{true, false} {
			require.NoError(t, c.SetSortCriterion(criterion))
			if c.Snapshot().Ascending != ascending {
				c.ToggleSortDirection()
			}

			sorted := c.Sorted()
			require.Len(t, sorted, len(countries))
			assert.ElementsMatch(t, names(countries), names(sorted), "sorted view must be a permutation")

			for i := 0; i+1 < len(sorted); i++ {
				cmpResult := criterion.Compare(sorted[i], sorted[i+1])
				if ascending {
					assert.LessOrEqual(t, cmpResult, 0, "%s ascending broken at %d", criterion, i)
				} else {
					assert.GreaterOrEqual(t, cmpResult, 0, "%s descending broken at %d", criterion, i)
				}
			}
		}
	}
}

func TestSorted_Population(t *testing.T) {
	c := loadedCatalog(t,
		fixtures.NewTestCountry("Mid", fixtures.WithPopulation(500)),
		fixtures.NewTestCountry("Small", fixtures.WithPopulation(5)),
		fixtures.NewTestCountry("Large", fixtures.WithPopulation(50000)),
	)
	require.NoError(t, c.SetSortCriterion(entity.SortByPopulation))

	assert.Equal(t, []string{"Small", "Mid", "Large"}, names(c.Sorted()))

	c.ToggleSortDirection()
	assert.Equal(t, []string{"Large", "Mid", "Small"}, names(c.Sorted()))
}

func TestSorted_DoesNotMutateState(t *testing.T) {
	countries := []entity.Country{
		fixtures.NewTestCountry("Zambia"),
		fixtures.NewTestCountry("Austria"),
	}
	c := loadedCatalog(t, countries...)

	sorted := c.Sorted()
	assert.Equal(t, []string{"Austria", "Zambia"}, names(sorted))
	assert.Equal(t, []string{"Zambia", "Austria"}, names(c.Snapshot().Countries), "loaded list keeps server order")

	sorted[0] = fixtures.NewTestCountry("Mutated")
	assert.Equal(t, []string{"Austria", "Zambia"}, names(c.Sorted()))
}

func TestToggleSortDirection_TwiceRestoresOrder(t *testing.T) {
	c := loadedCatalog(t, fixtures.NewTestCountries(8)...)

	for _, criterion := range entity.SortCriteria() {
		require.NoError(t, c.SetSortCriterion(criterion))
		before := c.Sorted()

		c.ToggleSortDirection()
		c.ToggleSortDirection()

		if diff := cmp.Diff(names(before), names(c.Sorted())); diff != "" {
			t.Errorf("%s: order changed after double toggle (-before +after):\n%s", criterion, diff)
		}
	}
}

func TestSorted_StableForEqualKeys(t *testing.T) {
	c := loadedCatalog(t,
		fixtures.NewTestCountry("First", fixtures.WithArea(10)),
		fixtures.NewTestCountry("Second", fixtures.WithArea(10)),
		fixtures.NewTestCountry("Third", fixtures.WithArea(10)),
	)
	require.NoError(t, c.SetSortCriterion(entity.SortByArea))

	assert.Equal(t, []string{"First", "Second", "Third"}, names(c.Sorted()))
	c.ToggleSortDirection()
	assert.Equal(t, []string{"First", "Second", "Third"}, names(c.Sorted()))
}

func TestSetSortCriterion(t *testing.T) {
	c := catalog.New(&stubFetcher{})

	var published []catalog.State
	c.Subscribe(func(s catalog.State) { published = append(published, s) })

	require.NoError(t, c.SetSortCriterion(entity.SortByArea))
	assert.Equal(t, entity.SortByArea, c.Snapshot().Criterion)
	require.Len(t, published, 1)
	assert.Equal(t, entity.SortByArea, published[0].Criterion)

	err := c.SetSortCriterion(entity.SortCriterion(99))
	assert.True(t, errors.Is(err, entity.ErrInvalidSortCriterion))
	assert.Equal(t, entity.SortByArea, c.Snapshot().Criterion, "invalid criterion leaves state unchanged")
	assert.Len(t, published, 1)
}

func TestToggleSortDirection_Publishes(t *testing.T) {
	c := catalog.New(&stubFetcher{})

	var published []catalog.State
	cancel := c.Subscribe(func(s catalog.State) { published = append(published, s) })

	c.ToggleSortDirection()
	cancel()
	c.ToggleSortDirection()

	require.Len(t, published, 1)
	assert.False(t, published[0].Ascending)
	assert.True(t, c.Snapshot().Ascending)
}

func TestSubscribe_ChangeFromCallbackKeepsOrder(t *testing.T) {
	c := catalog.New(&stubFetcher{})

	reacted := false
	c.Subscribe(func(s catalog.State) {
		if !reacted {
			reacted = true
			require.NoError(t, c.SetSortCriterion(entity.SortByPopulation))
		}
	})

	var seen []catalog.State
	c.Subscribe(func(s catalog.State) { seen = append(seen, s) })

	c.ToggleSortDirection()

	require.Len(t, seen, 2)
	assert.Equal(t, entity.SortByCommonName, seen[0].Criterion, "the toggle is delivered first")
	assert.False(t, seen[0].Ascending)

	last := seen[len(seen)-1]
	assert.Equal(t, c.Snapshot().Criterion, last.Criterion)
	assert.Equal(t, entity.SortByPopulation, last.Criterion)
	assert.False(t, last.Ascending)
}

func TestSubscribe_LastSnapshotMatchesStateUnderConcurrentWriters(t *testing.T) {
	c := catalog.New(&stubFetcher{})

	var mu sync.Mutex
	var last catalog.State
	c.Subscribe(func(s catalog.State) {
		mu.Lock()
		last = s
		mu.Unlock()
	})

	criteria := []entity.SortCriterion{
		entity.SortByCommonName, entity.SortByPopulation, entity.SortByArea, entity.SortByDensity,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if j%3 == 0 {
					c.ToggleSortDirection()
					continue
				}
				_ = c.SetSortCriterion(criteria[(i+j)%len(criteria)])
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	want := c.Snapshot()
	assert.Equal(t, want.Criterion, last.Criterion)
	assert.Equal(t, want.Ascending, last.Ascending)
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := loadedCatalog(t, fixtures.NewTestCountries(2)...)

	s := c.Snapshot()
	s.Countries[0].Names.Common = "Changed"

	assert.Equal(t, "Country 00", c.Snapshot().Countries[0].Names.Common)
}

func TestFind(t *testing.T) {
	c := loadedCatalog(t,
		fixtures.NewTestCountry("New Zealand"),
		fixtures.NewTestCountry("Niger"),
	)

	country, ok := c.Find("  new zealand ")
	require.True(t, ok)
	assert.Equal(t, "New Zealand", country.Names.Common)

	_, ok = c.Find("Nigeria")
	assert.False(t, ok)
}

func TestFetch_ReusesCatalog(t *testing.T) {
	stub := &stubFetcher{countries: fixtures.NewTestCountries(5)}
	c := catalog.New(stub)

	var f fetch.CountryFetcher = c
	first, err := f.Fetch(context.Background())
	require.NoError(t, err)
	second, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 5)
	assert.Equal(t, names(first), names(second))
	assert.Equal(t, 1, stub.Calls())
}

func TestFetch_PropagatesLoadError(t *testing.T) {
	c := catalog.New(&stubFetcher{err: &fetch.TransportError{Err: context.DeadlineExceeded}})

	countries, err := c.Fetch(context.Background())
	assert.Nil(t, countries)
	assert.True(t, errors.Is(err, fetch.ErrTransport))
}

func TestConcurrentReaders(t *testing.T) {
	c := loadedCatalog(t, fixtures.NewTestCountries(20)...)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					c.ToggleSortDirection()
				}
				assert.Len(t, c.Sorted(), 20)
				_ = c.Snapshot()
			}
		}(i)
	}
	wg.Wait()
}
