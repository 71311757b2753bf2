// Package resilience groups the fault tolerance helpers used around the
// country API.
//
//   - circuitbreaker stops calling the API after a run of transport failures
//   - retry re-runs a catalog load after transient fetch failures
//
// The fetcher only consults the breaker. Retrying is left to callers, so a
// failed load surfaces to the catalog exactly once:
//
//	cb := circuitbreaker.New(circuitbreaker.CountryAPIConfig())
//	f := fetcher.NewRESTCountriesFetcher(cfg, fetcher.WithCircuitBreaker(cb))
//
//	err := retry.Do(ctx, logger, retry.CatalogLoadPolicy(3), func(ctx context.Context) error {
//	    return cat.Load(ctx, false)
//	})
package resilience
