// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - Upstream fetch metrics (duration, result, payload size, circuit state)
//   - Catalog metrics (loads, size, sort changes)
//   - Quiz metrics (starts, answers, final scores)
//   - Status server HTTP metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint of the serve command.
//
// Example usage:
//
//	start := time.Now()
//	countries, err := fetcher.Fetch(ctx)
//	if err != nil {
//	    metrics.RecordCountryFetch(time.Since(start), metrics.FetchTransportError, 0, 0)
//	}
package metrics
