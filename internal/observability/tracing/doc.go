// Package tracing provides OpenTelemetry tracing integration.
//
// Components receive a trace.TracerProvider instead of reaching for the
// global one, so tests can plug in an in-memory exporter:
//
//	exporter := tracetest.NewInMemoryExporter()
//	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
//	f := fetcher.NewRESTCountriesFetcher(cfg, fetcher.WithTracerProvider(tp))
//
// Spans created by the application:
//   - restcountries.fetch around every upstream request
//   - catalog.load around every catalog load that reaches the fetcher
//   - one server span per status server request
package tracing
