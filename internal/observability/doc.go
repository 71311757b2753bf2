// Package observability groups the logging, metrics and tracing helpers.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer access and HTTP middleware
package observability
