// Package logging provides structured logging utilities with context propagation.
//
// Key features:
//   - JSON and text output formats
//   - Component tagging for the catalog, quiz and fetcher
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	logger := logging.New(os.Stderr, slog.LevelInfo, logging.FormatText)
//	ctx := logging.WithLogger(context.Background(), logger)
//
//	logging.FromContext(ctx).Info("catalog loaded", slog.Int("countries", 195))
package logging
