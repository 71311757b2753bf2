package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used for every span the application creates.
const InstrumentationName = "countryquiz"

// Tracer returns the application tracer from tp.
// A nil provider falls back to the global one registered with otel, which is
// a no-op unless the process installs an SDK provider.
//
// Example usage:
//
//	ctx, span := tracing.Tracer(tp).Start(ctx, "restcountries.fetch")
//	defer span.End()
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(InstrumentationName)
}
