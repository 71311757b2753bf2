package fetcher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"countryquiz/internal/domain/entity"
	"countryquiz/internal/observability/metrics"
	"countryquiz/internal/observability/tracing"
	"countryquiz/internal/resilience/circuitbreaker"
	"countryquiz/internal/usecase/fetch"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// RESTCountriesFetcher implements fetch.CountryFetcher against the REST Countries API.
// Every call issues exactly one GET request. Nothing is cached and nothing is
// retried; the circuit breaker only short-circuits calls after repeated
// transport failures.
//
// Thread safety: RESTCountriesFetcher is safe for concurrent use.
type RESTCountriesFetcher struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
	tracer  trace.Tracer
	logger  *slog.Logger
	config  Config
}

// Option customizes a RESTCountriesFetcher.
type Option func(*RESTCountriesFetcher)

// WithHTTPClient replaces the HTTP client. The client's transport should not
// negotiate compression on its own.
func WithHTTPClient(c *http.Client) Option {
	return func(f *RESTCountriesFetcher) { f.client = c }
}

// WithCircuitBreaker replaces the default breaker built from
// circuitbreaker.CountryAPIConfig.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(f *RESTCountriesFetcher) { f.breaker = cb }
}

// WithTracerProvider sets the provider used for fetch spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(f *RESTCountriesFetcher) { f.tracer = tracing.Tracer(tp) }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *RESTCountriesFetcher) { f.logger = l }
}

// NewRESTCountriesFetcher creates a fetcher for the given configuration.
//
// The fetcher is configured with:
//   - HTTP client with timeout, TLS 1.2+ and compression disabled
//   - Circuit breaker counting transport failures only
//   - Token bucket rate limiter from RequestsPerSecond and Burst
//
// Example:
//
//	f := NewRESTCountriesFetcher(DefaultConfig())
//	countries, err := f.Fetch(ctx)
func NewRESTCountriesFetcher(config Config, opts ...Option) *RESTCountriesFetcher {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	f := &RESTCountriesFetcher{
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				DisableCompression:  true,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
		limiter: rate.NewLimiter(limit, max(config.Burst, 1)),
		tracer:  tracing.Tracer(nil),
		logger:  slog.Default(),
		config:  config,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.breaker == nil {
		cbConfig := circuitbreaker.CountryAPIConfig()
		cbConfig.IsSuccessful = countsAsSuccess
		cbConfig.OnStateChange = func(name string, _, to gobreaker.State) {
			metrics.RecordCircuitState(name, to == gobreaker.StateOpen)
		}
		f.breaker = circuitbreaker.New(cbConfig)
	}

	return f
}

// Breaker returns the circuit breaker guarding the API, for health reporting.
func (f *RESTCountriesFetcher) Breaker() *circuitbreaker.CircuitBreaker {
	return f.breaker
}

// countsAsSuccess keeps caller cancellations from tripping the breaker.
func countsAsSuccess(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Fetch retrieves and decodes the country list.
// It implements fetch.CountryFetcher.
//
// Returns:
//   - []entity.Country: Countries in the order the API returned them
//   - error: *fetch.TransportError or *fetch.DecodingError
func (f *RESTCountriesFetcher) Fetch(ctx context.Context) ([]entity.Country, error) {
	ctx, span := f.tracer.Start(ctx, "restcountries.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", f.config.Endpoint)),
	)
	defer span.End()

	start := time.Now()
	countries, size, err := f.fetch(ctx)
	duration := time.Since(start)
	result := classify(err)

	metrics.RecordCountryFetch(duration, result, size, len(countries))
	span.SetAttributes(
		attribute.String("fetch.result", result),
		attribute.Int("http.response_size", size),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		f.logger.WarnContext(ctx, "country fetch failed",
			slog.String("endpoint", f.config.Endpoint),
			slog.String("result", result),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("countries.count", len(countries)))
	f.logger.DebugContext(ctx, "country fetch succeeded",
		slog.Int("countries", len(countries)),
		slog.Int("bytes", size),
		slog.Duration("duration", duration))

	return countries, nil
}

func (f *RESTCountriesFetcher) fetch(ctx context.Context) ([]entity.Country, int, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, 0, &fetch.TransportError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.doRequest(ctx)
	})
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			return nil, 0, &fetch.TransportError{Err: fmt.Errorf("circuit %s: %w", f.breaker.Name(), err)}
		}
		return nil, 0, err
	}

	body := result.([]byte)
	countries, err := DecodeCountries(body)
	return countries, len(body), err
}

// doRequest performs the HTTP round trip and returns the raw body.
// Every error it returns is a *fetch.TransportError; decoding happens outside
// the breaker so malformed payloads never open the circuit.
func (f *RESTCountriesFetcher) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.config.Endpoint, nil)
	if err != nil {
		return nil, &fetch.TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &fetch.TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &fetch.TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w %s", fetch.ErrUnexpectedStatus, http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, &fetch.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, &fetch.TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: limit %d bytes", fetch.ErrBodyTooLarge, f.config.MaxBodySize),
		}
	}

	return body, nil
}

// DecodeCountries turns a REST Countries JSON array into countries.
// The whole payload must be an array; the first element that fails to decode
// aborts the call with a *fetch.DecodingError carrying its index.
func DecodeCountries(body []byte) ([]entity.Country, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, &fetch.DecodingError{Index: -1, Err: err}
	}
	if elements == nil {
		return nil, &fetch.DecodingError{Index: -1, Err: errors.New("payload is null, expected an array")}
	}

	countries := make([]entity.Country, 0, len(elements))
	for i, raw := range elements {
		var c entity.Country
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, &fetch.DecodingError{Index: i, Err: err}
		}
		countries = append(countries, c)
	}
	return countries, nil
}

func classify(err error) string {
	switch {
	case err == nil:
		return metrics.FetchSuccess
	case circuitbreaker.IsRejection(err):
		return metrics.FetchRejected
	case errors.Is(err, fetch.ErrDecoding):
		return metrics.FetchDecodingError
	default:
		return metrics.FetchTransportError
	}
}
