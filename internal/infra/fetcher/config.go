package fetcher

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "countryquiz/pkg/config"
)

// DefaultEndpoint lists independent countries with only the fields the
// catalog and the quiz read.
const DefaultEndpoint = "https://restcountries.com/v3.1/independent?status=true&fields=name,population,area,flags,latlng"

// MaxTimeout is the longest request timeout Validate accepts.
const MaxTimeout = 5 * time.Minute

// Config holds the configuration for the REST Countries fetcher.
//
// Politeness settings:
//   - RequestsPerSecond and Burst gate outgoing requests with a token bucket
//
// Safety settings:
//   - Timeout bounds a single request including body transfer
//   - MaxBodySize rejects responses that would exhaust memory
type Config struct {
	// Endpoint is the full URL of the country list, query string included.
	// Default: DefaultEndpoint
	Endpoint string

	// Timeout is the maximum duration for a single HTTP request.
	// Default: 15s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// This is enforced during response reading, not based on Content-Length header.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// RequestsPerSecond is the sustained request rate allowed towards the API.
	// Zero or a negative value disables rate limiting.
	// Default: 1
	RequestsPerSecond float64

	// Burst is the number of requests allowed at once before the rate applies.
	// Default: 2
	Burst int

	// UserAgent identifies the client to the API operators.
	// Default: "countryquiz/1.0"
	UserAgent string
}

// DefaultConfig returns the default configuration for the REST Countries fetcher.
//
// Example:
//
//	cfg := DefaultConfig()
//	cfg.Endpoint = server.URL
//	f := NewRESTCountriesFetcher(cfg)
func DefaultConfig() Config {
	return Config{
		Endpoint:          DefaultEndpoint,
		Timeout:           15 * time.Second,
		MaxBodySize:       10 * 1024 * 1024, // 10MB
		RequestsPerSecond: 1,
		Burst:             2,
		UserAgent:         "countryquiz/1.0",
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Endpoint: absolute http or https URL
//   - Timeout: 1ms-5m
//   - MaxBodySize: 1KB-100MB (prevent memory issues)
//   - Burst: >= 1 when rate limiting is enabled
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint must include a host, got %q", c.Endpoint)
	}

	if err := pkgconfig.ValidateDurationRange(c.Timeout, time.Millisecond, MaxTimeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rate limiting is enabled, got %d", c.Burst)
	}

	return nil
}
