package circuitbreaker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          20 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())

	if cb == nil {
		t.Fatal("expected circuit breaker, got nil")
	}
	if cb.Name() != "test-circuit" {
		t.Errorf("expected name='test-circuit', got %q", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state=Closed, got %v", cb.State())
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	cb := New(testConfig())

	result, err := cb.Execute(func() (interface{}, error) {
		return []byte("[]"), nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(result.([]byte)) != "[]" {
		t.Errorf("expected body '[]', got %v", result)
	}

	upstreamErr := errors.New("connection reset")
	result, err = cb.Execute(func() (interface{}, error) {
		return nil, upstreamErr
	})
	if err != upstreamErr {
		t.Errorf("expected error=%v, got %v", upstreamErr, err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}
}

func TestCircuitBreaker_TripsOpen(t *testing.T) {
	cb := New(testConfig())
	upstreamErr := errors.New("status 503")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) {
			return nil, upstreamErr
		})
		if err != upstreamErr {
			t.Errorf("request %d: expected upstream error, got %v", i, err)
		}
	}

	if !cb.IsOpen() {
		t.Fatalf("expected state=Open after 3 failures, got %v", cb.State())
	}

	_, err := cb.Execute(func() (interface{}, error) {
		t.Error("function should not be called when circuit is open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if !IsRejection(err) {
		t.Error("expected IsRejection()=true for an open circuit")
	}
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 100 * time.Millisecond

	cb := New(cfg)

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, errors.New("timeout")
		})
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("circuit should be open, got %v", cb.State())
	}

	time.Sleep(150 * time.Millisecond)

	if _, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	}); err != nil {
		t.Errorf("expected success in half-open state, got %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected state=Closed after half-open success, got %v", cb.State())
	}
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errPayload := errors.New("malformed payload")

	cfg := testConfig()
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, errPayload)
	}
	cb := New(cfg)

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (interface{}, error) {
			return nil, fmt.Errorf("element %d: %w", i, errPayload)
		})
		if !errors.Is(err, errPayload) {
			t.Errorf("request %d: expected payload error to reach caller, got %v", i, err)
		}
	}

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("errors classified as successful must not trip the circuit, got %v", cb.State())
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []string

	cfg := testConfig()
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		transitions = append(transitions, fmt.Sprintf("%s:%s->%s", name, from, to))
	}
	cb := New(cfg)

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, errors.New("refused")
		})
	}

	if len(transitions) != 1 || transitions[0] != "test-circuit:closed->open" {
		t.Errorf("unexpected transitions: %v", transitions)
	}
}

func TestCircuitBreaker_MinRequests(t *testing.T) {
	cfg := testConfig()
	cfg.MinRequests = 10

	cb := New(cfg)

	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, errors.New("refused")
		})
	}

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected state=Closed (below MinRequests), got %v", cb.State())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test")

	if cfg.Name != "test" {
		t.Errorf("expected Name='test', got %q", cfg.Name)
	}
	if cfg.MaxRequests != 3 {
		t.Errorf("expected MaxRequests=3, got %d", cfg.MaxRequests)
	}
	if cfg.FailureThreshold != 0.6 {
		t.Errorf("expected FailureThreshold=0.6, got %f", cfg.FailureThreshold)
	}
	if cfg.IsSuccessful != nil {
		t.Error("expected no success classifier by default")
	}
}

func TestCountryAPIConfig(t *testing.T) {
	cfg := CountryAPIConfig()

	if cfg.Name != "restcountries-api" {
		t.Errorf("expected Name='restcountries-api', got %q", cfg.Name)
	}
	if cfg.MinRequests != 3 {
		t.Errorf("expected MinRequests=3, got %d", cfg.MinRequests)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected Timeout=30s, got %v", cfg.Timeout)
	}
}

func TestIsRejection(t *testing.T) {
	if IsRejection(errors.New("boom")) {
		t.Error("plain errors are not rejections")
	}
	if !IsRejection(fmt.Errorf("fetch: %w", gobreaker.ErrTooManyRequests)) {
		t.Error("expected wrapped ErrTooManyRequests to be a rejection")
	}
}
