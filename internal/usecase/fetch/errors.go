// Package fetch defines the contract for retrieving the country dataset and the
// errors its implementations surface. Implementations perform exactly one request
// per call and never retry or cache.
package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors for fetch operations. Concrete failures are reported as
// *TransportError or *DecodingError, which match these with errors.Is.
var (
	// ErrTransport indicates that the request did not produce a usable response.
	// This covers connectivity failures, timeouts, non-2xx statuses and oversized bodies.
	ErrTransport = errors.New("country fetch transport failure")

	// ErrDecoding indicates that the payload did not match the expected shape.
	ErrDecoding = errors.New("country payload decoding failure")

	// ErrUnexpectedStatus indicates a response outside the 2xx range.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrBodyTooLarge indicates that the response exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// TransportError describes a network or HTTP level failure.
// StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", ErrTransport, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport as part of the chain.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodingError describes a payload that could not be turned into countries.
// Index is the position of the offending array element, or -1 when the payload
// as a whole is malformed.
type DecodingError struct {
	Index int
	Err   error
}

func (e *DecodingError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: element %d: %v", ErrDecoding, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrDecoding, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// Is reports ErrDecoding as part of the chain.
func (e *DecodingError) Is(target error) bool { return target == ErrDecoding }
