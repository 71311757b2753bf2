// Package catalog provides the sortable country list shown by the catalog screen.
// It owns the loaded countries, the current ordering and the load status, and
// publishes a snapshot after every change.
package catalog

import "errors"

// Sentinel errors for catalog operations.
var (
	// ErrSuperseded indicates that a newer load started while this one was in
	// flight. The superseded load leaves the catalog untouched.
	ErrSuperseded = errors.New("catalog load superseded by a newer load")

	// ErrCountryNotFound indicates that no loaded country has the requested name.
	ErrCountryNotFound = errors.New("country not found")
)
