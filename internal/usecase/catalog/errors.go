// Package catalog provides the use cases behind the shop and location
// directory: loading the catalog, item and taxonomy writes, and filtering.
package catalog

import "errors"

// Sentinel errors for catalog operations.
var (
	// ErrBackendNotConfigured indicates a write was attempted in demo mode
	// (no spreadsheet backend URL configured).
	ErrBackendNotConfigured = errors.New("spreadsheet backend is not configured")

	// ErrBackendFailure indicates the backend answered with success=false.
	ErrBackendFailure = errors.New("spreadsheet backend reported a failure")

	// ErrBackendUnavailable indicates the backend could not be reached or
	// answered with an unusable response.
	ErrBackendUnavailable = errors.New("spreadsheet backend unavailable")
)
