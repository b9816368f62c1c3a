// Package apperrors defines sentinel errors shared across layers.
package apperrors

import "errors"

var (
	// ErrUnknownQuery indicates a report query name not present in the catalog.
	ErrUnknownQuery = errors.New("unknown report query")

	// ErrNoSourceRows indicates the source returned nothing for a required
	// relation; the run continues but the condition is surfaced to operators.
	ErrNoSourceRows = errors.New("source relation returned no rows")
)
