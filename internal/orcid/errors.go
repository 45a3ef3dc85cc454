package orcid

import (
	"errors"
	"fmt"
)

// Common errors returned by the ORCID client.
var (
	// ErrNotFound indicates the ORCID record does not exist.
	ErrNotFound = errors.New("ORCID record not found")

	// ErrRateLimited indicates the public API throttled the request.
	ErrRateLimited = errors.New("ORCID rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue or timeout.
	ErrNetworkError = errors.New("network error communicating with ORCID")

	// ErrInvalidResponse indicates a body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from ORCID")
)

// APIError represents a non-success HTTP status from the ORCID API.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ORCID API error: %s (%s)", e.Status, e.URL)
}
