package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations
var (
	// ErrNotFound indicates the requested entity does not exist upstream
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable indicates the metadata API could not be reached
	ErrUpstreamUnavailable = errors.New("metadata service is unreachable")

	// ErrUnauthorized indicates the API token was rejected
	ErrUnauthorized = errors.New("metadata API token is invalid")

	// ErrMissingToken indicates no API token is configured
	ErrMissingToken = errors.New("metadata API token is not configured")

	// ErrListNotFound indicates an unknown curated list slug
	ErrListNotFound = errors.New("curated list not found")
)

// StatusError is returned for upstream responses with an unexpected status code
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Status, e.Path)
}
