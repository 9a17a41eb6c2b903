package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidPath indicates a resource path escapes the content root or is malformed
	ErrInvalidPath = errors.New("invalid resource path")
)

// FetchError reports a failed load of a resource path.
// Status is the HTTP status code for network loads and 0 otherwise.
type FetchError struct {
	Path   string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is matches ErrNotFound for 404 responses as well as wrapped not-found causes.
func (e *FetchError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// NewFetchError wraps err as a FetchError for path unless it already is one.
func NewFetchError(path string, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Path: path, Err: err}
}
