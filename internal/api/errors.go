package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAuthRequired indicates a missing or rejected bearer token. Fatal to
// the current operation; the caller must re-authenticate, never retry.
var ErrAuthRequired = errors.New("authentication required")

// PayloadError indicates the server returned a response that does not
// conform to the snapshot contract.
type PayloadError struct {
	Content json.RawMessage
	Err     error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid progress payload: %v", e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// StatusError indicates an unexpected, non-auth HTTP status.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.Status)
}
