package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound            = errors.New("interaction not found")
	ErrLastInteraction     = errors.New("at least one interaction is required")
	ErrEmptyImport         = errors.New("file contained no interactions")
	ErrDraftNotFound       = errors.New("draft not found")
	ErrSyncDisabled        = errors.New("remote sync is not configured")
	ErrPublishDisabled     = errors.New("publishing is disabled")
	ErrPublishNotConfirmed = errors.New("publish must be confirmed")
	ErrUnsafeContent       = errors.New("content could not be sanitized")
	ErrResponseTooLarge    = errors.New("remote response is too large")
)

// ValidationError represents a malformed payload
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError represents a failure reading or writing a persisted draft
type StorageError struct {
	Op  string // "read", "write", "decode", "encode"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NetworkError represents a transport failure talking to the remote service
type NetworkError struct {
	Op  string // "hydrate", "publish"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError represents a non-success status returned by the remote service
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.Status, e.Body)
}
