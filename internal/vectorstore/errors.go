package vectorstore

import (
	"fmt"
	"time"
)

// ConfigError indicates the client was constructed with invalid
// configuration. It is fatal and surfaces at construction time.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// ValidationError indicates a malformed request: oversized file, empty or
// oversized batch, bad search options. Never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError indicates an operation referenced an unknown file or
// batch id.
type NotFoundError struct {
	Kind string // "file" or "batch"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// TimeoutError indicates WaitForProcessing exceeded its budget. The file
// status is unknown, not failed; callers should re-poll.
type TimeoutError struct {
	FileID  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for file %s", e.Timeout, e.FileID)
}

// RateLimitError indicates the backing service throttled the request.
// Callers are expected to back off for RetryAfter and retry.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}
