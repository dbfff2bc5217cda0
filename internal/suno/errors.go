package suno

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned before any network I/O when SUNO_API_KEY is empty.
var ErrMissingAPIKey = errors.New("SUNO_API_KEY not set")

// UpstreamError is a provider response that could not be used: a non-success
// status where one is required, or a body that is not JSON.
type UpstreamError struct {
	Operation  Operation
	StatusCode int
	Body       string
	Reason     string
}

func (e *UpstreamError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	if e.Reason != "" {
		return fmt.Sprintf("suno %s: %s (status %d): %s", e.Operation, e.Reason, e.StatusCode, body)
	}
	return fmt.Sprintf("suno %s: unexpected status %d: %s", e.Operation, e.StatusCode, body)
}

// TransportError wraps failures to reach the provider at all.
type TransportError struct {
	Operation Operation
	Cause     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("suno %s: %v", e.Operation, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }
