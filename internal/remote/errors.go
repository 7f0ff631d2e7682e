package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the small taxonomy the engine maps to user-facing text.
type ErrorCode string

const (
	CodePermissionDenied ErrorCode = "permission-denied"
	CodeUnavailable      ErrorCode = "unavailable"
	CodeNotFound         ErrorCode = "not-found"
	CodeRateLimited      ErrorCode = "rate-limited"
	CodeUnknown          ErrorCode = "unknown"
)

// StoreError is a remote item-store failure with its taxonomy code.
type StoreError struct {
	Code    ErrorCode
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("item store: %s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("item store: %s: %s", e.Code, e.Message)
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodePermissionDenied
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return CodeUnavailable
	}
	return CodeUnknown
}

// Code extracts the taxonomy code from any error chain. Transport-level
// failures (no response at all) count as unavailable.
func Code(err error) ErrorCode {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	if err != nil {
		return CodeUnavailable
	}
	return ""
}

// UserMessage maps an error to the toast text shown in the feed.
func UserMessage(err error) string {
	switch Code(err) {
	case CodePermissionDenied:
		return "You don't have access to do that"
	case CodeNotFound:
		return "That event is gone"
	case CodeRateLimited:
		return "Slow down a little and try again"
	case CodeUnavailable:
		return "Can't reach the event store right now"
	}
	return "Something went wrong, try again"
}

// Transient reports whether the failure is expected to clear on its own.
func Transient(err error) bool {
	switch Code(err) {
	case CodeUnavailable, CodeRateLimited:
		return true
	}
	return false
}
