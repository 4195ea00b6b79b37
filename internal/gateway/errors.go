package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrQuotaExceeded is returned when the provider rejects a call because the
// API quota is used up. It is never retried.
var ErrQuotaExceeded = errors.New("youtube api quota exceeded")

// RequestError describes a failed outbound call. When retries are exhausted
// the gateway returns a RequestError with StatusCode 500 wrapping the last
// underlying failure.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

func exhausted(last error) *RequestError {
	msg := "unknown error"
	if last != nil {
		msg = last.Error()
	}
	return &RequestError{StatusCode: http.StatusInternalServerError, Message: msg, Err: last}
}
