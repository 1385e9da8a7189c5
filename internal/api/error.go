package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx answer from the remote API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote api: %d %s", e.StatusCode, e.Message)
}

func statusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// Message returns the remote message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
