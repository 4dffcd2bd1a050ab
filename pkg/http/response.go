package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// StatusError is returned when a response has an unexpected status code
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code fetching %s: %s", e.URL, e.Status)
}

// EnsureStatusOK checks if the response status is 200 OK
func EnsureStatusOK(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		url := ""
		if resp.Request != nil && resp.Request.URL != nil {
			url = resp.Request.URL.String()
		}
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// CloseBody closes a response body, logging rather than returning failures
func CloseBody(resp *http.Response) {
	if closeErr := resp.Body.Close(); closeErr != nil {
		slog.Error("Failed to close response body", "error", closeErr)
	}
}

// ReadResponseBody reads and closes HTTP response body
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	defer CloseBody(resp)
	return io.ReadAll(resp.Body)
}

// GetContentType returns the content type of the response
func GetContentType(resp *http.Response) string {
	return resp.Header.Get("Content-Type")
}
