package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestEnsureStatusOK(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		status     string
		wantErr    bool
	}{
		{name: "200 OK", statusCode: http.StatusOK, status: "200 OK", wantErr: false},
		{name: "204 No Content", statusCode: http.StatusNoContent, status: "204 No Content", wantErr: true},
		{name: "404 Not Found", statusCode: http.StatusNotFound, status: "404 Not Found", wantErr: true},
		{name: "500 Internal Server Error", statusCode: http.StatusInternalServerError, status: "500 Internal Server Error", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.statusCode,
				Status:     tt.status,
				Request:    &http.Request{URL: &url.URL{Scheme: "https", Host: "a.example", Path: "/rss"}},
			}

			err := EnsureStatusOK(resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EnsureStatusOK() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr {
				return
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("EnsureStatusOK() error type = %T, want *StatusError", err)
			}
			if statusErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.statusCode)
			}
			if !strings.Contains(err.Error(), "https://a.example/rss") {
				t.Errorf("error should name the URL: %v", err)
			}
		})
	}
}

func TestReadResponseBody(t *testing.T) {
	resp := &http.Response{
		Body: io.NopCloser(strings.NewReader("<rss></rss>")),
	}

	body, err := ReadResponseBody(resp)
	if err != nil {
		t.Fatalf("ReadResponseBody() error: %v", err)
	}
	if string(body) != "<rss></rss>" {
		t.Errorf("ReadResponseBody() = %q", body)
	}
}

func TestGetContentType(t *testing.T) {
	resp := &http.Response{Header: make(http.Header)}
	resp.Header.Set("Content-Type", "application/rss+xml; charset=utf-8")

	if got := GetContentType(resp); got != "application/rss+xml; charset=utf-8" {
		t.Errorf("GetContentType() = %q", got)
	}
}
