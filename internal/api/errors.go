// Package api provides error types for validation API responses.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
)

// StatusError is a non-2xx response from the backend. Its message is the
// server's detail field when the body carried one, else the operation's
// fixed fallback, so callers can show it to users as-is.
type StatusError struct {
	StatusCode int
	Detail     string
	Fallback   string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Fallback
}

// IsAuthError reports whether an error is the backend rejecting the session
// or the credentials.
func IsAuthError(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == nethttp.StatusUnauthorized || se.StatusCode == nethttp.StatusForbidden
	}
	return false
}

// detailBody is the backend's error envelope.
type detailBody struct {
	Detail string `json:"detail"`
}

// newStatusError builds the error for a failed response, extracting the
// detail field when present. The body may be anything (HTML from a proxy,
// truncated JSON); parse failures fall back silently.
func newStatusError(resp *nethttp.Response, fallback string) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode, Fallback: fallback}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return se
	}
	var d detailBody
	if err := json.Unmarshal(body, &d); err == nil && d.Detail != "" {
		se.Detail = d.Detail
	}
	return se
}

// wrapTransport wraps a transport-level failure so callers never see a raw
// net/http error without operation context.
func wrapTransport(fallback string, err error) error {
	return fmt.Errorf("%s: %w", fallback, err)
}
