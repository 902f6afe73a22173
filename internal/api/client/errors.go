package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnsupportedMethod is returned before any I/O for verbs outside
// GET, POST, PUT, PATCH and DELETE.
var ErrUnsupportedMethod = errors.New("unsupported HTTP method")

// ErrBodyNotAllowed is returned before any I/O when a GET carries a body.
var ErrBodyNotAllowed = errors.New("GET request cannot have a body")

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	Status     int
	StatusText string
	// Data is the response body parsed the same way as a success body.
	Data   Payload
	Header http.Header
	Method string
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.Status, e.StatusText)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

func newHTTPError(method Method, url string, status int, statusLine string, header http.Header, data Payload) *HTTPError {
	return &HTTPError{
		Status:     status,
		StatusText: statusText(status, statusLine),
		Data:       data,
		Header:     header,
		Method:     string(method),
		URL:        url,
	}
}

// statusText strips the numeric prefix from an http.Response status line.
func statusText(status int, statusLine string) string {
	text := strings.TrimSpace(strings.TrimPrefix(statusLine, fmt.Sprint(status)))
	if text == "" {
		return http.StatusText(status)
	}
	return text
}
