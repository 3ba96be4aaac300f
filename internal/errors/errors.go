// Package errors provides custom error types for the DocWrangler API client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrNotConfigured   = errors.New("API base URL is not configured")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrCircuitOpen     = errors.New("decision service unavailable, requests paused")
)

// Message prefixes used by the two endpoints when the HTTP status is not 2xx.
const (
	PrefixQuery  = "API Error"
	PrefixUpload = "Upload Failed"
)

// RequestError is a transport-level failure: the service answered with a non-2xx status.
// Its text carries only the HTTP status phrase, e.g. "API Error: Not Found".
type RequestError struct {
	Prefix     string
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *RequestError) Error() string {
	prefix := e.Prefix
	if prefix == "" {
		prefix = PrefixQuery
	}
	return fmt.Sprintf("%s: %s", prefix, e.Status)
}

// NewRequestError creates a RequestError from a status code and the raw status line
// as returned by net/http ("404 Not Found"). The numeric code is stripped from the line.
func NewRequestError(prefix, endpoint string, statusCode int, statusLine string) *RequestError {
	return &RequestError{
		Prefix:     prefix,
		StatusCode: statusCode,
		Status:     StatusText(statusCode, statusLine),
		Endpoint:   endpoint,
	}
}

// StatusText extracts the reason phrase from an HTTP status line.
func StatusText(statusCode int, statusLine string) string {
	phrase := strings.TrimSpace(statusLine)
	code := fmt.Sprintf("%d", statusCode)
	phrase = strings.TrimSpace(strings.TrimPrefix(phrase, code))
	if phrase == "" {
		phrase = http.StatusText(statusCode)
	}
	return phrase
}

// LogicalError is returned when the transport succeeded but the payload reports that
// the operation failed (`"status": "error"`).
type LogicalError struct {
	Message string
}

func (e *LogicalError) Error() string {
	if e.Message == "" {
		return "Unknown error from server"
	}
	return e.Message
}

// NewLogicalError creates a new LogicalError
func NewLogicalError(message string) *LogicalError {
	return &LogicalError{Message: message}
}

// NetworkError wraps a failure to reach the service at all.
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s request to %s failed", e.Operation, e.Endpoint)
	}
	return fmt.Sprintf("%s request to %s failed: %v", e.Operation, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// ParseError represents a response body that is not valid JSON.
type ParseError struct {
	Message  string
	Endpoint string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, endpoint string) *ParseError {
	return &ParseError{Message: message, Endpoint: endpoint}
}

// GetHTTPStatus returns the HTTP status code carried by err, or 0.
func GetHTTPStatus(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint an error refers to, if any.
func GetEndpoint(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Endpoint
	}
	return ""
}

// IsRequestError reports whether err is a non-2xx response.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// IsLogicalError reports whether err is an application-level failure.
func IsLogicalError(err error) bool {
	var logicalErr *LogicalError
	return errors.As(err, &logicalErr)
}

// IsNetworkError reports whether err is a connection-level failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParseError reports whether err is an unreadable response body.
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// IsCircuitOpen reports whether the client refused the call because the breaker is open.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}

// IsServerError reports whether err is a 5xx response.
func IsServerError(err error) bool {
	return GetHTTPStatus(err) >= 500
}

// Message returns the user-facing text for err, or fallback when err carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
