package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestRequestError(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		code       int
		statusLine string
		want       string
	}{
		{"query status phrase", PrefixQuery, 404, "404 Not Found", "API Error: Not Found"},
		{"upload status phrase", PrefixUpload, 500, "500 Internal Server Error", "Upload Failed: Internal Server Error"},
		{"custom phrase kept", PrefixQuery, 418, "418 Short And Stout", "API Error: Short And Stout"},
		{"missing phrase falls back", PrefixQuery, 503, "503", "API Error: Service Unavailable"},
		{"empty prefix defaults to query", "", 400, "400 Bad Request", "API Error: Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRequestError(tt.prefix, "/webhook/query", tt.code, tt.statusLine)
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if GetHTTPStatus(err) != tt.code {
				t.Errorf("GetHTTPStatus() = %d, want %d", GetHTTPStatus(err), tt.code)
			}
		})
	}
}

func TestLogicalError(t *testing.T) {
	if got := NewLogicalError("policy not found").Error(); got != "policy not found" {
		t.Errorf("Error() = %q", got)
	}
	if got := NewLogicalError("").Error(); got != "Unknown error from server" {
		t.Errorf("empty message Error() = %q", got)
	}

	wrapped := fmt.Errorf("query: %w", NewLogicalError("boom"))
	if !IsLogicalError(wrapped) {
		t.Error("IsLogicalError should see through wrapping")
	}
	if IsRequestError(wrapped) {
		t.Error("logical error must not be a request error")
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("query", "http://localhost/webhook/query", cause)

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("wrap: %w", err)) {
		t.Error("IsNetworkError should see through wrapping")
	}
	if GetEndpoint(err) != "http://localhost/webhook/query" {
		t.Errorf("GetEndpoint() = %q", GetEndpoint(err))
	}
}

func TestParseError_Is(t *testing.T) {
	err := NewParseError("not json", "/webhook/query")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}
	if !IsParseError(fmt.Errorf("wrap: %w", err)) {
		t.Error("IsParseError should see through wrapping")
	}
	if !errors.Is(err, &ParseError{}) {
		t.Error("ParseError should match another ParseError")
	}
}

func TestHelpers_NonMatching(t *testing.T) {
	plain := errors.New("plain")
	if GetHTTPStatus(plain) != 0 {
		t.Error("expected 0 status for plain error")
	}
	if GetEndpoint(plain) != "" {
		t.Error("expected empty endpoint for plain error")
	}
	if IsCircuitOpen(plain) {
		t.Error("plain error is not circuit-open")
	}
	if !IsCircuitOpen(fmt.Errorf("x: %w", ErrCircuitOpen)) {
		t.Error("wrapped ErrCircuitOpen should match")
	}
	if !IsServerError(NewRequestError(PrefixQuery, "", 502, "502 Bad Gateway")) {
		t.Error("502 should be a server error")
	}
}

func TestMessage(t *testing.T) {
	if got := Message(nil, "Upload failed"); got != "Upload failed" {
		t.Errorf("Message(nil) = %q", got)
	}
	if got := Message(errors.New("  "), "Upload failed"); got != "Upload failed" {
		t.Errorf("Message(blank) = %q", got)
	}
	if got := Message(errors.New("disk full"), "Upload failed"); got != "disk full" {
		t.Errorf("Message() = %q", got)
	}
}
