// Package models contains data types exchanged with the DocWrangler decision service.
package models

// Decision is the success variant of a /webhook/query response. Every field is optional
// on the wire; zero values mean the field was absent or unusable.
type Decision struct {
	Query    string
	Decision string
	// Confidence is a fraction in [0, 1]; zero means absent.
	Confidence float64
	// Amount is the display text of the approved amount ("500", "1250.5"); empty means absent.
	Amount        string
	Justification string
	SourceClauses []string

	// Raw holds the response body as received.
	Raw string
}

// UploadResult is returned by /api/upload. The body is not interpreted beyond the
// informational fields below, which are only logged.
type UploadResult struct {
	FileName   string
	Size       int64
	DocumentID string
	Message    string
	Raw        string
}

// HealthStatus is the /webhook/health response.
type HealthStatus struct {
	Status    string
	Service   string
	Timestamp string
	Endpoints []string
	Raw       string
}

// Healthy reports whether the service declared itself healthy.
func (h *HealthStatus) Healthy() bool {
	return h != nil && h.Status == "healthy"
}
