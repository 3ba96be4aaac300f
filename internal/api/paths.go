// Package api provides the DocWrangler decision service client.
package api

// Endpoint paths, relative to the configured base URL.
const (
	EndpointQuery  = "/webhook/query"
	EndpointUpload = "/api/upload"
	EndpointHealth = "/webhook/health"
)

// Request header carrying the API key. Sent only when a key is configured.
const HeaderAPIKey = "x-api-key"

// Multipart field name for uploaded documents.
const UploadFieldName = "file"

// GJSON paths for extracting values from service responses.
// The decision fields live at the root of the payload.
const (
	PathStatus        = "status"
	PathMessage       = "message"
	PathQuery         = "query"
	PathDecision      = "decision"
	PathConfidence    = "confidence"
	PathAmount        = "amount"
	PathJustification = "justification"
	PathSourceClauses = "source_clauses"

	PathHealthService   = "service"
	PathHealthTimestamp = "timestamp"
	PathHealthEndpoints = "endpoints"
	PathUploadFileName  = "filename"
	PathUploadDocument  = "document_id"
)

// StatusError is the payload status value that marks a logical failure.
const StatusError = "error"
