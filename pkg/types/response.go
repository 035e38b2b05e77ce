// Package types holds the JSON envelopes every ordering widget endpoint
// answers with: {"data": ...} on success and {"error": {...}} on failure.
package types

// SuccessEnvelope wraps a successful widget API response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError carries the error code, message and optional details such as the
// offending group or option ids.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
