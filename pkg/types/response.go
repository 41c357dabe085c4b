// Package types holds the JSON envelopes every API response is wrapped in.
package types

// SuccessEnvelope wraps a successful payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
