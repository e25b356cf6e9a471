package models

import "net/http"

// ErrorResponse is the JSON envelope returned for every failed request.
type ErrorResponse struct {
	StatusCode int            `json:"status_code"`
	ErrorCode  string         `json:"error_code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

// APIError is an error that carries everything needed to build an
// ErrorResponse. Lower layers wrap causes with fmt.Errorf; anything that must
// reach the wire with a specific code is an *APIError.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	return e.Message
}

// Response converts the error into its wire envelope.
func (e *APIError) Response() ErrorResponse {
	return ErrorResponse{
		StatusCode: e.Status,
		ErrorCode:  e.Code,
		Message:    e.Message,
		Details:    e.Details,
	}
}

// NewValidationError reports a rejected input.
func NewValidationError(message string, details map[string]any) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}
}

// NewSimulationError reports a failure inside the simulation engine.
func NewSimulationError(message string, details map[string]any) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "SIMULATION_ERROR",
		Message: message,
		Details: details,
	}
}

// NewUpstreamError reports a failed call to an external data source.
func NewUpstreamError(message string, details map[string]any) *APIError {
	return &APIError{
		Status:  http.StatusBadGateway,
		Code:    "UPSTREAM_ERROR",
		Message: message,
		Details: details,
	}
}
