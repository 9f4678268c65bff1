// Package apierror defines the stable, user-facing error shape surfaced by
// the API client. Callers above the client layer never see any other error
// type: transport, HTTP and validation failures are all funneled into an
// APIError before they escape.
package apierror

import "encoding/json"

// Code is the coarse machine-readable classification of a failure.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNetwork    Code = "NETWORK_ERROR"
	CodeServer     Code = "SERVER_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeBadRequest Code = "BAD_REQUEST"
	CodeUnknown    Code = "UNKNOWN_ERROR"
)

// APIError is a classified failure.
// Retryable tells the caller whether the operation may plausibly succeed if
// attempted again without intervention.
type APIError struct {
	Message   string `json:"message"`
	Code      Code   `json:"code"`
	Retryable bool   `json:"retryable"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ToJSON renders the error for an HTTP response body.
func (e *APIError) ToJSON() []byte {
	b, _ := json.Marshal(e)
	return b
}

// Validation reports a contract mismatch between client and service. The
// retryable flag is caller guidance only; the client itself never retries a
// validation failure.
func Validation(message string) *APIError {
	return &APIError{Message: message, Code: CodeValidation, Retryable: true}
}

// Network reports a failure where no response was obtained.
func Network(message string) *APIError {
	return &APIError{Message: message, Code: CodeNetwork, Retryable: true}
}

// Server reports a 5xx response.
func Server(message string) *APIError {
	return &APIError{Message: message, Code: CodeServer, Retryable: true}
}

// NotFound reports a 404 response or a missing local resource.
func NotFound(message string) *APIError {
	return &APIError{Message: message, Code: CodeNotFound, Retryable: false}
}

// BadRequest reports a 400 response or a failed local precondition.
func BadRequest(message string) *APIError {
	return &APIError{Message: message, Code: CodeBadRequest, Retryable: false}
}

// Unknown reports a failure that fits no other classification.
func Unknown(message string) *APIError {
	return &APIError{Message: message, Code: CodeUnknown, Retryable: true}
}
