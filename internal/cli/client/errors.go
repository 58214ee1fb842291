package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCancelled marks a request aborted by the caller's context. Callers can
// distinguish it from a real failure with errors.Is.
var ErrCancelled = errors.New("operation cancelled")

// APIError is the uniform error shape every caller receives regardless of
// whether the failure was a network failure, a timeout, or an HTTP status.
type APIError struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`

	err error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// AsAPIError extracts the APIError from an error chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// statusMessages are the fixed fallbacks used when the server supplies no message
var statusMessages = map[int]string{
	400: "Invalid request data",
	401: "Unauthorized access",
	403: "You do not have permission to perform this action",
	404: "Resource not found",
	409: "Conflict with existing data",
	422: "Validation error",
	500: "Server error - please try again later",
}

func defaultMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fmt.Sprintf("Error %d", status)
}

// errorBody is the shape the server uses for error responses. It matches the
// success envelope so a plain envelope decode also works.
type errorBody struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"details"`
}

// NormalizeHTTP maps an HTTP error status and response body to an APIError.
// The server-provided message and details are used when present, otherwise
// the fixed per-status default. It never fails.
func NormalizeHTTP(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: defaultMessage(status),
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
		if len(parsed.Details) > 0 && string(parsed.Details) != "null" {
			apiErr.Details = parsed.Details
		}
	}

	return apiErr
}

// NormalizeTransport maps a failure where no response arrived (network error,
// timeout, cancellation) to an APIError with status 0. A context cancellation
// surfaces as a distinct cancelled error, never a generic failure.
func NormalizeTransport(err error) *APIError {
	if errors.Is(err, context.Canceled) {
		return &APIError{
			Status:  0,
			Message: "Operation cancelled",
			err:     ErrCancelled,
		}
	}
	return &APIError{
		Status:  0,
		Message: "No response from server. Please check your connection.",
		err:     err,
	}
}

// NormalizeRequest maps a failure that happened before the request was sent
// (marshalling, request construction) to an APIError with status 0.
func NormalizeRequest(err error) *APIError {
	message := "An unknown error occurred"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return &APIError{
		Status:  0,
		Message: message,
		err:     err,
	}
}
