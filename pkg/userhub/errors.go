package userhub

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode classifies a fault surfaced on an Envelope.
type ErrorCode string

const (
	// ErrorCodeValidation marks a pre-flight validation failure detected
	// before any network call was made.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrorCodeClient marks a 4xx answer from the remote endpoint.
	ErrorCodeClient ErrorCode = "CLIENT_ERROR"

	// ErrorCodeServer marks a 5xx answer from the remote endpoint, or a code
	// the response body itself declared.
	ErrorCodeServer ErrorCode = "SERVER_ERROR"

	// ErrorCodeNoResponse marks a request that left the client but never got
	// an answer (connectivity loss, timeout).
	ErrorCodeNoResponse ErrorCode = "NO_RESPONSE"

	// ErrorCodeUnknown marks a failure before the request could be sent.
	ErrorCodeUnknown ErrorCode = "UNKNOWN_ERROR"
)

// Static errors for err113 compliance.
var (
	ErrBaseURLRequired  = errors.New("base URL is required")
	ErrEmptyBulkIDs     = errors.New("bulk update requires at least one user id")
	ErrEmptyUpdate      = errors.New("update request carries no fields")
	ErrUserIDRequired   = errors.New("user id is required")
	ErrNilCreateRequest = errors.New("create request is required")
	ErrNilUpdateRequest = errors.New("update request is required")
)

// APIError is the normalized form of any failure raised on the network path.
// It is produced by the request pipeline and consumed to build failure
// envelopes; callers normally see it only through Envelope fields.
type APIError struct {
	Code       ErrorCode       `json:"code"              yaml:"code"`
	Message    string          `json:"message"           yaml:"message"`
	StatusCode int             `json:"status"            yaml:"status"`
	Details    json.RawMessage `json:"details,omitempty" yaml:"details,omitempty"`
	cause      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// NewAPIError builds an APIError wrapping an optional cause.
func NewAPIError(code ErrorCode, message string, statusCode int, cause error) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		cause:      cause,
	}
}

// remoteErrorBody is the error shape the UserHub API returns.
type remoteErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ClassifyResponse normalizes an error status answered by the remote
// endpoint. The symbolic code comes from the body's code field when present,
// the message from its message (or error) field, falling back to a generic
// description of the status.
func ClassifyResponse(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Code:       ErrorCodeServer,
		Message:    fmt.Sprintf("request failed with status %d", statusCode),
		StatusCode: statusCode,
	}

	if statusCode >= 400 && statusCode < 500 {
		apiErr.Code = ErrorCodeClient
	}

	if len(body) > 0 {
		apiErr.Details = json.RawMessage(body)

		var remote remoteErrorBody
		if err := json.Unmarshal(body, &remote); err == nil {
			if remote.Code != "" {
				apiErr.Code = ErrorCode(remote.Code)
			}

			switch {
			case remote.Message != "":
				apiErr.Message = remote.Message
			case remote.Error != "":
				apiErr.Message = remote.Error
			}
		}
	}

	return apiErr
}

// IsValidation reports whether the error is a pre-flight validation fault.
func IsValidation(err error) bool {
	validationErr := &ValidationError{}
	if errors.As(err, &validationErr) {
		return true
	}

	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Code == ErrorCodeValidation
}

// IsNoResponse reports whether the error indicates the request was sent but
// no response arrived.
func IsNoResponse(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Code == ErrorCodeNoResponse
}

// IsRemote reports whether the error carries a response from the remote
// endpoint (any error status).
func IsRemote(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.StatusCode > 0
}

// ValidationError aggregates per-field pre-flight validation failures.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface, listing fields deterministically.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field failure, allocating the map on first use.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}

	e.Fields[field] = message
}

// OrNil returns the error if any field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}

	return e
}
