package userhub

import (
	"net/http"
	"strconv"
)

// Pagination metadata header names the UserHub API sets on list responses.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderLimit      = "X-Limit"
)

// ListMeta carries pagination metadata extracted from response headers.
// A nil field means the corresponding header was missing or unparsable,
// which is distinct from a zero value.
type ListMeta struct {
	Total *int `json:"total,omitempty" yaml:"total,omitempty"`
	Page  *int `json:"page,omitempty"  yaml:"page,omitempty"`
	Limit *int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Envelope is the normalized result of every service call. Exactly one of
// Data and Error is meaningfully populated: success implies Error is empty,
// failure implies Data is nil. An Envelope is never mutated after
// construction.
type Envelope[T any] struct {
	Success    bool      `json:"success"              yaml:"success"`
	Data       *T        `json:"data,omitempty"       yaml:"data,omitempty"`
	Error      string    `json:"error,omitempty"      yaml:"error,omitempty"`
	Code       ErrorCode `json:"code,omitempty"       yaml:"code,omitempty"`
	StatusCode int       `json:"status"               yaml:"status"`
	Meta       *ListMeta `json:"meta,omitempty"       yaml:"meta,omitempty"`
	Details    []byte    `json:"details,omitempty"    yaml:"details,omitempty"`
}

// Ok builds a success envelope.
func Ok[T any](data *T, statusCode int, meta *ListMeta) *Envelope[T] {
	return &Envelope[T]{
		Success:    true,
		Data:       data,
		StatusCode: statusCode,
		Meta:       meta,
	}
}

// Fail builds a failure envelope from a normalized error.
func Fail[T any](apiErr *APIError) *Envelope[T] {
	return &Envelope[T]{
		Success:    false,
		Error:      apiErr.Message,
		Code:       apiErr.Code,
		StatusCode: apiErr.StatusCode,
		Details:    apiErr.Details,
	}
}

// FailValidation builds a failure envelope from a pre-flight validation
// fault. No network call was made, so the status code is zero.
func FailValidation[T any](err error) *Envelope[T] {
	return &Envelope[T]{
		Success: false,
		Error:   err.Error(),
		Code:    ErrorCodeValidation,
	}
}

// ParseListMeta extracts pagination metadata from response headers. It
// returns nil when none of the recognized headers parse, so callers can
// distinguish "no metadata" from "metadata with zero values".
func ParseListMeta(headers http.Header) *ListMeta {
	meta := &ListMeta{
		Total: parseIntHeader(headers, HeaderTotalCount),
		Page:  parseIntHeader(headers, HeaderPage),
		Limit: parseIntHeader(headers, HeaderLimit),
	}

	if meta.Total == nil && meta.Page == nil && meta.Limit == nil {
		return nil
	}

	return meta
}

func parseIntHeader(headers http.Header, name string) *int {
	raw := headers.Get(name)
	if raw == "" {
		return nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}

	return &value
}
