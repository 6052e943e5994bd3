package constants

import "errors"

// CLI configuration errors.
var (
	ErrAPIEndpointRequired = errors.New("API endpoint is required (use --api or set it in the config file)")
	ErrRequestFailed       = errors.New("request failed")
)

// Required flag errors.
var (
	ErrUserIDRequired       = errors.New("user ID is required")
	ErrUsernameRequired     = errors.New("username is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrNoUpdateFlags        = errors.New("at least one update flag is required")
	ErrAtLeastOneIDRequired = errors.New("at least one user ID is required")
)

// Validation errors.
var (
	ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD or RFC3339)")
)
