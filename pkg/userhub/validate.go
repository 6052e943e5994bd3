package userhub

import (
	"github.com/userhub-io/userhub-client/internal/util"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Validate performs the pre-flight checks for a create request: required
// field presence, a coarse email-format check, and the minimum password
// length. It returns a *ValidationError describing every failed field, or
// nil. Validation never issues a network call.
func (r *UserCreateRequest) Validate() error {
	verr := &ValidationError{}

	if r.Username == "" {
		verr.Add("username", "username is required")
	}

	switch {
	case r.Email == "":
		verr.Add("email", "email is required")
	case !util.IsEmail(r.Email):
		verr.Add("email", "email format is invalid")
	}

	switch {
	case r.Password == "":
		verr.Add("password", "password is required")
	case len(r.Password) < MinPasswordLength:
		verr.Add("password", "password must be at least 8 characters")
	}

	return verr.OrNil()
}

// Validate checks the fields an update request actually carries. An update
// with no fields at all is rejected, as is a malformed email or a short
// password.
func (r *UserUpdateRequest) Validate() error {
	if r.IsEmpty() {
		return ErrEmptyUpdate
	}

	verr := &ValidationError{}

	if r.Username != nil && *r.Username == "" {
		verr.Add("username", "username cannot be empty")
	}

	if r.Email != nil && !util.IsEmail(*r.Email) {
		verr.Add("email", "email format is invalid")
	}

	if r.Password != nil && len(*r.Password) < MinPasswordLength {
		verr.Add("password", "password must be at least 8 characters")
	}

	return verr.OrNil()
}
