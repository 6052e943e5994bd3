package userhub

import (
	"time"
)

// User represents a user record in the directory. Records are owned by the
// remote service; the client only holds transient copies.
type User struct {
	ID        string    `json:"id"         yaml:"id"`
	Username  string    `json:"username"   yaml:"username"`
	Email     string    `json:"email"      yaml:"email"`
	FullName  string    `json:"fullName"   yaml:"fullName"`
	AvatarURL string    `json:"avatarUrl"  yaml:"avatarUrl"`
	Active    bool      `json:"active"     yaml:"active"`
	CreatedAt time.Time `json:"createdAt"  yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"  yaml:"updatedAt"`
}

// UserCreateRequest is the payload for creating a user.
type UserCreateRequest struct {
	Username  string `json:"username"            yaml:"username"`
	Email     string `json:"email"               yaml:"email"`
	Password  string `json:"password"            yaml:"password"`
	FullName  string `json:"fullName,omitempty"  yaml:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Active    *bool  `json:"active,omitempty"    yaml:"active,omitempty"`
}

// UserUpdateRequest is the payload for replacing or bulk-updating users.
// All fields are optional; nil fields are omitted from the request body.
type UserUpdateRequest struct {
	Username  *string `json:"username,omitempty"  yaml:"username,omitempty"`
	Email     *string `json:"email,omitempty"     yaml:"email,omitempty"`
	Password  *string `json:"password,omitempty"  yaml:"password,omitempty"`
	FullName  *string `json:"fullName,omitempty"  yaml:"fullName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Active    *bool   `json:"active,omitempty"    yaml:"active,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (r *UserUpdateRequest) IsEmpty() bool {
	return r == nil ||
		(r.Username == nil && r.Email == nil && r.Password == nil &&
			r.FullName == nil && r.AvatarURL == nil && r.Active == nil)
}

// BulkUpdateRequest is the body sent to the bulk-update endpoint.
type BulkUpdateRequest struct {
	IDs        []string           `json:"ids"        yaml:"ids"`
	UpdateData *UserUpdateRequest `json:"updateData" yaml:"updateData"`
}

// BulkUpdateResult reports the outcome of a bulk update.
type BulkUpdateResult struct {
	Updated int      `json:"updated"       yaml:"updated"`
	IDs     []string `json:"ids,omitempty" yaml:"ids,omitempty"`
}

// UserStats is the aggregation returned by the stats endpoint.
type UserStats struct {
	Total    int `json:"total"              yaml:"total"`
	Active   int `json:"active"             yaml:"active"`
	Inactive int `json:"inactive"           yaml:"inactive"`
	New      int `json:"new,omitempty"      yaml:"new,omitempty"`
}

// DateRange narrows a stats aggregation window. Either bound may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// NoContent is the payload type for operations whose success carries no body,
// such as delete.
type NoContent struct{}
