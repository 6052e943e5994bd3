package userhub

import (
	"context"
	"time"
)

// UsersClient is the resource service layer for the User resource. Every
// operation translates a domain intent into one HTTP call through the
// request pipeline and returns a normalized Envelope; no method panics or
// returns a Go error for network-path failures.
type UsersClient interface {
	List(ctx context.Context, opts *ListOptions) *Envelope[[]User]
	Search(ctx context.Context, query string, opts *ListOptions) *Envelope[[]User]
	Get(ctx context.Context, id string, includeRelated bool) *Envelope[User]
	Create(ctx context.Context, request *UserCreateRequest) *Envelope[User]
	Update(ctx context.Context, id string, request *UserUpdateRequest) *Envelope[User]
	Activate(ctx context.Context, id string) *Envelope[User]
	Deactivate(ctx context.Context, id string) *Envelope[User]
	Delete(ctx context.Context, id string, force bool) *Envelope[NoContent]
	BulkUpdate(ctx context.Context, ids []string, update *UserUpdateRequest) *Envelope[BulkUpdateResult]
	Stats(ctx context.Context, dateRange *DateRange) *Envelope[UserStats]
}

// Client is the top-level UserHub API client.
type Client interface {
	Users() UsersClient

	// SetDefaultHeader installs or replaces a header sent with every
	// subsequent call. Safe for concurrent use.
	SetDefaultHeader(name, value string)

	// RemoveDefaultHeader removes a previously installed default header.
	RemoveDefaultHeader(name string)
}

// Logger is the structured logging interface used by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// RetryPolicy governs how a failed call is retried: total attempt count and
// the fixed delay between attempts. Attempts below 1 are treated as 1.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Config represents client configuration for building a userhub.Client.
//
// Authentication precedence:
//  1. AccessToken: used directly as a static Bearer token.
//  2. ClientID/ClientSecret: OAuth2 client_credentials grant against TokenURL.
//  3. No credentials: requests are sent without an Authorization header.
type Config struct {
	// BaseURL is the API base, e.g. "https://api.userhub.example.com".
	BaseURL string

	// Authentication options (provide one).
	AccessToken  string
	ClientID     string
	ClientSecret string
	TokenURL     string

	// HTTPTimeout is the per-request timeout. Zero selects the default.
	HTTPTimeout time.Duration

	// Retry is the pipeline-wide retry policy. The zero value selects the
	// defaults (3 attempts, one second apart). Individual calls may
	// override it.
	Retry RetryPolicy

	// DefaultHeaders are sent with every request until changed through the
	// client's header methods.
	DefaultHeaders map[string]string

	// WithCredentials enables a cookie jar on the underlying transport so
	// session cookies set by the remote are replayed on subsequent calls.
	WithCredentials bool

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Debug enables verbose request/response logging when Logger is set.
	Debug bool

	// Logger receives structured logs from the HTTP layer.
	Logger Logger
}
