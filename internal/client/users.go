package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/userhub-io/userhub-client/internal/http"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// API paths for the users resource.
const (
	usersPath      = "/api/users"
	bulkUpdatePath = usersPath + "/bulk-update"
	statsPath      = usersPath + "/stats"
)

// HeaderForceDelete signals the server to override dependency checks on
// delete.
const HeaderForceDelete = "X-Force-Delete"

// UsersClient implements userhub.UsersClient.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{httpClient: httpClient}
}

// List implements userhub.UsersClient.List. Missing options fall back to
// the defaults (page 1, limit 20, newest first).
func (c *UsersClient) List(ctx context.Context, opts *userhub.ListOptions) *userhub.Envelope[[]userhub.User] {
	if opts == nil {
		opts = userhub.NewListOptions()
	}

	return execute[[]userhub.User](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   usersPath,
		Query:  opts.ToValues(),
	})
}

// Search implements userhub.UsersClient.Search. It is a list call with the
// free-text query applied on top of the remaining options.
func (c *UsersClient) Search(ctx context.Context, query string, opts *userhub.ListOptions) *userhub.Envelope[[]userhub.User] {
	opts = opts.Clone()
	opts.Search = query

	return c.List(ctx, opts)
}

// Get implements userhub.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, id string, includeRelated bool) *userhub.Envelope[userhub.User] {
	if id == "" {
		return userhub.FailValidation[userhub.User](userhub.ErrUserIDRequired)
	}

	var query url.Values
	if includeRelated {
		query = url.Values{"includeRelated": []string{"true"}}
	}

	return execute[userhub.User](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   fmt.Sprintf("%s/%s", usersPath, url.PathEscape(id)),
		Query:  query,
	})
}

// Create implements userhub.UsersClient.Create. Pre-flight validation runs
// before any network call; a failed check comes back as a validation
// envelope with zero transport invocations.
func (c *UsersClient) Create(ctx context.Context, request *userhub.UserCreateRequest) *userhub.Envelope[userhub.User] {
	if request == nil {
		return userhub.FailValidation[userhub.User](userhub.ErrNilCreateRequest)
	}

	if err := request.Validate(); err != nil {
		return userhub.FailValidation[userhub.User](err)
	}

	return execute[userhub.User](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   usersPath,
		Body:   request,
	})
}

// Update implements userhub.UsersClient.Update as a full replace.
func (c *UsersClient) Update(ctx context.Context, id string, request *userhub.UserUpdateRequest) *userhub.Envelope[userhub.User] {
	if id == "" {
		return userhub.FailValidation[userhub.User](userhub.ErrUserIDRequired)
	}

	if request == nil {
		return userhub.FailValidation[userhub.User](userhub.ErrNilUpdateRequest)
	}

	if err := request.Validate(); err != nil {
		return userhub.FailValidation[userhub.User](err)
	}

	return execute[userhub.User](ctx, c.httpClient, &http.Request{
		Method: "PUT",
		Path:   fmt.Sprintf("%s/%s", usersPath, url.PathEscape(id)),
		Body:   request,
	})
}

// Activate implements userhub.UsersClient.Activate.
func (c *UsersClient) Activate(ctx context.Context, id string) *userhub.Envelope[userhub.User] {
	return c.setActive(ctx, id, true)
}

// Deactivate implements userhub.UsersClient.Deactivate.
func (c *UsersClient) Deactivate(ctx context.Context, id string) *userhub.Envelope[userhub.User] {
	return c.setActive(ctx, id, false)
}

func (c *UsersClient) setActive(ctx context.Context, id string, active bool) *userhub.Envelope[userhub.User] {
	if id == "" {
		return userhub.FailValidation[userhub.User](userhub.ErrUserIDRequired)
	}

	return execute[userhub.User](ctx, c.httpClient, &http.Request{
		Method: "PATCH",
		Path:   fmt.Sprintf("%s/%s", usersPath, url.PathEscape(id)),
		Body:   &userhub.UserUpdateRequest{Active: &active},
	})
}

// Delete implements userhub.UsersClient.Delete. The force variant attaches
// the override header so the server skips dependency checks.
func (c *UsersClient) Delete(ctx context.Context, id string, force bool) *userhub.Envelope[userhub.NoContent] {
	if id == "" {
		return userhub.FailValidation[userhub.NoContent](userhub.ErrUserIDRequired)
	}

	req := &http.Request{
		Method: "DELETE",
		Path:   fmt.Sprintf("%s/%s", usersPath, url.PathEscape(id)),
	}

	if force {
		req.Headers = map[string]string{HeaderForceDelete: "true"}
	}

	return executeNoContent(ctx, c.httpClient, req)
}

// BulkUpdate implements userhub.UsersClient.BulkUpdate. An empty target set
// fails fast without a network call.
func (c *UsersClient) BulkUpdate(ctx context.Context, ids []string, update *userhub.UserUpdateRequest) *userhub.Envelope[userhub.BulkUpdateResult] {
	if len(ids) == 0 {
		return userhub.FailValidation[userhub.BulkUpdateResult](userhub.ErrEmptyBulkIDs)
	}

	if update == nil || update.IsEmpty() {
		return userhub.FailValidation[userhub.BulkUpdateResult](userhub.ErrEmptyUpdate)
	}

	if err := update.Validate(); err != nil {
		return userhub.FailValidation[userhub.BulkUpdateResult](err)
	}

	return execute[userhub.BulkUpdateResult](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   bulkUpdatePath,
		Body: &userhub.BulkUpdateRequest{
			IDs:        ids,
			UpdateData: update,
		},
	})
}

// Stats implements userhub.UsersClient.Stats. A date range narrows the
// aggregation window; bounds are serialized to RFC 3339.
func (c *UsersClient) Stats(ctx context.Context, dateRange *userhub.DateRange) *userhub.Envelope[userhub.UserStats] {
	var query url.Values

	if dateRange != nil {
		query = url.Values{}

		if dateRange.Start != nil {
			query.Set("startDate", dateRange.Start.UTC().Format(time.RFC3339))
		}

		if dateRange.End != nil {
			query.Set("endDate", dateRange.End.UTC().Format(time.RFC3339))
		}
	}

	return execute[userhub.UserStats](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   statsPath,
		Query:  query,
	})
}
