package userhub

import (
	"net/url"
	"strconv"
	"time"
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// List defaults applied when the caller does not override them.
const (
	DefaultPage      = 1
	DefaultLimit     = 20
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = SortDesc
)

// ListOptions shapes list and search calls: pagination, sorting, and the
// active filters. Date-range bounds are serialized to RFC 3339 before
// transmission.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder

	// Filters
	Search      string
	Active      *bool
	Role        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// NewListOptions returns options populated with the list defaults.
func NewListOptions() *ListOptions {
	return &ListOptions{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    DefaultSortBy,
		SortOrder: DefaultSortOrder,
	}
}

// WithPage sets the page number.
func (o *ListOptions) WithPage(page int) *ListOptions {
	o.Page = page

	return o
}

// WithLimit sets the page size.
func (o *ListOptions) WithLimit(limit int) *ListOptions {
	o.Limit = limit

	return o
}

// WithSort sets the sort field and direction.
func (o *ListOptions) WithSort(field string, order SortOrder) *ListOptions {
	o.SortBy = field
	o.SortOrder = order

	return o
}

// WithSearch sets the free-text search filter.
func (o *ListOptions) WithSearch(query string) *ListOptions {
	o.Search = query

	return o
}

// WithActive filters on the active flag.
func (o *ListOptions) WithActive(active bool) *ListOptions {
	o.Active = &active

	return o
}

// WithRole filters on a role name.
func (o *ListOptions) WithRole(role string) *ListOptions {
	o.Role = role

	return o
}

// WithCreatedBetween filters on the creation timestamp. Either bound may be
// the zero time to leave that side open.
func (o *ListOptions) WithCreatedBetween(from, to time.Time) *ListOptions {
	if !from.IsZero() {
		o.CreatedFrom = &from
	}

	if !to.IsZero() {
		o.CreatedTo = &to
	}

	return o
}

// Clone returns an independent copy of the options.
func (o *ListOptions) Clone() *ListOptions {
	if o == nil {
		return NewListOptions()
	}

	clone := *o

	return &clone
}

// ToValues converts the options to URL query parameters, filling defaults
// for unset pagination and sort fields.
func (o *ListOptions) ToValues() url.Values {
	values := url.Values{}

	page := o.Page
	if page <= 0 {
		page = DefaultPage
	}

	limit := o.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	values.Set("page", strconv.Itoa(page))
	values.Set("limit", strconv.Itoa(limit))

	sortBy := o.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}

	order := o.SortOrder
	if order == "" {
		order = DefaultSortOrder
	}

	values.Set("sortBy", sortBy)
	values.Set("sortOrder", string(order))

	if o.Search != "" {
		values.Set("q", o.Search)
	}

	if o.Active != nil {
		values.Set("active", strconv.FormatBool(*o.Active))
	}

	if o.Role != "" {
		values.Set("role", o.Role)
	}

	if o.CreatedFrom != nil {
		values.Set("startDate", o.CreatedFrom.UTC().Format(time.RFC3339))
	}

	if o.CreatedTo != nil {
		values.Set("endDate", o.CreatedTo.UTC().Format(time.RFC3339))
	}

	return values
}
