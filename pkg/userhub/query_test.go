package userhub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub-io/userhub-client/pkg/userhub"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestListOptions_ToValues(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		opts     *userhub.ListOptions
		expected map[string]string
		absent   []string
	}{
		{
			name: "defaults",
			opts: userhub.NewListOptions(),
			expected: map[string]string{
				"page":      "1",
				"limit":     "20",
				"sortBy":    "createdAt",
				"sortOrder": "desc",
			},
			absent: []string{"q", "active", "role", "startDate", "endDate"},
		},
		{
			name: "zero values fall back to defaults",
			opts: &userhub.ListOptions{},
			expected: map[string]string{
				"page":      "1",
				"limit":     "20",
				"sortBy":    "createdAt",
				"sortOrder": "desc",
			},
		},
		{
			name: "pagination and sort",
			opts: userhub.NewListOptions().
				WithPage(3).
				WithLimit(50).
				WithSort("username", userhub.SortAsc),
			expected: map[string]string{
				"page":      "3",
				"limit":     "50",
				"sortBy":    "username",
				"sortOrder": "asc",
			},
		},
		{
			name: "search filter",
			opts: userhub.NewListOptions().WithSearch("dahl"),
			expected: map[string]string{
				"q": "dahl",
			},
		},
		{
			name: "active filter",
			opts: userhub.NewListOptions().WithActive(false),
			expected: map[string]string{
				"active": "false",
			},
		},
		{
			name: "role filter",
			opts: userhub.NewListOptions().WithRole("admin"),
			expected: map[string]string{
				"role": "admin",
			},
		},
		{
			name: "date range",
			opts: userhub.NewListOptions().WithCreatedBetween(from, to),
			expected: map[string]string{
				"startDate": "2026-03-01T12:30:00Z",
				"endDate":   "2026-04-01T00:00:00Z",
			},
		},
		{
			name: "open-ended date range",
			opts: userhub.NewListOptions().WithCreatedBetween(from, time.Time{}),
			expected: map[string]string{
				"startDate": "2026-03-01T12:30:00Z",
			},
			absent: []string{"endDate"},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			values := testCase.opts.ToValues()

			for key, expected := range testCase.expected {
				assert.Equal(t, expected, values.Get(key), "param %q", key)
			}

			for _, key := range testCase.absent {
				assert.False(t, values.Has(key), "param %q should be absent", key)
			}
		})
	}
}

func TestListOptions_Clone(t *testing.T) {
	t.Parallel()

	original := userhub.NewListOptions().WithPage(4).WithSearch("dahl")

	clone := original.Clone()
	clone.Page = 9
	clone.Search = "nord"

	assert.Equal(t, 4, original.Page)
	assert.Equal(t, "dahl", original.Search)
	assert.Equal(t, 9, clone.Page)
}

func TestListOptions_Clone_Nil(t *testing.T) {
	t.Parallel()

	var opts *userhub.ListOptions

	clone := opts.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, userhub.DefaultPage, clone.Page)
	assert.Equal(t, userhub.DefaultLimit, clone.Limit)
}
