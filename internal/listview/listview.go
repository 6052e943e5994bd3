// Package listview implements the user listing view-model: a paginated,
// filterable, selectable view over the users service that re-issues service
// calls on state changes and renders through any frontend.
package listview

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/userhub-io/userhub-client/internal/constants"
	"github.com/userhub-io/userhub-client/internal/util"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// State is the load state of the view.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

// String renders the state name for logs and tests.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ListView holds the presentational state for a user listing. Loads carry a
// monotonically increasing sequence token; a completion whose token is no
// longer the latest is discarded, so rapid state changes cannot be
// overwritten by an earlier, slower call. Prior records stay visible when a
// refresh fails.
type ListView struct {
	users    userhub.UsersClient
	debounce *util.Debouncer

	seq atomic.Uint64

	mu       sync.Mutex
	state    State
	records  []userhub.User
	errMsg   string
	opts     *userhub.ListOptions
	total    *int
	selected map[string]struct{}
}

// New creates a view over the users service with default list options.
func New(users userhub.UsersClient) *ListView {
	return &ListView{
		users:    users,
		debounce: util.NewDebouncer(constants.SearchDebounce),
		state:    StateIdle,
		opts:     userhub.NewListOptions(),
		selected: make(map[string]struct{}),
	}
}

// State returns the current load state.
func (v *ListView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.state
}

// Records returns a copy of the currently displayed records.
func (v *ListView) Records() []userhub.User {
	v.mu.Lock()
	defer v.mu.Unlock()

	return util.CloneSlice(v.records)
}

// ErrorMessage returns the retained error message, empty outside the error
// state.
func (v *ListView) ErrorMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.errMsg
}

// Options returns a copy of the active list options.
func (v *ListView) Options() *userhub.ListOptions {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.opts.Clone()
}

// ReplaceOptions swaps in a full set of list options without reloading.
// Call Load afterwards to fetch with the new options.
func (v *ListView) ReplaceOptions(opts *userhub.ListOptions) {
	if opts == nil {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.opts = opts.Clone()
}

// Total returns the total count reported by the last load, when known.
func (v *ListView) Total() *int {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.total == nil {
		return nil
	}

	total := *v.total

	return &total
}

// Load fetches the current page. It is also the manual retry action.
func (v *ListView) Load(ctx context.Context) {
	v.mu.Lock()
	opts := v.opts.Clone()
	v.state = StateLoading
	// Taken under the same lock as the options snapshot so token order
	// matches snapshot order across concurrent loads.
	token := v.seq.Add(1)
	v.mu.Unlock()

	envelope := v.users.List(ctx, opts)
	v.commit(token, envelope)
}

// SetSearch applies a free-text search and reloads from page one.
func (v *ListView) SetSearch(ctx context.Context, query string) {
	v.mu.Lock()
	v.opts.Search = query
	v.opts.Page = 1
	v.mu.Unlock()

	v.Load(ctx)
}

// SetSearchDebounced schedules a search after the input quiet period,
// coalescing bursts of keystrokes into one service call.
func (v *ListView) SetSearchDebounced(ctx context.Context, query string) {
	v.debounce.Call(func() {
		v.SetSearch(ctx, query)
	})
}

// SetActiveFilter filters on the active flag and reloads from page one.
// A nil value clears the filter.
func (v *ListView) SetActiveFilter(ctx context.Context, active *bool) {
	v.mu.Lock()
	v.opts.Active = active
	v.opts.Page = 1
	v.mu.Unlock()

	v.Load(ctx)
}

// SetDateFilter filters on the creation window and reloads from page one.
func (v *ListView) SetDateFilter(ctx context.Context, from, to time.Time) {
	v.mu.Lock()
	v.opts.CreatedFrom = nil
	v.opts.CreatedTo = nil
	v.opts.WithCreatedBetween(from, to)
	v.opts.Page = 1
	v.mu.Unlock()

	v.Load(ctx)
}

// SetSort changes the sort order and reloads from page one.
func (v *ListView) SetSort(ctx context.Context, field string, order userhub.SortOrder) {
	v.mu.Lock()
	v.opts.SortBy = field
	v.opts.SortOrder = order
	v.opts.Page = 1
	v.mu.Unlock()

	v.Load(ctx)
}

// SetPage navigates to a page without resetting filters.
func (v *ListView) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	v.mu.Lock()
	v.opts.Page = page
	v.mu.Unlock()

	v.Load(ctx)
}

// NextPage advances one page when one is available.
func (v *ListView) NextPage(ctx context.Context) {
	if !v.HasNextPage() {
		return
	}

	v.mu.Lock()
	v.opts.Page++
	v.mu.Unlock()

	v.Load(ctx)
}

// PrevPage goes back one page, stopping at the first.
func (v *ListView) PrevPage(ctx context.Context) {
	v.mu.Lock()
	if v.opts.Page <= 1 {
		v.mu.Unlock()

		return
	}

	v.opts.Page--
	v.mu.Unlock()

	v.Load(ctx)
}

// HasNextPage reports whether the Next control should be enabled: false when
// the reported total is exhausted, or when the last load returned a short
// page.
func (v *ListView) HasNextPage() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	limit := v.opts.Limit
	if limit <= 0 {
		limit = userhub.DefaultLimit
	}

	if v.total != nil {
		return v.opts.Page*limit < *v.total
	}

	// Without a total header, a short page is the end of the data.
	return v.state == StateLoaded && len(v.records) == limit
}

// ToggleSelect flips the selection state of one record.
func (v *ListView) ToggleSelect(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.selected[id]; ok {
		delete(v.selected, id)
	} else {
		v.selected[id] = struct{}{}
	}
}

// ClearSelection empties the selection set.
func (v *ListView) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.selected = make(map[string]struct{})
}

// SelectedIDs returns the selected identifiers in record order.
func (v *ListView) SelectedIDs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	ids := make([]string, 0, len(v.selected))

	for _, record := range v.records {
		if _, ok := v.selected[record.ID]; ok {
			ids = append(ids, record.ID)
		}
	}

	return ids
}

// DeleteUser deletes one record and reloads the list on success rather than
// patching local state.
func (v *ListView) DeleteUser(ctx context.Context, id string, force bool) *userhub.Envelope[userhub.NoContent] {
	envelope := v.users.Delete(ctx, id, force)
	if envelope.Success {
		v.mu.Lock()
		delete(v.selected, id)
		v.mu.Unlock()

		v.Load(ctx)
	}

	return envelope
}

// BulkUpdateSelected applies an update to every selected record. On success
// the selection is cleared and the list reloaded.
func (v *ListView) BulkUpdateSelected(ctx context.Context, update *userhub.UserUpdateRequest) *userhub.Envelope[userhub.BulkUpdateResult] {
	v.mu.Lock()
	ids := make([]string, 0, len(v.selected))
	for id := range v.selected {
		ids = append(ids, id)
	}
	v.mu.Unlock()

	envelope := v.users.BulkUpdate(ctx, ids, update)
	if envelope.Success {
		v.ClearSelection()
		v.Load(ctx)
	}

	return envelope
}

// commit applies a completed load unless a newer load has started since.
func (v *ListView) commit(token uint64, envelope *userhub.Envelope[[]userhub.User]) {
	if token != v.seq.Load() {
		// A later trigger superseded this call; its result is stale.
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !envelope.Success {
		// Prior records stay visible on a failed refresh.
		v.state = StateError
		v.errMsg = envelope.Error

		return
	}

	v.state = StateLoaded
	v.errMsg = ""

	if envelope.Data != nil {
		v.records = *envelope.Data
	} else {
		v.records = nil
	}

	if envelope.Meta != nil && envelope.Meta.Total != nil {
		total := *envelope.Meta.Total
		v.total = &total
	} else {
		v.total = nil
	}

	v.pruneSelectionLocked()
}

// pruneSelectionLocked drops selected ids no longer present in the records.
func (v *ListView) pruneSelectionLocked() {
	if len(v.selected) == 0 {
		return
	}

	visible := make(map[string]struct{}, len(v.records))
	for _, record := range v.records {
		visible[record.ID] = struct{}{}
	}

	for id := range v.selected {
		if _, ok := visible[id]; !ok {
			delete(v.selected, id)
		}
	}
}
