//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const testToken = "integration-token"

// fakeDirectory is an in-memory UserHub API used to exercise the client
// end to end without a deployed service.
type fakeDirectory struct {
	mu     sync.Mutex
	users  map[string]*storedUser
	nextID int
}

type storedUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
	Active    bool      `json:"active"`
	Protected bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type updatePayload struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FullName  *string `json:"fullName"`
	AvatarURL *string `json:"avatarUrl"`
	Active    *bool   `json:"active"`
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[string]*storedUser)}
}

// Serve starts an httptest server backed by the directory. The caller owns
// the returned server and must Close it.
func (d *fakeDirectory) Serve() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users", d.requireAuth(d.handleCollection))
	mux.HandleFunc("/api/users/", d.requireAuth(d.handleItem))

	return httptest.NewServer(mux)
}

func (d *fakeDirectory) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer "+testToken {
			writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token")

			return
		}

		next(writer, request)
	}
}

func (d *fakeDirectory) handleCollection(writer http.ResponseWriter, request *http.Request) {
	switch request.Method {
	case http.MethodGet:
		d.list(writer, request)
	case http.MethodPost:
		d.create(writer, request)
	default:
		writeError(writer, http.StatusMethodNotAllowed, "CLIENT_ERROR", "method not allowed")
	}
}

func (d *fakeDirectory) handleItem(writer http.ResponseWriter, request *http.Request) {
	rest := strings.TrimPrefix(request.URL.Path, "/api/users/")

	switch rest {
	case "bulk-update":
		d.bulkUpdate(writer, request)

		return
	case "stats":
		d.stats(writer, request)

		return
	}

	d.mu.Lock()
	user, ok := d.users[rest]
	d.mu.Unlock()

	if !ok {
		writeError(writer, http.StatusNotFound, "USER_NOT_FOUND", "user does not exist")

		return
	}

	switch request.Method {
	case http.MethodGet:
		writeJSON(writer, http.StatusOK, user)
	case http.MethodPut, http.MethodPatch:
		d.update(writer, request, user)
	case http.MethodDelete:
		d.delete(writer, request, user)
	default:
		writeError(writer, http.StatusMethodNotAllowed, "CLIENT_ERROR", "method not allowed")
	}
}

func (d *fakeDirectory) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 {
		limit = 20
	}

	search := strings.ToLower(query.Get("q"))

	d.mu.Lock()

	matched := make([]*storedUser, 0, len(d.users))

	for _, user := range d.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Username), search) &&
			!strings.Contains(strings.ToLower(user.Email), search) &&
			!strings.Contains(strings.ToLower(user.FullName), search) {
			continue
		}

		if active := query.Get("active"); active != "" {
			want, _ := strconv.ParseBool(active)
			if user.Active != want {
				continue
			}
		}

		matched = append(matched, user)
	}

	d.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if query.Get("sortOrder") == "asc" {
			return matched[i].Username < matched[j].Username
		}

		return matched[i].Username > matched[j].Username
	})

	total := len(matched)

	start := (page - 1) * limit
	if start > total {
		start = total
	}

	end := start + limit
	if end > total {
		end = total
	}

	writer.Header().Set("X-Total-Count", strconv.Itoa(total))
	writer.Header().Set("X-Page", strconv.Itoa(page))
	writer.Header().Set("X-Limit", strconv.Itoa(limit))
	writeJSON(writer, http.StatusOK, matched[start:end])
}

func (d *fakeDirectory) create(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
		Active   *bool  `json:"active"`
	}

	if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
		writeError(writer, http.StatusBadRequest, "CLIENT_ERROR", "malformed body")

		return
	}

	d.mu.Lock()

	d.nextID++

	user := &storedUser{
		ID:        fmt.Sprintf("user-%d", d.nextID),
		Username:  payload.Username,
		Email:     payload.Email,
		FullName:  payload.FullName,
		Active:    payload.Active == nil || *payload.Active,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	d.users[user.ID] = user

	d.mu.Unlock()

	writeJSON(writer, http.StatusCreated, user)
}

func (d *fakeDirectory) update(writer http.ResponseWriter, request *http.Request, user *storedUser) {
	var payload updatePayload

	if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
		writeError(writer, http.StatusBadRequest, "CLIENT_ERROR", "malformed body")

		return
	}

	d.mu.Lock()
	applyUpdate(user, &payload)
	d.mu.Unlock()

	writeJSON(writer, http.StatusOK, user)
}

func (d *fakeDirectory) delete(writer http.ResponseWriter, request *http.Request, user *storedUser) {
	if user.Protected && request.Header.Get("X-Force-Delete") != "true" {
		writeError(writer, http.StatusConflict, "USER_HAS_RECORDS", "user owns records, force delete required")

		return
	}

	d.mu.Lock()
	delete(d.users, user.ID)
	d.mu.Unlock()

	writer.WriteHeader(http.StatusNoContent)
}

func (d *fakeDirectory) bulkUpdate(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		IDs        []string       `json:"ids"`
		UpdateData *updatePayload `json:"updateData"`
	}

	if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
		writeError(writer, http.StatusBadRequest, "CLIENT_ERROR", "malformed body")

		return
	}

	d.mu.Lock()

	updated := make([]string, 0, len(payload.IDs))

	for _, id := range payload.IDs {
		user, ok := d.users[id]
		if !ok {
			continue
		}

		applyUpdate(user, payload.UpdateData)
		updated = append(updated, id)
	}

	d.mu.Unlock()

	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"updated": len(updated),
		"ids":     updated,
	})
}

func (d *fakeDirectory) stats(writer http.ResponseWriter, _ *http.Request) {
	d.mu.Lock()

	var active int

	for _, user := range d.users {
		if user.Active {
			active++
		}
	}

	total := len(d.users)

	d.mu.Unlock()

	writeJSON(writer, http.StatusOK, map[string]int{
		"total":    total,
		"active":   active,
		"inactive": total - active,
	})
}

func applyUpdate(user *storedUser, payload *updatePayload) {
	if payload == nil {
		return
	}

	if payload.Username != nil {
		user.Username = *payload.Username
	}

	if payload.Email != nil {
		user.Email = *payload.Email
	}

	if payload.FullName != nil {
		user.FullName = *payload.FullName
	}

	if payload.AvatarURL != nil {
		user.AvatarURL = *payload.AvatarURL
	}

	if payload.Active != nil {
		user.Active = *payload.Active
	}

	user.UpdatedAt = time.Now().UTC()
}

func writeJSON(writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
