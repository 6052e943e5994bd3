package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uhhttp "github.com/userhub-io/userhub-client/internal/http"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	token string
	err   error
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

func (m *MockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

// noRetry keeps transport-level tests to a single attempt.
var noRetry = userhub.RetryPolicy{Attempts: 1, Delay: time.Millisecond}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/users/user-1", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]string{"id": "user-1", "username": "adahlberg"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := uhhttp.NewClient(server.URL, tokenManager)

		req := &uhhttp.Request{
			Method: "GET",
			Path:   "/api/users/user-1",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "user-1", result["id"])
		assert.Equal(t, "adahlberg", result["username"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/users", request.URL.Path)
			assert.Equal(t, "page=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := uhhttp.NewClient(server.URL, nil)

		req := &uhhttp.Request{
			Method: "GET",
			Path:   "/api/users",
			Query:  url.Values{"page": []string{"2"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "adahlberg", body["username"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := uhhttp.NewClient(server.URL, nil)

		req := &uhhttp.Request{
			Method: "POST",
			Path:   "/api/users",
			Body:   map[string]string{"username": "adahlberg"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{
				"code":    "USER_NOT_FOUND",
				"message": "user does not exist",
			})
		}))
		defer server.Close()

		client := uhhttp.NewClient(server.URL, nil)

		req := &uhhttp.Request{
			Method: "GET",
			Path:   "/api/users/missing",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		apiErr := &userhub.APIError{}
		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Equal(t, userhub.ErrorCode("USER_NOT_FOUND"), apiErr.Code)
		assert.Equal(t, "user does not exist", apiErr.Message)
		assert.Equal(t, 404, apiErr.StatusCode)
	})

	t.Run("error response without body falls back to status class", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := uhhttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/api/users", nil)
		require.Error(t, err)
		assert.Equal(t, 403, resp.StatusCode)

		apiErr := &userhub.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, userhub.ErrorCodeClient, apiErr.Code)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := uhhttp.NewClient(server.URL, nil)

		req := &uhhttp.Request{
			Method: "GET",
			Path:   "/api/users",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("default headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "tenant-42", request.Header.Get("X-Tenant"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := uhhttp.NewClient(server.URL, nil)
		client.SetDefaultHeader("X-Tenant", "tenant-42")

		resp, err := client.Get(context.Background(), "/api/users", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		client.RemoveDefaultHeader("X-Tenant")
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := uhhttp.NewClient(server.URL, nil, uhhttp.WithLogger(logger), uhhttp.WithDebug(true))

		req := &uhhttp.Request{
			Method: "GET",
			Path:   "/api/users",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		// Should have logged request and response
		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})

	t.Run("no response classification", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		server.Close()

		client := uhhttp.NewClient(server.URL, nil, uhhttp.WithRetryPolicy(noRetry))

		resp, err := client.Get(context.Background(), "/api/users", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, userhub.IsNoResponse(err))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*uhhttp.Client, context.Context) (*uhhttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *uhhttp.Client, ctx context.Context) (*uhhttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *uhhttp.Client, ctx context.Context) (*uhhttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *uhhttp.Client, ctx context.Context) (*uhhttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *uhhttp.Client, ctx context.Context) (*uhhttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *uhhttp.Client, ctx context.Context) (*uhhttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := uhhttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		policy := userhub.RetryPolicy{Attempts: 3, Delay: 10 * time.Millisecond}
		client := uhhttp.NewClient(server.URL, nil, uhhttp.WithRetryPolicy(policy))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		policy := userhub.RetryPolicy{Attempts: 3, Delay: 10 * time.Millisecond}
		client := uhhttp.NewClient(server.URL, nil, uhhttp.WithRetryPolicy(policy))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 2, attempts)
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		policy := userhub.RetryPolicy{Attempts: 3, Delay: 10 * time.Millisecond}
		client := uhhttp.NewClient(server.URL, nil, uhhttp.WithRetryPolicy(policy))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, 1, attempts) // Should not retry
	})

	t.Run("gives up after the attempt ceiling", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		policy := userhub.RetryPolicy{Attempts: 2, Delay: 10 * time.Millisecond}
		client := uhhttp.NewClient(server.URL, nil, uhhttp.WithRetryPolicy(policy))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, 2, attempts)

		apiErr := &userhub.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, userhub.ErrorCodeServer, apiErr.Code)
	})

	t.Run("per-request policy overrides the default", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		policy := userhub.RetryPolicy{Attempts: 5, Delay: 10 * time.Millisecond}
		client := uhhttp.NewClient(server.URL, nil, uhhttp.WithRetryPolicy(policy))

		req := &uhhttp.Request{
			Method: "GET",
			Path:   "/test",
			Retry:  &userhub.RetryPolicy{Attempts: 1, Delay: time.Millisecond},
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("attempts below one are clamped to one", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		// The server always fails, so only the clamp keeps the call to a
		// single attempt instead of zero or an unbounded loop.
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := uhhttp.NewClient(server.URL, nil)

		req := &uhhttp.Request{
			Method: "GET",
			Path:   "/test",
			Retry:  &userhub.RetryPolicy{Attempts: 0, Delay: time.Millisecond},
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("waits the configured delay between attempts", func(t *testing.T) {
		t.Parallel()

		var stamps []time.Time

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			stamps = append(stamps, time.Now())

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		delay := 120 * time.Millisecond
		policy := userhub.RetryPolicy{Attempts: 3, Delay: delay}
		client := uhhttp.NewClient(server.URL, nil, uhhttp.WithRetryPolicy(policy))

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		require.Len(t, stamps, 3)

		// Allow a little timer coarseness below the nominal delay.
		for i := 1; i < len(stamps); i++ {
			gap := stamps[i].Sub(stamps[i-1])
			assert.GreaterOrEqual(t, gap, delay-20*time.Millisecond,
				"attempt %d started only %v after the previous one", i+1, gap)
		}
	})
}
