package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userhub-io/userhub-client/internal/auth"
)

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := auth.NewStaticTokenManager("static-token")

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static-token", token)

	err = manager.RefreshToken(context.Background())
	require.ErrorIs(t, err, auth.ErrStaticTokenCannotRefresh)

	manager.SetToken("replacement-token", time.Time{})

	token, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "replacement-token", token)
}

func TestOAuth2TokenManager_RequiresTokenURL(t *testing.T) {
	t.Parallel()

	_, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		ClientID:     "client",
		ClientSecret: "secret",
	})
	require.ErrorIs(t, err, auth.ErrTokenURLRequired)
}

func TestOAuth2TokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("fetches token via client credentials", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requests++

			assert.Equal(t, "POST", request.Method)

			err := request.ParseForm()
			require.NoError(t, err)

			writer.Header().Set("Content-Type", "application/json")

			err = json.NewEncoder(writer).Encode(map[string]interface{}{
				"access_token": "issued-token",
				"token_type":   "bearer",
				"expires_in":   3600,
			})
			require.NoError(t, err)
		}))
		defer server.Close()

		manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     server.URL + "/oauth/token",
			ClientID:     "client",
			ClientSecret: "secret",
		})
		require.NoError(t, err)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "issued-token", token)

		// Cached token source should not hit the server again.
		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "issued-token", token)
		assert.Equal(t, 1, requests)
	})

	t.Run("manual override wins until expiry", func(t *testing.T) {
		t.Parallel()

		manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL: "http://localhost:0/oauth/token",
		})
		require.NoError(t, err)

		manager.SetToken("override-token", time.Now().Add(time.Hour))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "override-token", token)
	})

	t.Run("expired override falls through to grant", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")

			err := json.NewEncoder(writer).Encode(map[string]interface{}{
				"access_token": "fresh-token",
				"token_type":   "bearer",
				"expires_in":   3600,
			})
			require.NoError(t, err)
		}))
		defer server.Close()

		manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL: server.URL + "/oauth/token",
		})
		require.NoError(t, err)

		manager.SetToken("stale-token", time.Now().Add(-time.Minute))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
	})
}
