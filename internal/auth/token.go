// Package auth provides token managers for authenticating UserHub API calls.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Static errors for err113 compliance.
var (
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrTokenURLRequired         = errors.New("token URL is required for OAuth2 authentication")
)

// TokenManager supplies and refreshes the bearer token attached to requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// StaticTokenManager serves a fixed token.
type StaticTokenManager struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenManager creates a manager around a pre-issued token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, nil
}

func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}

// OAuth2Config configures the client_credentials grant.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// OAuth2TokenManager obtains tokens through the OAuth2 client_credentials
// grant, caching them until expiry via the token source.
type OAuth2TokenManager struct {
	mu     sync.Mutex
	config *clientcredentials.Config
	source oauth2.TokenSource
	// manual override installed through SetToken
	override  string
	overrides time.Time
}

// NewOAuth2TokenManager creates a client_credentials token manager.
func NewOAuth2TokenManager(config *OAuth2Config) (*OAuth2TokenManager, error) {
	if config.TokenURL == "" {
		return nil, ErrTokenURLRequired
	}

	return &OAuth2TokenManager{
		config: &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       config.Scopes,
		},
	}, nil
}

func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.override != "" && (m.overrides.IsZero() || time.Now().Before(m.overrides)) {
		return m.override, nil
	}

	if m.source == nil {
		m.source = m.config.TokenSource(ctx)
	}

	token, err := m.source.Token()
	if err != nil {
		return "", fmt.Errorf("fetching OAuth2 token: %w", err)
	}

	return token.AccessToken, nil
}

func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Dropping the cached source forces a fresh grant on next use.
	m.source = nil
	m.override = ""

	return nil
}

func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.override = token
	m.overrides = expiresAt
}
