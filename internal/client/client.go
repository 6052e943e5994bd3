// Package client implements the userhub.Client interface: configuration
// wiring, authentication selection, and the users resource service layer.
package client

import (
	"fmt"

	"github.com/userhub-io/userhub-client/internal/auth"
	"github.com/userhub-io/userhub-client/internal/http"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// Client implements the userhub.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       userhub.Logger

	users *UsersClient
}

// New creates a new UserHub API client from configuration.
func New(config *userhub.Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, userhub.ErrBaseURLRequired
	}

	tokenManager, err := createTokenManager(config)
	if err != nil {
		return nil, fmt.Errorf("configuring authentication: %w", err)
	}

	httpClient := http.NewClient(config.BaseURL, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.BaseURL,
		logger:       config.Logger,
	}

	client.users = NewUsersClient(httpClient)

	return client, nil
}

// Users implements userhub.Client.Users.
func (c *Client) Users() userhub.UsersClient {
	return c.users
}

// SetDefaultHeader implements userhub.Client.SetDefaultHeader.
func (c *Client) SetDefaultHeader(name, value string) {
	c.httpClient.SetDefaultHeader(name, value)
}

// RemoveDefaultHeader implements userhub.Client.RemoveDefaultHeader.
func (c *Client) RemoveDefaultHeader(name string) {
	c.httpClient.RemoveDefaultHeader(name)
}

// createTokenManager selects the token manager from the configured
// credentials: static token first, then OAuth2 client credentials, else
// unauthenticated.
func createTokenManager(config *userhub.Config) (auth.TokenManager, error) {
	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken), nil
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     config.TokenURL,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
		})
	}

	return nil, nil
}

// createHTTPClientOptions builds pipeline options from config.
func createHTTPClientOptions(config *userhub.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.Retry.Attempts > 0 {
		httpOpts = append(httpOpts, http.WithRetryPolicy(config.Retry))
	}

	if len(config.DefaultHeaders) > 0 {
		httpOpts = append(httpOpts, http.WithDefaultHeaders(config.DefaultHeaders))
	}

	if config.WithCredentials {
		httpOpts = append(httpOpts, http.WithCookieJar())
	}

	return httpOpts
}

// loggerAdapter adapts userhub.Logger to http.Logger.
type loggerAdapter struct {
	logger userhub.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
