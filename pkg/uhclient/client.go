// Package uhclient provides the entry point for constructing UserHub API
// clients that implement the userhub.Client interface.
//
// Quick start:
//
//	config := &userhub.Config{
//		BaseURL:     "https://api.userhub.example.com",
//		AccessToken: os.Getenv("USERHUB_TOKEN"),
//	}
//
//	client, err := uhclient.New(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result := client.Users().List(ctx, nil)
//	if !result.Success {
//		log.Fatalf("listing users: %s", result.Error)
//	}
package uhclient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/userhub-io/userhub-client/internal/client"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired = errors.New("config is required")
)

// New creates a new UserHub API client. The base URL is normalized by
// trimming a trailing slash and defaulting to https when no scheme is
// present.
func New(config *userhub.Config) (userhub.Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, userhub.ErrBaseURLRequired
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	config.BaseURL = baseURL

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return apiClient, nil
}
