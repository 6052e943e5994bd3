// Package http implements the request/response pipeline: it executes one
// logical API call with bounded retry and normalizes every outcome into
// either a Response or a *userhub.APIError.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/userhub-io/userhub-client/internal/auth"
	"github.com/userhub-io/userhub-client/internal/constants"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// Logger is the structured logging interface used by the pipeline.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes one logical HTTP call before execution. Query is only
// meaningful on read-style calls and Body on write-style calls; the service
// layer never sets both. Timeout and Retry override the client defaults for
// this call only.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	Timeout time.Duration
	Retry   *userhub.RetryPolicy
}

// Response is the transport result of a completed call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes requests against a base URL with bounded retry. Default
// headers are shared mutable configuration; they are only touched through
// SetDefaultHeader/RemoveDefaultHeader, which serialize against in-flight
// header snapshots.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	transport    http.RoundTripper
	jar          http.CookieJar
	timeout      time.Duration
	retry        userhub.RetryPolicy
	userAgent    string
	logger       Logger
	debug        bool

	headerMu       sync.RWMutex
	defaultHeaders map[string]string
}

// NewClient creates a pipeline client for the given base URL. A nil token
// manager sends unauthenticated requests.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenManager: tokenManager,
		transport:    cleanhttp.DefaultPooledTransport(),
		timeout:      constants.DefaultHTTPTimeout,
		retry: userhub.RetryPolicy{
			Attempts: constants.DefaultRetryAttempts,
			Delay:    constants.DefaultRetryDelay,
		},
		userAgent:      "userhub-client/1.0",
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// SetDefaultHeader installs or replaces a header sent with every subsequent
// call.
func (c *Client) SetDefaultHeader(name, value string) {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()

	c.defaultHeaders[name] = value
}

// RemoveDefaultHeader removes a previously installed default header.
func (c *Client) RemoveDefaultHeader(name string) {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()

	delete(c.defaultHeaders, name)
}

// Do executes one logical call. The effective retry policy is the request's
// override or the client default, with the attempt count clamped to at
// least one. Client-class statuses (4xx other than 408 and 429) are never
// retried; 5xx, 429, 408 and transport failures are retried up to the
// attempt ceiling with the policy's fixed delay in between. The last
// attempt's outcome is what gets returned: error statuses come back as the
// Response plus a *userhub.APIError, transport failures as a nil Response
// plus a classified *userhub.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, userhub.NewAPIError(userhub.ErrorCodeUnknown,
			fmt.Sprintf("building request URL: %v", err), 0, err)
	}

	var payload []byte

	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, userhub.NewAPIError(userhub.ErrorCodeUnknown,
				fmt.Sprintf("encoding request body: %v", err), 0, err)
		}
	}

	retryReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, payload)
	if err != nil {
		return nil, userhub.NewAPIError(userhub.ErrorCodeUnknown,
			fmt.Sprintf("constructing request: %v", err), 0, err)
	}

	if err := c.applyHeaders(ctx, retryReq, req); err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	resp, err := c.retryClient(req).Do(retryReq)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}

		return nil, classifyTransportError(err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, userhub.NewAPIError(userhub.ErrorCodeNoResponse,
			fmt.Sprintf("reading response body: %v", err), 0, err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    fullURL,
		})
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return result, userhub.ClassifyResponse(resp.StatusCode, body)
	}

	return result, nil
}

// Get performs a GET request with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) buildURL(req *Request) (string, error) {
	parsed, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", c.baseURL+req.Path, err)
	}

	if len(req.Query) > 0 {
		parsed.RawQuery = req.Query.Encode()
	}

	return parsed.String(), nil
}

func (c *Client) applyHeaders(ctx context.Context, retryReq *retryablehttp.Request, req *Request) error {
	retryReq.Header.Set("Accept", "application/json")
	retryReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		retryReq.Header.Set("Content-Type", "application/json")
	}

	c.headerMu.RLock()
	for name, value := range c.defaultHeaders {
		retryReq.Header.Set(name, value)
	}
	c.headerMu.RUnlock()

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return userhub.NewAPIError(userhub.ErrorCodeUnknown,
				fmt.Sprintf("obtaining access token: %v", err), 0, err)
		}

		if token != "" {
			retryReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for name, value := range req.Headers {
		retryReq.Header.Set(name, value)
	}

	return nil
}

// retryClient assembles the retryablehttp client for one call: the shared
// pooled transport plus the call's effective timeout and retry policy.
func (c *Client) retryClient(req *Request) *retryablehttp.Client {
	policy := c.retry
	if req.Retry != nil {
		policy = *req.Retry
	}

	// Attempt counts below one are clamped rather than left undefined.
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	delay := policy.Delay

	return &retryablehttp.Client{
		HTTPClient: &http.Client{
			Transport: c.transport,
			Jar:       c.jar,
			Timeout:   timeout,
		},
		RetryMax:     attempts - 1,
		RetryWaitMin: delay,
		RetryWaitMax: delay,
		CheckRetry:   checkRetry,
		Backoff: func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
			return delay
		},
		// Passthrough keeps the final attempt's response and error intact
		// for classification instead of wrapping them in a give-up error.
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
}

// checkRetry implements the retry decision: transport failures (including
// per-attempt timeouts) and 5xx/429/408 statuses are retryable; any other
// client-class status stops immediately.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	if resp == nil {
		return true, nil
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return true, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, nil
	case resp.StatusCode == http.StatusRequestTimeout:
		return true, nil
	}

	return false, nil
}

// classifyTransportError distinguishes "request sent, no response arrived"
// from failures before the request could be dispatched.
func classifyTransportError(err error) *userhub.APIError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return userhub.NewAPIError(userhub.ErrorCodeNoResponse,
			fmt.Sprintf("no response received: %v", urlErr.Err), 0, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return userhub.NewAPIError(userhub.ErrorCodeNoResponse,
			fmt.Sprintf("request aborted: %v", err), 0, err)
	}

	return userhub.NewAPIError(userhub.ErrorCodeUnknown,
		fmt.Sprintf("request could not be sent: %v", err), 0, err)
}
