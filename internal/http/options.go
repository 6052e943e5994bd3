package http

import (
	"net/http/cookiejar"
	"time"

	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging when a logger is set.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout sets the default per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetryPolicy sets the pipeline-wide retry policy.
func WithRetryPolicy(policy userhub.RetryPolicy) Option {
	return func(c *Client) {
		if policy.Attempts > 0 {
			c.retry.Attempts = policy.Attempts
		}

		if policy.Delay >= 0 {
			c.retry.Delay = policy.Delay
		}
	}
}

// WithDefaultHeaders seeds the default header set.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for name, value := range headers {
			c.defaultHeaders[name] = value
		}
	}
}

// WithCookieJar enables cookie persistence across calls, the equivalent of
// a browser client's credential-inclusion mode.
func WithCookieJar() Option {
	return func(c *Client) {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return
		}

		c.jar = jar
	}
}
