// Package shopapi is a Go client for the marketplace REST API: auth,
// product catalogue and cart endpoints.
package shopapi

import "time"

// DefaultBaseURL is the API address used when nothing else is configured.
const DefaultBaseURL = "http://localhost:3333"

// DefaultTimeout bounds each request at the transport level.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// Timeout is the HTTP client timeout for each request. Zero means no timeout.
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// DefaultConfig returns a Config pointing at the local API.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// WithBaseURL returns a copy of the config with the specified base URL.
func (c Config) WithBaseURL(u string) Config {
	c.BaseURL = u
	return c
}

// WithTimeout returns a copy of the config with the specified timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}
