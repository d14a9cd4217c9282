package googlebooks

import "log/slog"

// NewClientWithBaseURL creates a client pointed at a custom base URL.
// Used by tests running against mock HTTP servers.
func NewClientWithBaseURL(baseURL, apiKey, language string, logger *slog.Logger) *Client {
	c := NewClient(apiKey, language, logger)
	c.baseURL = baseURL
	return c
}
