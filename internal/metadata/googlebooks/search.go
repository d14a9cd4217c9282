package googlebooks

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultMaxResults = 10
	maxMaxResults     = 40
)

// ErrVolumeNotFound is returned when a volume ID does not exist.
var ErrVolumeNotFound = errors.New("volume not found")

// Search runs a free-text volume search.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Volume, error) {
	return c.searchVolumes(ctx, query, maxResults)
}

// SearchByISBN looks up a volume by ISBN. At most one result is
// returned since an ISBN identifies a single edition.
func (c *Client) SearchByISBN(ctx context.Context, isbn string) ([]Volume, error) {
	results, err := c.searchVolumes(ctx, "isbn:"+isbn, 1)
	if err != nil {
		return nil, err
	}
	if len(results) > 1 {
		results = results[:1]
	}
	return results, nil
}

// SearchByAuthor searches volumes by author name.
func (c *Client) SearchByAuthor(ctx context.Context, author string, maxResults int) ([]Volume, error) {
	return c.searchVolumes(ctx, `inauthor:"`+author+`"`, maxResults)
}

// SearchByTitle searches volumes by title.
func (c *Client) SearchByTitle(ctx context.Context, title string, maxResults int) ([]Volume, error) {
	return c.searchVolumes(ctx, `intitle:"`+title+`"`, maxResults)
}

// GetVolume fetches a single volume by its Google Books ID.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (*Volume, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	reqURL := c.baseURL + "/volumes/" + url.PathEscape(volumeID)
	if c.apiKey != "" {
		reqURL += "?key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("volume request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrVolumeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("volume lookup failed: status %d", resp.StatusCode)
	}

	var raw rawVolume
	if err := json.UnmarshalRead(resp.Body, &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	volume := raw.normalize()
	return &volume, nil
}

func (c *Client) searchVolumes(ctx context.Context, query string, maxResults int) ([]Volume, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxMaxResults {
		maxResults = maxMaxResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	if c.language != "" {
		params.Set("langRestrict", c.language)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	searchURL := c.baseURL + "/volumes?" + params.Encode()

	c.logger.Debug("searching Google Books",
		"query", query,
		"max_results", maxResults,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var searchResp volumesResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("Google Books search results",
		"query", query,
		"count", searchResp.TotalItems,
	)

	results := make([]Volume, 0, len(searchResp.Items))
	for i := range searchResp.Items {
		results = append(results, searchResp.Items[i].normalize())
	}

	return results, nil
}
