package googlebooks

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumeJSON = `{
	"id": "abc123",
	"volumeInfo": {
		"title": "Moby-Dick",
		"authors": ["Herman Melville"],
		"publisher": "Harper",
		"publishedDate": "1851-10-18",
		"description": "A whale of a tale.",
		"pageCount": 635,
		"categories": ["Fiction"],
		"language": "en",
		"imageLinks": {
			"thumbnail": "http://example.com/thumb.jpg",
			"medium": "http://example.com/medium.jpg"
		},
		"industryIdentifiers": [
			{"type": "ISBN_10", "identifier": "1503280780"},
			{"type": "ISBN_13", "identifier": "9781503280786"}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("", "", slog.New(slog.DiscardHandler))
	c.baseURL = server.URL
	return c
}

func TestSearch(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "books", r.URL.Query().Get("printType"))
		w.Write([]byte(`{"totalItems": 1, "items": [` + volumeJSON + `]}`))
	})

	results, err := c.Search(context.Background(), "moby dick", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "moby dick", gotQuery)
	v := results[0]
	assert.Equal(t, "abc123", v.ID)
	assert.Equal(t, "Moby-Dick", v.Title)
	assert.Equal(t, []string{"Herman Melville"}, v.Authors)
	assert.Equal(t, 635, v.PageCount)
	assert.Equal(t, "9781503280786", v.ISBN, "ISBN-13 preferred over ISBN-10")
	assert.Equal(t, "http://example.com/medium.jpg", v.CoverURL, "largest available image wins")
}

func TestSearch_MaxResultsCapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "40", r.URL.Query().Get("maxResults"))
		w.Write([]byte(`{"totalItems": 0}`))
	})

	results, err := c.Search(context.Background(), "anything", 500)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByISBN(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "isbn:9781503280786", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("maxResults"))
		w.Write([]byte(`{"totalItems": 1, "items": [` + volumeJSON + `]}`))
	})

	results, err := c.SearchByISBN(context.Background(), "9781503280786")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "abc123", results[0].ID)
}

func TestSearchByAuthorAndTitle(t *testing.T) {
	var queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Write([]byte(`{"totalItems": 0}`))
	})

	_, err := c.SearchByAuthor(context.Background(), "Herman Melville", 5)
	require.NoError(t, err)
	_, err = c.SearchByTitle(context.Background(), "Moby-Dick", 5)
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Equal(t, `inauthor:"Herman Melville"`, queries[0])
	assert.Equal(t, `intitle:"Moby-Dick"`, queries[1])
}

func TestGetVolume(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/abc123", r.URL.Path)
		w.Write([]byte(volumeJSON))
	})

	v, err := c.GetVolume(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Moby-Dick", v.Title)
}

func TestGetVolume_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetVolume(context.Background(), "missing")
	require.ErrorIs(t, err, ErrVolumeNotFound)
}

func TestNormalize_Defaults(t *testing.T) {
	raw := rawVolume{ID: "v1"}
	v := raw.normalize()

	assert.Equal(t, "v1", v.ID)
	assert.NotNil(t, v.Authors)
	assert.Empty(t, v.Authors)
	assert.NotNil(t, v.Categories)
	assert.Zero(t, v.PageCount)
	assert.Empty(t, v.ISBN)
	assert.Empty(t, v.CoverURL)
}

func TestToBook(t *testing.T) {
	v := Volume{
		ID:        "abc123",
		Title:     "Moby-Dick",
		Authors:   []string{"Herman Melville"},
		PageCount: 635,
		ISBN:      "9781503280786",
	}

	book := v.ToBook()
	assert.Equal(t, "abc123", book.GoogleBooksID)
	assert.Equal(t, "Moby-Dick", book.Title)
	assert.Equal(t, 635, book.PageCount)
	assert.False(t, book.CreatedAt.IsZero())
}
