package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readtrailapp/readtrail-server/internal/domain"
	"github.com/readtrailapp/readtrail-server/internal/store"
)

func seedBook(t *testing.T, s *store.Store, id, gbid, title string, authors []string) *domain.Book {
	t.Helper()
	book := &domain.Book{
		GoogleBooksID: gbid,
		Title:         title,
		Authors:       authors,
		PageCount:     300,
	}
	book.ID = id
	book.InitTimestamps()
	require.NoError(t, s.Books.Create(context.Background(), id, book))
	return book
}

func seedEntry(t *testing.T, s *store.Store, id, userID, bookID string, shelf domain.Shelf) *domain.LibraryEntry {
	t.Helper()
	entry := domain.NewLibraryEntry(userID, bookID, shelf, 300, time.Now())
	entry.ID = id
	require.NoError(t, s.Entries.Create(context.Background(), id, entry))
	return entry
}

func TestUserBookUniqueness(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	seedBook(t, s, "book-1", "gb1", "Moby-Dick", []string{"Herman Melville"})
	seedEntry(t, s, "entry-1", "usr-1", "book-1", domain.ShelfToRead)

	dup := domain.NewLibraryEntry("usr-1", "book-1", domain.ShelfReading, 300, time.Now())
	dup.ID = "entry-2"
	err := s.Entries.Create(context.Background(), "entry-2", dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// another user may hold the same book
	other := domain.NewLibraryEntry("usr-2", "book-1", domain.ShelfReading, 300, time.Now())
	other.ID = "entry-3"
	require.NoError(t, s.Entries.Create(context.Background(), "entry-3", other))
}

func TestGetEntryByUserAndBook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	seedBook(t, s, "book-1", "gb1", "Moby-Dick", nil)
	seedEntry(t, s, "entry-1", "usr-1", "book-1", domain.ShelfReading)

	got, err := s.GetEntryByUserAndBook(context.Background(), "usr-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "entry-1", got.ID)

	_, err = s.GetEntryByUserAndBook(context.Background(), "usr-2", "book-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestQueryEntries_ShelfFilterAndSearch(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	seedBook(t, s, "book-1", "gb1", "Moby-Dick", []string{"Herman Melville"})
	seedBook(t, s, "book-2", "gb2", "Dune", []string{"Frank Herbert"})
	seedBook(t, s, "book-3", "gb3", "Emma", []string{"Jane Austen"})

	seedEntry(t, s, "entry-1", "usr-1", "book-1", domain.ShelfReading)
	seedEntry(t, s, "entry-2", "usr-1", "book-2", domain.ShelfReading)
	seedEntry(t, s, "entry-3", "usr-1", "book-3", domain.ShelfCompleted)

	page, err := s.QueryEntries(context.Background(), "usr-1", store.EntryQuery{
		Shelf: domain.ShelfReading,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)

	page, err = s.QueryEntries(context.Background(), "usr-1", store.EntryQuery{
		Search: "herbert",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Dune", page.Items[0].Book.Title)

	// search scoped to the requesting user
	page, err = s.QueryEntries(context.Background(), "usr-2", store.EntryQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}

func TestQueryEntries_SortByTitle(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	seedBook(t, s, "book-1", "gb1", "Moby-Dick", nil)
	seedBook(t, s, "book-2", "gb2", "Dune", nil)
	seedBook(t, s, "book-3", "gb3", "Emma", nil)

	seedEntry(t, s, "entry-1", "usr-1", "book-1", domain.ShelfToRead)
	seedEntry(t, s, "entry-2", "usr-1", "book-2", domain.ShelfToRead)
	seedEntry(t, s, "entry-3", "usr-1", "book-3", domain.ShelfToRead)

	page, err := s.QueryEntries(context.Background(), "usr-1", store.EntryQuery{
		SortBy:    "title",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Dune", page.Items[0].Book.Title)
	assert.Equal(t, "Emma", page.Items[1].Book.Title)
	assert.Equal(t, "Moby-Dick", page.Items[2].Book.Title)

	page, err = s.QueryEntries(context.Background(), "usr-1", store.EntryQuery{
		SortBy:    "title",
		SortOrder: "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, "Moby-Dick", page.Items[0].Book.Title)
}

func TestQueryEntries_Pagination(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	titles := []string{"A", "B", "C", "D", "E"}
	for i, title := range titles {
		bookID := "book-" + title
		seedBook(t, s, bookID, "gb"+title, title, nil)
		entry := domain.NewLibraryEntry("usr-1", bookID, domain.ShelfToRead, 100, time.Now())
		entry.ID = "entry-" + title
		entry.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Entries.Create(context.Background(), entry.ID, entry))
	}

	page, err := s.QueryEntries(context.Background(), "usr-1", store.EntryQuery{
		SortBy:    "title",
		SortOrder: "asc",
		Page:      2,
		Limit:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "C", page.Items[0].Book.Title)
	assert.Equal(t, "D", page.Items[1].Book.Title)

	// a page past the end is empty, not an error
	page, err = s.QueryEntries(context.Background(), "usr-1", store.EntryQuery{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.TotalCount)
}

func TestCountEntriesByShelf(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	seedBook(t, s, "book-1", "gb1", "Moby-Dick", nil)
	seedBook(t, s, "book-2", "gb2", "Dune", nil)
	seedBook(t, s, "book-3", "gb3", "Emma", nil)

	seedEntry(t, s, "entry-1", "usr-1", "book-1", domain.ShelfReading)
	seedEntry(t, s, "entry-2", "usr-1", "book-2", domain.ShelfCompleted)
	seedEntry(t, s, "entry-3", "usr-1", "book-3", domain.ShelfCompleted)

	counts, err := s.CountEntriesByShelf(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.ShelfReading])
	assert.Equal(t, 2, counts[domain.ShelfCompleted])
	assert.Equal(t, 0, counts[domain.ShelfToRead])
	assert.Equal(t, 0, counts[domain.ShelfAbandoned])

	completed, err := s.CountCompletedEntries(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.Equal(t, 2, completed)

	total, err := s.CountUserEntries(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestCountCompletedSince(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	seedBook(t, s, "book-1", "gb1", "Moby-Dick", nil)
	seedBook(t, s, "book-2", "gb2", "Dune", nil)

	old := domain.NewLibraryEntry("usr-1", "book-1", domain.ShelfCompleted, 100, time.Now().AddDate(0, -2, 0))
	old.ID = "entry-1"
	require.NoError(t, s.Entries.Create(context.Background(), "entry-1", old))

	recent := domain.NewLibraryEntry("usr-1", "book-2", domain.ShelfCompleted, 100, time.Now())
	recent.ID = "entry-2"
	require.NoError(t, s.Entries.Create(context.Background(), "entry-2", recent))

	monthStart := time.Now().AddDate(0, 0, -15)
	count, err := s.CountCompletedSince(context.Background(), "usr-1", monthStart)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
