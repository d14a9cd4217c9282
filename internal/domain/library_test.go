package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateProgress(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		pageCount   int
		prior       int
		want        int
	}{
		{"half", 150, 300, 0, 50},
		{"rounds up", 1, 3, 0, 33},
		{"rounds nearest", 2, 3, 0, 67},
		{"complete", 300, 300, 0, 100},
		{"past the end is not capped", 350, 300, 0, 117},
		{"no pages read keeps prior value", 0, 300, 50, 50},
		{"unknown page count keeps prior value", 150, 0, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &LibraryEntry{CurrentPage: tt.currentPage, Progress: tt.prior}
			e.RecalculateProgress(tt.pageCount)
			assert.Equal(t, tt.want, e.Progress)
		})
	}
}

func TestMoveTo_ReadingStampsStartDateOnce(t *testing.T) {
	e := NewLibraryEntry("usr-1", "book-1", ShelfToRead, 200, time.Now())
	require.Nil(t, e.StartDate)

	first := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	e.MoveTo(ShelfReading, 200, first)
	require.NotNil(t, e.StartDate)
	assert.Equal(t, first, *e.StartDate)

	e.MoveTo(ShelfToRead, 200, first.Add(24*time.Hour))
	e.MoveTo(ShelfReading, 200, first.Add(48*time.Hour))
	assert.Equal(t, first, *e.StartDate, "start date is stamped once")
}

func TestMoveTo_CompletedForcesPagesAndDates(t *testing.T) {
	now := time.Date(2026, time.April, 10, 20, 0, 0, 0, time.UTC)
	e := NewLibraryEntry("usr-1", "book-1", ShelfReading, 320, now)
	e.CurrentPage = 100
	e.RecalculateProgress(320)

	completed := e.MoveTo(ShelfCompleted, 320, now.Add(72*time.Hour))
	assert.True(t, completed)
	assert.Equal(t, 320, e.CurrentPage)
	assert.Equal(t, 100, e.Progress)
	require.NotNil(t, e.EndDate)
	assert.Equal(t, now, *e.StartDate)

	// moving to completed again is not a new completion
	assert.False(t, e.MoveTo(ShelfCompleted, 320, now.Add(96*time.Hour)))
}

func TestNewLibraryEntry_SeedsCompletedShelf(t *testing.T) {
	now := time.Now()
	e := NewLibraryEntry("usr-1", "book-1", ShelfCompleted, 180, now)

	assert.Equal(t, ShelfCompleted, e.Shelf)
	assert.Equal(t, 180, e.CurrentPage)
	assert.Equal(t, 100, e.Progress)
	require.NotNil(t, e.StartDate)
	require.NotNil(t, e.EndDate)
}

func TestShelfValid(t *testing.T) {
	for _, s := range []Shelf{ShelfReading, ShelfCompleted, ShelfToRead, ShelfAbandoned} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Shelf("wishlist").Valid())
	assert.False(t, Shelf("").Valid())
}

func TestNoteLifecycle(t *testing.T) {
	e := NewLibraryEntry("usr-1", "book-1", ShelfReading, 200, time.Now())
	e.AddNote(Note{ID: "note-1", Text: "great opening", Page: 3, CreatedAt: time.Now()})

	require.True(t, e.UpdateNote("note-1", "revised", 5, true))
	assert.Equal(t, "revised", e.Notes[0].Text)
	assert.Equal(t, 5, e.Notes[0].Page)
	assert.True(t, e.Notes[0].IsPrivate)

	assert.False(t, e.UpdateNote("note-missing", "x", 1, false))
	assert.True(t, e.RemoveNote("note-1"))
	assert.False(t, e.RemoveNote("note-1"))
	assert.Empty(t, e.Notes)
}

func TestMatchQuotes(t *testing.T) {
	e := NewLibraryEntry("usr-1", "book-1", ShelfReading, 200, time.Now())
	e.AddQuote(Quote{ID: "quote-1", Text: "Call me Ishmael.", Chapter: "Loomings"})
	e.AddQuote(Quote{ID: "quote-2", Text: "The sea was angry."})

	assert.Len(t, e.MatchQuotes("ishmael"), 1)
	assert.Len(t, e.MatchQuotes("loomings"), 1)
	assert.Len(t, e.MatchQuotes(""), 2)
	assert.Empty(t, e.MatchQuotes("whale"))
}

func TestAddSession_AdvancesCurrentPage(t *testing.T) {
	e := NewLibraryEntry("usr-1", "book-1", ShelfReading, 200, time.Now())
	e.CurrentPage = 40

	when := time.Date(2026, time.May, 2, 21, 0, 0, 0, time.UTC)
	e.AddSession(ReadingSession{Date: when, StartPage: 40, EndPage: 70, DurationMinutes: 45}, 200)

	require.Len(t, e.Sessions, 1)
	assert.Equal(t, 30, e.Sessions[0].PagesRead)
	assert.Equal(t, 70, e.CurrentPage)
	assert.Equal(t, 35, e.Progress)
	require.NotNil(t, e.LastReadDate)
	assert.Equal(t, when, *e.LastReadDate)

	// a backwards session never rewinds the page marker
	e.AddSession(ReadingSession{Date: when, StartPage: 10, EndPage: 20}, 200)
	assert.Equal(t, 70, e.CurrentPage)
}

func TestMatchesSearch(t *testing.T) {
	book := &Book{Title: "Moby-Dick", Authors: []string{"Herman Melville"}}
	e := NewLibraryEntry("usr-1", "book-1", ShelfReading, 600, time.Now())
	e.CustomTags = []string{"classics", "sea"}

	assert.True(t, e.MatchesSearch(book, "moby"))
	assert.True(t, e.MatchesSearch(book, "melville"))
	assert.True(t, e.MatchesSearch(book, "CLASSICS"))
	assert.True(t, e.MatchesSearch(book, ""))
	assert.False(t, e.MatchesSearch(book, "dune"))
	assert.False(t, e.MatchesSearch(nil, "moby"))
}
