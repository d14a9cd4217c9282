package domain

import (
	"math"
	"strings"
	"time"
)

// Shelf names the reading state of a library entry.
type Shelf string

const (
	ShelfReading   Shelf = "reading"
	ShelfCompleted Shelf = "completed"
	ShelfToRead    Shelf = "toRead"
	ShelfAbandoned Shelf = "abandoned"
)

// Valid reports whether s is a known shelf.
func (s Shelf) Valid() bool {
	switch s {
	case ShelfReading, ShelfCompleted, ShelfToRead, ShelfAbandoned:
		return true
	}
	return false
}

// LibraryEntry links a user to a book and carries all per-user reading
// state: shelf, progress, rating, notes, quotes and sessions. At most
// one entry exists per (user, book) pair.
type LibraryEntry struct {
	Record
	UserID       string           `json:"user_id"`
	BookID       string           `json:"book_id"`
	Shelf        Shelf            `json:"shelf"`
	CurrentPage  int              `json:"current_page"`
	Progress     int              `json:"progress"`
	Rating       int              `json:"rating"`
	Review       string           `json:"review"`
	CustomTags   []string         `json:"custom_tags"`
	IsFavorite   bool             `json:"is_favorite"`
	StartDate    *time.Time       `json:"start_date,omitempty"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	LastReadDate *time.Time       `json:"last_read_date,omitempty"`
	Goals        PersonalGoals    `json:"personal_goals"`
	Notes        []Note           `json:"notes"`
	Quotes       []Quote          `json:"quotes"`
	Sessions     []ReadingSession `json:"sessions"`
}

// PersonalGoals are per-book targets set by the reader.
type PersonalGoals struct {
	TargetEndDate *time.Time `json:"target_end_date,omitempty"`
	DailyPageGoal int        `json:"daily_page_goal,omitempty"`
}

// Note is a free-form annotation attached to a library entry.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Page      int       `json:"page"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quote is a passage saved from the book.
type Quote struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Page       int       `json:"page"`
	Chapter    string    `json:"chapter,omitempty"`
	Tags       []string  `json:"tags"`
	IsFavorite bool      `json:"is_favorite"`
	IsPhoto    bool      `json:"is_photo"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReadingSession records one sitting of reading.
type ReadingSession struct {
	Date            time.Time `json:"date"`
	StartPage       int       `json:"start_page"`
	EndPage         int       `json:"end_page"`
	PagesRead       int       `json:"pages_read"`
	DurationMinutes int       `json:"duration_minutes"`
}

// NewLibraryEntry creates an entry on the given shelf, seeding start
// and end dates the way MoveTo does for an existing entry.
func NewLibraryEntry(userID, bookID string, shelf Shelf, pageCount int, now time.Time) *LibraryEntry {
	e := &LibraryEntry{
		UserID:     userID,
		BookID:     bookID,
		Shelf:      ShelfToRead,
		CustomTags: []string{},
		Notes:      []Note{},
		Quotes:     []Quote{},
		Sessions:   []ReadingSession{},
	}
	e.InitTimestamps()
	e.MoveTo(shelf, pageCount, now)
	return e
}

// RecalculateProgress derives the progress percentage from the current
// page and the book's page count. The percentage is rounded to the
// nearest integer and deliberately not capped, so a current page past
// the page count reads as more than 100 percent. With no page count or
// no pages read the stored percentage is left as it was.
func (e *LibraryEntry) RecalculateProgress(pageCount int) {
	if pageCount <= 0 || e.CurrentPage <= 0 {
		return
	}
	e.Progress = int(math.Round(float64(e.CurrentPage) / float64(pageCount) * 100))
}

// MoveTo places the entry on a shelf and applies the shelf's side
// effects. Moving to reading stamps the start date once. Moving to
// completed stamps the start date if missing, sets the end date,
// forces the current page to the book's page count and recomputes
// progress. It reports whether this call moved the entry onto the
// completed shelf from another shelf.
func (e *LibraryEntry) MoveTo(shelf Shelf, pageCount int, now time.Time) bool {
	wasCompleted := e.Shelf == ShelfCompleted
	e.Shelf = shelf
	e.Touch()

	switch shelf {
	case ShelfReading:
		if e.StartDate == nil {
			t := now
			e.StartDate = &t
		}
	case ShelfCompleted:
		if e.StartDate == nil {
			t := now
			e.StartDate = &t
		}
		t := now
		e.EndDate = &t
		e.CurrentPage = pageCount
		e.RecalculateProgress(pageCount)
	}

	return shelf == ShelfCompleted && !wasCompleted
}

// AddNote appends a note.
func (e *LibraryEntry) AddNote(n Note) {
	e.Notes = append(e.Notes, n)
	e.Touch()
}

// UpdateNote replaces the text, page and privacy of the note with the
// given ID. It reports whether the note was found.
func (e *LibraryEntry) UpdateNote(noteID, text string, page int, isPrivate bool) bool {
	for i := range e.Notes {
		if e.Notes[i].ID == noteID {
			e.Notes[i].Text = text
			e.Notes[i].Page = page
			e.Notes[i].IsPrivate = isPrivate
			e.Notes[i].UpdatedAt = time.Now()
			e.Touch()
			return true
		}
	}
	return false
}

// RemoveNote deletes the note with the given ID and reports whether it
// existed.
func (e *LibraryEntry) RemoveNote(noteID string) bool {
	for i := range e.Notes {
		if e.Notes[i].ID == noteID {
			e.Notes = append(e.Notes[:i], e.Notes[i+1:]...)
			e.Touch()
			return true
		}
	}
	return false
}

// AddQuote appends a quote.
func (e *LibraryEntry) AddQuote(q Quote) {
	e.Quotes = append(e.Quotes, q)
	e.Touch()
}

// MatchQuotes returns the quotes whose text, chapter or tags contain
// the query, case-insensitively. An empty query matches every quote.
func (e *LibraryEntry) MatchQuotes(query string) []Quote {
	q := strings.ToLower(query)
	out := []Quote{}
	for _, quote := range e.Quotes {
		if q == "" ||
			strings.Contains(strings.ToLower(quote.Text), q) ||
			strings.Contains(strings.ToLower(quote.Chapter), q) ||
			matchesTag(quote.Tags, q) {
			out = append(out, quote)
		}
	}
	return out
}

func matchesTag(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// AddSession records a reading sitting and advances the current page
// to the session's end page when it moves forward.
func (e *LibraryEntry) AddSession(s ReadingSession, pageCount int) {
	if s.PagesRead == 0 && s.EndPage > s.StartPage {
		s.PagesRead = s.EndPage - s.StartPage
	}
	e.Sessions = append(e.Sessions, s)
	if s.EndPage > e.CurrentPage {
		e.CurrentPage = s.EndPage
		e.RecalculateProgress(pageCount)
	}
	t := s.Date
	e.LastReadDate = &t
	e.Touch()
}

// MatchesSearch reports whether the entry or its book matches a free
// text search over title, authors and custom tags.
func (e *LibraryEntry) MatchesSearch(book *Book, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	if book != nil {
		if strings.Contains(strings.ToLower(book.Title), q) {
			return true
		}
		for _, a := range book.Authors {
			if strings.Contains(strings.ToLower(a), q) {
				return true
			}
		}
	}
	for _, tag := range e.CustomTags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
