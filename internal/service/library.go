package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/readtrailapp/readtrail-server/internal/domain"
	domainerrors "github.com/readtrailapp/readtrail-server/internal/errors"
	"github.com/readtrailapp/readtrail-server/internal/id"
	"github.com/readtrailapp/readtrail-server/internal/store"
	"github.com/readtrailapp/readtrail-server/internal/validation"
)

// LibraryService manages a user's personal library: entries, shelves,
// reading progress, notes, quotes and sessions.
type LibraryService struct {
	store        *store.Store
	catalog      *CatalogService
	achievements *AchievementService
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewLibraryService creates a library management service.
func NewLibraryService(
	store *store.Store,
	catalog *CatalogService,
	achievements *AchievementService,
	validator *validation.Validator,
	logger *slog.Logger,
) *LibraryService {
	return &LibraryService{
		store:        store,
		catalog:      catalog,
		achievements: achievements,
		validator:    validator,
		logger:       logger,
	}
}

// AddBookRequest adds a book to the user's library, either by catalog
// ID or as a manual record with at least a title.
type AddBookRequest struct {
	GoogleBooksID string               `json:"google_books_id" validate:"required_without=Title"`
	Shelf         domain.Shelf         `json:"shelf"`
	CustomTags    []string             `json:"custom_tags"`
	CustomFields  *domain.CustomFields `json:"custom_fields"`

	// Manual book fields, used when no catalog ID is given.
	Title         string   `json:"title" validate:"required_without=GoogleBooksID"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	Description   string   `json:"description"`
	PageCount     int      `json:"page_count" validate:"min=0"`
	ISBN          string   `json:"isbn"`
	CoverURL      string   `json:"cover_url"`
	Language      string   `json:"language"`
}

// UpdateEntryRequest edits a library entry. Nil fields are unchanged.
type UpdateEntryRequest struct {
	Shelf        *domain.Shelf         `json:"shelf"`
	Rating       *int                  `json:"rating" validate:"omitempty,min=0,max=5"`
	Review       *string               `json:"review"`
	CustomTags   *[]string             `json:"custom_tags"`
	IsFavorite   *bool                 `json:"is_favorite"`
	Goals        *domain.PersonalGoals `json:"personal_goals"`
	CustomFields *domain.CustomFields  `json:"custom_fields"`
}

// UpdateProgressRequest moves the reading position.
type UpdateProgressRequest struct {
	CurrentPage int `json:"current_page" validate:"min=0"`
}

// NoteRequest creates or updates a note.
type NoteRequest struct {
	Text      string `json:"text" validate:"required"`
	Page      int    `json:"page" validate:"min=0"`
	IsPrivate bool   `json:"is_private"`
}

// QuoteRequest saves a quote.
type QuoteRequest struct {
	Text       string   `json:"text" validate:"required"`
	Page       int      `json:"page" validate:"min=0"`
	Chapter    string   `json:"chapter"`
	Tags       []string `json:"tags"`
	IsFavorite bool     `json:"is_favorite"`
	IsPhoto    bool     `json:"is_photo"`
	PhotoURL   string   `json:"photo_url"`
}

// SessionRequest records a reading sitting.
type SessionRequest struct {
	StartPage       int        `json:"start_page" validate:"min=0"`
	EndPage         int        `json:"end_page" validate:"min=0"`
	DurationMinutes int        `json:"duration_minutes" validate:"min=0"`
	Date            *time.Time `json:"date"`
}

// QuoteMatch is a quote search hit with its book context.
type QuoteMatch struct {
	Quote     domain.Quote `json:"quote"`
	EntryID   string       `json:"entry_id"`
	BookID    string       `json:"book_id"`
	BookTitle string       `json:"book_title"`
}

// AddBook adds a catalog book to the user's library. The book record
// is fetched from the catalog on first use and shared afterwards. A
// book can appear in a library only once.
func (s *LibraryService) AddBook(ctx context.Context, userID string, req AddBookRequest) (*store.EntryWithBook, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	shelf := req.Shelf
	if shelf == "" {
		shelf = domain.ShelfToRead
	}
	if !shelf.Valid() {
		return nil, domainerrors.Validationf("unknown shelf %q", string(req.Shelf))
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var book *domain.Book
	if req.GoogleBooksID != "" {
		book, err = s.resolveBook(ctx, req.GoogleBooksID)
	} else {
		book, err = s.createManualBook(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if req.CustomFields != nil {
		book.CustomFields = *req.CustomFields
	}

	entryID, err := id.Generate("entry")
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	entry := domain.NewLibraryEntry(userID, book.ID, shelf, book.PageCount, time.Now())
	entry.ID = entryID
	if req.CustomTags != nil {
		entry.CustomTags = req.CustomTags
	}

	if err := s.store.Entries.Create(ctx, entryID, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("this book is already in your library")
		}
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if shelf == domain.ShelfCompleted {
		s.applyCompletion(ctx, user, book)
	}
	s.achievements.HandleBookAdded(ctx, user)

	if s.logger != nil {
		s.logger.Info("Book added to library",
			"user_id", userID,
			"book_id", book.ID,
			"shelf", string(shelf),
		)
	}

	return &store.EntryWithBook{Entry: entry, Book: book}, nil
}

// resolveBook returns the shared book record for a Google Books ID,
// creating it from the catalog on first use.
func (s *LibraryService) resolveBook(ctx context.Context, googleBooksID string) (*domain.Book, error) {
	book, err := s.store.Books.GetByIndex(ctx, "gbid", googleBooksID)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup book: %w", err)
	}

	volume, err := s.catalog.GetVolume(ctx, googleBooksID)
	if err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book = volume.ToBook()
	book.ID = bookID

	if err := s.store.Books.Create(ctx, bookID, book); err != nil {
		// Lost a race with a concurrent add of the same volume
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.store.Books.GetByIndex(ctx, "gbid", googleBooksID)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	return book, nil
}

// createManualBook stores a hand-entered book. Manual books carry no
// catalog ID and are never deduplicated.
func (s *LibraryService) createManualBook(ctx context.Context, req AddBookRequest) (*domain.Book, error) {
	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	authors := req.Authors
	if authors == nil {
		authors = []string{}
	}

	book := &domain.Book{
		Title:         req.Title,
		Authors:       authors,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		Description:   req.Description,
		PageCount:     req.PageCount,
		Categories:    []string{},
		ISBN:          req.ISBN,
		CoverURL:      req.CoverURL,
		Language:      req.Language,
	}
	book.InitTimestamps()
	book.ID = bookID

	if err := s.store.Books.Create(ctx, bookID, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	return book, nil
}

// List queries the user's library with filtering, sorting and paging.
func (s *LibraryService) List(ctx context.Context, userID string, q store.EntryQuery) (*store.EntryPage, error) {
	if q.Shelf != "" && !q.Shelf.Valid() {
		return nil, domainerrors.Validationf("unknown shelf %q", string(q.Shelf))
	}
	return s.store.QueryEntries(ctx, userID, q)
}

// GetEntry returns one library entry with its book. Entries owned by
// other users are reported as not found.
func (s *LibraryService) GetEntry(ctx context.Context, userID, entryID string) (*store.EntryWithBook, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	book, err := s.store.Books.Get(ctx, entry.BookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &store.EntryWithBook{Entry: entry, Book: book}, nil
}

// UpdateEntry edits entry fields and applies shelf transitions.
func (s *LibraryService) UpdateEntry(ctx context.Context, userID, entryID string, req UpdateEntryRequest) (*store.EntryWithBook, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	entry, book := item.Entry, item.Book

	completedNow := false
	if req.Shelf != nil {
		if !req.Shelf.Valid() {
			return nil, domainerrors.Validationf("unknown shelf %q", string(*req.Shelf))
		}
		if *req.Shelf != entry.Shelf {
			completedNow = entry.MoveTo(*req.Shelf, book.PageCount, time.Now())
		}
	}
	if req.Rating != nil {
		entry.Rating = *req.Rating
	}
	if req.Review != nil {
		entry.Review = *req.Review
	}
	if req.CustomTags != nil {
		entry.CustomTags = *req.CustomTags
	}
	if req.IsFavorite != nil {
		entry.IsFavorite = *req.IsFavorite
	}
	if req.Goals != nil {
		entry.Goals = *req.Goals
	}
	entry.Touch()

	if err := s.store.Entries.Update(ctx, entryID, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	if req.CustomFields != nil {
		book.CustomFields = *req.CustomFields
		book.Touch()
		if err := s.store.Books.Update(ctx, book.ID, book); err != nil {
			return nil, fmt.Errorf("update book: %w", err)
		}
	}

	if completedNow {
		user, err := s.store.Users.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		s.applyCompletion(ctx, user, book)
	}

	return &store.EntryWithBook{Entry: entry, Book: book}, nil
}

// UpdateProgress moves the reading position, recomputes the progress
// percentage and records a reading day for the streak.
func (s *LibraryService) UpdateProgress(ctx context.Context, userID, entryID string, req UpdateProgressRequest) (*store.EntryWithBook, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	entry, book := item.Entry, item.Book

	now := time.Now()
	entry.CurrentPage = req.CurrentPage
	entry.RecalculateProgress(book.PageCount)
	entry.LastReadDate = &now
	entry.Touch()

	if err := s.store.Entries.Update(ctx, entryID, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	if err := s.recordReadingDay(ctx, userID, now); err != nil {
		return nil, fmt.Errorf("record reading day: %w", err)
	}

	return &store.EntryWithBook{Entry: entry, Book: book}, nil
}

// RemoveEntry deletes a library entry. The shared book record stays.
func (s *LibraryService) RemoveEntry(ctx context.Context, userID, entryID string) error {
	if _, err := s.ownedEntry(ctx, userID, entryID); err != nil {
		return err
	}

	if err := s.store.Entries.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book removed from library",
			"user_id", userID,
			"entry_id", entryID,
		)
	}

	return nil
}

// AddNote attaches a note to an entry.
func (s *LibraryService) AddNote(ctx context.Context, userID, entryID string, req NoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	now := time.Now()
	note := domain.Note{
		ID:        noteID,
		Text:      req.Text,
		Page:      req.Page,
		IsPrivate: req.IsPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	entry.AddNote(note)

	if err := s.store.Entries.Update(ctx, entryID, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	return &note, nil
}

// UpdateNote edits a note's text and page.
func (s *LibraryService) UpdateNote(ctx context.Context, userID, entryID, noteID string, req NoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.UpdateNote(noteID, req.Text, req.Page, req.IsPrivate) {
		return nil, domainerrors.NotFound("note not found")
	}

	if err := s.store.Entries.Update(ctx, entryID, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	for i := range entry.Notes {
		if entry.Notes[i].ID == noteID {
			return &entry.Notes[i], nil
		}
	}
	return nil, domainerrors.NotFound("note not found")
}

// RemoveNote deletes a note from an entry.
func (s *LibraryService) RemoveNote(ctx context.Context, userID, entryID, noteID string) error {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}

	if !entry.RemoveNote(noteID) {
		return domainerrors.NotFound("note not found")
	}

	if err := s.store.Entries.Update(ctx, entryID, entry); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	return nil
}

// AddQuote saves a quote on an entry.
func (s *LibraryService) AddQuote(ctx context.Context, userID, entryID string, req QuoteRequest) (*domain.Quote, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	quoteID, err := id.Generate("quote")
	if err != nil {
		return nil, fmt.Errorf("generate quote ID: %w", err)
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	quote := domain.Quote{
		ID:         quoteID,
		Text:       req.Text,
		Page:       req.Page,
		Chapter:    req.Chapter,
		Tags:       tags,
		IsFavorite: req.IsFavorite,
		IsPhoto:    req.IsPhoto,
		PhotoURL:   req.PhotoURL,
		CreatedAt:  time.Now(),
	}
	entry.AddQuote(quote)

	if err := s.store.Entries.Update(ctx, entryID, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	return &quote, nil
}

// SearchQuotes finds quotes across the user's whole library.
func (s *LibraryService) SearchQuotes(ctx context.Context, userID, query string) ([]QuoteMatch, error) {
	items, err := s.store.ListUserEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches := []QuoteMatch{}
	for _, item := range items {
		for _, quote := range item.Entry.MatchQuotes(query) {
			matches = append(matches, QuoteMatch{
				Quote:     quote,
				EntryID:   item.Entry.ID,
				BookID:    item.Book.ID,
				BookTitle: item.Book.Title,
			})
		}
	}

	return matches, nil
}

// RecordSession logs a reading sitting, advances progress and the
// daily streak.
func (s *LibraryService) RecordSession(ctx context.Context, userID, entryID string, req SessionRequest) (*store.EntryWithBook, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.EndPage < req.StartPage {
		return nil, domainerrors.Validation("end_page must not be before start_page")
	}

	item, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	entry, book := item.Entry, item.Book

	when := time.Now()
	if req.Date != nil {
		when = *req.Date
	}

	entry.AddSession(domain.ReadingSession{
		Date:            when,
		StartPage:       req.StartPage,
		EndPage:         req.EndPage,
		DurationMinutes: req.DurationMinutes,
	}, book.PageCount)

	if err := s.store.Entries.Update(ctx, entryID, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	if err := s.recordReadingDay(ctx, userID, when); err != nil {
		return nil, fmt.Errorf("record reading day: %w", err)
	}

	return &store.EntryWithBook{Entry: entry, Book: book}, nil
}

// ownedEntry loads an entry and hides entries of other users behind a
// not found error.
func (s *LibraryService) ownedEntry(ctx context.Context, userID, entryID string) (*domain.LibraryEntry, error) {
	entry, err := s.store.Entries.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("library entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.UserID != userID {
		return nil, domainerrors.NotFound("library entry not found")
	}
	return entry, nil
}

// applyCompletion updates cumulative stats when a book is completed
// and evaluates completion achievements.
func (s *LibraryService) applyCompletion(ctx context.Context, user *domain.User, book *domain.Book) {
	user.Stats.TotalBooksRead++
	user.Stats.TotalPagesRead += book.PageCount
	user.Touch()

	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to update reading stats",
				"user_id", user.ID,
				"error", err,
			)
		}
		return
	}

	s.achievements.HandleBookCompleted(ctx, user)
}

// recordReadingDay advances the user's streak for activity at the
// given time.
func (s *LibraryService) recordReadingDay(ctx context.Context, userID string, when time.Time) error {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	user.Stats.RecordReadingDay(when)
	user.Touch()
	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
