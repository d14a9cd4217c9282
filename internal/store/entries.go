package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/readtrailapp/readtrail-server/internal/domain"
)

// EntryQuery describes a library listing request.
type EntryQuery struct {
	Shelf     domain.Shelf // Empty matches every shelf
	Search    string       // Case-insensitive match on title, authors, custom tags
	SortBy    string       // title, author, rating, createdAt (default createdAt)
	SortOrder string       // asc or desc (default desc)
	Page      int          // 1-based
	Limit     int          // Items per page
}

const (
	defaultEntryLimit = 20
	maxEntryLimit     = 100
)

// Normalize applies defaults and bounds to the query.
func (q *EntryQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultEntryLimit
	}
	if q.Limit > maxEntryLimit {
		q.Limit = maxEntryLimit
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
}

// EntryWithBook pairs a library entry with its catalog book.
type EntryWithBook struct {
	Entry *domain.LibraryEntry `json:"entry"`
	Book  *domain.Book         `json:"book"`
}

// EntryPage is one page of a library listing.
type EntryPage struct {
	Items      []EntryWithBook `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// GetEntryByUserAndBook returns the user's entry for a book, or
// ErrNotFound when the book is not in the user's library.
func (s *Store) GetEntryByUserAndBook(ctx context.Context, userID, bookID string) (*domain.LibraryEntry, error) {
	return s.Entries.GetByIndex(ctx, "userbook", userBookKey(userID, bookID))
}

// ListUserEntries returns all of a user's entries paired with their
// books. Entries whose book record is missing are skipped.
func (s *Store) ListUserEntries(ctx context.Context, userID string) ([]EntryWithBook, error) {
	var out []EntryWithBook
	for entry, err := range s.Entries.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return nil, fmt.Errorf("list entries for user %s: %w", userID, err)
		}
		book, err := s.Books.Get(ctx, entry.BookID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get book %s: %w", entry.BookID, err)
		}
		out = append(out, EntryWithBook{Entry: entry, Book: book})
	}
	return out, nil
}

// QueryEntries filters, sorts and paginates a user's library.
func (s *Store) QueryEntries(ctx context.Context, userID string, q EntryQuery) (*EntryPage, error) {
	q.Normalize()

	all, err := s.ListUserEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := make([]EntryWithBook, 0, len(all))
	for _, item := range all {
		if q.Shelf != "" && item.Entry.Shelf != q.Shelf {
			continue
		}
		if !item.Entry.MatchesSearch(item.Book, q.Search) {
			continue
		}
		filtered = append(filtered, item)
	}

	sortEntries(filtered, q.SortBy, q.SortOrder)

	total := len(filtered)
	totalPages := (total + q.Limit - 1) / q.Limit

	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return &EntryPage{
		Items:      filtered[start:end],
		TotalCount: total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}, nil
}

func sortEntries(items []EntryWithBook, sortBy, order string) {
	less := func(a, b EntryWithBook) bool {
		switch sortBy {
		case "title":
			return strings.ToLower(a.Book.Title) < strings.ToLower(b.Book.Title)
		case "author":
			return strings.ToLower(a.Book.AuthorLine()) < strings.ToLower(b.Book.AuthorLine())
		case "rating":
			return a.Entry.Rating < b.Entry.Rating
		default: // createdAt
			return a.Entry.CreatedAt.Before(b.Entry.CreatedAt)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if order == "asc" {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}

// CountUserEntries returns the number of entries in a user's library.
func (s *Store) CountUserEntries(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, err := range s.Entries.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return 0, fmt.Errorf("count entries for user %s: %w", userID, err)
		}
		count++
	}
	return count, nil
}

// CountEntriesByShelf returns per-shelf entry counts for a user. Every
// known shelf is present in the result, possibly with a zero count.
func (s *Store) CountEntriesByShelf(ctx context.Context, userID string) (map[domain.Shelf]int, error) {
	counts := map[domain.Shelf]int{
		domain.ShelfReading:   0,
		domain.ShelfCompleted: 0,
		domain.ShelfToRead:    0,
		domain.ShelfAbandoned: 0,
	}
	for entry, err := range s.Entries.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return nil, fmt.Errorf("count shelves for user %s: %w", userID, err)
		}
		counts[entry.Shelf]++
	}
	return counts, nil
}

// CountCompletedEntries returns how many books the user has completed.
func (s *Store) CountCompletedEntries(ctx context.Context, userID string) (int, error) {
	counts, err := s.CountEntriesByShelf(ctx, userID)
	if err != nil {
		return 0, err
	}
	return counts[domain.ShelfCompleted], nil
}

// CountCompletedSince returns how many entries the user completed at
// or after the cutoff time.
func (s *Store) CountCompletedSince(ctx context.Context, userID string, cutoff time.Time) (int, error) {
	count := 0
	for entry, err := range s.Entries.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return 0, fmt.Errorf("count completed for user %s: %w", userID, err)
		}
		if entry.Shelf == domain.ShelfCompleted &&
			entry.EndDate != nil && !entry.EndDate.Before(cutoff) {
			count++
		}
	}
	return count, nil
}
