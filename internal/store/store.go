package store

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/readtrailapp/readtrail-server/internal/domain"
)

// Key prefixes. Every entity and its index keys live under one prefix.
const (
	userPrefix    = "user:"
	bookPrefix    = "book:"
	entryPrefix   = "entry:"
	sessionPrefix = "session:"
)

// Store wraps a Badger database instance and exposes typed entities.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Users    *Entity[domain.User]
	Books    *Entity[domain.Book]
	Entries  *Entity[domain.LibraryEntry]
	Sessions *Entity[domain.Session]
}

// New opens the database at path and initializes all entities.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Badger's own logging is too chatty
	opts.SyncWrites = true       // Sync writes to survive crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	s.initUsers()
	s.initBooks()
	s.initEntries()
	s.initSessions()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// initUsers sets up the Users entity with a case-insensitive unique
// email index.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, userPrefix).
		WithUniqueIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)
}

// initBooks sets up the Books entity. Books are deduplicated on their
// Google Books volume ID.
func (s *Store) initBooks() {
	s.Books = NewEntity[domain.Book](s, bookPrefix).
		WithUniqueIndex("gbid", func(b *domain.Book) []string {
			if b.GoogleBooksID == "" {
				return nil
			}
			return []string{b.GoogleBooksID}
		})
}

// initEntries sets up the Entries entity. The unique userbook index
// enforces at most one entry per (user, book) pair; the user listing
// index backs library queries.
func (s *Store) initEntries() {
	s.Entries = NewEntity[domain.LibraryEntry](s, entryPrefix).
		WithUniqueIndex("userbook", func(e *domain.LibraryEntry) []string {
			return []string{userBookKey(e.UserID, e.BookID)}
		}).
		WithListIndex("user", func(e *domain.LibraryEntry) []string {
			return []string{e.UserID}
		})
}

// initSessions sets up the Sessions entity with a unique refresh token
// index and a per-user listing index.
func (s *Store) initSessions() {
	s.Sessions = NewEntity[domain.Session](s, sessionPrefix).
		WithUniqueIndex("token", func(sess *domain.Session) []string {
			return []string{sess.RefreshTokenHash}
		}).
		WithListIndex("user", func(sess *domain.Session) []string {
			return []string{sess.UserID}
		})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// userBookKey builds the compound value for the userbook index. The
// pipe never appears in nanoid-based IDs.
func userBookKey(userID, bookID string) string {
	return userID + "|" + bookID
}
