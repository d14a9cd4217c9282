package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/readtrailapp/readtrail-server/internal/domain"
	domainerrors "github.com/readtrailapp/readtrail-server/internal/errors"
	"github.com/readtrailapp/readtrail-server/internal/store"
)

const (
	dashboardReadingLimit      = 3
	dashboardCompletedLimit    = 5
	dashboardAchievementsLimit = 5
)

// DashboardService assembles the home screen summary.
type DashboardService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(store *store.Store, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		store:  store,
		logger: logger,
	}
}

// Dashboard is the home screen payload.
type Dashboard struct {
	User              UserSummary           `json:"user"`
	CurrentlyReading  []store.EntryWithBook `json:"currently_reading"`
	RecentlyCompleted []store.EntryWithBook `json:"recently_completed"`
	ShelfCounts       map[domain.Shelf]int  `json:"shelf_counts"`
	RandomQuote       *QuoteMatch           `json:"random_quote,omitempty"`
	MonthlyProgress   MonthlyProgress       `json:"monthly_progress"`
}

// UserSummary is the dashboard's condensed user view.
type UserSummary struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Email              string               `json:"email"`
	Stats              domain.ReadingStats  `json:"reading_stats"`
	Goals              domain.ReadingGoals  `json:"reading_goals"`
	RecentAchievements []domain.Achievement `json:"recent_achievements"`
}

// MonthlyProgress reports books completed this calendar month against
// the monthly goal.
type MonthlyProgress struct {
	Completed int `json:"completed"`
	Goal      int `json:"goal"`
}

// Get assembles the dashboard for a user.
func (s *DashboardService) Get(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	items, err := s.store.ListUserEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	shelfCounts := map[domain.Shelf]int{
		domain.ShelfReading:   0,
		domain.ShelfCompleted: 0,
		domain.ShelfToRead:    0,
		domain.ShelfAbandoned: 0,
	}
	var reading, completed []store.EntryWithBook
	for _, item := range items {
		shelfCounts[item.Entry.Shelf]++
		switch item.Entry.Shelf {
		case domain.ShelfReading:
			reading = append(reading, item)
		case domain.ShelfCompleted:
			completed = append(completed, item)
		}
	}

	// Most recently touched books first
	sort.SliceStable(reading, func(i, j int) bool {
		return timeOrZero(reading[i].Entry.LastReadDate).After(timeOrZero(reading[j].Entry.LastReadDate))
	})
	sort.SliceStable(completed, func(i, j int) bool {
		return timeOrZero(completed[i].Entry.EndDate).After(timeOrZero(completed[j].Entry.EndDate))
	})

	if len(reading) > dashboardReadingLimit {
		reading = reading[:dashboardReadingLimit]
	}
	if len(completed) > dashboardCompletedLimit {
		completed = completed[:dashboardCompletedLimit]
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	completedThisMonth, err := s.store.CountCompletedSince(ctx, userID, monthStart)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		User: UserSummary{
			ID:                 user.ID,
			Name:               user.Name,
			Email:              user.Email,
			Stats:              user.Stats,
			Goals:              user.Goals,
			RecentAchievements: user.RecentAchievements(dashboardAchievementsLimit),
		},
		CurrentlyReading:  emptyIfNil(reading),
		RecentlyCompleted: emptyIfNil(completed),
		ShelfCounts:       shelfCounts,
		RandomQuote:       randomQuote(items),
		MonthlyProgress: MonthlyProgress{
			Completed: completedThisMonth,
			Goal:      user.Goals.MonthlyBooks,
		},
	}, nil
}

// randomQuote picks a quote at random across the whole library, or
// nil when the user has no quotes.
func randomQuote(items []store.EntryWithBook) *QuoteMatch {
	var pool []QuoteMatch
	for _, item := range items {
		for _, quote := range item.Entry.Quotes {
			pool = append(pool, QuoteMatch{
				Quote:     quote,
				EntryID:   item.Entry.ID,
				BookID:    item.Book.ID,
				BookTitle: item.Book.Title,
			})
		}
	}
	if len(pool) == 0 {
		return nil
	}
	pick := pool[rand.IntN(len(pool))]
	return &pick
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func emptyIfNil(items []store.EntryWithBook) []store.EntryWithBook {
	if items == nil {
		return []store.EntryWithBook{}
	}
	return items
}
