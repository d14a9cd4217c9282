package domain

import "time"

// User represents a registered reader account.
type User struct {
	Record
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Avatar         string        `json:"avatar,omitempty"`
	HashedPassword string        `json:"-"`
	Preferences    Preferences   `json:"preferences"`
	Goals          ReadingGoals  `json:"reading_goals"`
	Stats          ReadingStats  `json:"reading_stats"`
	Achievements   []Achievement `json:"achievements"`
	IsActive       bool          `json:"is_active"`
	LastLoginAt    *time.Time    `json:"last_login_at,omitempty"`
}

// Preferences holds per-user display settings.
type Preferences struct {
	Theme       string `json:"theme"`
	DefaultView string `json:"default_view"`
	Language    string `json:"language"`
}

// ReadingGoals holds the user's monthly and yearly reading targets.
type ReadingGoals struct {
	MonthlyBooks int `json:"monthly_books"`
	MonthlyPages int `json:"monthly_pages"`
	YearlyBooks  int `json:"yearly_books"`
	YearlyPages  int `json:"yearly_pages"`
}

// ReadingStats tracks cumulative reading totals and the daily streak.
type ReadingStats struct {
	TotalBooksRead int        `json:"total_books_read"`
	TotalPagesRead int        `json:"total_pages_read"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastReadDate   *time.Time `json:"last_read_date,omitempty"`
}

// NewUser creates a user with default preferences and goals.
// The ID and hashed password are set by the caller.
func NewUser(name, email string) *User {
	u := &User{
		Name:  name,
		Email: email,
		Preferences: Preferences{
			Theme:       "light",
			DefaultView: "grid",
			Language:    "en",
		},
		Goals: ReadingGoals{
			MonthlyBooks: 2,
			MonthlyPages: 500,
			YearlyBooks:  24,
			YearlyPages:  6000,
		},
		Achievements: []Achievement{},
		IsActive:     true,
	}
	u.InitTimestamps()
	return u
}

// HasAchievement reports whether the user already holds an achievement
// of the given type.
func (u *User) HasAchievement(typ AchievementType) bool {
	for _, a := range u.Achievements {
		if a.Type == typ {
			return true
		}
	}
	return false
}

// Unlock appends the achievement unless one of the same type is already
// held. It reports whether the achievement was added. Achievements are
// never revoked.
func (u *User) Unlock(a Achievement) bool {
	if u.HasAchievement(a.Type) {
		return false
	}
	u.Achievements = append(u.Achievements, a)
	u.Touch()
	return true
}

// RecentAchievements returns up to n achievements, most recently
// unlocked first.
func (u *User) RecentAchievements(n int) []Achievement {
	total := len(u.Achievements)
	if n > total {
		n = total
	}
	out := make([]Achievement, 0, n)
	for i := total - 1; i >= total-n; i-- {
		out = append(out, u.Achievements[i])
	}
	return out
}

// RecordReadingDay advances the daily reading streak for activity at
// the given time. Calendar days are compared in the local time zone.
//
// A first-ever reading day starts the streak at 1. Activity on the day
// after the last recorded day extends the streak. A gap of more than
// one day resets the streak to 1. Repeat activity on an already
// recorded day leaves the streak counters untouched. The last read
// date is always moved forward to the given day.
func (s *ReadingStats) RecordReadingDay(now time.Time) {
	today := startOfDay(now)

	if s.LastReadDate == nil {
		s.CurrentStreak = 1
		if s.LongestStreak < 1 {
			s.LongestStreak = 1
		}
		s.LastReadDate = &today
		return
	}

	last := startOfDay(*s.LastReadDate)
	days := int(today.Sub(last).Hours() / 24)

	switch {
	case days == 1:
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestStreak {
			s.LongestStreak = s.CurrentStreak
		}
	case days > 1:
		s.CurrentStreak = 1
	}

	s.LastReadDate = &today
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
