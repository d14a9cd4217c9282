package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 14, 30, 0, 0, time.Local)
}

func TestRecordReadingDay_FirstEver(t *testing.T) {
	var s ReadingStats
	s.RecordReadingDay(day(2026, time.March, 3))

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
	require.NotNil(t, s.LastReadDate)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.Local), *s.LastReadDate)
}

func TestRecordReadingDay_ConsecutiveDaysExtend(t *testing.T) {
	var s ReadingStats
	for d := 1; d <= 5; d++ {
		s.RecordReadingDay(day(2026, time.March, d))
	}

	assert.Equal(t, 5, s.CurrentStreak)
	assert.Equal(t, 5, s.LongestStreak)
}

func TestRecordReadingDay_SameDayNoChange(t *testing.T) {
	var s ReadingStats
	s.RecordReadingDay(day(2026, time.March, 3))
	s.RecordReadingDay(day(2026, time.March, 3).Add(4 * time.Hour))

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
}

func TestRecordReadingDay_GapResets(t *testing.T) {
	var s ReadingStats
	s.RecordReadingDay(day(2026, time.March, 1))
	s.RecordReadingDay(day(2026, time.March, 2))
	s.RecordReadingDay(day(2026, time.March, 3))
	s.RecordReadingDay(day(2026, time.March, 10))

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak, "longest streak survives the reset")
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local), *s.LastReadDate)
}

func TestRecordReadingDay_CrossMidnightCountsAsNextDay(t *testing.T) {
	var s ReadingStats
	s.RecordReadingDay(time.Date(2026, time.March, 3, 23, 30, 0, 0, time.Local))
	s.RecordReadingDay(time.Date(2026, time.March, 4, 0, 30, 0, 0, time.Local))

	assert.Equal(t, 2, s.CurrentStreak, "a new calendar day extends the streak even under 24h apart")
	assert.Equal(t, time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local), *s.LastReadDate)
}

func TestRecordReadingDay_LongestTracksNewRecord(t *testing.T) {
	var s ReadingStats
	s.RecordReadingDay(day(2026, time.March, 1))
	s.RecordReadingDay(day(2026, time.March, 2))
	s.RecordReadingDay(day(2026, time.March, 5))
	s.RecordReadingDay(day(2026, time.March, 6))
	s.RecordReadingDay(day(2026, time.March, 7))

	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
}

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("Ada", "ada@example.com")

	assert.Equal(t, "light", u.Preferences.Theme)
	assert.Equal(t, "grid", u.Preferences.DefaultView)
	assert.Equal(t, "en", u.Preferences.Language)
	assert.Equal(t, 2, u.Goals.MonthlyBooks)
	assert.Equal(t, 500, u.Goals.MonthlyPages)
	assert.Equal(t, 24, u.Goals.YearlyBooks)
	assert.Equal(t, 6000, u.Goals.YearlyPages)
	assert.True(t, u.IsActive)
	assert.Empty(t, u.Achievements)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUnlock_OncePerType(t *testing.T) {
	u := NewUser("Ada", "ada@example.com")

	assert.True(t, u.Unlock(WelcomeAchievement()))
	assert.False(t, u.Unlock(WelcomeAchievement()))
	assert.Len(t, u.Achievements, 1)
	assert.True(t, u.HasAchievement(AchievementFirstRegistration))
}

func TestRecentAchievements(t *testing.T) {
	u := NewUser("Ada", "ada@example.com")
	u.Unlock(WelcomeAchievement())
	u.Unlock(*AchievementForLibrarySize(1))
	u.Unlock(*AchievementForCompletedCount(1))

	recent := u.RecentAchievements(2)
	require.Len(t, recent, 2)
	assert.Equal(t, AchievementFirstCompletion, recent[0].Type)
	assert.Equal(t, AchievementFirstBook, recent[1].Type)

	assert.Len(t, u.RecentAchievements(10), 3)
}

func TestAchievementThresholds_ExactMatchOnly(t *testing.T) {
	tests := []struct {
		completed int
		want      AchievementType
	}{
		{1, AchievementFirstCompletion},
		{10, AchievementTenBooks},
		{50, AchievementFiftyBooks},
	}
	for _, tt := range tests {
		a := AchievementForCompletedCount(tt.completed)
		require.NotNil(t, a, "count %d", tt.completed)
		assert.Equal(t, tt.want, a.Type)
	}

	for _, n := range []int{0, 2, 9, 11, 49, 51, 100} {
		assert.Nil(t, AchievementForCompletedCount(n), "count %d", n)
	}

	require.NotNil(t, AchievementForLibrarySize(1))
	assert.Nil(t, AchievementForLibrarySize(2))
	assert.Nil(t, AchievementForLibrarySize(0))
}
