package domain

import "time"

// AchievementType identifies a distinct achievement.
type AchievementType string

const (
	AchievementFirstRegistration AchievementType = "first_registration"
	AchievementFirstBook         AchievementType = "first_book"
	AchievementFirstCompletion   AchievementType = "first_completion"
	AchievementTenBooks          AchievementType = "ten_books"
	AchievementFiftyBooks        AchievementType = "fifty_books"
)

// Achievement is a milestone unlocked by a user.
type Achievement struct {
	Type        AchievementType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	UnlockedAt  time.Time       `json:"unlocked_at"`
}

func newAchievement(typ AchievementType, title, description, icon string) Achievement {
	return Achievement{
		Type:        typ,
		Title:       title,
		Description: description,
		Icon:        icon,
		UnlockedAt:  time.Now(),
	}
}

// WelcomeAchievement is granted on registration.
func WelcomeAchievement() Achievement {
	return newAchievement(AchievementFirstRegistration,
		"Welcome!", "You joined ReadTrail", "🎉")
}

// AchievementForLibrarySize returns the achievement unlocked by
// growing the library to exactly total entries, or nil.
func AchievementForLibrarySize(total int) *Achievement {
	if total == 1 {
		a := newAchievement(AchievementFirstBook,
			"First Book", "You added your first book", "📖")
		return &a
	}
	return nil
}

// AchievementForCompletedCount returns the achievement unlocked by
// finishing exactly completed books, or nil. Thresholds match exactly,
// so skipping past one (for example by bulk import) does not unlock it.
func AchievementForCompletedCount(completed int) *Achievement {
	var a Achievement
	switch completed {
	case 1:
		a = newAchievement(AchievementFirstCompletion,
			"First Finish", "You completed your first book", "🏁")
	case 10:
		a = newAchievement(AchievementTenBooks,
			"Ten Down", "You completed ten books", "🔟")
	case 50:
		a = newAchievement(AchievementFiftyBooks,
			"Half Century", "You completed fifty books", "🏆")
	default:
		return nil
	}
	return &a
}
