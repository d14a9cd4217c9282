package service

import (
	"context"
	"log/slog"

	"github.com/readtrailapp/readtrail-server/internal/domain"
	"github.com/readtrailapp/readtrail-server/internal/store"
)

// AchievementService evaluates milestone achievements after library
// events. Evaluation failures are logged and swallowed so they never
// break the triggering operation.
type AchievementService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAchievementService creates an achievement evaluation service.
func NewAchievementService(store *store.Store, logger *slog.Logger) *AchievementService {
	return &AchievementService{
		store:  store,
		logger: logger,
	}
}

// HandleBookAdded checks library size milestones after a book is added
// and persists any new achievement on the user.
func (s *AchievementService) HandleBookAdded(ctx context.Context, user *domain.User) {
	total, err := s.store.CountUserEntries(ctx, user.ID)
	if err != nil {
		s.warn("count library entries", user.ID, err)
		return
	}

	if a := domain.AchievementForLibrarySize(total); a != nil {
		s.grant(ctx, user, *a)
	}
}

// HandleBookCompleted checks completion milestones after a book moves
// to the completed shelf. The completed count is read fresh from the
// store so milestones fire on the exact threshold.
func (s *AchievementService) HandleBookCompleted(ctx context.Context, user *domain.User) {
	completed, err := s.store.CountCompletedEntries(ctx, user.ID)
	if err != nil {
		s.warn("count completed entries", user.ID, err)
		return
	}

	if a := domain.AchievementForCompletedCount(completed); a != nil {
		s.grant(ctx, user, *a)
	}
}

func (s *AchievementService) grant(ctx context.Context, user *domain.User, a domain.Achievement) {
	if !user.Unlock(a) {
		return
	}

	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		s.warn("save achievement", user.ID, err)
		return
	}

	if s.logger != nil {
		s.logger.Info("Achievement unlocked",
			"user_id", user.ID,
			"achievement", string(a.Type),
		)
	}
}

func (s *AchievementService) warn(op, userID string, err error) {
	if s.logger != nil {
		s.logger.Warn("Achievement check failed",
			"op", op,
			"user_id", userID,
			"error", err,
		)
	}
}
