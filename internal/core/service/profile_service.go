package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

const maxBioLength = 500

type ProfileService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewProfileService(users ports.UserRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// Get returns the caller's own profile row.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Update applies a presence-based partial update to the caller's profile.
// Booleans explicitly set to false are still written; that is the whole
// reason the patch carries presence flags instead of plain values. Nulls
// are rejected here: unlike tasks, profile fields have no null-means-clear
// convention.
func (s *ProfileService) Update(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	changes, err := reconcileProfile(patch)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, userID, changes)
	if err != nil {
		if err != domain.ErrUserNotFound {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update profile")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Int("fields", len(changes)-1).Msg("profile updated")
	return user, nil
}

func reconcileProfile(patch domain.ProfilePatch) (map[string]any, error) {
	if patch.Name.Null || patch.Bio.Null || patch.Role.Null || patch.Department.Null ||
		patch.Theme.Null || patch.EmailNotifications.Null || patch.TaskReminders.Null {
		return nil, fmt.Errorf("%w: profile fields cannot be null", domain.ErrValidation)
	}

	changes := map[string]any{
		"updated_at": time.Now().UTC(),
	}

	if patch.Name.Present() && patch.Name.Value != "" {
		if utf8.RuneCountInString(patch.Name.Value) < 2 {
			return nil, fmt.Errorf("%w: name must be at least 2 characters", domain.ErrValidation)
		}
		changes["name"] = patch.Name.Value
	}
	if patch.Bio.Present() && patch.Bio.Value != "" {
		if utf8.RuneCountInString(patch.Bio.Value) > maxBioLength {
			return nil, fmt.Errorf("%w: bio must be at most %d characters", domain.ErrValidation, maxBioLength)
		}
		changes["bio"] = patch.Bio.Value
	}
	if patch.Role.Present() && patch.Role.Value != "" {
		changes["role"] = patch.Role.Value
	}
	if patch.Department.Present() && patch.Department.Value != "" {
		changes["department"] = patch.Department.Value
	}
	if patch.Theme.Present() {
		if !patch.Theme.Value.Valid() {
			return nil, fmt.Errorf("%w: unknown theme %q", domain.ErrValidation, patch.Theme.Value)
		}
		changes["theme"] = patch.Theme.Value
	}
	// Presence check, not truthiness: false must still be written.
	if patch.EmailNotifications.Set {
		changes["email_notifications"] = patch.EmailNotifications.Value
	}
	if patch.TaskReminders.Set {
		changes["task_reminders"] = patch.TaskReminders.Value
	}

	return changes, nil
}
