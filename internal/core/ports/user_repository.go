package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Exists is the cheap form of FindByID used to validate assignee
	// references before a task write.
	Exists(ctx context.Context, id string) (bool, error)
	// List returns all users ordered by name ascending.
	List(ctx context.Context) ([]domain.User, error)
	// Upsert inserts the user or, when the id already exists, refreshes the
	// provider-owned identity columns (name, email, image). Profile fields
	// are never touched by Upsert.
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	// UpdateProfile writes exactly the columns present in changes and
	// returns the updated row, or domain.ErrUserNotFound when no row matched.
	UpdateProfile(ctx context.Context, id string, changes map[string]any) (*domain.User, error)
}
