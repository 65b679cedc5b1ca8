package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// ProfileService exposes the caller's own profile row.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error)
}

// PublicUser is the directory projection exposed to the assignment
// dropdown: identity fields only, no preferences.
type PublicUser struct {
	ID    string
	Name  string
	Email string
	Image string
}

// UserService serves the public user directory.
type UserService interface {
	List(ctx context.Context) ([]PublicUser, error)
}
