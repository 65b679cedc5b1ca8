package service

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// UserService serves the public user directory backing the assignment
// dropdown.
type UserService struct {
	users ports.UserRepository
}

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]ports.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ports.PublicUser, len(users))
	for i, u := range users {
		out[i] = ports.PublicUser{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Image: u.Image,
		}
	}
	return out, nil
}
