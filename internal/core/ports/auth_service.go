package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// AuthService drives the OAuth authorization-code flow and session tokens.
type AuthService interface {
	// BeginLogin stores a fresh state nonce and returns the provider URL
	// the client should be redirected to.
	BeginLogin(ctx context.Context) (string, error)
	// CompleteLogin verifies the state, exchanges the code, upserts the
	// user from provider data and returns a signed session token.
	CompleteLogin(ctx context.Context, state, code string) (string, *domain.User, error)
	// Logout revokes the session token identified by jti until its expiry.
	Logout(ctx context.Context, jti string, expUnix int64) error
}
