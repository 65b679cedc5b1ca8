package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuthStore keeps the short-lived state of the auth flow in Redis: OAuth
// state nonces awaiting a callback, and a denylist of revoked session
// tokens that lives until each token would have expired anyway.
type AuthStore struct {
	client *redis.Client
}

func NewAuthStore(client *redis.Client) *AuthStore {
	return &AuthStore{client: client}
}

// Save records a state nonce for the given TTL.
func (s *AuthStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, stateKey(state), "1", ttl).Err()
}

// Consume removes the state nonce and reports whether it existed, so a
// replayed callback with a used state fails.
func (s *AuthStore) Consume(ctx context.Context, state string) (bool, error) {
	err := s.client.GetDel(ctx, stateKey(state)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume state: %w", err)
	}
	return true, nil
}

// Revoke denylists the token id until its expiry.
func (s *AuthStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether the token id has been signed out.
func (s *AuthStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func stateKey(state string) string { return "oauth:state:" + state }
func revokedKey(jti string) string { return "session:revoked:" + jti }
