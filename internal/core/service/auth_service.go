package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

const stateTTL = 10 * time.Minute

// StateStore holds short-lived OAuth state nonces (Redis).
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume removes the state and reports whether it existed. A state can
	// only ever be consumed once.
	Consume(ctx context.Context, state string) (bool, error)
}

// TokenRevoker is the sign-out denylist (Redis).
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

// AuthService implements the OAuth authorization-code flow against an
// external identity provider and issues HS256 session tokens. No credential
// is ever stored locally; the provider's stable subject id is the tenant
// boundary for all data access.
type AuthService struct {
	oauth       *oauth2.Config
	userInfoURL string
	users       ports.UserRepository
	states      StateStore
	revoker     TokenRevoker
	jwtSecret   string
	tokenTTL    time.Duration
	log         zerolog.Logger
}

func NewAuthService(
	oauth *oauth2.Config,
	userInfoURL string,
	users ports.UserRepository,
	states StateStore,
	revoker TokenRevoker,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		oauth:       oauth,
		userInfoURL: userInfoURL,
		users:       users,
		states:      states,
		revoker:     revoker,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

// BeginLogin stores a fresh state nonce and returns the provider's
// authorization URL.
func (s *AuthService) BeginLogin(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.states.Save(ctx, state, stateTTL); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// providerProfile covers the userinfo shapes of the common providers: some
// return "sub" (OIDC), some "id"; the avatar arrives as "picture" or
// "avatar_url".
type providerProfile struct {
	Sub       string `json:"sub"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Picture   string `json:"picture"`
	AvatarURL string `json:"avatar_url"`
}

func (p providerProfile) subject() string {
	if p.Sub != "" {
		return p.Sub
	}
	return p.ID
}

func (p providerProfile) displayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}

func (p providerProfile) avatar() string {
	if p.Picture != "" {
		return p.Picture
	}
	return p.AvatarURL
}

// CompleteLogin verifies the state nonce, exchanges the authorization code,
// fetches the provider profile, upserts the user row and returns a signed
// session token alongside the user.
func (s *AuthService) CompleteLogin(ctx context.Context, state, code string) (string, *domain.User, error) {
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", nil, fmt.Errorf("consume oauth state: %w", err)
	}
	if !ok {
		return "", nil, domain.ErrInvalidOAuthState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("oauth exchange: %w", err)
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return "", nil, err
	}
	if profile.subject() == "" {
		return "", nil, fmt.Errorf("userinfo response carries no subject id")
	}

	user, err := s.users.Upsert(ctx, &domain.User{
		ID:    profile.subject(),
		Name:  profile.displayName(),
		Email: profile.Email,
		Image: profile.avatar(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", profile.subject()).Msg("failed to upsert user on sign-in")
		return "", nil, err
	}

	sessionToken, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user signed in")
	return sessionToken, user, nil
}

func (s *AuthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*providerProfile, error) {
	client := s.oauth.Client(ctx, token)

	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: provider returned %d", resp.StatusCode)
	}

	var profile providerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &profile, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// Logout revokes the presented token until its natural expiry. An already
// expired token is a no-op.
func (s *AuthService) Logout(ctx context.Context, jti string, expUnix int64) error {
	until := time.Unix(expUnix, 0)
	if !until.After(time.Now()) {
		return nil
	}
	if err := s.revoker.Revoke(ctx, jti, until); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.log.Info().Str("jti", jti).Msg("session revoked")
	return nil
}
