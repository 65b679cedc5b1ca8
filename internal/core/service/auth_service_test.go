package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs for the Redis-backed stores
// ---------------------------------------------------------------------------

type stubStateStore struct {
	states  map[string]bool
	saveErr error
}

func newStubStateStore() *stubStateStore {
	return &stubStateStore{states: make(map[string]bool)}
}

func (s *stubStateStore) Save(_ context.Context, state string, _ time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.states[state] = true
	return nil
}

func (s *stubStateStore) Consume(_ context.Context, state string) (bool, error) {
	if s.states[state] {
		delete(s.states, state)
		return true, nil
	}
	return false, nil
}

type stubRevoker struct {
	revoked map[string]time.Time
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	r.revoked[jti] = until
	return nil
}

// ---------------------------------------------------------------------------
// Fake OAuth provider
// ---------------------------------------------------------------------------

// fakeProvider serves the token and userinfo endpoints of an OAuth provider
// from a single httptest server.
func fakeProvider(t *testing.T, userinfoJSON string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/oauth/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userinfoJSON))
	})
	return httptest.NewServer(mux)
}

func newTestAuthService(provider *httptest.Server, states *stubStateStore, revoker *stubRevoker, users *stubUserRepo) *AuthService {
	conf := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/auth/callback",
		Scopes:       []string{"identify", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  provider.URL + "/oauth/authorize",
			TokenURL: provider.URL + "/oauth/token",
		},
	}
	return NewAuthService(conf, provider.URL+"/oauth/userinfo", users, states, revoker, "test-secret", time.Hour, discardLogger)
}

// ---------------------------------------------------------------------------
// BeginLogin tests
// ---------------------------------------------------------------------------

func TestAuthService_BeginLogin(t *testing.T) {
	provider := fakeProvider(t, `{}`)
	defer provider.Close()

	states := newStubStateStore()
	svc := newTestAuthService(provider, states, newStubRevoker(), newStubUserRepo())

	url, err := svc.BeginLogin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(url, provider.URL+"/oauth/authorize") {
		t.Errorf("authorize URL: %s", url)
	}
	if !strings.Contains(url, "state=") {
		t.Error("authorize URL must carry a state parameter")
	}
	if len(states.states) != 1 {
		t.Errorf("expected 1 stored state, got %d", len(states.states))
	}
}

func TestAuthService_BeginLogin_StoreError(t *testing.T) {
	provider := fakeProvider(t, `{}`)
	defer provider.Close()

	states := newStubStateStore()
	states.saveErr = errors.New("redis down")
	svc := newTestAuthService(provider, states, newStubRevoker(), newStubUserRepo())

	if _, err := svc.BeginLogin(context.Background()); err == nil {
		t.Fatal("expected error when the state store fails")
	}
}

// ---------------------------------------------------------------------------
// CompleteLogin tests
// ---------------------------------------------------------------------------

func TestAuthService_CompleteLogin(t *testing.T) {
	provider := fakeProvider(t, `{"sub":"provider-123","name":"Ada","email":"ada@example.com","picture":"https://img/ada.png"}`)
	defer provider.Close()

	states := newStubStateStore()
	users := newStubUserRepo()
	svc := newTestAuthService(provider, states, newStubRevoker(), users)

	states.states["state-1"] = true

	token, user, err := svc.CompleteLogin(context.Background(), "state-1", "auth-code")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID != "provider-123" || user.Name != "Ada" || user.Email != "ada@example.com" {
		t.Errorf("upserted user: %+v", user)
	}
	if user.Image != "https://img/ada.png" {
		t.Errorf("avatar: %q", user.Image)
	}
	if _, ok := users.users["provider-123"]; !ok {
		t.Error("user row not persisted")
	}

	// The session token must be a valid HS256 JWT carrying our claims.
	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "provider-123" {
		t.Errorf("sub claim: %v", claims["sub"])
	}
	if claims["jti"] == "" || claims["jti"] == nil {
		t.Error("token must carry a jti")
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("token must carry an expiry")
	}
}

func TestAuthService_CompleteLogin_IDFallback(t *testing.T) {
	// Providers without OIDC return "id" instead of "sub" and "username"
	// instead of "name".
	provider := fakeProvider(t, `{"id":"discord-42","username":"ada_l","email":"ada@example.com","avatar_url":"https://img/a.png"}`)
	defer provider.Close()

	states := newStubStateStore()
	users := newStubUserRepo()
	svc := newTestAuthService(provider, states, newStubRevoker(), users)
	states.states["state-1"] = true

	_, user, err := svc.CompleteLogin(context.Background(), "state-1", "auth-code")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "discord-42" || user.Name != "ada_l" || user.Image != "https://img/a.png" {
		t.Errorf("fallback mapping: %+v", user)
	}
}

func TestAuthService_CompleteLogin_UnknownState(t *testing.T) {
	provider := fakeProvider(t, `{}`)
	defer provider.Close()

	svc := newTestAuthService(provider, newStubStateStore(), newStubRevoker(), newStubUserRepo())

	_, _, err := svc.CompleteLogin(context.Background(), "forged", "auth-code")
	if !errors.Is(err, domain.ErrInvalidOAuthState) {
		t.Errorf("expected ErrInvalidOAuthState, got %v", err)
	}
}

func TestAuthService_CompleteLogin_StateIsSingleUse(t *testing.T) {
	provider := fakeProvider(t, `{"sub":"provider-123","name":"Ada","email":"ada@example.com"}`)
	defer provider.Close()

	states := newStubStateStore()
	svc := newTestAuthService(provider, states, newStubRevoker(), newStubUserRepo())
	states.states["state-1"] = true

	if _, _, err := svc.CompleteLogin(context.Background(), "state-1", "auth-code"); err != nil {
		t.Fatalf("first callback failed: %v", err)
	}

	_, _, err := svc.CompleteLogin(context.Background(), "state-1", "auth-code")
	if !errors.Is(err, domain.ErrInvalidOAuthState) {
		t.Errorf("replayed state must be rejected, got %v", err)
	}
}

func TestAuthService_CompleteLogin_NoSubject(t *testing.T) {
	provider := fakeProvider(t, `{"email":"nobody@example.com"}`)
	defer provider.Close()

	states := newStubStateStore()
	svc := newTestAuthService(provider, states, newStubRevoker(), newStubUserRepo())
	states.states["state-1"] = true

	if _, _, err := svc.CompleteLogin(context.Background(), "state-1", "auth-code"); err == nil {
		t.Fatal("expected error when userinfo carries no subject")
	}
}

func TestAuthService_CompleteLogin_RefreshesIdentity(t *testing.T) {
	provider := fakeProvider(t, `{"sub":"provider-123","name":"Ada (new)","email":"new@example.com"}`)
	defer provider.Close()

	states := newStubStateStore()
	users := newStubUserRepo()
	users.users["provider-123"] = &domain.User{
		ID: "provider-123", Name: "Ada (old)", Email: "old@example.com",
		Bio: "keep me", Theme: domain.ThemeDark,
	}
	svc := newTestAuthService(provider, states, newStubRevoker(), users)
	states.states["state-1"] = true

	_, user, err := svc.CompleteLogin(context.Background(), "state-1", "auth-code")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Name != "Ada (new)" || user.Email != "new@example.com" {
		t.Errorf("identity not refreshed: %+v", user)
	}
	if user.Bio != "keep me" || user.Theme != domain.ThemeDark {
		t.Errorf("profile fields must survive sign-in: %+v", user)
	}
}

// ---------------------------------------------------------------------------
// Logout tests
// ---------------------------------------------------------------------------

func TestAuthService_Logout(t *testing.T) {
	provider := fakeProvider(t, `{}`)
	defer provider.Close()

	revoker := newStubRevoker()
	svc := newTestAuthService(provider, newStubStateStore(), revoker, newStubUserRepo())

	exp := time.Now().Add(time.Hour).Unix()
	if err := svc.Logout(context.Background(), "jti-1", exp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	until, ok := revoker.revoked["jti-1"]
	if !ok {
		t.Fatal("jti not revoked")
	}
	if until.Unix() != exp {
		t.Errorf("revocation must last until token expiry: got %v", until)
	}
}

func TestAuthService_Logout_ExpiredTokenIsNoop(t *testing.T) {
	provider := fakeProvider(t, `{}`)
	defer provider.Close()

	revoker := newStubRevoker()
	svc := newTestAuthService(provider, newStubStateStore(), revoker, newStubUserRepo())

	exp := time.Now().Add(-time.Minute).Unix()
	if err := svc.Logout(context.Background(), "jti-old", exp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(revoker.revoked) != 0 {
		t.Error("expired token must not be added to the denylist")
	}
}
