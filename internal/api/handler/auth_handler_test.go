package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

type stubAuthService struct {
	loginURL  string
	token     string
	user      *domain.User
	err       error
	lastJTI   string
	lastExp   int64
	lastState string
	lastCode  string
}

func (s *stubAuthService) BeginLogin(_ context.Context) (string, error) {
	return s.loginURL, s.err
}

func (s *stubAuthService) CompleteLogin(_ context.Context, state, code string) (string, *domain.User, error) {
	s.lastState, s.lastCode = state, code
	return s.token, s.user, s.err
}

func (s *stubAuthService) Logout(_ context.Context, jti string, expUnix int64) error {
	s.lastJTI, s.lastExp = jti, expUnix
	return s.err
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{loginURL: "https://provider.example/oauth/authorize?state=abc"}
	h := NewAuthHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != svc.loginURL {
		t.Errorf("redirect target: %q", loc)
	}
}

func TestAuthHandler_Login_ServiceError(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: errors.New("redis down")})

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/login", nil), httptest.NewRecorder())

	if err := h.Login(c); err == nil {
		t.Fatal("expected error")
	}
}

func TestAuthHandler_Callback(t *testing.T) {
	svc := &stubAuthService{token: "jwt-token", user: sampleUser()}
	h := NewAuthHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=abc&code=xyz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Callback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastState != "abc" || svc.lastCode != "xyz" {
		t.Errorf("params passed: state=%q code=%q", svc.lastState, svc.lastCode)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "jwt-token" || resp.User.ID != "owner_1" {
		t.Errorf("response: %+v", resp)
	}
}

func TestAuthHandler_Callback_MissingParams(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	for _, target := range []string{"/auth/callback", "/auth/callback?state=abc", "/auth/callback?code=xyz"} {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())

		err := h.Callback(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 HTTPError, got %v", target, err)
		}
	}
}

func TestAuthHandler_Callback_InvalidStatePassesThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidOAuthState})

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/callback?state=bad&code=xyz", nil), httptest.NewRecorder())

	if err := h.Callback(c); err != domain.ErrInvalidOAuthState {
		t.Fatalf("expected ErrInvalidOAuthState passthrough, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newTaskContext(http.MethodPost, "/auth/logout", "")
	c.Set("jti", "jti-1")
	c.Set("exp", int64(1893456000))

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.lastJTI != "jti-1" || svc.lastExp != 1893456000 {
		t.Errorf("revocation args: jti=%q exp=%d", svc.lastJTI, svc.lastExp)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), httptest.NewRecorder())

	err := h.Logout(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
