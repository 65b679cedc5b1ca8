package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return rec, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "not authenticated"},
		{domain.ErrTaskNotFound, http.StatusNotFound, "task not found"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrBadReference, http.StatusBadRequest, "invalid user reference"},
		{domain.ErrInvalidOAuthState, http.StatusBadRequest, "invalid oauth state"},
	}

	for _, tc := range cases {
		rec, body := render(t, tc.err)
		if rec.Code != tc.wantCode {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.wantCode, rec.Code)
		}
		if body.Error != tc.wantMsg {
			t.Errorf("%v: expected message %q, got %q", tc.err, tc.wantMsg, body.Error)
		}
	}
}

func TestErrorHandler_WrappedDomainErrors(t *testing.T) {
	err := fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)

	rec, body := render(t, err)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	// Validation messages carry the detail through to the client.
	if body.Error != err.Error() {
		t.Errorf("message: %q", body.Error)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body.Error != "missing authorization header" {
		t.Errorf("message: %q", body.Error)
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	rec, body := render(t, errors.New("pq: connection refused on 10.0.0.3"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	// Internal details must never reach the client.
	if body.Error != "internal server error" {
		t.Errorf("message leaked: %q", body.Error)
	}
}

func TestErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = c.NoContent(http.StatusNoContent)
	handler(domain.ErrTaskNotFound, c)

	if rec.Code != http.StatusNoContent {
		t.Errorf("committed response rewritten: %d", rec.Code)
	}
}
