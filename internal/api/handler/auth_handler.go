package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/api/metrics"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// AuthHandler drives the OAuth sign-in flow. Credential handling lives
// entirely with the external provider; this handler only moves the browser
// through the authorization-code dance and hands out session tokens.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authResponse struct {
	Token string          `json:"token"`
	User  profileResponse `json:"user"`
}

// Login handles GET /auth/login — redirects to the identity provider.
//
// @Summary      Begin OAuth sign-in
// @Tags         auth
// @Success      302  "redirect to provider"
// @Failure      500  {object}  errorResponse
// @Router       /auth/login [get]
func (h *AuthHandler) Login(c echo.Context) error {
	url, err := h.authService.BeginLogin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// Callback handles GET /auth/callback — the provider redirect target.
//
// @Summary      Complete OAuth sign-in
// @Tags         auth
// @Produce      json
// @Param        state  query     string  true  "State nonce issued by /auth/login"
// @Param        code   query     string  true  "Authorization code"
// @Success      200    {object}  authResponse
// @Failure      400    {object}  errorResponse
// @Router       /auth/callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing state or code")
	}

	token, user, err := h.authService.CompleteLogin(c.Request().Context(), state, code)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: toProfileResponse(user)})
}

// Logout handles POST /auth/logout — revokes the presented session token.
//
// @Summary      Sign out
// @Tags         auth
// @Security     BearerAuth
// @Success      204  "session revoked"
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	jti, _ := c.Get("jti").(string)
	exp, _ := c.Get("exp").(int64)
	if jti != "" {
		if err := h.authService.Logout(c.Request().Context(), jti, exp); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}
