package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenRevoker answers whether a session token id has been signed out.
type TokenRevoker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Auth validates the bearer session token and injects the caller identity
// into context. A nil revoker skips the sign-out denylist check.
func Auth(jwtSecret string, revoker TokenRevoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			jti, _ := claims["jti"].(string)
			if revoker != nil && jti != "" {
				revoked, err := revoker.IsRevoked(c.Request().Context(), jti)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "session check failed")
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
				}
			}

			var exp int64
			if v, ok := claims["exp"].(float64); ok {
				exp = int64(v)
			}

			c.Set("user_id", sub)
			c.Set("email", claims["email"])
			c.Set("jti", jti)
			c.Set("exp", exp)

			return next(c)
		}
	}
}
