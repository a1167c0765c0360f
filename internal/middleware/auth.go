package middleware

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/identity"
)

const userIDKey = "userID"

// Auth verifies the bearer credential and stores the principal id in the
// context for the handlers.
func Auth(verifier identity.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperr.Unauthorized("Authorization header is missing")
			}

			tokenParts := strings.Fields(authHeader)
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return apperr.Unauthorized("Authorization header must be in Bearer format")
			}

			uid, err := verifier.Verify(c.Request().Context(), tokenParts[1])
			if err != nil {
				log.Debug("credential rejected", "path", c.Path(), "err", err)
				return apperr.Unauthorized("Invalid or expired credential")
			}

			c.Set(userIDKey, uid)
			return next(c)
		}
	}
}

// UserID returns the principal id stored by Auth.
func UserID(c echo.Context) (string, error) {
	uid, ok := c.Get(userIDKey).(string)
	if !ok || uid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return uid, nil
}
