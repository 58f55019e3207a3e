package middleware

import (
	"net/http"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/labstack/echo/v4"
)

// UserContextKey is the echo context key under which the authenticated user is stored.
const UserContextKey = "user"

// Auth creates a middleware that protects routes that require authentication.
func Auth(store domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 1. Get the token from the cookie.
			cookie, err := c.Cookie("auth_token")
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, "/auth/login")
			}
			token := cookie.Value

			// 2. Validate the token and get the user.
			user, err := store.Authenticate(c.Request().Context(), token)
			if err != nil {
				// The token is invalid; clear the stale cookie before redirecting.
				c.SetCookie(&http.Cookie{
					Name:   "auth_token",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
				return c.Redirect(http.StatusSeeOther, "/auth/login")
			}

			if user == nil {
				// Authenticate should error on an invalid token, but as a safeguard:
				return c.Redirect(http.StatusSeeOther, "/auth/login")
			}

			// 3. Store user information in the context for downstream handlers.
			c.Set(UserContextKey, user)

			return next(c)
		}
	}
}
