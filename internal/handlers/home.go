package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/fteye/pagemill/web/src/templates/pages"
)

// HomeHandler handles requests for the landing page.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomeGet handles GET /.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	// The landing page is public, so authentication is detected from the
	// cookie rather than the auth middleware.
	cookie, err := c.Cookie("auth_token")
	isAuthenticated := err == nil && cookie.Value != ""

	return renderPage(c, "Home", pages.Home(isAuthenticated))
}
