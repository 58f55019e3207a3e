package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	cmp "maragu.dev/gomponents"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/middleware"
	"github.com/fteye/pagemill/internal/view"
	"github.com/fteye/pagemill/web/src/templates/layouts"
)

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusResponse is the JSON body of the document status endpoint, consumed
// by the client-side poll on the document detail page.
type StatusResponse struct {
	Status domain.DocumentStatus `json:"status"`
	Error  string                `json:"error,omitempty"`
}

// NewStatusResponse builds the poll response for a document.
func NewStatusResponse(doc *domain.Document) StatusResponse {
	return StatusResponse{
		Status: doc.Status,
		Error:  doc.ErrorMessage,
	}
}

// renderPage wraps page content in the Base layout with the pending flash
// messages and hands it to the universal renderer via c.Render. The layout is
// bridged to a templ.Component so the renderer carries the request context.
// Every full-page handler funnels through here.
func renderPage(c echo.Context, title string, content cmp.Node) error {
	flashes := view.GetFlashData(c)
	finalComponent := view.AdaptGomponentToTempl(layouts.Base(title, flashes, content))

	return c.Render(http.StatusOK, "", finalComponent)
}

// currentUser returns the authenticated user placed in the context by the
// auth middleware. Handlers behind that middleware can rely on it being set.
func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	return user
}
