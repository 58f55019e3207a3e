package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fteye/pagemill/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter()
	requireAuth := middleware.Auth(s.userStore)

	s.E.GET("/", s.homeHandler.HomeGet)

	// Authentication. Credential POSTs are rate limited.
	auth := s.E.Group("/auth")
	auth.GET("/register", s.authHandler.RegisterGetHandler)
	auth.POST("/register", s.authHandler.RegisterPost, rateLimiter)
	auth.GET("/login", s.authHandler.LoginGetHandler)
	auth.POST("/login", s.authHandler.LoginPost, rateLimiter)
	auth.GET("/logout", s.authHandler.Logout)
	auth.GET("/forgot-password", s.authHandler.ForgotPasswordGetHandler)
	auth.POST("/forgot-password", s.authHandler.ForgotPasswordPost, rateLimiter)
	auth.GET("/reset-password", s.authHandler.ResetPasswordGetHandler)
	auth.POST("/reset-password", s.authHandler.ResetPasswordPostHandler)

	// Account management. The verify link is public because it arrives by
	// email and may be opened in a fresh browser session.
	account := s.E.Group("/account", requireAuth)
	account.GET("/password", s.accountHandler.ChangePasswordGet)
	account.POST("/password", s.accountHandler.ChangePasswordPost)
	account.GET("/emails", s.accountHandler.EmailsGet)
	account.POST("/emails", s.accountHandler.EmailsAddPost)
	account.POST("/emails/primary", s.accountHandler.EmailsPrimaryPost)
	account.POST("/emails/resend", s.accountHandler.EmailsResendPost)
	account.POST("/emails/remove", s.accountHandler.EmailsRemovePost)
	s.E.GET("/account/emails/verify", s.accountHandler.EmailsVerifyGet)

	// Documents.
	docs := s.E.Group("/docs", requireAuth)
	docs.GET("", s.documentHandler.ListGet)
	docs.GET("/upload", s.documentHandler.UploadGet)
	docs.POST("/upload", s.documentHandler.UploadPost)
	docs.GET("/:id", s.documentHandler.DetailGet)
	docs.GET("/:id/row", s.documentHandler.RowGet)
	docs.GET("/:id/pages/:page", s.documentHandler.PageGet)
	docs.GET("/:id/pages/:page/edit", s.documentHandler.PageEditGet)
	docs.POST("/:id/pages/:page/edit", s.documentHandler.PageEditPost)
	docs.POST("/:id/retry", s.documentHandler.RetryPost)
	docs.POST("/:id/delete", s.documentHandler.DeletePost)

	// JSON status endpoint polled by the document detail page.
	s.E.GET("/api/docs/:id/status", s.documentHandler.StatusGet, requireAuth)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
