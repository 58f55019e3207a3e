package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/view"
	"github.com/fteye/pagemill/internal/view/dto/auth"
	"github.com/fteye/pagemill/web/src/templates/pages"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	userStore  domain.UserRepository
	emailStore domain.EmailAddressRepository
	emailer    domain.EmailSender
	baseURL    string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userStore domain.UserRepository, emailStore domain.EmailAddressRepository, emailer domain.EmailSender, baseURL string) *AuthHandler {
	return &AuthHandler{
		userStore:  userStore,
		emailStore: emailStore,
		emailer:    emailer,
		baseURL:    baseURL,
	}
}

// prefilledEmail pulls the "form_email" flash left by a failed POST so the
// form re-renders with the address the user typed.
func prefilledEmail(c echo.Context) string {
	var email string
	if sess, err := session.Get("flash-session", c); err == nil {
		if flashes := sess.Flashes("form_email"); len(flashes) > 0 {
			if val, ok := flashes[0].(string); ok {
				email = val
			}
		}
		// Save here to clear the consumed "form_email" flash.
		_ = sess.Save(c.Request(), c.Response())
	}
	return email
}

// stashFormEmail preserves a submitted email address for the next render of
// the form after a redirect.
func stashFormEmail(c echo.Context, email string) {
	sess, _ := session.Get("flash-session", c)
	sess.AddFlash(email, "form_email")
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
}

// RegisterGetHandler renders the registration page (GET /auth/register).
func (h *AuthHandler) RegisterGetHandler(c echo.Context) error {
	data := auth.RegisterData{Email: prefilledEmail(c)}
	return renderPage(c, "Register", pages.Register(data))
}

// RegisterPost handles the form submission for creating a new user. On
// success the signup address becomes the account's primary email and a
// verification link is mailed to it.
func (h *AuthHandler) RegisterPost(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	passwordConfirm := c.FormValue("password_confirm")

	if password != passwordConfirm {
		view.SetFlashError(c, "Passwords do not match.")
		stashFormEmail(c, email)
		return c.Redirect(http.StatusSeeOther, "/auth/register")
	}

	if len(password) < 8 {
		view.SetFlashError(c, "Password must be at least 8 characters long.")
		stashFormEmail(c, email)
		return c.Redirect(http.StatusSeeOther, "/auth/register")
	}

	// SignUp handles hashing and duplicate checks.
	newUser := &domain.User{Email: email}
	token, err := h.userStore.SignUp(c.Request().Context(), newUser, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			view.SetFlashError(c, "A user with this email already exists.")
		} else {
			slog.Error("Error creating user", "error", err)
			view.SetFlashError(c, "Could not create your account.")
		}
		stashFormEmail(c, email)
		return c.Redirect(http.StatusSeeOther, "/auth/register")
	}

	// Attach the signup address as the primary email and send the
	// verification link. Neither failure should block the fresh account, so
	// they are logged and the signup continues.
	if _, err := h.emailStore.AddPrimary(c.Request().Context(), newUser.ID, email); err != nil {
		slog.Error("Failed to create primary email address", "error", err, "email", email)
	} else {
		sendVerificationEmail(c, h.emailStore, h.emailer, h.baseURL, email)
	}

	setAuthCookie(c, token)

	view.SetFlashSuccess(c, "Account created successfully! Check your inbox to verify your email address.")
	return c.Redirect(http.StatusSeeOther, "/docs")
}

// LoginGetHandler renders the login page (GET /auth/login).
func (h *AuthHandler) LoginGetHandler(c echo.Context) error {
	data := auth.LoginData{Email: prefilledEmail(c)}
	return renderPage(c, "Login", pages.Login(data))
}

// LoginPost handles the form submission for logging in a user.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	user := &domain.User{Email: email}
	token, err := h.userStore.SignIn(c.Request().Context(), user, password)
	if err != nil {
		slog.Warn("Failed login attempt", "email", email, "error", err)
		view.SetFlashError(c, "Invalid email or password.")
		stashFormEmail(c, email)
		return c.Redirect(http.StatusSeeOther, "/auth/login")
	}

	setAuthCookie(c, token)

	view.SetFlashSuccess(c, "Logged in successfully!")
	return c.Redirect(http.StatusSeeOther, "/docs")
}

// Logout handles logging the user out by clearing their session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	// Setting MaxAge to -1 deletes the cookie immediately.
	setAuthCookie(c, "")

	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/auth/login")
}

// ForgotPasswordGetHandler renders the forgot password page.
func (h *AuthHandler) ForgotPasswordGetHandler(c echo.Context) error {
	return renderPage(c, "Forgot Password", pages.ForgotPassword(auth.ForgotPasswordData{}))
}

// ForgotPasswordPost handles the form submission for requesting a password reset.
func (h *AuthHandler) ForgotPasswordPost(c echo.Context) error {
	email := c.FormValue("email")

	token, err := h.userStore.GenerateResetToken(c.Request().Context(), email)
	if err != nil {
		// To prevent email enumeration attacks, we show a generic success message
		// even if the user was not found. The error is logged for debugging.
		slog.Info("Error generating reset token, hiding from user", "email", email, "error", err)
	}

	if token != "" && h.emailer != nil {
		resetLink := h.baseURL + "/auth/reset-password?token=" + token
		htmlBody := fmt.Sprintf(`<p>Click the link below to reset your password:</p><a href="%s">Reset Password</a>`, resetLink)
		if err := h.emailer.Send(email, "Reset Your Password", htmlBody); err != nil {
			// Log the error but still show a success message to the user.
			slog.Error("Failed to send password reset email", "error", err, "email", email)
		}
	}

	view.SetFlashSuccess(c, "If an account with that email exists, a password reset link has been sent.")
	return c.Redirect(http.StatusSeeOther, "/auth/forgot-password")
}

// ResetPasswordGetHandler renders the password reset page (GET /auth/reset-password?token=...).
func (h *AuthHandler) ResetPasswordGetHandler(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		view.SetFlashError(c, "A valid reset token is required to change your password.")
		return c.Redirect(http.StatusSeeOther, "/auth/forgot-password")
	}

	// The DTO passes the token back to the template for the hidden form field.
	data := auth.ResetPasswordData{Token: token}
	return renderPage(c, "Reset Password", pages.ResetPassword(data))
}

// ResetPasswordPostHandler handles the form submission for setting a new password.
func (h *AuthHandler) ResetPasswordPostHandler(c echo.Context) error {
	token := c.FormValue("token")
	password := c.FormValue("password")
	passwordConfirm := c.FormValue("password_confirm")

	if password != passwordConfirm {
		view.SetFlashError(c, "Passwords do not match.")
		return c.Redirect(http.StatusSeeOther, "/auth/reset-password?token="+token)
	}

	if len(password) < 8 {
		view.SetFlashError(c, "Password must be at least 8 characters long.")
		return c.Redirect(http.StatusSeeOther, "/auth/reset-password?token="+token)
	}

	// ResetPassword handles token validation, password update and token
	// invalidation in one atomic step.
	user, err := h.userStore.ResetPassword(c.Request().Context(), token, password)
	if err != nil {
		slog.Warn("Password reset failed", "error", err)
		view.SetFlashError(c, err.Error())
		return c.Redirect(http.StatusSeeOther, "/auth/reset-password?token="+token)
	}

	// Sign the user in with the password they just set.
	sessionToken, err := h.userStore.SignIn(c.Request().Context(), user, password)
	if err != nil {
		slog.Error("Failed to sign in user after successful password reset", "error", err)
		view.SetFlashError(c, "Password reset successful, but failed to log you in automatically. Please log in manually.")
		return c.Redirect(http.StatusSeeOther, "/auth/login")
	}

	setAuthCookie(c, sessionToken)
	view.SetFlashSuccess(c, "Your password has been reset successfully! You are now logged in.")
	return c.Redirect(http.StatusSeeOther, "/docs")
}

// setAuthCookie is a helper function to create and set the authentication cookie.
func setAuthCookie(c echo.Context, token string) {
	cookie := new(http.Cookie)
	cookie.Name = "auth_token"
	cookie.Value = token
	cookie.Path = "/"
	if token == "" {
		// An empty token means logout, so expire the cookie immediately.
		cookie.MaxAge = -1
	} else {
		cookie.Expires = time.Now().UTC().Add(24 * time.Hour)
	}
	// HttpOnly keeps the token away from client-side JavaScript; Secure is
	// tied to TLS so local development over plain HTTP still works.
	cookie.HttpOnly = true
	cookie.Secure = c.Request().TLS != nil
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)
}
