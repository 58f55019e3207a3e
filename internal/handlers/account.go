package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/view"
	accountdto "github.com/fteye/pagemill/internal/view/dto/account"
	"github.com/fteye/pagemill/web/src/templates/pages"
)

// AccountHandler handles the signed-in account screens: password change and
// email address management.
type AccountHandler struct {
	userStore  domain.UserRepository
	emailStore domain.EmailAddressRepository
	emailer    domain.EmailSender
	baseURL    string
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(userStore domain.UserRepository, emailStore domain.EmailAddressRepository, emailer domain.EmailSender, baseURL string) *AccountHandler {
	return &AccountHandler{
		userStore:  userStore,
		emailStore: emailStore,
		emailer:    emailer,
		baseURL:    baseURL,
	}
}

// ChangePasswordGet renders the change password form (GET /account/password).
func (h *AccountHandler) ChangePasswordGet(c echo.Context) error {
	user := currentUser(c)
	data := accountdto.ChangePasswordData{Email: user.Email}
	return renderPage(c, "Change Password", pages.ChangePassword(data))
}

// ChangePasswordPost handles the change password form. The current password
// is verified before the new one is stored.
func (h *AccountHandler) ChangePasswordPost(c echo.Context) error {
	user := currentUser(c)
	currentPassword := c.FormValue("current_password")
	password := c.FormValue("password")
	passwordConfirm := c.FormValue("password_confirm")

	if password != passwordConfirm {
		view.SetFlashError(c, "Passwords do not match.")
		return c.Redirect(http.StatusSeeOther, "/account/password")
	}

	if len(password) < 8 {
		view.SetFlashError(c, "Password must be at least 8 characters long.")
		return c.Redirect(http.StatusSeeOther, "/account/password")
	}

	err := h.userStore.ChangePassword(c.Request().Context(), user, currentPassword, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			view.SetFlashError(c, "Your current password is incorrect.")
		} else {
			slog.Error("Failed to change password", "error", err, "email", user.Email)
			view.SetFlashError(c, "Could not change your password.")
		}
		return c.Redirect(http.StatusSeeOther, "/account/password")
	}

	view.SetFlashSuccess(c, "Your password has been changed.")
	return c.Redirect(http.StatusSeeOther, "/account/password")
}

// EmailsGet renders the email management page (GET /account/emails).
func (h *AccountHandler) EmailsGet(c echo.Context) error {
	user := currentUser(c)

	addrs, err := h.emailStore.FindByUser(c.Request().Context(), user.ID)
	if err != nil {
		slog.Error("Failed to load email addresses", "error", err)
		view.SetFlashError(c, "Could not load your email addresses.")
	}

	data := accountdto.EmailData{Addresses: addrs}
	return renderPage(c, "Email Addresses", pages.Emails(data))
}

// EmailsAddPost attaches a new address to the account and mails a
// verification link (POST /account/emails).
func (h *AccountHandler) EmailsAddPost(c echo.Context) error {
	user := currentUser(c)
	email := c.FormValue("email")

	if email == "" {
		view.SetFlashError(c, "Please enter an email address.")
		return c.Redirect(http.StatusSeeOther, "/account/emails")
	}

	_, err := h.emailStore.Add(c.Request().Context(), user.ID, email)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyAdded) {
			view.SetFlashError(c, "This email address is already in use.")
		} else {
			slog.Error("Failed to add email address", "error", err, "email", email)
			view.SetFlashError(c, "Could not add the email address.")
		}
		return c.Redirect(http.StatusSeeOther, "/account/emails")
	}

	sendVerificationEmail(c, h.emailStore, h.emailer, h.baseURL, email)

	view.SetFlashSuccess(c, "Email address added. Check your inbox for a verification link.")
	return c.Redirect(http.StatusSeeOther, "/account/emails")
}

// EmailsResendPost re-sends the verification link for one of the user's
// unverified addresses (POST /account/emails/resend).
func (h *AccountHandler) EmailsResendPost(c echo.Context) error {
	user := currentUser(c)
	email := c.FormValue("email")

	addr, err := h.ownedAddress(c, user, email)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/account/emails")
	}
	if addr.Verified {
		view.SetFlashError(c, "This email address is already verified.")
		return c.Redirect(http.StatusSeeOther, "/account/emails")
	}

	sendVerificationEmail(c, h.emailStore, h.emailer, h.baseURL, email)

	view.SetFlashSuccess(c, "Verification email sent.")
	return c.Redirect(http.StatusSeeOther, "/account/emails")
}

// EmailsPrimaryPost makes a verified address the account's primary
// (POST /account/emails/primary).
func (h *AccountHandler) EmailsPrimaryPost(c echo.Context) error {
	user := currentUser(c)
	email := c.FormValue("email")

	err := h.emailStore.SetPrimary(c.Request().Context(), user.ID, email)
	if err != nil {
		if errors.Is(err, domain.ErrEmailNotVerified) {
			view.SetFlashError(c, "Verify this email address before making it primary.")
		} else if errors.Is(err, domain.ErrNotFound) {
			view.SetFlashError(c, "Unknown email address.")
		} else {
			slog.Error("Failed to set primary email", "error", err, "email", email)
			view.SetFlashError(c, "Could not update your primary email address.")
		}
		return c.Redirect(http.StatusSeeOther, "/account/emails")
	}

	view.SetFlashSuccess(c, "Primary email address updated.")
	return c.Redirect(http.StatusSeeOther, "/account/emails")
}

// EmailsRemovePost removes a non-primary address from the account
// (POST /account/emails/remove).
func (h *AccountHandler) EmailsRemovePost(c echo.Context) error {
	user := currentUser(c)
	email := c.FormValue("email")

	err := h.emailStore.Remove(c.Request().Context(), user.ID, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrimaryEmail) {
			view.SetFlashError(c, "You cannot remove your primary email address.")
		} else if errors.Is(err, domain.ErrNotFound) {
			view.SetFlashError(c, "Unknown email address.")
		} else {
			slog.Error("Failed to remove email address", "error", err, "email", email)
			view.SetFlashError(c, "Could not remove the email address.")
		}
		return c.Redirect(http.StatusSeeOther, "/account/emails")
	}

	view.SetFlashSuccess(c, "Email address removed.")
	return c.Redirect(http.StatusSeeOther, "/account/emails")
}

// EmailsVerifyGet consumes a verification token from the mailed link
// (GET /account/emails/verify?token=...).
func (h *AccountHandler) EmailsVerifyGet(c echo.Context) error {
	token := c.QueryParam("token")

	addr, err := h.emailStore.VerifyByToken(c.Request().Context(), token)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidVerificationToken) {
			slog.Error("Failed to verify email address", "error", err)
		}
		view.SetFlashError(c, "This verification link is invalid or has expired.")
		return c.Redirect(http.StatusSeeOther, "/account/emails")
	}

	view.SetFlashSuccess(c, fmt.Sprintf("%s has been verified.", addr.Email))
	return c.Redirect(http.StatusSeeOther, "/account/emails")
}

// ownedAddress loads an address and checks it belongs to the user. A flash
// error is set on failure so callers only need to redirect.
func (h *AccountHandler) ownedAddress(c echo.Context, user *domain.User, email string) (*domain.EmailAddress, error) {
	addr, err := h.emailStore.FindByEmail(c.Request().Context(), email)
	if err != nil {
		slog.Error("Failed to load email address", "error", err, "email", email)
		view.SetFlashError(c, "Could not load the email address.")
		return nil, err
	}
	if addr == nil || addr.UserID == nil || user.ID == nil || addr.UserID.String() != user.ID.String() {
		view.SetFlashError(c, "Unknown email address.")
		return nil, domain.ErrNotFound
	}
	return addr, nil
}

// sendVerificationEmail generates a fresh verification token for the address
// and mails the link. Shared by signup and the email management screen.
func sendVerificationEmail(c echo.Context, emailStore domain.EmailAddressRepository, emailer domain.EmailSender, baseURL, email string) {
	token, err := emailStore.GenerateVerificationToken(c.Request().Context(), email)
	if err != nil {
		slog.Error("Failed to generate verification token", "error", err, "email", email)
		return
	}
	if emailer == nil {
		return
	}

	verifyLink := baseURL + "/account/emails/verify?token=" + token
	htmlBody := fmt.Sprintf(`<p>Click the link below to verify your email address:</p><a href="%s">Verify Email</a>`, verifyLink)
	if err := emailer.Send(email, "Verify Your Email Address", htmlBody); err != nil {
		slog.Error("Failed to send verification email", "error", err, "email", email)
	}
}
