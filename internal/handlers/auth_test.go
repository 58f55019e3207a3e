package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/email"
	"github.com/fteye/pagemill/internal/handlers"
	"github.com/fteye/pagemill/internal/rendering"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func testRecordID(table, id string) *surrealmodels.RecordID {
	rid := surrealmodels.NewRecordID(table, id)
	return &rid
}

// MockUserStore provides a mock implementation of domain.UserRepository.
type MockUserStore struct {
	signInErr error
	signUpErr error
}

func (m *MockUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	if m.signUpErr != nil {
		return "", m.signUpErr
	}
	user.ID = testRecordID("user", "1")
	return "test-token", nil
}

func (m *MockUserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	if m.signInErr != nil {
		return "", m.signInErr
	}
	return "test-token", nil
}

func (m *MockUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token != "test-token" {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.User{ID: testRecordID("user", "1"), Email: "test@example.com"}, nil
}

func (m *MockUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return &domain.User{ID: testRecordID("user", "1"), Email: email}, nil
}

func (m *MockUserStore) GenerateResetToken(ctx context.Context, email string) (string, error) {
	return "reset-token", nil
}

func (m *MockUserStore) ResetPassword(ctx context.Context, token, password string) (*domain.User, error) {
	return &domain.User{ID: testRecordID("user", "1"), Email: "test@example.com"}, nil
}

func (m *MockUserStore) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	return nil
}

// MockEmailStore provides a mock implementation of domain.EmailAddressRepository.
type MockEmailStore struct {
	addresses []*domain.EmailAddress
}

func (m *MockEmailStore) FindByUser(ctx context.Context, userID *surrealmodels.RecordID) ([]*domain.EmailAddress, error) {
	return m.addresses, nil
}

func (m *MockEmailStore) FindByEmail(ctx context.Context, email string) (*domain.EmailAddress, error) {
	for _, addr := range m.addresses {
		if addr.Email == email {
			return addr, nil
		}
	}
	return nil, nil
}

func (m *MockEmailStore) Add(ctx context.Context, userID *surrealmodels.RecordID, email string) (*domain.EmailAddress, error) {
	addr := &domain.EmailAddress{UserID: userID, Email: email}
	m.addresses = append(m.addresses, addr)
	return addr, nil
}

func (m *MockEmailStore) AddPrimary(ctx context.Context, userID *surrealmodels.RecordID, email string) (*domain.EmailAddress, error) {
	addr := &domain.EmailAddress{UserID: userID, Email: email, Primary: true}
	m.addresses = append(m.addresses, addr)
	return addr, nil
}

func (m *MockEmailStore) GenerateVerificationToken(ctx context.Context, email string) (string, error) {
	return "verify-token", nil
}

func (m *MockEmailStore) VerifyByToken(ctx context.Context, token string) (*domain.EmailAddress, error) {
	if token != "verify-token" {
		return nil, domain.ErrInvalidVerificationToken
	}
	for _, addr := range m.addresses {
		addr.Verified = true
		return addr, nil
	}
	return nil, domain.ErrInvalidVerificationToken
}

func (m *MockEmailStore) SetPrimary(ctx context.Context, userID *surrealmodels.RecordID, email string) error {
	return nil
}

func (m *MockEmailStore) Remove(ctx context.Context, userID *surrealmodels.RecordID, email string) error {
	return nil
}

func setupAuthTest(userStore *MockUserStore) (*echo.Echo, *handlers.AuthHandler) {
	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	mockEmailer := &email.LogSender{}
	authHandler := handlers.NewAuthHandler(userStore, &MockEmailStore{}, mockEmailer, "http://localhost:8080")

	cookieStore := sessions.NewCookieStore([]byte(testSessionSecret))
	e.Use(session.Middleware(cookieStore))

	return e, authHandler
}

// assertFlashMessage is a test helper to check for a specific flash message in the session.
func assertFlashMessage(t *testing.T, req *http.Request, key, expectedMessage string) {
	t.Helper()

	// The handler mutated the session inside this request's registry, so
	// reading it back through the store surfaces the pending flashes.
	cookieStore := sessions.NewCookieStore([]byte(testSessionSecret))
	sess, _ := cookieStore.Get(req, "flash-session")

	flashes := sess.Flashes(key)
	assert.NotEmpty(t, flashes, "expected flash message but found none for key: %s", key)
	assert.Equal(t, expectedMessage, flashes[0])
}

func TestRegisterPost(t *testing.T) {
	t.Run("sets success flash on successful registration", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{})
		e.POST("/auth/register", authHandler.RegisterPost)

		form := url.Values{}
		form.Set("email", "test@example.com")
		form.Set("password", "password123")
		form.Set("password_confirm", "password123")

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/docs", rec.Header().Get("Location"))
		assertFlashMessage(t, req, "success", "Account created successfully! Check your inbox to verify your email address.")
	})

	t.Run("sets the auth cookie on success", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{})
		e.POST("/auth/register", authHandler.RegisterPost)

		form := url.Values{}
		form.Set("email", "test@example.com")
		form.Set("password", "password123")
		form.Set("password_confirm", "password123")

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		var authCookie *http.Cookie
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == "auth_token" {
				authCookie = cookie
			}
		}
		if assert.NotNil(t, authCookie, "expected auth_token cookie") {
			assert.Equal(t, "test-token", authCookie.Value)
			assert.True(t, authCookie.HttpOnly)
		}
	})

	t.Run("sets error flash on password mismatch", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{})
		e.POST("/auth/register", authHandler.RegisterPost)

		form := url.Values{}
		form.Set("email", "test2@example.com")
		form.Set("password", "password123")
		form.Set("password_confirm", "wrongpassword")

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assertFlashMessage(t, req, "error", "Passwords do not match.")
	})

	t.Run("sets error flash on short password", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{})
		e.POST("/auth/register", authHandler.RegisterPost)

		form := url.Values{}
		form.Set("email", "test3@example.com")
		form.Set("password", "short")
		form.Set("password_confirm", "short")

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assertFlashMessage(t, req, "error", "Password must be at least 8 characters long.")
	})

	t.Run("sets error flash when the user already exists", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{signUpErr: domain.ErrUserAlreadyExists})
		e.POST("/auth/register", authHandler.RegisterPost)

		form := url.Values{}
		form.Set("email", "taken@example.com")
		form.Set("password", "password123")
		form.Set("password_confirm", "password123")

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assertFlashMessage(t, req, "error", "A user with this email already exists.")
	})
}

func TestLoginPost(t *testing.T) {
	t.Run("redirects to the document list on success", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{})
		e.POST("/auth/login", authHandler.LoginPost)

		form := url.Values{}
		form.Set("email", "test@example.com")
		form.Set("password", "password123")

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/docs", rec.Header().Get("Location"))
		assertFlashMessage(t, req, "success", "Logged in successfully!")
	})

	t.Run("preserves the submitted email on failure", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{signInErr: errors.New("invalid credentials")})
		e.POST("/auth/login", authHandler.LoginPost)

		form := url.Values{}
		form.Set("email", "typed@example.com")
		form.Set("password", "wrong")

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
		assertFlashMessage(t, req, "error", "Invalid email or password.")
		assertFlashMessage(t, req, "form_email", "typed@example.com")
	})
}

func TestLogout(t *testing.T) {
	e, authHandler := setupAuthTest(&MockUserStore{})
	e.GET("/auth/logout", authHandler.Logout)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))

	var authCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "auth_token" {
			authCookie = cookie
		}
	}
	if assert.NotNil(t, authCookie, "expected expired auth_token cookie") {
		assert.Equal(t, -1, authCookie.MaxAge)
	}
}

func TestResetPasswordGetHandler(t *testing.T) {
	t.Run("redirects to forgot-password without a token", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{})
		e.GET("/auth/reset-password", authHandler.ResetPasswordGetHandler)

		req := httptest.NewRequest(http.MethodGet, "/auth/reset-password", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/forgot-password", rec.Header().Get("Location"))
	})

	t.Run("renders the form when a token is present", func(t *testing.T) {
		e, authHandler := setupAuthTest(&MockUserStore{})
		e.GET("/auth/reset-password", authHandler.ResetPasswordGetHandler)

		req := httptest.NewRequest(http.MethodGet, "/auth/reset-password?token=abc123", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "abc123")
	})
}
