package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/middleware"
)

// stubUserStore only implements Authenticate meaningfully; the middleware
// never calls the other repository methods.
type stubUserStore struct {
	user *domain.User
}

func (s *stubUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	return "", nil
}

func (s *stubUserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	return "", nil
}

func (s *stubUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "valid-token" && s.user != nil {
		return s.user, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func (s *stubUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserStore) GenerateResetToken(ctx context.Context, email string) (string, error) {
	return "", nil
}

func (s *stubUserStore) ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserStore) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	return nil
}

func setupProtected(store *stubUserStore) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		user, _ := c.Get(middleware.UserContextKey).(*domain.User)
		if user == nil {
			return c.String(http.StatusInternalServerError, "no user in context")
		}
		return c.String(http.StatusOK, user.Email)
	}, middleware.Auth(store))
	return e
}

func TestAuth(t *testing.T) {
	rid := surrealmodels.NewRecordID("user", "1")
	knownUser := &domain.User{ID: &rid, Email: "known@example.com"}

	t.Run("redirects to login without a cookie", func(t *testing.T) {
		e := setupProtected(&stubUserStore{user: knownUser})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	})

	t.Run("redirects and clears the cookie when the token is stale", func(t *testing.T) {
		e := setupProtected(&stubUserStore{user: knownUser})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: "expired-token"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)

		var cleared *http.Cookie
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == "auth_token" {
				cleared = cookie
			}
		}
		if assert.NotNil(t, cleared, "expected the stale cookie to be cleared") {
			assert.Equal(t, -1, cleared.MaxAge)
		}
	})

	t.Run("stores the user in the context for a valid token", func(t *testing.T) {
		e := setupProtected(&stubUserStore{user: knownUser})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: "valid-token"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "known@example.com", rec.Body.String())
	})
}
