package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealUserStore implements domain.UserRepository on top of SurrealDB's
// record access ("account") for credentials and plain queries for the rest.
type SurrealUserStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

// NewSurrealUserStore creates a new SurrealUserStore.
func NewSurrealUserStore(db *surrealdb.DB, ns, dbName string) *SurrealUserStore {
	return &SurrealUserStore{db: db, ns: ns, dbName: dbName}
}

// FindUserByEmail queries for a single user by their email address.
func (s *SurrealUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := "SELECT * FROM user WHERE email = $email"
	params := map[string]any{"email": email}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return user, nil
}

// SignUp registers a new user via SurrealDB record access and returns a
// session token. The data format matches the JavaScript SDK's implementation.
func (s *SurrealUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	token, err := s.db.SignUp(ctx, map[string]interface{}{
		"ns":       s.ns,
		"db":       s.dbName,
		"ac":       "account", // access control namespace
		"email":    user.Email,
		"password": password,
	})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "signup query failed") {
			return "", domain.ErrUserAlreadyExists
		}
		return "", err
	}

	// After a successful sign-up, the user object is not populated with the ID.
	// We need to fetch the user to get the ID for further operations.
	createdUser, findErr := s.FindUserByEmail(ctx, user.Email)
	if findErr != nil {
		return "", fmt.Errorf("failed to fetch user after sign-up: %w", findErr)
	}
	user.ID = createdUser.ID

	return token, nil
}

// SignIn authenticates a user via record access and returns a session token.
func (s *SurrealUserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	token, err := s.db.SignIn(ctx, map[string]interface{}{
		"ns":       s.ns,
		"db":       s.dbName,
		"ac":       "account",
		"email":    user.Email,
		"password": password,
	})
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return token, nil
}

// Authenticate validates a session token and returns the associated user.
func (s *SurrealUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if err := s.db.Authenticate(ctx, token); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := QueryOne[domain.User](ctx, s.db, "SELECT * FROM $auth", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// GenerateResetToken creates a secure reset token and sets its expiration.
func (s *SurrealUserStore) GenerateResetToken(ctx context.Context, email string) (string, error) {
	token, err := generateSecureToken(32) // 32 bytes = 64 hex chars
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	expires := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)

	// Atomic UPDATE that finds the user and sets the token in one step.
	query := `UPDATE user SET resetToken = $reset_token, resetTokenExpires = $expires WHERE email = $email RETURN AFTER`
	params := map[string]any{
		"email":       email,
		"reset_token": token,
		"expires":     expires,
	}

	updatedUser, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return "", fmt.Errorf("failed to update user with reset token: %w", err)
	}
	if updatedUser == nil {
		return "", domain.ErrNotFound
	}

	return token, nil
}

// ResetPassword performs an atomic password reset and invalidation of the token.
func (s *SurrealUserStore) ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}

	query := `
		UPDATE user SET
			password = crypto::argon2::generate($password),
			resetToken = NONE,
			resetTokenExpires = NONE
		WHERE resetToken = $target_token AND type::datetime(resetTokenExpires) > time::now()
		RETURN AFTER
	`
	params := map[string]any{
		"password":     newPassword,
		"target_token": token,
	}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidResetToken
	}

	slog.Info("Password reset completed", "email", user.Email)
	return user, nil
}

// ChangePassword verifies the current password by signing in, then updates
// the stored hash.
func (s *SurrealUserStore) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if _, err := s.SignIn(ctx, user, currentPassword); err != nil {
		return domain.ErrInvalidCredentials
	}

	query := `UPDATE $id SET password = crypto::argon2::generate($password)`
	params := map[string]any{
		"id":       user.ID,
		"password": newPassword,
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// generateSecureToken creates a cryptographically secure random token.
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
