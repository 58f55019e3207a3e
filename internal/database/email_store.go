package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// SurrealEmailStore implements domain.EmailAddressRepository.
type SurrealEmailStore struct {
	db *surrealdb.DB
}

// NewSurrealEmailStore creates a new SurrealEmailStore.
func NewSurrealEmailStore(db *surrealdb.DB) *SurrealEmailStore {
	return &SurrealEmailStore{db: db}
}

// FindByUser returns all addresses for a user, primary first, then oldest first.
func (s *SurrealEmailStore) FindByUser(ctx context.Context, userID *surrealmodels.RecordID) ([]*domain.EmailAddress, error) {
	query := `SELECT * FROM email_address WHERE user_id = $user_id ORDER BY primary DESC, created_at ASC`
	params := map[string]any{"user_id": userID}

	addrs, err := Query[*domain.EmailAddress](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return addrs, nil
}

// FindByEmail looks an address up across all users.
func (s *SurrealEmailStore) FindByEmail(ctx context.Context, email string) (*domain.EmailAddress, error) {
	query := "SELECT * FROM email_address WHERE email = $email"
	params := map[string]any{"email": email}

	addr, err := QueryOne[domain.EmailAddress](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return addr, nil
}

// Add attaches a new, unverified address to the user.
func (s *SurrealEmailStore) Add(ctx context.Context, userID *surrealmodels.RecordID, email string) (*domain.EmailAddress, error) {
	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyAdded
	}

	query := `
		CREATE email_address SET
			user_id = $user_id,
			email = $email,
			verified = false,
			primary = false,
			created_at = time::now()
		RETURN AFTER
	`
	params := map[string]any{
		"user_id": userID,
		"email":   email,
	}

	addr, err := QueryOne[domain.EmailAddress](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create email address: %w", err)
	}
	return addr, nil
}

// AddPrimary creates the user's initial primary address at signup.
func (s *SurrealEmailStore) AddPrimary(ctx context.Context, userID *surrealmodels.RecordID, email string) (*domain.EmailAddress, error) {
	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyAdded
	}

	query := `
		CREATE email_address SET
			user_id = $user_id,
			email = $email,
			verified = false,
			primary = true,
			created_at = time::now()
		RETURN AFTER
	`
	params := map[string]any{
		"user_id": userID,
		"email":   email,
	}

	addr, err := QueryOne[domain.EmailAddress](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary email address: %w", err)
	}
	return addr, nil
}

// GenerateVerificationToken stores a fresh verification token for the address
// and returns it. Tokens expire after 24 hours, mirroring password reset tokens.
func (s *SurrealEmailStore) GenerateVerificationToken(ctx context.Context, email string) (string, error) {
	token, err := generateSecureToken(32)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	expires := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)

	query := `
		UPDATE email_address SET
			verificationToken = $token,
			verificationTokenExpires = $expires
		WHERE email = $email
		RETURN AFTER
	`
	params := map[string]any{
		"email":   email,
		"token":   token,
		"expires": expires,
	}

	addr, err := QueryOne[domain.EmailAddress](ctx, s.db, query, params)
	if err != nil {
		return "", fmt.Errorf("failed to store verification token: %w", err)
	}
	if addr == nil {
		return "", domain.ErrNotFound
	}
	return token, nil
}

// VerifyByToken marks the address holding this token as verified and clears
// the token.
func (s *SurrealEmailStore) VerifyByToken(ctx context.Context, token string) (*domain.EmailAddress, error) {
	if token == "" {
		return nil, domain.ErrInvalidVerificationToken
	}

	query := `
		UPDATE email_address SET
			verified = true,
			verificationToken = NONE,
			verificationTokenExpires = NONE
		WHERE verificationToken = $target_token AND type::datetime(verificationTokenExpires) > time::now()
		RETURN AFTER
	`
	params := map[string]any{"target_token": token}

	addr, err := QueryOne[domain.EmailAddress](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to verify email address: %w", err)
	}
	if addr == nil {
		return nil, domain.ErrInvalidVerificationToken
	}
	return addr, nil
}

// SetPrimary makes the address the user's single primary address. Both
// updates run in one transaction so there is never more than one primary.
func (s *SurrealEmailStore) SetPrimary(ctx context.Context, userID *surrealmodels.RecordID, email string) error {
	addr, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if addr == nil || addr.UserID == nil || userID == nil || addr.UserID.String() != userID.String() {
		return domain.ErrNotFound
	}
	if !addr.Verified {
		return domain.ErrEmailNotVerified
	}

	query := `
		BEGIN TRANSACTION;
		UPDATE email_address SET primary = false WHERE user_id = $user_id;
		UPDATE email_address SET primary = true WHERE user_id = $user_id AND email = $email;
		COMMIT TRANSACTION;
	`
	params := map[string]any{
		"user_id": userID,
		"email":   email,
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to set primary email: %w", err)
	}
	return nil
}

// Remove deletes a non-primary address from the user's account.
func (s *SurrealEmailStore) Remove(ctx context.Context, userID *surrealmodels.RecordID, email string) error {
	addr, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if addr == nil || addr.UserID == nil || userID == nil || addr.UserID.String() != userID.String() {
		return domain.ErrNotFound
	}
	if addr.Primary {
		return domain.ErrPrimaryEmail
	}

	query := `DELETE email_address WHERE user_id = $user_id AND email = $email`
	params := map[string]any{
		"user_id": userID,
		"email":   email,
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to remove email address: %w", err)
	}
	return nil
}
