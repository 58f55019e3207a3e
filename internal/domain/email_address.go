package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// EmailAddress is a single address attached to a user account. A user has
// exactly one primary address, and an address must be verified before it
// can become primary. The signup address starts out as the unverified primary
// and gets a verification mail right away.
type EmailAddress struct {
	ID                       *surrealmodels.RecordID       `json:"id,omitempty"`
	UserID                   *surrealmodels.RecordID       `json:"user_id,omitempty"`
	Email                    string                        `json:"email"`
	Verified                 bool                          `json:"verified"`
	Primary                  bool                          `json:"primary"`
	VerificationToken        *string                       `json:"verificationToken,omitempty"`
	VerificationTokenExpires *string                       `json:"verificationTokenExpires,omitempty"`
	CreatedAt                *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
}

// EmailAddressRepository defines the contract for managing a user's email
// addresses.
type EmailAddressRepository interface {
	// FindByUser returns all addresses for a user, primary first.
	FindByUser(ctx context.Context, userID *surrealmodels.RecordID) ([]*EmailAddress, error)

	// FindByEmail looks an address up across all users.
	FindByEmail(ctx context.Context, email string) (*EmailAddress, error)

	// Add attaches a new, unverified address to the user. Returns
	// ErrEmailAlreadyAdded if any account already holds this address.
	Add(ctx context.Context, userID *surrealmodels.RecordID, email string) (*EmailAddress, error)

	// AddPrimary creates the user's initial primary address at signup. The
	// address is still unverified until the verification link is followed.
	AddPrimary(ctx context.Context, userID *surrealmodels.RecordID, email string) (*EmailAddress, error)

	// GenerateVerificationToken stores a fresh verification token for the
	// address and returns it.
	GenerateVerificationToken(ctx context.Context, email string) (string, error)

	// VerifyByToken marks the address holding this token as verified and
	// clears the token. Returns ErrInvalidVerificationToken when the token is
	// unknown or expired.
	VerifyByToken(ctx context.Context, token string) (*EmailAddress, error)

	// SetPrimary makes the address the user's single primary address. The
	// address must belong to the user and be verified.
	SetPrimary(ctx context.Context, userID *surrealmodels.RecordID, email string) error

	// Remove deletes a non-primary address from the user's account.
	Remove(ctx context.Context, userID *surrealmodels.RecordID, email string) error
}
