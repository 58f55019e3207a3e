package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures.
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials provided")
	ErrNotFound           = errors.New("requested resource not found")
	ErrForbidden          = errors.New("you do not have access to this resource")

	// ErrInvalidResetToken indicates that a password reset request used a token
	// that is either expired, already used, or was never valid.
	ErrInvalidResetToken = errors.New("invalid or expired password reset token")

	// ErrInvalidVerificationToken is the email-verification counterpart of
	// ErrInvalidResetToken.
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")

	// ErrEmailAlreadyAdded indicates the address is already attached to an account.
	ErrEmailAlreadyAdded = errors.New("this email address is already in use")

	// ErrPrimaryEmail guards operations that are not allowed on the primary
	// address (removal) or require a verified address (promotion).
	ErrPrimaryEmail     = errors.New("the primary email address cannot be removed")
	ErrEmailNotVerified = errors.New("only a verified email address can be made primary")
)
