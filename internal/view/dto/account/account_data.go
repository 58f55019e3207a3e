package account

import "github.com/fteye/pagemill/internal/domain"

// EmailData feeds the email management template.
type EmailData struct {
	Addresses []*domain.EmailAddress
}

// ChangePasswordData feeds the change-password template.
type ChangePasswordData struct {
	Email string
}
