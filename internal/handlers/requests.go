package handlers

import (
	"mime/multipart"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// UploadDocumentRequest is the DTO for the document upload form. Exactly one
// of File, URL or Text is used depending on SourceType; the handler enforces
// that cross-field rule since it depends on the selected type.
type UploadDocumentRequest struct {
	Title      string                `form:"title" validate:"required,max=255"`
	SourceType string                `form:"source_type" validate:"required,oneof=FILE URL TEXT"`
	File       *multipart.FileHeader `form:"file"`
	URL        string                `form:"url" validate:"omitempty,url"`
	Text       string                `form:"text"`
}
