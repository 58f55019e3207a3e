package domain

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New()

func init() {
	// Register the safepath validator to prevent directory traversal attacks.
	_ = validatorInstance.RegisterValidation("safepath", validateSafePath)
}

// validateSafePath ensures the path doesn't contain any directory traversal attempts.
func validateSafePath(fl validator.FieldLevel) bool {
	path := fl.Field().String()

	if strings.Contains(path, "..") ||
		strings.Contains(path, "~") ||
		strings.HasPrefix(path, "/") ||
		strings.Contains(path, "\\") {
		return false
	}

	// Clean the path and check if it still matches the original.
	// This catches more subtle issues like "uploads/./../file".
	return path == filepath.Clean(path)
}

// DocumentStatus tracks a document through text extraction.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "PENDING"
	StatusProcessing DocumentStatus = "PROCESSING"
	StatusCompleted  DocumentStatus = "COMPLETED"
	StatusFailed     DocumentStatus = "FAILED"
)

// Terminal reports whether the status is an end state, i.e. the client-side
// status poll can stop.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Display returns the human-readable label shown in the UI.
func (s DocumentStatus) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing Text"
	case StatusCompleted:
		return "Text Ready"
	case StatusFailed:
		return "Failed"
	}
	return string(s)
}

// SourceType identifies where a document's content comes from.
type SourceType string

const (
	SourceFile SourceType = "FILE"
	SourceURL  SourceType = "URL"
	SourceText SourceType = "TEXT"
)

// Document is the master record for each upload. SourceContent holds the
// storage path for FILE sources, the URL for URL sources, and the raw text
// itself for TEXT sources.
type Document struct {
	ID            *surrealmodels.RecordID       `json:"id,omitempty"`
	UserID        *surrealmodels.RecordID       `json:"user_id,omitempty" validate:"required"`
	Title         string                        `json:"title" validate:"required,min=1,max=255"`
	SourceType    SourceType                    `json:"source_type" validate:"required,oneof=FILE URL TEXT"`
	SourceContent string                        `json:"source_content" validate:"required"`
	Status        DocumentStatus                `json:"status"`
	ErrorMessage  string                        `json:"error_message,omitempty"`
	CreatedAt     *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
	UpdatedAt     *surrealmodels.CustomDateTime `json:"updated_at,omitempty"`
}

// Validate runs validation checks on the Document struct using the defined tags.
// FILE sources additionally require SourceContent to be a safe, relative
// storage path.
func (d *Document) Validate() error {
	if err := validatorInstance.Struct(d); err != nil {
		return err
	}
	if d.SourceType == SourceFile {
		return validatorInstance.Var(d.SourceContent, "safepath")
	}
	return nil
}

// DocumentPage is a single extracted page of a document. Page numbers are
// 1-indexed and unique within a document.
type DocumentPage struct {
	ID              *surrealmodels.RecordID       `json:"id,omitempty"`
	DocumentID      *surrealmodels.RecordID       `json:"document_id,omitempty"`
	PageNumber      int                           `json:"page_number"`
	MarkdownContent string                        `json:"markdown_content"`
	CreatedAt       *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
}

// PageContent carries extracted page text from the converter to the store.
type PageContent struct {
	PageNumber int
	Markdown   string
}

// DocumentRepository defines the contract for document and page storage.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) (*Document, error)
	FindByID(ctx context.Context, id string) (*Document, error)
	FindByUser(ctx context.Context, userID *surrealmodels.RecordID) ([]*Document, error)
	UpdateStatus(ctx context.Context, id string, status DocumentStatus, errorMessage string) error
	Delete(ctx context.Context, id string) error

	CreatePages(ctx context.Context, docID *surrealmodels.RecordID, pages []PageContent) error
	FindPages(ctx context.Context, docID *surrealmodels.RecordID) ([]*DocumentPage, error)
	FindPage(ctx context.Context, docID *surrealmodels.RecordID, pageNumber int) (*DocumentPage, error)
	UpdatePage(ctx context.Context, docID *surrealmodels.RecordID, pageNumber int, markdown string) error
	DeletePages(ctx context.Context, docID *surrealmodels.RecordID) error
}
