package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// SurrealDocumentStore implements domain.DocumentRepository.
type SurrealDocumentStore struct {
	db *surrealdb.DB
}

// NewSurrealDocumentStore creates a new SurrealDocumentStore.
func NewSurrealDocumentStore(db *surrealdb.DB) *SurrealDocumentStore {
	return &SurrealDocumentStore{db: db}
}

// Create inserts a new document record. The document is validated before it
// is written.
func (s *SurrealDocumentStore) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if doc.Status == "" {
		doc.Status = domain.StatusPending
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	query := `
		CREATE document SET
			user_id = $user_id,
			title = $title,
			source_type = $source_type,
			source_content = $source_content,
			status = $status,
			error_message = $error_message,
			created_at = time::now(),
			updated_at = time::now()
		RETURN AFTER
	`
	params := map[string]any{
		"user_id":        doc.UserID,
		"title":          doc.Title,
		"source_type":    doc.SourceType,
		"source_content": doc.SourceContent,
		"status":         doc.Status,
		"error_message":  doc.ErrorMessage,
	}

	created, err := QueryOne[domain.Document](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return created, nil
}

// FindByID retrieves a document by its record ID.
func (s *SurrealDocumentStore) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	query := "SELECT * FROM document WHERE id = type::thing($id)"
	params := map[string]any{"id": id}

	doc, err := QueryOne[domain.Document](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// FindByUser returns all documents for a user, newest first.
func (s *SurrealDocumentStore) FindByUser(ctx context.Context, userID *surrealmodels.RecordID) ([]*domain.Document, error) {
	query := `SELECT * FROM document WHERE user_id = $user_id ORDER BY created_at DESC`
	params := map[string]any{"user_id": userID}

	docs, err := Query[*domain.Document](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return docs, nil
}

// UpdateStatus moves a document to a new processing status. An empty
// errorMessage clears any previous failure.
func (s *SurrealDocumentStore) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errorMessage string) error {
	query := `
		UPDATE type::thing($id) SET
			status = $status,
			error_message = $error_message,
			updated_at = time::now()
	`
	params := map[string]any{
		"id":            id,
		"status":        status,
		"error_message": errorMessage,
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	return nil
}

// Delete removes a document and all of its pages.
func (s *SurrealDocumentStore) Delete(ctx context.Context, id string) error {
	query := `
		BEGIN TRANSACTION;
		DELETE document_page WHERE document_id = type::thing($id);
		DELETE type::thing($id);
		COMMIT TRANSACTION;
	`
	params := map[string]any{"id": id}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// CreatePages bulk-inserts extracted pages for a document in a single
// transaction, so a mid-batch failure leaves no partial pages behind.
func (s *SurrealDocumentStore) CreatePages(ctx context.Context, docID *surrealmodels.RecordID, pages []domain.PageContent) error {
	if len(pages) == 0 {
		return nil
	}

	var query strings.Builder
	query.WriteString("BEGIN TRANSACTION;\n")
	params := map[string]any{"document_id": docID}
	for i, p := range pages {
		fmt.Fprintf(&query, `CREATE document_page SET
			document_id = $document_id,
			page_number = $page_number_%d,
			markdown_content = $markdown_content_%d,
			created_at = time::now();
`, i, i)
		params[fmt.Sprintf("page_number_%d", i)] = p.PageNumber
		params[fmt.Sprintf("markdown_content_%d", i)] = p.Markdown
	}
	query.WriteString("COMMIT TRANSACTION;")

	if err := Execute(ctx, s.db, query.String(), params); err != nil {
		return fmt.Errorf("failed to create pages: %w", err)
	}
	return nil
}

// FindPages returns all pages of a document ordered by page number.
func (s *SurrealDocumentStore) FindPages(ctx context.Context, docID *surrealmodels.RecordID) ([]*domain.DocumentPage, error) {
	query := `SELECT * FROM document_page WHERE document_id = $document_id ORDER BY page_number ASC`
	params := map[string]any{"document_id": docID}

	pages, err := Query[*domain.DocumentPage](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return pages, nil
}

// FindPage returns a single page of a document by its 1-indexed page number.
func (s *SurrealDocumentStore) FindPage(ctx context.Context, docID *surrealmodels.RecordID, pageNumber int) (*domain.DocumentPage, error) {
	query := `SELECT * FROM document_page WHERE document_id = $document_id AND page_number = $page_number`
	params := map[string]any{
		"document_id": docID,
		"page_number": pageNumber,
	}

	page, err := QueryOne[domain.DocumentPage](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if page == nil {
		return nil, domain.ErrNotFound
	}
	return page, nil
}

// UpdatePage replaces the markdown content of a single page.
func (s *SurrealDocumentStore) UpdatePage(ctx context.Context, docID *surrealmodels.RecordID, pageNumber int, markdown string) error {
	query := `
		UPDATE document_page SET
			markdown_content = $markdown_content
		WHERE document_id = $document_id AND page_number = $page_number
	`
	params := map[string]any{
		"document_id":      docID,
		"page_number":      pageNumber,
		"markdown_content": markdown,
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to update page %d: %w", pageNumber, err)
	}
	return nil
}

// DeletePages removes all pages of a document, used when retrying a failed run.
func (s *SurrealDocumentStore) DeletePages(ctx context.Context, docID *surrealmodels.RecordID) error {
	query := `DELETE document_page WHERE document_id = $document_id`
	params := map[string]any{"document_id": docID}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to delete pages: %w", err)
	}
	return nil
}
