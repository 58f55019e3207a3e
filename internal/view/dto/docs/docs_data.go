package docs

import "github.com/fteye/pagemill/internal/domain"

// ListData feeds the document list template.
type ListData struct {
	Documents []*domain.Document
}

// UploadData feeds the upload form template. FieldErrors maps form field
// names to server-side validation messages rendered next to the fields;
// the remaining fields re-fill the form after a failed submit.
type UploadData struct {
	Title       string
	SourceType  domain.SourceType
	URL         string
	Text        string
	FieldErrors map[string]string
}

// DetailData feeds the document detail template. Pages is only populated when
// the document has completed processing.
type DetailData struct {
	Document *domain.Document
	Pages    []*domain.DocumentPage
}

// PageData feeds the single-page template.
type PageData struct {
	Document *domain.Document
	Page     *domain.DocumentPage
}

// PageEditData feeds the page edit form. Content re-fills the textarea after
// a failed submit; FieldError is the message rendered next to it.
type PageEditData struct {
	Document   *domain.Document
	Page       *domain.DocumentPage
	Content    string
	FieldError string
}
