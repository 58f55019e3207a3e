package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/processor"
	"github.com/fteye/pagemill/internal/pubsub"
	"github.com/fteye/pagemill/internal/storage"
	"github.com/fteye/pagemill/internal/view"
	docsdto "github.com/fteye/pagemill/internal/view/dto/docs"
	"github.com/fteye/pagemill/web/src/templates/pages"
)

// allowedExtensions are the file types the converter can extract text from.
var allowedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// DocumentHandler handles the document screens and the status API.
type DocumentHandler struct {
	docs          domain.DocumentRepository
	files         storage.Store
	publisher     pubsub.Publisher
	maxUploadSize int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docs domain.DocumentRepository, files storage.Store, publisher pubsub.Publisher, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		docs:          docs,
		files:         files,
		publisher:     publisher,
		maxUploadSize: maxUploadSize,
	}
}

// ListGet renders the user's document list (GET /docs).
func (h *DocumentHandler) ListGet(c echo.Context) error {
	user := currentUser(c)

	docs, err := h.docs.FindByUser(c.Request().Context(), user.ID)
	if err != nil {
		slog.Error("Failed to load documents", "error", err)
		view.SetFlashError(c, "Could not load your documents.")
	}

	return renderPage(c, "My Documents", pages.DocumentList(docsdto.ListData{Documents: docs}))
}

// RowGet returns a single list row fragment (GET /docs/:id/row). The row
// polls this endpoint over htmx while the document is still processing.
func (h *DocumentHandler) RowGet(c echo.Context) error {
	doc, err := h.ownedDocument(c)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "", pages.DocumentRow(doc))
}

// UploadGet renders the upload form (GET /docs/upload).
func (h *DocumentHandler) UploadGet(c echo.Context) error {
	return renderPage(c, "Upload Document", pages.DocumentUpload(docsdto.UploadData{}))
}

// UploadPost handles the upload form (POST /docs/upload). Validation errors
// re-render the form with inline messages; a valid submission creates a
// PENDING document and queues it for processing.
func (h *DocumentHandler) UploadPost(c echo.Context) error {
	user := currentUser(c)

	var req UploadDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	// Bind does not populate multipart file headers, so fetch it directly.
	// A missing file is a validation error, not a request error.
	if file, err := c.FormFile("file"); err == nil {
		req.File = file
	}

	formData := docsdto.UploadData{
		Title:       req.Title,
		SourceType:  domain.SourceType(req.SourceType),
		URL:         req.URL,
		Text:        req.Text,
		FieldErrors: map[string]string{},
	}

	if err := c.Validate(&req); err != nil {
		if req.Title == "" {
			formData.FieldErrors["title"] = "Please enter a title."
		} else if len(req.Title) > 255 {
			formData.FieldErrors["title"] = "The title must be 255 characters or fewer."
		}
		if req.URL != "" && formData.FieldErrors["title"] == "" {
			formData.FieldErrors["url"] = "Please enter a valid URL."
		}
		if len(formData.FieldErrors) == 0 {
			formData.FieldErrors["title"] = "Please check the form and try again."
		}
		return renderPage(c, "Upload Document", pages.DocumentUpload(formData))
	}

	// The source input depends on the selected type, so the cross-field
	// checks live here rather than in validator tags.
	sourceContent, ok := h.resolveSource(c, user, &req, &formData)
	if !ok {
		return renderPage(c, "Upload Document", pages.DocumentUpload(formData))
	}

	doc := &domain.Document{
		UserID:        user.ID,
		Title:         req.Title,
		SourceType:    domain.SourceType(req.SourceType),
		SourceContent: sourceContent,
		Status:        domain.StatusPending,
	}

	created, err := h.docs.Create(c.Request().Context(), doc)
	if err != nil {
		slog.Error("Failed to create document", "error", err)
		view.SetFlashError(c, "Could not save your document.")
		return c.Redirect(http.StatusSeeOther, "/docs/upload")
	}

	h.queueProcessing(c, created, user)

	view.SetFlashSuccess(c, "Document uploaded. Processing has started.")
	return c.Redirect(http.StatusSeeOther, docWebPath(created))
}

// resolveSource validates the source input for the selected type and returns
// the source content to store: the storage path for files, the URL or the
// raw text otherwise. On a validation failure it records a field error and
// returns ok=false.
func (h *DocumentHandler) resolveSource(c echo.Context, user *domain.User, req *UploadDocumentRequest, formData *docsdto.UploadData) (string, bool) {
	sourceType := domain.SourceType(req.SourceType)

	// Only the field matching the selected source type may be set.
	if sourceType != domain.SourceFile && req.File != nil {
		formData.FieldErrors["file"] = "Remove the file when not uploading a file."
	}
	if sourceType != domain.SourceURL && req.URL != "" {
		formData.FieldErrors["url"] = "Remove the URL when not using a webpage source."
	}
	if sourceType != domain.SourceText && strings.TrimSpace(req.Text) != "" {
		formData.FieldErrors["text"] = "Remove the text when not using a raw text source."
	}
	if len(formData.FieldErrors) > 0 {
		return "", false
	}

	switch sourceType {
	case domain.SourceFile:
		if req.File == nil {
			formData.FieldErrors["file"] = "Please choose a file."
			return "", false
		}
		ext := strings.ToLower(filepath.Ext(req.File.Filename))
		if ext == ".docx" {
			formData.FieldErrors["file"] = "DOCX files are not supported yet."
			return "", false
		}
		if !allowedExtensions[ext] {
			formData.FieldErrors["file"] = "Unsupported file type. Use PDF, Markdown or plain text."
			return "", false
		}
		if h.maxUploadSize > 0 && req.File.Size > h.maxUploadSize {
			formData.FieldErrors["file"] = fmt.Sprintf("The file is too large. The limit is %d MB.", h.maxUploadSize/(1024*1024))
			return "", false
		}

		src, err := req.File.Open()
		if err != nil {
			slog.Error("Failed to open uploaded file", "error", err)
			formData.FieldErrors["file"] = "Could not read the uploaded file."
			return "", false
		}
		defer src.Close()

		// The storage key is random so filenames cannot collide or carry
		// unsafe path segments.
		key := fmt.Sprintf("uploads/%v/%s%s", user.ID.ID, uuid.NewString(), ext)
		if _, err := h.files.Save(c.Request().Context(), key, src); err != nil {
			slog.Error("Failed to store uploaded file", "error", err)
			formData.FieldErrors["file"] = "Could not store the uploaded file."
			return "", false
		}
		return key, true

	case domain.SourceURL:
		if req.URL == "" {
			formData.FieldErrors["url"] = "Please enter a URL."
			return "", false
		}
		return req.URL, true

	case domain.SourceText:
		if strings.TrimSpace(req.Text) == "" {
			formData.FieldErrors["text"] = "Please enter some text."
			return "", false
		}
		return req.Text, true
	}

	formData.FieldErrors["title"] = "Unknown source type."
	return "", false
}

// queueProcessing publishes a processing request for the document. A publish
// failure leaves the document PENDING; it is logged and surfaced as a flash
// so the user can retry.
func (h *DocumentHandler) queueProcessing(c echo.Context, doc *domain.Document, user *domain.User) {
	err := processor.Publish(c.Request().Context(), h.publisher, doc.ID.String(), user.ID.String())
	if err != nil {
		slog.Error("Failed to queue document processing", "error", err, "document_id", doc.ID.String())
		view.SetFlashError(c, "Your document was saved but processing could not be started.")
	}
}

// DetailGet renders the document detail page (GET /docs/:id).
func (h *DocumentHandler) DetailGet(c echo.Context) error {
	doc, err := h.ownedDocument(c)
	if err != nil {
		return err
	}

	var docPages []*domain.DocumentPage
	if doc.Status == domain.StatusCompleted {
		docPages, err = h.docs.FindPages(c.Request().Context(), doc.ID)
		if err != nil {
			slog.Error("Failed to load document pages", "error", err)
			view.SetFlashError(c, "Could not load the extracted pages.")
		}
	}

	data := docsdto.DetailData{Document: doc, Pages: docPages}
	return renderPage(c, doc.Title, pages.DocumentDetail(data))
}

// PageGet renders a single extracted page (GET /docs/:id/pages/:page).
func (h *DocumentHandler) PageGet(c echo.Context) error {
	doc, page, err := h.ownedPage(c)
	if err != nil {
		return err
	}

	data := docsdto.PageData{Document: doc, Page: page}
	title := fmt.Sprintf("%s - Page %d", doc.Title, page.PageNumber)
	return renderPage(c, title, pages.PageDetail(data))
}

// PageEditGet renders the page edit form (GET /docs/:id/pages/:page/edit).
func (h *DocumentHandler) PageEditGet(c echo.Context) error {
	doc, page, err := h.ownedPage(c)
	if err != nil {
		return err
	}

	data := docsdto.PageEditData{Document: doc, Page: page, Content: page.MarkdownContent}
	title := fmt.Sprintf("Edit %s - Page %d", doc.Title, page.PageNumber)
	return renderPage(c, title, pages.PageEdit(data))
}

// PageEditPost saves edited page content (POST /docs/:id/pages/:page/edit).
func (h *DocumentHandler) PageEditPost(c echo.Context) error {
	doc, page, err := h.ownedPage(c)
	if err != nil {
		return err
	}

	content := c.FormValue("content")
	if strings.TrimSpace(content) == "" {
		data := docsdto.PageEditData{
			Document:   doc,
			Page:       page,
			Content:    content,
			FieldError: "The page content cannot be empty.",
		}
		title := fmt.Sprintf("Edit %s - Page %d", doc.Title, page.PageNumber)
		return renderPage(c, title, pages.PageEdit(data))
	}

	if err := h.docs.UpdatePage(c.Request().Context(), doc.ID, page.PageNumber, content); err != nil {
		slog.Error("Failed to update page", "error", err)
		view.SetFlashError(c, "Could not save the page.")
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/pages/%d/edit", docWebPath(doc), page.PageNumber))
	}

	view.SetFlashSuccess(c, "Page updated.")
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/pages/%d", docWebPath(doc), page.PageNumber))
}

// ownedPage resolves the :id and :page params to a document owned by the
// current user and one of its pages.
func (h *DocumentHandler) ownedPage(c echo.Context) (*domain.Document, *domain.DocumentPage, error) {
	doc, err := h.ownedDocument(c)
	if err != nil {
		return nil, nil, err
	}

	pageNumber, err := strconv.Atoi(c.Param("page"))
	if err != nil || pageNumber < 1 {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "page not found")
	}

	page, err := h.docs.FindPage(c.Request().Context(), doc.ID, pageNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, echo.NewHTTPError(http.StatusNotFound, "page not found")
		}
		slog.Error("Failed to load document page", "error", err)
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "could not load page")
	}

	return doc, page, nil
}

// RetryPost re-queues a FAILED document (POST /docs/:id/retry). Pages from
// the failed run are discarded and the document returns to PENDING.
func (h *DocumentHandler) RetryPost(c echo.Context) error {
	user := currentUser(c)

	doc, err := h.ownedDocument(c)
	if err != nil {
		return err
	}

	if doc.Status != domain.StatusFailed {
		view.SetFlashError(c, "Only failed documents can be retried.")
		return c.Redirect(http.StatusSeeOther, docWebPath(doc))
	}

	ctx := c.Request().Context()
	if err := h.docs.DeletePages(ctx, doc.ID); err != nil {
		slog.Error("Failed to clear pages before retry", "error", err)
		view.SetFlashError(c, "Could not retry the document.")
		return c.Redirect(http.StatusSeeOther, docWebPath(doc))
	}
	if err := h.docs.UpdateStatus(ctx, doc.ID.String(), domain.StatusPending, ""); err != nil {
		slog.Error("Failed to reset document status", "error", err)
		view.SetFlashError(c, "Could not retry the document.")
		return c.Redirect(http.StatusSeeOther, docWebPath(doc))
	}

	h.queueProcessing(c, doc, user)

	view.SetFlashSuccess(c, "Processing restarted.")
	return c.Redirect(http.StatusSeeOther, docWebPath(doc))
}

// DeletePost removes a document, its pages and any stored upload
// (POST /docs/:id/delete).
func (h *DocumentHandler) DeletePost(c echo.Context) error {
	doc, err := h.ownedDocument(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	// The stored file is removed best-effort; a dangling file is preferable
	// to a document row that cannot be deleted.
	if doc.SourceType == domain.SourceFile {
		if err := h.files.Delete(ctx, doc.SourceContent); err != nil {
			slog.Warn("Failed to delete stored upload", "error", err, "path", doc.SourceContent)
		}
	}

	if err := h.docs.Delete(ctx, doc.ID.String()); err != nil {
		slog.Error("Failed to delete document", "error", err)
		view.SetFlashError(c, "Could not delete the document.")
		return c.Redirect(http.StatusSeeOther, docWebPath(doc))
	}

	view.SetFlashSuccess(c, "Document deleted.")
	return c.Redirect(http.StatusSeeOther, "/docs")
}

// StatusGet returns the document's processing status as JSON
// (GET /api/docs/:id/status). The detail page polls this endpoint.
func (h *DocumentHandler) StatusGet(c echo.Context) error {
	doc, err := h.ownedDocument(c)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code := "not_found"
			if httpErr.Code == http.StatusForbidden {
				code = "forbidden"
			}
			return c.JSON(httpErr.Code, ErrorResponse{Code: code, Message: fmt.Sprint(httpErr.Message)})
		}
		return err
	}

	return c.JSON(http.StatusOK, NewStatusResponse(doc))
}

// ownedDocument loads the document from the :id route parameter and checks
// the requester owns it. Unknown IDs yield 404, other users' documents 403.
func (h *DocumentHandler) ownedDocument(c echo.Context) (*domain.Document, error) {
	user := currentUser(c)

	id := "document:" + c.Param("id")
	doc, err := h.docs.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		slog.Error("Failed to load document", "error", err, "document_id", id)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "could not load document")
	}

	if doc.UserID == nil || user.ID == nil || doc.UserID.String() != user.ID.String() {
		return nil, echo.NewHTTPError(http.StatusForbidden, "you do not have access to this document")
	}

	return doc, nil
}

// docWebPath builds the detail URL for a document.
func docWebPath(doc *domain.Document) string {
	return fmt.Sprintf("/docs/%v", doc.ID.ID)
}
