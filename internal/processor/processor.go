// Package processor consumes document processing requests from the message
// bus and drives each document through its status transitions:
// PENDING -> PROCESSING -> COMPLETED or FAILED.
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fteye/pagemill/internal/converter"
	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/pubsub"
	"github.com/fteye/pagemill/internal/storage"
)

// Processor converts submitted documents into pages in the background.
type Processor struct {
	docs  domain.DocumentRepository
	store storage.Store
	sub   pubsub.Subscriber
}

// New creates a Processor.
func New(docs domain.DocumentRepository, store storage.Store, sub pubsub.Subscriber) *Processor {
	return &Processor{docs: docs, store: store, sub: sub}
}

// Start subscribes to the processing topic. It is non-blocking; message
// handling runs until the context is canceled.
func (p *Processor) Start(ctx context.Context) error {
	return p.sub.Subscribe(ctx, TopicProcessDocument, p.handle)
}

// Publish submits a processing request for a document to the bus.
func Publish(ctx context.Context, pub pubsub.Publisher, documentID, userID string) error {
	payload, err := json.Marshal(ProcessRequest{DocumentID: documentID})
	if err != nil {
		return fmt.Errorf("failed to marshal process request: %w", err)
	}
	return pub.Publish(ctx, pubsub.Message{
		Topic:   TopicProcessDocument,
		UserID:  userID,
		Payload: payload,
	})
}

// handle processes a single request. Handler errors are reserved for
// malformed messages; conversion failures are recorded on the document
// itself so the message is not redelivered.
func (p *Processor) handle(ctx context.Context, msg pubsub.Message) error {
	var req ProcessRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("invalid process request payload: %w", err)
	}

	logger := slog.With("document_id", req.DocumentID)
	logger.Info("Start processing document")

	doc, err := p.docs.FindByID(ctx, req.DocumentID)
	if err != nil {
		logger.Error("Document not found, aborting", "error", err)
		return nil
	}

	if err := p.docs.UpdateStatus(ctx, req.DocumentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to mark document processing: %w", err)
	}

	pages, convErr := converter.Convert(ctx, doc, p.store)
	if convErr != nil {
		status := domain.StatusFailed
		message := failureMessage(convErr)
		logger.Error("Document processing failed", "error", convErr)
		if err := p.docs.UpdateStatus(ctx, req.DocumentID, status, message); err != nil {
			return fmt.Errorf("failed to mark document failed: %w", err)
		}
		return nil
	}

	if err := p.docs.CreatePages(ctx, doc.ID, pages); err != nil {
		logger.Error("Failed to save extracted pages", "error", err)
		// Failed documents must not keep partial pages around.
		if derr := p.docs.DeletePages(ctx, doc.ID); derr != nil {
			logger.Error("Failed to clean up pages after save failure", "error", derr)
		}
		if uerr := p.docs.UpdateStatus(ctx, req.DocumentID, domain.StatusFailed, "Processing failed: could not save pages"); uerr != nil {
			return fmt.Errorf("failed to mark document failed: %w", uerr)
		}
		return nil
	}

	if err := p.docs.UpdateStatus(ctx, req.DocumentID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to mark document completed: %w", err)
	}

	logger.Info("Finished processing document", "pages", len(pages))
	return nil
}

// failureMessage maps conversion errors to the user-facing error string shown
// on the document detail page.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, converter.ErrUnsupportedFormat):
		return err.Error()
	case errors.Is(err, converter.ErrFetch):
		return "Failed to fetch URL content"
	case errors.Is(err, converter.ErrNoReadableText):
		return "Processing failed: no readable text"
	default:
		return "Processing failed: unsupported or corrupted content"
	}
}
