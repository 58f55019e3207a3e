// Package converter turns a document source (uploaded file, webpage URL, or
// raw text) into an ordered list of markdown pages.
package converter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/storage"
)

// MinContentLength is the smallest total extracted size considered readable.
// Anything below this is treated as a failed conversion rather than an empty
// success.
const MinContentLength = 100

var (
	// ErrUnsupportedFormat is returned for file extensions without a converter.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoReadableText is returned when conversion produced less than
	// MinContentLength characters in total.
	ErrNoReadableText = errors.New("no readable text found")

	// ErrFetch is returned when a URL source could not be retrieved.
	ErrFetch = errors.New("failed to fetch URL content")
)

// Convert dispatches on the document's source type and produces its pages.
// FILE sources are read from the storage backend using the document's
// source content as the path.
func Convert(ctx context.Context, doc *domain.Document, store storage.Store) ([]domain.PageContent, error) {
	var (
		pages []domain.PageContent
		err   error
	)

	switch doc.SourceType {
	case domain.SourceURL:
		pages, err = convertURL(ctx, doc.SourceContent)

	case domain.SourceText:
		pages, err = pagesFromText(doc.SourceContent)

	case domain.SourceFile:
		pages, err = convertFile(ctx, doc.SourceContent, store)

	default:
		return nil, fmt.Errorf("%w: source type %q", ErrUnsupportedFormat, doc.SourceType)
	}
	if err != nil {
		return nil, err
	}

	total := 0
	for _, p := range pages {
		total += len(p.Markdown)
	}
	if total < MinContentLength {
		return nil, ErrNoReadableText
	}

	return pages, nil
}

// convertFile opens the stored blob and dispatches by file extension.
func convertFile(ctx context.Context, path string, store storage.Store) ([]domain.PageContent, error) {
	f, err := store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stored file %q: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return convertPDF(f)
	case ".md", ".markdown", ".txt":
		return convertText(f)
	default:
		return nil, fmt.Errorf("%w: no processor for %q files", ErrUnsupportedFormat, ext)
	}
}
