package converter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fteye/pagemill/internal/domain"
)

// convertText reads a markdown or plain-text file as a single page. The
// content is already markdown-ish, so no transformation is applied.
func convertText(r io.Reader) ([]domain.PageContent, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	return pagesFromText(string(raw))
}

// pagesFromText wraps trimmed text into a single page. Form feeds act as
// explicit page breaks, so pre-paginated text keeps its page numbers.
func pagesFromText(text string) ([]domain.PageContent, error) {
	var pages []domain.PageContent

	number := 0
	for _, chunk := range strings.Split(text, "\f") {
		chunk = strings.TrimSpace(chunk)
		number++
		if chunk == "" {
			continue
		}
		pages = append(pages, domain.PageContent{
			PageNumber: number,
			Markdown:   chunk,
		})
	}

	return pages, nil
}
