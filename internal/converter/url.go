package converter

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fteye/pagemill/internal/domain"
)

// fetchTimeout bounds how long a URL source may take to respond.
const fetchTimeout = 10 * time.Second

// maxFetchSize caps the response body read from a URL source.
const maxFetchSize = 5 << 20 // 5MB

// convertURL fetches a webpage and reduces it to a single text page.
func convertURL(ctx context.Context, url string) ([]domain.PageContent, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	text := strings.TrimSpace(stripHTML(string(body)))
	if text == "" {
		return nil, ErrNoReadableText
	}

	return []domain.PageContent{{PageNumber: 1, Markdown: text}}, nil
}

// stripHTML removes tags (and the contents of script/style/head elements)
// from an HTML document and unescapes entities, leaving readable text with
// block elements separated by newlines.
func stripHTML(doc string) string {
	var b strings.Builder
	lower := strings.ToLower(doc)

	i := 0
	for i < len(doc) {
		if doc[i] != '<' {
			b.WriteByte(doc[i])
			i++
			continue
		}

		// Skip entire invisible elements.
		skipped := false
		for _, tag := range []string{"script", "style", "head"} {
			// Require a full tag-name token so <header> is not read as <head>.
			if !hasTagPrefix(lower[i+1:], tag) {
				continue
			}
			if end := closingTagIndex(lower[i:], tag); end >= 0 {
				if close := strings.IndexByte(lower[i+end:], '>'); close >= 0 {
					i += end + close + 1
					skipped = true
					break
				}
			}
			// Unterminated element; drop the remainder.
			i = len(doc)
			skipped = true
			break
		}
		if skipped {
			continue
		}

		end := strings.IndexByte(doc[i:], '>')
		if end < 0 {
			break
		}

		// Block-level boundaries become line breaks so headings and
		// paragraphs don't run together.
		if fields := strings.Fields(strings.Trim(lower[i+1:i+end], "/ ")); len(fields) > 0 {
			switch fields[0] {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr", "section", "article":
				b.WriteByte('\n')
			}
		}
		i += end + 1
	}

	return collapseWhitespace(html.UnescapeString(b.String()))
}

// hasTagPrefix reports whether s starts with the complete tag name, not
// merely a longer name sharing the same prefix.
func hasTagPrefix(s, tag string) bool {
	if !strings.HasPrefix(s, tag) {
		return false
	}
	if len(s) == len(tag) {
		return true
	}
	switch s[len(tag)] {
	case '>', '/', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// closingTagIndex returns the index of the first complete closing tag for
// tag within s, or -1.
func closingTagIndex(s, tag string) int {
	needle := "</" + tag
	from := 0
	for {
		idx := strings.Index(s[from:], needle)
		if idx < 0 {
			return -1
		}
		idx += from
		if hasTagPrefix(s[idx+2:], tag) {
			return idx
		}
		from = idx + len(needle)
	}
}
