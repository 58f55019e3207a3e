package converter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fteye/pagemill/internal/domain"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfConf returns the pdfcpu configuration used for all PDF operations.
// Relaxed validation accepts the slightly malformed files real users upload.
func pdfConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// convertPDF extracts one markdown page per PDF page. Pages whose content
// stream yields no text are skipped, matching the 1-indexed numbering of the
// source document for the pages that remain.
func convertPDF(r io.Reader) ([]domain.PageContent, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	rs := bytes.NewReader(buf)

	ctx, err := api.ReadValidateAndOptimize(rs, pdfConf())
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	var pages []domain.PageContent
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		content, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("failed to extract content of page %d: %w", pageNr, err)
		}

		raw, err := io.ReadAll(content)
		if err != nil {
			return nil, fmt.Errorf("failed to read content of page %d: %w", pageNr, err)
		}

		text := strings.TrimSpace(contentStreamText(raw))
		if text == "" {
			continue
		}
		pages = append(pages, domain.PageContent{
			PageNumber: pageNr,
			Markdown:   text,
		})
	}

	return pages, nil
}

// contentStreamText scrapes the literal strings shown by Tj/TJ operators out
// of a decoded PDF content stream. It intentionally ignores encoding tables
// and positioning; it recovers the visible ASCII text of simple documents,
// which is all the markdown pipeline needs.
func contentStreamText(stream []byte) string {
	var b strings.Builder
	depth := 0
	escaped := false

	for i := 0; i < len(stream); i++ {
		ch := stream[i]

		if depth == 0 {
			if ch == '(' {
				depth++
			}
			continue
		}

		if escaped {
			switch ch {
			case 'n', 'r':
				b.WriteByte('\n')
			case 't':
				b.WriteByte(' ')
			case '(', ')', '\\':
				b.WriteByte(ch)
			}
			escaped = false
			continue
		}

		switch ch {
		case '\\':
			escaped = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				// String operand ended; keep words apart.
				b.WriteByte(' ')
			}
		default:
			if ch >= 0x20 && ch < 0x7f {
				b.WriteByte(ch)
			}
		}
	}

	return collapseWhitespace(b.String())
}

// collapseWhitespace squeezes runs of spaces while preserving line breaks.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return out
}
