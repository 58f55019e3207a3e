package partials

import (
	"github.com/fteye/pagemill/internal/domain"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// StatusBadge renders a document's processing status as a colored pill.
func StatusBadge(status domain.DocumentStatus) cmp.Node {
	color := "bg-gray-200 text-gray-800"
	switch status {
	case domain.StatusProcessing:
		color = "bg-yellow-100 text-yellow-800"
	case domain.StatusCompleted:
		color = "bg-green-100 text-green-800"
	case domain.StatusFailed:
		color = "bg-red-100 text-red-800"
	}

	return g.Span(
		g.Class("inline-block px-2 py-1 rounded-full text-xs font-semibold "+color),
		cmp.Text(status.Display()),
	)
}
