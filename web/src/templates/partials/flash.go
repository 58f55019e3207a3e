package partials

import (
	"github.com/fteye/pagemill/internal/view"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// FlashBanner renders one-shot success and error messages below the nav.
// It renders nothing when there are no messages.
func FlashBanner(flashes view.FlashData) cmp.Node {
	if len(flashes.Success) == 0 && len(flashes.Error) == 0 {
		return nil
	}

	return g.Div(
		g.Class("container mx-auto px-4 mt-4 space-y-2"),
		cmp.Map(flashes.Success, func(msg string) cmp.Node {
			return g.Div(
				g.Class("bg-green-100 border border-green-300 text-green-800 px-4 py-3 rounded"),
				cmp.Text(msg),
			)
		}),
		cmp.Map(flashes.Error, func(msg string) cmp.Node {
			return g.Div(
				g.Class("bg-red-100 border border-red-300 text-red-800 px-4 py-3 rounded"),
				cmp.Text(msg),
			)
		}),
	)
}
