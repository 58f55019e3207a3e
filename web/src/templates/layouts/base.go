package layouts

import (
	"github.com/fteye/pagemill/internal/view"
	"github.com/fteye/pagemill/web/src/templates/partials"
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

// Base wraps page content in the application shell: HTML5 boilerplate,
// navigation, and the flash banner.
func Base(title string, flashes view.FlashData, content cmp.Node) cmp.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []cmp.Node{
			g.Script(g.Src("https://cdn.tailwindcss.com")),
			g.Script(g.Src("https://unpkg.com/htmx.org@1.9.12"), g.Defer()),
			g.Link(g.Rel("stylesheet"), g.Href("/static/css/site.css")),
		},
		Body: []cmp.Node{
			g.Class("bg-gray-100 min-h-screen flex flex-col"),
			navBar(),
			partials.FlashBanner(flashes),
			g.Main(
				g.Class("flex-grow"),
				content,
			),
			g.Footer(
				g.Class("text-center text-sm text-gray-400 py-6"),
				cmp.Text("Pagemill. Read any document, one page at a time."),
			),
		},
	})
}

func navBar() cmp.Node {
	return g.Nav(
		g.Class("bg-white shadow"),
		g.Div(
			g.Class("container mx-auto px-4 py-3 flex items-center justify-between"),
			g.A(
				g.Href("/"),
				g.Class("text-xl font-extrabold text-indigo-700"),
				cmp.Text("Pagemill"),
			),
			g.Div(
				g.Class("space-x-4 text-sm text-gray-700"),
				g.A(g.Href("/docs"), g.Class("hover:text-indigo-700"), cmp.Text("My Documents")),
				g.A(g.Href("/docs/upload"), g.Class("hover:text-indigo-700"), cmp.Text("Upload")),
				g.A(g.Href("/account/emails"), g.Class("hover:text-indigo-700"), cmp.Text("Emails")),
				g.A(g.Href("/account/password"), g.Class("hover:text-indigo-700"), cmp.Text("Password")),
				g.A(g.Href("/auth/logout"), g.Class("hover:text-indigo-700"), cmp.Text("Log out")),
			),
		),
	)
}
