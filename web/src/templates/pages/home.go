package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Home is the landing page.
func Home(isAuthenticated bool) cmp.Node {
	return g.Div(
		g.Class("container mx-auto p-8"),
		g.Div(
			g.Class("bg-white shadow-2xl rounded-xl p-10 text-center"),
			g.H1(
				g.Class("text-4xl font-extrabold text-indigo-700 mb-4"),
				cmp.Text("Turn any document into readable pages"),
			),
			g.P(
				g.Class("text-gray-700 mb-8 leading-relaxed max-w-2xl mx-auto"),
				cmp.Text("Upload a PDF or markdown file, paste a link, or drop in raw text. Pagemill extracts the content into clean, page-by-page markdown you can read anywhere."),
			),
			cmp.If(isAuthenticated,
				g.A(
					g.Href("/docs/upload"),
					g.Class("inline-block bg-indigo-600 hover:bg-indigo-700 text-white font-semibold px-6 py-3 rounded"),
					cmp.Text("Upload a Document"),
				),
			),
			cmp.If(!isAuthenticated,
				g.Div(
					g.Class("space-x-4"),
					g.A(
						g.Href("/auth/register"),
						g.Class("inline-block bg-indigo-600 hover:bg-indigo-700 text-white font-semibold px-6 py-3 rounded"),
						cmp.Text("Get Started"),
					),
					g.A(
						g.Href("/auth/login"),
						g.Class("inline-block border border-indigo-600 text-indigo-600 font-semibold px-6 py-3 rounded"),
						cmp.Text("Log In"),
					),
				),
			),
		),
	)
}
