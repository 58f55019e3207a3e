package pages

import (
	"fmt"

	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"

	"github.com/fteye/pagemill/internal/domain"
	docsdto "github.com/fteye/pagemill/internal/view/dto/docs"
	"github.com/fteye/pagemill/web/src/templates/partials"
)

// docPath builds the detail URL for a document from its record key.
func docPath(doc *domain.Document) string {
	if doc.ID == nil {
		return "/docs"
	}
	return fmt.Sprintf("/docs/%v", doc.ID.ID)
}

// DocumentList renders the user's documents, newest first. Rows for documents
// that are still processing refresh themselves over htmx until they reach a
// terminal status.
func DocumentList(data docsdto.ListData) cmp.Node {
	return g.Div(
		g.Class("container mx-auto p-8"),
		g.Div(
			g.Class("flex items-center justify-between mb-6"),
			g.H1(g.Class("text-3xl font-bold text-gray-800"), cmp.Text("My Documents")),
			g.A(
				g.Href("/docs/upload"),
				g.Class("bg-indigo-600 hover:bg-indigo-700 text-white font-semibold px-4 py-2 rounded"),
				cmp.Text("Upload"),
			),
		),
		cmp.If(len(data.Documents) == 0,
			g.Div(
				g.Class("bg-white shadow rounded-lg p-10 text-center text-gray-500"),
				cmp.Text("No documents yet. "),
				g.A(g.Href("/docs/upload"), g.Class("text-indigo-600 hover:underline"), cmp.Text("Upload your first one.")),
			),
		),
		cmp.If(len(data.Documents) > 0,
			g.Div(
				g.Class("bg-white shadow rounded-lg overflow-hidden"),
				g.Table(
					g.Class("min-w-full divide-y divide-gray-200"),
					g.THead(
						g.Class("bg-gray-50"),
						g.Tr(
							listHeader("Title"),
							listHeader("Source"),
							listHeader("Status"),
							listHeader(""),
						),
					),
					g.TBody(
						g.Class("divide-y divide-gray-200"),
						cmp.Map(data.Documents, DocumentRow),
					),
				),
			),
		),
	)
}

func listHeader(label string) cmp.Node {
	return g.Th(
		g.Class("px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider"),
		cmp.Text(label),
	)
}

// DocumentRow renders one list row. It doubles as the htmx fragment returned
// by the row endpoint; non-terminal rows poll that endpoint so the status
// badge updates in place.
func DocumentRow(doc *domain.Document) cmp.Node {
	return g.Tr(
		g.ID(fmt.Sprintf("doc-row-%v", doc.ID.ID)),
		cmp.If(!doc.Status.Terminal(), hx.Get(docPath(doc)+"/row")),
		cmp.If(!doc.Status.Terminal(), hx.Trigger("every 2s")),
		cmp.If(!doc.Status.Terminal(), hx.Swap("outerHTML")),
		g.Td(
			g.Class("px-6 py-4 whitespace-nowrap"),
			g.A(
				g.Href(docPath(doc)),
				g.Class("text-indigo-600 hover:underline font-medium"),
				cmp.Text(doc.Title),
			),
		),
		g.Td(
			g.Class("px-6 py-4 whitespace-nowrap text-sm text-gray-500"),
			cmp.Text(string(doc.SourceType)),
		),
		g.Td(
			g.Class("px-6 py-4 whitespace-nowrap"),
			partials.StatusBadge(doc.Status),
		),
		g.Td(
			g.Class("px-6 py-4 whitespace-nowrap text-right text-sm"),
			g.A(g.Href(docPath(doc)), g.Class("text-gray-500 hover:text-indigo-600"), cmp.Text("View")),
		),
	)
}

// DocumentUpload renders the upload form. The three source inputs are toggled
// client-side by the selected source type; server-side validation errors are
// rendered inline next to the offending field.
func DocumentUpload(data docsdto.UploadData) cmp.Node {
	if data.SourceType == "" {
		data.SourceType = domain.SourceFile
	}
	return g.Div(
		g.Class("container mx-auto p-8 max-w-2xl"),
		g.Div(
			g.Class("bg-white shadow-xl rounded-lg p-8"),
			g.H1(g.Class("text-2xl font-bold text-gray-800 mb-6"), cmp.Text("Upload a Document")),
			g.Form(
				g.Method("post"),
				g.Action("/docs/upload"),
				g.EncType("multipart/form-data"),
				g.Div(
					g.Class("mb-4"),
					g.Label(g.For("title"), g.Class("block text-sm font-medium text-gray-700 mb-1"), cmp.Text("Title")),
					g.Input(
						g.Type("text"),
						g.ID("title"),
						g.Name("title"),
						g.Value(data.Title),
						g.Class("w-full border border-gray-300 rounded px-3 py-2 focus:outline-none focus:ring-2 focus:ring-indigo-500"),
					),
					fieldError(data.FieldErrors, "title"),
				),
				g.Div(
					g.Class("mb-4"),
					g.Span(g.Class("block text-sm font-medium text-gray-700 mb-2"), cmp.Text("Source")),
					g.Div(
						g.Class("flex space-x-6"),
						sourceRadio(domain.SourceFile, "File", data.SourceType),
						sourceRadio(domain.SourceURL, "URL", data.SourceType),
						sourceRadio(domain.SourceText, "Text", data.SourceType),
					),
				),
				g.Div(
					g.ID("source-file"),
					sourceSectionClass(data.SourceType == domain.SourceFile),
					g.Label(g.For("file"), g.Class("block text-sm font-medium text-gray-700 mb-1"), cmp.Text("File (.pdf, .md, .txt)")),
					g.Input(
						g.Type("file"),
						g.ID("file"),
						g.Name("file"),
						g.Accept(".pdf,.md,.markdown,.txt"),
						g.Class("w-full text-sm text-gray-700"),
					),
					fieldError(data.FieldErrors, "file"),
				),
				g.Div(
					g.ID("source-url"),
					sourceSectionClass(data.SourceType == domain.SourceURL),
					g.Label(g.For("url"), g.Class("block text-sm font-medium text-gray-700 mb-1"), cmp.Text("URL")),
					g.Input(
						g.Type("url"),
						g.ID("url"),
						g.Name("url"),
						g.Value(data.URL),
						g.Placeholder("https://example.com/article"),
						g.Class("w-full border border-gray-300 rounded px-3 py-2 focus:outline-none focus:ring-2 focus:ring-indigo-500"),
					),
					fieldError(data.FieldErrors, "url"),
				),
				g.Div(
					g.ID("source-text"),
					sourceSectionClass(data.SourceType == domain.SourceText),
					g.Label(g.For("text"), g.Class("block text-sm font-medium text-gray-700 mb-1"), cmp.Text("Text")),
					g.Textarea(
						g.ID("text"),
						g.Name("text"),
						g.Rows("8"),
						g.Class("w-full border border-gray-300 rounded px-3 py-2 focus:outline-none focus:ring-2 focus:ring-indigo-500"),
						cmp.Text(data.Text),
					),
					fieldError(data.FieldErrors, "text"),
				),
				g.Button(
					g.Type("submit"),
					g.Class("w-full bg-indigo-600 hover:bg-indigo-700 text-white font-bold py-2 px-4 rounded"),
					cmp.Text("Upload"),
				),
			),
		),
		sourceToggleScript(),
	)
}

func sourceRadio(value domain.SourceType, label string, selected domain.SourceType) cmp.Node {
	return g.Label(
		g.Class("inline-flex items-center text-sm text-gray-700"),
		g.Input(
			g.Type("radio"),
			g.Name("source_type"),
			g.Value(string(value)),
			g.Class("mr-2"),
			cmp.If(value == selected, g.Checked()),
		),
		cmp.Text(label),
	)
}

func sourceSectionClass(visible bool) cmp.Node {
	if visible {
		return g.Class("mb-4 source-section")
	}
	return g.Class("mb-4 source-section hidden")
}

func fieldError(errors map[string]string, field string) cmp.Node {
	msg, ok := errors[field]
	if !ok {
		return nil
	}
	return g.P(g.Class("mt-1 text-sm text-red-600"), cmp.Text(msg))
}

// sourceToggleScript shows only the input section matching the selected
// source type radio.
func sourceToggleScript() cmp.Node {
	return g.Script(cmp.Raw(`
		(function () {
			var radios = document.querySelectorAll('input[name="source_type"]');
			function update() {
				var selected = document.querySelector('input[name="source_type"]:checked');
				document.querySelectorAll('.source-section').forEach(function (el) {
					el.classList.add('hidden');
				});
				if (selected) {
					var section = document.getElementById('source-' + selected.value.toLowerCase());
					if (section) section.classList.remove('hidden');
				}
			}
			radios.forEach(function (r) { r.addEventListener('change', update); });
			update();
		})();
	`))
}

// DocumentDetail renders a single document with its extracted pages. While
// the document is not yet in a terminal status the page polls the JSON status
// endpoint every two seconds and reloads once processing finishes.
func DocumentDetail(data docsdto.DetailData) cmp.Node {
	doc := data.Document
	return g.Div(
		g.Class("container mx-auto p-8 max-w-3xl"),
		g.Div(
			g.Class("bg-white shadow-xl rounded-lg p-8"),
			g.Div(
				g.Class("flex items-center justify-between mb-2"),
				g.H1(g.Class("text-2xl font-bold text-gray-800"), cmp.Text(doc.Title)),
				g.Span(g.ID("doc-status"), partials.StatusBadge(doc.Status)),
			),
			g.P(
				g.Class("text-sm text-gray-500 mb-6"),
				cmp.Text(fmt.Sprintf("Source: %s", doc.SourceType)),
			),
			cmp.If(doc.Status == domain.StatusFailed && doc.ErrorMessage != "",
				g.Div(
					g.Class("bg-red-100 border border-red-300 text-red-800 px-4 py-3 rounded mb-6"),
					cmp.Text(doc.ErrorMessage),
				),
			),
			cmp.If(doc.Status == domain.StatusCompleted,
				pagesList(doc, data.Pages),
			),
			cmp.If(!doc.Status.Terminal(),
				g.P(
					g.Class("text-gray-500 italic mb-6"),
					cmp.Text("Your document is being processed. This page will update automatically."),
				),
			),
			g.Div(
				g.Class("flex items-center space-x-3 border-t border-gray-200 pt-6"),
				cmp.If(doc.Status == domain.StatusFailed,
					g.Form(
						g.Method("post"),
						g.Action(docPath(doc)+"/retry"),
						g.Button(
							g.Type("submit"),
							g.Class("bg-indigo-600 hover:bg-indigo-700 text-white font-semibold px-4 py-2 rounded"),
							cmp.Text("Retry"),
						),
					),
				),
				g.Form(
					g.Method("post"),
					g.Action(docPath(doc)+"/delete"),
					g.Button(
						g.Type("submit"),
						g.Class("bg-red-600 hover:bg-red-700 text-white font-semibold px-4 py-2 rounded"),
						cmp.Text("Delete"),
					),
				),
				g.A(g.Href("/docs"), g.Class("text-gray-500 hover:text-indigo-600 text-sm"), cmp.Text("Back to documents")),
			),
		),
		cmp.If(!doc.Status.Terminal(), statusPollScript(doc)),
	)
}

func pagesList(doc *domain.Document, pages []*domain.DocumentPage) cmp.Node {
	return g.Div(
		g.Class("mb-6"),
		g.H2(g.Class("text-lg font-semibold text-gray-800 mb-3"), cmp.Text(fmt.Sprintf("Pages (%d)", len(pages)))),
		g.Ul(
			g.Class("divide-y divide-gray-200 border border-gray-200 rounded"),
			cmp.Map(pages, func(p *domain.DocumentPage) cmp.Node {
				preview := p.MarkdownContent
				if len(preview) > 120 {
					preview = preview[:120] + "…"
				}
				return g.Li(
					g.Class("px-4 py-3 hover:bg-gray-50"),
					g.A(
						g.Href(fmt.Sprintf("%s/pages/%d", docPath(doc), p.PageNumber)),
						g.Class("block"),
						g.Span(g.Class("text-indigo-600 font-medium mr-3"), cmp.Text(fmt.Sprintf("Page %d", p.PageNumber))),
						g.Span(g.Class("text-sm text-gray-500"), cmp.Text(preview)),
					),
				)
			}),
		),
	)
}

// statusPollScript fetches the document's JSON status every two seconds and
// reloads the page once it reaches COMPLETED or FAILED. Poll failures are
// logged to the console and the next tick tries again.
func statusPollScript(doc *domain.Document) cmp.Node {
	return g.Script(cmp.Raw(fmt.Sprintf(`
		(function () {
			var url = '/api/docs/%v/status';
			var timer = setInterval(function () {
				fetch(url)
					.then(function (resp) {
						if (!resp.ok) throw new Error('status request failed: ' + resp.status);
						return resp.json();
					})
					.then(function (data) {
						if (data.status === 'COMPLETED' || data.status === 'FAILED') {
							clearInterval(timer);
							window.location.reload();
						}
					})
					.catch(function (err) {
						console.error('status poll failed', err);
					});
			}, 2000);
		})();
	`, doc.ID.ID)))
}

// PageDetail renders a single extracted page with prev/next navigation.
func PageDetail(data docsdto.PageData) cmp.Node {
	doc := data.Document
	page := data.Page
	return g.Div(
		g.Class("container mx-auto p-8 max-w-3xl"),
		g.Div(
			g.Class("bg-white shadow-xl rounded-lg p-8"),
			g.Div(
				g.Class("flex items-center justify-between mb-6"),
				g.H1(g.Class("text-2xl font-bold text-gray-800"), cmp.Text(doc.Title)),
				g.Span(
					g.Class("text-sm text-gray-500"),
					cmp.Text(fmt.Sprintf("Page %d", page.PageNumber)),
				),
			),
			g.Div(
				g.Class("prose max-w-none whitespace-pre-wrap text-gray-800 mb-8"),
				cmp.Text(page.MarkdownContent),
			),
			g.Div(
				g.Class("flex items-center justify-between border-t border-gray-200 pt-6"),
				cmp.If(page.PageNumber > 1,
					g.A(
						g.Href(fmt.Sprintf("%s/pages/%d", docPath(doc), page.PageNumber-1)),
						g.Class("text-indigo-600 hover:underline"),
						cmp.Text("Previous page"),
					),
				),
				g.A(g.Href(docPath(doc)), g.Class("text-gray-500 hover:text-indigo-600 text-sm"), cmp.Text("Back to document")),
				g.A(
					g.Href(fmt.Sprintf("%s/pages/%d/edit", docPath(doc), page.PageNumber)),
					g.Class("text-gray-500 hover:text-indigo-600 text-sm"),
					cmp.Text("Edit page"),
				),
				g.A(
					g.Href(fmt.Sprintf("%s/pages/%d", docPath(doc), page.PageNumber+1)),
					g.Class("text-indigo-600 hover:underline"),
					cmp.Text("Next page"),
				),
			),
		),
	)
}

// PageEdit renders the edit form for a single page's markdown content.
func PageEdit(data docsdto.PageEditData) cmp.Node {
	doc := data.Document
	page := data.Page
	editPath := fmt.Sprintf("%s/pages/%d/edit", docPath(doc), page.PageNumber)

	return g.Div(
		g.Class("container mx-auto p-8 max-w-3xl"),
		g.Div(
			g.Class("bg-white shadow-xl rounded-lg p-8"),
			g.H1(
				g.Class("text-2xl font-bold text-gray-800 mb-6"),
				cmp.Text(fmt.Sprintf("Edit Page %d of %s", page.PageNumber, doc.Title)),
			),
			g.Form(
				g.Method("post"),
				g.Action(editPath),
				g.Div(
					g.Class("mb-6"),
					g.Label(
						g.For("content"),
						g.Class("block text-sm font-medium text-gray-700 mb-2"),
						cmp.Text("Page content"),
					),
					g.Textarea(
						g.ID("content"),
						g.Name("content"),
						g.Rows("18"),
						g.Class("w-full border border-gray-300 rounded px-3 py-2 font-mono text-sm focus:outline-none focus:ring-2 focus:ring-indigo-500"),
						cmp.Text(data.Content),
					),
					cmp.If(data.FieldError != "",
						g.P(g.Class("text-red-600 text-sm mt-1"), cmp.Text(data.FieldError)),
					),
				),
				g.Div(
					g.Class("flex items-center justify-between"),
					g.Button(
						g.Type("submit"),
						g.Class("bg-indigo-600 text-white px-4 py-2 rounded hover:bg-indigo-700"),
						cmp.Text("Save page"),
					),
					g.A(
						g.Href(fmt.Sprintf("%s/pages/%d", docPath(doc), page.PageNumber)),
						g.Class("text-gray-500 hover:text-indigo-600 text-sm"),
						cmp.Text("Cancel"),
					),
				),
			),
		),
	)
}
