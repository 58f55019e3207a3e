package pages

import (
	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/view/dto/account"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// ChangePassword renders the authenticated change-password form.
func ChangePassword(data account.ChangePasswordData) cmp.Node {
	return formCard("Change Password",
		g.Form(
			g.Method("post"),
			g.Action("/account/password"),
			g.P(
				g.Class("text-sm text-gray-600 mb-4"),
				cmp.Text("Changing the password for "),
				g.Span(g.Class("font-semibold"), cmp.Text(data.Email)),
				cmp.Text("."),
			),
			textField("Current Password", "password", "current_password", "", ""),
			textField("New Password", "password", "password", "", "At least 8 characters"),
			textField("Confirm New Password", "password", "password_confirm", "", ""),
			submitButton("Change Password"),
		),
	)
}

// Emails renders the email management screen: the user's addresses with
// their verified/primary flags, per-address actions, and the add form.
func Emails(data account.EmailData) cmp.Node {
	return g.Div(
		g.Class("container mx-auto p-8 max-w-2xl"),
		g.Div(
			g.Class("bg-white shadow-xl rounded-xl p-8"),
			g.H1(g.Class("text-2xl font-bold text-indigo-700 mb-6"), cmp.Text("Email Addresses")),
			cmp.If(len(data.Addresses) == 0,
				g.P(g.Class("text-gray-600"), cmp.Text("No email addresses on this account yet.")),
			),
			g.Ul(
				g.Class("divide-y divide-gray-200"),
				cmp.Map(data.Addresses, emailRow),
			),
			addEmailForm(),
		),
	)
}

func emailRow(addr *domain.EmailAddress) cmp.Node {
	return g.Li(
		g.Class("py-4 flex items-center justify-between"),
		g.Div(
			g.Span(g.Class("font-medium text-gray-900"), cmp.Text(addr.Email)),
			g.Div(
				g.Class("mt-1 space-x-2"),
				emailFlag(addr.Verified, "Verified", "bg-green-100 text-green-800", "Unverified", "bg-yellow-100 text-yellow-800"),
				cmp.If(addr.Primary,
					g.Span(
						g.Class("inline-block px-2 py-0.5 rounded-full text-xs font-semibold bg-indigo-100 text-indigo-800"),
						cmp.Text("Primary"),
					),
				),
			),
		),
		g.Div(
			g.Class("space-x-2 text-sm"),
			cmp.If(!addr.Verified, emailAction("/account/emails/resend", addr.Email, "Resend")),
			cmp.If(addr.Verified && !addr.Primary, emailAction("/account/emails/primary", addr.Email, "Make Primary")),
			cmp.If(!addr.Primary, emailAction("/account/emails/remove", addr.Email, "Remove")),
		),
	)
}

func emailFlag(ok bool, okText, okClass, badText, badClass string) cmp.Node {
	text, class := badText, badClass
	if ok {
		text, class = okText, okClass
	}
	return g.Span(
		g.Class("inline-block px-2 py-0.5 rounded-full text-xs font-semibold "+class),
		cmp.Text(text),
	)
}

// emailAction is a one-button POST form targeting an email management route.
func emailAction(action, email, label string) cmp.Node {
	return g.Form(
		g.Method("post"),
		g.Action(action),
		g.Class("inline"),
		g.Input(g.Type("hidden"), g.Name("email"), g.Value(email)),
		g.Button(
			g.Type("submit"),
			g.Class("text-indigo-600 hover:underline"),
			cmp.Text(label),
		),
	)
}

func addEmailForm() cmp.Node {
	return g.Form(
		g.Method("post"),
		g.Action("/account/emails"),
		g.Class("mt-6 pt-6 border-t"),
		g.H2(g.Class("text-lg font-semibold text-gray-800 mb-3"), cmp.Text("Add Email Address")),
		g.Div(
			g.Class("flex gap-2"),
			g.Input(
				g.Type("email"),
				g.Name("email"),
				g.Placeholder("new@example.com"),
				g.Class("flex-grow border border-gray-300 rounded px-3 py-2"),
			),
			g.Button(
				g.Type("submit"),
				g.Class("bg-indigo-600 hover:bg-indigo-700 text-white font-semibold px-4 rounded"),
				cmp.Text("Add"),
			),
		),
	)
}
