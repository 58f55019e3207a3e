package pages

import (
	"github.com/fteye/pagemill/internal/view/dto/auth"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// formCard is the shared shell for the single-form auth screens.
func formCard(title string, form cmp.Node) cmp.Node {
	return g.Div(
		g.Class("container mx-auto p-8 max-w-md"),
		g.Div(
			g.Class("bg-white shadow-xl rounded-xl p-8"),
			g.H1(g.Class("text-2xl font-bold text-indigo-700 mb-6"), cmp.Text(title)),
			form,
		),
	)
}

func textField(labelText, inputType, name, value, placeholder string) cmp.Node {
	return g.Div(
		g.Class("mb-4"),
		g.Label(
			g.For(name),
			g.Class("block text-sm font-medium text-gray-700 mb-1"),
			cmp.Text(labelText),
		),
		g.Input(
			g.Type(inputType),
			g.ID(name),
			g.Name(name),
			g.Value(value),
			g.Placeholder(placeholder),
			g.Class("w-full border border-gray-300 rounded px-3 py-2 focus:outline-none focus:ring-2 focus:ring-indigo-500"),
		),
	)
}

func submitButton(text string) cmp.Node {
	return g.Button(
		g.Type("submit"),
		g.Class("w-full bg-indigo-600 hover:bg-indigo-700 text-white font-semibold py-2 rounded"),
		cmp.Text(text),
	)
}

// Login renders the login form.
func Login(data auth.LoginData) cmp.Node {
	return formCard("Log In",
		g.Form(
			g.Method("post"),
			g.Action("/auth/login"),
			textField("Email", "email", "email", data.Email, "you@example.com"),
			textField("Password", "password", "password", "", ""),
			submitButton("Log In"),
			g.Div(
				g.Class("mt-4 text-sm text-gray-600 flex justify-between"),
				g.A(g.Href("/auth/forgot-password"), g.Class("text-indigo-600 hover:underline"), cmp.Text("Forgot password?")),
				g.A(g.Href("/auth/register"), g.Class("text-indigo-600 hover:underline"), cmp.Text("Create an account")),
			),
		),
	)
}

// Register renders the signup form.
func Register(data auth.RegisterData) cmp.Node {
	return formCard("Create Account",
		g.Form(
			g.Method("post"),
			g.Action("/auth/register"),
			textField("Email", "email", "email", data.Email, "you@example.com"),
			textField("Password", "password", "password", "", "At least 8 characters"),
			textField("Confirm Password", "password", "password_confirm", "", ""),
			submitButton("Sign Up"),
			g.Div(
				g.Class("mt-4 text-sm text-gray-600"),
				cmp.Text("Already have an account? "),
				g.A(g.Href("/auth/login"), g.Class("text-indigo-600 hover:underline"), cmp.Text("Log in")),
			),
		),
	)
}

// ForgotPassword renders the reset-request form.
func ForgotPassword(data auth.ForgotPasswordData) cmp.Node {
	return formCard("Forgot Password",
		g.Form(
			g.Method("post"),
			g.Action("/auth/forgot-password"),
			g.P(
				g.Class("text-sm text-gray-600 mb-4"),
				cmp.Text("Enter your email address and we'll send you a link to reset your password."),
			),
			textField("Email", "email", "email", data.Email, "you@example.com"),
			submitButton("Send Reset Link"),
		),
	)
}

// ResetPassword renders the new-password form. The token travels in a hidden
// field back to the POST handler.
func ResetPassword(data auth.ResetPasswordData) cmp.Node {
	return formCard("Reset Password",
		g.Form(
			g.Method("post"),
			g.Action("/auth/reset-password"),
			g.Input(g.Type("hidden"), g.Name("token"), g.Value(data.Token)),
			textField("New Password", "password", "password", "", "At least 8 characters"),
			textField("Confirm New Password", "password", "password_confirm", "", ""),
			submitButton("Reset Password"),
		),
	)
}
