package views

import (
	"strconv"

	"github.com/a-h/templ"
)

// input writes a labelled text-like input. Passwords never echo a value.
func (m *markup) input(label, typ, name, value, placeholder string) {
	m.raw("<label>")
	m.text(label)
	m.raw(` <input`)
	m.attr("type", typ)
	m.attr("name", name)
	if typ != "password" {
		m.attr("value", value)
	}
	if placeholder != "" {
		m.attr("placeholder", placeholder)
	}
	m.raw(" required></label>\n")
}

func authCard(m *markup, title, action, csrf string) {
	m.raw("<section class=\"card auth\">\n<h1>")
	m.text(title)
	m.raw("</h1>\n<form method=\"post\"")
	m.url("action", action)
	m.raw(">\n")
	m.csrf(csrf)
	m.raw("\n")
}

func submit(m *markup, label string) {
	m.raw(`<button class="button primary" type="submit">`)
	m.text(label)
	m.raw("</button>\n</form>\n")
}

func loginBody(p LoginPage) templ.Component {
	return component(func(m *markup) {
		authCard(m, "Login", "/login", p.CSRF)
		m.input("Email", "email", "email", p.Email, "Email")
		m.input("Password", "password", "password", "", "Password")
		submit(m, "Login")
		m.raw(`<h5><a href="/forgot-password">Forgot password?</a></h5>`, "\n",
			`<h5>Don't have an account? <a href="/register">Register</a></h5>`, "\n</section>")
	})
}

func registerBody(p RegisterPage) templ.Component {
	return component(func(m *markup) {
		authCard(m, "Register", "/register", p.CSRF)
		m.input("First Name", "text", "firstName", p.FirstName, "First Name")
		m.input("Last Name", "text", "lastName", p.LastName, "Last Name")
		m.input("Email", "email", "email", p.Email, "Email")
		m.input("Password", "password", "password", "", "Password")
		m.input("Phone Number", "tel", "phone", p.Phone, "Phone Number")
		m.raw("<label>Role\n<select name=\"role\" required>\n<option value=\"\">Select Role</option>")
		m.options(p.Roles)
		m.raw("\n</select>\n</label>\n")
		m.input("Security question: your first school", "text", "answer", p.Answer, "Your first School")
		submit(m, "Register")
		m.raw(`<h5>Already registered? <a href="/login">Login</a></h5>`, "\n</section>")
	})
}

func forgotBody(p ForgotPage) templ.Component {
	return component(func(m *markup) {
		authCard(m, "Forgot Password", "/forgot-password", p.CSRF)
		m.input("Email", "email", "email", p.Email, "Email")
		m.input("Security answer", "text", "answer", "", "Your first School")
		submit(m, "Send reset link")
		m.raw(`<h5><a href="/login">Back to login</a></h5>`, "\n</section>")
	})
}

func resetBody(p ResetPage) templ.Component {
	return component(func(m *markup) {
		authCard(m, "Reset Your Password", "/reset-password/"+PathEscape(p.Token), p.CSRF)
		m.input("New Password", "password", "password", "", "")
		m.input("Confirm Password", "password", "confirm", "", "")
		submit(m, "Reset Password")
		m.raw("</section>")
	})
}

func homeBody(p HomePage) templ.Component {
	return component(func(m *markup) {
		m.raw("<section class=\"hero\">\n<h1>Welcome to ")
		m.text(p.SiteName)
		m.raw("</h1>\n<h2>Find your perfect stay, anytime, anywhere.</h2>\n",
			"<p>Whether you're looking for a short-term rental, a cozy homestay or a fully furnished apartment, ")
		m.text(p.SiteName)
		m.raw(" makes finding and listing accommodations effortless.</p>\n",
			"<div class=\"actions\">\n",
			`<a class="button primary" href="/property-listing">Find a Stay</a>`, "\n",
			`<a class="button" href="/add-new-property">List Your Property</a>`, "\n",
			"</div>\n</section>")
	})
}

func errorCard(m *markup, code, message string) {
	m.raw("<section class=\"card error-page\">\n<h1>")
	m.text(code)
	m.raw("</h1>\n<p>")
	m.text(message)
	m.raw("</p>\n<a class=\"button\" href=\"/home\">Go home</a>\n</section>")
}

func notFoundBody(p ErrorPage) templ.Component {
	return component(func(m *markup) {
		msg := p.Message
		if msg == "" {
			msg = "The page you are looking for does not exist."
		}
		errorCard(m, "404", msg)
	})
}

func serverErrorBody(p ErrorPage) templ.Component {
	return component(func(m *markup) {
		code := "500"
		if p.Code != 0 {
			code = strconv.Itoa(p.Code)
		}
		errorCard(m, code, "Something went wrong on our side. Please try again.")
	})
}
