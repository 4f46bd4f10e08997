// Package views renders every screen as a templ component. Each page is
// its body wrapped in the shared layout, which renders the body as its
// children.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout is the page shell: head, navigation, account box, notifications
// and the children passed through the context.
func Layout(ch Chrome) templ.Component {
	return component(func(m *markup) {
		m.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n",
			"<meta charset=\"utf-8\">\n",
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n",
			`<meta name="csrf-token"`)
		m.attr("content", ch.CSRF)
		m.raw(">\n<title>")
		if ch.Title != "" {
			m.text(ch.Title)
			m.raw(" | ")
		}
		m.text(ch.SiteName)
		m.raw("</title>\n",
			"<link rel=\"stylesheet\" href=\"https://unpkg.com/leaflet@1.9.4/dist/leaflet.css\">\n",
			"<link rel=\"stylesheet\" href=\"/public/app.css\">\n",
			"</head>\n<body>\n<header class=\"top\">\n",
			`<a href="/home" class="logo">`)
		m.text(ch.SiteName)
		m.raw("</a>\n<nav>",
			`<a href="/home">Home</a>`,
			`<a href="/blog">Blog</a>`,
			`<a href="/property-listing">Property Listing</a>`,
			`<a href="/add-new-property">+Add New Property</a>`)
		if ch.CanPublish {
			m.raw(`<a href="/blog/add">Write a Blog</a>`)
		}
		m.raw("</nav>\n<div class=\"account\">")
		if ch.LoggedIn {
			m.raw(`<span class="avatar"`)
			m.attr("title", ch.UserName)
			m.raw(">")
			m.text(Initials(ch.UserName))
			m.raw(`</span><form method="post" action="/logout" class="inline">`)
			m.csrf(ch.CSRF)
			m.raw(`<button class="button" type="submit">Logout</button></form>`)
		} else {
			m.raw(`<a href="/login" class="button">Login / Signup</a>`)
		}
		m.raw("</div>\n</header>\n")
		if len(ch.Flashes) > 0 {
			m.raw(`<div class="flashes">`)
			for _, f := range ch.Flashes {
				m.raw("<div")
				m.attr("class", FlashClass(f.Kind))
				m.raw(` role="status">`)
				m.text(f.Message)
				m.raw("</div>")
			}
			m.raw("</div>\n")
		}
		m.raw("<main class=\"container\">\n")
		children := templ.GetChildren(m.ctx)
		m.ctx = templ.ClearChildren(m.ctx)
		m.render(children)
		m.raw("\n</main>\n",
			"<script src=\"https://unpkg.com/leaflet@1.9.4/dist/leaflet.js\"></script>\n",
			"<script src=\"/public/map.js\"></script>\n",
			"</body>\n</html>")
	})
}

// page renders body inside the layout.
func page(ch Chrome, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Layout(ch).Render(templ.WithChildren(ctx, body), w)
	})
}

func Login(p LoginPage) templ.Component       { return page(p.Chrome, loginBody(p)) }
func Register(p RegisterPage) templ.Component { return page(p.Chrome, registerBody(p)) }
func Forgot(p ForgotPage) templ.Component     { return page(p.Chrome, forgotBody(p)) }
func Reset(p ResetPage) templ.Component       { return page(p.Chrome, resetBody(p)) }
func Home(p HomePage) templ.Component         { return page(p.Chrome, homeBody(p)) }

func PropertyList(p PropertyListPage) templ.Component {
	return page(p.Chrome, propertyListBody(p))
}

func PropertyDetail(p PropertyDetailPage) templ.Component {
	return page(p.Chrome, propertyDetailBody(p))
}

func PropertyForm(p PropertyFormPage) templ.Component {
	return page(p.Chrome, propertyFormBody(p))
}

func BlogList(p BlogListPage) templ.Component     { return page(p.Chrome, blogListBody(p)) }
func BlogDetail(p BlogDetailPage) templ.Component { return page(p.Chrome, blogDetailBody(p)) }
func BlogForm(p BlogFormPage) templ.Component     { return page(p.Chrome, blogFormBody(p)) }
func NotFound(p ErrorPage) templ.Component        { return page(p.Chrome, notFoundBody(p)) }
func ServerError(p ErrorPage) templ.Component     { return page(p.Chrome, serverErrorBody(p)) }
