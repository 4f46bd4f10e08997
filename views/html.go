package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// markup writes HTML for one component and keeps the first write error,
// so component bodies read top to bottom like the page they produce.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

// component wraps fn as a templ.Component.
func component(fn func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{ctx: ctx, w: w}
		fn(m)
		return m.err
	})
}

// raw writes trusted markup.
func (m *markup) raw(parts ...string) {
	for _, s := range parts {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, s)
	}
}

// text writes s escaped.
func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func (m *markup) num(n int) {
	m.raw(strconv.Itoa(n))
}

// attr writes ` name="value"` with value escaped.
func (m *markup) attr(name, value string) {
	m.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// url writes a sanitized URL attribute.
func (m *markup) url(name, value string) {
	m.attr(name, string(templ.URL(value)))
}

// flag writes a boolean attribute when on.
func (m *markup) flag(name string, on bool) {
	if on {
		m.raw(" ", name)
	}
}

// render inlines a nested component.
func (m *markup) render(c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

func (m *markup) csrf(token string) {
	m.raw(`<input type="hidden" name="_csrf"`)
	m.attr("value", token)
	m.raw(">")
}

func (m *markup) options(opts []Option) {
	for _, o := range opts {
		m.raw("<option")
		m.attr("value", o.Value)
		m.flag("selected", o.Selected)
		m.raw(">")
		m.text(o.Label)
		m.raw("</option>")
	}
}

func (m *markup) chips(values []string) {
	m.raw(`<div class="chips">`)
	for _, v := range values {
		m.raw(`<span class="chip">`)
		m.text(v)
		m.raw("</span>")
	}
	m.raw("</div>")
}

// confirmForm is a one-button POST form guarded by a browser confirm.
func (m *markup) confirmForm(action, csrf, question, label string) {
	m.raw(`<form method="post"`)
	m.url("action", action)
	m.raw(` class="inline"`)
	m.attr("onsubmit", "return confirm('"+question+"')")
	m.raw(">")
	m.csrf(csrf)
	m.raw(`<button class="button danger" type="submit">`)
	m.text(label)
	m.raw("</button></form>")
}
