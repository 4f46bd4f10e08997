package views

import (
	"strconv"

	"github.com/a-h/templ"
)

func blogPageURL(sort string, page int) string {
	return "/blog?sort=" + PathEscape(sort) + "&page=" + strconv.Itoa(page)
}

func (m *markup) tab(sort, current, label string) {
	class := "tab"
	if sort == current {
		class += " active"
	}
	m.raw("<a")
	m.url("href", "/blog?sort="+sort)
	m.attr("class", class)
	m.raw(">")
	m.text(label)
	m.raw("</a>\n")
}

func blogListBody(p BlogListPage) templ.Component {
	return component(func(m *markup) {
		m.raw("<section class=\"blog-list\">\n<div class=\"listing-head\">\n<h1>Blog</h1>\n<div class=\"tabs\">\n")
		m.tab("latest", p.Sort, "Latest")
		m.tab("trending", p.Sort, "Trending")
		m.raw("</div>\n")
		if p.CanPublish {
			m.raw(`<a class="button primary" href="/blog/add">Write a Blog</a>`, "\n")
		}
		m.raw("</div>\n")
		if len(p.Cards) == 0 {
			m.raw("<p class=\"empty\">No blogs yet.</p>\n")
		}
		m.raw("<div class=\"grid\">\n")
		for _, c := range p.Cards {
			blogCard(m, c)
		}
		m.raw("</div>\n")
		if p.TotalPages > 1 {
			m.raw(`<nav class="pager" aria-label="Pagination">`)
			if p.HasPrev {
				m.raw("<a")
				m.url("href", blogPageURL(p.Sort, p.Page-1))
				m.raw(">&laquo; Prev</a>")
			}
			for _, l := range p.Links {
				switch {
				case l.Ellipsis:
					m.raw(`<span class="ellipsis">&hellip;</span>`)
				case l.Current:
					m.raw(`<span class="current" aria-current="page">`)
					m.num(l.Number)
					m.raw("</span>")
				default:
					m.raw("<a")
					m.url("href", blogPageURL(p.Sort, l.Number))
					m.raw(">")
					m.num(l.Number)
					m.raw("</a>")
				}
			}
			if p.HasNext {
				m.raw("<a")
				m.url("href", blogPageURL(p.Sort, p.Page+1))
				m.raw(">Next &raquo;</a>")
			}
			m.raw("</nav>\n")
		}
		m.raw("</section>")
	})
}

func blogCard(m *markup, c BlogCard) {
	href := "/blog/" + PathEscape(c.ID)
	m.raw("<article class=\"card blog-card\">\n<a")
	m.url("href", href)
	m.raw(` class="cover">`)
	if c.Cover != "" {
		m.raw("<img")
		m.url("src", c.Cover)
		m.attr("alt", c.Title)
		m.raw(` loading="lazy">`)
	} else {
		m.raw(`<span class="no-image">No Image</span>`)
	}
	m.raw("</a>\n<div class=\"body\">\n")
	m.chips(c.Tags)
	m.raw("\n<h3><a")
	m.url("href", href)
	m.raw(">")
	m.text(c.Title)
	m.raw("</a></h3>\n<p class=\"muted\">")
	m.text(c.Excerpt)
	m.raw("</p>\n")
	blogMeta(m, c.Author, c.Date, c.Views)
	m.raw("<span>")
	m.num(c.Likes)
	m.raw(" likes</span></div>\n</div>\n</article>\n")
}

// blogMeta opens the meta row; the caller closes it.
func blogMeta(m *markup, author, date string, views int) {
	m.raw(`<div class="meta"><span>`)
	m.text(author)
	m.raw("</span>")
	if date != "" {
		m.raw("<span>")
		m.text(date)
		m.raw("</span>")
	}
	m.raw("<span>")
	m.num(views)
	m.raw(" views</span>")
}

func blogDetailBody(p BlogDetailPage) templ.Component {
	return component(func(m *markup) {
		href := "/blog/" + PathEscape(p.ID)
		m.raw("<article class=\"blog-detail\">\n<a href=\"/blog\" class=\"back\">&larr; Back to blogs</a>\n")
		if p.Cover != "" {
			m.raw(`<img class="hero-image"`)
			m.url("src", p.Cover)
			m.attr("alt", p.Title)
			m.raw(">\n")
		}
		m.raw("<h1>")
		m.text(p.Title)
		m.raw("</h1>\n")
		blogMeta(m, "By "+p.Author, p.Date, p.Views)
		m.raw("</div>\n")
		m.chips(p.Tags)
		m.raw("\n<div class=\"prose\">")
		m.render(p.Body)
		m.raw("</div>\n<div class=\"blog-actions\">\n<form method=\"post\"")
		m.url("action", href+"/like")
		m.raw(` class="inline">`)
		m.csrf(p.CSRF)
		class, label := "button", "&#9825; Like"
		if p.Liked {
			class, label = "button liked", "&hearts; Liked"
		}
		m.raw(`<button type="submit"`)
		m.attr("class", class)
		m.attr("aria-pressed", strconv.FormatBool(p.Liked))
		m.raw(">", label, " (")
		m.num(p.Likes)
		m.raw(")</button></form>\n")
		if p.Owned {
			m.raw("<a class=\"button\"")
			m.url("href", href+"/edit")
			m.raw(">Edit</a>\n")
			m.confirmForm(href+"/delete", p.CSRF, "Are you sure you want to delete this blog?", "Delete")
		}
		m.raw("\n</div>\n</article>")
	})
}

func blogFormBody(p BlogFormPage) templ.Component {
	return component(func(m *markup) {
		heading, action, cover := "Create New Blog", "Publish Blog", "Cover Image"
		if p.Editing {
			heading, action, cover = "Edit Blog", "Update Blog", "Cover Image *"
		}
		m.raw("<section class=\"editor\">\n<h1>")
		m.text(heading)
		m.raw("</h1>\n")
		m.draftForm(p.DraftID, p.CSRF)

		m.raw("<fieldset class=\"card\">\n<label>Title *\n<input type=\"text\" name=\"title\"")
		m.attr("value", p.Title)
		m.raw(">\n</label>\n<label>Content *\n<textarea name=\"content\" rows=\"14\">")
		m.text(p.Content)
		m.raw("</textarea>\n</label>\n</fieldset>\n")

		m.fieldset("Tags", func() {
			m.raw(`<div class="chips">`)
			for _, tag := range p.Tags {
				m.raw(`<span class="chip on">`)
				m.text(tag)
				m.raw(` <button type="submit"`)
				m.url("formaction", "/drafts/"+p.DraftID+"/tags")
				m.raw(` name="remove"`)
				m.attr("value", tag)
				m.attr("aria-label", "Remove "+tag)
				m.raw(">&times;</button></span>")
			}
			m.raw("</div>\n<input type=\"text\" name=\"tag\" placeholder=\"Add a tag\">\n")
			m.draftButton(p.DraftID, "tags", "button small", "Add Tag")
			m.raw("\n")
		})

		m.fieldset(cover, func() {
			if p.CoverURL != "" {
				m.raw(`<figure class="thumb cover-preview"><img`)
				m.url("src", p.CoverURL)
				m.raw(` alt="Cover preview"><button type="submit"`)
				m.url("formaction", "/drafts/"+p.DraftID+"/cover")
				m.raw(` name="remove" value="1" class="button small">Remove</button></figure>`, "\n")
			}
			m.raw(`<input type="file" name="coverImage"`)
			m.attr("accept", imageAccept)
			m.raw(">\n")
			m.draftButton(p.DraftID, "cover", "button small", "Upload Cover")
			m.raw("\n<p class=\"muted small\">Max 5MB.</p>\n")
		})

		m.raw("<div class=\"form-actions\">\n")
		m.draftButton(p.DraftID, "submit", "button primary", action)
		m.raw("\n")
		m.draftButton(p.DraftID, "discard", "button", "Cancel")
		m.raw("\n</div>\n</form>\n</section>")
	})
}
