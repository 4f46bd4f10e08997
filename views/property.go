package views

import "github.com/a-h/templ"

const confirmDeleteProperty = "Are you sure you want to delete this property?"

func (m *markup) mapDiv(class, mapJSON string) {
	m.raw("<div")
	m.attr("class", class)
	m.attr("data-map", mapJSON)
	m.raw("></div>\n")
}

func propertyListBody(p PropertyListPage) templ.Component {
	return component(func(m *markup) {
		m.raw("<section class=\"listing\">\n<div class=\"listing-head\">\n<h1>Properties</h1>\n",
			"<form method=\"get\" action=\"/property-listing\" class=\"inline\">\n",
			"<label>Sort by <select name=\"sort\" onchange=\"this.form.submit()\">",
			`<option value="">Sort By</option>`)
		m.options(p.SortOptions)
		m.raw("</select></label>\n",
			`<noscript><button class="button" type="submit">Apply</button></noscript>`,
			"\n</form>\n</div>\n")
		m.mapDiv("map", p.MapJSON)
		if len(p.Cards) == 0 {
			m.raw("<p class=\"empty\">No properties listed yet.</p>\n")
		}
		m.raw("<div class=\"grid\">\n")
		for _, c := range p.Cards {
			propertyCard(m, c, p.CSRF)
		}
		m.raw("</div>\n</section>")
	})
}

func propertyCard(m *markup, c PropertyCard, csrf string) {
	href := "/property/" + PathEscape(c.ID)
	heading := c.SpaceType + " in " + c.Locality

	m.raw("<article class=\"card property-card\">\n<a")
	m.url("href", href)
	m.raw(` class="cover">`)
	if c.Photo != "" {
		m.raw("<img")
		m.url("src", c.Photo)
		m.attr("alt", heading)
		m.raw(` loading="lazy">`)
	} else {
		m.raw(`<span class="no-image">No Image</span>`)
	}
	m.raw("</a>\n<div class=\"body\">\n<a")
	m.url("href", href)
	m.raw(` class="title-row"><h3>`)
	m.text(heading)
	m.raw(`</h3><span class="price">₹`)
	m.text(Rupees(c.Rent))
	m.raw("</span></a>\n<p class=\"muted truncate\">")
	m.text(c.Address)
	m.raw("</p>\n<dl class=\"facts\">")
	for _, f := range []Fact{
		{"BHK:", c.BHK},
		{"Floor:", c.Floor},
		{"Furnishing:", c.FurnishingType},
		{"Area:", c.Area + " sq.ft"},
		{"Owner:", c.Owner},
		{"Contact:", c.Contact},
	} {
		m.raw("<div><dt>")
		m.text(f.Label)
		m.raw("</dt><dd>")
		m.text(f.Value)
		m.raw("</dd></div>")
	}
	m.raw("</dl>\n")
	if len(c.Amenities) > 0 {
		m.chips(c.Amenities)
	}
	if c.MoreAmenities > 0 {
		m.raw(`<span class="muted small">+`)
		m.num(c.MoreAmenities)
		m.raw("</span>")
	}
	if c.Owned {
		ownerActions(m, href, csrf)
	}
	m.raw("\n</div>\n</article>\n")
}

func ownerActions(m *markup, href, csrf string) {
	m.raw("<div class=\"owner-actions\">\n<a class=\"button\"")
	m.url("href", href+"/edit")
	m.raw(">Edit</a>\n")
	m.confirmForm(href+"/delete", csrf, confirmDeleteProperty, "Delete")
	m.raw("\n</div>")
}

func (m *markup) card(title string, body func()) {
	m.raw("<div class=\"card\">\n<h2>")
	m.text(title)
	m.raw("</h2>\n")
	body()
	m.raw("</div>\n")
}

// labelled writes <p><strong>label:</strong> value</p>.
func (m *markup) labelled(label, value string) {
	m.raw("<p><strong>")
	m.text(label)
	m.raw(":</strong> ")
	m.text(value)
	m.raw("</p>\n")
}

func (m *markup) checks(values []string) {
	m.raw(`<ul class="checks">`)
	for _, v := range values {
		m.raw("<li>")
		m.text(v)
		m.raw("</li>")
	}
	m.raw("</ul>\n")
}

func propertyDetailBody(p PropertyDetailPage) templ.Component {
	return component(func(m *markup) {
		m.raw("<section class=\"detail\">\n",
			"<a href=\"/property-listing\" class=\"back\">&larr; Back to listings</a>\n",
			"<div class=\"gallery\">")
		for _, src := range p.Photos {
			m.raw("<img")
			m.url("src", src)
			m.attr("alt", p.Heading)
			m.raw(` loading="lazy">`)
		}
		if len(p.Photos) == 0 {
			m.raw(`<span class="no-image">No images available</span>`)
		}
		m.raw("</div>\n<h1>")
		m.text(p.Heading)
		m.raw("</h1>\n<p class=\"price\">₹")
		m.text(Rupees(p.Rent))
		m.raw("/month</p>\n")
		if p.Maintenance != "" {
			m.raw("<p class=\"muted\">+ ₹")
			m.text(Rupees(p.Maintenance))
			m.raw(" maintenance</p>\n")
		}

		m.card("Location", func() {
			if p.MapJSON != "" {
				m.mapDiv("map small", p.MapJSON)
			}
			m.raw("<p>")
			m.text(p.Address)
			m.raw("</p>\n")
			if p.Landmark != "" {
				m.raw("<p class=\"muted small\">Near: ")
				m.text(p.Landmark)
				m.raw("</p>\n")
			}
		})
		m.card("Owner Information", func() {
			m.labelled("Name", p.Owner)
			m.labelled("Contact", p.Contact)
			if p.AltContact != "" {
				m.labelled("Alternate Contact", p.AltContact)
			}
		})
		m.card("Property Details", func() {
			m.raw(`<dl class="facts grid-4">`)
			for _, f := range p.Facts {
				m.raw("<div><dt>")
				m.text(f.Label)
				m.raw("</dt><dd>")
				m.text(OrNA(f.Value))
				m.raw("</dd></div>")
			}
			m.raw("</dl>\n")
		})
		if p.Preference != "" || p.Bachelors != "" {
			m.card("Preferences", func() {
				if p.Preference != "" {
					m.labelled("Tenant Preference", p.Preference)
				}
				if p.Bachelors != "" {
					m.labelled("Bachelors Allowed", p.Bachelors)
				}
			})
		}
		if len(p.Amenities) > 0 {
			m.card("Amenities", func() { m.checks(p.Amenities) })
		}
		if len(p.Appliances) > 0 {
			m.card("Appliances", func() { m.checks(p.Appliances) })
		}
		if p.About != "" {
			m.card("About this Property", func() {
				m.raw(`<p class="pre-line">`)
				m.text(p.About)
				m.raw("</p>\n")
			})
		}
		if p.Owned {
			ownerActions(m, "/property/"+PathEscape(p.ID), p.CSRF)
		}
		m.raw("\n</section>")
	})
}
