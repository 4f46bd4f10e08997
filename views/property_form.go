package views

import (
	"strconv"

	"github.com/a-h/templ"
)

const imageAccept = "image/jpeg,image/png,image/gif,image/webp"

// draftButton is a submit button posting the whole form to one draft step.
func (m *markup) draftButton(draftID, step, class, label string) {
	m.raw(`<button type="submit"`)
	m.url("formaction", "/drafts/"+draftID+"/"+step)
	m.attr("class", class)
	m.raw(">")
	m.text(label)
	m.raw("</button>")
}

func (m *markup) draftForm(draftID, csrf string) {
	m.raw("<form method=\"post\"")
	m.url("action", "/drafts/"+draftID+"/fields")
	m.raw(" enctype=\"multipart/form-data\" class=\"record-form\">\n")
	m.csrf(csrf)
	m.raw("\n")
}

func (m *markup) fieldset(legend string, body func()) {
	m.raw("<fieldset class=\"card\">\n<legend>")
	m.text(legend)
	m.raw("</legend>\n")
	body()
	m.raw("</fieldset>\n")
}

func (m *markup) field(f FieldView) {
	m.raw("<label>")
	m.text(f.Label)
	if f.Required {
		m.raw(" *")
	}
	m.raw("\n")
	switch f.Input {
	case "select":
		m.raw("<select")
		m.attr("name", f.Name)
		m.raw(`><option value="">Select</option>`)
		m.options(f.Options)
		m.raw("</select>")
	case "textarea":
		m.raw("<textarea")
		m.attr("name", f.Name)
		m.raw(` rows="3">`)
		m.text(f.Value)
		m.raw("</textarea>")
	default:
		m.raw("<input")
		m.attr("type", f.Input)
		m.attr("name", f.Name)
		m.attr("value", f.Value)
		if f.Input == "number" {
			m.raw(` min="0"`)
		}
		m.raw(">")
	}
	m.raw("\n</label>\n")
}

func (m *markup) toggles(draftID string, set []Toggle) {
	m.raw(`<div class="chips">`)
	for _, t := range set {
		class := "chip"
		if t.On {
			class += " on"
		}
		m.raw(`<button type="submit"`)
		m.url("formaction", "/drafts/"+draftID+"/toggle")
		m.raw(` name="toggle"`)
		m.attr("value", t.Set+":"+t.Value)
		m.attr("class", class)
		m.attr("aria-pressed", strconv.FormatBool(t.On))
		m.raw(">")
		m.text(t.Value)
		m.raw("</button>")
	}
	m.raw("</div>\n")
}

func propertyFormBody(p PropertyFormPage) templ.Component {
	return component(func(m *markup) {
		heading, action := "Add New Property", "Submit Property"
		if p.Editing {
			heading, action = "Edit Property", "Update Property"
		}
		m.raw("<section class=\"editor\">\n<h1>")
		m.text(heading)
		m.raw("</h1>\n")
		m.draftForm(p.DraftID, p.CSRF)
		m.raw(`<input type="hidden" name="latitude" id="latitude"`)
		m.attr("value", p.Latitude)
		m.raw(">\n<input type=\"hidden\" name=\"longitude\" id=\"longitude\"")
		m.attr("value", p.Longitude)
		m.raw(">\n")

		for _, s := range p.Sections {
			m.fieldset(s.Title, func() {
				for _, f := range s.Fields {
					m.field(f)
				}
			})
		}
		m.fieldset("Amenities", func() { m.toggles(p.DraftID, p.Amenities) })
		m.fieldset("Appliances", func() { m.toggles(p.DraftID, p.Appliances) })
		m.fieldset("Location", func() {
			m.raw("<p class=\"muted small\">Click on the map to set the property location.</p>\n")
			m.mapDiv("map", p.MapJSON)
			m.raw(`<p>Selected: <span id="coords">`)
			m.text(p.Latitude + ", " + p.Longitude)
			m.raw("</span></p>\n")
		})
		m.fieldset("Photos ("+strconv.Itoa(p.Count)+"/"+strconv.Itoa(p.Limit)+")", func() {
			if len(p.Existing) > 0 {
				m.raw("<div class=\"thumbs\">\n")
				for _, e := range p.Existing {
					class, label := "thumb", "Remove"
					if e.Marked {
						class, label = "thumb marked", "Keep"
					}
					m.raw("<figure")
					m.attr("class", class)
					m.raw("><img")
					m.url("src", e.URL)
					m.raw(` alt="" loading="lazy"><button type="submit"`)
					m.url("formaction", "/drafts/"+p.DraftID+"/existing")
					m.raw(` name="photo"`)
					m.attr("value", e.ID)
					m.raw(` class="button small">`)
					m.text(label)
					m.raw("</button></figure>\n")
				}
				m.raw("</div>\n")
			}
			if len(p.Staged) > 0 {
				m.raw("<div class=\"thumbs\">\n")
				for _, s := range p.Staged {
					m.raw(`<figure class="thumb"><img`)
					m.url("src", s.URL)
					m.attr("alt", s.Name)
					m.raw(">")
					m.draftButton(p.DraftID, "staged/"+strconv.Itoa(s.Index)+"/remove", "button small", "Remove")
					m.raw("</figure>\n")
				}
				m.raw("</div>\n")
			}
			m.raw(`<input type="file" name="photos"`)
			m.attr("accept", imageAccept)
			m.raw(" multiple>\n")
			m.draftButton(p.DraftID, "photos", "button", "Upload Photos")
			m.raw("\n")
		})

		m.raw("<div class=\"form-actions\">\n")
		m.draftButton(p.DraftID, "submit", "button primary", action)
		m.raw("\n")
		m.draftButton(p.DraftID, "discard", "button", "Cancel")
		m.raw("\n</div>\n</form>\n</section>")
	})
}
