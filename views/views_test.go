package views

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/tolet/listing"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestEveryPageRendersEmpty(t *testing.T) {
	for name, c := range map[string]templ.Component{
		"login":           Login(LoginPage{}),
		"register":        Register(RegisterPage{}),
		"forgot":          Forgot(ForgotPage{}),
		"reset":           Reset(ResetPage{}),
		"home":            Home(HomePage{}),
		"property_list":   PropertyList(PropertyListPage{}),
		"property_detail": PropertyDetail(PropertyDetailPage{}),
		"property_form":   PropertyForm(PropertyFormPage{}),
		"blog_list":       BlogList(BlogListPage{}),
		"blog_detail":     BlogDetail(BlogDetailPage{}),
		"blog_form":       BlogForm(BlogFormPage{}),
		"not_found":       NotFound(ErrorPage{}),
		"server_error":    ServerError(ErrorPage{}),
	} {
		t.Run(name, func(t *testing.T) {
			out := render(t, c)
			assert.Contains(t, out, "<!doctype html>")
			assert.Contains(t, out, "Login / Signup")
		})
	}
}

func TestLayoutChrome(t *testing.T) {
	out := render(t, Home(HomePage{Chrome: Chrome{
		SiteName:   "To-Let",
		Title:      "Home",
		CSRF:       "tok<en>",
		LoggedIn:   true,
		UserName:   "asha verma",
		CanPublish: true,
		Flashes: []Flash{
			{Kind: "success", Message: "Saved <b>now</b>"},
			{Kind: "bogus", Message: "fyi"},
		},
	}}))

	assert.Contains(t, out, "<title>Home | To-Let</title>")
	assert.Contains(t, out, `content="tok&lt;en&gt;"`)
	assert.Contains(t, out, `title="asha verma">AV</span>`)
	assert.Contains(t, out, `action="/logout"`)
	assert.Contains(t, out, "Write a Blog")
	assert.Contains(t, out, `<div class="flash flash-success" role="status">Saved &lt;b&gt;now&lt;/b&gt;</div>`)
	assert.Contains(t, out, `<div class="flash flash-info" role="status">fyi</div>`)
	assert.NotContains(t, out, "Login / Signup")
}

func TestBlogDetailInlinesBody(t *testing.T) {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>safe <em>html</em></p>")
		return err
	})
	out := render(t, BlogDetail(BlogDetailPage{Title: "Post", Body: body, Liked: true}))
	assert.Contains(t, out, "<p>safe <em>html</em></p>")
	assert.Contains(t, out, `aria-pressed="true"`)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AV", Initials("asha verma"))
	assert.Equal(t, "A", Initials("  asha "))
	assert.Equal(t, "ÉM", Initials("élodie martin roux"))
	assert.Equal(t, "?", Initials(""))
}

func TestRupees(t *testing.T) {
	for in, want := range map[string]string{
		"":         "",
		"999":      "999",
		"15000":    "15,000",
		"125000":   "1,25,000",
		"12345678": "1,23,45,678",
		"1500.50":  "1,500.50",
		"-2000":    "-2000",
		"on call":  "on call",
	} {
		assert.Equal(t, want, Rupees(in), in)
	}
}

func TestOptionsAndTags(t *testing.T) {
	opts := Options([]string{"No", "Yes"}, "Yes")
	assert.Equal(t, []Option{{Value: "No", Label: "No"}, {Value: "Yes", Label: "Yes", Selected: true}}, opts)

	assert.Equal(t, []string{"a", "b"}, FirstTags([]string{"a", "b", "c"}, 2))
	assert.Equal(t, []string{"a"}, FirstTags([]string{"a"}, 3))
	assert.Equal(t, "N/A", OrNA(" "))
	assert.Equal(t, "flash flash-warning", FlashClass("warning"))
}

func TestPropertyListEscapes(t *testing.T) {
	out := render(t, PropertyList(PropertyListPage{
		Cards: []PropertyCard{{
			ID:        "p 1",
			SpaceType: "Flat",
			Locality:  `Gomti "Nagar"`,
			Photo:     "javascript:alert(1)",
			Rent:      "125000",
			Owned:     true,
		}},
		MapJSON: `{"markers":[]}`,
	}))

	assert.Contains(t, out, `data-map="{&#34;markers&#34;:[]}"`)
	assert.Contains(t, out, "<h3>Flat in Gomti &#34;Nagar&#34;</h3>")
	assert.Contains(t, out, "₹1,25,000")
	assert.Contains(t, out, `href="/property/p%201/edit"`)
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "No properties listed yet.")
}

func TestPropertyFormToggles(t *testing.T) {
	out := render(t, PropertyForm(PropertyFormPage{
		DraftID: "d1",
		Sections: []FormSection{{Title: "Owner Details", Fields: []FieldView{
			{Name: "firstName", Label: "First Name", Input: "text", Value: "Asha", Required: true},
			{Name: "parking", Label: "Parking", Input: "select", Options: Options([]string{"No", "Yes"}, "Yes")},
		}}},
		Amenities: []Toggle{{Set: "amenities", Value: "Gym", On: true}, {Set: "amenities", Value: "Park"}},
		Staged:    []StagedPhoto{{Index: 0, Name: "room.png", URL: "/drafts/d1/staged/x.png"}},
		Count:     1,
		Limit:     10,
	}))

	assert.Contains(t, out, "<legend>Owner Details</legend>")
	assert.Contains(t, out, `name="firstName" value="Asha"`)
	assert.Contains(t, out, `<option value="Yes" selected>Yes</option>`)
	assert.Contains(t, out, `value="amenities:Gym" class="chip on" aria-pressed="true">Gym</button>`)
	assert.Contains(t, out, `class="chip" aria-pressed="false">Park</button>`)
	assert.Contains(t, out, `src="/drafts/d1/staged/x.png"`)
	assert.Contains(t, out, `formaction="/drafts/d1/staged/0/remove"`)
	assert.Contains(t, out, "Photos (1/10)")
	assert.Contains(t, out, "Submit Property")
}

func TestBlogListPager(t *testing.T) {
	out := render(t, BlogList(BlogListPage{
		Sort:       "trending",
		Page:       2,
		TotalPages: 3,
		HasPrev:    true,
		HasNext:    true,
		Links:      []listing.PageLink{{Number: 1}, {Number: 2, Current: true}, {Number: 3}},
	}))
	assert.Contains(t, out, `class="tab active">Trending</a>`)
	assert.Contains(t, out, `href="/blog?sort=trending&amp;page=1">&laquo; Prev</a>`)
	assert.Contains(t, out, `<span class="current" aria-current="page">2</span>`)
	assert.Contains(t, out, `href="/blog?sort=trending&amp;page=3">Next &raquo;</a>`)
	assert.Contains(t, out, "No blogs yet.")
}
