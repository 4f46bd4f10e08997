package tolet

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/draft"
	"github.com/eringen/tolet/geo"
	"github.com/eringen/tolet/staging"
	"github.com/eringen/tolet/views"
)

const ctxForm = "tolet.form"

// requireDraft resolves :draft to one of the visitor's open forms.
func (a *App) requireDraft(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		f, ok := a.Drafts.Get(SessionID(c), c.Param("draft"))
		if !ok {
			if c.Request().Method == http.MethodGet && c.Param("name") != "" {
				return echo.ErrNotFound
			}
			a.flash(c, flashWarning, "This form is no longer open.")
			return c.Redirect(http.StatusSeeOther, "/home")
		}
		c.Set(ctxForm, f)
		return next(c)
	}
}

func formOf(c echo.Context) *draft.Form {
	f, _ := c.Get(ctxForm).(*draft.Form)
	return f
}

func (a *App) handleDraftPage(c echo.Context) error {
	f := formOf(c)
	var page templ.Component
	err := f.Read(func(d *draft.Draft, _ draft.State) {
		if d.Kind == draft.KindBlog {
			page = views.BlogForm(a.blogFormPage(c, f, d))
			return
		}
		page = views.PropertyForm(a.propertyFormPage(c, f, d))
	})
	if err != nil {
		return a.fail(c, err, failure{Redirect: "/home"})
	}
	return Render(c, page)
}

func (a *App) propertyFormPage(c echo.Context, f *draft.Form, d *draft.Draft) views.PropertyFormPage {
	title := "Add New Property"
	if d.Editing() {
		title = "Edit Property"
	}
	p := d.Property
	page := views.PropertyFormPage{
		Chrome:    a.chrome(c, title),
		DraftID:   f.ID,
		Editing:   d.Editing(),
		RecordID:  f.RecordID,
		Count:     d.Photos.Count(),
		Limit:     d.Photos.Limit(),
		Latitude:  p.Location.LatString(),
		Longitude: p.Location.LngString(),
		MapJSON:   d.Picker.View(draftURL(f.ID) + "/location").JSON(),
	}

	index := map[string]int{}
	for _, fd := range draft.PropertyFields {
		i, ok := index[fd.Section]
		if !ok {
			i = len(page.Sections)
			index[fd.Section] = i
			page.Sections = append(page.Sections, views.FormSection{Title: fd.Section})
		}
		fv := views.FieldView{
			Name:     fd.Name,
			Label:    fd.Label,
			Input:    string(fd.Input),
			Value:    p.Get(fd.Name),
			Required: fd.Required,
		}
		if fd.Input == draft.InputSelect {
			fv.Options = views.Options(fd.Options, fv.Value)
		}
		page.Sections[i].Fields = append(page.Sections[i].Fields, fv)
	}

	for _, v := range draft.Amenities {
		page.Amenities = append(page.Amenities, views.Toggle{Set: "amenities", Value: v, On: p.Amenities.Has(v)})
	}
	for _, v := range draft.Appliances {
		page.Appliances = append(page.Appliances, views.Toggle{Set: "appliances", Value: v, On: p.Appliances.Has(v)})
	}
	for _, id := range d.Photos.Existing() {
		page.Existing = append(page.Existing, views.ExistingPhoto{
			ID:     id,
			URL:    a.API.AssetURL(id),
			Marked: d.Photos.IsMarked(id),
		})
	}
	for i, sf := range d.Photos.Staged() {
		page.Staged = append(page.Staged, views.StagedPhoto{Index: i, Name: sf.Name, URL: stagedURL(f.ID, sf)})
	}
	return page
}

func (a *App) blogFormPage(c echo.Context, f *draft.Form, d *draft.Draft) views.BlogFormPage {
	title := "Create New Blog"
	if d.Editing() {
		title = "Edit Blog"
	}
	page := views.BlogFormPage{
		Chrome:   a.chrome(c, title),
		DraftID:  f.ID,
		Editing:  d.Editing(),
		RecordID: f.RecordID,
		Title:    d.Blog.Title,
		Content:  d.Blog.Content,
		Tags:     d.Blog.Tags.Values(),
	}
	if staged := d.Photos.Staged(); len(staged) > 0 {
		page.CoverURL = stagedURL(f.ID, staged[0])
		page.CoverStaged = true
	} else if keep := d.Photos.Keep(); len(keep) > 0 {
		page.CoverURL = a.API.AssetURL(keep[0])
	}
	return page
}

func stagedURL(formID string, sf staging.File) string {
	return draftURL(formID) + "/staged/" + url.PathEscape(path.Base(sf.Key))
}

// draftStep applies the posted fields and uploads, runs action, and sends
// the browser back to the form.
func (a *App) draftStep(c echo.Context, action func(f *draft.Form) error) error {
	f := formOf(c)
	back := draftURL(f.ID)
	if err := a.applyDraft(c, f); err != nil && !errors.Is(err, errBatchRefused) {
		return a.fail(c, err, failure{Redirect: back})
	}
	if action != nil {
		if err := action(f); err != nil {
			return a.fail(c, err, failure{Redirect: back})
		}
	}
	return c.Redirect(http.StatusSeeOther, back)
}

// applyDraft copies every posted scalar into the draft and stages any
// attached files, so no button on the form loses what was typed.
func (a *App) applyDraft(c echo.Context, f *draft.Form) error {
	form, err := c.FormParams()
	if err != nil {
		return api.Invalid("Could not read the form")
	}
	err = f.Mutate(func(d *draft.Draft) error {
		if d.Kind == draft.KindBlog {
			for _, name := range []string{"title", "content"} {
				if vals, ok := form[name]; ok && len(vals) > 0 {
					d.Blog.Set(name, vals[0])
				}
			}
			return nil
		}
		for _, fd := range draft.PropertyFields {
			if vals, ok := form[fd.Name]; ok && len(vals) > 0 {
				if err := d.Property.Set(fd.Name, vals[0]); err != nil {
					return err
				}
			}
		}
		if lat, lng := form.Get("latitude"), form.Get("longitude"); lat != "" && lng != "" {
			if at, err := geo.ParseCoordinate(lat, lng); err == nil && at != d.Property.Location {
				d.Click(at)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return a.ingestUploads(c, f)
}

func uploads(c echo.Context, field string) []*multipart.FileHeader {
	mf := c.Request().MultipartForm
	if mf == nil {
		return nil
	}
	var out []*multipart.FileHeader
	for _, fh := range mf.File[field] {
		if fh != nil && fh.Filename != "" {
			out = append(out, fh)
		}
	}
	return out
}

// errBatchRefused reports that an edit form refused a whole photo batch
// for exceeding the limit. The warning has already been flashed.
var errBatchRefused = errors.New("photo batch refused")

func (a *App) ingestUploads(c echo.Context, f *draft.Form) error {
	ctx := c.Request().Context()
	if f.Kind() == draft.KindBlog {
		covers := uploads(c, "coverImage")
		if len(covers) == 0 {
			return nil
		}
		if err := f.SetCover(ctx, covers[0]); err != nil {
			if msg, ok := uploadMessage(err); ok {
				a.flash(c, flashError, msg)
				return nil
			}
			return err
		}
		return nil
	}

	files := uploads(c, "photos")
	if len(files) == 0 {
		return nil
	}
	res, rejected, err := f.AddPhotos(ctx, files)
	if err != nil {
		return err
	}
	for _, rerr := range rejected {
		msg, ok := uploadMessage(rerr)
		if !ok {
			return rerr
		}
		a.flash(c, flashError, msg)
	}
	if res.Warning != "" {
		a.flash(c, flashWarning, res.Warning)
		if f.RecordID != "" && len(res.Added) == 0 {
			return errBatchRefused
		}
	}
	return nil
}

// uploadMessage maps a staging rejection to what the user sees.
func uploadMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, staging.ErrTooLarge):
		return "Image size should be less than 5MB", true
	case errors.Is(err, staging.ErrUnsupported):
		return "Only JPEG, PNG, GIF and WebP images are supported", true
	default:
		return "", false
	}
}

func (a *App) handleDraftFields(c echo.Context) error {
	return a.draftStep(c, nil)
}

func (a *App) handleDraftPhotos(c echo.Context) error {
	return a.draftStep(c, nil)
}

func (a *App) handleDraftToggle(c echo.Context) error {
	set, value, _ := strings.Cut(c.FormValue("toggle"), ":")
	return a.draftStep(c, func(f *draft.Form) error {
		return f.Mutate(func(d *draft.Draft) error {
			if d.Property == nil {
				return api.Invalid("This form has no %s", set)
			}
			if _, err := d.Property.Toggle(set, value); err != nil {
				return api.Invalid("Unknown option %q", value)
			}
			return nil
		})
	})
}

func (a *App) handleDraftTags(c echo.Context) error {
	remove := c.FormValue("remove")
	tag := strings.TrimSpace(c.FormValue("tag"))
	return a.draftStep(c, func(f *draft.Form) error {
		return f.Mutate(func(d *draft.Draft) error {
			if d.Blog == nil {
				return nil
			}
			if remove != "" {
				d.Blog.RemoveTag(remove)
				return nil
			}
			d.Blog.AddTag(tag)
			return nil
		})
	})
}

func (a *App) handleDraftExisting(c echo.Context) error {
	id := c.FormValue("photo")
	return a.draftStep(c, func(f *draft.Form) error {
		var kept bool
		err := f.Mutate(func(d *draft.Draft) error {
			kept = d.Photos.ToggleDeleteExisting(id)
			return nil
		})
		if err == nil && !kept {
			a.flash(c, flashWarning, "Remove a new photo before keeping this one.")
		}
		return err
	})
}

func (a *App) handleDraftRemoveStaged(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.ErrNotFound
	}
	return a.draftStep(c, func(f *draft.Form) error {
		_, err := f.RemoveStaged(index)
		return err
	})
}

func (a *App) handleDraftCover(c echo.Context) error {
	remove := c.FormValue("remove") != ""
	return a.draftStep(c, func(f *draft.Form) error {
		if !remove {
			return nil
		}
		return f.RemoveCover()
	})
}

// locationReply is what the map script reads after a click.
type locationReply struct {
	Lat     string `json:"lat"`
	Lng     string `json:"lng"`
	Readout string `json:"readout"`
}

func (a *App) handleDraftLocation(c echo.Context) error {
	f := formOf(c)
	at, err := geo.ParseCoordinate(c.FormValue("lat"), c.FormValue("lng"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid coordinate"})
	}
	err = f.Mutate(func(d *draft.Draft) error {
		if d.Picker == nil {
			return api.Invalid("This form has no map")
		}
		d.Click(at)
		return nil
	})
	switch {
	case errors.Is(err, draft.ErrNotReady), errors.Is(err, draft.ErrClosed):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": api.UserMessage(err, "invalid coordinate")})
	}
	return c.JSON(http.StatusOK, locationReply{Lat: at.LatString(), Lng: at.LngString(), Readout: at.String()})
}

func (a *App) handleDraftSubmit(c echo.Context) error {
	f := formOf(c)
	back := draftURL(f.ID)
	if err := a.applyDraft(c, f); err != nil {
		if errors.Is(err, errBatchRefused) {
			return c.Redirect(http.StatusSeeOther, back)
		}
		return a.fail(c, err, failure{Redirect: back})
	}

	token := Visitor(c).Token
	editing := f.RecordID != ""
	kind := f.Kind()

	var send draft.SubmitFunc
	var done failure
	var success, target string
	switch kind {
	case draft.KindBlog:
		send = func(ctx context.Context, p *api.Payload) (string, error) {
			if editing {
				return f.RecordID, a.API.UpdateBlog(ctx, token, f.RecordID, p)
			}
			b, err := a.API.CreateBlog(ctx, token, p)
			return b.ID, err
		}
		done = failure{Fallback: "Failed to create blog", Forbidden: "You are not authorized to edit this blog", Redirect: back}
		success, target = "Blog created successfully!", "/blog"
		if editing {
			done.Fallback, success = "Failed to update blog", "Blog updated successfully!"
		}
	default:
		send = func(ctx context.Context, p *api.Payload) (string, error) {
			if editing {
				return f.RecordID, a.API.UpdateProperty(ctx, token, f.RecordID, p)
			}
			p2, err := a.API.CreateProperty(ctx, token, p)
			return p2.ID, err
		}
		done = failure{Fallback: "Failed to add property", Forbidden: "You are not authorized to edit this property", Redirect: back}
		success, target = "Property added successfully!", "/property-listing"
		if editing {
			done.Fallback, success = "Failed to update property", "Property updated successfully!"
		}
	}

	if token == "" {
		msg := "Please login to add properties"
		switch {
		case kind == draft.KindBlog && editing:
			msg = "Please login to update a blog post"
		case kind == draft.KindBlog:
			msg = "Please login to create a blog"
		case editing:
			msg = "Please login to update properties"
		}
		a.flash(c, flashError, msg)
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	id, err := f.Submit(send)
	if err != nil {
		return a.fail(c, err, done)
	}
	a.Listings.Invalidate(SessionID(c))
	a.Logger.Info("record saved", "kind", kind.String(), "id", id, "edit", editing)
	a.flash(c, flashSuccess, success)
	if id != "" {
		prefix := "/property/"
		if kind == draft.KindBlog {
			prefix = "/blog/"
		}
		target = prefix + url.PathEscape(id)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (a *App) handleDraftDiscard(c echo.Context) error {
	f := formOf(c)
	target := discardTarget(f.Kind(), f.RecordID)
	a.Drafts.Discard(SessionID(c), f.ID)
	return c.Redirect(http.StatusSeeOther, target)
}

func discardTarget(kind draft.Kind, recordID string) string {
	switch {
	case kind == draft.KindBlog && recordID != "":
		return "/blog/" + url.PathEscape(recordID)
	case kind == draft.KindBlog:
		return "/blog"
	case recordID != "":
		return "/property/" + url.PathEscape(recordID)
	default:
		return "/property-listing"
	}
}
