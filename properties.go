package tolet

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/geo"
	"github.com/eringen/tolet/listing"
	"github.com/eringen/tolet/views"
)

func (a *App) handlePropertyList(c echo.Context) error {
	st := Visitor(c)
	sortParam, sorting := c.QueryParams()["sort"]
	key := listing.SortNone
	if sorting && len(sortParam) > 0 {
		key = listing.ParseSortKey(sortParam[0])
	}

	props, owned, err := a.Listings.Load(c.Request().Context(), SessionID(c), st.Token, sorting)
	if err != nil {
		if api.IsAuth(err) {
			return a.fail(c, err, failure{Redirect: "/login"})
		}
		a.Logger.Warn("list properties", "error", err)
		return Render(c, views.PropertyList(views.PropertyListPage{
			Chrome:      a.chromeWith(c, "Property Listing", flashError, api.UserMessage(err, "Failed to load properties")),
			SortOptions: sortOptions(key),
			MapJSON:     geo.ListingMap(nil).JSON(),
		}))
	}

	sorted := listing.Sort(props, key)
	cards := make([]views.PropertyCard, 0, len(sorted))
	markers := make([]geo.Marker, 0, len(sorted))
	for _, p := range sorted {
		cards = append(cards, a.propertyCard(p, owned[p.ID]))
		if p.HasLocation() {
			markers = append(markers, geo.Marker{
				Coordinate: geo.Coordinate{Lat: float64(p.Latitude), Lng: float64(p.Longitude)},
				Label:      propertyHeading(p),
				Href:       "/property/" + url.PathEscape(p.ID),
			})
		}
	}
	return Render(c, views.PropertyList(views.PropertyListPage{
		Chrome:      a.chrome(c, "Property Listing"),
		Cards:       cards,
		SortOptions: sortOptions(key),
		MapJSON:     geo.ListingMap(markers).JSON(),
	}))
}

func sortOptions(selected listing.SortKey) []views.Option {
	out := make([]views.Option, 0, len(listing.SortOptions))
	for _, o := range listing.SortOptions {
		out = append(out, views.Option{Value: string(o.Key), Label: o.Label, Selected: o.Key == selected})
	}
	return out
}

// propertyHeading is "2 BHK Flat in Gomti Nagar", with the missing parts
// left out.
func propertyHeading(p api.Property) string {
	var parts []string
	if bhk := p.BHK.String(); bhk != "" {
		parts = append(parts, bhk+" BHK")
	}
	if p.SpaceType != "" {
		parts = append(parts, p.SpaceType)
	}
	head := strings.Join(parts, " ")
	if head == "" {
		head = "Property"
	}
	if p.Locality != "" {
		head += " in " + p.Locality
	}
	return head
}

func isNotFound(err error) bool {
	var se *api.ServerError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

func (a *App) handlePropertyDetail(c echo.Context) error {
	id := c.Param("id")
	st := Visitor(c)
	ctx := c.Request().Context()

	p, err := a.API.GetProperty(ctx, st.Token, id)
	if err != nil {
		if isNotFound(err) {
			return echo.ErrNotFound
		}
		return a.fail(c, err, failure{
			Fallback: "Failed to load property details",
			Redirect: "/property-listing",
		})
	}

	page := views.PropertyDetailPage{
		Chrome:      a.chrome(c, propertyHeading(p)),
		ID:          p.ID,
		Heading:     propertyHeading(p),
		Rent:        p.Rent.String(),
		Maintenance: p.Maintenance.String(),
		Address:     p.Address,
		Landmark:    p.Landmark,
		Owner:       strings.TrimSpace(p.FirstName + " " + p.LastName),
		Contact:     p.Contact,
		AltContact:  p.AltContact,
		Facts: []views.Fact{
			{Label: "Space Type", Value: p.SpaceType},
			{Label: "BHK", Value: p.BHK.String()},
			{Label: "Floor", Value: p.Floor.String()},
			{Label: "Area", Value: areaText(p.Area)},
			{Label: "Furnishing", Value: p.FurnishingType},
			{Label: "Washroom", Value: p.WashroomType},
			{Label: "Cooling", Value: p.Cooling},
			{Label: "Parking", Value: p.Parking},
			{Label: "Pets Allowed", Value: p.PetsAllowed},
		},
		Preference: p.Preference,
		Bachelors:  p.Bachelors,
		Amenities:  FilterEmpty(p.Amenities),
		Appliances: FilterEmpty(p.Appliances),
		About:      p.About,
	}
	for _, photo := range FilterEmpty(p.Photos) {
		page.Photos = append(page.Photos, a.API.AssetURL(photo))
	}
	if p.HasLocation() {
		at := geo.Coordinate{Lat: float64(p.Latitude), Lng: float64(p.Longitude)}
		page.MapJSON = geo.DetailMap(at, page.Heading).JSON()
	}
	if st.LoggedIn {
		page.Owned = a.ownsProperty(ctx, SessionID(c), st.Token, p.ID)
	}
	return Render(c, views.PropertyDetail(page))
}

func areaText(n api.Number) string {
	if s := n.String(); s != "" {
		return s + " sq ft"
	}
	return ""
}

// ownsProperty checks the visitor's listings, preferring the cached set.
// Failures read as not owned; the backend still guards edits.
func (a *App) ownsProperty(ctx context.Context, sid, token, id string) bool {
	if _, owned, ok := a.Listings.Cached(sid); ok {
		return owned[id]
	}
	mine, err := a.API.ListUserProperties(ctx, token)
	if err != nil {
		a.Logger.Debug("list own properties", "error", err)
		return false
	}
	for _, p := range mine {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (a *App) handleAddProperty(c echo.Context) error {
	if !Visitor(c).LoggedIn {
		a.flash(c, flashWarning, "Please log in before adding a property.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	f := a.Drafts.CreateProperty(SessionID(c))
	return c.Redirect(http.StatusSeeOther, draftURL(f.ID))
}

func (a *App) handleEditProperty(c echo.Context) error {
	st := Visitor(c)
	if !st.LoggedIn {
		a.flash(c, flashError, "Please login to edit properties")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	id := c.Param("id")
	f, err := a.Drafts.EditProperty(c.Request().Context(), SessionID(c), id, func(ctx context.Context) (api.Property, error) {
		return a.API.GetProperty(ctx, st.Token, id)
	})
	if err != nil {
		return a.fail(c, err, failure{
			Fallback:  "Failed to load property details",
			Forbidden: "You are not authorized to edit this property",
			Redirect:  "/property-listing",
		})
	}
	return c.Redirect(http.StatusSeeOther, draftURL(f.ID))
}

func (a *App) handleDeleteProperty(c echo.Context) error {
	st := Visitor(c)
	if !st.LoggedIn {
		a.flash(c, flashError, "Please login to edit properties")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	id := c.Param("id")
	if err := a.API.DeleteProperty(c.Request().Context(), st.Token, id); err != nil {
		return a.fail(c, err, failure{
			Fallback:  "Failed to delete property",
			Forbidden: "You are not authorized to edit this property",
			Redirect:  "/property/" + url.PathEscape(id),
		})
	}
	a.Listings.Invalidate(SessionID(c))
	a.flash(c, flashSuccess, "Property deleted successfully")
	return c.Redirect(http.StatusSeeOther, "/property-listing")
}

func draftURL(id string) string {
	return "/drafts/" + url.PathEscape(id)
}
