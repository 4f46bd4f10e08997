package tolet

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/markdown"
	"github.com/eringen/tolet/views"
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	rePhone = regexp.MustCompile(`^\d{10}$`)
)

// roles is the register dropdown: backend value and label.
var roles = [][2]string{
	{"admin", "Admin"},
	{"moderator", "Content Creator"},
	{"user", "User"},
}

func roleOptions(selected string) []views.Option {
	out := make([]views.Option, 0, len(roles))
	for _, r := range roles {
		out = append(out, views.Option{Value: r[0], Label: r[1], Selected: r[0] == selected})
	}
	return out
}

func validRole(role string) bool {
	for _, r := range roles {
		if r[0] == role {
			return true
		}
	}
	return false
}

func validateLogin(in api.Credentials) error {
	if !reEmail.MatchString(in.Email) {
		return api.Invalid("Enter a valid email")
	}
	if utf8.RuneCountInString(in.Password) < 8 {
		return api.Invalid("Password must be at least 8 characters long")
	}
	return nil
}

func validateRegistration(in api.Registration) error {
	if n := utf8.RuneCountInString(in.FirstName); n < 2 || n > 30 {
		return api.Invalid("First name must be between 2 and 30 characters")
	}
	if n := utf8.RuneCountInString(in.LastName); n < 2 || n > 30 {
		return api.Invalid("Last name must be between 2 and 30 characters")
	}
	if !reEmail.MatchString(in.Email) {
		return api.Invalid("Enter a valid email")
	}
	if utf8.RuneCountInString(in.Password) < 8 {
		return api.Invalid("Password must be at least 8 characters long")
	}
	if !rePhone.MatchString(in.Phone) {
		return api.Invalid("Phone number must be 10 digits")
	}
	if !validRole(in.Role) {
		return api.Invalid("Please select a role")
	}
	if utf8.RuneCountInString(in.Answer) < 2 {
		return api.Invalid("Security answer is too short")
	}
	return nil
}

func validateRecovery(in api.Recovery) error {
	if !reEmail.MatchString(in.Email) {
		return api.Invalid("Enter a valid email")
	}
	if utf8.RuneCountInString(in.Answer) < 2 {
		return api.Invalid("Security answer is too short")
	}
	return nil
}

func validateReset(password, confirm string) error {
	if utf8.RuneCountInString(password) < 8 {
		return api.Invalid("Password must be at least 8 characters")
	}
	if password != confirm {
		return api.Invalid("Passwords do not match")
	}
	return nil
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// formatDate renders t like "Jan 2, 2006"; zero times render empty.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// cardAmenities is how many amenity chips a listing tile shows.
const cardAmenities = 3

func (a *App) propertyCard(p api.Property, owned bool) views.PropertyCard {
	card := views.PropertyCard{
		ID:             p.ID,
		SpaceType:      p.SpaceType,
		Locality:       p.Locality,
		Address:        p.Address,
		Rent:           p.Rent.String(),
		BHK:            p.BHK.String(),
		Floor:          p.Floor.String(),
		FurnishingType: p.FurnishingType,
		Area:           p.Area.String(),
		Owner:          strings.TrimSpace(p.FirstName + " " + p.LastName),
		Contact:        p.Contact,
		Owned:          owned,
	}
	if len(p.Photos) > 0 {
		card.Photo = a.API.AssetURL(p.Photos[0])
	}
	amenities := FilterEmpty(p.Amenities)
	if len(amenities) > cardAmenities {
		card.MoreAmenities = len(amenities) - cardAmenities
		amenities = amenities[:cardAmenities]
	}
	card.Amenities = amenities
	return card
}

// excerptLen is the blog card preview length in characters.
const excerptLen = 150

func (a *App) blogCard(b api.Blog) views.BlogCard {
	card := views.BlogCard{
		ID:      b.ID,
		Title:   b.Title,
		Excerpt: markdown.Excerpt(b.Content, excerptLen),
		Author:  b.AuthorName(),
		Date:    formatDate(b.Created()),
		Tags:    views.FirstTags(FilterEmpty(b.Tags), 3),
		Views:   b.Views,
		Likes:   b.Likes,
	}
	if b.CoverImage != "" {
		card.Cover = a.API.AssetURL(b.CoverImage)
	}
	return card
}

// queryInt parses a positive integer query value, falling back to def.
func queryInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}
