package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/tolet/listing"
)

// Flash is one notification shown at the top of a page.
type Flash struct {
	Kind    string // "success", "error" or "warning"
	Message string
}

// Chrome carries what the layout needs on every page.
type Chrome struct {
	SiteName   string
	Title      string
	Path       string
	CSRF       string
	LoggedIn   bool
	UserName   string
	CanPublish bool
	Flashes    []Flash
}

// Option is one <option> of a select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

type LoginPage struct {
	Chrome
	Email string
}

type RegisterPage struct {
	Chrome
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Answer    string
	Roles     []Option
}

type ForgotPage struct {
	Chrome
	Email string
}

type ResetPage struct {
	Chrome
	Token string
}

type HomePage struct {
	Chrome
}

// PropertyCard is one listing tile.
type PropertyCard struct {
	ID             string
	SpaceType      string
	Locality       string
	Address        string
	Rent           string
	Photo          string
	BHK            string
	Floor          string
	FurnishingType string
	Area           string
	Owner          string
	Contact        string
	Amenities      []string
	MoreAmenities  int
	Owned          bool
}

type PropertyListPage struct {
	Chrome
	Cards       []PropertyCard
	SortOptions []Option
	MapJSON     string
}

// Fact is a labelled value on the detail page.
type Fact struct {
	Label string
	Value string
}

type PropertyDetailPage struct {
	Chrome
	ID          string
	Heading     string
	Rent        string
	Maintenance string
	Address     string
	Landmark    string
	Owner       string
	Contact     string
	AltContact  string
	Photos      []string
	Facts       []Fact
	Preference  string
	Bachelors   string
	Amenities   []string
	Appliances  []string
	About       string
	MapJSON     string
	Owned       bool
}

// FieldView is one scalar input on the property form.
type FieldView struct {
	Name     string
	Label    string
	Input    string
	Value    string
	Required bool
	Options  []Option
}

// FormSection groups fields under a heading.
type FormSection struct {
	Title  string
	Fields []FieldView
}

// Toggle is one amenity or appliance button.
type Toggle struct {
	Set   string
	Value string
	On    bool
}

// ExistingPhoto is a stored photo on an edit form.
type ExistingPhoto struct {
	ID     string
	URL    string
	Marked bool
}

// StagedPhoto is an upload not yet sent.
type StagedPhoto struct {
	Index int
	Name  string
	URL   string
}

type PropertyFormPage struct {
	Chrome
	DraftID    string
	Editing    bool
	RecordID   string
	Sections   []FormSection
	Amenities  []Toggle
	Appliances []Toggle
	Existing   []ExistingPhoto
	Staged     []StagedPhoto
	Count      int
	Limit      int
	Latitude   string
	Longitude  string
	MapJSON    string
}

// BlogCard is one post tile.
type BlogCard struct {
	ID      string
	Title   string
	Excerpt string
	Cover   string
	Author  string
	Date    string
	Tags    []string
	Views   int
	Likes   int
}

type BlogListPage struct {
	Chrome
	Cards      []BlogCard
	Sort       string
	Page       int
	TotalPages int
	Links      []listing.PageLink
	HasPrev    bool
	HasNext    bool
}

type BlogDetailPage struct {
	Chrome
	ID     string
	Title  string
	Cover  string
	Author string
	Date   string
	Tags   []string
	Body   templ.Component
	Views  int
	Likes  int
	Liked  bool
	Owned  bool
}

type BlogFormPage struct {
	Chrome
	DraftID     string
	Editing     bool
	RecordID    string
	Title       string
	Content     string
	Tags        []string
	CoverURL    string
	CoverStaged bool
}

// ErrorPage backs the 404 and 500 screens.
type ErrorPage struct {
	Chrome
	Code    int
	Message string
}
