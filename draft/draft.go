// Package draft is the record editor behind the property and blog forms. A
// Form owns one draft, its photo set and map picker, and walks the state
// machine Loading → Ready → Submitting → Success or Failed. Forms live in a
// Registry for as long as the browser keeps them open.
package draft

import (
	"github.com/eringen/tolet/geo"
	"github.com/eringen/tolet/photoset"
)

// Kind is the record type a draft builds.
type Kind int

const (
	KindProperty Kind = iota
	KindBlog
)

func (k Kind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindBlog:
		return "blog"
	default:
		return "unknown"
	}
}

// CoverLimit is the blog cover capacity.
const CoverLimit = 1

// Draft is the mutable aggregate a Form guards. Exactly one of Property and
// Blog is set, matching Kind. Picker is nil for blogs.
type Draft struct {
	Kind     Kind
	Mode     photoset.Mode
	Property *PropertyDraft
	Blog     *BlogDraft
	Photos   *photoset.Set
	Picker   *geo.Picker
}

func newPropertyDraft(mode photoset.Mode, pd *PropertyDraft, existing []string) *Draft {
	return &Draft{
		Kind:     KindProperty,
		Mode:     mode,
		Property: pd,
		Photos:   photoset.New(mode, existing),
		Picker:   geo.NewPicker(pd.Location),
	}
}

func newBlogDraft(mode photoset.Mode, bd *BlogDraft, cover string) *Draft {
	var existing []string
	if cover != "" {
		existing = []string{cover}
	}
	return &Draft{
		Kind:   KindBlog,
		Mode:   mode,
		Blog:   bd,
		Photos: photoset.NewWithLimit(mode, CoverLimit, existing),
	}
}

// Editing reports whether the draft updates an existing record.
func (d *Draft) Editing() bool {
	return d.Mode == photoset.Edit
}

// Click moves the property location to c.
func (d *Draft) Click(c geo.Coordinate) {
	if d.Picker == nil || d.Property == nil {
		return
	}
	d.Property.Location = d.Picker.Click(c)
}

// Validate runs the kind's submit checks.
func (d *Draft) Validate() error {
	switch d.Kind {
	case KindBlog:
		return d.Blog.Validate(d.Photos.Count() > 0, d.Editing())
	default:
		return d.Property.Validate()
	}
}
