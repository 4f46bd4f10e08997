package draft

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/geo"
)

// PropertyDraft is a listing being written. Scalar values stay strings
// until submit.
type PropertyDraft struct {
	values     map[string]string
	Amenities  OrderedSet
	Appliances OrderedSet
	Location   geo.Coordinate
}

// NewPropertyDraft returns an empty draft with field defaults and the
// default location.
func NewPropertyDraft() *PropertyDraft {
	d := &PropertyDraft{values: make(map[string]string, len(PropertyFields)), Location: geo.Lucknow}
	for _, f := range PropertyFields {
		d.values[f.Name] = f.Default
	}
	return d
}

// PropertyDraftFrom seeds a draft from a stored listing.
func PropertyDraftFrom(p api.Property) *PropertyDraft {
	d := NewPropertyDraft()
	seed := map[string]string{
		"firstName":      p.FirstName,
		"lastName":       p.LastName,
		"contact":        p.Contact,
		"altContact":     p.AltContact,
		"locality":       p.Locality,
		"address":        p.Address,
		"landmark":       p.Landmark,
		"spaceType":      p.SpaceType,
		"bhk":            p.BHK.String(),
		"floor":          p.Floor.String(),
		"area":           p.Area.String(),
		"furnishingType": p.FurnishingType,
		"washroomType":   p.WashroomType,
		"cooling":        p.Cooling,
		"parking":        p.Parking,
		"petsAllowed":    p.PetsAllowed,
		"preference":     p.Preference,
		"bachelors":      p.Bachelors,
		"rent":           p.Rent.String(),
		"maintenance":    p.Maintenance.String(),
		"about":          p.About,
	}
	for name, v := range seed {
		if v != "" {
			d.values[name] = v
		}
	}
	d.Amenities = NewOrderedSet(p.Amenities...)
	d.Appliances = NewOrderedSet(p.Appliances...)
	if p.HasLocation() {
		d.Location = geo.Coordinate{Lat: float64(p.Latitude), Lng: float64(p.Longitude)}
	}
	return d
}

// Get returns the current value of a scalar field.
func (d *PropertyDraft) Get(name string) string {
	return d.values[name]
}

// Set assigns a scalar field. Unknown names are an error.
func (d *PropertyDraft) Set(name, value string) error {
	if _, ok := LookupField(name); !ok {
		return fmt.Errorf("unknown property field %q", name)
	}
	d.values[name] = value
	return nil
}

// Toggle flips membership in the amenities or appliances set and reports
// whether value is now selected.
func (d *PropertyDraft) Toggle(set, value string) (bool, error) {
	switch set {
	case "amenities":
		if !contains(Amenities, value) {
			return false, fmt.Errorf("unknown amenity %q", value)
		}
		return d.Amenities.Toggle(value), nil
	case "appliances":
		if !contains(Appliances, value) {
			return false, fmt.Errorf("unknown appliance %q", value)
		}
		return d.Appliances.Toggle(value), nil
	default:
		return false, fmt.Errorf("unknown set %q", set)
	}
}

// Required lists the names of fields that must be non-empty.
func (d *PropertyDraft) Required() []string {
	var out []string
	for _, f := range PropertyFields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Missing lists required fields that are still blank.
func (d *PropertyDraft) Missing() []string {
	var out []string
	for _, name := range d.Required() {
		if strings.TrimSpace(d.values[name]) == "" {
			out = append(out, name)
		}
	}
	return out
}

// Validate returns a ValidationError when the draft cannot be submitted.
func (d *PropertyDraft) Validate() error {
	if len(d.Missing()) > 0 {
		return api.Invalid("Please fill all required fields")
	}
	for _, f := range PropertyFields {
		v := strings.TrimSpace(d.values[f.Name])
		if !f.Numeric || v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return api.Invalid("%s must be a non-negative number", f.Label)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, it := range list {
		if it == v {
			return true
		}
	}
	return false
}
