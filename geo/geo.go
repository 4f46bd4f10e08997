// Package geo models the map used to place a listing: a fixed viewport and a
// marker that follows the user's clicks.
package geo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TileURL is the OpenStreetMap tile template used by every map.
const TileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"

// Attribution is shown in the map corner.
const Attribution = "&copy; OpenStreetMap contributors"

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var (
	// Lucknow is where a new listing's marker starts.
	Lucknow = Coordinate{Lat: 26.85, Lng: 80.95}
	// Hyderabad centres the listings overview map.
	Hyderabad = Coordinate{Lat: 17.3850, Lng: 78.4867}
)

const (
	// PickerZoom is the zoom of the location picker.
	PickerZoom = 13
	// ListingZoom is the zoom of the overview map.
	ListingZoom = 10
)

// IsZero reports whether c is the zero point, which the backend uses for
// "no location".
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// LatString renders the latitude with six decimals.
func (c Coordinate) LatString() string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64)
}

// LngString renders the longitude with six decimals.
func (c Coordinate) LngString() string {
	return strconv.FormatFloat(c.Lng, 'f', 6, 64)
}

func (c Coordinate) String() string {
	return c.LatString() + ", " + c.LngString()
}

// ParseCoordinate reads a lat/lng pair from form values.
func ParseCoordinate(lat, lng string) (Coordinate, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("latitude %q: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("longitude %q: %w", lng, err)
	}
	return Coordinate{Lat: la, Lng: ln}, nil
}

// Picker is the single-marker map on the property form. The viewport stays
// where it started; only the marker moves.
type Picker struct {
	Center Coordinate
	Marker Coordinate
	Zoom   int
}

// NewPicker centres the picker on at, with the marker there as well.
func NewPicker(at Coordinate) *Picker {
	if at.IsZero() {
		at = Lucknow
	}
	return &Picker{Center: at, Marker: at, Zoom: PickerZoom}
}

// Click moves the marker to c and returns the new location.
func (p *Picker) Click(c Coordinate) Coordinate {
	p.Marker = c
	return c
}

// Marker is one pin on a MapView.
type Marker struct {
	Coordinate
	Label string `json:"label,omitempty"`
	Href  string `json:"href,omitempty"`
}

// MapView is the JSON handed to the page script that draws a map.
type MapView struct {
	Center      Coordinate `json:"center"`
	Zoom        int        `json:"zoom"`
	TileURL     string     `json:"tileUrl"`
	Attribution string     `json:"attribution"`
	Markers     []Marker   `json:"markers"`
	// ClickURL, when set, makes the map a picker that posts clicks there.
	ClickURL string `json:"clickUrl,omitempty"`
}

// View renders the picker for the page script, posting clicks to clickURL.
func (p *Picker) View(clickURL string) MapView {
	return MapView{
		Center:      p.Center,
		Zoom:        p.Zoom,
		TileURL:     TileURL,
		Attribution: Attribution,
		Markers:     []Marker{{Coordinate: p.Marker}},
		ClickURL:    clickURL,
	}
}

// ListingMap builds the overview map; points at the zero coordinate are
// skipped.
func ListingMap(markers []Marker) MapView {
	kept := make([]Marker, 0, len(markers))
	for _, m := range markers {
		if m.IsZero() {
			continue
		}
		kept = append(kept, m)
	}
	return MapView{
		Center:      Hyderabad,
		Zoom:        ListingZoom,
		TileURL:     TileURL,
		Attribution: Attribution,
		Markers:     kept,
	}
}

// DetailMap shows a single listing's location.
func DetailMap(at Coordinate, label string) MapView {
	return MapView{
		Center:      at,
		Zoom:        PickerZoom,
		TileURL:     TileURL,
		Attribution: Attribution,
		Markers:     []Marker{{Coordinate: at, Label: label}},
	}
}

// JSON encodes v for a data attribute. Encoding a MapView cannot fail.
func (v MapView) JSON() string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
