package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickerClickMovesMarkerOnly(t *testing.T) {
	p := NewPicker(Coordinate{})
	assert.Equal(t, Lucknow, p.Center)
	assert.Equal(t, Lucknow, p.Marker)
	assert.Equal(t, PickerZoom, p.Zoom)

	dest := Coordinate{Lat: 12.9716, Lng: 77.5946}
	got := p.Click(dest)
	assert.Equal(t, dest, got)
	assert.Equal(t, dest, p.Marker)
	assert.Equal(t, Lucknow, p.Center)
}

func TestPickerAcceptsAnyPoint(t *testing.T) {
	p := NewPicker(Lucknow)
	p.Click(Coordinate{Lat: -89.9, Lng: 179.9})
	assert.Equal(t, Coordinate{Lat: -89.9, Lng: 179.9}, p.Marker)
}

func TestParseCoordinate(t *testing.T) {
	c, err := ParseCoordinate(" 26.85 ", "80.95")
	require.NoError(t, err)
	assert.Equal(t, "26.850000", c.LatString())
	assert.Equal(t, "80.950000", c.LngString())

	_, err = ParseCoordinate("north", "80")
	assert.Error(t, err)
	_, err = ParseCoordinate("26", "")
	assert.Error(t, err)
}

func TestListingMapSkipsMissing(t *testing.T) {
	v := ListingMap([]Marker{
		{Coordinate: Coordinate{Lat: 17.4, Lng: 78.5}, Label: "a"},
		{Label: "no location"},
	})
	assert.Equal(t, Hyderabad, v.Center)
	assert.Equal(t, ListingZoom, v.Zoom)
	require.Len(t, v.Markers, 1)
	assert.Equal(t, "a", v.Markers[0].Label)
}

func TestMapViewJSON(t *testing.T) {
	v := NewPicker(Lucknow).View("/drafts/d1/location")
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(v.JSON()), &decoded))
	assert.Equal(t, "/drafts/d1/location", decoded["clickUrl"])
	assert.Equal(t, TileURL, decoded["tileUrl"])
	markers := decoded["markers"].([]any)
	require.Len(t, markers, 1)
	assert.Equal(t, 26.85, markers[0].(map[string]any)["lat"])
}
