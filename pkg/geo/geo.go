// Package geo turns wireless scan results into coordinates and builds map
// links for them.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrInsufficientData is returned when a scan has too few access points to
// be resolved.
var ErrInsufficientData = errors.New("insufficient scan data")

// MinAccessPoints is the smallest scan the resolver accepts.
const MinAccessPoints = 2

// AccessPoint is one entry of a wireless scan as reported by the agent.
type AccessPoint struct {
	BSSID string `json:"bssid"`
	SSID  string `json:"ssid"`
	Level int    `json:"level"`
}

// Location is a resolved position. Accuracy is a radius in metres.
type Location struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

func (l Location) String() string {
	return fmt.Sprintf("Latitude: %s, Longitude: %s, Accuracy: %sm",
		FormatCoord(l.Lat), FormatCoord(l.Lng), FormatCoord(l.Accuracy))
}

// Resolver resolves a wireless scan to a location.
type Resolver interface {
	Resolve(ctx context.Context, aps []AccessPoint) (Location, error)
}

const (
	DefaultMapsURL    = "https://maps.google.com/maps"
	DefaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
)

// Links builds operator-facing URLs for a coordinate pair.
type Links struct {
	MapsURL    string
	GeocodeURL string
}

// DefaultLinks points at Google Maps.
func DefaultLinks() Links {
	return Links{MapsURL: DefaultMapsURL, GeocodeURL: DefaultGeocodeURL}
}

// Map returns a link that shows the position on a map.
func (l Links) Map(lat, lng float64) string {
	base := l.MapsURL
	if base == "" {
		base = DefaultMapsURL
	}
	return base + "?q=" + FormatCoord(lat) + "," + FormatCoord(lng)
}

// Geocode returns a reverse-geocoding link for the position.
func (l Links) Geocode(lat, lng float64) string {
	base := l.GeocodeURL
	if base == "" {
		base = DefaultGeocodeURL
	}
	q := url.Values{}
	q.Set("latlng", FormatCoord(lat)+","+FormatCoord(lng))
	q.Set("sensor", "true")
	return base + "?" + q.Encode()
}

// FormatCoord prints a float with the shortest exact representation.
func FormatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
