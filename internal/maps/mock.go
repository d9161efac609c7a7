package maps

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// roadFactor approximates driving distance from great-circle distance.
const roadFactor = 1.2

type place struct {
	address  string
	lat, lon float64
}

// mockPlaces is the fixed location set served by MockClient.
var mockPlaces = []place{
	{address: "Berlin, Germany", lat: 52.5200, lon: 13.4050},
	{address: "Munich, Germany", lat: 48.1351, lon: 11.5820},
	{address: "Hamburg, Germany", lat: 53.5511, lon: 9.9937},
	{address: "Cologne, Germany", lat: 50.9375, lon: 6.9603},
	{address: "Frankfurt, Germany", lat: 50.1109, lon: 8.6821},
}

// MockClient is a deterministic, offline DistanceResolver and PlaceAutocompleter
// over a small set of German cities.
type MockClient struct {
	places []place
}

// NewMockClient creates a MockClient with the built-in locations.
func NewMockClient() *MockClient {
	return &MockClient{places: mockPlaces}
}

// Distance returns the approximate driving distance between two known cities.
func (m *MockClient) Distance(ctx context.Context, origin, destination string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	from, ok := m.lookup(origin)
	if !ok {
		return 0, fmt.Errorf("%w: unknown origin %q", ErrAmbiguousLocation, origin)
	}
	to, ok := m.lookup(destination)
	if !ok {
		return 0, fmt.Errorf("%w: unknown destination %q", ErrAmbiguousLocation, destination)
	}

	km := haversineKm(from.lat, from.lon, to.lat, to.lon) * roadFactor
	return math.Round(km*10) / 10, nil
}

// Autocomplete returns every known address containing input, ignoring case.
func (m *MockClient) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	needle := strings.ToLower(strings.TrimSpace(input))
	out := []Suggestion{}
	if needle == "" {
		return out, nil
	}
	for _, p := range m.places {
		if strings.Contains(strings.ToLower(p.address), needle) {
			out = append(out, Suggestion{PlaceID: p.address, Description: p.address})
		}
	}
	return out, nil
}

// FormattedAddress returns the canonical address for a known place id.
func (m *MockClient) FormattedAddress(ctx context.Context, placeID string) (string, error) {
	p, ok := m.lookup(placeID)
	if !ok {
		return "", fmt.Errorf("%w: unknown place %q", ErrAmbiguousLocation, placeID)
	}
	return p.address, nil
}

// lookup matches either the full address or the bare city name.
func (m *MockClient) lookup(s string) (place, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, p := range m.places {
		full := strings.ToLower(p.address)
		city, _, _ := strings.Cut(full, ",")
		if key == full || key == city {
			return p, true
		}
	}
	return place{}, false
}

// haversineKm computes the great-circle distance in kilometers between two WGS84 points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
