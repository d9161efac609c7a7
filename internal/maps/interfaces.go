package maps

import "context"

// DistanceResolver converts two free-text locations into a driving distance.
type DistanceResolver interface {
	// Distance returns the driving distance in kilometers.
	Distance(ctx context.Context, origin, destination string) (float64, error)
}

// PlaceAutocompleter suggests places for partial input.
type PlaceAutocompleter interface {
	// Autocomplete returns candidate places in provider order.
	Autocomplete(ctx context.Context, input string) ([]Suggestion, error)

	// FormattedAddress resolves a chosen suggestion to its formatted address.
	FormattedAddress(ctx context.Context, placeID string) (string, error)
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	PlaceID     string
	Description string
}

// Ensure concrete types implement interfaces.
var (
	_ DistanceResolver   = (*GoogleClient)(nil)
	_ PlaceAutocompleter = (*GoogleClient)(nil)
	_ DistanceResolver   = (*MockClient)(nil)
	_ PlaceAutocompleter = (*MockClient)(nil)
)
