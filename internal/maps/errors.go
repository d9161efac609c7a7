package maps

import "errors"

// Failure reasons reported to clients.
const (
	ReasonServiceUnavailable = "service-unavailable"
	ReasonNoRoute            = "no-route"
	ReasonAmbiguousLocation  = "ambiguous-location"
)

var (
	// ErrServiceUnavailable is returned when the provider cannot be reached or refuses the request.
	ErrServiceUnavailable = errors.New("distance service unavailable")

	// ErrNoRoute is returned when no driving route connects the two locations.
	ErrNoRoute = errors.New("no route found")

	// ErrAmbiguousLocation is returned when a location cannot be resolved to a single place.
	ErrAmbiguousLocation = errors.New("ambiguous location")
)

// Reason returns the failure reason for err. Errors outside the
// resolution taxonomy are reported as service-unavailable.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNoRoute):
		return ReasonNoRoute
	case errors.Is(err, ErrAmbiguousLocation):
		return ReasonAmbiguousLocation
	default:
		return ReasonServiceUnavailable
	}
}

// IsResolutionFailure reports whether err belongs to the resolution taxonomy.
func IsResolutionFailure(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrNoRoute) ||
		errors.Is(err, ErrAmbiguousLocation)
}
