package service

import "errors"

var (
	// ErrInvalidStartLocation is returned when the start location is empty.
	ErrInvalidStartLocation = errors.New("invalid start location")

	// ErrInvalidEndLocation is returned when the end location is empty.
	ErrInvalidEndLocation = errors.New("invalid end location")

	// ErrInvalidDate is returned when a trip date is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidDistance is returned when a distance is negative or not a finite number.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrDuplicateTripID is returned when a trip with the same ID is already stored.
	ErrDuplicateTripID = errors.New("duplicate trip id")

	// ErrSubmissionPending is returned when an identical submission is still being resolved.
	ErrSubmissionPending = errors.New("submission pending")

	// ErrResolutionTimeout is returned when the distance resolver does not answer in time.
	ErrResolutionTimeout = errors.New("distance resolution timed out")
)
