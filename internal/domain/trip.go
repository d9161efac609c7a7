package domain

import "time"

// DateLayout is the calendar date format used for trip dates.
const DateLayout = "2006-01-02"

// Trip represents one recorded journey in the trip log.
// The JSON tags define the persisted slot layout.
type Trip struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	StartLocation string  `json:"startLocation"`
	EndLocation   string  `json:"endLocation"`
	Distance      float64 `json:"distance"` // In kilometers, fixed at creation
	Comment       string  `json:"comment"`
}

// TotalDistance returns the sum of distances over trips.
func TotalDistance(trips []Trip) float64 {
	var total float64
	for _, t := range trips {
		total += t.Distance
	}
	return total
}

// ValidDate reports whether s is a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
