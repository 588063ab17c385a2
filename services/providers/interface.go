package providers

import (
	"context"

	"vacaplan/models"
)

// FlightQuery carries the parameters for a flight search.
type FlightQuery struct {
	Origin      string
	Destination string
	Date        string
	Travelers   int
	BudgetUSD   float64
}

// HotelQuery carries the parameters for a hotel search.
type HotelQuery struct {
	Destination string
	CheckIn     string
	CheckOut    string
	Travelers   int
	StyleTags   []string
}

// CalendarProvider reports which dates in a range are free in the user's
// calendar. Both endpoints are inclusive.
type CalendarProvider interface {
	FreeDates(ctx context.Context, startDate, endDate string) ([]string, error)
}

// FlightProvider returns candidate flight offers for a query.
type FlightProvider interface {
	Search(ctx context.Context, q FlightQuery) ([]models.FlightOption, error)
}

// HotelProvider returns candidate hotels for a query.
type HotelProvider interface {
	Search(ctx context.Context, q HotelQuery) ([]models.HotelOption, error)
}

// ActivityProvider returns a destination's candidate activity pool, ranked
// for the given style tags.
type ActivityProvider interface {
	Suggestions(ctx context.Context, destination string, styleTags []string, durationDays int) ([]models.Activity, error)
}
