package models

// TripRequest is the raw planning request as submitted by the client.
// It is immutable once a session has been created.
type TripRequest struct {
	Destination string  `json:"destination" binding:"required"`
	Dates       string  `json:"dates" binding:"required"`
	BudgetUSD   float64 `json:"budget" binding:"required"`
	Travelers   string  `json:"travelers" binding:"required"`
	Style       string  `json:"style"`
	PaymentRef  string  `json:"payment_token,omitempty"` // payment intent reference (Stripe)
}

// EnrichedTrip is the normalized form of a TripRequest produced by the
// preference enrichment stage. The embedded request keeps every original
// field intact.
type EnrichedTrip struct {
	TripRequest

	DestinationCity     string   `json:"destination_city"`
	DestinationCountry  string   `json:"destination_country"`
	StartDate           string   `json:"start_date"` // ISO 8601 date
	EndDate             string   `json:"end_date"`
	DurationNights      int      `json:"duration_nights"`
	TravelerCount       int      `json:"traveler_count"`
	StyleTags           []string `json:"style_tags"`
	PreferredActivities []string `json:"preferred_activities"`
}

// StyleTags enumerates the recognized trip style categories. Style input
// matching none of these yields an empty tag set, never an error.
var StyleTags = []string{"beach", "culture", "adventure", "food", "wellness", "family", "luxury", "budget"}

// FlightOption is one candidate or selected flight.
type FlightOption struct {
	Airline     string  `json:"airline"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	PriceUSD    float64 `json:"price_usd"`
	Cabin       string  `json:"cabin"`
}

// HotelOption is one candidate or selected hotel for the full stay.
type HotelOption struct {
	Name             string   `json:"name"`
	Location         string   `json:"location"`
	Stars            int      `json:"stars"`
	PricePerNightUSD float64  `json:"price_per_night_usd"`
	Features         []string `json:"features"`
	TotalUSD         float64  `json:"total_usd"`
}

// DayPlan is one day of the curated itinerary.
type DayPlan struct {
	Day              int      `json:"day"`
	Title            string   `json:"title"`
	Activities       []string `json:"activities"`
	EstimatedCostUSD float64  `json:"estimated_cost_usd"`
}

// Activity is an entry in a destination's activity pool, as returned by
// the activity search provider.
type Activity struct {
	Name          string   `json:"name"`
	Tags          []string `json:"tags"`
	CostUSD       float64  `json:"cost_usd"`
	DurationHours float64  `json:"duration_hours"`
}

// PlanReview is the reviewer verdict attached to a finished itinerary.
type PlanReview struct {
	ConfidenceScore float64  `json:"confidence_score"`
	Issues          []string `json:"issues"`
	Suggestions     []string `json:"suggestions"`
	Approved        bool     `json:"approved"`
}

// TripItinerary is the assembled, cost-reconciled output of the pipeline.
type TripItinerary struct {
	Destination        string         `json:"destination"`
	Dates              string         `json:"dates"`
	Flights            []FlightOption `json:"flights"`
	Hotels             []HotelOption  `json:"hotels"`
	DayPlans           []DayPlan      `json:"day_plans"`
	TotalEstimatedUSD  float64        `json:"total_estimated_usd"`
	BudgetRemainingUSD float64        `json:"budget_remaining_usd"`
	ChangesSummary     string         `json:"changes_summary,omitempty"`
	Review             *PlanReview    `json:"review,omitempty"`
}
