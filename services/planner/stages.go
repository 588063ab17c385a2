package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"vacaplan/models"
	"vacaplan/services/intelligence"
	"vacaplan/services/providers"
)

// enrichmentFields is the JSON object the reasoning service returns for the
// preference enrichment task. The response also carries a budget_usd echo;
// the pipeline budgets off the immutable request, so it is not decoded.
type enrichmentFields struct {
	DestinationCity     string   `json:"destination_city"`
	DestinationCountry  string   `json:"destination_country"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	DurationNights      int      `json:"duration_nights"`
	TravelerCount       int      `json:"traveler_count"`
	StyleTags           []string `json:"style_tags"`
	PreferredActivities []string `json:"preferred_activities"`
}

// optimizationResult is the JSON object the reasoning service returns when
// asked to bring a plan back under budget.
type optimizationResult struct {
	OptimizedDayPlans []models.DayPlan     `json:"optimized_day_plans"`
	OptimizedHotels   []models.HotelOption `json:"optimized_hotels"`
	SavingsUSD        float64              `json:"savings_usd"`
	ChangesSummary    string               `json:"changes_summary"`
}

func (o *Orchestrator) runPreferenceParser(ctx context.Context, st *pipelineState) (stageUpdate, error) {
	tripJSON, err := json.Marshal(st.trip)
	if err != nil {
		return stageUpdate{}, err
	}

	user := fmt.Sprintf(`Given this trip request, return a JSON object with these fields:
- destination_city (string)
- destination_country (string)
- start_date (ISO 8601)
- end_date (ISO 8601)
- duration_nights (int)
- budget_usd (float)
- traveler_count (int)
- style_tags (list of strings from: beach, culture, adventure, food, wellness, family, luxury, budget)
- preferred_activities (list of strings, inferred from style)

Trip request: %s`, tripJSON)

	var fields enrichmentFields
	if err := o.Reasoner.GenerateJSON(ctx, intelligence.SystemPreferenceParser, user, &fields); err != nil {
		return stageUpdate{}, err
	}

	enriched := models.EnrichedTrip{
		TripRequest:         st.trip,
		DestinationCity:     fields.DestinationCity,
		DestinationCountry:  fields.DestinationCountry,
		StartDate:           fields.StartDate,
		EndDate:             fields.EndDate,
		DurationNights:      fields.DurationNights,
		TravelerCount:       fields.TravelerCount,
		StyleTags:           knownStyleTags(fields.StyleTags),
		PreferredActivities: fields.PreferredActivities,
	}
	if enriched.DurationNights < 1 {
		enriched.DurationNights = 7
	}
	if enriched.TravelerCount < 1 {
		enriched.TravelerCount = 2
	}
	return stageUpdate{enriched: &enriched}, nil
}

func (o *Orchestrator) runCalendarChecker(ctx context.Context, st *pipelineState) (stageUpdate, error) {
	slots, err := o.Calendar.FreeDates(ctx, st.enriched.StartDate, st.enriched.EndDate)
	if err != nil {
		return stageUpdate{}, err
	}
	return stageUpdate{slots: slots}, nil
}

func (o *Orchestrator) runFlightSearcher(ctx context.Context, st *pipelineState) (stageUpdate, error) {
	candidates, err := o.Flights.Search(ctx, providers.FlightQuery{
		Origin:      o.DefaultOrigin,
		Destination: destinationOf(st),
		Date:        st.enriched.StartDate,
		Travelers:   st.enriched.TravelerCount,
		BudgetUSD:   st.trip.BudgetUSD,
	})
	if err != nil {
		return stageUpdate{}, err
	}

	optionsJSON, err := json.Marshal(candidates)
	if err != nil {
		return stageUpdate{}, err
	}
	user := fmt.Sprintf(`From these options, return the top 2 as a JSON list. Each item: airline, origin, destination, departure, arrival, price_usd, cabin.

Options: %s`, optionsJSON)

	var selected []models.FlightOption
	if err := o.Reasoner.GenerateJSON(ctx, intelligence.SystemFlightAnalyst, user, &selected); err != nil {
		return stageUpdate{}, err
	}
	if len(selected) > 2 {
		selected = selected[:2]
	}
	return stageUpdate{flights: selected}, nil
}

func (o *Orchestrator) runHotelSearcher(ctx context.Context, st *pipelineState) (stageUpdate, error) {
	candidates, err := o.Hotels.Search(ctx, providers.HotelQuery{
		Destination: destinationOf(st),
		CheckIn:     st.enriched.StartDate,
		CheckOut:    st.enriched.EndDate,
		Travelers:   st.enriched.TravelerCount,
		StyleTags:   st.enriched.StyleTags,
	})
	if err != nil {
		return stageUpdate{}, err
	}

	optionsJSON, err := json.Marshal(candidates)
	if err != nil {
		return stageUpdate{}, err
	}
	user := fmt.Sprintf(`Trip style tags: %v
Total budget: $%.2f USD
Duration: %d nights

From these options, return the top 2 as a JSON list. Each item: name, location, stars, price_per_night_usd, features (list), total_usd.

Options: %s`, st.enriched.StyleTags, st.trip.BudgetUSD, st.enriched.DurationNights, optionsJSON)

	var selected []models.HotelOption
	if err := o.Reasoner.GenerateJSON(ctx, intelligence.SystemHotelCurator, user, &selected); err != nil {
		return stageUpdate{}, err
	}
	if len(selected) > 2 {
		selected = selected[:2]
	}
	return stageUpdate{hotels: selected}, nil
}

func (o *Orchestrator) runActivityCurator(ctx context.Context, st *pipelineState) (stageUpdate, error) {
	nights := st.enriched.DurationNights
	pool, err := o.Activities.Suggestions(ctx, destinationOf(st), st.enriched.StyleTags, nights)
	if err != nil {
		return stageUpdate{}, err
	}

	poolJSON, err := json.Marshal(pool)
	if err != nil {
		return stageUpdate{}, err
	}
	locations := make([]string, 0, len(st.hotels))
	for _, h := range st.hotels {
		locations = append(locations, h.Location)
	}
	user := fmt.Sprintf(`Create a %d-day itinerary for %s.
Style: %v
Hotels located at: %v

Return a JSON list of %d objects, each with:
- day (int, 1-indexed)
- title (string, evocative day theme)
- activities (list of 3-4 activity strings)
- estimated_cost_usd (float, realistic daily spend per person)

Activities pool: %s`, nights, st.trip.Destination, st.enriched.StyleTags, locations, nights, poolJSON)

	var dayPlans []models.DayPlan
	if err := o.Reasoner.GenerateJSON(ctx, intelligence.SystemItineraryPlanner, user, &dayPlans); err != nil {
		return stageUpdate{}, err
	}
	return stageUpdate{dayPlans: dayPlans}, nil
}

func (o *Orchestrator) runBudgetOptimizer(ctx context.Context, st *pipelineState) (stageUpdate, error) {
	budget := st.trip.BudgetUSD
	costs := CalculateTotal(st.flights, st.hotels, st.dayPlans)

	if costs.WithinBudget(budget) {
		// Already affordable; hotels and day plans pass through untouched.
		itinerary := buildItinerary(st, st.hotels, st.dayPlans, costs.TotalUSD, budget, "")
		return stageUpdate{itinerary: &itinerary}, nil
	}

	plansJSON, err := json.Marshal(st.dayPlans)
	if err != nil {
		return stageUpdate{}, err
	}
	hotelsJSON, err := json.Marshal(st.hotels)
	if err != nil {
		return stageUpdate{}, err
	}
	user := fmt.Sprintf(`Budget: $%.2f USD
Current total: $%.2f USD (over by $%.2f)

Flights cost: $%.2f
Hotels cost: $%.2f
Activities cost: $%.2f

Return a JSON object with:
- optimized_day_plans: adjusted day plans list (same schema)
- optimized_hotels: adjusted hotels list (same schema)
- savings_usd: float
- changes_summary: string describing what was changed

Current day plans: %s
Current hotels: %s`,
		budget, costs.TotalUSD, costs.Overage(budget),
		costs.FlightsUSD, costs.HotelsUSD, costs.ActivitiesUSD,
		plansJSON, hotelsJSON)

	var optimized optimizationResult
	if err := o.Reasoner.GenerateJSON(ctx, intelligence.SystemBudgetOptimizer, user, &optimized); err != nil {
		return stageUpdate{}, err
	}

	hotels := st.hotels
	dayPlans := st.dayPlans
	if len(optimized.OptimizedHotels) > 0 {
		hotels = optimized.OptimizedHotels
	}
	if len(optimized.OptimizedDayPlans) > 0 {
		dayPlans = optimized.OptimizedDayPlans
	}

	// The optimizer's claimed savings are trusted as-is; the revised lists
	// are not re-summed. The review stage is the coherence backstop.
	newTotal := costs.TotalUSD - optimized.SavingsUSD
	itinerary := buildItinerary(st, hotels, dayPlans, newTotal, budget, optimized.ChangesSummary)
	return stageUpdate{hotels: hotels, dayPlans: dayPlans, itinerary: &itinerary}, nil
}

func (o *Orchestrator) runPlanReviewer(ctx context.Context, st *pipelineState) (stageUpdate, error) {
	if st.itinerary == nil {
		return stageUpdate{errorNote: "no itinerary to review"}, nil
	}

	itineraryJSON, err := json.Marshal(st.itinerary)
	if err != nil {
		return stageUpdate{}, err
	}
	user := fmt.Sprintf(`Review this itinerary and return a JSON object with:
- confidence_score: float 0.0-1.0
- issues: list of strings (logical problems found, empty list if none)
- suggestions: list of strings (optional improvements)
- approved: bool (true if confidence_score >= 0.7)

Itinerary: %s`, itineraryJSON)

	var review models.PlanReview
	if err := o.Reasoner.GenerateJSON(ctx, intelligence.SystemPlanReviewer, user, &review); err != nil {
		return stageUpdate{}, err
	}
	// The approval flag is derived from the score threshold, whatever the
	// model claimed.
	review.Approved = review.ConfidenceScore >= 0.7

	reviewed := *st.itinerary
	reviewed.Review = &review
	return stageUpdate{itinerary: &reviewed}, nil
}

func buildItinerary(st *pipelineState, hotels []models.HotelOption, dayPlans []models.DayPlan, total, budget float64, changes string) models.TripItinerary {
	return models.TripItinerary{
		Destination:        st.trip.Destination,
		Dates:              st.trip.Dates,
		Flights:            st.flights,
		Hotels:             hotels,
		DayPlans:           dayPlans,
		TotalEstimatedUSD:  roundCents(total),
		BudgetRemainingUSD: roundCents(budget - total),
		ChangesSummary:     changes,
	}
}

func destinationOf(st *pipelineState) string {
	if st.enriched.DestinationCity != "" {
		return st.enriched.DestinationCity
	}
	return st.trip.Destination
}

// knownStyleTags keeps only recognized tags; anything else from the model
// is dropped on merge rather than trusted downstream.
func knownStyleTags(tags []string) []string {
	known := map[string]bool{}
	for _, tag := range models.StyleTags {
		known[tag] = true
	}
	kept := []string{}
	for _, tag := range tags {
		if known[tag] {
			kept = append(kept, tag)
		}
	}
	return kept
}
