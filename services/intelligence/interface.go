package intelligence

import "context"

// ReasoningService is the inference collaborator used by the planning
// pipeline for enrichment, ranking, curation, optimization and review.
// Implementations must not retry on their own; a failure surfaces to the
// caller as-is.
type ReasoningService interface {
	// GenerateText sends a system instruction and a user payload and
	// returns the raw text response.
	GenerateText(ctx context.Context, system, user string) (string, error)

	// GenerateJSON is the JSON-mode variant: the response is decoded into
	// out. Malformed JSON is an error.
	GenerateJSON(ctx context.Context, system, user string, out any) error
}

// System instructions for each pipeline task. The offline service routes
// on these, so stages must pass them verbatim.
const (
	SystemPreferenceParser = "You are a travel preference parser. Extract and enrich vacation preferences."
	SystemFlightAnalyst    = "You are a flight value analyst. Rank flights by value score (price, duration, airline quality)."
	SystemHotelCurator     = "You are a hotel curator. Select the best 2 hotels that match the traveler's style and fit the budget."
	SystemItineraryPlanner = "You are an expert travel itinerary planner. Create a detailed, realistic day-by-day plan."
	SystemBudgetOptimizer  = "You are a travel budget optimizer. Suggest minimal changes to fit within budget."
	SystemPlanReviewer     = "You are a senior travel consultant reviewing an AI-generated itinerary for quality and coherence."
)
