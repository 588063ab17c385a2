package planner

import (
	"context"
	"fmt"
	"runtime"

	"vacaplan/models"
	"vacaplan/services/intelligence"
	"vacaplan/services/providers"

	"go.uber.org/zap"
)

// StageNames is the fixed pipeline order. CompletedSteps of a successful
// session equals exactly this list.
var StageNames = []string{
	"preference_parser",
	"calendar_checker",
	"flight_searcher",
	"hotel_searcher",
	"activity_curator",
	"budget_optimizer",
	"plan_reviewer",
}

// Orchestrator drives the seven planning stages for one session at a time.
// Run is launched as a goroutine per session; instances are stateless and
// safe for concurrent sessions.
type Orchestrator struct {
	Registry      *Registry
	Reasoner      intelligence.ReasoningService
	Calendar      providers.CalendarProvider
	Flights       providers.FlightProvider
	Hotels        providers.HotelProvider
	Activities    providers.ActivityProvider
	DefaultOrigin string
	Logger        *zap.Logger
}

// pipelineState accumulates stage outputs across the run. Stages read it
// and return partial updates; only the orchestrator mutates it.
type pipelineState struct {
	trip      models.TripRequest
	enriched  models.EnrichedTrip
	slots     []string
	flights   []models.FlightOption
	hotels    []models.HotelOption
	dayPlans  []models.DayPlan
	itinerary *models.TripItinerary
}

// stageUpdate is the partial state produced by one stage. Nil/empty fields
// leave the session untouched.
type stageUpdate struct {
	enriched  *models.EnrichedTrip
	slots     []string
	flights   []models.FlightOption
	hotels    []models.HotelOption
	dayPlans  []models.DayPlan
	itinerary *models.TripItinerary
	errorNote string
}

type stage struct {
	name string
	run  func(ctx context.Context, st *pipelineState) (stageUpdate, error)
}

func (o *Orchestrator) stages() []stage {
	return []stage{
		{"preference_parser", o.runPreferenceParser},
		{"calendar_checker", o.runCalendarChecker},
		{"flight_searcher", o.runFlightSearcher},
		{"hotel_searcher", o.runHotelSearcher},
		{"activity_curator", o.runActivityCurator},
		{"budget_optimizer", o.runBudgetOptimizer},
		{"plan_reviewer", o.runPlanReviewer},
	}
}

// Run executes the full pipeline for a registered session. Stage failures
// are terminal: the error is recorded on the session, remaining stages are
// skipped, and Complete is still set. Nothing here retries and nothing
// crosses session boundaries.
func (o *Orchestrator) Run(sessionID string) {
	ctx := context.Background()
	logger := o.Logger
	if logger == nil {
		logger = zap.L()
	}

	snap, ok := o.Registry.Snapshot(sessionID)
	if !ok {
		logger.Error("Planning run for unknown session", zap.String("sessionID", sessionID))
		return
	}

	// Complete transitions false->true exactly once, on every exit path.
	defer o.Registry.update(sessionID, func(s *models.SessionState) {
		s.Complete = true
	})

	state := &pipelineState{trip: snap.Trip}

	for _, st := range o.stages() {
		update, err := st.run(ctx, state)
		if err != nil {
			logger.Warn("Planning stage failed",
				zap.String("sessionID", sessionID),
				zap.String("stage", st.name),
				zap.Error(err),
			)
			o.Registry.update(sessionID, func(s *models.SessionState) {
				s.Error = fmt.Sprintf("%s: %v", st.name, err)
			})
			return
		}

		o.merge(sessionID, st.name, state, update)
		// Yield after each merge so status and stream readers are not
		// starved while the pipeline is hot.
		runtime.Gosched()
	}

	logger.Sugar().Infof("Planning complete for session %s", sessionID)
}

// merge applies a stage's partial update to the accumulated state and the
// registered session, and records the stage completion.
func (o *Orchestrator) merge(sessionID, stageName string, state *pipelineState, update stageUpdate) {
	if update.enriched != nil {
		state.enriched = *update.enriched
	}
	if update.slots != nil {
		state.slots = update.slots
	}
	if update.flights != nil {
		state.flights = update.flights
	}
	if update.hotels != nil {
		state.hotels = update.hotels
	}
	if update.dayPlans != nil {
		state.dayPlans = update.dayPlans
	}
	if update.itinerary != nil {
		state.itinerary = update.itinerary
	}

	o.Registry.update(sessionID, func(s *models.SessionState) {
		if update.enriched != nil {
			enriched := *update.enriched
			s.Enriched = &enriched
		}
		if update.slots != nil {
			s.AvailableSlots = update.slots
		}
		if update.flights != nil {
			s.Flights = update.flights
		}
		if update.hotels != nil {
			s.Hotels = update.hotels
		}
		if update.dayPlans != nil {
			s.DayPlans = update.dayPlans
		}
		if update.itinerary != nil {
			itinerary := *update.itinerary
			s.Itinerary = &itinerary
		}
		if update.errorNote != "" {
			if s.Error != "" {
				s.Error += "; "
			}
			s.Error += update.errorNote
		}
		for _, done := range s.CompletedSteps {
			if done == stageName {
				return
			}
		}
		s.CompletedSteps = append(s.CompletedSteps, stageName)
	})
}
