package planner

import (
	"sync"
	"time"

	"vacaplan/models"
)

// Registry is the process-wide map of planning sessions. Each session has
// exactly one writer (its pipeline goroutine); readers receive copies, so
// a snapshot is never mutated underneath a caller.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*models.SessionState
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*models.SessionState)}
}

// Register stores a fresh session state for the given identifier.
func (r *Registry) Register(sessionID string, trip models.TripRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = &models.SessionState{
		SessionID:      sessionID,
		Trip:           trip,
		CompletedSteps: []string{},
		CreatedAt:      time.Now(),
	}
}

// Snapshot returns a copy of the current session state.
func (r *Registry) Snapshot(sessionID string) (models.SessionState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.sessions[sessionID]
	if !ok {
		return models.SessionState{}, false
	}
	return copyState(state), true
}

// update applies fn to the stored session state under the write lock.
func (r *Registry) update(sessionID string, fn func(*models.SessionState)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[sessionID]
	if !ok {
		return false
	}
	fn(state)
	return true
}

// EvictCompletedBefore removes completed sessions created before the cutoff
// and reports how many were dropped. Retention is the operator's call; the
// default deployment never calls this.
func (r *Registry) EvictCompletedBefore(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, state := range r.sessions {
		if state.Complete && state.CreatedAt.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

func copyState(s *models.SessionState) models.SessionState {
	out := *s
	out.CompletedSteps = append([]string(nil), s.CompletedSteps...)
	out.AvailableSlots = append([]string(nil), s.AvailableSlots...)
	out.Flights = append([]models.FlightOption(nil), s.Flights...)
	out.Hotels = append([]models.HotelOption(nil), s.Hotels...)
	out.DayPlans = append([]models.DayPlan(nil), s.DayPlans...)
	if s.Enriched != nil {
		enriched := *s.Enriched
		out.Enriched = &enriched
	}
	if s.Itinerary != nil {
		itinerary := *s.Itinerary
		out.Itinerary = &itinerary
	}
	return out
}
