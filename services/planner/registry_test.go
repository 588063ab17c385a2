package planner

import (
	"testing"
	"time"

	"vacaplan/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryUnknownSession(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Snapshot("missing")
	assert.False(t, ok)
	assert.False(t, r.update("missing", func(*models.SessionState) {}))
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Register("s1", models.TripRequest{Destination: "Bali"})
	r.update("s1", func(s *models.SessionState) {
		s.CompletedSteps = append(s.CompletedSteps, "preference_parser")
		s.Flights = []models.FlightOption{{Airline: "Garuda Indonesia"}}
		s.Itinerary = &models.TripItinerary{Destination: "Bali"}
	})

	snap, ok := r.Snapshot("s1")
	require.True(t, ok)

	// Mutating the snapshot must not leak into the registry.
	snap.CompletedSteps[0] = "tampered"
	snap.Flights[0].Airline = "tampered"
	snap.Itinerary.Destination = "tampered"

	fresh, _ := r.Snapshot("s1")
	assert.Equal(t, "preference_parser", fresh.CompletedSteps[0])
	assert.Equal(t, "Garuda Indonesia", fresh.Flights[0].Airline)
	assert.Equal(t, "Bali", fresh.Itinerary.Destination)
}

func TestRegistryEvictCompletedBefore(t *testing.T) {
	r := NewRegistry()
	r.Register("done-old", models.TripRequest{})
	r.Register("done-new", models.TripRequest{})
	r.Register("running-old", models.TripRequest{})

	old := time.Now().Add(-2 * time.Hour)
	r.update("done-old", func(s *models.SessionState) { s.Complete = true; s.CreatedAt = old })
	r.update("done-new", func(s *models.SessionState) { s.Complete = true })
	r.update("running-old", func(s *models.SessionState) { s.CreatedAt = old })

	evicted := r.EvictCompletedBefore(time.Now().Add(-time.Hour))
	assert.Equal(t, 1, evicted)

	_, ok := r.Snapshot("done-old")
	assert.False(t, ok)
	_, ok = r.Snapshot("done-new")
	assert.True(t, ok)
	_, ok = r.Snapshot("running-old")
	assert.True(t, ok)
}
