package providers

import (
	"context"
	"sort"
	"strings"

	"vacaplan/models"
)

// CatalogActivities serves activity suggestions from a built-in per-
// destination catalog, ranked by tag overlap with the requested style.
// Ranking is deterministic: overlap count descending, original catalog
// order on ties.
type CatalogActivities struct{}

func (CatalogActivities) Suggestions(ctx context.Context, destination string, styleTags []string, durationDays int) ([]models.Activity, error) {
	key := strings.ToLower(strings.TrimSpace(strings.SplitN(destination, ",", 2)[0]))
	pool, ok := activityCatalog[key]
	if !ok {
		pool = activityCatalog["default"]
	}

	wanted := map[string]bool{}
	for _, tag := range styleTags {
		wanted[tag] = true
	}

	ranked := make([]models.Activity, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return tagOverlap(ranked[i], wanted) > tagOverlap(ranked[j], wanted)
	})

	// Enough to fill the itinerary at 4 activities per day.
	if limit := durationDays * 4; limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func tagOverlap(a models.Activity, wanted map[string]bool) int {
	n := 0
	for _, tag := range a.Tags {
		if wanted[tag] {
			n++
		}
	}
	return n
}

var activityCatalog = map[string][]models.Activity{
	"bali": {
		{Name: "Tegallalang Rice Terraces", Tags: []string{"culture", "nature"}, CostUSD: 5, DurationHours: 3},
		{Name: "Tirta Empul Holy Spring Temple", Tags: []string{"culture", "spiritual"}, CostUSD: 3, DurationHours: 2},
		{Name: "Scuba diving at Crystal Bay", Tags: []string{"adventure", "beach"}, CostUSD: 80, DurationHours: 4},
		{Name: "Kecak Fire Dance at Uluwatu", Tags: []string{"culture", "evening"}, CostUSD: 15, DurationHours: 2},
		{Name: "Mount Batur Volcano Sunrise Trek", Tags: []string{"adventure", "nature"}, CostUSD: 60, DurationHours: 6},
		{Name: "Traditional Balinese Cooking Class", Tags: []string{"food", "culture"}, CostUSD: 45, DurationHours: 4},
		{Name: "Canggu Surf Lesson", Tags: []string{"adventure", "beach"}, CostUSD: 35, DurationHours: 2},
		{Name: "Tanah Lot Sea Temple", Tags: []string{"culture", "sunset"}, CostUSD: 5, DurationHours: 2},
		{Name: "Ubud Monkey Forest", Tags: []string{"nature", "family"}, CostUSD: 5, DurationHours: 2},
		{Name: "Jimbaran Seafood BBQ Dinner", Tags: []string{"food", "beach", "evening"}, CostUSD: 30, DurationHours: 2},
		{Name: "Kintamani Coffee Plantation Tour", Tags: []string{"food", "culture"}, CostUSD: 20, DurationHours: 3},
		{Name: "Nusa Lembongan Island Day Trip", Tags: []string{"beach", "adventure"}, CostUSD: 50, DurationHours: 8},
		{Name: "Balinese Spa & Traditional Massage", Tags: []string{"wellness"}, CostUSD: 25, DurationHours: 2},
		{Name: "Seminyak Boutique Shopping", Tags: []string{"shopping", "leisure"}, CostUSD: 0, DurationHours: 3},
		{Name: "Potato Head Beach Club", Tags: []string{"beach", "leisure", "evening"}, CostUSD: 20, DurationHours: 4},
	},
	"default": {
		{Name: "City Walking Tour", Tags: []string{"culture"}, CostUSD: 20, DurationHours: 3},
		{Name: "Local Food Market Visit", Tags: []string{"food"}, CostUSD: 15, DurationHours: 2},
		{Name: "Museum & Heritage Sites", Tags: []string{"culture"}, CostUSD: 10, DurationHours: 3},
		{Name: "Day Hike / Nature Walk", Tags: []string{"adventure", "nature"}, CostUSD: 10, DurationHours: 5},
		{Name: "Cooking Class", Tags: []string{"food", "culture"}, CostUSD: 50, DurationHours: 4},
		{Name: "Sunset Boat Cruise", Tags: []string{"leisure", "sunset"}, CostUSD: 40, DurationHours: 2},
		{Name: "Spa Day", Tags: []string{"wellness"}, CostUSD: 60, DurationHours: 3},
	},
}
