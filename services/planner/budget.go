package planner

import (
	"math"

	"vacaplan/models"
)

// CostBreakdown is the per-component cost summary of an assembled plan.
type CostBreakdown struct {
	FlightsUSD    float64 `json:"flights_usd"`
	HotelsUSD     float64 `json:"hotels_usd"`
	ActivitiesUSD float64 `json:"activities_usd"`
	TotalUSD      float64 `json:"total_usd"`
}

// CalculateTotal sums costs across all trip components.
func CalculateTotal(flights []models.FlightOption, hotels []models.HotelOption, dayPlans []models.DayPlan) CostBreakdown {
	var b CostBreakdown
	for _, f := range flights {
		b.FlightsUSD += f.PriceUSD
	}
	for _, h := range hotels {
		b.HotelsUSD += h.TotalUSD
	}
	for _, d := range dayPlans {
		b.ActivitiesUSD += d.EstimatedCostUSD
	}
	b.FlightsUSD = roundCents(b.FlightsUSD)
	b.HotelsUSD = roundCents(b.HotelsUSD)
	b.ActivitiesUSD = roundCents(b.ActivitiesUSD)
	b.TotalUSD = roundCents(b.FlightsUSD + b.HotelsUSD + b.ActivitiesUSD)
	return b
}

// WithinBudget reports whether the plan fits the given budget.
func (b CostBreakdown) WithinBudget(budget float64) bool {
	return b.TotalUSD <= budget
}

// Overage returns the amount by which the plan exceeds the budget, or 0.
func (b CostBreakdown) Overage(budget float64) float64 {
	return math.Max(0, roundCents(b.TotalUSD-budget))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
