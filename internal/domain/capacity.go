package domain

import "github.com/shopspring/decimal"

// LoadSummary is the single authoritative capacity computation for a tour.
// UI capacity bars and the booking engine's pre-write checks both read it so
// utilization is never derived two different ways.
type LoadSummary struct {
	TotalLoaded        decimal.Decimal
	UtilizationPercent float64
	Overloaded         bool
}

// ComputeLoad sums the tonnage over all stops and compares it against the
// tour's combined capacity. Pure function of its input; a tour with no stops
// yields zero load and no overload.
//
// Exactly-at-capacity is valid: only a strictly greater load is flagged.
// Overload is advisory, dispatchers may knowingly run a tour heavy.
func ComputeLoad(t *Tour) LoadSummary {
	total := decimal.Zero
	for i := range t.Stops {
		total = total.Add(t.Stops[i].Tonnage)
	}

	combined := t.Vehicle.CombinedCapacity()

	var utilization float64
	if combined.IsPositive() {
		utilization = total.Div(combined).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return LoadSummary{
		TotalLoaded:        total,
		UtilizationPercent: utilization,
		Overloaded:         total.GreaterThan(combined),
	}
}
