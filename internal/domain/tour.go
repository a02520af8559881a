package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TourStatus is the tour's own lifecycle, independent of order statuses.
type TourStatus string

const (
	TourDraft      TourStatus = "draft"
	TourPlanned    TourStatus = "planned"
	TourReleased   TourStatus = "released"
	TourInProgress TourStatus = "in_progress"
	TourCompleted  TourStatus = "completed"
)

// VehicleConfig describes the declared capacity of a tour's vehicle:
// a motor unit, optionally pulling a trailer.
type VehicleConfig struct {
	MotorUnitCapacity decimal.Decimal
	TrailerCapacity   decimal.Decimal
	HasTrailer        bool
}

// CombinedCapacity is the tour-level capacity ceiling: motor unit plus
// trailer when one is coupled.
func (v VehicleConfig) CombinedCapacity() decimal.Decimal {
	if v.HasTrailer {
		return v.MotorUnitCapacity.Add(v.TrailerCapacity)
	}
	return v.MotorUnitCapacity
}

// Stop books part or all of one order's tonnage onto one tour. Address and
// delivery mode are snapshots taken at booking time so the tour document
// stays accurate even if the order is edited later.
type Stop struct {
	OrderID      string
	Position     int
	Tonnage      decimal.Decimal
	Address      string
	DeliveryMode DeliveryMode
}

// Tour aggregate: a planned vehicle run holding an ordered list of stops.
// Stop positions are a dense 1-based sequence; every mutation below keeps
// that invariant.
type Tour struct {
	TourID  string
	Name    string
	Date    time.Time
	Vehicle VehicleConfig
	Status  TourStatus
	Stops   []Stop
}

// FindStop returns the index of the stop booking the given order, if any.
// A tour holds at most one stop per order.
func (t *Tour) FindStop(orderID string) (int, bool) {
	for i := range t.Stops {
		if t.Stops[i].OrderID == orderID {
			return i, true
		}
	}
	return -1, false
}

// AppendStop places a stop at the end of the sequence, assigning the next
// free position.
func (t *Tour) AppendStop(s Stop) {
	s.Position = len(t.Stops) + 1
	t.Stops = append(t.Stops, s)
}

// RemoveStop deletes the stop for the given order and renumbers the
// remainder. Returns false when no such stop exists (a no-op, not an error).
func (t *Tour) RemoveStop(orderID string) bool {
	i, ok := t.FindStop(orderID)
	if !ok {
		return false
	}
	t.Stops = append(t.Stops[:i], t.Stops[i+1:]...)
	t.renumber()
	return true
}

// renumber restores the dense 1..N position sequence, preserving relative
// order.
func (t *Tour) renumber() {
	for i := range t.Stops {
		t.Stops[i].Position = i + 1
	}
}

// BookedTonnage returns the tonnage this tour carries for one order, or
// zero when the order has no stop here.
func (t *Tour) BookedTonnage(orderID string) decimal.Decimal {
	if i, ok := t.FindStop(orderID); ok {
		return t.Stops[i].Tonnage
	}
	return decimal.Zero
}
